package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Owner owns properties and pays the agency a management fee on every
// contract of those properties. The percentage is always read at
// computation time; nothing snapshots it per period.
type Owner struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	FullName             string          `json:"full_name" db:"full_name"`
	TaxID                string          `json:"tax_id" db:"tax_id"`
	Email                *string         `json:"email,omitempty" db:"email"`
	Phone                *string         `json:"phone,omitempty" db:"phone"`
	ManagementFeePercent decimal.Decimal `json:"management_fee_percent" db:"management_fee_percent"`
	IsCompany            bool            `json:"is_company" db:"is_company"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`
}

// Property is a rentable dwelling.
type Property struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OwnerID    uuid.UUID `json:"owner_id" db:"owner_id"`
	Address    string    `json:"address" db:"address"`
	City       *string   `json:"city,omitempty" db:"city"`
	PostalCode *string   `json:"postal_code,omitempty" db:"postal_code"`
	Province   *string   `json:"province,omitempty" db:"province"`
}

// Tenant is a person named on one or more contracts.
type Tenant struct {
	ID         uuid.UUID `json:"id" db:"id"`
	FullName   string    `json:"full_name" db:"full_name"`
	NationalID string    `json:"national_id" db:"national_id"`
	Email      *string   `json:"email,omitempty" db:"email"`
	Phone      *string   `json:"phone,omitempty" db:"phone"`
}

// ContractTenant links a tenant to a contract. One tenant per contract is
// the primary (titular) one.
type ContractTenant struct {
	Tenant
	IsPrimary bool `json:"is_primary" db:"is_primary"`
}
