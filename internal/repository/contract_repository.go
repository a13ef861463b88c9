package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/segyhp/rental-manager/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const contractSelect = `
	SELECT c.id, c.property_id, c.monthly_rent, c.start_date, c.end_date, c.active,
		c.deactivated_at, c.created_at, c.updated_at,
		p.owner_id AS property_owner_id, p.address AS property_address,
		p.city AS property_city, p.postal_code AS property_postal_code,
		p.province AS property_province,
		o.full_name AS owner_full_name, o.tax_id AS owner_tax_id,
		o.email AS owner_email, o.phone AS owner_phone,
		o.management_fee_percent AS owner_management_fee_percent,
		o.is_company AS owner_is_company,
		o.created_at AS owner_created_at, o.updated_at AS owner_updated_at
	FROM contracts c
	JOIN properties p ON p.id = c.property_id
	JOIN owners o ON o.id = p.owner_id
`

// contractRow is one contract joined with its property and owner.
type contractRow struct {
	domain.Contract

	PropertyOwnerID    uuid.UUID `db:"property_owner_id"`
	PropertyAddress    string    `db:"property_address"`
	PropertyCity       *string   `db:"property_city"`
	PropertyPostalCode *string   `db:"property_postal_code"`
	PropertyProvince   *string   `db:"property_province"`

	OwnerFullName             string          `db:"owner_full_name"`
	OwnerTaxID                string          `db:"owner_tax_id"`
	OwnerEmail                *string         `db:"owner_email"`
	OwnerPhone                *string         `db:"owner_phone"`
	OwnerManagementFeePercent decimal.Decimal `db:"owner_management_fee_percent"`
	OwnerIsCompany            bool            `db:"owner_is_company"`
	OwnerCreatedAt            time.Time       `db:"owner_created_at"`
	OwnerUpdatedAt            time.Time       `db:"owner_updated_at"`
}

func (row *contractRow) toDomain() *domain.Contract {
	contract := row.Contract
	contract.Property = &domain.Property{
		ID:         row.PropertyID,
		OwnerID:    row.PropertyOwnerID,
		Address:    row.PropertyAddress,
		City:       row.PropertyCity,
		PostalCode: row.PropertyPostalCode,
		Province:   row.PropertyProvince,
	}
	contract.Owner = &domain.Owner{
		ID:                   row.PropertyOwnerID,
		FullName:             row.OwnerFullName,
		TaxID:                row.OwnerTaxID,
		Email:                row.OwnerEmail,
		Phone:                row.OwnerPhone,
		ManagementFeePercent: row.OwnerManagementFeePercent,
		IsCompany:            row.OwnerIsCompany,
		CreatedAt:            row.OwnerCreatedAt,
		UpdatedAt:            row.OwnerUpdatedAt,
	}
	return &contract
}

type contractRepository struct {
	db *sqlx.DB
}

func NewContractRepository(db *sqlx.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	query := contractSelect + `WHERE c.id = $1`

	var row contractRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	contract := row.toDomain()

	tenantsQuery := `
		SELECT t.id, t.full_name, t.national_id, t.email, t.phone, ct.is_primary
		FROM contract_tenants ct
		JOIN tenants t ON t.id = ct.tenant_id
		WHERE ct.contract_id = $1
		ORDER BY ct.is_primary DESC, t.full_name ASC
	`
	var tenants []domain.ContractTenant
	if err := r.db.SelectContext(ctx, &tenants, tenantsQuery, id); err != nil {
		return nil, err
	}
	contract.Tenants = tenants

	return contract, nil
}

func (r *contractRepository) ListAll(ctx context.Context) ([]*domain.Contract, error) {
	query := contractSelect + `ORDER BY c.active DESC, c.start_date ASC, c.id ASC`
	return r.list(ctx, query)
}

func (r *contractRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Contract, error) {
	query := contractSelect + `WHERE p.owner_id = $1 ORDER BY p.address ASC, c.start_date ASC`
	return r.list(ctx, query, ownerID)
}

func (r *contractRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Contract, error) {
	var rows []contractRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	contracts := make([]*domain.Contract, 0, len(rows))
	for i := range rows {
		contracts = append(contracts, rows[i].toDomain())
	}
	return contracts, nil
}
