package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contract is a lease on one property. Contracts are never deleted; they
// are deactivated instead and stop accruing rent from that month on.
type Contract struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	PropertyID    uuid.UUID       `json:"property_id" db:"property_id"`
	MonthlyRent   decimal.Decimal `json:"monthly_rent" db:"monthly_rent"`
	StartDate     time.Time       `json:"start_date" db:"start_date"`
	EndDate       *time.Time      `json:"end_date,omitempty" db:"end_date"`
	Active        bool            `json:"active" db:"active"`
	DeactivatedAt *time.Time      `json:"deactivated_at,omitempty" db:"deactivated_at"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`

	Property *Property        `json:"property,omitempty" db:"-"`
	Owner    *Owner           `json:"owner,omitempty" db:"-"`
	Tenants  []ContractTenant `json:"tenants,omitempty" db:"-"`
}

// StartPeriod is the first month the contract accrues rent.
func (c *Contract) StartPeriod() Period {
	return PeriodOf(c.StartDate)
}

// LastAccruingPeriod caps asOf at the end-date month and, for an inactive
// contract, at the month it was deactivated. A deactivated contract with no
// recorded deactivation time is treated as deactivated at its last update.
func (c *Contract) LastAccruingPeriod(asOf Period) Period {
	last := asOf
	if c.EndDate != nil {
		last = MinPeriod(last, PeriodOf(*c.EndDate))
	}
	if !c.Active {
		deactivated := c.UpdatedAt
		if c.DeactivatedAt != nil {
			deactivated = *c.DeactivatedAt
		}
		last = MinPeriod(last, PeriodOf(deactivated))
	}
	return last
}

// AccruingPeriods lists the months in [from, to] during which the contract
// accrues rent.
func (c *Contract) AccruingPeriods(from, to Period) []Period {
	first := MaxPeriod(from, c.StartPeriod())
	last := c.LastAccruingPeriod(to)
	return ExpandRange(first, last)
}

// ArrearsVersion fingerprints the contract and owner fields its arrears
// depend on. Rent, fee and accrual bounds can change without a settlement
// being touched, so a cached summary is only reused for the same version.
func (c *Contract) ArrearsVersion() string {
	fee, ownerUpdated := "-", "-"
	if c.Owner != nil {
		fee = c.Owner.ManagementFeePercent.String()
		ownerUpdated = stamp(&c.Owner.UpdatedAt)
	}
	return fmt.Sprintf("rent=%s;fee=%s;active=%t;start=%s;end=%s;deactivated=%s;updated=%s;owner=%s",
		c.MonthlyRent.String(), fee, c.Active, stamp(&c.StartDate), stamp(c.EndDate),
		stamp(c.DeactivatedAt), stamp(&c.UpdatedAt), ownerUpdated)
}

func stamp(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// PrimaryTenant returns the titular tenant, falling back to the first one.
func (c *Contract) PrimaryTenant() *Tenant {
	for i := range c.Tenants {
		if c.Tenants[i].IsPrimary {
			return &c.Tenants[i].Tenant
		}
	}
	if len(c.Tenants) > 0 {
		return &c.Tenants[0].Tenant
	}
	return nil
}
