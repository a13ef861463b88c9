package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settlement records that a contract's rent for one month was liquidated.
// At most one exists per (contract, month, year).
type Settlement struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ContractID uuid.UUID       `json:"contract_id" db:"contract_id"`
	Month      int             `json:"month" db:"month"`
	Year       int             `json:"year" db:"year"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	SettledAt  time.Time       `json:"settled_at" db:"settled_at"`
	Notes      *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

func (s *Settlement) Period() Period {
	return Period{Month: s.Month, Year: s.Year}
}

// Outcomes of a single period inside a range settlement.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// PeriodOutcome is the tagged result of settling one month of a batch.
type PeriodOutcome struct {
	Period     Period      `json:"period"`
	Outcome    string      `json:"outcome"`
	Reason     string      `json:"reason,omitempty"`
	Settlement *Settlement `json:"settlement,omitempty"`
	Err        error       `json:"-"`
}

// RangeResult reports every month of a range settlement in chronological
// order. The batch is best effort: a failed month does not stop the rest.
type RangeResult struct {
	ContractID uuid.UUID        `json:"contract_id"`
	Outcomes   []*PeriodOutcome `json:"outcomes"`
	Settled    int              `json:"settled"`
	Failed     int              `json:"failed"`
}

// Failures returns the outcomes that did not settle.
func (r *RangeResult) Failures() []*PeriodOutcome {
	var failed []*PeriodOutcome
	for _, o := range r.Outcomes {
		if o.Outcome == OutcomeError {
			failed = append(failed, o)
		}
	}
	return failed
}

// Settlements returns the records written by the batch.
func (r *RangeResult) Settlements() []*Settlement {
	settled := make([]*Settlement, 0, r.Settled)
	for _, o := range r.Outcomes {
		if o.Settlement != nil {
			settled = append(settled, o.Settlement)
		}
	}
	return settled
}

// DTOs for requests

type SettleMonthRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"decimal_gte=0"`
	Notes  string          `json:"notes" validate:"max=1000"`
}

type SettleRangeRequest struct {
	FromMonth int             `json:"from_month" validate:"required,min=1,max=12"`
	FromYear  int             `json:"from_year" validate:"required,min=1900,max=2200"`
	ToMonth   int             `json:"to_month" validate:"required,min=1,max=12"`
	ToYear    int             `json:"to_year" validate:"required,min=1900,max=2200"`
	Amount    decimal.Decimal `json:"amount" validate:"decimal_gte=0"`
	Notes     string          `json:"notes" validate:"max=1000"`
}

type SettledResponse struct {
	ContractID uuid.UUID `json:"contract_id"`
	Period     Period    `json:"period"`
	Settled    bool      `json:"settled"`
}
