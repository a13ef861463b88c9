package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ArrearsMonth is one unsettled month. AmountOwed is the contract's current
// rent, not the rent that applied at the time.
type ArrearsMonth struct {
	Period     Period          `json:"period"`
	Label      string          `json:"label"`
	AmountOwed decimal.Decimal `json:"amount_owed"`
	MonthsLate int             `json:"months_late"`
	Split      MonthlySplit    `json:"split"`
}

// ArrearsSummary is derived on demand from the contract and its settlements.
type ArrearsSummary struct {
	ContractID        uuid.UUID       `json:"contract_id"`
	AsOf              Period          `json:"as_of"`
	TotalOwed         decimal.Decimal `json:"total_owed"`
	MonthsPending     int             `json:"months_pending"`
	FirstPendingMonth string          `json:"first_pending_month,omitempty"`
	MonthsLate        int             `json:"months_late"`
	Months            []ArrearsMonth  `json:"months"`
	ComputedAt        time.Time       `json:"computed_at"`
	Version           string          `json:"version,omitempty"`
}

// HasDebt reports whether any month is pending.
func (s *ArrearsSummary) HasDebt() bool {
	return s.MonthsPending > 0
}

// PortfolioArrears folds the summaries of several contracts.
type PortfolioArrears struct {
	AsOf               Period            `json:"as_of"`
	TotalOwed          decimal.Decimal   `json:"total_owed"`
	ContractsChecked   int               `json:"contracts_checked"`
	ContractsInArrears int               `json:"contracts_in_arrears"`
	Contracts          []*ArrearsSummary `json:"contracts"`
	Errors             []string          `json:"errors,omitempty"`
}
