package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted on a receipt.
const (
	PaymentBankTransfer = "bank_transfer"
	PaymentDirectDebit  = "direct_debit"
	PaymentCash         = "cash"
	PaymentCheque       = "cheque"
	PaymentCard         = "card"
	PaymentBizum        = "bizum"
	PaymentOther        = "other"
)

// Common expense concepts. The concept field is free text; these are the
// values the office uses.
var ExpenseConcepts = []string{
	"Community fees", "Property tax", "Insurance", "Repairs",
	"Maintenance", "Utilities", "Administration", "Other",
}

// Receipt aggregates one or more months of one or more contracts. Once
// generated it is never edited, only deleted.
type Receipt struct {
	ID                    uuid.UUID       `json:"id" db:"id"`
	Number                string          `json:"number" db:"number"`
	IssuedAt              time.Time       `json:"issued_at" db:"issued_at"`
	PaymentMethod         *string         `json:"payment_method,omitempty" db:"payment_method"`
	PaymentReference      *string         `json:"payment_reference,omitempty" db:"payment_reference"`
	Notes                 *string         `json:"notes,omitempty" db:"notes"`
	TotalGross            decimal.Decimal `json:"total_gross" db:"total_gross"`
	TotalFee              decimal.Decimal `json:"total_fee" db:"total_fee"`
	TotalVAT              decimal.Decimal `json:"total_vat" db:"total_vat"`
	TotalNet              decimal.Decimal `json:"total_net" db:"total_net"`
	DeductibleExpenses    decimal.Decimal `json:"deductible_expenses" db:"deductible_expenses"`
	NonDeductibleExpenses decimal.Decimal `json:"non_deductible_expenses" db:"non_deductible_expenses"`
	FinalNet              decimal.Decimal `json:"final_net" db:"final_net"`
	PDFKey                *string         `json:"pdf_key,omitempty" db:"pdf_key"`
	CreatedAt             time.Time       `json:"created_at" db:"created_at"`

	Lines    []*ReceiptLine    `json:"lines,omitempty" db:"-"`
	Expenses []*ReceiptExpense `json:"expenses,omitempty" db:"-"`
}

// ContractIDs lists the distinct contracts on the receipt in line order.
func (r *Receipt) ContractIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, l := range r.Lines {
		if !seen[l.ContractID] {
			seen[l.ContractID] = true
			ids = append(ids, l.ContractID)
		}
	}
	return ids
}

// ReceiptLine is one contract month on a receipt. Late marks a month
// before the month the receipt was issued in.
type ReceiptLine struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ReceiptID  uuid.UUID       `json:"receipt_id" db:"receipt_id"`
	ContractID uuid.UUID       `json:"contract_id" db:"contract_id"`
	Month      int             `json:"month" db:"month"`
	Year       int             `json:"year" db:"year"`
	Gross      decimal.Decimal `json:"gross" db:"gross"`
	Fee        decimal.Decimal `json:"fee" db:"fee"`
	VAT        decimal.Decimal `json:"vat" db:"vat"`
	Net        decimal.Decimal `json:"net" db:"net"`
	Late       bool            `json:"late" db:"late"`
}

func (l *ReceiptLine) Period() Period {
	return Period{Month: l.Month, Year: l.Year}
}

// ReceiptExpense is an additional expense itemized on a receipt. Deductible
// expenses reduce the owner's final net.
type ReceiptExpense struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	ReceiptID   uuid.UUID       `json:"receipt_id" db:"receipt_id"`
	ContractID  uuid.UUID       `json:"contract_id" db:"contract_id"`
	Concept     string          `json:"concept" db:"concept"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Deductible  bool            `json:"deductible" db:"deductible"`
	Description *string         `json:"description,omitempty" db:"description"`
}

// DTOs for requests and responses

type ExpenseItem struct {
	Concept     string          `json:"concept" validate:"required,max=100"`
	Amount      decimal.Decimal `json:"amount" validate:"decimal_gt=0"`
	Deductible  bool            `json:"deductible"`
	Description string          `json:"description" validate:"max=500"`
}

// ReceiptContractRequest selects the months billed for one contract, either
// as an explicit list or as a start month plus a number of months.
type ReceiptContractRequest struct {
	ContractID     uuid.UUID     `json:"contract_id" validate:"required"`
	Periods        []Period      `json:"periods"`
	StartMonth     int           `json:"start_month" validate:"omitempty,min=1,max=12"`
	StartYear      int           `json:"start_year" validate:"omitempty,min=1900,max=2200"`
	NumberOfMonths int           `json:"number_of_months" validate:"omitempty,min=1,max=120"`
	Expenses       []ExpenseItem `json:"expenses" validate:"dive"`
}

// SelectedPeriods resolves the months requested for the contract.
func (r *ReceiptContractRequest) SelectedPeriods() []Period {
	if len(r.Periods) > 0 {
		return r.Periods
	}
	if r.NumberOfMonths <= 0 {
		return nil
	}
	periods := make([]Period, 0, r.NumberOfMonths)
	p := Period{Month: r.StartMonth, Year: r.StartYear}
	for i := 0; i < r.NumberOfMonths; i++ {
		periods = append(periods, p)
		p = p.Next()
	}
	return periods
}

type GenerateReceiptRequest struct {
	Number           string                   `json:"number" validate:"max=64"`
	IssuedAt         *time.Time               `json:"issued_at"`
	PaymentMethod    string                   `json:"payment_method" validate:"omitempty,oneof=bank_transfer direct_debit cash cheque card bizum other"`
	PaymentReference string                   `json:"payment_reference" validate:"max=200"`
	Notes            string                   `json:"notes" validate:"max=2000"`
	Settle           bool                     `json:"settle"`
	Contracts        []ReceiptContractRequest `json:"contracts" validate:"required,min=1,dive"`
}

type GenerateReceiptResponse struct {
	Receipt     *Receipt         `json:"receipt"`
	Settlements []*PeriodOutcome `json:"settlements,omitempty"`
	PDFError    string           `json:"pdf_error,omitempty"`
}
