package document

import (
	"github.com/segyhp/rental-manager/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Agency is the managing agency printed in document headers.
type Agency struct {
	Name    string
	Address string
	TaxID   string
	Phone   string
	Email   string
}

// ReceiptSection groups the lines and expenses of one contract.
type ReceiptSection struct {
	Contract *domain.Contract
	Owner    *domain.Owner
	Tenant   *domain.Tenant
	Address  string
	Lines    []*domain.ReceiptLine
	Expenses []*domain.ReceiptExpense
	Totals   domain.MonthlySplit
}

type ReceiptView struct {
	Agency   Agency
	Receipt  *domain.Receipt
	Sections []*ReceiptSection
}

// NewReceiptView groups the receipt by contract in line order. Contracts
// missing from the map still get a section, without party details.
func NewReceiptView(agency Agency, receipt *domain.Receipt, contracts map[uuid.UUID]*domain.Contract) ReceiptView {
	view := ReceiptView{Agency: agency, Receipt: receipt}

	sections := make(map[uuid.UUID]*ReceiptSection)
	for _, id := range receipt.ContractIDs() {
		section := &ReceiptSection{
			Totals: domain.MonthlySplit{Gross: decimal.Zero, Fee: decimal.Zero, VAT: decimal.Zero, Net: decimal.Zero},
		}
		if contract, ok := contracts[id]; ok {
			section.Contract = contract
			section.Owner = contract.Owner
			section.Tenant = contract.PrimaryTenant()
			if contract.Property != nil {
				section.Address = contract.Property.Address
			}
		}
		sections[id] = section
		view.Sections = append(view.Sections, section)
	}

	for _, line := range receipt.Lines {
		section := sections[line.ContractID]
		section.Lines = append(section.Lines, line)
		section.Totals = section.Totals.Add(domain.MonthlySplit{Gross: line.Gross, Fee: line.Fee, VAT: line.VAT, Net: line.Net})
	}
	for _, expense := range receipt.Expenses {
		if section, ok := sections[expense.ContractID]; ok {
			section.Expenses = append(section.Expenses, expense)
		}
	}

	return view
}

type CertificateView struct {
	Agency      Agency
	Certificate *domain.AnnualCertificate
}
