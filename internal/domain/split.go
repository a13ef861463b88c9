package domain

import "github.com/shopspring/decimal"

// DefaultVATRate is the VAT percentage applied to the management fee.
var DefaultVATRate = decimal.NewFromInt(21)

// MonthlySplit is one month of rent divided between the managing agency and
// the owner. Every field is rounded to cents on its own, so Gross may differ
// from Fee+VAT+Net by at most one cent.
type MonthlySplit struct {
	Gross decimal.Decimal `json:"gross"`
	Fee   decimal.Decimal `json:"fee"`
	VAT   decimal.Decimal `json:"vat"`
	Net   decimal.Decimal `json:"net"`
}

// Add sums two already rounded splits field by field.
func (s MonthlySplit) Add(o MonthlySplit) MonthlySplit {
	return MonthlySplit{
		Gross: s.Gross.Add(o.Gross),
		Fee:   s.Fee.Add(o.Fee),
		VAT:   s.VAT.Add(o.VAT),
		Net:   s.Net.Add(o.Net),
	}
}
