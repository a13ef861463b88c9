package utils

import (
	"time"

	"github.com/segyhp/rental-manager/internal/domain"
	customError "github.com/segyhp/rental-manager/pkg/errors"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	zero    = decimal.Zero
)

// CalculateMonthlySplit divides one month of gross rent.
// Formula: fee = gross*feePercent/100, vat = fee*vatRate/100, net = gross-fee-vat.
// Each part is computed from unrounded intermediates and rounded to cents on
// its own, half away from zero.
func CalculateMonthlySplit(gross, feePercent, vatRate decimal.Decimal) (domain.MonthlySplit, error) {
	if gross.LessThan(zero) {
		return domain.MonthlySplit{}, customError.WrapInvalidInput("gross rent %s must not be negative", gross)
	}
	if feePercent.LessThan(zero) || feePercent.GreaterThan(hundred) {
		return domain.MonthlySplit{}, customError.WrapInvalidInput("management fee %s%% must be between 0 and 100", feePercent)
	}
	if vatRate.LessThan(zero) {
		return domain.MonthlySplit{}, customError.WrapInvalidInput("VAT rate %s%% must not be negative", vatRate)
	}

	fee := gross.Mul(feePercent).Div(hundred)
	vat := fee.Mul(vatRate).Div(hundred)
	net := gross.Sub(fee).Sub(vat)

	return domain.MonthlySplit{
		Gross: RoundCents(gross),
		Fee:   RoundCents(fee),
		VAT:   RoundCents(vat),
		Net:   RoundCents(net),
	}, nil
}

// RoundCents rounds to 2 decimal places for currency.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MonthsLate counts whole calendar months from the period to asOf's month.
func MonthsLate(p domain.Period, asOf time.Time) int {
	late := p.MonthsUntil(domain.PeriodOf(asOf))
	if late < 0 {
		return 0
	}
	return late
}

// ParseDate parses a YYYY-MM-DD date, returning def when s is empty.
func ParseDate(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	return time.Parse(time.DateOnly, s)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
