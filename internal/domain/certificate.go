package domain

import (
	"time"

	"github.com/google/uuid"
)

// CertificateBasis chooses which months feed an annual certificate.
type CertificateBasis string

const (
	// BasisSettled uses every settlement recorded in the year.
	BasisSettled CertificateBasis = "settled"
	// BasisAccrued assumes every accruing month of the year was collected.
	BasisAccrued CertificateBasis = "accrued"
)

func (b CertificateBasis) Valid() bool {
	return b == BasisSettled || b == BasisAccrued
}

type CertificateMonth struct {
	Month  int          `json:"month"`
	Name   string       `json:"name"`
	Totals MonthlySplit `json:"totals"`
}

type CertificateProperty struct {
	PropertyID uuid.UUID          `json:"property_id"`
	Address    string             `json:"address"`
	Contracts  int                `json:"contracts"`
	Totals     MonthlySplit       `json:"totals"`
	Months     []CertificateMonth `json:"months"`
}

// AnnualCertificate is an owner's yearly income statement. Every total is
// a sum of per-line rounded splits, never a rounding of a summed gross.
type AnnualCertificate struct {
	Owner      *Owner                 `json:"owner"`
	Year       int                    `json:"year"`
	Basis      CertificateBasis       `json:"basis"`
	IssuedAt   time.Time              `json:"issued_at"`
	Months     []CertificateMonth     `json:"months"`
	Properties []*CertificateProperty `json:"properties"`
	Totals     MonthlySplit           `json:"totals"`
}

// NewCertificateMonths returns twelve empty month rows.
func NewCertificateMonths(year int) []CertificateMonth {
	months := make([]CertificateMonth, 12)
	for i := range months {
		p := Period{Month: i + 1, Year: year}
		months[i] = CertificateMonth{Month: p.Month, Name: p.MonthName()}
	}
	return months
}
