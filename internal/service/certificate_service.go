package service

import (
	"context"
	"errors"
	"time"

	"github.com/segyhp/rental-manager/internal/config"
	"github.com/segyhp/rental-manager/internal/document"
	"github.com/segyhp/rental-manager/internal/domain"
	"github.com/segyhp/rental-manager/internal/export"
	"github.com/segyhp/rental-manager/internal/repository"
	customError "github.com/segyhp/rental-manager/pkg/errors"
	"github.com/segyhp/rental-manager/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CertificateService builds an owner's annual income certificate from the
// months of the year, either as settled or as accrued.
type CertificateService struct {
	OwnerRepo      repository.OwnerRepository
	ContractRepo   repository.ContractRepository
	SettlementRepo repository.SettlementRepository
	renderer       PDFRenderer
	config         *config.Config
	now            func() time.Time
}

func NewCertificateService(
	ownerRepo repository.OwnerRepository,
	contractRepo repository.ContractRepository,
	settlementRepo repository.SettlementRepository,
	renderer PDFRenderer,
	config *config.Config,
) *CertificateService {
	return &CertificateService{
		OwnerRepo:      ownerRepo,
		ContractRepo:   contractRepo,
		SettlementRepo: settlementRepo,
		renderer:       renderer,
		config:         config,
		now:            time.Now,
	}
}

// certificateLine is one contract month feeding the certificate.
type certificateLine struct {
	contract *domain.Contract
	month    int
	gross    decimal.Decimal
}

// AnnualCertificate aggregates one year of an owner's contracts. An empty
// basis means settled.
func (s *CertificateService) AnnualCertificate(ctx context.Context, ownerID uuid.UUID, year int, basis domain.CertificateBasis) (*domain.AnnualCertificate, error) {
	if year < domain.MinYear || year > domain.MaxYear {
		return nil, customError.WrapInvalidInput("year %d must be between %d and %d", year, domain.MinYear, domain.MaxYear)
	}
	if basis == "" {
		basis = domain.BasisSettled
	}
	if !basis.Valid() {
		return nil, customError.WrapInvalidInput("basis %q must be %q or %q", basis, domain.BasisSettled, domain.BasisAccrued)
	}

	owner, err := s.OwnerRepo.GetByID(ctx, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, customError.WrapOwnerNotFound(ownerID.String())
	}
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}

	contracts, err := s.ContractRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}

	var lines []certificateLine
	switch basis {
	case domain.BasisSettled:
		lines, err = s.settledLines(ctx, contracts, year)
		if err != nil {
			return nil, err
		}
	case domain.BasisAccrued:
		lines = accruedLines(contracts, year)
	}

	vatRate := domain.DefaultVATRate
	if s.config != nil {
		vatRate = s.config.GetVATRate()
	}

	certificate := &domain.AnnualCertificate{
		Owner:      owner,
		Year:       year,
		Basis:      basis,
		IssuedAt:   s.now(),
		Months:     domain.NewCertificateMonths(year),
		Properties: []*domain.CertificateProperty{},
		Totals:     zeroSplit(),
	}
	zeroMonths(certificate.Months)

	properties := make(map[uuid.UUID]*domain.CertificateProperty)
	seenContracts := make(map[uuid.UUID]bool)

	for _, line := range lines {
		split, err := utils.CalculateMonthlySplit(line.gross, owner.ManagementFeePercent, vatRate)
		if err != nil {
			return nil, err
		}

		property, ok := properties[line.contract.PropertyID]
		if !ok {
			property = &domain.CertificateProperty{
				PropertyID: line.contract.PropertyID,
				Months:     domain.NewCertificateMonths(year),
				Totals:     zeroSplit(),
			}
			zeroMonths(property.Months)
			if line.contract.Property != nil {
				property.Address = line.contract.Property.Address
			}
			properties[line.contract.PropertyID] = property
			certificate.Properties = append(certificate.Properties, property)
		}
		if !seenContracts[line.contract.ID] {
			seenContracts[line.contract.ID] = true
			property.Contracts++
		}

		idx := line.month - 1
		certificate.Months[idx].Totals = certificate.Months[idx].Totals.Add(split)
		property.Months[idx].Totals = property.Months[idx].Totals.Add(split)
		property.Totals = property.Totals.Add(split)
		certificate.Totals = certificate.Totals.Add(split)
	}

	return certificate, nil
}

// CertificateXLSX returns the certificate as a spreadsheet.
func (s *CertificateService) CertificateXLSX(ctx context.Context, ownerID uuid.UUID, year int, basis domain.CertificateBasis) ([]byte, error) {
	certificate, err := s.AnnualCertificate(ctx, ownerID, year, basis)
	if err != nil {
		return nil, err
	}

	data, err := export.CertificateWorkbook(certificate)
	if err != nil {
		return nil, customError.WrapDocumentFailure(err)
	}
	return data, nil
}

// CertificatePDF renders the certificate through the headless browser.
func (s *CertificateService) CertificatePDF(ctx context.Context, ownerID uuid.UUID, year int, basis domain.CertificateBasis) ([]byte, error) {
	if s.renderer == nil {
		return nil, customError.WrapDocumentFailure(errPDFDisabled)
	}

	certificate, err := s.AnnualCertificate(ctx, ownerID, year, basis)
	if err != nil {
		return nil, err
	}

	html, err := document.RenderCertificateHTML(document.CertificateView{
		Agency:      agencyOf(s.config),
		Certificate: certificate,
	})
	if err != nil {
		return nil, customError.WrapDocumentFailure(err)
	}

	pdf, err := s.renderer.RenderPDF(ctx, html)
	if err != nil {
		return nil, customError.WrapDocumentFailure(err)
	}
	return pdf, nil
}

func (s *CertificateService) settledLines(ctx context.Context, contracts []*domain.Contract, year int) ([]certificateLine, error) {
	byID := make(map[uuid.UUID]*domain.Contract, len(contracts))
	ids := make([]uuid.UUID, 0, len(contracts))
	for _, c := range contracts {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	settlements, err := s.SettlementRepo.ListByContractsAndYear(ctx, ids, year)
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}

	lines := make([]certificateLine, 0, len(settlements))
	for _, st := range settlements {
		contract, ok := byID[st.ContractID]
		if !ok || st.Year != year {
			continue
		}
		lines = append(lines, certificateLine{contract: contract, month: st.Month, gross: st.Amount})
	}
	return lines, nil
}

func accruedLines(contracts []*domain.Contract, year int) []certificateLine {
	var lines []certificateLine
	for _, c := range contracts {
		periods := c.AccruingPeriods(domain.Period{Month: 1, Year: year}, domain.Period{Month: 12, Year: year})
		for _, p := range periods {
			lines = append(lines, certificateLine{contract: c, month: p.Month, gross: c.MonthlyRent})
		}
	}
	return lines
}

func zeroSplit() domain.MonthlySplit {
	return domain.MonthlySplit{Gross: decimal.Zero, Fee: decimal.Zero, VAT: decimal.Zero, Net: decimal.Zero}
}

func zeroMonths(months []domain.CertificateMonth) {
	for i := range months {
		months[i].Totals = zeroSplit()
	}
}
