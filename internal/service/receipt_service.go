package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/segyhp/rental-manager/internal/config"
	"github.com/segyhp/rental-manager/internal/document"
	"github.com/segyhp/rental-manager/internal/domain"
	"github.com/segyhp/rental-manager/internal/repository"
	customError "github.com/segyhp/rental-manager/pkg/errors"
	"github.com/segyhp/rental-manager/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errPDFDisabled = errors.New("pdf rendering is disabled")

// Settler settles one month. SettlementService implements it.
type Settler interface {
	SettleMonth(ctx context.Context, contractID uuid.UUID, period domain.Period, amount decimal.Decimal, notes string) (*domain.Settlement, error)
}

// ReceiptService generates immutable receipts over contract months and
// their PDF documents.
type ReceiptService struct {
	ContractRepo repository.ContractRepository
	ReceiptRepo  repository.ReceiptRepository
	settler      Settler
	renderer     PDFRenderer
	store        DocumentStore
	config       *config.Config
	now          func() time.Time
}

// NewReceiptService wires the receipt engine. renderer and store may be nil,
// which disables PDF output and PDF storage respectively.
func NewReceiptService(
	contractRepo repository.ContractRepository,
	receiptRepo repository.ReceiptRepository,
	settler Settler,
	renderer PDFRenderer,
	store DocumentStore,
	config *config.Config,
) *ReceiptService {
	return &ReceiptService{
		ContractRepo: contractRepo,
		ReceiptRepo:  receiptRepo,
		settler:      settler,
		renderer:     renderer,
		store:        store,
		config:       config,
		now:          time.Now,
	}
}

// GenerateReceipt computes, stores and, when a renderer is configured,
// renders a receipt. A rendering failure does not undo the stored receipt;
// it is returned in PDFError.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, request *domain.GenerateReceiptRequest) (*domain.GenerateReceiptResponse, error) {
	if err := validateReceiptRequest(request); err != nil {
		return nil, err
	}

	now := s.now()
	issuedAt := now
	if request.IssuedAt != nil && !request.IssuedAt.IsZero() {
		issuedAt = *request.IssuedAt
	}
	issuePeriod := domain.PeriodOf(issuedAt)

	number := request.Number
	if number == "" {
		number = fmt.Sprintf("%s-%d-%d", s.numberPrefix(), issuedAt.Year(), now.UnixMilli())
	}

	receipt := &domain.Receipt{
		ID:                    uuid.New(),
		Number:                number,
		IssuedAt:              issuedAt,
		PaymentMethod:         utils.StringPtr(request.PaymentMethod),
		PaymentReference:      utils.StringPtr(request.PaymentReference),
		Notes:                 utils.StringPtr(request.Notes),
		TotalGross:            decimal.Zero,
		TotalFee:              decimal.Zero,
		TotalVAT:              decimal.Zero,
		TotalNet:              decimal.Zero,
		DeductibleExpenses:    decimal.Zero,
		NonDeductibleExpenses: decimal.Zero,
		CreatedAt:             now,
	}

	contracts := make(map[uuid.UUID]*domain.Contract, len(request.Contracts))
	for _, item := range request.Contracts {
		contract, err := getContract(ctx, s.ContractRepo, item.ContractID)
		if err != nil {
			return nil, err
		}
		contracts[contract.ID] = contract

		feePercent := decimal.Zero
		if contract.Owner != nil {
			feePercent = contract.Owner.ManagementFeePercent
		}

		for _, period := range item.SelectedPeriods() {
			split, err := utils.CalculateMonthlySplit(contract.MonthlyRent, feePercent, s.vatRate())
			if err != nil {
				return nil, err
			}

			receipt.Lines = append(receipt.Lines, &domain.ReceiptLine{
				ID:         uuid.New(),
				ReceiptID:  receipt.ID,
				ContractID: contract.ID,
				Month:      period.Month,
				Year:       period.Year,
				Gross:      split.Gross,
				Fee:        split.Fee,
				VAT:        split.VAT,
				Net:        split.Net,
				Late:       period.Before(issuePeriod),
			})
			receipt.TotalGross = receipt.TotalGross.Add(split.Gross)
			receipt.TotalFee = receipt.TotalFee.Add(split.Fee)
			receipt.TotalVAT = receipt.TotalVAT.Add(split.VAT)
			receipt.TotalNet = receipt.TotalNet.Add(split.Net)
		}

		for _, expense := range item.Expenses {
			amount := utils.RoundCents(expense.Amount)
			receipt.Expenses = append(receipt.Expenses, &domain.ReceiptExpense{
				ID:          uuid.New(),
				ReceiptID:   receipt.ID,
				ContractID:  contract.ID,
				Concept:     expense.Concept,
				Amount:      amount,
				Deductible:  expense.Deductible,
				Description: utils.StringPtr(expense.Description),
			})
			if expense.Deductible {
				receipt.DeductibleExpenses = receipt.DeductibleExpenses.Add(amount)
			} else {
				receipt.NonDeductibleExpenses = receipt.NonDeductibleExpenses.Add(amount)
			}
		}
	}
	receipt.FinalNet = receipt.TotalNet.Sub(receipt.DeductibleExpenses)

	if err := s.ReceiptRepo.Create(ctx, receipt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, customError.WrapInvalidInput("receipt number %s already exists", receipt.Number)
		}
		return nil, customError.WrapStoreFailure(err)
	}
	log.Printf("[RECEIPT] %s generated: %d lines, gross %s, final net %s",
		receipt.Number, len(receipt.Lines), receipt.TotalGross, receipt.FinalNet)

	response := &domain.GenerateReceiptResponse{Receipt: receipt}

	if request.Settle {
		response.Settlements = s.settleLines(ctx, receipt)
	}

	if s.renderer != nil {
		if err := s.storePDF(ctx, receipt, contracts); err != nil {
			log.Printf("[RECEIPT] %s pdf: %v", receipt.Number, err)
			response.PDFError = err.Error()
		}
	}

	return response, nil
}

func (s *ReceiptService) GetReceipt(ctx context.Context, id uuid.UUID) (*domain.Receipt, error) {
	receipt, err := s.ReceiptRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, customError.WrapReceiptNotFound(id.String())
	}
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}
	return receipt, nil
}

// ListReceipts returns receipt headers newest first. A nil contractID lists
// every receipt.
func (s *ReceiptService) ListReceipts(ctx context.Context, contractID *uuid.UUID) ([]*domain.Receipt, error) {
	receipts, err := s.ReceiptRepo.List(ctx, contractID)
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}
	if receipts == nil {
		receipts = []*domain.Receipt{}
	}
	return receipts, nil
}

// DeleteReceipt removes the receipt and, best effort, its stored PDF.
func (s *ReceiptService) DeleteReceipt(ctx context.Context, id uuid.UUID) error {
	receipt, err := s.GetReceipt(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.ReceiptRepo.Delete(ctx, id)
	if err != nil {
		return customError.WrapStoreFailure(err)
	}
	if !deleted {
		return customError.WrapReceiptNotFound(id.String())
	}

	if receipt.PDFKey != nil && s.store != nil {
		if err := s.store.Delete(ctx, *receipt.PDFKey); err != nil {
			log.Printf("[RECEIPT] %s: delete stored pdf %s: %v", receipt.Number, *receipt.PDFKey, err)
		}
	}
	log.Printf("[RECEIPT] %s deleted", receipt.Number)

	return nil
}

// ReceiptPDF returns the stored PDF of a receipt, rendering it on demand when
// no stored copy can be read.
func (s *ReceiptService) ReceiptPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	receipt, err := s.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}

	if receipt.PDFKey != nil && s.store != nil {
		data, err := s.store.Get(ctx, *receipt.PDFKey)
		if err == nil {
			return data, nil
		}
		log.Printf("[RECEIPT] %s: read stored pdf %s: %v", receipt.Number, *receipt.PDFKey, err)
	}

	if s.renderer == nil {
		return nil, customError.WrapDocumentFailure(errPDFDisabled)
	}

	contracts := make(map[uuid.UUID]*domain.Contract)
	for _, contractID := range receipt.ContractIDs() {
		contract, err := getContract(ctx, s.ContractRepo, contractID)
		if err != nil {
			return nil, err
		}
		contracts[contractID] = contract
	}

	pdf, err := s.renderPDF(ctx, receipt, contracts)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

func (s *ReceiptService) settleLines(ctx context.Context, receipt *domain.Receipt) []*domain.PeriodOutcome {
	notes := fmt.Sprintf("Receipt %s", receipt.Number)
	outcomes := make([]*domain.PeriodOutcome, 0, len(receipt.Lines))

	for _, line := range receipt.Lines {
		outcome := &domain.PeriodOutcome{Period: line.Period()}
		settlement, err := s.settler.SettleMonth(ctx, line.ContractID, line.Period(), line.Gross, notes)
		if err != nil {
			outcome.Outcome = domain.OutcomeError
			outcome.Reason = err.Error()
			outcome.Err = err
		} else {
			outcome.Outcome = domain.OutcomeOK
			outcome.Settlement = settlement
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func (s *ReceiptService) storePDF(ctx context.Context, receipt *domain.Receipt, contracts map[uuid.UUID]*domain.Contract) error {
	pdf, err := s.renderPDF(ctx, receipt, contracts)
	if err != nil {
		return err
	}
	if s.store == nil {
		return nil
	}

	key := document.ReceiptKey(receipt)
	if err := s.store.Put(ctx, key, pdf, document.PDFContentType); err != nil {
		return customError.WrapDocumentFailure(err)
	}
	if err := s.ReceiptRepo.SetPDFKey(ctx, receipt.ID, key); err != nil {
		return customError.WrapStoreFailure(err)
	}
	receipt.PDFKey = &key
	return nil
}

func (s *ReceiptService) renderPDF(ctx context.Context, receipt *domain.Receipt, contracts map[uuid.UUID]*domain.Contract) ([]byte, error) {
	html, err := document.RenderReceiptHTML(document.NewReceiptView(agencyOf(s.config), receipt, contracts))
	if err != nil {
		return nil, customError.WrapDocumentFailure(err)
	}

	pdf, err := s.renderer.RenderPDF(ctx, html)
	if err != nil {
		return nil, customError.WrapDocumentFailure(err)
	}
	return pdf, nil
}

func (s *ReceiptService) vatRate() decimal.Decimal {
	if s.config == nil {
		return domain.DefaultVATRate
	}
	return s.config.GetVATRate()
}

func (s *ReceiptService) numberPrefix() string {
	if s.config == nil || s.config.Business.ReceiptNumberPrefix == "" {
		return "REC"
	}
	return s.config.Business.ReceiptNumberPrefix
}

func validateReceiptRequest(request *domain.GenerateReceiptRequest) error {
	if request == nil || len(request.Contracts) == 0 {
		return customError.WrapInvalidInput("a receipt needs at least one contract")
	}

	for _, item := range request.Contracts {
		periods := item.SelectedPeriods()
		if len(periods) == 0 {
			return customError.WrapInvalidInput("contract %s has no months selected", item.ContractID)
		}

		seen := make(map[domain.Period]bool, len(periods))
		for _, p := range periods {
			if err := validatePeriod(p); err != nil {
				return err
			}
			if seen[p] {
				return customError.WrapInvalidInput("month %s is selected twice for contract %s", p, item.ContractID)
			}
			seen[p] = true
		}

		for _, expense := range item.Expenses {
			if expense.Concept == "" {
				return customError.WrapInvalidInput("expense concept is required")
			}
			if !expense.Amount.IsPositive() {
				return customError.WrapInvalidInput("expense %q amount must be positive", expense.Concept)
			}
		}
	}

	return nil
}

func agencyOf(cfg *config.Config) document.Agency {
	if cfg == nil {
		return document.Agency{}
	}
	return document.Agency{
		Name:    cfg.Agency.Name,
		Address: cfg.Agency.Address,
		TaxID:   cfg.Agency.TaxID,
		Phone:   cfg.Agency.Phone,
		Email:   cfg.Agency.Email,
	}
}
