package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/segyhp/rental-manager/internal/config"
	"github.com/segyhp/rental-manager/internal/domain"
	"github.com/segyhp/rental-manager/internal/repository"
	customError "github.com/segyhp/rental-manager/pkg/errors"
	"github.com/segyhp/rental-manager/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ArrearsService derives the outstanding months of contracts from their
// settlements. The owed amount of every month is the contract's current
// rent; rent history is not tracked.
type ArrearsService struct {
	ContractRepo   repository.ContractRepository
	SettlementRepo repository.SettlementRepository
	cache          ArrearsCache
	config         *config.Config
	now            func() time.Time
}

func NewArrearsService(
	contractRepo repository.ContractRepository,
	settlementRepo repository.SettlementRepository,
	cache ArrearsCache,
	config *config.Config,
) *ArrearsService {
	return &ArrearsService{
		ContractRepo:   contractRepo,
		SettlementRepo: settlementRepo,
		cache:          cache,
		config:         config,
		now:            time.Now,
	}
}

// ComputeArrears returns the arrears of one contract as of asOf's month. A
// zero asOf means now.
func (s *ArrearsService) ComputeArrears(ctx context.Context, contractID uuid.UUID, asOf time.Time) (*domain.ArrearsSummary, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	contract, err := getContract(ctx, s.ContractRepo, contractID)
	if err != nil {
		return nil, err
	}

	if cached := s.cached(ctx, contract, domain.PeriodOf(asOf)); cached != nil {
		return cached, nil
	}

	summary, err := s.compute(ctx, contract, asOf)
	if err != nil {
		return nil, err
	}

	s.store(ctx, summary)
	return summary, nil
}

// ComputePortfolioArrears folds the arrears of every contract. Inactive
// contracts are included because months owed before deactivation remain
// debt. A contract whose computation fails is listed in Errors and skipped.
func (s *ArrearsService) ComputePortfolioArrears(ctx context.Context, asOf time.Time) (*domain.PortfolioArrears, error) {
	return s.portfolio(ctx, asOf, true)
}

// SweepArrears recomputes every contract ignoring cached entries and stores
// the fresh summaries. The scheduler runs it nightly.
func (s *ArrearsService) SweepArrears(ctx context.Context, asOf time.Time) (*domain.PortfolioArrears, error) {
	return s.portfolio(ctx, asOf, false)
}

func (s *ArrearsService) portfolio(ctx context.Context, asOf time.Time, useCache bool) (*domain.PortfolioArrears, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	asOfPeriod := domain.PeriodOf(asOf)

	contracts, err := s.ContractRepo.ListAll(ctx)
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}

	result := &domain.PortfolioArrears{
		AsOf:      asOfPeriod,
		TotalOwed: decimal.Zero,
		Contracts: []*domain.ArrearsSummary{},
	}

	for _, contract := range contracts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.ContractsChecked++

		var summary *domain.ArrearsSummary
		if useCache {
			summary = s.cached(ctx, contract, asOfPeriod)
		}
		if summary == nil {
			summary, err = s.compute(ctx, contract, asOf)
			if err != nil {
				log.Printf("[ARREARS] contract %s: %v", contract.ID, err)
				result.Errors = append(result.Errors, fmt.Sprintf("contract %s: %v", contract.ID, err))
				continue
			}
			s.store(ctx, summary)
		}

		if summary.HasDebt() {
			result.ContractsInArrears++
			result.TotalOwed = result.TotalOwed.Add(summary.TotalOwed)
			result.Contracts = append(result.Contracts, summary)
		}
	}

	log.Printf("[ARREARS] %s: %d contracts checked, %d in arrears, %s owed",
		asOfPeriod, result.ContractsChecked, result.ContractsInArrears, result.TotalOwed)

	return result, nil
}

func (s *ArrearsService) compute(ctx context.Context, contract *domain.Contract, asOf time.Time) (*domain.ArrearsSummary, error) {
	asOfPeriod := domain.PeriodOf(asOf)

	from := contract.StartPeriod()
	if s.config != nil {
		if earliest, ok := s.config.GetEarliestTrackedPeriod(); ok {
			from = domain.MaxPeriod(from, earliest)
		}
	}
	candidates := contract.AccruingPeriods(from, asOfPeriod)

	settlements, err := s.SettlementRepo.ListByContract(ctx, contract.ID)
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}
	settled := make(map[domain.Period]bool, len(settlements))
	for _, st := range settlements {
		settled[st.Period()] = true
	}

	feePercent := decimal.Zero
	if contract.Owner != nil {
		feePercent = contract.Owner.ManagementFeePercent
	}
	vatRate := domain.DefaultVATRate
	if s.config != nil {
		vatRate = s.config.GetVATRate()
	}

	summary := &domain.ArrearsSummary{
		ContractID: contract.ID,
		AsOf:       asOfPeriod,
		TotalOwed:  decimal.Zero,
		Months:     []domain.ArrearsMonth{},
		ComputedAt: s.now(),
		Version:    s.version(contract),
	}

	for _, period := range candidates {
		if settled[period] {
			continue
		}

		split, err := utils.CalculateMonthlySplit(contract.MonthlyRent, feePercent, vatRate)
		if err != nil {
			return nil, err
		}

		month := domain.ArrearsMonth{
			Period:     period,
			Label:      period.Label(),
			AmountOwed: split.Gross,
			MonthsLate: utils.MonthsLate(period, asOf),
			Split:      split,
		}
		summary.Months = append(summary.Months, month)
		summary.TotalOwed = summary.TotalOwed.Add(month.AmountOwed)
	}

	summary.MonthsPending = len(summary.Months)
	if summary.MonthsPending > 0 {
		first := summary.Months[0]
		summary.FirstPendingMonth = first.Label
		summary.MonthsLate = first.MonthsLate
	}

	return summary, nil
}

// version extends the contract's version with the settings that shape its
// arrears, so a summary cached under other settings is not reused either.
func (s *ArrearsService) version(contract *domain.Contract) string {
	v := contract.ArrearsVersion()
	if s.config != nil {
		v += ";earliest=" + s.config.Business.EarliestTrackedPeriod + ";vat=" + s.config.GetVATRate().String()
	}
	return v
}

// cached returns the cached summary when it was computed from the contract
// as it is now.
func (s *ArrearsService) cached(ctx context.Context, contract *domain.Contract, asOf domain.Period) *domain.ArrearsSummary {
	if s.cache == nil {
		return nil
	}
	summary, err := s.cache.Get(ctx, contract.ID, asOf)
	if err != nil {
		log.Printf("[CACHE] read arrears of contract %s: %v", contract.ID, customError.WrapCacheError(err))
		return nil
	}
	if summary == nil {
		return nil
	}
	if summary.Version != s.version(contract) {
		log.Printf("[CACHE] arrears of contract %s are stale, recomputing", contract.ID)
		return nil
	}
	return summary
}

func (s *ArrearsService) store(ctx context.Context, summary *domain.ArrearsSummary) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, summary); err != nil {
		log.Printf("[CACHE] write arrears of contract %s: %v", summary.ContractID, customError.WrapCacheError(err))
	}
}
