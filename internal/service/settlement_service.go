package service

import (
	"context"
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

// SettlementService records and reverses monthly rent settlements. Every
// change drops the contract's cached arrears.
type SettlementService struct {
	ContractRepo   repository.ContractRepository
	SettlementRepo repository.SettlementRepository
	cache          ArrearsCache
	config         *config.Config
	now            func() time.Time
}

func NewSettlementService(
	contractRepo repository.ContractRepository,
	settlementRepo repository.SettlementRepository,
	cache ArrearsCache,
	config *config.Config,
) *SettlementService {
	return &SettlementService{
		ContractRepo:   contractRepo,
		SettlementRepo: settlementRepo,
		cache:          cache,
		config:         config,
		now:            time.Now,
	}
}

func validatePeriod(p domain.Period) error {
	if p.Month < 1 || p.Month > 12 {
		return customError.WrapInvalidInput("month %d must be between 1 and 12", p.Month)
	}
	if p.Year < domain.MinYear || p.Year > domain.MaxYear {
		return customError.WrapInvalidInput("year %d must be between %d and %d", p.Year, domain.MinYear, domain.MaxYear)
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return customError.WrapInvalidInput("amount %s must not be negative", amount)
	}
	return nil
}

// SettleMonth marks one month of the contract as settled. Settling a month
// that is already settled overwrites its amount, notes and timestamp.
func (s *SettlementService) SettleMonth(ctx context.Context, contractID uuid.UUID, period domain.Period, amount decimal.Decimal, notes string) (*domain.Settlement, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	if _, err := getContract(ctx, s.ContractRepo, contractID); err != nil {
		return nil, err
	}

	settlement, err := s.upsert(ctx, contractID, period, amount, notes)
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}

	invalidateArrears(ctx, s.cache, contractID)
	log.Printf("[SETTLE] contract %s %s settled for %s", contractID, period, settlement.Amount)

	return settlement, nil
}

// SettleRange settles every month from from to to inclusive, oldest first.
// A month that fails to store is reported in the result and the remaining
// months are still attempted.
func (s *SettlementService) SettleRange(ctx context.Context, contractID uuid.UUID, from, to domain.Period, amount decimal.Decimal, notes string) (*domain.RangeResult, error) {
	if err := validatePeriod(from); err != nil {
		return nil, err
	}
	if err := validatePeriod(to); err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, customError.WrapInvalidRange(from.Label(), to.Label())
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	if _, err := getContract(ctx, s.ContractRepo, contractID); err != nil {
		return nil, err
	}

	result := &domain.RangeResult{ContractID: contractID}
	for _, period := range domain.ExpandRange(from, to) {
		outcome := &domain.PeriodOutcome{Period: period}

		settlement, err := s.upsert(ctx, contractID, period, amount, notes)
		if err != nil {
			storeErr := customError.WrapStoreFailure(err)
			outcome.Outcome = domain.OutcomeError
			outcome.Reason = storeErr.Error()
			outcome.Err = storeErr
			result.Failed++
			log.Printf("[SETTLE] contract %s %s failed: %v", contractID, period, err)
		} else {
			outcome.Outcome = domain.OutcomeOK
			outcome.Settlement = settlement
			result.Settled++
			if s.config != nil && s.config.IsDebug() {
				log.Printf("[SETTLE] contract %s %s settled for %s", contractID, period, settlement.Amount)
			}
		}

		result.Outcomes = append(result.Outcomes, outcome)
	}

	if result.Settled > 0 {
		invalidateArrears(ctx, s.cache, contractID)
	}
	log.Printf("[SETTLE] contract %s range %s..%s: %d settled, %d failed", contractID, from, to, result.Settled, result.Failed)

	return result, nil
}

// UnsettleMonth returns a month to pending. It is a no-op when the month was
// not settled.
func (s *SettlementService) UnsettleMonth(ctx context.Context, contractID uuid.UUID, period domain.Period) error {
	if err := validatePeriod(period); err != nil {
		return err
	}

	if _, err := getContract(ctx, s.ContractRepo, contractID); err != nil {
		return err
	}

	deleted, err := s.SettlementRepo.Delete(ctx, contractID, period)
	if err != nil {
		return customError.WrapStoreFailure(err)
	}

	if deleted {
		invalidateArrears(ctx, s.cache, contractID)
		log.Printf("[SETTLE] contract %s %s unsettled", contractID, period)
	}

	return nil
}

func (s *SettlementService) IsSettled(ctx context.Context, contractID uuid.UUID, period domain.Period) (bool, error) {
	if err := validatePeriod(period); err != nil {
		return false, err
	}

	settled, err := s.SettlementRepo.Exists(ctx, contractID, period)
	if err != nil {
		return false, customError.WrapStoreFailure(err)
	}
	return settled, nil
}

// ListSettlements returns the contract's settlements newest period first.
func (s *SettlementService) ListSettlements(ctx context.Context, contractID uuid.UUID) ([]*domain.Settlement, error) {
	if _, err := getContract(ctx, s.ContractRepo, contractID); err != nil {
		return nil, err
	}

	settlements, err := s.SettlementRepo.ListByContract(ctx, contractID)
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}
	if settlements == nil {
		settlements = []*domain.Settlement{}
	}
	return settlements, nil
}

func (s *SettlementService) upsert(ctx context.Context, contractID uuid.UUID, period domain.Period, amount decimal.Decimal, notes string) (*domain.Settlement, error) {
	now := s.now()
	return s.SettlementRepo.Upsert(ctx, &domain.Settlement{
		ID:         uuid.New(),
		ContractID: contractID,
		Month:      period.Month,
		Year:       period.Year,
		Amount:     utils.RoundCents(amount),
		SettledAt:  now,
		Notes:      utils.StringPtr(notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}
