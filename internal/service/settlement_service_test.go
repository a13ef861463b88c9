package service

import (
	"context"
	"errors"
	"testing"

	"github.com/segyhp/rental-manager/internal/domain"
	"github.com/segyhp/rental-manager/internal/mocks"
	"github.com/segyhp/rental-manager/internal/repository"
	customError "github.com/segyhp/rental-manager/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type settlementFixture struct {
	service   *SettlementService
	contracts *mocks.MockContractRepository
	store     *memSettlements
	cache     *mocks.MockArrearsCache
	contract  *domain.Contract
}

func newSettlementFixture() *settlementFixture {
	contract := newContract(date(2024, 1, 1), "1000", "10")
	contracts := &mocks.MockContractRepository{}
	contracts.On("GetByID", mock.Anything, contract.ID).Return(contract, nil)

	store := newMemSettlements()
	cache := &mocks.MockArrearsCache{}
	cache.On("Invalidate", mock.Anything, contract.ID).Return(nil)

	service := NewSettlementService(contracts, store, cache, testConfig())
	service.now = fixedClock(date(2024, 4, 1))

	return &settlementFixture{service: service, contracts: contracts, store: store, cache: cache, contract: contract}
}

func TestSettleMonth_ThenIsSettled(t *testing.T) {
	f := newSettlementFixture()
	ctx := context.Background()
	period := domain.Period{Month: 3, Year: 2024}

	settlement, err := f.service.SettleMonth(ctx, f.contract.ID, period, dec("1000"), "paid in cash")
	require.NoError(t, err)
	assert.Equal(t, period, settlement.Period())
	assert.True(t, settlement.Amount.Equal(dec("1000")))
	require.NotNil(t, settlement.Notes)
	assert.Equal(t, "paid in cash", *settlement.Notes)

	settled, err := f.service.IsSettled(ctx, f.contract.ID, period)
	require.NoError(t, err)
	assert.True(t, settled)

	require.NoError(t, f.service.UnsettleMonth(ctx, f.contract.ID, period))
	settled, err = f.service.IsSettled(ctx, f.contract.ID, period)
	require.NoError(t, err)
	assert.False(t, settled)

	// Unsettling again is a no-op.
	require.NoError(t, f.service.UnsettleMonth(ctx, f.contract.ID, period))

	f.cache.AssertNumberOfCalls(t, "Invalidate", 2)
}

func TestSettleMonth_OverwritesExistingPeriod(t *testing.T) {
	f := newSettlementFixture()
	ctx := context.Background()
	period := domain.Period{Month: 2, Year: 2024}

	first, err := f.service.SettleMonth(ctx, f.contract.ID, period, dec("900"), "")
	require.NoError(t, err)
	second, err := f.service.SettleMonth(ctx, f.contract.ID, period, dec("1000"), "corrected")
	require.NoError(t, err)

	assert.Equal(t, 1, f.store.count())
	assert.Equal(t, first.ID, second.ID)

	settlements, err := f.service.ListSettlements(ctx, f.contract.ID)
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	assert.True(t, settlements[0].Amount.Equal(dec("1000")))
	assert.Equal(t, "corrected", *settlements[0].Notes)
}

func TestSettleMonth_RoundsAmountToCents(t *testing.T) {
	f := newSettlementFixture()

	settlement, err := f.service.SettleMonth(context.Background(), f.contract.ID, domain.Period{Month: 1, Year: 2024}, dec("999.995"), "")
	require.NoError(t, err)
	assert.True(t, settlement.Amount.Equal(dec("1000")))
}

func TestSettleMonth_ValidationPrecedesStore(t *testing.T) {
	tests := []struct {
		name   string
		period domain.Period
		amount string
	}{
		{name: "month zero", period: domain.Period{Month: 0, Year: 2024}, amount: "100"},
		{name: "month thirteen", period: domain.Period{Month: 13, Year: 2024}, amount: "100"},
		{name: "implausible year", period: domain.Period{Month: 1, Year: 1850}, amount: "100"},
		{name: "negative amount", period: domain.Period{Month: 1, Year: 2024}, amount: "-0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contracts := &mocks.MockContractRepository{}
			settlements := &mocks.MockSettlementRepository{}
			service := NewSettlementService(contracts, settlements, nil, testConfig())

			_, err := service.SettleMonth(context.Background(), uuid.New(), tt.period, dec(tt.amount), "")

			require.Error(t, err)
			assert.ErrorIs(t, err, customError.ErrInvalidInput)
			contracts.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
			settlements.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		})
	}
}

func TestSettleMonth_ZeroAmountAllowed(t *testing.T) {
	f := newSettlementFixture()

	settlement, err := f.service.SettleMonth(context.Background(), f.contract.ID, domain.Period{Month: 1, Year: 2024}, dec("0"), "")
	require.NoError(t, err)
	assert.True(t, settlement.Amount.IsZero())
}

func TestSettleMonth_ContractNotFound(t *testing.T) {
	contracts := &mocks.MockContractRepository{}
	settlements := &mocks.MockSettlementRepository{}
	id := uuid.New()
	contracts.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

	service := NewSettlementService(contracts, settlements, nil, testConfig())
	_, err := service.SettleMonth(context.Background(), id, domain.Period{Month: 1, Year: 2024}, dec("100"), "")

	assert.ErrorIs(t, err, customError.ErrContractNotFound)
	assert.Equal(t, customError.ErrCodeContractNotFound, customError.Code(err))
	settlements.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSettleMonth_StoreFailure(t *testing.T) {
	contract := newContract(date(2024, 1, 1), "1000", "10")
	contracts := &mocks.MockContractRepository{}
	contracts.On("GetByID", mock.Anything, contract.ID).Return(contract, nil)

	driverErr := errors.New("connection refused")
	settlements := &mocks.MockSettlementRepository{}
	settlements.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Settlement")).Return(nil, driverErr)

	cache := &mocks.MockArrearsCache{}
	service := NewSettlementService(contracts, settlements, cache, testConfig())

	_, err := service.SettleMonth(context.Background(), contract.ID, domain.Period{Month: 1, Year: 2024}, dec("100"), "")

	assert.ErrorIs(t, err, customError.ErrStoreFailure)
	assert.ErrorIs(t, err, driverErr)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestSettleMonth_CacheFailureIsNotFatal(t *testing.T) {
	contract := newContract(date(2024, 1, 1), "1000", "10")
	contracts := &mocks.MockContractRepository{}
	contracts.On("GetByID", mock.Anything, contract.ID).Return(contract, nil)

	cache := &mocks.MockArrearsCache{}
	cache.On("Invalidate", mock.Anything, contract.ID).Return(errors.New("redis down"))

	service := NewSettlementService(contracts, newMemSettlements(), cache, testConfig())
	_, err := service.SettleMonth(context.Background(), contract.ID, domain.Period{Month: 1, Year: 2024}, dec("100"), "")

	assert.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestSettleRange_SettlesEveryMonthInOrder(t *testing.T) {
	f := newSettlementFixture()

	result, err := f.service.SettleRange(context.Background(), f.contract.ID,
		domain.Period{Month: 3, Year: 2024}, domain.Period{Month: 5, Year: 2024}, dec("100"), "")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Settled)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Outcomes, 3)
	for i, month := range []int{3, 4, 5} {
		outcome := result.Outcomes[i]
		assert.Equal(t, domain.Period{Month: month, Year: 2024}, outcome.Period)
		assert.Equal(t, domain.OutcomeOK, outcome.Outcome)
		assert.True(t, outcome.Settlement.Amount.Equal(dec("100")))
	}
	assert.Equal(t, 3, f.store.count())
	assert.Len(t, result.Settlements(), 3)

	// One invalidation for the whole batch.
	f.cache.AssertNumberOfCalls(t, "Invalidate", 1)
}

func TestSettleRange_WrapsDecemberIntoJanuary(t *testing.T) {
	f := newSettlementFixture()

	result, err := f.service.SettleRange(context.Background(), f.contract.ID,
		domain.Period{Month: 11, Year: 2023}, domain.Period{Month: 2, Year: 2024}, dec("1000"), "")
	require.NoError(t, err)

	var got []domain.Period
	for _, o := range result.Outcomes {
		got = append(got, o.Period)
	}
	assert.Equal(t, []domain.Period{
		{Month: 11, Year: 2023}, {Month: 12, Year: 2023}, {Month: 1, Year: 2024}, {Month: 2, Year: 2024},
	}, got)
}

func TestSettleRange_SingleMonth(t *testing.T) {
	f := newSettlementFixture()
	p := domain.Period{Month: 7, Year: 2024}

	result, err := f.service.SettleRange(context.Background(), f.contract.ID, p, p, dec("1000"), "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Settled)
}

func TestSettleRange_FromAfterTo(t *testing.T) {
	contracts := &mocks.MockContractRepository{}
	settlements := &mocks.MockSettlementRepository{}
	service := NewSettlementService(contracts, settlements, nil, testConfig())

	_, err := service.SettleRange(context.Background(), uuid.New(),
		domain.Period{Month: 5, Year: 2024}, domain.Period{Month: 3, Year: 2024}, dec("100"), "")

	assert.ErrorIs(t, err, customError.ErrInvalidRange)
	assert.Equal(t, customError.ErrCodeInvalidRange, customError.Code(err))
	contracts.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	settlements.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSettleRange_InvalidBounds(t *testing.T) {
	service := NewSettlementService(&mocks.MockContractRepository{}, &mocks.MockSettlementRepository{}, nil, testConfig())

	_, err := service.SettleRange(context.Background(), uuid.New(),
		domain.Period{Month: 13, Year: 2024}, domain.Period{Month: 3, Year: 2025}, dec("100"), "")
	assert.ErrorIs(t, err, customError.ErrInvalidInput)

	_, err = service.SettleRange(context.Background(), uuid.New(),
		domain.Period{Month: 1, Year: 2024}, domain.Period{Month: 3, Year: 2024}, dec("-5"), "")
	assert.ErrorIs(t, err, customError.ErrInvalidInput)
}

func TestSettleRange_ContinuesAfterFailedMonth(t *testing.T) {
	f := newSettlementFixture()
	driverErr := errors.New("deadlock detected")
	f.store.failOn[domain.Period{Month: 4, Year: 2024}] = driverErr

	result, err := f.service.SettleRange(context.Background(), f.contract.ID,
		domain.Period{Month: 3, Year: 2024}, domain.Period{Month: 5, Year: 2024}, dec("100"), "")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Settled)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Outcomes, 3)
	assert.Equal(t, domain.OutcomeOK, result.Outcomes[0].Outcome)
	assert.Equal(t, domain.OutcomeError, result.Outcomes[1].Outcome)
	assert.Equal(t, domain.OutcomeOK, result.Outcomes[2].Outcome)

	failed := result.Failures()
	require.Len(t, failed, 1)
	assert.Equal(t, domain.Period{Month: 4, Year: 2024}, failed[0].Period)
	assert.Contains(t, failed[0].Reason, "deadlock detected")
	assert.ErrorIs(t, failed[0].Err, customError.ErrStoreFailure)
	assert.ErrorIs(t, failed[0].Err, driverErr)
	assert.Nil(t, failed[0].Settlement)

	settled, err := f.service.IsSettled(context.Background(), f.contract.ID, domain.Period{Month: 5, Year: 2024})
	require.NoError(t, err)
	assert.True(t, settled)
}

func TestUnsettleMonth_ContractNotFound(t *testing.T) {
	contracts := &mocks.MockContractRepository{}
	id := uuid.New()
	contracts.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

	service := NewSettlementService(contracts, &mocks.MockSettlementRepository{}, nil, testConfig())
	err := service.UnsettleMonth(context.Background(), id, domain.Period{Month: 1, Year: 2024})

	assert.ErrorIs(t, err, customError.ErrContractNotFound)
}

func TestListSettlements_NewestFirst(t *testing.T) {
	f := newSettlementFixture()
	ctx := context.Background()

	for _, p := range []domain.Period{{Month: 11, Year: 2023}, {Month: 2, Year: 2024}, {Month: 12, Year: 2023}} {
		_, err := f.service.SettleMonth(ctx, f.contract.ID, p, dec("1000"), "")
		require.NoError(t, err)
	}

	settlements, err := f.service.ListSettlements(ctx, f.contract.ID)
	require.NoError(t, err)
	require.Len(t, settlements, 3)
	assert.Equal(t, domain.Period{Month: 2, Year: 2024}, settlements[0].Period())
	assert.Equal(t, domain.Period{Month: 12, Year: 2023}, settlements[1].Period())
	assert.Equal(t, domain.Period{Month: 11, Year: 2023}, settlements[2].Period())
}

func TestListSettlements_Empty(t *testing.T) {
	f := newSettlementFixture()

	settlements, err := f.service.ListSettlements(context.Background(), f.contract.ID)
	require.NoError(t, err)
	assert.NotNil(t, settlements)
	assert.Empty(t, settlements)
}
