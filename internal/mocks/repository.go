package mocks

import (
	"context"

	"github.com/segyhp/rental-manager/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockOwnerRepository struct {
	mock.Mock
}

func (m *MockOwnerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Owner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Owner), args.Error(1)
}

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractRepository) ListAll(ctx context.Context) ([]*domain.Contract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Contract), args.Error(1)
}

func (m *MockContractRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Contract, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Contract), args.Error(1)
}

type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) Upsert(ctx context.Context, settlement *domain.Settlement) (*domain.Settlement, error) {
	args := m.Called(ctx, settlement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) Delete(ctx context.Context, contractID uuid.UUID, period domain.Period) (bool, error) {
	args := m.Called(ctx, contractID, period)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettlementRepository) Exists(ctx context.Context, contractID uuid.UUID, period domain.Period) (bool, error) {
	args := m.Called(ctx, contractID, period)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettlementRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]*domain.Settlement, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) ListByContractsAndYear(ctx context.Context, contractIDs []uuid.UUID, year int) ([]*domain.Settlement, error) {
	args := m.Called(ctx, contractIDs, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Settlement), args.Error(1)
}

type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) Create(ctx context.Context, receipt *domain.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) List(ctx context.Context, contractID *uuid.UUID) ([]*domain.Receipt, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockReceiptRepository) SetPDFKey(ctx context.Context, id uuid.UUID, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}
