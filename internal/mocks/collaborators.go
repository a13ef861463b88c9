package mocks

import (
	"context"

	"github.com/segyhp/rental-manager/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockArrearsCache struct {
	mock.Mock
}

func (m *MockArrearsCache) Get(ctx context.Context, contractID uuid.UUID, asOf domain.Period) (*domain.ArrearsSummary, error) {
	args := m.Called(ctx, contractID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArrearsSummary), args.Error(1)
}

func (m *MockArrearsCache) Set(ctx context.Context, summary *domain.ArrearsSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockArrearsCache) Invalidate(ctx context.Context, contractID uuid.UUID) error {
	args := m.Called(ctx, contractID)
	return args.Error(0)
}

type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) RenderPDF(ctx context.Context, html []byte) ([]byte, error) {
	args := m.Called(ctx, html)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockDocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDocumentStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockSettler struct {
	mock.Mock
}

func (m *MockSettler) SettleMonth(ctx context.Context, contractID uuid.UUID, period domain.Period, amount decimal.Decimal, notes string) (*domain.Settlement, error) {
	args := m.Called(ctx, contractID, period, amount, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}
