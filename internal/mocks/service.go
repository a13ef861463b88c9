package mocks

import (
	"context"
	"time"

	"github.com/segyhp/rental-manager/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) SettleMonth(ctx context.Context, contractID uuid.UUID, period domain.Period, amount decimal.Decimal, notes string) (*domain.Settlement, error) {
	args := m.Called(ctx, contractID, period, amount, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

func (m *MockSettlementService) SettleRange(ctx context.Context, contractID uuid.UUID, from, to domain.Period, amount decimal.Decimal, notes string) (*domain.RangeResult, error) {
	args := m.Called(ctx, contractID, from, to, amount, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RangeResult), args.Error(1)
}

func (m *MockSettlementService) UnsettleMonth(ctx context.Context, contractID uuid.UUID, period domain.Period) error {
	args := m.Called(ctx, contractID, period)
	return args.Error(0)
}

func (m *MockSettlementService) IsSettled(ctx context.Context, contractID uuid.UUID, period domain.Period) (bool, error) {
	args := m.Called(ctx, contractID, period)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettlementService) ListSettlements(ctx context.Context, contractID uuid.UUID) ([]*domain.Settlement, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Settlement), args.Error(1)
}

type MockArrearsService struct {
	mock.Mock
}

func (m *MockArrearsService) ComputeArrears(ctx context.Context, contractID uuid.UUID, asOf time.Time) (*domain.ArrearsSummary, error) {
	args := m.Called(ctx, contractID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArrearsSummary), args.Error(1)
}

func (m *MockArrearsService) ComputePortfolioArrears(ctx context.Context, asOf time.Time) (*domain.PortfolioArrears, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PortfolioArrears), args.Error(1)
}

type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) GenerateReceipt(ctx context.Context, request *domain.GenerateReceiptRequest) (*domain.GenerateReceiptResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerateReceiptResponse), args.Error(1)
}

func (m *MockReceiptService) GetReceipt(ctx context.Context, id uuid.UUID) (*domain.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptService) ListReceipts(ctx context.Context, contractID *uuid.UUID) ([]*domain.Receipt, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Receipt), args.Error(1)
}

func (m *MockReceiptService) DeleteReceipt(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReceiptService) ReceiptPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockCertificateService struct {
	mock.Mock
}

func (m *MockCertificateService) AnnualCertificate(ctx context.Context, ownerID uuid.UUID, year int, basis domain.CertificateBasis) (*domain.AnnualCertificate, error) {
	args := m.Called(ctx, ownerID, year, basis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnnualCertificate), args.Error(1)
}

func (m *MockCertificateService) CertificateXLSX(ctx context.Context, ownerID uuid.UUID, year int, basis domain.CertificateBasis) ([]byte, error) {
	args := m.Called(ctx, ownerID, year, basis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCertificateService) CertificatePDF(ctx context.Context, ownerID uuid.UUID, year int, basis domain.CertificateBasis) ([]byte, error) {
	args := m.Called(ctx, ownerID, year, basis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (*domain.LoginResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResponse), args.Error(1)
}
