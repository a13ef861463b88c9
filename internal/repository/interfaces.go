package repository

import (
	"context"
	"errors"

	"github.com/segyhp/rental-manager/internal/domain"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a lookup by id matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// OwnerRepository defines the interface for owner lookups
type OwnerRepository interface {
	// GetByID retrieves an owner with its current management fee
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Owner, error)
}

// ContractRepository defines the interface for contract lookups. Contracts
// are loaded with their property and owner; GetByID also loads tenants.
type ContractRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error)

	// ListAll returns every contract, active or not. An inactive contract can
	// still owe months from before its deactivation.
	ListAll(ctx context.Context) ([]*domain.Contract, error)

	// ListByOwner returns active and inactive contracts of the owner's properties
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Contract, error)
}

// SettlementRepository defines the interface for settlement data operations
type SettlementRepository interface {
	// Upsert inserts the settlement or overwrites the one already recorded
	// for the same contract and period, returning the stored row
	Upsert(ctx context.Context, settlement *domain.Settlement) (*domain.Settlement, error)

	// Delete removes the settlement of a period and reports whether one existed
	Delete(ctx context.Context, contractID uuid.UUID, period domain.Period) (bool, error)

	Exists(ctx context.Context, contractID uuid.UUID, period domain.Period) (bool, error)

	// ListByContract returns settlements newest period first
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]*domain.Settlement, error)

	// ListByContractsAndYear returns the settlements of one calendar year for
	// a set of contracts, oldest period first
	ListByContractsAndYear(ctx context.Context, contractIDs []uuid.UUID, year int) ([]*domain.Settlement, error)
}

// ReceiptRepository defines the interface for receipt data operations
type ReceiptRepository interface {
	// Create stores the receipt with its lines and expenses in one transaction
	Create(ctx context.Context, receipt *domain.Receipt) error

	// GetByID retrieves a receipt with its lines and expenses
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Receipt, error)

	// List returns receipt headers newest first, optionally only those with a
	// line for the given contract
	List(ctx context.Context, contractID *uuid.UUID) ([]*domain.Receipt, error)

	// Delete removes a receipt and reports whether it existed
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	SetPDFKey(ctx context.Context, id uuid.UUID, key string) error
}
