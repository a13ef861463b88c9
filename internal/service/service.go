package service

import (
	"context"
	"errors"
	"log"

	"github.com/segyhp/rental-manager/internal/domain"
	"github.com/segyhp/rental-manager/internal/repository"
	customError "github.com/segyhp/rental-manager/pkg/errors"

	"github.com/google/uuid"
)

// ArrearsCache stores computed arrears summaries. Get returns nil, nil on a
// miss. Implementations are optional collaborators: every error is logged
// and the computation goes on without the cache.
type ArrearsCache interface {
	Get(ctx context.Context, contractID uuid.UUID, asOf domain.Period) (*domain.ArrearsSummary, error)
	Set(ctx context.Context, summary *domain.ArrearsSummary) error
	Invalidate(ctx context.Context, contractID uuid.UUID) error
}

// PDFRenderer turns a self-contained HTML document into PDF bytes.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html []byte) ([]byte, error)
}

// DocumentStore keeps rendered documents under an object key.
type DocumentStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// getContract loads a contract, mapping a missing row to ContractNotFound
// and anything else to StoreFailure.
func getContract(ctx context.Context, repo repository.ContractRepository, contractID uuid.UUID) (*domain.Contract, error) {
	contract, err := repo.GetByID(ctx, contractID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, customError.WrapContractNotFound(contractID.String())
	}
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}
	return contract, nil
}

func invalidateArrears(ctx context.Context, cache ArrearsCache, contractID uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, contractID); err != nil {
		log.Printf("[CACHE] invalidate arrears of contract %s: %v", contractID, customError.WrapCacheError(err))
	}
}
