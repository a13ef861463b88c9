package repository

import (
	"context"

	"github.com/segyhp/rental-manager/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type settlementRepository struct {
	db *sqlx.DB
}

func NewSettlementRepository(db *sqlx.DB) SettlementRepository {
	return &settlementRepository{db: db}
}

func (r *settlementRepository) Upsert(ctx context.Context, settlement *domain.Settlement) (*domain.Settlement, error) {
	// The unique index on (contract_id, month, year) makes concurrent
	// settles of the same period last-write-wins.
	query := `
		INSERT INTO settlements (id, contract_id, month, year, amount, settled_at, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (contract_id, month, year) DO UPDATE
		SET amount = EXCLUDED.amount,
			settled_at = EXCLUDED.settled_at,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING id, contract_id, month, year, amount, settled_at, notes, created_at, updated_at
	`

	var stored domain.Settlement
	err := r.db.GetContext(ctx, &stored, query,
		settlement.ID,
		settlement.ContractID,
		settlement.Month,
		settlement.Year,
		settlement.Amount,
		settlement.SettledAt,
		settlement.Notes,
		settlement.CreatedAt,
		settlement.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

func (r *settlementRepository) Delete(ctx context.Context, contractID uuid.UUID, period domain.Period) (bool, error) {
	query := `DELETE FROM settlements WHERE contract_id = $1 AND month = $2 AND year = $3`

	result, err := r.db.ExecContext(ctx, query, contractID, period.Month, period.Year)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *settlementRepository) Exists(ctx context.Context, contractID uuid.UUID, period domain.Period) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM settlements WHERE contract_id = $1 AND month = $2 AND year = $3)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, contractID, period.Month, period.Year); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *settlementRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]*domain.Settlement, error) {
	query := `
		SELECT id, contract_id, month, year, amount, settled_at, notes, created_at, updated_at
		FROM settlements
		WHERE contract_id = $1
		ORDER BY year DESC, month DESC
	`

	var settlements []*domain.Settlement
	if err := r.db.SelectContext(ctx, &settlements, query, contractID); err != nil {
		return nil, err
	}
	return settlements, nil
}

func (r *settlementRepository) ListByContractsAndYear(ctx context.Context, contractIDs []uuid.UUID, year int) ([]*domain.Settlement, error) {
	if len(contractIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, contract_id, month, year, amount, settled_at, notes, created_at, updated_at
		FROM settlements
		WHERE contract_id IN (?) AND year = ?
		ORDER BY month ASC, contract_id ASC
	`, contractIDs, year)
	if err != nil {
		return nil, err
	}

	var settlements []*domain.Settlement
	if err := r.db.SelectContext(ctx, &settlements, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return settlements, nil
}
