package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/segyhp/rental-manager/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ownerRepository struct {
	db *sqlx.DB
}

func NewOwnerRepository(db *sqlx.DB) OwnerRepository {
	return &ownerRepository{db: db}
}

func (r *ownerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Owner, error) {
	query := `
		SELECT id, full_name, tax_id, email, phone, management_fee_percent, is_company, created_at, updated_at
		FROM owners
		WHERE id = $1
	`

	var owner domain.Owner
	err := r.db.GetContext(ctx, &owner, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &owner, nil
}
