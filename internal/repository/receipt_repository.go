package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/segyhp/rental-manager/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

const receiptColumns = `id, number, issued_at, payment_method, payment_reference, notes,
		total_gross, total_fee, total_vat, total_net, deductible_expenses,
		non_deductible_expenses, final_net, pdf_key, created_at`

type receiptRepository struct {
	db *sqlx.DB
}

func NewReceiptRepository(db *sqlx.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *domain.Receipt) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	receiptQuery := `
		INSERT INTO receipts (` + receiptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = tx.ExecContext(ctx, receiptQuery,
		receipt.ID,
		receipt.Number,
		receipt.IssuedAt,
		receipt.PaymentMethod,
		receipt.PaymentReference,
		receipt.Notes,
		receipt.TotalGross,
		receipt.TotalFee,
		receipt.TotalVAT,
		receipt.TotalNet,
		receipt.DeductibleExpenses,
		receipt.NonDeductibleExpenses,
		receipt.FinalNet,
		receipt.PDFKey,
		receipt.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return err
	}

	lineQuery := `
		INSERT INTO receipt_lines (id, receipt_id, contract_id, month, year, gross, fee, vat, net, late)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for _, line := range receipt.Lines {
		_, err = tx.ExecContext(ctx, lineQuery,
			line.ID,
			receipt.ID,
			line.ContractID,
			line.Month,
			line.Year,
			line.Gross,
			line.Fee,
			line.VAT,
			line.Net,
			line.Late,
		)
		if err != nil {
			return err
		}
	}

	expenseQuery := `
		INSERT INTO receipt_expenses (id, receipt_id, contract_id, concept, amount, deductible, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, expense := range receipt.Expenses {
		_, err = tx.ExecContext(ctx, expenseQuery,
			expense.ID,
			receipt.ID,
			expense.ContractID,
			expense.Concept,
			expense.Amount,
			expense.Deductible,
			expense.Description,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE id = $1`

	var receipt domain.Receipt
	err := r.db.GetContext(ctx, &receipt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	linesQuery := `
		SELECT id, receipt_id, contract_id, month, year, gross, fee, vat, net, late
		FROM receipt_lines
		WHERE receipt_id = $1
		ORDER BY contract_id ASC, year ASC, month ASC
	`
	if err := r.db.SelectContext(ctx, &receipt.Lines, linesQuery, id); err != nil {
		return nil, err
	}

	expensesQuery := `
		SELECT id, receipt_id, contract_id, concept, amount, deductible, description
		FROM receipt_expenses
		WHERE receipt_id = $1
		ORDER BY contract_id ASC, concept ASC
	`
	if err := r.db.SelectContext(ctx, &receipt.Expenses, expensesQuery, id); err != nil {
		return nil, err
	}

	return &receipt, nil
}

func (r *receiptRepository) List(ctx context.Context, contractID *uuid.UUID) ([]*domain.Receipt, error) {
	var (
		receipts []*domain.Receipt
		err      error
	)

	if contractID == nil {
		query := `SELECT ` + receiptColumns + ` FROM receipts ORDER BY issued_at DESC, created_at DESC`
		err = r.db.SelectContext(ctx, &receipts, query)
	} else {
		query := `
			SELECT ` + receiptColumns + `
			FROM receipts
			WHERE id IN (SELECT receipt_id FROM receipt_lines WHERE contract_id = $1)
			ORDER BY issued_at DESC, created_at DESC
		`
		err = r.db.SelectContext(ctx, &receipts, query, *contractID)
	}
	if err != nil {
		return nil, err
	}

	return receipts, nil
}

func (r *receiptRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	// Lines and expenses go with the receipt through ON DELETE CASCADE.
	result, err := r.db.ExecContext(ctx, `DELETE FROM receipts WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *receiptRepository) SetPDFKey(ctx context.Context, id uuid.UUID, key string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE receipts SET pdf_key = $2 WHERE id = $1`, id, key)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
