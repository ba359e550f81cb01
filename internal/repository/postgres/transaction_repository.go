package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/pkoster/checkout-gateway/internal/domain/errors"
	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
)

// TransactionRepository implements transaction.Repository using PostgreSQL.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func (r *TransactionRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// Create inserts a transaction record.
func (r *TransactionRepository) Create(ctx context.Context, rec *transaction.Record) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO transactions
		 (id, parent_id, method, operation, amount_cents, currency, order_reference, backend_reference, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rec.ID, rec.ParentID, string(rec.Method), string(rec.Operation),
		rec.Amount.Cents, rec.Amount.Currency, rec.OrderReference, rec.BackendReference, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// FindByID retrieves a transaction record by its identifier.
func (r *TransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*transaction.Record, error) {
	var rec transaction.Record
	var method, operation string
	err := r.db(ctx).QueryRow(ctx,
		`SELECT id, parent_id, method, operation, amount_cents, currency, order_reference, backend_reference, created_at
		 FROM transactions WHERE id = $1`, id).
		Scan(&rec.ID, &rec.ParentID, &method, &operation,
			&rec.Amount.Cents, &rec.Amount.Currency, &rec.OrderReference, &rec.BackendReference, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domainErrors.ErrTransactionNotFound, id)
		}
		return nil, fmt.Errorf("select transaction: %w", err)
	}
	rec.Method = transaction.Method(method)
	rec.Operation = transaction.Operation(operation)
	return &rec, nil
}

// SetBackendReference attaches the backend transaction reference once known.
func (r *TransactionRepository) SetBackendReference(ctx context.Context, id uuid.UUID, ref string) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE transactions SET backend_reference = $1 WHERE id = $2`, ref, id)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domainErrors.ErrTransactionNotFound, id)
	}
	return nil
}
