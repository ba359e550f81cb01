package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is a persisted transaction attempt. Post-processing reads it to
// rebuild a follow-up transaction; this package never mutates a record after
// it has been written, apart from attaching the backend reference once known.
type Record struct {
	ID               uuid.UUID
	ParentID         *uuid.UUID
	Method           Method
	Operation        Operation
	Amount           Amount
	OrderReference   string
	BackendReference *string
	CreatedAt        time.Time
}

// NewRecord creates a record for a transaction about to be dispatched.
func NewRecord(t *Transaction, orderReference string, parentID *uuid.UUID) *Record {
	return &Record{
		ID:             uuid.New(),
		ParentID:       parentID,
		Method:         t.Method,
		Operation:      t.Operation,
		Amount:         t.Amount,
		OrderReference: orderReference,
		CreatedAt:      time.Now(),
	}
}

// Repository persists and resolves transaction records.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	// FindByID returns ErrTransactionNotFound when no record exists.
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
	SetBackendReference(ctx context.Context, id uuid.UUID, ref string) error
}
