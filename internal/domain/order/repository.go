package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
)

// Repository is the order collaborator boundary. Create is called before the
// initial dispatch; FindByReference resolves the order during post-processing.
type Repository interface {
	Create(ctx context.Context, cart CartSnapshot, initial Status, method transaction.Method) (*Order, error)
	// FindByReference returns ErrOrderNotFound when no order exists.
	FindByReference(ctx context.Context, reference string) (*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	AppendEvent(ctx context.Context, event *Event) error
}
