package backend

import (
	"context"

	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
)

// ProcessRequest is one dispatch to the payment backend.
type ProcessRequest struct {
	Transaction *transaction.Transaction
	Operation   transaction.Operation
	// ParentReference is the backend reference of the original transaction.
	// Required for post-processing operations, empty otherwise.
	ParentReference string
}

// Processor submits a transaction plus an operation to the payment backend.
// Implementations collapse every transport or protocol failure into a single
// ErrBackendCallFailed; an unrecognized but well-transported response is not
// an error, it comes back as KindUnknown.
type Processor interface {
	Process(ctx context.Context, req ProcessRequest) (*Response, error)
}
