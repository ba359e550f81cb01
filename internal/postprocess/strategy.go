package postprocess

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkoster/checkout-gateway/internal/backend"
	"github.com/pkoster/checkout-gateway/internal/domain/errors"
	"github.com/pkoster/checkout-gateway/internal/domain/order"
	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
)

// Trigger describes what started a post-processing run and selects the
// order-update strategy.
type Trigger string

const (
	// TriggerBackend marks runs started by an internal backend action
	// (an operator capturing, cancelling or refunding a transaction).
	TriggerBackend Trigger = "backend"
	// TriggerNotification marks runs started by an asynchronous notification
	// from the payment backend.
	TriggerNotification Trigger = "notification"
)

// OrderUpdateStrategy applies a backend response to the resolved order.
type OrderUpdateStrategy interface {
	Apply(ctx context.Context, ord *order.Order, op transaction.Operation, resp *backend.Response) error
}

// statusFor maps a completed operation onto the resulting order status.
func statusFor(op transaction.Operation) order.Status {
	switch op {
	case transaction.OperationReserve:
		return order.StatusAuthorized
	case transaction.OperationCancel:
		return order.StatusCancelled
	case transaction.OperationRefund:
		return order.StatusRefunded
	default:
		// pay and capture both settle the order
		return order.StatusCaptured
	}
}

// BackendUpdate is the strategy for operator-initiated runs: the outcome is
// applied synchronously, and anything short of success is an error for the
// orchestrator to record.
type BackendUpdate struct {
	orders order.Repository
}

func NewBackendUpdate(orders order.Repository) *BackendUpdate {
	return &BackendUpdate{orders: orders}
}

func (s *BackendUpdate) Apply(ctx context.Context, ord *order.Order, op transaction.Operation, resp *backend.Response) error {
	switch resp.Kind {
	case backend.KindSuccess:
		return s.orders.UpdateStatus(ctx, ord.ID, statusFor(op))
	case backend.KindFailure:
		return fmt.Errorf("%s rejected by backend: %s", op, resp.FailureMessage())
	case backend.KindRedirect, backend.KindForm:
		return errors.NewDomainError("unexpected_interaction",
			fmt.Sprintf("backend requested buyer interaction for %s", op), nil)
	default:
		return fmt.Errorf("%w for operation %s", errors.ErrUnclassifiedResponse, op)
	}
}

// NotificationUpdate is the strategy for notification-initiated runs: every
// delivery is appended to the order's event trail, and the order status moves
// only on a definitive outcome.
type NotificationUpdate struct {
	orders order.Repository
}

func NewNotificationUpdate(orders order.Repository) *NotificationUpdate {
	return &NotificationUpdate{orders: orders}
}

func (s *NotificationUpdate) Apply(ctx context.Context, ord *order.Order, op transaction.Operation, resp *backend.Response) error {
	event := &order.Event{
		ID:        uuid.New(),
		OrderID:   ord.ID,
		Operation: string(op),
		Kind:      string(resp.Kind),
		Message:   resp.FailureMessage(),
		CreatedAt: time.Now(),
	}
	if err := s.orders.AppendEvent(ctx, event); err != nil {
		return fmt.Errorf("append order event: %w", err)
	}

	switch resp.Kind {
	case backend.KindSuccess:
		return s.orders.UpdateStatus(ctx, ord.ID, statusFor(op))
	case backend.KindFailure:
		return s.orders.UpdateStatus(ctx, ord.ID, order.StatusFailed)
	case backend.KindRedirect, backend.KindForm:
		// buyer interaction still in flight, nothing to apply yet
		return nil
	default:
		return fmt.Errorf("%w in notification for operation %s", errors.ErrUnclassifiedResponse, op)
	}
}
