package postprocess

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pkoster/checkout-gateway/internal/backend"
	"github.com/pkoster/checkout-gateway/internal/checkout"
	"github.com/pkoster/checkout-gateway/internal/domain/errors"
	"github.com/pkoster/checkout-gateway/internal/domain/method"
	"github.com/pkoster/checkout-gateway/internal/domain/order"
	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
	"github.com/pkoster/checkout-gateway/internal/errlog"
)

// Orchestrator runs follow-up operations (capture, cancel, refund) against a
// previously recorded transaction. Every failure is caught at this boundary,
// appended to the returned log and logged for operators; Process never
// returns an error and callers must inspect the log.
type Orchestrator struct {
	records   transaction.Repository
	orders    order.Repository
	settings  method.SettingsResolver
	processor backend.Processor
	builder   *checkout.Builder
	logger    zerolog.Logger
}

func NewOrchestrator(
	records transaction.Repository,
	orders order.Repository,
	settings method.SettingsResolver,
	processor backend.Processor,
	builder *checkout.Builder,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		records:   records,
		orders:    orders,
		settings:  settings,
		processor: processor,
		builder:   builder,
		logger:    logger,
	}
}

// Process looks up the prior transaction, rebuilds and dispatches the
// follow-up operation, and applies the outcome to the associated order with
// the strategy selected by trigger.
func (o *Orchestrator) Process(ctx context.Context, op transaction.Operation, transactionID uuid.UUID, trigger Trigger) *errlog.Log {
	log := errlog.New()
	if err := o.process(ctx, op, transactionID, trigger); err != nil {
		log.Append(err.Error())
		o.logger.Error().
			Str("component", "postprocess").
			Str("operation", string(op)).
			Str("transaction_id", transactionID.String()).
			Str("trigger", string(trigger)).
			Str("error_kind", errors.Kind(err)).
			Err(err).
			Msg("post-processing failed")
	}
	return log
}

func (o *Orchestrator) process(ctx context.Context, op transaction.Operation, transactionID uuid.UUID, trigger Trigger) error {
	rec, err := o.records.FindByID(ctx, transactionID)
	if err != nil {
		return err
	}

	// The recorded method string may predate a gateway upgrade; re-validate
	// before building anything against it.
	if _, err := transaction.ParseMethod(string(rec.Method)); err != nil {
		return err
	}

	t := o.builder.Rebuild(rec, op)

	// Settings are resolved fresh: post-processing uses the method's current
	// configuration, not a snapshot from the original transaction.
	if _, err := o.settings.Resolve(ctx, rec.Method); err != nil {
		return err
	}

	if rec.BackendReference == nil || *rec.BackendReference == "" {
		return fmt.Errorf("%w: backend reference on transaction %s", errors.ErrMissingRequiredField, rec.ID)
	}

	resp, err := o.processor.Process(ctx, backend.ProcessRequest{
		Transaction:     t,
		Operation:       op,
		ParentReference: *rec.BackendReference,
	})
	if err != nil {
		return err
	}

	followUp := transaction.NewRecord(t, rec.OrderReference, &rec.ID)
	if resp.BackendReference != "" {
		followUp.BackendReference = &resp.BackendReference
	}
	if err := o.records.Create(ctx, followUp); err != nil {
		return fmt.Errorf("record follow-up transaction: %w", err)
	}

	ord, err := o.orders.FindByReference(ctx, rec.OrderReference)
	if err != nil {
		return err
	}

	return o.strategy(trigger).Apply(ctx, ord, op, resp)
}

func (o *Orchestrator) strategy(trigger Trigger) OrderUpdateStrategy {
	if trigger == TriggerNotification {
		return NewNotificationUpdate(o.orders)
	}
	return NewBackendUpdate(o.orders)
}
