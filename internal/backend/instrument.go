package backend

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pkoster/checkout-gateway/internal/domain/errors"
	"github.com/pkoster/checkout-gateway/internal/observability"
)

// InstrumentedProcessor records dispatch metrics and a span around another
// processor.
type InstrumentedProcessor struct {
	inner   Processor
	metrics *observability.Metrics
	tracer  trace.Tracer
}

func NewInstrumentedProcessor(inner Processor, metrics *observability.Metrics) *InstrumentedProcessor {
	return &InstrumentedProcessor{
		inner:   inner,
		metrics: metrics,
		tracer:  otel.Tracer("backend"),
	}
}

func (p *InstrumentedProcessor) Process(ctx context.Context, req ProcessRequest) (*Response, error) {
	ctx, span := p.tracer.Start(ctx, "backend.dispatch", trace.WithAttributes(
		attribute.String("operation", string(req.Operation)),
		attribute.String("payment_method", string(req.Transaction.Method)),
	))
	defer span.End()

	start := time.Now()
	resp, err := p.inner.Process(ctx, req)
	p.metrics.DispatchDuration.WithLabelValues(string(req.Operation)).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		p.metrics.BackendErrors.WithLabelValues(errors.Kind(err)).Inc()
		return nil, err
	}

	span.SetAttributes(attribute.String("response_kind", string(resp.Kind)))
	p.metrics.DispatchesTotal.WithLabelValues(string(req.Operation), string(resp.Kind)).Inc()
	return resp, nil
}
