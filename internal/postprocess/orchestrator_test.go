package postprocess_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pkoster/checkout-gateway/internal/backend"
	"github.com/pkoster/checkout-gateway/internal/checkout"
	"github.com/pkoster/checkout-gateway/internal/domain/method"
	"github.com/pkoster/checkout-gateway/internal/domain/order"
	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
	"github.com/pkoster/checkout-gateway/internal/postprocess"
	"github.com/pkoster/checkout-gateway/internal/testutil"
)

type orchestratorFixture struct {
	records      *testutil.MockTransactionRepository
	orders       *testutil.MockOrderRepository
	settings     *testutil.MockSettingsResolver
	processor    *backend.MockProcessor
	orchestrator *postprocess.Orchestrator
}

func newOrchestratorFixture(opts ...backend.MockProcessorOption) *orchestratorFixture {
	f := &orchestratorFixture{
		records:   testutil.NewMockTransactionRepository(),
		orders:    testutil.NewMockOrderRepository(),
		settings:  testutil.NewMockSettingsResolver(method.Settings{PaymentAction: transaction.OperationPay}),
		processor: backend.NewMockProcessor(opts...),
	}
	f.orchestrator = postprocess.NewOrchestrator(
		f.records,
		f.orders,
		f.settings,
		f.processor,
		checkout.NewBuilder(),
		zerolog.Nop(),
	)
	return f
}

// seed stores a dispatched transaction and its order.
func (f *orchestratorFixture) seed(t *testing.T, status order.Status) *transaction.Record {
	t.Helper()
	ord := testutil.NewTestOrder("ORD-009", status)
	f.orders.Put(ord)
	rec := testutil.NewTestRecord(transaction.MethodCreditCard, transaction.OperationReserve, ord.Reference)
	if err := f.records.Create(context.Background(), rec); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	return rec
}

func TestProcessCaptureSuccess(t *testing.T) {
	f := newOrchestratorFixture(backend.WithResponse(&backend.Response{
		Kind:             backend.KindSuccess,
		BackendReference: "be-follow-up",
	}))
	rec := f.seed(t, order.StatusAuthorized)

	log := f.orchestrator.Process(context.Background(), transaction.OperationCapture, rec.ID, postprocess.TriggerBackend)

	if !log.Empty() {
		t.Fatalf("unexpected errors: %v", log.All())
	}

	ord, err := f.orders.FindByReference(context.Background(), rec.OrderReference)
	if err != nil {
		t.Fatalf("find order: %v", err)
	}
	if ord.Status != order.StatusCaptured {
		t.Errorf("expected captured, got %s", ord.Status)
	}

	// A follow-up record is stored alongside the original.
	recs := f.records.All()
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	var followUp *transaction.Record
	for _, r := range recs {
		if r.ID != rec.ID {
			followUp = r
		}
	}
	if followUp == nil {
		t.Fatal("follow-up record not stored")
	}
	if followUp.ParentID == nil || *followUp.ParentID != rec.ID {
		t.Error("follow-up must reference the original transaction")
	}
	if followUp.Operation != transaction.OperationCapture {
		t.Errorf("expected capture, got %s", followUp.Operation)
	}
	if followUp.BackendReference == nil || *followUp.BackendReference != "be-follow-up" {
		t.Error("follow-up must carry the new backend reference")
	}

	// The dispatch went to the operation endpoint of the original.
	req := f.processor.Requests[0]
	if req.ParentReference != *rec.BackendReference {
		t.Errorf("expected parent reference %s, got %s", *rec.BackendReference, req.ParentReference)
	}
}

func TestProcessOperationStatuses(t *testing.T) {
	tests := []struct {
		op   transaction.Operation
		want order.Status
	}{
		{transaction.OperationCapture, order.StatusCaptured},
		{transaction.OperationCancel, order.StatusCancelled},
		{transaction.OperationRefund, order.StatusRefunded},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			f := newOrchestratorFixture(backend.WithResponse(&backend.Response{Kind: backend.KindSuccess}))
			rec := f.seed(t, order.StatusAuthorized)

			log := f.orchestrator.Process(context.Background(), tt.op, rec.ID, postprocess.TriggerBackend)
			if !log.Empty() {
				t.Fatalf("unexpected errors: %v", log.All())
			}

			ord, _ := f.orders.FindByReference(context.Background(), rec.OrderReference)
			if ord.Status != tt.want {
				t.Errorf("expected %s, got %s", tt.want, ord.Status)
			}
		})
	}
}

func TestProcessUnknownTransaction(t *testing.T) {
	f := newOrchestratorFixture()

	log := f.orchestrator.Process(context.Background(), transaction.OperationCapture, uuid.New(), postprocess.TriggerBackend)

	msgs := log.All()
	if len(msgs) != 1 {
		t.Fatalf("expected exactly 1 error, got %d", len(msgs))
	}
	if !strings.Contains(msgs[0], "transaction not found") {
		t.Errorf("unexpected message: %q", msgs[0])
	}
	if f.processor.Calls != 0 {
		t.Errorf("expected 0 dispatches, got %d", f.processor.Calls)
	}
}

func TestProcessMissingBackendReference(t *testing.T) {
	f := newOrchestratorFixture()
	ord := testutil.NewTestOrder("ORD-010", order.StatusAuthorized)
	f.orders.Put(ord)
	rec := testutil.NewTestRecord(transaction.MethodCreditCard, transaction.OperationReserve, ord.Reference)
	rec.BackendReference = nil
	if err := f.records.Create(context.Background(), rec); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	log := f.orchestrator.Process(context.Background(), transaction.OperationCapture, rec.ID, postprocess.TriggerBackend)

	if log.Empty() {
		t.Fatal("expected a recorded error")
	}
	if f.processor.Calls != 0 {
		t.Errorf("expected 0 dispatches, got %d", f.processor.Calls)
	}
}

func TestProcessBackendRejection(t *testing.T) {
	f := newOrchestratorFixture(backend.WithResponse(&backend.Response{
		Kind: backend.KindFailure,
		Statuses: []backend.Status{
			{Code: "500.1057", Description: "The transaction cannot be captured.", Severity: "error"},
		},
	}))
	rec := f.seed(t, order.StatusAuthorized)

	log := f.orchestrator.Process(context.Background(), transaction.OperationCapture, rec.ID, postprocess.TriggerBackend)

	msgs := log.All()
	if len(msgs) != 1 {
		t.Fatalf("expected exactly 1 error, got %d", len(msgs))
	}
	if !strings.Contains(msgs[0], "The transaction cannot be captured.") {
		t.Errorf("expected the backend status description, got %q", msgs[0])
	}

	// Order stays untouched for operator-triggered failures.
	ord, _ := f.orders.FindByReference(context.Background(), rec.OrderReference)
	if ord.Status != order.StatusAuthorized {
		t.Errorf("expected authorized, got %s", ord.Status)
	}
}

func TestProcessUnclassifiedResponse(t *testing.T) {
	f := newOrchestratorFixture(backend.WithResponse(&backend.Response{Kind: backend.KindUnknown}))
	rec := f.seed(t, order.StatusAuthorized)

	log := f.orchestrator.Process(context.Background(), transaction.OperationCapture, rec.ID, postprocess.TriggerBackend)

	if log.Empty() {
		t.Fatal("unclassified responses must be recorded as errors")
	}
}

func TestProcessNotificationAppendsEvent(t *testing.T) {
	f := newOrchestratorFixture(backend.WithResponse(&backend.Response{Kind: backend.KindSuccess}))
	rec := f.seed(t, order.StatusAuthorized)

	log := f.orchestrator.Process(context.Background(), transaction.OperationCapture, rec.ID, postprocess.TriggerNotification)
	if !log.Empty() {
		t.Fatalf("unexpected errors: %v", log.All())
	}

	events := f.orders.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Operation != "capture" || events[0].Kind != "success" {
		t.Errorf("unexpected event: %+v", events[0])
	}

	ord, _ := f.orders.FindByReference(context.Background(), rec.OrderReference)
	if ord.Status != order.StatusCaptured {
		t.Errorf("expected captured, got %s", ord.Status)
	}
}

func TestProcessNotificationFailureMovesOrderToFailed(t *testing.T) {
	f := newOrchestratorFixture(backend.WithResponse(&backend.Response{
		Kind:     backend.KindFailure,
		Statuses: []backend.Status{{Code: "500.1072", Description: "Declined.", Severity: "error"}},
	}))
	rec := f.seed(t, order.StatusAuthorized)

	log := f.orchestrator.Process(context.Background(), transaction.OperationCapture, rec.ID, postprocess.TriggerNotification)
	if !log.Empty() {
		t.Fatalf("unexpected errors: %v", log.All())
	}

	events := f.orders.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Message != "Declined." {
		t.Errorf("unexpected event message: %q", events[0].Message)
	}

	ord, _ := f.orders.FindByReference(context.Background(), rec.OrderReference)
	if ord.Status != order.StatusFailed {
		t.Errorf("expected failed, got %s", ord.Status)
	}
}

func TestProcessNotificationInteractionIsNoOp(t *testing.T) {
	f := newOrchestratorFixture(backend.WithResponse(&backend.Response{
		Kind:        backend.KindRedirect,
		RedirectURL: "https://pay.example/3ds",
	}))
	rec := f.seed(t, order.StatusAwaitingPayment)

	log := f.orchestrator.Process(context.Background(), transaction.OperationCapture, rec.ID, postprocess.TriggerNotification)
	if !log.Empty() {
		t.Fatalf("unexpected errors: %v", log.All())
	}

	// The delivery is still on the event trail.
	if len(f.orders.Events()) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.orders.Events()))
	}

	ord, _ := f.orders.FindByReference(context.Background(), rec.OrderReference)
	if ord.Status != order.StatusAwaitingPayment {
		t.Errorf("interaction responses must not move the order, got %s", ord.Status)
	}
}
