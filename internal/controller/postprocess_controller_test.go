package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkoster/checkout-gateway/internal/backend"
	"github.com/pkoster/checkout-gateway/internal/checkout"
	"github.com/pkoster/checkout-gateway/internal/domain/method"
	"github.com/pkoster/checkout-gateway/internal/domain/order"
	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
	"github.com/pkoster/checkout-gateway/internal/postprocess"
	"github.com/pkoster/checkout-gateway/internal/testutil"
)

type postProcessFixture struct {
	records *testutil.MockTransactionRepository
	orders  *testutil.MockOrderRepository
	router  chi.Router
}

func newPostProcessFixture(t *testing.T, opts ...backend.MockProcessorOption) *postProcessFixture {
	t.Helper()
	f := &postProcessFixture{
		records: testutil.NewMockTransactionRepository(),
		orders:  testutil.NewMockOrderRepository(),
	}
	orchestrator := postprocess.NewOrchestrator(
		f.records,
		f.orders,
		testutil.NewMockSettingsResolver(method.Settings{}),
		backend.NewMockProcessor(opts...),
		checkout.NewBuilder(),
		zerolog.Nop(),
	)
	ctrl := NewPostProcessController(orchestrator, zerolog.Nop())

	f.router = chi.NewRouter()
	f.router.Post("/transactions/{id}/capture", ctrl.Capture)
	f.router.Post("/transactions/{id}/cancel", ctrl.Cancel)
	f.router.Post("/transactions/{id}/refund", ctrl.Refund)
	return f
}

func (f *postProcessFixture) seed(t *testing.T) *transaction.Record {
	t.Helper()
	ord := testutil.NewTestOrder("ORD-009", order.StatusAuthorized)
	f.orders.Put(ord)
	rec := testutil.NewTestRecord(transaction.MethodCreditCard, transaction.OperationReserve, ord.Reference)
	require.NoError(t, f.records.Create(context.Background(), rec))
	return rec
}

func decodeErrors(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Errors
}

func TestCaptureSuccess(t *testing.T) {
	f := newPostProcessFixture(t, backend.WithResponse(&backend.Response{Kind: backend.KindSuccess}))
	rec := f.seed(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transactions/"+rec.ID.String()+"/capture", nil)
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeErrors(t, w))

	ord, err := f.orders.FindByReference(context.Background(), rec.OrderReference)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCaptured, ord.Status)
}

func TestCaptureUnknownTransactionStillReturns200(t *testing.T) {
	f := newPostProcessFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transactions/6f1c7f05-11f6-4d6c-8f3a-30c1b27b2a6e/capture", nil)
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	errs := decodeErrors(t, w)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "transaction not found")
}

func TestCaptureRejectsMalformedID(t *testing.T) {
	f := newPostProcessFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transactions/not-a-uuid/capture", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefundBackendRejection(t *testing.T) {
	f := newPostProcessFixture(t, backend.WithResponse(&backend.Response{
		Kind: backend.KindFailure,
		Statuses: []backend.Status{
			{Code: "500.1063", Description: "The refund exceeds the captured amount.", Severity: "error"},
		},
	}))
	rec := f.seed(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transactions/"+rec.ID.String()+"/refund", nil)
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	errs := decodeErrors(t, w)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "The refund exceeds the captured amount.")
}

func TestCancelSuccess(t *testing.T) {
	f := newPostProcessFixture(t, backend.WithResponse(&backend.Response{Kind: backend.KindSuccess}))
	rec := f.seed(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transactions/"+rec.ID.String()+"/cancel", nil)
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeErrors(t, w))

	ord, err := f.orders.FindByReference(context.Background(), rec.OrderReference)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, ord.Status)
}
