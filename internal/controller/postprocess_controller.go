package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pkoster/checkout-gateway/internal/domain/errors"
	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
	"github.com/pkoster/checkout-gateway/internal/postprocess"
)

// PostProcessController exposes the merchant-initiated follow-up operations.
// The response is always 200 with the aggregated error list; an empty list
// means the operation went through.
type PostProcessController struct {
	orchestrator *postprocess.Orchestrator
	logger       zerolog.Logger
}

func NewPostProcessController(orchestrator *postprocess.Orchestrator, logger zerolog.Logger) *PostProcessController {
	return &PostProcessController{orchestrator: orchestrator, logger: logger}
}

// Capture handles POST /api/v1/transactions/{id}/capture.
func (c *PostProcessController) Capture(w http.ResponseWriter, r *http.Request) {
	c.run(w, r, transaction.OperationCapture)
}

// Cancel handles POST /api/v1/transactions/{id}/cancel.
func (c *PostProcessController) Cancel(w http.ResponseWriter, r *http.Request) {
	c.run(w, r, transaction.OperationCancel)
}

// Refund handles POST /api/v1/transactions/{id}/refund.
func (c *PostProcessController) Refund(w http.ResponseWriter, r *http.Request) {
	c.run(w, r, transaction.OperationRefund)
}

func (c *PostProcessController) run(w http.ResponseWriter, r *http.Request, op transaction.Operation) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, c.logger, errors.NewValidationError("id", "not a valid transaction id"))
		return
	}

	log := c.orchestrator.Process(r.Context(), op, id, postprocess.TriggerBackend)
	writeJSON(w, http.StatusOK, errorListResponse{Errors: log.All()})
}
