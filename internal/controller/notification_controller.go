package controller

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pkoster/checkout-gateway/internal/domain/errors"
	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
	"github.com/pkoster/checkout-gateway/internal/observability"
	"github.com/pkoster/checkout-gateway/internal/postprocess"
)

// NotificationController ingests the backend's asynchronous outcome
// deliveries. Processing failures are acknowledged with 200 anyway; a non-2xx
// would make the backend redeliver a notification that will fail the same way.
type NotificationController struct {
	orchestrator *postprocess.Orchestrator
	metrics      *observability.Metrics
	logger       zerolog.Logger
}

func NewNotificationController(orchestrator *postprocess.Orchestrator, metrics *observability.Metrics, logger zerolog.Logger) *NotificationController {
	return &NotificationController{orchestrator: orchestrator, metrics: metrics, logger: logger}
}

// Receive handles POST /notifications.
func (c *NotificationController) Receive(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, c.logger, err)
		return
	}

	op, err := transaction.ParseOperation(req.Operation)
	if err != nil {
		writeError(w, c.logger, err)
		return
	}

	id, err := uuid.Parse(req.TransactionID)
	if err != nil {
		writeError(w, c.logger, errors.NewValidationError("transaction_id", "not a valid transaction id"))
		return
	}

	log := c.orchestrator.Process(r.Context(), op, id, postprocess.TriggerNotification)
	if log.Empty() {
		c.metrics.NotificationsTotal.WithLabelValues("processed").Inc()
	} else {
		c.metrics.NotificationsTotal.WithLabelValues("failed").Inc()
	}

	writeJSON(w, http.StatusOK, errorListResponse{Errors: log.All()})
}
