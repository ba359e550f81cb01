package controller

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pkoster/checkout-gateway/internal/domain/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError maps domain errors onto HTTP statuses. Unrecognized errors are
// reported as a generic 500 without leaking internals.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var ve *errors.ValidationError
	if stderrors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Error(), Code: "validation_failed"})
		return
	}

	switch {
	case stderrors.Is(err, errors.ErrTransactionNotFound),
		stderrors.Is(err, errors.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Code: errors.Kind(err)})
	case stderrors.Is(err, errors.ErrInvalidOperation),
		stderrors.Is(err, errors.ErrUnsupportedPaymentMethod),
		stderrors.Is(err, errors.ErrMissingRequiredField),
		stderrors.Is(err, errors.ErrInvalidInput),
		stderrors.Is(err, errors.ErrValidationFailed):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: errors.Kind(err)})
	case stderrors.Is(err, errors.ErrBackendCallFailed):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "payment backend unavailable", Code: errors.Kind(err)})
	default:
		logger.Error().Err(err).Msg("unhandled error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "internal"})
	}
}

var validate = validator.New()

func decodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewValidationError("body", "invalid JSON payload")
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return errors.NewValidationError(f.Field(), "failed on the '"+f.Tag()+"' rule")
		}
		return errors.NewValidationError("body", err.Error())
	}
	return nil
}
