package controller

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/pkoster/checkout-gateway/internal/backend"
	"github.com/pkoster/checkout-gateway/internal/checkout"
	"github.com/pkoster/checkout-gateway/internal/observability"
)

// failureNotice is the only message buyers ever see for a failed checkout.
// Backend status descriptions are recorded for operators, not shown.
const failureNotice = "An error occurred during the checkout process. Please try again."

// CheckoutController receives storefront checkout submissions and routes the
// classified backend response to its terminal browser action: a redirect, an
// auto-submitted form, or the failure redirect back to the order page.
type CheckoutController struct {
	usecase      *checkout.UseCase
	orderPageURL string
	metrics      *observability.Metrics
	logger       zerolog.Logger
}

func NewCheckoutController(usecase *checkout.UseCase, orderPageURL string, metrics *observability.Metrics, logger zerolog.Logger) *CheckoutController {
	return &CheckoutController{
		usecase:      usecase,
		orderPageURL: orderPageURL,
		metrics:      metrics,
		logger:       logger,
	}
}

// Submit handles POST /checkout.
func (c *CheckoutController) Submit(w http.ResponseWriter, r *http.Request) {
	form, err := parseCheckoutForm(r)
	if err != nil {
		writeError(w, c.logger, err)
		return
	}

	result := c.usecase.Execute(r.Context(), checkout.Request{
		Cart:   form.cart,
		Method: form.method,
		Fields: form.fields,
	})

	if result.Response == nil {
		c.metrics.CheckoutsTotal.WithLabelValues(form.method, "error").Inc()
		c.redirectToFailure(w, r)
		return
	}

	// Each arm terminates the request; nothing runs after a routed response.
	switch result.Response.Kind {
	case backend.KindRedirect:
		c.metrics.CheckoutsTotal.WithLabelValues(form.method, "redirect").Inc()
		http.Redirect(w, r, result.Response.RedirectURL, http.StatusSeeOther)
		return
	case backend.KindForm:
		c.metrics.CheckoutsTotal.WithLabelValues(form.method, "form").Inc()
		if err := renderInteractionForm(w, result.Response.Form); err != nil {
			c.logger.Error().Err(err).Msg("failed to render interaction form")
		}
		return
	case backend.KindFailure:
		result.Errors.Append(result.Response.FailureMessage())
		c.logger.Warn().
			Str("order_reference", result.OrderReference).
			Str("failure_message", result.Response.FailureMessage()).
			Msg("backend rejected checkout")
		c.metrics.CheckoutsTotal.WithLabelValues(form.method, "failure").Inc()
		c.redirectToFailure(w, r)
		return
	default:
		// Success and unknown variants have no browser action at checkout
		// time; both fall through to the failure redirect.
		c.logger.Warn().
			Str("order_reference", result.OrderReference).
			Str("kind", string(result.Response.Kind)).
			Str("error_kind", "unclassified_response").
			Msg("unroutable backend response at checkout")
		c.metrics.CheckoutsTotal.WithLabelValues(form.method, "unroutable").Inc()
		c.redirectToFailure(w, r)
		return
	}
}

func (c *CheckoutController) redirectToFailure(w http.ResponseWriter, r *http.Request) {
	q := url.Values{}
	q.Set("notice", failureNotice)
	http.Redirect(w, r, c.orderPageURL+"?"+q.Encode(), http.StatusSeeOther)
}
