package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/pkoster/checkout-gateway/internal/domain/errors"
	"github.com/pkoster/checkout-gateway/pkg/retry"
)

// HTTPProcessor dispatches transactions to the payment backend over HTTP.
// Initial operations go to the payments endpoint; post-processing operations
// go to the operation endpoint of the original backend transaction. The round
// trip is retried with backoff and guarded by a circuit breaker; whatever
// error survives both is collapsed into ErrBackendCallFailed.
type HTTPProcessor struct {
	baseURL  string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[*Response]
	retryCfg retry.Config
	logger   zerolog.Logger
}

// HTTPProcessorConfig holds the transport settings for the backend client.
type HTTPProcessorConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	MaxAttempts    uint
	RetryDelay     time.Duration
}

// NewHTTPProcessor creates a backend processor for the given endpoint.
func NewHTTPProcessor(cfg HTTPProcessorConfig, logger zerolog.Logger) *HTTPProcessor {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retryCfg := retry.DefaultConfig()
	if cfg.MaxAttempts > 0 {
		retryCfg.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.RetryDelay > 0 {
		retryCfg.InitialDelay = cfg.RetryDelay
	}
	retryCfg.OnRetry = func(attempt uint, err error) {
		logger.Warn().Uint("attempt", attempt).Err(err).Msg("backend call retrying")
	}

	breaker := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        "payment-backend",
		MaxRequests: 10,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
	})

	return &HTTPProcessor{
		baseURL:  cfg.BaseURL,
		client:   &http.Client{Timeout: timeout},
		breaker:  breaker,
		retryCfg: retryCfg,
		logger:   logger,
	}
}

// Process implements Processor.
func (p *HTTPProcessor) Process(ctx context.Context, req ProcessRequest) (*Response, error) {
	url, err := p.endpoint(req)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(wireRequestFrom(req))
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", errors.ErrBackendCallFailed, err)
	}

	resp, err := p.breaker.Execute(func() (*Response, error) {
		return retry.DoWithResult(ctx, p.retryCfg, func() (*Response, error) {
			return p.roundTrip(ctx, url, body)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrBackendCallFailed, err)
	}
	return resp, nil
}

func (p *HTTPProcessor) endpoint(req ProcessRequest) (string, error) {
	if !req.Operation.PostProcessing() {
		return p.baseURL + "/transactions", nil
	}
	if req.ParentReference == "" {
		return "", fmt.Errorf("%w: parent reference", errors.ErrMissingRequiredField)
	}
	return fmt.Sprintf("%s/transactions/%s/%s", p.baseURL, req.ParentReference, req.Operation), nil
}

func (p *HTTPProcessor) roundTrip(ctx context.Context, url string, body []byte) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, fmt.Errorf("backend returned status %d: %s", httpResp.StatusCode, snippet)
	}

	var wire wireResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return wire.toResponse(), nil
}

// --- wire format ---

type wireBasketItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitCents int64  `json:"unit_cents"`
}

type wireRequest struct {
	Method          string            `json:"method"`
	Operation       string            `json:"operation"`
	AmountCents     int64             `json:"amount_cents"`
	Currency        string            `json:"currency"`
	SuccessURL      string            `json:"success_url,omitempty"`
	CancelURL       string            `json:"cancel_url,omitempty"`
	FailureURL      string            `json:"failure_url,omitempty"`
	NotificationURL string            `json:"notification_url,omitempty"`
	CustomFields    map[string]string `json:"custom_fields,omitempty"`

	TokenID string `json:"token_id,omitempty"`
	TermURL string `json:"term_url,omitempty"`

	AccountFirstName string `json:"account_first_name,omitempty"`
	AccountLastName  string `json:"account_last_name,omitempty"`
	IBAN             string `json:"iban,omitempty"`
	BIC              string `json:"bic,omitempty"`
	MandateID        string `json:"mandate_id,omitempty"`

	BankBIC string `json:"bank_bic,omitempty"`

	Basket         []wireBasketItem  `json:"basket,omitempty"`
	Descriptor     string            `json:"descriptor,omitempty"`
	AdditionalInfo map[string]string `json:"additional_info,omitempty"`
}

func wireRequestFrom(req ProcessRequest) wireRequest {
	t := req.Transaction
	w := wireRequest{
		Method:          string(t.Method),
		Operation:       string(req.Operation),
		AmountCents:     t.Amount.Cents,
		Currency:        t.Amount.Currency,
		SuccessURL:      t.Redirect.SuccessURL,
		CancelURL:       t.Redirect.CancelURL,
		FailureURL:      t.Redirect.FailureURL,
		NotificationURL: t.NotificationURL,
		CustomFields:    t.CustomFields,
		Descriptor:      t.Descriptor,
		AdditionalInfo:  t.AdditionalInfo,
	}
	if t.Token != nil {
		w.TokenID = t.Token.TokenID
		w.TermURL = t.Token.TermURL
	}
	if t.DirectDebit != nil {
		w.AccountFirstName = t.DirectDebit.FirstName
		w.AccountLastName = t.DirectDebit.LastName
		w.IBAN = t.DirectDebit.IBAN
		w.BIC = t.DirectDebit.BIC
		w.MandateID = t.DirectDebit.MandateID
	}
	if t.BankRedirect != nil {
		w.BankBIC = t.BankRedirect.BIC
	}
	for _, item := range t.Basket {
		w.Basket = append(w.Basket, wireBasketItem{Name: item.Name, Quantity: item.Quantity, UnitCents: item.UnitCents})
	}
	return w
}

type wireResponse struct {
	Result        string            `json:"result"`
	TransactionID string            `json:"transaction_id,omitempty"`
	RedirectURL   string            `json:"redirect_url,omitempty"`
	FormURL       string            `json:"form_url,omitempty"`
	FormMethod    string            `json:"form_method,omitempty"`
	FormFields    map[string]string `json:"form_fields,omitempty"`
	Statuses      []Status          `json:"statuses,omitempty"`
}

func (w *wireResponse) toResponse() *Response {
	resp := &Response{BackendReference: w.TransactionID}
	switch w.Result {
	case "redirect":
		resp.Kind = KindRedirect
		resp.RedirectURL = w.RedirectURL
	case "form":
		resp.Kind = KindForm
		resp.Form = Form{URL: w.FormURL, Method: w.FormMethod, Fields: w.FormFields}
	case "failure":
		resp.Kind = KindFailure
		resp.Statuses = w.Statuses
	case "success":
		resp.Kind = KindSuccess
	default:
		resp.Kind = KindUnknown
	}
	return resp
}
