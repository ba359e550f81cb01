package checkout

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/pkoster/checkout-gateway/internal/backend"
	"github.com/pkoster/checkout-gateway/internal/domain/errors"
	"github.com/pkoster/checkout-gateway/internal/domain/method"
	"github.com/pkoster/checkout-gateway/internal/domain/order"
	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
	"github.com/pkoster/checkout-gateway/internal/errlog"
)

// TransactionManager runs a function inside a storage transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config holds the storefront-facing settings of the checkout flow.
type Config struct {
	// Active mirrors the storefront's module-active toggle; checkout fails
	// closed when the gateway is disabled.
	Active    bool
	ShopName  string
	PublicURL string
}

// Request is one checkout submission.
type Request struct {
	Cart   order.CartSnapshot
	Method string
	Fields FormFields
}

// Result is what the response router works from. On failure Response is nil
// and Errors is non-empty; the dispatcher boundary never lets an error
// propagate further out than this.
type Result struct {
	Response       *backend.Response
	OrderReference string
	Errors         *errlog.Log
}

// UseCase orchestrates the initial checkout flow: create the order, build the
// method-specific transaction, record it, and dispatch it with the method's
// configured payment action.
type UseCase struct {
	orders    order.Repository
	records   transaction.Repository
	settings  method.SettingsResolver
	processor backend.Processor
	builder   *Builder
	tx        TransactionManager
	cfg       Config
	logger    zerolog.Logger
}

func NewUseCase(
	orders order.Repository,
	records transaction.Repository,
	settings method.SettingsResolver,
	processor backend.Processor,
	builder *Builder,
	tx TransactionManager,
	cfg Config,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		orders:    orders,
		records:   records,
		settings:  settings,
		processor: processor,
		builder:   builder,
		tx:        tx,
		cfg:       cfg,
		logger:    logger,
	}
}

// Execute runs one checkout attempt to completion. It never returns an
// error; failures are recorded in Result.Errors and the caller routes them to
// the buyer-facing failure redirect.
func (u *UseCase) Execute(ctx context.Context, req Request) *Result {
	log := errlog.New()

	if err := u.guard(req.Cart); err != nil {
		return u.fail(log, "", "guard", err)
	}

	m, err := transaction.ParseMethod(req.Method)
	if err != nil {
		return u.fail(log, "", "parse_method", err)
	}

	settings, err := u.settings.Resolve(ctx, m)
	if err != nil {
		return u.fail(log, "", "resolve_settings", err)
	}

	var (
		ord *order.Order
		t   *transaction.Transaction
		rec *transaction.Record
	)
	err = u.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		ord, err = u.orders.Create(txCtx, req.Cart, order.StatusAwaitingPayment, m)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		t, err = u.builder.Build(BuildInput{
			Method:          m,
			Operation:       settings.PaymentAction,
			Amount:          transaction.Amount{Cents: req.Cart.TotalCents, Currency: req.Cart.Currency},
			OrderID:         ord.Reference,
			Redirect:        u.redirectURLs(req.Cart.CartID, m),
			NotificationURL: u.notificationURL(req.Cart.CartID, m),
			Settings:        settings,
			Fields:          req.Fields,
			Cart:            &req.Cart,
			ShopName:        u.cfg.ShopName,
		})
		if err != nil {
			return err
		}

		rec = transaction.NewRecord(t, ord.Reference, nil)
		return u.records.Create(txCtx, rec)
	})
	if err != nil {
		return u.fail(log, "", "prepare", err)
	}

	resp, err := u.processor.Process(ctx, backend.ProcessRequest{
		Transaction: t,
		Operation:   settings.PaymentAction,
	})
	if err != nil {
		// BackendCallFailed stops here; the buyer gets the generic notice.
		return u.fail(log, ord.Reference, "dispatch", err)
	}

	if resp.BackendReference != "" {
		if err := u.records.SetBackendReference(ctx, rec.ID, resp.BackendReference); err != nil {
			u.logger.Error().Err(err).Str("transaction_id", rec.ID.String()).
				Msg("failed to attach backend reference")
		}
	}

	return &Result{Response: resp, OrderReference: ord.Reference, Errors: log}
}

// guard mirrors the storefront preconditions: a customer and both addresses
// must be attached to the cart and the gateway must be active.
func (u *UseCase) guard(cart order.CartSnapshot) error {
	if !u.cfg.Active {
		return errors.NewDomainError("gateway_inactive", "payment gateway is disabled", nil)
	}
	if cart.CustomerID == "" {
		return errors.NewValidationError("customer_id", "cart has no customer")
	}
	if cart.DeliveryAddressID == "" || cart.InvoiceAddressID == "" {
		return errors.NewValidationError("address", "cart is missing an address")
	}
	return nil
}

func (u *UseCase) fail(log *errlog.Log, orderRef, step string, err error) *Result {
	log.Append(err.Error())
	u.logger.Error().
		Str("component", "checkout").
		Str("step", step).
		Str("error_kind", errors.Kind(err)).
		Err(err).
		Msg("checkout attempt failed")
	return &Result{OrderReference: orderRef, Errors: log}
}

func (u *UseCase) redirectURLs(cartID string, m transaction.Method) transaction.Redirect {
	return transaction.Redirect{
		SuccessURL: u.returnURL(cartID, m, "success"),
		CancelURL:  u.returnURL(cartID, m, "cancel"),
		FailureURL: u.returnURL(cartID, m, "failure"),
	}
}

func (u *UseCase) returnURL(cartID string, m transaction.Method, state string) string {
	q := url.Values{}
	q.Set("cart", cartID)
	q.Set("method", string(m))
	q.Set("state", state)
	return u.cfg.PublicURL + "/checkout/return?" + q.Encode()
}

func (u *UseCase) notificationURL(cartID string, m transaction.Method) string {
	q := url.Values{}
	q.Set("cart", cartID)
	q.Set("method", string(m))
	return u.cfg.PublicURL + "/notifications?" + q.Encode()
}
