package checkout

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkoster/checkout-gateway/internal/domain/errors"
	"github.com/pkoster/checkout-gateway/internal/domain/method"
	"github.com/pkoster/checkout-gateway/internal/domain/order"
	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
)

// FormFields holds the method-specific values submitted with the checkout
// form. Only the fields relevant for the selected method are read.
type FormFields struct {
	TokenID   string
	FirstName string
	LastName  string
	IBAN      string
	BIC       string
	BankBIC   string
}

// BuildInput is everything the builder needs to produce a transaction for an
// initial checkout attempt.
type BuildInput struct {
	Method          transaction.Method
	Operation       transaction.Operation
	Amount          transaction.Amount
	OrderID         string
	Redirect        transaction.Redirect
	NotificationURL string
	Settings        method.Settings
	Fields          FormFields
	Cart            *order.CartSnapshot
	ShopName        string
}

// Builder constructs payment-method-specific transactions. Construction is
// pure; the only ambient input is the clock used for mandate generation.
type Builder struct {
	now func() time.Time
}

type BuilderOption func(*Builder)

// WithClock overrides the mandate timestamp source.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{now: time.Now}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build produces a transaction enriched with exactly the fields the selected
// method and the method settings call for.
func (b *Builder) Build(in BuildInput) (*transaction.Transaction, error) {
	t := &transaction.Transaction{
		Method:          in.Method,
		Operation:       in.Operation,
		Amount:          in.Amount,
		Redirect:        in.Redirect,
		NotificationURL: in.NotificationURL,
		CustomFields:    map[string]string{"orderId": in.OrderID},
	}

	switch in.Method {
	case transaction.MethodCreditCard:
		if in.Fields.TokenID == "" {
			return nil, fmt.Errorf("%w: tokenId", errors.ErrMissingRequiredField)
		}
		t.Token = &transaction.TokenPayload{
			TokenID: in.Fields.TokenID,
			TermURL: in.Redirect.SuccessURL,
		}
	case transaction.MethodSEPA:
		if in.Fields.IBAN == "" {
			return nil, fmt.Errorf("%w: iban", errors.ErrMissingRequiredField)
		}
		dd := &transaction.DirectDebitPayload{
			FirstName: in.Fields.FirstName,
			LastName:  in.Fields.LastName,
			IBAN:      in.Fields.IBAN,
			MandateID: transaction.MandateID(in.Settings.CreditorID, in.OrderID, b.now()),
		}
		if in.Settings.EnableBIC {
			dd.BIC = in.Fields.BIC
		}
		t.DirectDebit = dd
	case transaction.MethodIdeal:
		t.BankRedirect = &transaction.BankRedirectPayload{BIC: in.Fields.BankBIC}
	case transaction.MethodGeneric:
		// no method-specific payload
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnsupportedPaymentMethod, in.Method)
	}

	if in.Settings.ShoppingBasket && in.Cart != nil {
		for _, line := range in.Cart.Lines {
			t.Basket = append(t.Basket, transaction.BasketItem{
				Name:      line.Name,
				Quantity:  line.Quantity,
				UnitCents: line.UnitCents,
			})
		}
	}
	if in.Settings.Descriptor {
		t.Descriptor = descriptor(in.ShopName, in.OrderID)
	}
	if in.Settings.SendAdditional && in.Cart != nil {
		t.AdditionalInfo = map[string]string{
			"customerId":        in.Cart.CustomerID,
			"deliveryAddressId": in.Cart.DeliveryAddressID,
			"invoiceAddressId":  in.Cart.InvoiceAddressID,
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Rebuild seeds a transaction for a follow-up operation from a recorded
// transaction's attributes. Method payloads are not reconstructed; the
// backend resolves them from the parent reference.
func (b *Builder) Rebuild(rec *transaction.Record, op transaction.Operation) *transaction.Transaction {
	return &transaction.Transaction{
		Method:       rec.Method,
		Operation:    op,
		Amount:       rec.Amount,
		CustomFields: map[string]string{"orderId": rec.OrderReference},
	}
}

// descriptor is the text shown on the buyer's statement: shop name (truncated
// to keep within descriptor length limits) plus the order identifier.
func descriptor(shopName, orderID string) string {
	if len(shopName) > 9 {
		shopName = shopName[:9]
	}
	return shopName + " " + orderID
}

// ParseAmount converts a decimal form value like "12.34" into cents.
func ParseAmount(value, currency string) (transaction.Amount, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return transaction.Amount{}, errors.NewValidationError("amount", "not a decimal number")
	}
	return transaction.Amount{Cents: int64(f*100 + 0.5), Currency: currency}, nil
}
