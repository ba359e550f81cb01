package transaction

import (
	"fmt"
	"time"

	"github.com/pkoster/checkout-gateway/internal/domain/errors"
)

// Method identifies a supported payment method.
type Method string

const (
	MethodCreditCard Method = "creditcard"
	MethodSEPA       Method = "sepa"
	MethodIdeal      Method = "ideal"
	MethodGeneric    Method = "generic"
)

// ParseMethod resolves a payment method selector from the checkout form.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodCreditCard, MethodSEPA, MethodIdeal, MethodGeneric:
		return Method(s), nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrUnsupportedPaymentMethod, s)
	}
}

// Operation is the payment action intent sent alongside a transaction.
type Operation string

const (
	OperationPay     Operation = "pay"
	OperationReserve Operation = "reserve"
	OperationCapture Operation = "capture"
	OperationCancel  Operation = "cancel"
	OperationRefund  Operation = "refund"
)

// ParseOperation resolves an operation code.
func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case OperationPay, OperationReserve, OperationCapture, OperationCancel, OperationRefund:
		return Operation(s), nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrInvalidOperation, s)
	}
}

// PostProcessing reports whether the operation acts on a previously created
// transaction rather than at initial checkout. It selects the backend entry
// point used by the dispatcher.
func (o Operation) PostProcessing() bool {
	switch o {
	case OperationCapture, OperationCancel, OperationRefund:
		return true
	default:
		return false
	}
}

// Amount represents a monetary amount in the smallest currency unit.
type Amount struct {
	Cents    int64
	Currency string
}

// String returns a human-readable representation of the amount.
func (a Amount) String() string {
	whole := a.Cents / 100
	frac := a.Cents % 100
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%d.%02d %s", whole, frac, a.Currency)
}

// Validate checks that the amount is valid.
func (a Amount) Validate() error {
	if a.Cents <= 0 {
		return errors.NewValidationError("amount", "must be greater than 0")
	}
	if len(a.Currency) != 3 {
		return errors.NewValidationError("currency", "must be a 3-letter ISO code")
	}
	return nil
}

// Redirect carries the buyer-facing return URLs for a checkout attempt.
type Redirect struct {
	SuccessURL string
	CancelURL  string
	FailureURL string
}

// BasketItem is one line of the shopping basket attached when the
// shopping_basket setting is enabled.
type BasketItem struct {
	Name      string
	Quantity  int
	UnitCents int64
}

// TokenPayload carries the fields specific to token-based methods.
type TokenPayload struct {
	TokenID string
	TermURL string
}

// DirectDebitPayload carries the fields specific to direct-debit methods.
// BIC is populated only when the enable_bic setting is on.
type DirectDebitPayload struct {
	FirstName string
	LastName  string
	IBAN      string
	BIC       string
	MandateID string
}

// BankRedirectPayload carries the fields specific to bank-redirect methods.
type BankRedirectPayload struct {
	BIC string
}

// Transaction is a method-specific request for the payment backend. It is
// created fresh per checkout attempt or rebuilt from a recorded transaction
// for post-processing, and never mutated after submission.
//
// At most one of Token, DirectDebit and BankRedirect is populated; the
// generic method populates none.
type Transaction struct {
	Method          Method
	Operation       Operation
	Amount          Amount
	Redirect        Redirect
	NotificationURL string
	CustomFields    map[string]string

	Token        *TokenPayload
	DirectDebit  *DirectDebitPayload
	BankRedirect *BankRedirectPayload

	// Populated per method settings, independent of the method itself.
	Basket         []BasketItem
	Descriptor     string
	AdditionalInfo map[string]string
}

// Validate checks the one-payload-per-method invariant.
func (t *Transaction) Validate() error {
	populated := 0
	if t.Token != nil {
		populated++
	}
	if t.DirectDebit != nil {
		populated++
	}
	if t.BankRedirect != nil {
		populated++
	}
	if populated > 1 {
		return errors.NewDomainError("ambiguous_payload",
			"more than one method-specific payload populated", errors.ErrInvalidInput)
	}
	return t.Amount.Validate()
}

// MandateID composes the direct-debit mandate identifier from the configured
// creditor identifier, the order identifier and the generation time.
//
// Two mandates generated for the same order within the same second collide.
// That is an accepted limitation of the format, not something this function
// tries to resolve.
func MandateID(creditorID, orderID string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%d", creditorID, orderID, now.Unix())
}
