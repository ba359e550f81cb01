package method

import (
	"context"

	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
)

// Settings is the per-payment-method configuration. All fields are feature
// toggles except PaymentAction (the operation used for initial processing)
// and CreditorID (the direct-debit creditor identifier).
type Settings struct {
	PaymentAction  transaction.Operation `json:"payment_action"`
	ShoppingBasket bool                  `json:"shopping_basket"`
	Descriptor     bool                  `json:"descriptor"`
	SendAdditional bool                  `json:"send_additional"`
	EnableBIC      bool                  `json:"enable_bic"`
	CreditorID     string                `json:"creditor_id"`
}

// SettingsResolver resolves the current configuration for a payment method.
// Post-processing resolves settings fresh from this interface rather than
// from a snapshot taken at checkout time; configuration changes made after
// the original transaction apply to follow-up operations.
type SettingsResolver interface {
	Resolve(ctx context.Context, m transaction.Method) (Settings, error)
}
