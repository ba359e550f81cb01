package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/pkoster/checkout-gateway/internal/domain/errors"
	"github.com/pkoster/checkout-gateway/internal/domain/method"
	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
)

// SettingsRepository resolves per-payment-method configuration from
// PostgreSQL. It always reads current values; callers wanting caching wrap it
// in the redis decorator.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Resolve implements method.SettingsResolver.
func (r *SettingsRepository) Resolve(ctx context.Context, m transaction.Method) (method.Settings, error) {
	var s method.Settings
	var action string
	err := r.pool.QueryRow(ctx,
		`SELECT payment_action, shopping_basket, descriptor, send_additional, enable_bic, creditor_id
		 FROM method_settings WHERE method = $1`, string(m)).
		Scan(&action, &s.ShoppingBasket, &s.Descriptor, &s.SendAdditional, &s.EnableBIC, &s.CreditorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return method.Settings{}, fmt.Errorf("%w: %s", domainErrors.ErrMethodSettingsNotFound, m)
		}
		return method.Settings{}, fmt.Errorf("select method settings: %w", err)
	}
	s.PaymentAction = transaction.Operation(action)
	return s, nil
}
