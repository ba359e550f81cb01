package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/pkoster/checkout-gateway/internal/domain/errors"
	"github.com/pkoster/checkout-gateway/internal/domain/order"
	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
)

// OrderRepository implements order.Repository using PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// Create inserts an order for the cart with the given initial status.
func (r *OrderRepository) Create(ctx context.Context, cart order.CartSnapshot, initial order.Status, method transaction.Method) (*order.Order, error) {
	now := time.Now()
	ord := &order.Order{
		ID:         uuid.New(),
		Reference:  newReference(),
		CartID:     cart.CartID,
		Status:     initial,
		TotalCents: cart.TotalCents,
		Currency:   cart.Currency,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO orders (id, reference, cart_id, payment_method, status, total_cents, currency, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		ord.ID, ord.Reference, ord.CartID, string(method), string(ord.Status),
		ord.TotalCents, ord.Currency, ord.CreatedAt, ord.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return ord, nil
}

// FindByReference retrieves an order by its reference.
func (r *OrderRepository) FindByReference(ctx context.Context, reference string) (*order.Order, error) {
	var ord order.Order
	var status string
	err := r.db(ctx).QueryRow(ctx,
		`SELECT id, reference, cart_id, status, total_cents, currency, created_at, updated_at
		 FROM orders WHERE reference = $1`, reference).
		Scan(&ord.ID, &ord.Reference, &ord.CartID, &status,
			&ord.TotalCents, &ord.Currency, &ord.CreatedAt, &ord.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domainErrors.ErrOrderNotFound, reference)
		}
		return nil, fmt.Errorf("select order: %w", err)
	}
	ord.Status = order.Status(status)
	return &ord, nil
}

// UpdateStatus moves the order to the given status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now(), id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domainErrors.ErrOrderNotFound, id)
	}
	return nil
}

// AppendEvent records a payment event against the order.
func (r *OrderRepository) AppendEvent(ctx context.Context, event *order.Event) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO order_events (id, order_id, operation, kind, message, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		event.ID, event.OrderID, event.Operation, event.Kind, event.Message, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order event: %w", err)
	}
	return nil
}

func newReference() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}
