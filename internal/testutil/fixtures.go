package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkoster/checkout-gateway/internal/domain/order"
	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
)

// OrderReference formats a deterministic order reference for tests.
func OrderReference(seq int) string {
	return fmt.Sprintf("ORD-TEST%04d", seq)
}

// NewTestCart builds a cart snapshot that passes the checkout guard.
func NewTestCart(totalCents int64) order.CartSnapshot {
	return order.CartSnapshot{
		CartID:            "cart-42",
		CustomerID:        "customer-7",
		DeliveryAddressID: "addr-d-1",
		InvoiceAddressID:  "addr-i-1",
		TotalCents:        totalCents,
		Currency:          "EUR",
		Lines: []order.CartLine{
			{Name: "Widget", Quantity: 2, UnitCents: totalCents / 2},
		},
	}
}

// NewTestOrder builds an order in the given status.
func NewTestOrder(reference string, status order.Status) *order.Order {
	now := time.Now()
	return &order.Order{
		ID:         uuid.New(),
		Reference:  reference,
		CartID:     "cart-42",
		Status:     status,
		TotalCents: 1999,
		Currency:   "EUR",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewTestRecord builds a dispatched transaction record with a backend
// reference attached, ready for post-processing.
func NewTestRecord(m transaction.Method, op transaction.Operation, orderReference string) *transaction.Record {
	ref := "be-" + uuid.New().String()
	return &transaction.Record{
		ID:               uuid.New(),
		Method:           m,
		Operation:        op,
		Amount:           transaction.Amount{Cents: 1999, Currency: "EUR"},
		OrderReference:   orderReference,
		BackendReference: &ref,
		CreatedAt:        time.Now(),
	}
}
