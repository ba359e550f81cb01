package order

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the order payment status.
type Status string

const (
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusAuthorized      Status = "authorized"
	StatusCaptured        Status = "captured"
	StatusCancelled       Status = "cancelled"
	StatusRefunded        Status = "refunded"
	StatusFailed          Status = "failed"
)

// Order is the storefront order resolved by reference. This service only
// reads orders and hands them to the update strategies; state transitions are
// applied through the repository, never on the struct directly.
type Order struct {
	ID         uuid.UUID
	Reference  string
	CartID     string
	Status     Status
	TotalCents int64
	Currency   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CartLine is one item of the storefront cart.
type CartLine struct {
	Name      string
	Quantity  int
	UnitCents int64
}

// CartSnapshot is the ambient cart/customer/address state the storefront
// session sends along with a checkout submission.
type CartSnapshot struct {
	CartID            string
	CustomerID        string
	DeliveryAddressID string
	InvoiceAddressID  string
	TotalCents        int64
	Currency          string
	Lines             []CartLine
}

// Event records a payment-backend outcome against an order. The
// notification-initiated update strategy appends one per delivery.
type Event struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Operation string
	Kind      string
	Message   string
	CreatedAt time.Time
}
