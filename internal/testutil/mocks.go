package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pkoster/checkout-gateway/internal/domain/errors"
	"github.com/pkoster/checkout-gateway/internal/domain/method"
	"github.com/pkoster/checkout-gateway/internal/domain/order"
	"github.com/pkoster/checkout-gateway/internal/domain/transaction"
)

// --- Transaction Repository Mock ---

// MockTransactionRepository is a mock implementation of transaction.Repository.
type MockTransactionRepository struct {
	mu      sync.Mutex
	records map[uuid.UUID]*transaction.Record

	CreateFunc              func(ctx context.Context, rec *transaction.Record) error
	FindByIDFunc            func(ctx context.Context, id uuid.UUID) (*transaction.Record, error)
	SetBackendReferenceFunc func(ctx context.Context, id uuid.UUID, ref string) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		records: make(map[uuid.UUID]*transaction.Record),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, rec *transaction.Record) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
	return nil
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*transaction.Record, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, errors.ErrTransactionNotFound
	}
	return rec, nil
}

func (m *MockTransactionRepository) SetBackendReference(ctx context.Context, id uuid.UUID, ref string) error {
	if m.SetBackendReferenceFunc != nil {
		return m.SetBackendReferenceFunc(ctx, id, ref)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return errors.ErrTransactionNotFound
	}
	rec.BackendReference = &ref
	return nil
}

// All returns every stored record, for assertions.
func (m *MockTransactionRepository) All() []*transaction.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*transaction.Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out
}

// --- Order Repository Mock ---

// MockOrderRepository is a mock implementation of order.Repository.
type MockOrderRepository struct {
	mu     sync.Mutex
	orders map[string]*order.Order
	events []*order.Event
	seq    int

	CreateFunc          func(ctx context.Context, cart order.CartSnapshot, initial order.Status, m transaction.Method) (*order.Order, error)
	FindByReferenceFunc func(ctx context.Context, reference string) (*order.Order, error)
	UpdateStatusFunc    func(ctx context.Context, id uuid.UUID, status order.Status) error
	AppendEventFunc     func(ctx context.Context, event *order.Event) error
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*order.Order),
	}
}

func (m *MockOrderRepository) Create(ctx context.Context, cart order.CartSnapshot, initial order.Status, pm transaction.Method) (*order.Order, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, cart, initial, pm)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	ord := &order.Order{
		ID:         uuid.New(),
		Reference:  OrderReference(m.seq),
		CartID:     cart.CartID,
		Status:     initial,
		TotalCents: cart.TotalCents,
		Currency:   cart.Currency,
	}
	m.orders[ord.Reference] = ord
	return ord, nil
}

func (m *MockOrderRepository) FindByReference(ctx context.Context, reference string) (*order.Order, error) {
	if m.FindByReferenceFunc != nil {
		return m.FindByReferenceFunc(ctx, reference)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ord, ok := m.orders[reference]
	if !ok {
		return nil, errors.ErrOrderNotFound
	}
	return ord, nil
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ord := range m.orders {
		if ord.ID == id {
			ord.Status = status
			return nil
		}
	}
	return errors.ErrOrderNotFound
}

func (m *MockOrderRepository) AppendEvent(ctx context.Context, event *order.Event) error {
	if m.AppendEventFunc != nil {
		return m.AppendEventFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Put stores an order directly, for seeding post-processing tests.
func (m *MockOrderRepository) Put(ord *order.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[ord.Reference] = ord
}

// Events returns the appended events, for assertions.
func (m *MockOrderRepository) Events() []*order.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*order.Event, len(m.events))
	copy(out, m.events)
	return out
}

// --- Settings Resolver Mock ---

// MockSettingsResolver is a mock implementation of method.SettingsResolver.
type MockSettingsResolver struct {
	Settings method.Settings

	ResolveFunc func(ctx context.Context, m transaction.Method) (method.Settings, error)
}

func NewMockSettingsResolver(s method.Settings) *MockSettingsResolver {
	return &MockSettingsResolver{Settings: s}
}

func (m *MockSettingsResolver) Resolve(ctx context.Context, pm transaction.Method) (method.Settings, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, pm)
	}
	return m.Settings, nil
}

// --- Transaction Manager Mock ---

// MockTransactionManager runs the function directly without a database.
type MockTransactionManager struct {
	WithTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.WithTransactionFunc != nil {
		return m.WithTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}
