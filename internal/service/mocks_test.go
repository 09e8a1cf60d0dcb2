package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"checkout-service/internal/gateway"
	"checkout-service/internal/models"
	"checkout-service/internal/store"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory OrderStore with the same transition semantics as
// the SQL store.
type memStore struct {
	mu     sync.Mutex
	orders map[string]*models.Order
	items  map[string][]models.OrderItem

	failCreateOrder bool
	failCreateItems bool
	failUpdate      bool

	deletedOrders []string
}

func newMemStore() *memStore {
	return &memStore{
		orders: make(map[string]*models.Order),
		items:  make(map[string][]models.OrderItem),
	}
}

func (m *memStore) CreateOrder(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreateOrder {
		return &store.PersistenceError{Op: "create order", Err: errors.New("connection refused")}
	}

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *memStore) CreateOrderItems(ctx context.Context, orderID string, items []models.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreateItems {
		return &store.PersistenceError{Op: "create order items", Err: errors.New("insert rejected")}
	}

	for i := range items {
		items[i].OrderID = orderID
		items[i].ID = int64(len(m.items[orderID]) + i + 1)
	}
	m.items[orderID] = append(m.items[orderID], items...)
	return nil
}

func (m *memStore) DeleteOrder(ctx context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.orders, orderID)
	delete(m.items, orderID)
	m.deletedOrders = append(m.deletedOrders, orderID)
	return nil
}

func (m *memStore) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failUpdate {
		return &store.PersistenceError{Op: "update order status", Err: errors.New("connection refused")}
	}

	order, ok := m.orders[orderID]
	if !ok {
		// Unknown orders are a no-op, matching the SQL store.
		return nil
	}
	if !models.CanTransition(order.Status, status) {
		return nil
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) UpdatePaymentReference(ctx context.Context, orderID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if order, ok := m.orders[orderID]; ok {
		order.PaymentReference = &token
	}
	return nil
}

func (m *memStore) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, store.ErrNotFound)
	}
	copied := *order
	return &copied, nil
}

func (m *memStore) ListOrders(ctx context.Context, customerEmail string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var orders []models.Order
	for _, order := range m.orders {
		if customerEmail == "" || order.CustomerEmail == customerEmail {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (m *memStore) GetOrderItemsByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]models.OrderItem(nil), m.items[orderID]...), nil
}

// fakeGateway records payment requests and returns a canned handle
type fakeGateway struct {
	mu     sync.Mutex
	fail   bool
	calls  int
	orders []string
}

func (g *fakeGateway) CreatePayment(ctx context.Context, orderID string, amount decimal.Decimal, customer gateway.CustomerDetails, items []gateway.LineItem) (*gateway.PaymentHandle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	g.orders = append(g.orders, orderID)

	if g.fail {
		return nil, &gateway.GatewayError{Err: errors.New("gateway unreachable")}
	}
	return &gateway.PaymentHandle{
		Token:       "snap-token-" + orderID,
		RedirectURL: "https://pay.example.com/" + orderID,
	}, nil
}

// fakePublisher records published events
type fakePublisher struct {
	mu             sync.Mutex
	fail           bool
	orderCreated   []*models.OrderCreatedEvent
	paymentUpdates []*models.PaymentUpdateEvent
}

func (p *fakePublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fail {
		return errors.New("broker unavailable")
	}
	p.orderCreated = append(p.orderCreated, event)
	return nil
}

func (p *fakePublisher) PublishPaymentUpdate(ctx context.Context, event *models.PaymentUpdateEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fail {
		return errors.New("broker unavailable")
	}
	p.paymentUpdates = append(p.paymentUpdates, event)
	return nil
}

// signNotification produces the signature the gateway would send
func signNotification(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}
