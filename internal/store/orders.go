package store

import (
	"context"
	"database/sql"
	"fmt"

	"checkout-service/internal/models"
)

// CreateOrder inserts exactly one order row with status pending
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, customer_name, customer_email, customer_phone, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := s.db.QueryRowxContext(ctx, query,
		order.ID, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.TotalAmount, order.Status).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return persistenceErr("create order", err)
	}
	return nil
}

// CreateOrderItems inserts all line items for an order in one batch. On
// failure the caller must compensate with DeleteOrder; the order+items insert
// is a deliberate two-step sequence, not a single transaction.
func (s *Store) CreateOrderItems(ctx context.Context, orderID string, items []models.OrderItem) error {
	if len(items) == 0 {
		return persistenceErr("create order items", fmt.Errorf("empty item list for order %s", orderID))
	}

	rows := make([]models.OrderItem, len(items))
	for i, item := range items {
		item.OrderID = orderID
		rows[i] = item
	}

	query := `
		INSERT INTO order_items (order_id, product_id, name, quantity, unit_price)
		VALUES (:order_id, :product_id, :name, :quantity, :unit_price)`

	if _, err := s.db.NamedExecContext(ctx, query, rows); err != nil {
		return persistenceErr("create order items", err)
	}
	return nil
}

// DeleteOrder removes an order and, via cascade, its line items. Used as the
// compensating action when item creation fails after the order row exists.
func (s *Store) DeleteOrder(ctx context.Context, orderID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", orderID); err != nil {
		return persistenceErr("delete order", err)
	}
	return nil
}

// UpdateOrderStatus applies a status transition. It is idempotent: re-applying
// the current status succeeds silently, and an unknown order id is a no-op so
// that racing webhook deliveries for deleted orders are tolerated. The WHERE
// predicate mirrors models.CanTransition so terminal statuses are never
// downgraded to pending, even under concurrent deliveries.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		  AND NOT (status IN ('paid', 'cancelled') AND $1 = 'pending')`

	if _, err := s.db.ExecContext(ctx, query, status, orderID); err != nil {
		return persistenceErr("update order status", err)
	}
	return nil
}

// UpdatePaymentReference stores the opaque payment token issued by the gateway
func (s *Store) UpdatePaymentReference(ctx context.Context, orderID, token string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET payment_reference = $1, updated_at = NOW() WHERE id = $2",
		token, orderID)
	if err != nil {
		return persistenceErr("update payment reference", err)
	}
	return nil
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", orderID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, persistenceErr("get order", err)
	}
	return &order, nil
}

// ListOrders retrieves orders newest first, optionally filtered by the
// customer's email.
func (s *Store) ListOrders(ctx context.Context, customerEmail string) ([]models.Order, error) {
	var orders []models.Order
	var err error

	if customerEmail != "" {
		err = s.db.SelectContext(ctx, &orders,
			"SELECT * FROM orders WHERE customer_email = $1 ORDER BY created_at DESC", customerEmail)
	} else {
		err = s.db.SelectContext(ctx, &orders,
			"SELECT * FROM orders ORDER BY created_at DESC")
	}
	if err != nil {
		return nil, persistenceErr("list orders", err)
	}
	return orders, nil
}

// GetOrderItemsByOrderID retrieves all line items for an order
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	if err != nil {
		return nil, persistenceErr("get order items", err)
	}
	return items, nil
}
