package models

import "time"

// Event types
const (
	EventTypeOrderCreated  = "ORDER_CREATED"
	EventTypePaymentUpdate = "PAYMENT_UPDATE"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when a checkout produces a new order
type OrderCreatedEvent struct {
	BaseEvent
	OrderID       string          `json:"order_id"`
	CustomerEmail string          `json:"customer_email"`
	TotalAmount   string          `json:"total_amount"`
	Items         []OrderItemData `json:"items"`
}

// PaymentUpdateEvent published after a payment notification is reconciled.
// The notification worker forwards these to the external workflow endpoint.
type PaymentUpdateEvent struct {
	BaseEvent
	OrderID           string `json:"order_id"`
	Status            string `json:"status"`
	TransactionStatus string `json:"transaction_status"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}
