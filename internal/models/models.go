package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a menu item in the storefront catalog
type Product struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description,omitempty"`
	Price       decimal.Decimal `db:"price" json:"price"`
	ImageURL    *string         `db:"image_url" json:"image_url,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// Order represents a customer checkout persisted with status and total.
// TotalAmount is taken verbatim from the checkout payload at creation time
// and is never recomputed from line items afterward.
type Order struct {
	ID               string          `db:"id" json:"id"`
	CustomerName     string          `db:"customer_name" json:"customer_name"`
	CustomerEmail    string          `db:"customer_email" json:"customer_email"`
	CustomerPhone    *string         `db:"customer_phone" json:"customer_phone,omitempty"`
	TotalAmount      decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status           string          `db:"status" json:"status"`
	PaymentReference *string         `db:"payment_reference" json:"payment_reference,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// OrderItem is a quantity+price snapshot of one product within an order.
// UnitPrice is captured at order time, independent of the product's current
// price.
type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   string          `db:"order_id" json:"order_id"`
	ProductID string          `db:"product_id" json:"product_id"`
	Name      string          `db:"name" json:"name"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
}

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

// CanTransition reports whether an order may move from current to next.
// Re-applying the current status is always allowed since the gateway retries
// webhook deliveries, but the terminal states never revert to pending.
func CanTransition(current, next string) bool {
	if current == next {
		return true
	}
	if (current == OrderStatusPaid || current == OrderStatusCancelled) && next == OrderStatusPending {
		return false
	}
	return true
}
