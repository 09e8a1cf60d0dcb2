package service

import (
	"context"
	"time"

	"checkout-service/internal/gateway"
	"checkout-service/internal/models"
	"checkout-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderStore is the durable order persistence. The store is the sole writer
// of order state; checkout and webhook reconciliation both go through it.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, orderID string, items []models.OrderItem) error
	DeleteOrder(ctx context.Context, orderID string) error
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
	UpdatePaymentReference(ctx context.Context, orderID, token string) error
	GetOrderByID(ctx context.Context, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, customerEmail string) ([]models.Order, error)
	GetOrderItemsByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error)
}

// PaymentGateway initiates transactions with the external payment provider
type PaymentGateway interface {
	CreatePayment(ctx context.Context, orderID string, amount decimal.Decimal, customer gateway.CustomerDetails, items []gateway.LineItem) (*gateway.PaymentHandle, error)
}

// EventPublisher emits domain events onto the order-events stream
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishPaymentUpdate(ctx context.Context, event *models.PaymentUpdateEvent) error
}

// CheckoutService sequences order persistence and payment initiation
type CheckoutService struct {
	store     OrderStore
	gateway   PaymentGateway
	products  *ProductService
	publisher EventPublisher
	logger    *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(store OrderStore, gw PaymentGateway, products *ProductService, publisher EventPublisher) *CheckoutService {
	return &CheckoutService{
		store:     store,
		gateway:   gw,
		products:  products,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CheckoutItem is one line of a checkout request. Price is the unit price in
// store currency as shown to the customer at checkout time.
type CheckoutItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name,omitempty"`
}

// CheckoutRequest represents an inbound checkout submission
type CheckoutRequest struct {
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	Items         []CheckoutItem  `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// CheckoutResponse carries the persisted order and the payment handle the
// customer is redirected with.
type CheckoutResponse struct {
	Order   *models.Order          `json:"order"`
	Payment *gateway.PaymentHandle `json:"payment"`
}

// OrderWithItems is an order together with its line items, as returned by
// order listing and lookup.
type OrderWithItems struct {
	models.Order
	Items []models.OrderItem `json:"items"`
}

// Checkout runs the order creation sequence: validate, persist the order,
// persist its items, then initiate payment.
//
// The order and item inserts are two separate writes. If the item insert
// fails the just-created order is deleted as compensation. A payment failure
// after both inserts triggers no compensation at all: the order stays pending
// with no payment reference, and the returned PaymentSetupError carries it so
// the client can retry payment later.
func (s *CheckoutService) Checkout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Checkout")
	defer span.End()

	if err := validateCheckout(req); err != nil {
		util.OrderCreationFailuresTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	order := &models.Order{
		ID:            uuid.New().String(),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		TotalAmount:   req.TotalAmount,
		Status:        models.OrderStatusPending,
	}
	if req.CustomerPhone != "" {
		phone := req.CustomerPhone
		order.CustomerPhone = &phone
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		util.OrderCreationFailuresTotal.WithLabelValues("db_error").Inc()
		return nil, &OrderCreationError{Err: err}
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("customer_email", order.CustomerEmail))

	items := make([]models.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = models.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Name:      s.resolveItemName(ctx, item),
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		}
	}

	if err := s.store.CreateOrderItems(ctx, order.ID, items); err != nil {
		s.compensateOrder(ctx, order.ID)
		util.OrderCreationFailuresTotal.WithLabelValues("items_failed").Inc()
		return nil, &OrderCreationError{Err: err}
	}

	util.OrdersCreatedTotal.Inc()
	s.publishOrderCreated(ctx, order, items)

	lineItems := make([]gateway.LineItem, len(items))
	for i, item := range items {
		lineItems[i] = gateway.LineItem{
			ID:       item.ProductID,
			Name:     item.Name,
			Price:    item.UnitPrice,
			Quantity: item.Quantity,
		}
	}

	customer := gateway.CustomerDetails{
		FirstName: order.CustomerName,
		Email:     order.CustomerEmail,
		Phone:     req.CustomerPhone,
	}

	start := time.Now()
	handle, err := s.gateway.CreatePayment(ctx, order.ID, order.TotalAmount, customer, lineItems)
	util.PaymentGatewayLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		// The order deliberately survives: it stays pending with a null
		// payment reference, recoverable by a retried checkout or manual
		// reconciliation.
		util.PaymentSetupFailuresTotal.Inc()
		s.logger.Error("Payment setup failed, order kept for retry",
			zap.String("order_id", order.ID),
			zap.Error(err))
		return nil, &PaymentSetupError{Order: order, Err: err}
	}

	util.PaymentsInitiatedTotal.Inc()
	s.logger.Info("Payment transaction created",
		zap.String("order_id", order.ID),
		zap.String("token", handle.Token))

	if err := s.store.UpdatePaymentReference(ctx, order.ID, handle.Token); err != nil {
		// Payment already exists on the gateway side; losing the local
		// reference is not worth failing the checkout over.
		s.logger.Error("Failed to persist payment reference",
			zap.String("order_id", order.ID),
			zap.Error(err))
	} else {
		token := handle.Token
		order.PaymentReference = &token
	}

	return &CheckoutResponse{Order: order, Payment: handle}, nil
}

// compensateOrder deletes the order created by a checkout whose item insert
// failed. Compensation is unconditional; its own failure is only logged
// because there is nothing further to fall back to.
func (s *CheckoutService) compensateOrder(ctx context.Context, orderID string) {
	if err := s.store.DeleteOrder(ctx, orderID); err != nil {
		s.logger.Error("Failed to compensate order after item insert failure",
			zap.String("order_id", orderID),
			zap.Error(err))
	}
}

func (s *CheckoutService) resolveItemName(ctx context.Context, item CheckoutItem) string {
	if item.Name != "" {
		return item.Name
	}
	if s.products != nil {
		if product, err := s.products.GetProduct(ctx, item.ProductID); err == nil {
			return product.Name
		}
	}
	return "Product"
}

func (s *CheckoutService) publishOrderCreated(ctx context.Context, order *models.Order, items []models.OrderItem) {
	if s.publisher == nil {
		return
	}

	itemData := make([]models.OrderItemData, len(items))
	for i, item := range items {
		itemData[i] = models.OrderItemData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.String(),
		}
	}

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		TotalAmount:   order.TotalAmount.String(),
		Items:         itemData,
	}

	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}
}

func validateCheckout(req *CheckoutRequest) error {
	if req.CustomerName == "" || req.CustomerEmail == "" {
		return validationErr("customer_name and customer_email are required")
	}
	if len(req.Items) == 0 {
		return validationErr("items array is required and cannot be empty")
	}
	if !req.TotalAmount.IsPositive() {
		return validationErr("total_amount must be positive")
	}
	for i, item := range req.Items {
		if item.ProductID == "" {
			return validationErr("items[%d].product_id is required", i)
		}
		if item.Quantity <= 0 {
			return validationErr("items[%d].quantity must be positive", i)
		}
		if item.Price.IsNegative() {
			return validationErr("items[%d].price cannot be negative", i)
		}
	}
	return nil
}

// GetOrder retrieves an order and its line items
func (s *CheckoutService) GetOrder(ctx context.Context, orderID string) (*OrderWithItems, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &OrderWithItems{Order: *order, Items: items}, nil
}

// ListOrders retrieves orders newest first, optionally filtered by customer
// email, each with its line items.
func (s *CheckoutService) ListOrders(ctx context.Context, customerEmail string) ([]OrderWithItems, error) {
	orders, err := s.store.ListOrders(ctx, customerEmail)
	if err != nil {
		return nil, err
	}

	result := make([]OrderWithItems, len(orders))
	for i, order := range orders {
		items, err := s.store.GetOrderItemsByOrderID(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		result[i] = OrderWithItems{Order: order, Items: items}
	}
	return result, nil
}
