package service

import (
	"context"
	"time"

	"checkout-service/internal/gateway"
	"checkout-service/internal/models"
	"checkout-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationDeduper tracks webhook deliveries already seen, best effort.
// Reconciliation stays idempotent without it; duplicates are only logged.
type NotificationDeduper interface {
	MarkNotificationSeen(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// WebhookNotification is the untrusted inbound payload the payment gateway
// delivers when a transaction changes state.
type WebhookNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}

// WebhookService reconciles payment notifications against local order state
type WebhookService struct {
	store     OrderStore
	publisher EventPublisher
	deduper   NotificationDeduper
	serverKey string
	logger    *zap.Logger
}

// NewWebhookService creates a new webhook reconciliation service
func NewWebhookService(store OrderStore, publisher EventPublisher, deduper NotificationDeduper, serverKey string) *WebhookService {
	return &WebhookService{
		store:     store,
		publisher: publisher,
		deduper:   deduper,
		serverKey: serverKey,
		logger:    util.GetLogger(),
	}
}

// HandleNotification verifies and applies a payment notification, returning
// the order status it resolved to.
//
// Deliveries may repeat or race: the status update is idempotent, terminal
// statuses never downgrade to pending, and an unknown order id (a checkout
// compensated away under a racing delivery) is a silent no-op.
func (s *WebhookService) HandleNotification(ctx context.Context, n *WebhookNotification) (string, error) {
	ctx, span := util.StartSpan(ctx, "WebhookService.HandleNotification")
	defer span.End()

	if !gateway.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, s.serverKey, n.SignatureKey) {
		util.WebhookSignatureFailuresTotal.Inc()
		s.logger.Warn("Rejected webhook with invalid signature",
			zap.String("order_id", n.OrderID),
			zap.String("transaction_status", n.TransactionStatus))
		return "", ErrInvalidSignature
	}

	status := ResolveOrderStatus(n.TransactionStatus, n.FraudStatus)
	s.logDuplicate(ctx, n)

	if err := s.store.UpdateOrderStatus(ctx, n.OrderID, status); err != nil {
		return "", err
	}

	util.OrderStatusTransitionsTotal.WithLabelValues(status).Inc()
	s.logger.Info("Order status reconciled",
		zap.String("order_id", n.OrderID),
		zap.String("status", status),
		zap.String("transaction_status", n.TransactionStatus))

	s.publishPaymentUpdate(ctx, n, status)

	return status, nil
}

// logDuplicate flags repeated deliveries of the same notification. Redis being
// unavailable must never affect reconciliation, so every failure path here
// falls through.
func (s *WebhookService) logDuplicate(ctx context.Context, n *WebhookNotification) {
	if s.deduper == nil {
		return
	}

	key := n.OrderID + ":" + n.TransactionStatus + ":" + n.StatusCode
	first, err := s.deduper.MarkNotificationSeen(ctx, key, 24*time.Hour)
	if err != nil {
		s.logger.Debug("Webhook dedup check failed", zap.Error(err))
		return
	}
	if !first {
		s.logger.Info("Duplicate webhook delivery",
			zap.String("order_id", n.OrderID),
			zap.String("transaction_status", n.TransactionStatus))
	}
}

// publishPaymentUpdate hands the reconciled status to the order-events stream
// for the notification worker to forward. Publish failures are logged only;
// the webhook response must not depend on the forward.
func (s *WebhookService) publishPaymentUpdate(ctx context.Context, n *WebhookNotification, status string) {
	if s.publisher == nil {
		return
	}

	event := &models.PaymentUpdateEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentUpdate,
			Timestamp: time.Now(),
		},
		OrderID:           n.OrderID,
		Status:            status,
		TransactionStatus: n.TransactionStatus,
	}

	if err := s.publisher.PublishPaymentUpdate(ctx, event); err != nil {
		s.logger.Error("Failed to publish PaymentUpdate event",
			zap.String("order_id", n.OrderID),
			zap.Error(err))
	}
}
