package worker

import (
	"context"

	"checkout-service/internal/broker"
	"checkout-service/internal/models"
	"checkout-service/internal/notify"
	"checkout-service/internal/util"

	"go.uber.org/zap"
)

// NotificationWorker consumes reconciled payment updates from the order-events
// stream and forwards each to the external workflow endpoint. Delivery is best
// effort: one attempt with the client's bounded timeout, failures logged and
// the message committed regardless so a dead endpoint never backs up the
// stream.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	workflow     *notify.WorkflowClient
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, workflow *notify.WorkflowClient) *NotificationWorker {
	w := &NotificationWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		workflow:     workflow,
		logger:       util.GetLogger(),
	}

	w.eventHandler.OnPaymentUpdate(w.handlePaymentUpdate)
	return w
}

func (w *NotificationWorker) handlePaymentUpdate(ctx context.Context, event *models.PaymentUpdateEvent) error {
	if !w.workflow.Enabled() {
		return nil
	}

	if err := w.workflow.SendPaymentUpdate(ctx, event); err != nil {
		util.WorkflowNotificationsTotal.WithLabelValues("failed").Inc()
		w.logger.Error("Failed to forward payment update to workflow",
			zap.String("order_id", event.OrderID),
			zap.Error(err))
		return nil
	}

	util.WorkflowNotificationsTotal.WithLabelValues("forwarded").Inc()
	return nil
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}
