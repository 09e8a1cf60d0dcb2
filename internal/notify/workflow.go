package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"checkout-service/internal/models"
	"checkout-service/internal/util"

	"go.uber.org/zap"
)

// PaymentUpdate is the payload forwarded to the external workflow endpoint
type PaymentUpdate struct {
	Type              string `json:"type"`
	OrderID           string `json:"order_id"`
	Status            string `json:"status"`
	TransactionStatus string `json:"transaction_status"`
	Timestamp         string `json:"timestamp"`
}

// WorkflowClient posts payment-status notifications to an external automation
// workflow. Delivery is best effort: one attempt, bounded timeout, failures
// are the caller's to log.
type WorkflowClient struct {
	httpClient *http.Client
	url        string
	logger     *zap.Logger
}

// NewWorkflowClient creates a workflow client. An empty url disables
// forwarding.
func NewWorkflowClient(url string, timeout time.Duration) *WorkflowClient {
	return &WorkflowClient{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		logger:     util.GetLogger(),
	}
}

// Enabled reports whether a workflow endpoint is configured
func (c *WorkflowClient) Enabled() bool {
	return c.url != ""
}

// SendPaymentUpdate forwards one reconciled payment update
func (c *WorkflowClient) SendPaymentUpdate(ctx context.Context, event *models.PaymentUpdateEvent) error {
	payload := PaymentUpdate{
		Type:              "payment_update",
		OrderID:           event.OrderID,
		Status:            event.Status,
		TransactionStatus: event.TransactionStatus,
		Timestamp:         event.Timestamp.UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payment update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("build workflow request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("workflow request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("workflow endpoint returned status %d", resp.StatusCode)
	}

	c.logger.Info("Workflow notified",
		zap.String("order_id", event.OrderID),
		zap.String("status", event.Status))
	return nil
}
