package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"checkout-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paymentUpdateEvent() *models.PaymentUpdateEvent {
	return &models.PaymentUpdateEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-1",
			EventType: models.EventTypePaymentUpdate,
			Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		OrderID:           "order-1",
		Status:            "paid",
		TransactionStatus: "settlement",
	}
}

func TestSendPaymentUpdate(t *testing.T) {
	var captured PaymentUpdate

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewWorkflowClient(srv.URL, 5*time.Second)
	require.True(t, client.Enabled())

	err := client.SendPaymentUpdate(context.Background(), paymentUpdateEvent())
	require.NoError(t, err)

	assert.Equal(t, "payment_update", captured.Type)
	assert.Equal(t, "order-1", captured.OrderID)
	assert.Equal(t, "paid", captured.Status)
	assert.Equal(t, "settlement", captured.TransactionStatus)
	assert.Equal(t, "2024-03-01T12:00:00Z", captured.Timestamp)
}

func TestSendPaymentUpdateEndpointFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewWorkflowClient(srv.URL, 5*time.Second)
	err := client.SendPaymentUpdate(context.Background(), paymentUpdateEvent())
	assert.Error(t, err)
}

func TestWorkflowClientDisabled(t *testing.T) {
	client := NewWorkflowClient("", time.Second)
	assert.False(t, client.Enabled())
}
