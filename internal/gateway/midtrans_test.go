package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"checkout-service/internal/currency"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL string, timeout time.Duration) *Client {
	return NewClient(baseURL, "testkey", "http://localhost:3000", currency.NewConverter(15000), timeout, zap.NewNop())
}

func TestCreatePayment(t *testing.T) {
	var captured snapRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/snap/v1/transactions", r.URL.Path)
		assert.Equal(t, "Basic dGVzdGtleTo=", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]string{
			"token":        "snap-token-123",
			"redirect_url": "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token-123",
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5*time.Second)

	items := []LineItem{
		{ID: "prod-1", Name: "Nasi Goreng", Price: decimal.RequireFromString("9.99"), Quantity: 2},
		{ID: "prod-2", Name: "Es Teh", Price: decimal.RequireFromString("1.50"), Quantity: 1},
	}
	total := decimal.RequireFromString("21.48")

	customer := CustomerDetails{FirstName: "Budi", Email: "budi@example.com", Phone: "+628123"}
	handle, err := client.CreatePayment(context.Background(), "order-1", total, customer, items)
	require.NoError(t, err)

	assert.Equal(t, "snap-token-123", handle.Token)
	assert.Equal(t, "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token-123", handle.RedirectURL)

	assert.Equal(t, "order-1", captured.TransactionDetails.OrderID)
	assert.Equal(t, int64(322200), captured.TransactionDetails.GrossAmount)

	require.Len(t, captured.ItemDetails, 2)
	assert.Equal(t, int64(149850), captured.ItemDetails[0].Price)
	assert.Equal(t, 2, captured.ItemDetails[0].Quantity)
	assert.Equal(t, "Nasi Goreng", captured.ItemDetails[0].Name)
	assert.Equal(t, int64(22500), captured.ItemDetails[1].Price)

	assert.Equal(t, customer, captured.CustomerDetails)

	assert.Equal(t, "http://localhost:3000/order-success?order_id=order-1", captured.Callbacks.Finish)
	assert.Equal(t, "http://localhost:3000/order-failed?order_id=order-1", captured.Callbacks.Error)
	assert.Equal(t, "http://localhost:3000/order-pending?order_id=order-1", captured.Callbacks.Pending)
}

func TestCreatePaymentRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error_messages":["unauthorized"]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5*time.Second)

	_, err := client.CreatePayment(context.Background(), "order-1", decimal.RequireFromString("10.00"), CustomerDetails{}, nil)
	require.Error(t, err)

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusUnauthorized, gwErr.StatusCode)
}

func TestCreatePaymentTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 20*time.Millisecond)

	_, err := client.CreatePayment(context.Background(), "order-1", decimal.RequireFromString("10.00"), CustomerDetails{}, nil)
	require.Error(t, err)

	var gwErr *GatewayError
	assert.True(t, errors.As(err, &gwErr))
}
