package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"checkout-service/internal/currency"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GatewayError wraps a failed call to the payment provider: unreachable,
// rejected, or timed out.
type GatewayError struct {
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("gateway: %v", e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// CustomerDetails identifies the paying customer on the gateway side
type CustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// LineItem is one order line in store currency, prior to conversion
type LineItem struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// PaymentHandle is the client-facing result of a created transaction: a Snap
// token plus the hosted payment page the browser is redirected to.
type PaymentHandle struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type transactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type itemDetail struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

type callbacks struct {
	Finish  string `json:"finish"`
	Error   string `json:"error"`
	Pending string `json:"pending"`
}

type snapRequest struct {
	TransactionDetails transactionDetails `json:"transaction_details"`
	CustomerDetails    CustomerDetails    `json:"customer_details"`
	ItemDetails        []itemDetail       `json:"item_details"`
	Callbacks          callbacks          `json:"callbacks"`
}

// Client talks to the Midtrans Snap API
type Client struct {
	httpClient    *http.Client
	baseURL       string
	serverKey     string
	publicBaseURL string
	converter     currency.Converter
	logger        *zap.Logger
}

// NewClient creates a Snap client with a bounded request timeout
func NewClient(baseURL, serverKey, publicBaseURL string, converter currency.Converter, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       baseURL,
		serverKey:     serverKey,
		publicBaseURL: publicBaseURL,
		converter:     converter,
		logger:        logger,
	}
}

// CreatePayment creates a Snap transaction for an order and returns the
// payment handle the storefront redirects the customer with.
//
// The order total and every line-item unit price are converted to settlement
// currency independently, each rounded on its own. The converted item sum is
// not reconciled against the converted total; the two may differ by rounding,
// and the gateway receives both as-is.
func (c *Client) CreatePayment(ctx context.Context, orderID string, amount decimal.Decimal, customer CustomerDetails, items []LineItem) (*PaymentHandle, error) {
	grossAmount := c.converter.ToSettlement(amount)

	itemDetails := make([]itemDetail, len(items))
	for i, item := range items {
		itemDetails[i] = itemDetail{
			ID:       item.ID,
			Price:    c.converter.ToSettlement(item.Price),
			Quantity: item.Quantity,
			Name:     item.Name,
		}
	}

	payload := snapRequest{
		TransactionDetails: transactionDetails{
			OrderID:     orderID,
			GrossAmount: grossAmount,
		},
		CustomerDetails: customer,
		ItemDetails:     itemDetails,
		Callbacks: callbacks{
			Finish:  fmt.Sprintf("%s/order-success?order_id=%s", c.publicBaseURL, orderID),
			Error:   fmt.Sprintf("%s/order-failed?order_id=%s", c.publicBaseURL, orderID),
			Pending: fmt.Sprintf("%s/order-pending?order_id=%s", c.publicBaseURL, orderID),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &GatewayError{Err: fmt.Errorf("marshal snap request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/snap/v1/transactions", bytes.NewBuffer(body))
	if err != nil {
		return nil, &GatewayError{Err: fmt.Errorf("build snap request: %w", err)}
	}

	auth := base64.StdEncoding.EncodeToString([]byte(c.serverKey + ":"))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Info("Creating payment transaction",
		zap.String("order_id", orderID),
		zap.Int64("gross_amount", grossAmount))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Err: fmt.Errorf("snap request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, &GatewayError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("snap rejected transaction: %s", string(b)),
		}
	}

	var handle PaymentHandle
	if err := json.NewDecoder(resp.Body).Decode(&handle); err != nil {
		return nil, &GatewayError{Err: fmt.Errorf("decode snap response: %w", err)}
	}

	return &handle, nil
}
