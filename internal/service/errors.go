package service

import (
	"errors"
	"fmt"

	"checkout-service/internal/models"
)

// ErrInvalidSignature rejects a webhook whose signature does not authenticate.
// Never retried, no state is mutated.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// ValidationError reports a malformed or incomplete checkout request. These
// are user-correctable and surfaced verbatim with a 4xx.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErr(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// OrderCreationError means checkout failed before a durable order survived:
// either the order insert failed outright, or item creation failed and the
// order was compensated away.
type OrderCreationError struct {
	Err error
}

func (e *OrderCreationError) Error() string {
	return fmt.Sprintf("order creation failed: %v", e.Err)
}

func (e *OrderCreationError) Unwrap() error { return e.Err }

// PaymentSetupError means the order was persisted but payment initiation
// failed. The order is deliberately left intact in pending status with no
// payment reference, and is carried here so the client can retry payment
// against the existing order id.
type PaymentSetupError struct {
	Order *models.Order
	Err   error
}

func (e *PaymentSetupError) Error() string {
	return fmt.Sprintf("payment setup failed for order %s: %v", e.Order.ID, e.Err)
}

func (e *PaymentSetupError) Unwrap() error { return e.Err }
