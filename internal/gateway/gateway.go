// Package gateway creates payment orders with an external payment provider.
package gateway

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when provider credentials are missing.
var ErrNotConfigured = errors.New("payment gateway not configured")

// OrderRequest describes an order to create. Amount is in the currency's minor unit.
type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]any
}

// Order is the provider's handle for a created order.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// Gateway creates orders with a payment provider.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
}
