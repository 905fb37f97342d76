package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// DefaultRazorpayURL is the public Razorpay API endpoint.
	DefaultRazorpayURL = "https://api.razorpay.com"

	maxResponseBytes = 1 << 20
)

// Razorpay creates orders through the Razorpay Orders API.
type Razorpay struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
	now       func() time.Time
}

// NewRazorpay returns a client for the given key pair. Both keys are required.
// A nil client gets a 15s-timeout default.
func NewRazorpay(keyID, keySecret, baseURL string, client *http.Client) (*Razorpay, error) {
	if keyID == "" || keySecret == "" {
		return nil, ErrNotConfigured
	}
	if baseURL == "" {
		baseURL = DefaultRazorpayURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Razorpay{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    client,
		now:       time.Now,
	}, nil
}

// CreateOrder posts the order and returns the provider's id, amount, currency and status.
// Currency defaults to INR, the receipt label to rcpt_<unix seconds>, notes to {}.
func (r *Razorpay) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if req.Currency == "" {
		req.Currency = "INR"
	}
	if req.Receipt == "" {
		req.Receipt = fmt.Sprintf("rcpt_%d", r.now().Unix())
	}
	if req.Notes == nil {
		req.Notes = map[string]any{}
	}
	body, err := json.Marshal(map[string]any{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes":    req.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(r.keyID, r.keySecret)

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("razorpay request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("razorpay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(raw, "error.description").String()
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return nil, fmt.Errorf("razorpay returned %d: %s", resp.StatusCode, msg)
	}

	res := gjson.ParseBytes(raw)
	id := res.Get("id").String()
	if id == "" {
		return nil, fmt.Errorf("razorpay response missing order id")
	}
	order := &Order{
		ID:       id,
		Amount:   res.Get("amount").Int(),
		Currency: res.Get("currency").String(),
		Status:   res.Get("status").String(),
	}
	if order.Status == "" {
		order.Status = "created"
	}
	return order, nil
}
