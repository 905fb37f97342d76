package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRazorpay_RequiresBothKeys(t *testing.T) {
	_, err := NewRazorpay("", "secret", "", nil)
	require.ErrorIs(t, err, ErrNotConfigured)
	_, err = NewRazorpay("key", "", "", nil)
	require.ErrorIs(t, err, ErrNotConfigured)

	rp, err := NewRazorpay("key", "secret", "", nil)
	require.NoError(t, err)
	require.Equal(t, DefaultRazorpayURL, rp.baseURL)
}

func TestCreateOrder_Success(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "rzp_key", user)
		require.Equal(t, "rzp_secret", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"order_123","entity":"order","amount":50000,"currency":"INR","status":"created"}`))
	}))
	defer srv.Close()

	rp, err := NewRazorpay("rzp_key", "rzp_secret", srv.URL+"/", srv.Client())
	require.NoError(t, err)
	rp.now = func() time.Time { return time.Unix(1700000000, 0) }

	order, err := rp.CreateOrder(context.Background(), OrderRequest{Amount: 50000})
	require.NoError(t, err)
	require.Equal(t, &Order{ID: "order_123", Amount: 50000, Currency: "INR", Status: "created"}, order)

	require.Equal(t, float64(50000), got["amount"])
	require.Equal(t, "INR", got["currency"])
	require.Equal(t, "rcpt_1700000000", got["receipt"])
	require.Equal(t, map[string]any{}, got["notes"])
}

func TestCreateOrder_PassesReceiptAndNotes(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		// status omitted by the provider
		_, _ = w.Write([]byte(`{"id":"order_9","amount":100,"currency":"USD"}`))
	}))
	defer srv.Close()

	rp, err := NewRazorpay("k", "s", srv.URL, srv.Client())
	require.NoError(t, err)
	order, err := rp.CreateOrder(context.Background(), OrderRequest{
		Amount: 100, Currency: "USD", Receipt: "my-label", Notes: map[string]any{"pan": "ABCDE1234F"},
	})
	require.NoError(t, err)
	require.Equal(t, "created", order.Status)
	require.Equal(t, "USD", order.Currency)
	require.Equal(t, "my-label", got["receipt"])
	require.Equal(t, map[string]any{"pan": "ABCDE1234F"}, got["notes"])
}

func TestCreateOrder_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The amount must be atleast INR 1.00"}}`))
	}))
	defer srv.Close()

	rp, err := NewRazorpay("k", "s", srv.URL, srv.Client())
	require.NoError(t, err)
	_, err = rp.CreateOrder(context.Background(), OrderRequest{Amount: 1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "The amount must be atleast INR 1.00")
}

func TestCreateOrder_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	rp, err := NewRazorpay("k", "s", srv.URL, srv.Client())
	require.NoError(t, err)
	_, err = rp.CreateOrder(context.Background(), OrderRequest{Amount: 1})
	require.Error(t, err)
}
