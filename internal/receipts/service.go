// Package receipts records payments and lists a user's payment history.
package receipts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taxpay/taxpay/backend/go-services/internal/gateway"
	"github.com/taxpay/taxpay/backend/go-services/internal/models"
	"github.com/taxpay/taxpay/backend/go-services/internal/store"
	"github.com/taxpay/taxpay/backend/go-services/pkg/logger"
	"github.com/taxpay/taxpay/backend/go-services/pkg/metrics"
)

// Collection is the store collection holding receipt records.
const Collection = "receipt"

// ListLimit caps the number of receipts returned by List.
const ListLimit = 100

var (
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")
	ErrGatewayFailure       = errors.New("payment gateway failure")
)

// Archiver keeps an external copy of a receipt.
type Archiver interface {
	Archive(ctx context.Context, r *models.Receipt) error
}

// DemoPayment is a simulated payment request.
type DemoPayment struct {
	Amount     int64
	Regime     string
	Allocation map[string]float64
}

type Service struct {
	st       store.Store
	gw       gateway.Gateway
	archiver Archiver
	now      func() time.Time
}

// NewService builds the service. gw may be nil when no gateway credentials are configured.
func NewService(st store.Store, gw gateway.Gateway) *Service {
	return &Service{st: st, gw: gw, now: time.Now}
}

// WithArchiver enables archiving of demo receipts.
func (s *Service) WithArchiver(a Archiver) *Service {
	s.archiver = a
	return s
}

// WithClock replaces the time source used for demo references.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// List returns up to ListLimit receipts for the user with missing fields defaulted.
func (s *Service) List(ctx context.Context, email string) ([]models.Receipt, error) {
	recs, err := s.st.Query(ctx, Collection, store.Fields{"user_email": email}, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	out := make([]models.Receipt, 0, len(recs))
	for _, rec := range recs {
		var r models.Receipt
		if err := store.Decode(rec, &r); err != nil {
			return nil, fmt.Errorf("receipt %s: %w", rec.ID(), err)
		}
		r.ApplyDefaults()
		out = append(out, r)
	}
	return out, nil
}

// PayDemo records a simulated payment and returns the stored receipt.
func (s *Service) PayDemo(ctx context.Context, email string, p DemoPayment) (*models.Receipt, error) {
	ref := fmt.Sprintf("DEMO-%d", s.now().Unix())
	r := &models.Receipt{
		UserEmail:     email,
		Amount:        p.Amount,
		Currency:      models.DefaultCurrency,
		Regime:        p.Regime,
		Allocation:    p.Allocation,
		PaymentMethod: models.PaymentMethodDemo,
		Reference:     &ref,
	}
	if r.Allocation == nil {
		r.Allocation = map[string]float64{}
	}
	id, err := s.st.Create(ctx, Collection, store.Fields{
		"user_email":     r.UserEmail,
		"amount":         r.Amount,
		"currency":       r.Currency,
		"regime":         r.Regime,
		"allocation":     r.Allocation,
		"payment_method": r.PaymentMethod,
		"reference":      ref,
	})
	if err != nil {
		return nil, fmt.Errorf("pay demo: %w", err)
	}
	r.ID = id
	metrics.Payments.WithLabelValues(models.PaymentMethodDemo).Inc()

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, r); err != nil {
			logger.Warnf("receipt %s not archived: %v", id, err)
		}
	}
	return r, nil
}

// CreateOrder asks the configured gateway for a payment order. Nothing is persisted.
func (s *Service) CreateOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
	if s.gw == nil {
		metrics.GatewayOrders.WithLabelValues("not_configured").Inc()
		return nil, ErrGatewayNotConfigured
	}
	order, err := s.gw.CreateOrder(ctx, req)
	if err != nil {
		metrics.GatewayOrders.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: %w", ErrGatewayFailure, err)
	}
	metrics.GatewayOrders.WithLabelValues("created").Inc()
	logger.Infof("gateway order created id=%s amount=%d", order.ID, order.Amount)
	return order, nil
}
