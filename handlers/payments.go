package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxpay/taxpay/backend/go-services/internal/gateway"
	"github.com/taxpay/taxpay/backend/go-services/internal/receipts"
	"github.com/taxpay/taxpay/backend/go-services/pkg/middleware"
)

// DemoPayRequest is the POST /pay/demo body. Amount is in paise.
type DemoPayRequest struct {
	Amount     *int64             `json:"amount" binding:"required"`
	Regime     string             `json:"regime" binding:"required"`
	Allocation map[string]float64 `json:"allocation" binding:"required"`
}

// OrderRequest is the POST /pay/razorpay/order body. Amount is in paise.
type OrderRequest struct {
	Amount   *int64         `json:"amount" binding:"required"`
	Currency string         `json:"currency"`
	Receipt  *string        `json:"receipt"`
	Notes    map[string]any `json:"notes"`
}

type PaymentHandler struct {
	svc *receipts.Service
}

func NewPaymentHandler(s *receipts.Service) *PaymentHandler {
	return &PaymentHandler{svc: s}
}

// Register mounts receipt and payment routes; rg must already be authenticated.
func (h *PaymentHandler) Register(rg gin.IRouter) {
	rg.GET("/receipts", h.ListReceipts)
	rg.POST("/pay/demo", h.PayDemo)
	rg.POST("/pay/razorpay/order", h.CreateOrder)
}

func (h *PaymentHandler) ListReceipts(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	items, err := h.svc.List(c.Request.Context(), u.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *PaymentHandler) PayDemo(c *gin.Context) {
	var req DemoPayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, _ := middleware.CurrentUser(c)
	r, err := h.svc.PayDemo(c.Request.Context(), u.Email, receipts.DemoPayment{
		Amount:     *req.Amount,
		Regime:     req.Regime,
		Allocation: req.Allocation,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// CreateOrder creates a Razorpay order and returns it as received. No receipt is stored.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in := gateway.OrderRequest{Amount: *req.Amount, Currency: req.Currency, Notes: req.Notes}
	if req.Receipt != nil {
		in.Receipt = *req.Receipt
	}
	order, err := h.svc.CreateOrder(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
