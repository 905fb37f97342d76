package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxpay/taxpay/backend/go-services/internal/auth"
	"github.com/taxpay/taxpay/backend/go-services/internal/credentials"
	"github.com/taxpay/taxpay/backend/go-services/internal/receipts"
	"github.com/taxpay/taxpay/backend/go-services/internal/store"
	"github.com/taxpay/taxpay/backend/go-services/internal/users"
	"github.com/taxpay/taxpay/backend/go-services/pkg/logger"
)

// statusFor maps a service error to its HTTP status and the message shown to the caller.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, users.ErrDuplicateEmail):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, credentials.ErrPasswordTooLong):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, users.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, receipts.ErrGatewayNotConfigured):
		return http.StatusBadRequest, "Razorpay keys not configured"
	case errors.Is(err, receipts.ErrGatewayFailure):
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable, "document store unavailable"
	}
	return http.StatusInternalServerError, "internal error"
}

// writeError responds with {"error": message} for err.
func writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// badRequest reports a binding or validation failure.
func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
