package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxpay/taxpay/backend/go-services/internal/auth"
	"github.com/taxpay/taxpay/backend/go-services/internal/models"
	"github.com/taxpay/taxpay/backend/go-services/internal/store"
	"github.com/taxpay/taxpay/backend/go-services/pkg/logger"
	"github.com/taxpay/taxpay/backend/go-services/pkg/metrics"
)

// Context keys set by AuthMiddleware.
const (
	UserKey   = "user"
	ClaimsKey = "claims"
)

// Resolver is the minimal interface the middleware depends on
type Resolver interface {
	Resolve(ctx context.Context, rawHeader string) (*models.User, error)
}

// AuthMiddleware returns a Gin middleware that resolves the Authorization header to a user.
// Every rejection gets the same 401 body; the reason is only logged and counted.
func AuthMiddleware(r Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := r.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, auth.ErrUnauthorized) {
				reason := string(auth.ReasonOf(err))
				metrics.AuthFailures.WithLabelValues(reason).Inc()
				logger.Debugf("auth rejected path=%s reason=%s", c.FullPath(), reason)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			logger.Errorf("auth lookup failed: %v", err)
			status := http.StatusInternalServerError
			if errors.Is(err, store.ErrUnavailable) {
				status = http.StatusServiceUnavailable
			}
			c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
			return
		}

		c.Set(UserKey, u)
		c.Set(ClaimsKey, map[string]interface{}{"sub": u.Email})
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}
