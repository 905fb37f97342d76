package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/taxpay/taxpay/backend/go-services/internal/store"
)

// PingCollection receives the records written by the connectivity check.
const PingCollection = "ping"

var startTime = time.Now()

// HealthHandler serves liveness, readiness and the store connectivity check.
type HealthHandler struct {
	st    store.Store
	redis *redis.Client
}

// NewHealthHandler builds the handler; rdb may be nil when Redis is not in use.
func NewHealthHandler(st store.Store, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{st: st, redis: rdb}
}

func (h *HealthHandler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/test", h.StoreCheck)
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "healthy")
}

// Ready returns 200 only when the store (and Redis, when configured) answer.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	ready := true
	deps := map[string]bool{}

	_, err := h.st.Query(ctx, PingCollection, store.Fields{}, 1)
	deps["store"] = err == nil
	ready = ready && deps["store"]

	if h.redis != nil {
		deps["redis"] = h.redis.Ping(ctx).Err() == nil
		ready = ready && deps["redis"]
	}

	status, label := http.StatusOK, "ready"
	if !ready {
		status, label = http.StatusServiceUnavailable, "not_ready"
	}
	c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(startTime).String()})
}

// StoreCheck writes a ping record and reads one back.
func (h *HealthHandler) StoreCheck(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.st.Create(ctx, PingCollection, store.Fields{"ok": true, "ts": float64(time.Now().UnixNano()) / 1e9}); err != nil {
		writeError(c, err)
		return
	}
	recs, err := h.st.Query(ctx, PingCollection, store.Fields{}, 1)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": len(recs)})
}
