package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/taxpay/taxpay/backend/go-services/internal/allocations"
	"github.com/taxpay/taxpay/backend/go-services/internal/config"
	"github.com/taxpay/taxpay/backend/go-services/internal/receipts"
	"github.com/taxpay/taxpay/backend/go-services/internal/store"
	"github.com/taxpay/taxpay/backend/go-services/internal/users"
	"github.com/taxpay/taxpay/backend/go-services/pkg/middleware"
)

// Deps are the constructed services the router exposes.
type Deps struct {
	Store       store.Store
	Users       *users.Service
	Allocations *allocations.Service
	Receipts    *receipts.Service
	Gate        middleware.Resolver

	// Optional.
	Redis      *redis.Client
	RateLimit  config.RateLimitConfig
	CORSOrigin string
	Metrics    http.Handler
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(d Deps) *gin.Engine {
	RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORSMiddleware(d.CORSOrigin))

	NewHealthHandler(d.Store, d.Redis).Register(r)
	RegisterSwagger(r)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}

	// rate limiting runs after authentication so authenticated callers are keyed by subject
	var limit gin.HandlerFunc
	if d.RateLimit.Enabled {
		if d.RateLimit.UseRedis && d.Redis != nil {
			win := time.Duration(d.RateLimit.WindowSeconds) * time.Second
			limit = middleware.RedisRateLimitMiddleware(d.Redis, d.RateLimit.RPS, d.RateLimit.Burst, win)
		} else {
			limit = middleware.RateLimitMiddleware(d.RateLimit.RPS, d.RateLimit.Burst)
		}
	}

	public := r.Group("/")
	if limit != nil {
		public.Use(limit)
	}
	authH := NewAuthHandler(d.Users)
	authH.Register(public)

	protected := r.Group("/", middleware.AuthMiddleware(d.Gate))
	if limit != nil {
		protected.Use(limit)
	}
	protected.GET("/me", authH.Me)
	NewAllocationHandler(d.Allocations).Register(protected)
	NewPaymentHandler(d.Receipts).Register(protected)

	return r
}
