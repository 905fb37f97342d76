package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/taxpay/taxpay/backend/go-services/handlers"
	"github.com/taxpay/taxpay/backend/go-services/internal/allocations"
	"github.com/taxpay/taxpay/backend/go-services/internal/auth"
	"github.com/taxpay/taxpay/backend/go-services/internal/config"
	"github.com/taxpay/taxpay/backend/go-services/internal/credentials"
	"github.com/taxpay/taxpay/backend/go-services/internal/database"
	"github.com/taxpay/taxpay/backend/go-services/internal/gateway"
	"github.com/taxpay/taxpay/backend/go-services/internal/receipts"
	"github.com/taxpay/taxpay/backend/go-services/internal/storage"
	"github.com/taxpay/taxpay/backend/go-services/internal/tokens"
	"github.com/taxpay/taxpay/backend/go-services/internal/users"
	"github.com/taxpay/taxpay/backend/go-services/pkg/logger"
	"github.com/taxpay/taxpay/backend/go-services/pkg/metrics"
)

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: store=%s redis=%v gateway=%v archive=%v",
		cfg.Store.Driver, cfg.Redis.Host != "", cfg.Gateway.Configured(), cfg.MinIO.Endpoint != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := database.OpenStore(ctx, cfg.Store)
	if err != nil {
		logger.Fatalf("document store: %v", err)
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			logger.Warnf("closing document store: %v", err)
		}
	}()

	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
		}
	}

	tokenSvc := tokens.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	usersSvc := users.NewService(users.NewStoreUserRepository(st), credentials.NewHasher(cfg.JWT.BcryptCost), tokenSvc)

	var gw gateway.Gateway
	if rp, err := gateway.NewRazorpay(cfg.Gateway.KeyID, cfg.Gateway.KeySecret, cfg.Gateway.BaseURL, nil); err == nil {
		gw = rp
	} else {
		logger.Infof("payment gateway disabled: %v", err)
	}
	receiptsSvc := receipts.NewService(st, gw)
	if cfg.MinIO.Endpoint != "" {
		archive, err := storage.NewReceiptArchive(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("receipt archive disabled: %v", err)
		} else {
			receiptsSvc.WithArchiver(archive)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCollectors(reg)

	router := handlers.NewRouter(handlers.Deps{
		Store:       st,
		Users:       usersSvc,
		Allocations: allocations.NewService(st),
		Receipts:    receiptsSvc,
		Gate:        auth.NewGate(tokenSvc, usersSvc),
		Redis:       rdb,
		RateLimit:   cfg.RateLimit,
		CORSOrigin:  cfg.CORS.AllowedOrigin,
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("starting TaxPay API on %s (env=%s)", srv.Addr, cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Infof("shutdown signal received")
	case err := <-errCh:
		logger.Errorf("server failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("graceful shutdown: %v", err)
	}
}
