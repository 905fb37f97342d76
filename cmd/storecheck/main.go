// Command storecheck writes a ping record to the configured document store and reads it back.
// It exits non-zero when the store cannot be reached.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/taxpay/taxpay/backend/go-services/internal/config"
	"github.com/taxpay/taxpay/backend/go-services/internal/database"
	"github.com/taxpay/taxpay/backend/go-services/internal/store"
	"github.com/taxpay/taxpay/backend/go-services/pkg/logger"
)

func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline")
	flag.Parse()
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	n, err := run(ctx, cfg.Store)
	if err != nil {
		logger.Errorf("store check failed: %v", err)
		os.Exit(1)
	}
	fmt.Printf("ok driver=%s database=%s count=%d\n", cfg.Store.Driver, cfg.Store.Database, n)
}

func run(ctx context.Context, cfg config.StoreConfig) (int, error) {
	st, closeStore, err := database.OpenStore(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer func() { _ = closeStore(context.Background()) }()
	return ping(ctx, st)
}

// ping creates one record in the ping collection and counts what a limit-1 query returns.
func ping(ctx context.Context, st store.Store) (int, error) {
	if _, err := st.Create(ctx, "ping", store.Fields{"ok": true, "source": "storecheck"}); err != nil {
		return 0, err
	}
	recs, err := st.Query(ctx, "ping", store.Fields{}, 1)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}
