package database

import (
	"context"
	"fmt"

	"github.com/taxpay/taxpay/backend/go-services/internal/config"
	"github.com/taxpay/taxpay/backend/go-services/internal/store"
	"github.com/taxpay/taxpay/backend/go-services/pkg/logger"
)

// connectAttempts bounds the startup retries against MongoDB.
const connectAttempts = 5

// OpenStore builds the document store selected by cfg.Driver. The returned close
// function releases the underlying connection and must be called at shutdown.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (store.Store, func(context.Context) error, error) {
	switch cfg.Driver {
	case "memory":
		logger.Warnf("using in-memory document store; data is lost on restart")
		return store.NewMemoryStore(), func(context.Context) error { return nil }, nil
	case "mongo", "":
		client, err := ConnectMongoWithRetry(ctx, cfg.URI, cfg.Timeout, connectAttempts)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("connected to MongoDB database=%s", cfg.Database)
		return store.NewMongoStore(client.Database(cfg.Database)), client.Disconnect, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
