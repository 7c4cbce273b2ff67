package user

import (
	"context"
	"fmt"
	"math/rand/v2"

	"crud-service/internal/config"
	"crud-service/internal/database"

	"go.uber.org/zap"
)

// UserRepository is everything the workload needs from a backend. Each call
// fails independently with a *StoreError.
type UserRepository interface {
	Count(ctx context.Context, filter Filter) (int64, error)
	Sample(ctx context.Context, filter Filter, limit int64) ([]string, error)
	Insert(ctx context.Context, user *User) error
	UpdateFields(ctx context.Context, userID string, fields Fields) (int64, error)
	Delete(ctx context.Context, userID string) (int64, error)
}

// Store is a UserRepository with a connection lifecycle.
type Store interface {
	UserRepository
	// Connect opens the backend and runs a liveness probe.
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
}

// NewStore picks the backend named by STORE_DRIVER.
func NewStore(cfg *config.Config, logger *zap.Logger, rng *rand.Rand) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return NewMongoUserRepository(database.NewDatabase(cfg, logger), cfg.CollectionName), nil
	case config.DriverPostgres:
		return NewPostgresUserRepository(database.NewPostgres(cfg, logger), cfg.CollectionName), nil
	case config.DriverMemory:
		logger.Warn("using in-memory store, nothing will be persisted")
		return NewMemoryUserRepository(rng), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// AsRepository exposes a Store through the narrower interface.
func AsRepository(s Store) UserRepository {
	return s
}
