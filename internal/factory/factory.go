package factory

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/scorekeeper/internal/dependencies/clock"
	"github.com/mcoot/scorekeeper/internal/services/persistence"
	"github.com/mcoot/scorekeeper/internal/services/session"
	"github.com/mcoot/scorekeeper/internal/storage"
	"github.com/mcoot/scorekeeper/internal/storage/memory"
	redisstorage "github.com/mcoot/scorekeeper/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	PersistenceService *persistence.Service
	SessionController  *session.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PersistenceConfig sets the snapshot key and lifetime
	// If zero value, defaults to persistence.DefaultConfig()
	PersistenceConfig persistence.Config
	// SessionConfig holds session defaults
	// If zero value, defaults to session.DefaultConfig()
	SessionConfig session.Config
}

// New creates a new application with all dependencies wired and the session
// restored from storage
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	clk := clock.New()

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.NewWithClock(clk)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	app := newWithDependencies(store, clk, cfg.PersistenceConfig, cfg.SessionConfig, logger)
	app.SessionController.Restore(ctx)
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	persistenceCfg persistence.Config,
	sessionCfg session.Config,
	logger *slog.Logger,
) *App {
	if persistenceCfg == (persistence.Config{}) {
		persistenceCfg = persistence.DefaultConfig()
	}
	if sessionCfg == (session.Config{}) {
		sessionCfg = session.DefaultConfig()
	}

	persistenceService := persistence.New(store, clk, persistenceCfg, logger)
	sessionController := session.NewController(persistenceService, clk, sessionCfg, logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		PersistenceService: persistenceService,
		SessionController:  sessionController,
	}
}

// Close releases resources held by the storage backend
func (a *App) Close() error {
	if closer, ok := a.Storage.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
