package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/bancoimob/gamebank/internal/bus"
	"github.com/bancoimob/gamebank/internal/dependencies/clock"
	"github.com/bancoimob/gamebank/internal/dependencies/random"
	"github.com/bancoimob/gamebank/internal/services/session"
	"github.com/bancoimob/gamebank/internal/storage"
	"github.com/bancoimob/gamebank/internal/storage/memory"
	redisstorage "github.com/bancoimob/gamebank/internal/storage/redis"
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
	Clock  clock.Clock
	Random random.Random

	// Services
	Bus      *bus.Bus
	Sessions *session.Service
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
	// Session holds ledger parameters for new sessions (optional)
	// If zero value, defaults to session.DefaultConfig()
	Session session.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
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

	sessionCfg := cfg.Session
	if sessionCfg.MaxAttempts == 0 {
		sessionCfg = session.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), sessionCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, sessionCfg session.Config, logger *slog.Logger) *App {
	changeBus := bus.New(logger)
	sessions := session.NewService(store, changeBus, clk, rnd, sessionCfg, logger)

	return &App{
		Storage:  store,
		Clock:    clk,
		Random:   rnd,
		Bus:      changeBus,
		Sessions: sessions,
	}
}
