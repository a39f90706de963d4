package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/calram/skirmish/internal/dependencies/clock"
	"github.com/calram/skirmish/internal/dependencies/random"
	"github.com/calram/skirmish/internal/events"
	"github.com/calram/skirmish/internal/services/account"
	"github.com/calram/skirmish/internal/services/capability"
	"github.com/calram/skirmish/internal/services/combat"
	"github.com/calram/skirmish/internal/services/fleet"
	"github.com/calram/skirmish/internal/services/leaderboard"
	"github.com/calram/skirmish/internal/storage"
	"github.com/calram/skirmish/internal/storage/memory"
	redisstorage "github.com/calram/skirmish/internal/storage/redis"
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
	CapabilityService  *capability.Service
	AccountService     *account.Service
	FleetService       *fleet.Service
	CombatService      *combat.Service
	LeaderboardService *leaderboard.Service

	// Event fan-out. Run is started by the factory; call Close on shutdown.
	Broadcaster *events.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// CapabilityHashKey keys the digest of capability secrets at rest
	// (optional; empty falls back to an unkeyed digest, at most 64 bytes)
	CapabilityHashKey []byte
	// AccountConfig holds starting stats for new accounts (optional)
	// If zero value, defaults to account.DefaultConfig()
	AccountConfig account.Config
	// FleetConfig holds inventory and economy tuning (optional)
	// If zero value, defaults to fleet.DefaultConfig()
	FleetConfig fleet.Config
	// RulesConfig holds combat tuning (optional)
	// If zero value, defaults to combat.DefaultRulesConfig()
	RulesConfig combat.RulesConfig
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

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

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg, logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) (*App, error) {
	capabilityService, err := capability.New(store, clk, rnd, capability.Config{HashKey: cfg.CapabilityHashKey}, logger)
	if err != nil {
		return nil, err
	}

	broadcaster := events.NewBroadcaster(logger)
	go broadcaster.Run()

	accountService := account.New(store, capabilityService, clk, rnd, broadcaster, cfg.AccountConfig, logger)
	fleetService := fleet.New(store, capabilityService, clk, rnd, broadcaster, cfg.FleetConfig, logger)
	leaderboardService := leaderboard.New(store, logger)
	rules := combat.NewDefaultRules(cfg.RulesConfig)
	combatService := combat.New(store, capabilityService, fleetService, leaderboardService, rules, clk, broadcaster, logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		CapabilityService:  capabilityService,
		AccountService:     accountService,
		FleetService:       fleetService,
		CombatService:      combatService,
		LeaderboardService: leaderboardService,
		Broadcaster:        broadcaster,
	}, nil
}

// Close releases the app's background resources
func (a *App) Close() {
	a.Broadcaster.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		_ = closer.Close()
	}
}
