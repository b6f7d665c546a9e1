package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/cardfold/mayi-go/internal/api/sse"
	"github.com/cardfold/mayi-go/internal/dependencies/clock"
	"github.com/cardfold/mayi-go/internal/dependencies/random"
	"github.com/cardfold/mayi-go/internal/services/deck"
	"github.com/cardfold/mayi-go/internal/services/game"
	"github.com/cardfold/mayi-go/internal/services/mayi"
	"github.com/cardfold/mayi-go/internal/services/meld"
	"github.com/cardfold/mayi-go/internal/services/round"
	"github.com/cardfold/mayi-go/internal/services/turn"
	"github.com/cardfold/mayi-go/internal/services/view"
	"github.com/cardfold/mayi-go/internal/storage"
	"github.com/cardfold/mayi-go/internal/storage/memory"
	redisstorage "github.com/cardfold/mayi-go/internal/storage/redis"
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
	MeldService    *meld.Service
	DeckService    *deck.Service
	TurnService    *turn.Service
	MayIService    *mayi.Service
	RoundService   *round.Service
	ViewService    *view.Service
	GameController *game.Controller
	HubManager     *sse.HubManager
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
	// MayITimeout is how long a May I request stays open (optional)
	// If zero, defaults to mayi.DefaultTimeout
	MayITimeout time.Duration
	// GameConfig holds engine settings (optional)
	GameConfig game.Config
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

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg.MayITimeout, cfg.GameConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	mayiTimeout time.Duration,
	gameCfg game.Config,
	logger *slog.Logger,
) *App {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create services
	meldService := meld.New()
	deckService := deck.New(rnd)
	turnService := turn.New(meldService, logger)
	mayiService := mayi.New(clk, mayiTimeout, logger)
	roundService := round.New(deckService, logger)
	viewService := view.New()
	gameController := game.NewController(
		store,
		turnService,
		mayiService,
		roundService,
		viewService,
		clk,
		rnd,
		logger,
		gameCfg,
	)
	hubManager := sse.NewHubManager(logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		MeldService:    meldService,
		DeckService:    deckService,
		TurnService:    turnService,
		MayIService:    mayiService,
		RoundService:   roundService,
		ViewService:    viewService,
		GameController: gameController,
		HubManager:     hubManager,
	}
}
