package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cardfold/mayi-go/internal/api/handler"
	"github.com/cardfold/mayi-go/internal/api/middleware"
	"github.com/cardfold/mayi-go/internal/api/sse"
	"github.com/cardfold/mayi-go/internal/services/game"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller
	HubManager     *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.HubManager, cfg.Logger)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Game lifecycle
	games := api.PathPrefix("/games").Subrouter()
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}", gameHandler.Delete).Methods(http.MethodDelete)
	games.HandleFunc("/{game_id}/rounds", gameHandler.StartRound).Methods(http.MethodPost)

	// Per-player view and commands
	games.HandleFunc("/{game_id}/view", gameHandler.GetView).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}/commands", gameHandler.ApplyCommand).Methods(http.MethodPost)

	// Event stream
	games.HandleFunc("/{game_id}/events", gameHandler.Events).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
