package storage

import (
	"context"

	"github.com/cardfold/mayi-go/internal/model"
)

// Storage defines the interface for game state persistence
type Storage interface {
	// SaveGame persists the full game snapshot
	SaveGame(ctx context.Context, game *model.Game) error

	// GetGame retrieves a game by ID
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)

	// DeleteGame removes a game
	DeleteGame(ctx context.Context, id model.GameID) error

	// ListGameIDs returns the IDs of every stored game. The May I expiry
	// sweeper uses this to find games with stale pending requests.
	ListGameIDs(ctx context.Context) ([]model.GameID, error)
}
