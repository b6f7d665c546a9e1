package testutil

import (
	"time"

	"github.com/cardfold/mayi-go/internal/model"
)

// FixtureTime is a stable timestamp for fixtures and mock clocks
var FixtureTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// NewGame builds a minimal in-progress game for the given seats: round 1,
// dealer in the last seat, first seat to act, empty hands and piles. Tests
// arrange hands, stock and discard directly on top of this.
func NewGame(playerIDs ...model.PlayerID) *model.Game {
	players := make([]model.PlayerState, 0, len(playerIDs))
	for _, id := range playerIDs {
		players = append(players, model.PlayerState{ID: id})
	}
	return &model.Game{
		ID:                 "game-1",
		State:              model.GameStatePlaying,
		Players:            players,
		CurrentPlayerIndex: 0,
		DealerIndex:        len(players) - 1,
		Phase:              model.PhaseAwaitingDraw,
		RoundNumber:        model.FirstRound,
		CreatedAt:          FixtureTime,
		UpdatedAt:          FixtureTime,
	}
}
