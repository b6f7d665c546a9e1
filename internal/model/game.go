package model

import (
	"fmt"
	"time"
)

// GameID uniquely identifies a game
type GameID string

// GameState represents the overall lifecycle state of a game
type GameState string

const (
	GameStatePlaying GameState = "playing"
	GameStateEnded   GameState = "ended"
)

// TurnPhase is the current player's position in the turn state machine.
// Terminal turn outcomes (turn complete, went out) are transitions handled by
// the engine, not persisted phases: a completed turn immediately becomes the
// next player's awaiting_draw, and going out triggers the round lifecycle.
type TurnPhase string

const (
	PhaseAwaitingDraw TurnPhase = "awaiting_draw"
	PhaseDrawn        TurnPhase = "drawn"
)

// Game is the canonical game state: the single logical document the engine
// mutates one command at a time. Everything the rules need lives here;
// the engine holds no ambient state of its own.
type Game struct {
	ID    GameID
	State GameState

	// Players in seat order (index = seat)
	Players []PlayerState

	// Table state
	Melds []Meld
	Stock []Card // draw pile; last element is drawn next
	// Discard pile; last element is the top (most recent)
	Discard []Card

	// Turn state
	CurrentPlayerIndex int
	DealerIndex        int
	Phase              TurnPhase
	HasDrawn           bool

	// Round state
	RoundNumber  int
	RoundRecords []RoundRecord

	// Pending or most recently resolved May I request
	MayI *MayIRequest

	// ExpectedDeckSize is the full deck size for this table, fixed at game
	// start and used by the conservation audit.
	ExpectedDeckSize int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlayerCount returns the number of seats
func (g *Game) PlayerCount() int {
	return len(g.Players)
}

// CurrentPlayer returns the player whose turn it is
func (g *Game) CurrentPlayer() *PlayerState {
	return &g.Players[g.CurrentPlayerIndex]
}

// PlayerIndex returns the seat index for a player id, or -1 if absent
func (g *Game) PlayerIndex(id PlayerID) int {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// Player returns the player state for the given id
func (g *Game) Player(id PlayerID) (*PlayerState, error) {
	idx := g.PlayerIndex(id)
	if idx < 0 {
		return nil, ErrPlayerNotInGame
	}
	return &g.Players[idx], nil
}

// IsCurrentPlayer reports whether the given player holds the turn
func (g *Game) IsCurrentPlayer(id PlayerID) bool {
	return g.Players[g.CurrentPlayerIndex].ID == id
}

// TopDiscard returns the top of the discard pile
func (g *Game) TopDiscard() (Card, bool) {
	if len(g.Discard) == 0 {
		return Card{}, false
	}
	return g.Discard[len(g.Discard)-1], true
}

// PopDiscard removes and returns the top of the discard pile
func (g *Game) PopDiscard() (Card, bool) {
	if len(g.Discard) == 0 {
		return Card{}, false
	}
	top := g.Discard[len(g.Discard)-1]
	g.Discard = g.Discard[:len(g.Discard)-1]
	return top, true
}

// PopStock removes and returns the next card from the stock
func (g *Game) PopStock() (Card, bool) {
	if len(g.Stock) == 0 {
		return Card{}, false
	}
	top := g.Stock[len(g.Stock)-1]
	g.Stock = g.Stock[:len(g.Stock)-1]
	return top, true
}

// Meld returns the meld with the given id
func (g *Game) Meld(id MeldID) (*Meld, error) {
	for i := range g.Melds {
		if g.Melds[i].ID == id {
			return &g.Melds[i], nil
		}
	}
	return nil, ErrMeldNotFound
}

// Contract returns the lay-down contract for the current round
func (g *Game) Contract() Contract {
	c, err := ContractForRound(g.RoundNumber)
	if err != nil {
		// RoundNumber is engine-controlled and always 1..6
		panic(fmt.Sprintf("game %s has invalid round %d", g.ID, g.RoundNumber))
	}
	return c
}

// DiscardFrozen reports whether the top discard is locked by a pending May I
func (g *Game) DiscardFrozen() bool {
	if !g.MayI.IsPending() {
		return false
	}
	top, ok := g.TopDiscard()
	return ok && top.ID == g.MayI.DiscardCard.ID
}

// Winners returns the players with the minimum total score. Only meaningful
// once the game has ended; ties produce multiple winners.
func (g *Game) Winners() []PlayerID {
	if len(g.Players) == 0 {
		return nil
	}
	min := g.Players[0].TotalScore
	for _, p := range g.Players[1:] {
		if p.TotalScore < min {
			min = p.TotalScore
		}
	}
	var winners []PlayerID
	for _, p := range g.Players {
		if p.TotalScore == min {
			winners = append(winners, p.ID)
		}
	}
	return winners
}

// Clone returns a deep copy of the game. Controllers mutate a clone and
// persist it only on success, which is what makes command rejection
// side-effect free.
func (g *Game) Clone() *Game {
	players := make([]PlayerState, len(g.Players))
	for i := range g.Players {
		players[i] = g.Players[i].Clone()
	}
	melds := make([]Meld, len(g.Melds))
	for i := range g.Melds {
		melds[i] = g.Melds[i].Clone()
	}
	stock := make([]Card, len(g.Stock))
	copy(stock, g.Stock)
	discard := make([]Card, len(g.Discard))
	copy(discard, g.Discard)
	records := make([]RoundRecord, len(g.RoundRecords))
	for i := range g.RoundRecords {
		records[i] = g.RoundRecords[i].Clone()
	}

	cp := *g
	cp.Players = players
	cp.Melds = melds
	cp.Stock = stock
	cp.Discard = discard
	cp.RoundRecords = records
	cp.MayI = g.MayI.Clone()
	return &cp
}

// AuditConservation verifies the core card invariants: every card in the
// deck is in exactly one place (stock, discard, a hand, or a meld) and no
// card id appears twice. A failure here is a programming bug, not a player
// error; callers in strict mode panic on it.
func (g *Game) AuditConservation() error {
	seen := make(map[CardID]string, g.ExpectedDeckSize)
	count := 0

	track := func(c Card, where string) error {
		if prev, dup := seen[c.ID]; dup {
			return fmt.Errorf("card %s (%s) present in both %s and %s", c.ID, c, prev, where)
		}
		seen[c.ID] = where
		count++
		return nil
	}

	for _, c := range g.Stock {
		if err := track(c, "stock"); err != nil {
			return err
		}
	}
	for _, c := range g.Discard {
		if err := track(c, "discard"); err != nil {
			return err
		}
	}
	for i := range g.Players {
		where := fmt.Sprintf("hand of %s", g.Players[i].ID)
		for _, c := range g.Players[i].Hand {
			if err := track(c, where); err != nil {
				return err
			}
		}
	}
	for i := range g.Melds {
		where := fmt.Sprintf("meld %s", g.Melds[i].ID)
		for _, c := range g.Melds[i].Cards {
			if err := track(c, where); err != nil {
				return err
			}
		}
	}

	if count != g.ExpectedDeckSize {
		return fmt.Errorf("card conservation violated: %d cards on table, expected %d", count, g.ExpectedDeckSize)
	}
	return nil
}
