package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cardfold/mayi-go/internal/dependencies/clock"
	"github.com/cardfold/mayi-go/internal/dependencies/random"
	"github.com/cardfold/mayi-go/internal/model"
	"github.com/cardfold/mayi-go/internal/services/mayi"
	"github.com/cardfold/mayi-go/internal/services/round"
	"github.com/cardfold/mayi-go/internal/services/turn"
	"github.com/cardfold/mayi-go/internal/services/view"
	"github.com/cardfold/mayi-go/internal/storage"
)

const gameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Config tunes engine behavior
type Config struct {
	// StrictInvariants panics on a card conservation breach instead of
	// rejecting the command. Meant for tests and staging, not production.
	StrictInvariants bool
}

// Controller is the engine facade: the single entry point through which
// commands reach a game. It serializes commands per game, applies them to a
// clone of the stored state, and persists only on success, so a rejected
// command leaves the stored game byte-for-byte unchanged.
type Controller struct {
	storage storage.Storage
	turn    *turn.Service
	mayi    *mayi.Service
	round   *round.Service
	view    *view.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	cfg     Config

	mu    sync.Mutex
	locks map[model.GameID]*sync.Mutex
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	turnService *turn.Service,
	mayiService *mayi.Service,
	roundService *round.Service,
	viewService *view.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	return &Controller{
		storage: storage,
		turn:    turnService,
		mayi:    mayiService,
		round:   roundService,
		view:    viewService,
		clock:   clock,
		random:  random,
		logger:  logger,
		cfg:     cfg,
		locks:   make(map[model.GameID]*sync.Mutex),
	}
}

// lockGame serializes access to one game. No two commands are ever applied
// concurrently against the same game; different games proceed in parallel.
func (c *Controller) lockGame(id model.GameID) func() {
	c.mu.Lock()
	lock, ok := c.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[id] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// StartNewGame creates a game for the given players and deals the starting
// round. startingRound is normally FirstRound; test harnesses may seed a game
// at any round 1-6.
func (c *Controller) StartNewGame(ctx context.Context, playerIDs []model.PlayerID, startingRound int) (*model.Game, []model.Event, error) {
	if len(playerIDs) < model.MinPlayers || len(playerIDs) > model.MaxPlayers {
		return nil, nil, fmt.Errorf("%w: %d", model.ErrInvalidPlayerCount, len(playerIDs))
	}
	seen := make(map[model.PlayerID]bool, len(playerIDs))
	for _, id := range playerIDs {
		if id == "" || seen[id] {
			return nil, nil, fmt.Errorf("%w: duplicate or empty player id %q", model.ErrInvalidPlayerCount, id)
		}
		seen[id] = true
	}
	if startingRound == 0 {
		startingRound = model.FirstRound
	}
	if _, err := model.ContractForRound(startingRound); err != nil {
		return nil, nil, err
	}

	now := c.clock.Now()
	players := make([]model.PlayerState, 0, len(playerIDs))
	for _, id := range playerIDs {
		players = append(players, model.PlayerState{ID: id})
	}

	game := &model.Game{
		ID:          model.GameID(c.random.String(12, gameIDAlphabet)),
		State:       model.GameStatePlaying,
		Players:     players,
		DealerIndex: 0,
		RoundNumber: startingRound,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.round.Deal(game); err != nil {
		return nil, nil, err
	}
	if err := c.checkInvariants(game); err != nil {
		return nil, nil, err
	}
	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.Int("player_count", len(playerIDs)),
		slog.Int("starting_round", startingRound),
	)

	events := []model.Event{c.event(model.EventGameStarted, game, "", nil)}
	return game, events, nil
}

// StartNewRound abandons the current round's table state and re-deals the
// game's current round number. A lifecycle entry point for test and agent
// harnesses; normal round progression happens through going out.
func (c *Controller) StartNewRound(ctx context.Context, gameID model.GameID) (*model.Game, []model.Event, error) {
	unlock := c.lockGame(gameID)
	defer unlock()

	stored, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if stored.State == model.GameStateEnded {
		return nil, nil, model.ErrGameEnded
	}

	game := stored.Clone()
	if err := c.round.Deal(game); err != nil {
		return nil, nil, err
	}
	game.UpdatedAt = c.clock.Now()

	if err := c.checkInvariants(game); err != nil {
		return nil, nil, err
	}
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, nil, err
	}

	events := []model.Event{c.event(model.EventGameStarted, game, "", nil)}
	return game, events, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// DeleteGame removes a game
func (c *Controller) DeleteGame(ctx context.Context, gameID model.GameID) error {
	unlock := c.lockGame(gameID)
	defer unlock()
	return c.storage.DeleteGame(ctx, gameID)
}

// ProjectView builds the given player's view of the game
func (c *Controller) ProjectView(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*view.PlayerView, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return c.view.Project(game, playerID)
}

// Apply runs one player command against the game. All validation happens on
// a clone; the clone is persisted and events are emitted only when the whole
// command (including any round rollover it triggers) succeeds.
func (c *Controller) Apply(ctx context.Context, gameID model.GameID, playerID model.PlayerID, cmd model.Command) (*model.Game, []model.Event, error) {
	unlock := c.lockGame(gameID)
	defer unlock()

	stored, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}

	game := stored.Clone()
	events, err := c.dispatch(game, playerID, cmd)
	if err != nil {
		c.logger.Debug("command rejected",
			slog.String("game_id", string(gameID)),
			slog.String("player_id", string(playerID)),
			slog.String("command", string(cmd.Kind())),
			slog.String("error", err.Error()),
		)
		return nil, nil, err
	}

	game.UpdatedAt = c.clock.Now()
	if err := c.checkInvariants(game); err != nil {
		return nil, nil, err
	}
	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		return nil, nil, err
	}

	c.logger.Info("command applied",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.String("command", string(cmd.Kind())),
	)

	return game, events, nil
}

// dispatch routes a command to its service and assembles the event trail
func (c *Controller) dispatch(game *model.Game, playerID model.PlayerID, cmd model.Command) ([]model.Event, error) {
	switch cmd := cmd.(type) {
	case model.DrawFromStockCommand:
		outcome, err := c.turn.DrawFromStock(game, playerID)
		if err != nil {
			return nil, err
		}
		return c.drawEvents(game, playerID, outcome), nil

	case model.DrawFromDiscardCommand:
		outcome, err := c.turn.DrawFromDiscard(game, playerID)
		if err != nil {
			return nil, err
		}
		return c.drawEvents(game, playerID, outcome), nil

	case model.LayDownCommand:
		outcome, err := c.turn.LayDown(game, playerID, cmd.Melds)
		if err != nil {
			return nil, err
		}
		laid := game.Melds[len(game.Melds)-len(cmd.Melds):]
		ids := make([]model.MeldID, 0, len(laid))
		for i := range laid {
			ids = append(ids, laid[i].ID)
		}
		events := []model.Event{c.event(model.EventLaidDown, game, playerID, model.LaidDownPayload{MeldIDs: ids})}
		return c.withTurnOutcome(events, game, playerID, outcome)

	case model.LayOffCommand:
		outcome, err := c.turn.LayOff(game, playerID, cmd.Placement)
		if err != nil {
			return nil, err
		}
		events := []model.Event{c.event(model.EventLaidOff, game, playerID, model.LaidOffPayload{
			CardID: cmd.Placement.CardID,
			MeldID: cmd.Placement.MeldID,
		})}
		return c.withTurnOutcome(events, game, playerID, outcome)

	case model.SwapJokerCommand:
		if _, err := c.turn.SwapJoker(game, playerID, cmd); err != nil {
			return nil, err
		}
		return []model.Event{c.event(model.EventJokerSwapped, game, playerID, nil)}, nil

	case model.DiscardCommand:
		outcome, err := c.turn.Discard(game, playerID, cmd.CardID)
		if err != nil {
			return nil, err
		}
		events := []model.Event{c.event(model.EventCardDiscarded, game, playerID, nil)}
		return c.withTurnOutcome(events, game, playerID, outcome)

	case model.GoOutCommand:
		outcome, err := c.turn.GoOut(game, playerID, cmd.Placements)
		if err != nil {
			return nil, err
		}
		return c.withTurnOutcome(nil, game, playerID, outcome)

	case model.ReorderHandCommand:
		if _, err := c.turn.ReorderHand(game, playerID, cmd.Order); err != nil {
			return nil, err
		}
		return []model.Event{c.event(model.EventHandReordered, game, playerID, nil)}, nil

	case model.CallMayICommand:
		if _, err := c.mayi.Call(game, playerID); err != nil {
			return nil, err
		}
		return []model.Event{c.event(model.EventMayICalled, game, playerID, nil)}, nil

	case model.RespondMayICommand:
		resolution, err := c.mayi.Respond(game, playerID, cmd.Decision)
		if err != nil {
			return nil, err
		}
		events := []model.Event{c.event(model.EventMayIResponded, game, playerID, nil)}
		if resolution != nil {
			events = append(events, c.resolutionEvent(game, resolution))
		}
		return events, nil

	default:
		return nil, fmt.Errorf("%w: unknown command %q", model.ErrIllegalCommandForPhase, cmd.Kind())
	}
}

// ResolveExpiredMayI resolves the game's pending May I request if its
// deadline has passed. Idempotent; a sweep that finds nothing to do returns
// no events.
func (c *Controller) ResolveExpiredMayI(ctx context.Context, gameID model.GameID) ([]model.Event, error) {
	unlock := c.lockGame(gameID)
	defer unlock()

	stored, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	game := stored.Clone()
	resolution, err := c.mayi.ResolveIfExpired(game)
	if err != nil {
		return nil, err
	}
	if resolution == nil {
		return nil, nil
	}

	game.UpdatedAt = c.clock.Now()
	if err := c.checkInvariants(game); err != nil {
		return nil, err
	}
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	return []model.Event{c.resolutionEvent(game, resolution)}, nil
}

// SweepExpiredMayI runs ResolveExpiredMayI over every stored game. The
// server calls this on a ticker; a failure on one game does not stop the
// sweep.
func (c *Controller) SweepExpiredMayI(ctx context.Context) []model.Event {
	ids, err := c.storage.ListGameIDs(ctx)
	if err != nil {
		c.logger.Error("may i sweep failed to list games", slog.String("error", err.Error()))
		return nil
	}

	var events []model.Event
	for _, id := range ids {
		resolved, err := c.ResolveExpiredMayI(ctx, id)
		if err != nil {
			c.logger.Error("may i sweep failed",
				slog.String("game_id", string(id)),
				slog.String("error", err.Error()),
			)
			continue
		}
		events = append(events, resolved...)
	}
	return events
}

// withTurnOutcome appends the events implied by a turn outcome: turn
// advancement, or the full round rollover when the player went out.
func (c *Controller) withTurnOutcome(events []model.Event, game *model.Game, playerID model.PlayerID, outcome *turn.Outcome) ([]model.Event, error) {
	if outcome.TurnEnded {
		return append(events, c.event(model.EventTurnComplete, game, playerID, model.TurnCompletePayload{
			NextPlayerID: game.CurrentPlayer().ID,
		})), nil
	}
	if !outcome.WentOut {
		return events, nil
	}

	events = append(events, c.event(model.EventWentOut, game, playerID, nil))

	result, err := c.round.Complete(game, playerID)
	if err != nil {
		return nil, err
	}
	events = append(events, c.event(model.EventRoundComplete, game, playerID, model.RoundCompletePayload{
		Record:      result.Record,
		NextRound:   result.NextRound,
		DealerIndex: result.DealerIndex,
	}))

	if result.GameEnded {
		totals := make(map[model.PlayerID]int, game.PlayerCount())
		for i := range game.Players {
			totals[game.Players[i].ID] = game.Players[i].TotalScore
		}
		events = append(events, c.event(model.EventGameComplete, game, "", model.GameCompletePayload{
			Winners: result.Winners,
			Totals:  totals,
		}))
	}
	return events, nil
}

// drawEvents builds the events for a completed draw
func (c *Controller) drawEvents(game *model.Game, playerID model.PlayerID, outcome *turn.Outcome) []model.Event {
	return []model.Event{c.event(model.EventCardDrawn, game, playerID, model.CardDrawnPayload{
		FromDiscard: outcome.FromDiscard,
		StockCount:  len(game.Stock),
	})}
}

// resolutionEvent builds the event for a May I resolution
func (c *Controller) resolutionEvent(game *model.Game, resolution *mayi.Resolution) model.Event {
	return c.event(model.EventMayIResolved, game, resolution.WinnerID, model.MayIResolvedPayload{
		RequestID: resolution.RequestID,
		CallerID:  resolution.CallerID,
		WinnerID:  resolution.WinnerID,
		Expired:   resolution.Expired,
	})
}

// event stamps an engine event
func (c *Controller) event(eventType model.EventType, game *model.Game, playerID model.PlayerID, payload any) model.Event {
	return model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		GameID:    game.ID,
		PlayerID:  playerID,
		Payload:   payload,
	}
}

// checkInvariants audits card conservation on the mutated clone before it is
// persisted. A breach is a programming bug: strict mode panics so tests fail
// loudly; otherwise the command is rejected and the stored state survives.
func (c *Controller) checkInvariants(game *model.Game) error {
	err := game.AuditConservation()
	if err == nil {
		return nil
	}
	if c.cfg.StrictInvariants {
		panic(fmt.Sprintf("invariant breach in game %s: %v", game.ID, err))
	}
	c.logger.Error("invariant breach",
		slog.String("game_id", string(game.ID)),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("internal state error: %w", err)
}
