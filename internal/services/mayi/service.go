package mayi

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cardfold/mayi-go/internal/dependencies/clock"
	"github.com/cardfold/mayi-go/internal/model"
	"github.com/google/uuid"
)

// DefaultTimeout is how long a May I request stays open before it
// auto-resolves in the caller's favor
const DefaultTimeout = 15 * time.Second

// Service arbitrates May I requests: a non-turn player's claim on the top
// discard. Expiry is a stored timestamp on the request rather than a live
// timer; an external sweeper calls ResolveIfExpired, which is idempotent, so
// a late sweep after a real resolution is a harmless no-op.
//
// Like the turn service, every method mutates the game it is handed and
// callers persist only on success.
type Service struct {
	clock   clock.Clock
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a new May I Service. A non-positive timeout falls back to
// DefaultTimeout.
func New(clock clock.Clock, timeout time.Duration, logger *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		clock:   clock,
		timeout: timeout,
		logger:  logger,
	}
}

// Resolution reports how a May I request ended
type Resolution struct {
	RequestID model.MayIRequestID
	CallerID  model.PlayerID
	WinnerID  model.PlayerID
	// Expired is true when the timeout, not a full set of responses, resolved it
	Expired bool
}

// Call opens a May I request on the top discard for a non-turn player. The
// caller's budget is consumed immediately; a later out-ranking claim does not
// refund it. The named card is frozen against normal draws while pending.
func (s *Service) Call(game *model.Game, playerID model.PlayerID) (*model.MayIRequest, error) {
	if game.State == model.GameStateEnded {
		return nil, model.ErrGameEnded
	}
	player, err := game.Player(playerID)
	if err != nil {
		return nil, err
	}
	if game.IsCurrentPlayer(playerID) {
		return nil, fmt.Errorf("%w: the turn holder draws the discard instead of calling", model.ErrMayINotAllowed)
	}
	if game.Phase != model.PhaseAwaitingDraw {
		// The window closes once the turn holder draws
		return nil, fmt.Errorf("%w: the turn holder has already drawn", model.ErrIllegalCommandForPhase)
	}
	if game.MayI.IsPending() {
		return nil, model.ErrMayIAlreadyPending
	}
	top, ok := game.TopDiscard()
	if !ok {
		return nil, model.ErrNoDiscardToRequest
	}
	if !player.HasMayIBudget() {
		return nil, model.ErrMayIBudgetExhausted
	}

	now := s.clock.Now()
	request := &model.MayIRequest{
		ID:          model.MayIRequestID(uuid.New().String()),
		CallerID:    playerID,
		DiscardCard: top,
		State:       model.MayIPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.timeout),
	}
	player.MayIUsed++
	game.MayI = request

	s.logger.Info("may i called",
		slog.String("game_id", string(game.ID)),
		slog.String("player_id", string(playerID)),
		slog.String("card", top.String()),
	)

	return request, nil
}

// Respond records one player's allow or claim against the pending request.
// The first claim wins immediately; a full set of allows resolves for the
// caller. Responses arriving after resolution get ErrStaleMayIResponse,
// which callers should treat as a no-op rather than a failure.
func (s *Service) Respond(game *model.Game, playerID model.PlayerID, decision model.MayIDecision) (*Resolution, error) {
	if game.State == model.GameStateEnded {
		return nil, model.ErrGameEnded
	}
	player, err := game.Player(playerID)
	if err != nil {
		return nil, err
	}
	request := game.MayI
	if request == nil {
		return nil, model.ErrNoPendingMayI
	}
	if !request.IsPending() {
		return nil, model.ErrStaleMayIResponse
	}
	if playerID == request.CallerID {
		return nil, fmt.Errorf("%w: the caller does not respond to their own request", model.ErrMayINotAllowed)
	}
	if request.HasResponded(playerID) {
		return nil, model.ErrStaleMayIResponse
	}

	switch decision {
	case model.MayIAllow:
		// fine for anyone, including the turn holder
	case model.MayIClaim:
		// Anyone but the caller may claim, the turn holder included: the
		// frozen card is blocked from a normal draw while the request is
		// pending, so claiming is their only route to it
		if !player.HasMayIBudget() {
			return nil, model.ErrMayIBudgetExhausted
		}
	default:
		return nil, fmt.Errorf("%w: unknown decision %q", model.ErrMayINotAllowed, decision)
	}

	request.Responses = append(request.Responses, model.MayIResponse{
		PlayerID: playerID,
		Decision: decision,
		At:       s.clock.Now(),
	})

	if decision == model.MayIClaim {
		player.MayIUsed++
		return s.resolve(game, playerID, false)
	}

	if s.allNonCallersAllowed(game, request) {
		return s.resolve(game, request.CallerID, false)
	}
	return nil, nil
}

// ResolveIfExpired resolves the pending request in the caller's favor when
// its deadline has passed. Safe to call at any time: without a pending,
// expired request it does nothing and reports no resolution.
func (s *Service) ResolveIfExpired(game *model.Game) (*Resolution, error) {
	request := game.MayI
	if !request.IsPending() {
		return nil, nil
	}
	if s.clock.Now().Before(request.ExpiresAt) {
		return nil, nil
	}
	return s.resolve(game, request.CallerID, true)
}

// resolve closes the pending request and hands the frozen card to the winner
func (s *Service) resolve(game *model.Game, winnerID model.PlayerID, expired bool) (*Resolution, error) {
	request := game.MayI
	winner, err := game.Player(winnerID)
	if err != nil {
		return nil, err
	}

	card, ok := removeCard(&game.Discard, request.DiscardCard.ID)
	if !ok {
		// The frozen card vanished from the pile: a programming bug, not a
		// player error
		return nil, fmt.Errorf("frozen card %s missing from discard pile", request.DiscardCard.ID)
	}
	winner.AddToHand(card)

	request.State = model.MayIResolved
	request.WinnerID = winnerID

	s.logger.Info("may i resolved",
		slog.String("game_id", string(game.ID)),
		slog.String("caller_id", string(request.CallerID)),
		slog.String("winner_id", string(winnerID)),
		slog.Bool("expired", expired),
	)

	return &Resolution{
		RequestID: request.ID,
		CallerID:  request.CallerID,
		WinnerID:  winnerID,
		Expired:   expired,
	}, nil
}

// allNonCallersAllowed reports whether every player other than the caller
// has responded allow
func (s *Service) allNonCallersAllowed(game *model.Game, request *model.MayIRequest) bool {
	for i := range game.Players {
		id := game.Players[i].ID
		if id == request.CallerID {
			continue
		}
		if !request.HasResponded(id) {
			return false
		}
	}
	return true
}

// removeCard removes the card with the given id from a pile, wherever it sits
func removeCard(pile *[]model.Card, id model.CardID) (model.Card, bool) {
	for i, c := range *pile {
		if c.ID == id {
			card := c
			*pile = append((*pile)[:i], (*pile)[i+1:]...)
			return card, true
		}
	}
	return model.Card{}, false
}
