package turn

import (
	"fmt"
	"log/slog"

	"github.com/cardfold/mayi-go/internal/model"
	"github.com/cardfold/mayi-go/internal/services/meld"
	"github.com/google/uuid"
)

// Service is the per-turn rules engine. Every method mutates the game it is
// handed; callers pass a clone and persist it only when the method succeeds,
// so a rejected command never leaves a trace. The service itself holds no
// state between calls.
type Service struct {
	meld   *meld.Service
	logger *slog.Logger
}

// New creates a new turn Service
func New(meldService *meld.Service, logger *slog.Logger) *Service {
	return &Service{
		meld:   meldService,
		logger: logger,
	}
}

// Outcome reports how a command left the turn
type Outcome struct {
	// WentOut is true when the acting player's hand reached zero, ending the round
	WentOut bool
	// TurnEnded is true when play advanced to the next seat
	TurnEnded bool
	// FromDiscard marks a draw's source for event reporting
	FromDiscard bool
}

// DrawFromStock draws the top stock card into the current player's hand
func (s *Service) DrawFromStock(game *model.Game, playerID model.PlayerID) (*Outcome, error) {
	player, err := s.requireTurn(game, playerID, model.PhaseAwaitingDraw)
	if err != nil {
		return nil, err
	}

	card, ok := game.PopStock()
	if !ok {
		return nil, model.ErrStockEmpty
	}
	player.AddToHand(card)
	game.Phase = model.PhaseDrawn
	game.HasDrawn = true

	return &Outcome{}, nil
}

// DrawFromDiscard draws the top discard card into the current player's hand.
// Rejected while a pending May I has the card frozen.
func (s *Service) DrawFromDiscard(game *model.Game, playerID model.PlayerID) (*Outcome, error) {
	player, err := s.requireTurn(game, playerID, model.PhaseAwaitingDraw)
	if err != nil {
		return nil, err
	}

	if len(game.Discard) == 0 {
		return nil, model.ErrDiscardEmpty
	}
	if game.DiscardFrozen() {
		return nil, model.ErrDiscardFrozen
	}

	card, _ := game.PopDiscard()
	player.AddToHand(card)
	game.Phase = model.PhaseDrawn
	game.HasDrawn = true

	return &Outcome{FromDiscard: true}, nil
}

// LayDown places the round's full contract from hand onto the table. Legal
// once per round per player; the proposed melds must match the contract's
// set/run counts exactly, though individual melds may exceed the minimum
// sizes.
func (s *Service) LayDown(game *model.Game, playerID model.PlayerID, specs []model.MeldSpec) (*Outcome, error) {
	player, err := s.requireTurn(game, playerID, model.PhaseDrawn)
	if err != nil {
		return nil, err
	}
	if player.IsDown {
		return nil, model.ErrAlreadyDown
	}

	contract := game.Contract()
	sets, runs := 0, 0
	for _, spec := range specs {
		switch spec.Type {
		case model.MeldSet:
			sets++
		case model.MeldRun:
			runs++
		default:
			return nil, fmt.Errorf("%w: unknown meld type %q", model.ErrInvalidMeldComposition, spec.Type)
		}
	}
	if sets != contract.Sets || runs != contract.Runs {
		return nil, fmt.Errorf("%w: round %d needs %d sets and %d runs, got %d and %d",
			model.ErrContractNotMet, game.RoundNumber, contract.Sets, contract.Runs, sets, runs)
	}

	// Resolve every card id against the hand, refusing reuse across melds
	used := make(map[model.CardID]bool)
	melds := make([]model.Meld, 0, len(specs))
	for _, spec := range specs {
		cards := make([]model.Card, 0, len(spec.CardIDs))
		for _, id := range spec.CardIDs {
			if used[id] {
				return nil, fmt.Errorf("%w: card %s used twice", model.ErrInvalidMeldComposition, id)
			}
			card, ok := player.CardInHand(id)
			if !ok {
				return nil, fmt.Errorf("%w: %s", model.ErrCardNotInHand, id)
			}
			used[id] = true
			cards = append(cards, card)
		}
		if err := s.meld.Validate(spec.Type, cards); err != nil {
			return nil, err
		}
		melds = append(melds, model.Meld{
			ID:      model.MeldID(uuid.New().String()),
			Type:    spec.Type,
			OwnerID: playerID,
			Cards:   cards,
		})
	}

	for id := range used {
		player.RemoveFromHand(id)
	}
	game.Melds = append(game.Melds, melds...)
	player.IsDown = true
	player.LaidDownThisTurn = true

	s.logger.Debug("contract laid down",
		slog.String("game_id", string(game.ID)),
		slog.String("player_id", string(playerID)),
		slog.Int("round", game.RoundNumber),
	)

	return s.afterHandChange(game, player), nil
}

// LayOff adds one card from hand to an existing meld. Repeatable within a
// turn; requires the player to be down.
func (s *Service) LayOff(game *model.Game, playerID model.PlayerID, placement model.Placement) (*Outcome, error) {
	player, err := s.requireTurn(game, playerID, model.PhaseDrawn)
	if err != nil {
		return nil, err
	}
	if !player.IsDown {
		return nil, model.ErrNotDown
	}

	card, ok := player.CardInHand(placement.CardID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrCardNotInHand, placement.CardID)
	}
	target, err := game.Meld(placement.MeldID)
	if err != nil {
		return nil, err
	}

	extended, err := s.placeOnMeld(target.Type, target.Cards, card, placement.Position)
	if err != nil {
		return nil, err
	}

	target.Cards = extended
	player.RemoveFromHand(card.ID)

	return s.afterHandChange(game, player), nil
}

// SwapJoker trades a natural card from hand for a joker in a run the player
// can see on the table. The joker returns to the player's hand.
func (s *Service) SwapJoker(game *model.Game, playerID model.PlayerID, cmd model.SwapJokerCommand) (*Outcome, error) {
	player, err := s.requireTurn(game, playerID, model.PhaseDrawn)
	if err != nil {
		return nil, err
	}
	if !player.IsDown {
		return nil, model.ErrNotDown
	}

	candidate, ok := player.CardInHand(cmd.CardID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrCardNotInHand, cmd.CardID)
	}
	target, err := game.Meld(cmd.MeldID)
	if err != nil {
		return nil, err
	}
	if target.Type != model.MeldRun {
		return nil, fmt.Errorf("%w: jokers are only swappable out of runs", model.ErrCardNotEligible)
	}

	cards, joker, err := s.meld.SwapJoker(target.Cards, cmd.JokerID, candidate)
	if err != nil {
		return nil, err
	}

	target.Cards = cards
	player.RemoveFromHand(candidate.ID)
	player.AddToHand(joker)

	return &Outcome{}, nil
}

// Discard places one card on the discard pile and ends the turn. In the final
// round the last card may never be discarded; the round has to end with a
// lay-off instead.
func (s *Service) Discard(game *model.Game, playerID model.PlayerID, cardID model.CardID) (*Outcome, error) {
	player, err := s.requireTurn(game, playerID, model.PhaseDrawn)
	if err != nil {
		return nil, err
	}

	card, ok := player.CardInHand(cardID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrCardNotInHand, cardID)
	}
	if game.RoundNumber == model.FinalRound && player.HandSize() == 1 {
		return nil, fmt.Errorf("%w: round %d ends by laying off, not by discarding the last card",
			model.ErrHandNotEmptyForGoOut, model.FinalRound)
	}

	player.RemoveFromHand(card.ID)
	game.Discard = append(game.Discard, card)

	if player.HandSize() == 0 {
		return &Outcome{WentOut: true}, nil
	}

	s.advanceTurn(game, player)
	return &Outcome{TurnEnded: true}, nil
}

// GoOut lays off every remaining hand card in one atomic batch. The batch is
// validated in full against the effective melds before anything is mutated.
func (s *Service) GoOut(game *model.Game, playerID model.PlayerID, placements []model.Placement) (*Outcome, error) {
	player, err := s.requireTurn(game, playerID, model.PhaseDrawn)
	if err != nil {
		return nil, err
	}
	if !player.IsDown {
		return nil, model.ErrNotDown
	}
	if len(placements) != player.HandSize() {
		return nil, fmt.Errorf("%w: %d placements for %d cards in hand",
			model.ErrHandNotEmptyForGoOut, len(placements), player.HandSize())
	}

	// Stage every placement against working copies so legality is judged
	// against the effective melds, then commit all-or-nothing.
	staged := make(map[model.MeldID][]model.Card)
	usedCards := make(map[model.CardID]bool)
	for _, p := range placements {
		if usedCards[p.CardID] {
			return nil, fmt.Errorf("%w: card %s placed twice", model.ErrHandNotEmptyForGoOut, p.CardID)
		}
		card, ok := player.CardInHand(p.CardID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrCardNotInHand, p.CardID)
		}
		target, err := game.Meld(p.MeldID)
		if err != nil {
			return nil, err
		}
		working, ok := staged[p.MeldID]
		if !ok {
			working = target.Cards
		}

		extended, err := s.placeOnMeld(target.Type, working, card, p.Position)
		if err != nil {
			return nil, err
		}
		staged[p.MeldID] = extended
		usedCards[p.CardID] = true
	}

	for meldID, cards := range staged {
		target, _ := game.Meld(meldID)
		target.Cards = cards
	}
	for cardID := range usedCards {
		player.RemoveFromHand(cardID)
	}

	return &Outcome{WentOut: true}, nil
}

// ReorderHand rearranges the player's own hand. Legal for any player at any
// point in the round; the new order must be a permutation of the hand.
func (s *Service) ReorderHand(game *model.Game, playerID model.PlayerID, order []model.CardID) (*Outcome, error) {
	if game.State == model.GameStateEnded {
		return nil, model.ErrGameEnded
	}
	player, err := game.Player(playerID)
	if err != nil {
		return nil, err
	}
	if len(order) != player.HandSize() {
		return nil, model.ErrInvalidHandOrder
	}

	byID := make(map[model.CardID]model.Card, player.HandSize())
	for _, c := range player.Hand {
		byID[c.ID] = c
	}
	reordered := make([]model.Card, 0, len(order))
	for _, id := range order {
		card, ok := byID[id]
		if !ok {
			return nil, model.ErrInvalidHandOrder
		}
		delete(byID, id)
		reordered = append(reordered, card)
	}

	player.Hand = reordered
	return &Outcome{}, nil
}

// placeOnMeld validates a single card against a meld's (possibly staged)
// cards and returns the extended sequence
func (s *Service) placeOnMeld(meldType model.MeldType, cards []model.Card, card model.Card, pos model.RunPosition) ([]model.Card, error) {
	switch meldType {
	case model.MeldSet:
		if !s.meld.FitsSet(cards, card) {
			return nil, fmt.Errorf("%w: %s does not fit the set", model.ErrCardNotEligible, card)
		}
		out := make([]model.Card, 0, len(cards)+1)
		out = append(out, cards...)
		out = append(out, card)
		return out, nil
	case model.MeldRun:
		resolved, err := s.meld.ResolvePosition(cards, card, pos)
		if err != nil {
			return nil, err
		}
		return s.meld.ExtendRun(cards, card, resolved), nil
	default:
		return nil, fmt.Errorf("%w: unknown meld type %q", model.ErrInvalidMeldComposition, meldType)
	}
}

// afterHandChange re-checks the went-out condition after cards left the hand
func (s *Service) afterHandChange(game *model.Game, player *model.PlayerState) *Outcome {
	if player.HandSize() == 0 {
		return &Outcome{WentOut: true}
	}
	return &Outcome{}
}

// advanceTurn hands play to the next seat
func (s *Service) advanceTurn(game *model.Game, player *model.PlayerState) {
	player.LaidDownThisTurn = false
	game.CurrentPlayerIndex = (game.CurrentPlayerIndex + 1) % game.PlayerCount()
	game.Phase = model.PhaseAwaitingDraw
	game.HasDrawn = false
}

// requireTurn runs the guards shared by every turn-scoped command
func (s *Service) requireTurn(game *model.Game, playerID model.PlayerID, phase model.TurnPhase) (*model.PlayerState, error) {
	if game.State == model.GameStateEnded {
		return nil, model.ErrGameEnded
	}
	player, err := game.Player(playerID)
	if err != nil {
		return nil, err
	}
	if !game.IsCurrentPlayer(playerID) {
		return nil, model.ErrNotYourTurn
	}
	if game.Phase != phase {
		return nil, fmt.Errorf("%w: phase is %s", model.ErrIllegalCommandForPhase, game.Phase)
	}
	return player, nil
}
