package meld

import (
	"fmt"

	"github.com/cardfold/mayi-go/internal/model"
)

// Service validates meld composition and card placement. It is pure: every
// method takes the cards it judges and returns a verdict without touching
// game state, so callers can stage placements against a working copy and
// commit only when the whole transaction is legal.
type Service struct{}

// New creates a new meld Service
func New() *Service {
	return &Service{}
}

// Validate checks that the given cards form a legal meld of the given type.
// For runs the card order is the table order, low end first.
func (s *Service) Validate(meldType model.MeldType, cards []model.Card) error {
	switch meldType {
	case model.MeldSet:
		return s.ValidateSet(cards)
	case model.MeldRun:
		return s.ValidateRun(cards)
	default:
		return fmt.Errorf("%w: unknown meld type %q", model.ErrInvalidMeldComposition, meldType)
	}
}

// ValidateSet checks set legality: at least MinSetSize cards, every natural
// card sharing one rank, and at least one natural card. Suits are free and
// duplicates are fine (the table plays with multiple decks).
func (s *Service) ValidateSet(cards []model.Card) error {
	if len(cards) < model.MinSetSize {
		return fmt.Errorf("%w: a set needs at least %d cards, got %d",
			model.ErrInvalidMeldComposition, model.MinSetSize, len(cards))
	}
	rank, ok := SetRank(cards)
	if !ok {
		return fmt.Errorf("%w: a set cannot be all wild", model.ErrInvalidMeldComposition)
	}
	for _, c := range cards {
		if c.IsWild() {
			continue
		}
		if c.Rank != rank {
			return fmt.Errorf("%w: set mixes ranks %s and %s",
				model.ErrInvalidMeldComposition, rank, c.Rank)
		}
	}
	return nil
}

// ValidateRun checks run legality: at least MinRunSize cards in consecutive
// ascending rank order, all naturals sharing one suit, wilds filling gaps,
// at least one natural card, and no wrap past Ace or below 3.
func (s *Service) ValidateRun(cards []model.Card) error {
	if len(cards) < model.MinRunSize {
		return fmt.Errorf("%w: a run needs at least %d cards, got %d",
			model.ErrInvalidMeldComposition, model.MinRunSize, len(cards))
	}
	suit, ok := RunSuit(cards)
	if !ok {
		return fmt.Errorf("%w: a run cannot be all wild", model.ErrInvalidMeldComposition)
	}

	base, _ := runBaseOrder(cards)
	low := base
	high := base + len(cards) - 1
	if low < model.MinRunOrder || high > model.MaxRunOrder {
		return fmt.Errorf("%w: run spans %s to %s, outside the 3..Ace range",
			model.ErrInvalidMeldComposition,
			model.RankForRunOrder(low), model.RankForRunOrder(high))
	}

	for i, c := range cards {
		if c.IsWild() {
			continue
		}
		if c.Suit != suit {
			return fmt.Errorf("%w: run mixes suits %s and %s",
				model.ErrInvalidMeldComposition, suit, c.Suit)
		}
		if c.RunOrder() != base+i {
			return fmt.Errorf("%w: %s is out of sequence at position %d",
				model.ErrInvalidMeldComposition, c, i)
		}
	}
	return nil
}

// SetRank returns the rank the set's natural cards share. ok is false when
// the cards are all wild, which is never a legal set.
func SetRank(cards []model.Card) (model.Rank, bool) {
	for _, c := range cards {
		if !c.IsWild() {
			return c.Rank, true
		}
	}
	return "", false
}

// RunSuit returns the suit the run's natural cards share. ok is false when
// the cards are all wild, which is never a legal run.
func RunSuit(cards []model.Card) (model.Suit, bool) {
	for _, c := range cards {
		if !c.IsWild() {
			return c.Suit, true
		}
	}
	return "", false
}

// runBaseOrder returns the run order implied for position 0. Every card in a
// valid run, wild or natural, stands for the rank base+index.
func runBaseOrder(cards []model.Card) (int, bool) {
	for i, c := range cards {
		if !c.IsWild() {
			return c.RunOrder() - i, true
		}
	}
	return 0, false
}

// ImpliedCard returns the rank and suit the card at the given run position
// stands in for. For a natural card this is the card itself; for a wild it
// is the gap it fills.
func (s *Service) ImpliedCard(run []model.Card, index int) (model.Rank, model.Suit, error) {
	if index < 0 || index >= len(run) {
		return "", "", fmt.Errorf("%w: position %d outside run of %d cards",
			model.ErrCardNotEligible, index, len(run))
	}
	suit, ok := RunSuit(run)
	if !ok {
		return "", "", fmt.Errorf("%w: run is all wild", model.ErrInvalidMeldComposition)
	}
	base, _ := runBaseOrder(run)
	return model.RankForRunOrder(base + index), suit, nil
}

// RunInsertion reports where the card may extend the run: low end, high end,
// or neither. A wild card can be legal at both ends at once, in which case
// the caller gets ErrPositionChoiceRequired and must ask the player; that is
// a prompt signal, not a rejection.
func (s *Service) RunInsertion(run []model.Card, card model.Card) (model.RunPosition, error) {
	lowOK := s.fitsRunEnd(run, card, model.PositionLow)
	highOK := s.fitsRunEnd(run, card, model.PositionHigh)

	switch {
	case lowOK && highOK:
		return model.PositionAuto, model.ErrPositionChoiceRequired
	case lowOK:
		return model.PositionLow, nil
	case highOK:
		return model.PositionHigh, nil
	default:
		return model.PositionAuto, fmt.Errorf("%w: %s does not fit either end of the run",
			model.ErrCardNotEligible, card)
	}
}

// ResolvePosition turns a player's requested position (possibly auto) into a
// concrete end. Auto succeeds only when exactly one end is legal; an explicit
// position must itself be legal.
func (s *Service) ResolvePosition(run []model.Card, card model.Card, requested model.RunPosition) (model.RunPosition, error) {
	switch requested {
	case model.PositionAuto:
		return s.RunInsertion(run, card)
	case model.PositionLow, model.PositionHigh:
		if !s.fitsRunEnd(run, card, requested) {
			return model.PositionAuto, fmt.Errorf("%w: %s does not fit the %s end",
				model.ErrCardNotEligible, card, requested)
		}
		return requested, nil
	default:
		return model.PositionAuto, fmt.Errorf("%w: unknown position %q",
			model.ErrCardNotEligible, requested)
	}
}

// fitsRunEnd reports whether the card may extend the given end of the run
func (s *Service) fitsRunEnd(run []model.Card, card model.Card, pos model.RunPosition) bool {
	base, ok := runBaseOrder(run)
	if !ok {
		return false
	}

	var needOrder int
	switch pos {
	case model.PositionLow:
		needOrder = base - 1
	case model.PositionHigh:
		needOrder = base + len(run)
	default:
		return false
	}
	if needOrder < model.MinRunOrder || needOrder > model.MaxRunOrder {
		return false
	}
	if card.IsWild() {
		return true
	}
	suit, _ := RunSuit(run)
	return card.Suit == suit && card.RunOrder() == needOrder
}

// ExtendRun returns a new card sequence with the card placed at the given
// end. The position must already be resolved and legal.
func (s *Service) ExtendRun(run []model.Card, card model.Card, pos model.RunPosition) []model.Card {
	out := make([]model.Card, 0, len(run)+1)
	if pos == model.PositionLow {
		out = append(out, card)
		out = append(out, run...)
		return out
	}
	out = append(out, run...)
	out = append(out, card)
	return out
}

// FitsSet reports whether the card may be added to a set: any wild, or a
// natural of the set's rank.
func (s *Service) FitsSet(set []model.Card, card model.Card) bool {
	rank, ok := SetRank(set)
	if !ok {
		return false
	}
	return card.IsWild() || card.Rank == rank
}

// SwapJoker validates replacing a joker inside a run with a natural card and
// returns the run's new card sequence plus the freed joker. The candidate
// must exactly match the rank and suit the joker stands in for; rank-2 wilds
// are not swappable, only jokers.
func (s *Service) SwapJoker(run []model.Card, jokerID model.CardID, candidate model.Card) ([]model.Card, model.Card, error) {
	idx := -1
	for i, c := range run {
		if c.ID == jokerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, model.Card{}, fmt.Errorf("%w: card %s is not in this meld",
			model.ErrCardNotEligible, jokerID)
	}
	joker := run[idx]
	if !joker.IsJoker() {
		return nil, model.Card{}, fmt.Errorf("%w: %s is not a joker",
			model.ErrCardNotEligible, joker)
	}

	rank, suit, err := s.ImpliedCard(run, idx)
	if err != nil {
		return nil, model.Card{}, err
	}
	if candidate.IsWild() || candidate.Rank != rank || candidate.Suit != suit {
		return nil, model.Card{}, fmt.Errorf("%w: joker stands in for %s of %s, got %s",
			model.ErrJokerSwapMismatch, rank, suit, candidate)
	}

	out := make([]model.Card, len(run))
	copy(out, run)
	out[idx] = candidate
	return out, joker, nil
}
