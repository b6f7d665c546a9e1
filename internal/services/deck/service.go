package deck

import (
	"fmt"

	"github.com/cardfold/mayi-go/internal/dependencies/random"
	"github.com/cardfold/mayi-go/internal/model"
)

// Service builds, shuffles and deals decks. Randomness is injected so tests
// can produce deterministic deals.
type Service struct {
	random random.Random
}

// New creates a new deck Service
func New(random random.Random) *Service {
	return &Service{
		random: random,
	}
}

// NewShuffledDeck builds and shuffles a full deck for the given table size
func (s *Service) NewShuffledDeck(playerCount int) ([]model.Card, error) {
	deck, err := model.BuildDeck(playerCount)
	if err != nil {
		return nil, err
	}
	s.Shuffle(deck)
	return deck, nil
}

// Shuffle permutes the deck in place
func (s *Service) Shuffle(deck []model.Card) {
	s.random.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// Deal splits a shuffled deck into per-seat hands, an opening discard and the
// remaining stock. Cards are dealt one at a time round-robin from the top of
// the deck (the end of the slice); the stock keeps the same top-is-last
// convention.
type Deal struct {
	Hands   [][]model.Card
	Discard []model.Card
	Stock   []model.Card
}

// Deal deals CardsPerHand cards to each of playerCount seats and flips one
// card to open the discard pile.
func (s *Service) Deal(deck []model.Card, playerCount int) (*Deal, error) {
	if playerCount < model.MinPlayers || playerCount > model.MaxPlayers {
		return nil, fmt.Errorf("%w: %d", model.ErrInvalidPlayerCount, playerCount)
	}
	needed := playerCount*model.CardsPerHand + 1
	if len(deck) < needed {
		return nil, fmt.Errorf("deck of %d cards cannot deal %d seats", len(deck), playerCount)
	}

	// Work on a copy so the caller's deck is untouched
	stock := make([]model.Card, len(deck))
	copy(stock, deck)

	pop := func() model.Card {
		top := stock[len(stock)-1]
		stock = stock[:len(stock)-1]
		return top
	}

	hands := make([][]model.Card, playerCount)
	for i := range hands {
		hands[i] = make([]model.Card, 0, model.CardsPerHand)
	}
	for round := 0; round < model.CardsPerHand; round++ {
		for seat := 0; seat < playerCount; seat++ {
			hands[seat] = append(hands[seat], pop())
		}
	}

	discard := []model.Card{pop()}

	return &Deal{
		Hands:   hands,
		Discard: discard,
		Stock:   stock,
	}, nil
}
