package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Player count limits for a table
const (
	MinPlayers = 2
	MaxPlayers = 8
)

// CardsPerHand is the deal size for every round
const CardsPerHand = 11

// JokersPerDeck is the number of jokers shuffled into each 52-card deck
const JokersPerDeck = 2

// DeckCount returns how many standard decks are used for the given table size.
// Larger tables need a third deck to keep the stock from running dry.
func DeckCount(playerCount int) int {
	if playerCount >= 5 {
		return 3
	}
	return 2
}

// DeckSize returns the total card count for the given table size
func DeckSize(playerCount int) int {
	return DeckCount(playerCount) * (52 + JokersPerDeck)
}

// BuildDeck constructs an unshuffled deck sized for the table. Every card gets
// a fresh unique id so duplicate rank+suit copies stay distinguishable.
func BuildDeck(playerCount int) ([]Card, error) {
	if playerCount < MinPlayers || playerCount > MaxPlayers {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPlayerCount, playerCount)
	}

	decks := DeckCount(playerCount)
	cards := make([]Card, 0, DeckSize(playerCount))
	for d := 0; d < decks; d++ {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				cards = append(cards, Card{
					ID:   CardID(uuid.New().String()),
					Rank: rank,
					Suit: suit,
				})
			}
		}
		for j := 0; j < JokersPerDeck; j++ {
			cards = append(cards, Card{
				ID:   CardID(uuid.New().String()),
				Rank: RankJoker,
				Suit: SuitNone,
			})
		}
	}
	return cards, nil
}
