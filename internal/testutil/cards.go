package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/cardfold/mayi-go/internal/model"
)

var cardSeq atomic.Int64

// NewCard builds a card with a fresh unique id
func NewCard(rank model.Rank, suit model.Suit) model.Card {
	return model.Card{
		ID:   model.CardID(fmt.Sprintf("tc-%d", cardSeq.Add(1))),
		Rank: rank,
		Suit: suit,
	}
}

// Joker builds a joker with a fresh unique id
func Joker() model.Card {
	return NewCard(model.RankJoker, model.SuitNone)
}

// ParseCard builds a card from shorthand like "qh" (queen of hearts),
// "10s" (ten of spades), "2d" (two of diamonds) or "x" (joker).
// Panics on malformed input; it is for test fixtures only.
func ParseCard(spec string) model.Card {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "x" {
		return Joker()
	}
	if len(s) < 2 {
		panic(fmt.Sprintf("bad card spec %q", spec))
	}

	var suit model.Suit
	switch s[len(s)-1] {
	case 'h':
		suit = model.SuitHearts
	case 'd':
		suit = model.SuitDiamonds
	case 'c':
		suit = model.SuitClubs
	case 's':
		suit = model.SuitSpades
	default:
		panic(fmt.Sprintf("bad suit in card spec %q", spec))
	}

	var rank model.Rank
	switch s[:len(s)-1] {
	case "2", "3", "4", "5", "6", "7", "8", "9", "10":
		rank = model.Rank(s[:len(s)-1])
	case "j":
		rank = model.RankJack
	case "q":
		rank = model.RankQueen
	case "k":
		rank = model.RankKing
	case "a":
		rank = model.RankAce
	default:
		panic(fmt.Sprintf("bad rank in card spec %q", spec))
	}

	return NewCard(rank, suit)
}

// ParseCards builds cards from space-separated shorthand, e.g. "3h 4h 5h x 7h"
func ParseCards(specs string) []model.Card {
	fields := strings.Fields(specs)
	cards := make([]model.Card, 0, len(fields))
	for _, f := range fields {
		cards = append(cards, ParseCard(f))
	}
	return cards
}

// CardIDs extracts the ids of the given cards in order
func CardIDs(cards []model.Card) []model.CardID {
	ids := make([]model.CardID, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}
