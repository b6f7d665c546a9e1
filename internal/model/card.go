package model

import "fmt"

// CardID uniquely identifies a single physical card within a game.
// Multiple decks are in play, so rank+suit alone is not an identity.
type CardID string

// Rank is a card rank. Two is always wild; Joker has no suit.
type Rank string

const (
	RankTwo   Rank = "2"
	RankThree Rank = "3"
	RankFour  Rank = "4"
	RankFive  Rank = "5"
	RankSix   Rank = "6"
	RankSeven Rank = "7"
	RankEight Rank = "8"
	RankNine  Rank = "9"
	RankTen   Rank = "10"
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
	RankAce   Rank = "A"
	RankJoker Rank = "Joker"
)

// Suit is a card suit. Jokers carry SuitNone.
type Suit string

const (
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
	SuitNone     Suit = ""
)

// Suits lists the four real suits in deck-building order.
var Suits = []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// Ranks lists every suited rank in deck-building order (Joker excluded).
var Ranks = []Rank{
	RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
	RankEight, RankNine, RankTen, RankJack, RankQueen, RankKing, RankAce,
}

// Card is an immutable card value
type Card struct {
	ID   CardID `json:"id"`
	Rank Rank   `json:"rank"`
	Suit Suit   `json:"suit,omitempty"`
}

// IsWild returns true for twos and jokers
func (c Card) IsWild() bool {
	return c.Rank == RankTwo || c.Rank == RankJoker
}

// IsJoker returns true for jokers
func (c Card) IsJoker() bool {
	return c.Rank == RankJoker
}

// PointValue returns the card's scoring value when left in a hand at round end
func (c Card) PointValue() int {
	switch c.Rank {
	case RankJoker:
		return 50
	case RankAce:
		return 15
	case RankKing, RankQueen, RankJack, RankTen:
		return 10
	case RankNine:
		return 9
	case RankEight:
		return 8
	case RankSeven:
		return 7
	case RankSix:
		return 6
	case RankFive:
		return 5
	case RankFour:
		return 4
	case RankThree:
		return 3
	case RankTwo:
		return 2
	}
	return 0
}

// Run ordering bounds: runs start no lower than Three and Ace is high-only,
// so there is no wrap from Ace back to Two.
const (
	MinRunOrder = 3
	MaxRunOrder = 14
)

// RunOrder returns the rank's position in run ordering (Three=3 .. Ace=14).
// Twos and jokers are wild and have no natural run position; they return 0.
func (c Card) RunOrder() int {
	return runOrder(c.Rank)
}

func runOrder(r Rank) int {
	switch r {
	case RankThree:
		return 3
	case RankFour:
		return 4
	case RankFive:
		return 5
	case RankSix:
		return 6
	case RankSeven:
		return 7
	case RankEight:
		return 8
	case RankNine:
		return 9
	case RankTen:
		return 10
	case RankJack:
		return 11
	case RankQueen:
		return 12
	case RankKing:
		return 13
	case RankAce:
		return 14
	}
	return 0
}

// RankForRunOrder is the inverse of RunOrder; returns "" for values outside 3..14
func RankForRunOrder(order int) Rank {
	switch order {
	case 3:
		return RankThree
	case 4:
		return RankFour
	case 5:
		return RankFive
	case 6:
		return RankSix
	case 7:
		return RankSeven
	case 8:
		return RankEight
	case 9:
		return RankNine
	case 10:
		return RankTen
	case 11:
		return RankJack
	case 12:
		return RankQueen
	case 13:
		return RankKing
	case 14:
		return RankAce
	}
	return ""
}

// String returns a human-readable form like "Q of hearts" or "Joker"
func (c Card) String() string {
	if c.Rank == RankJoker {
		return "Joker"
	}
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// Validate checks that the card is a well-formed member of the deck
func (c Card) Validate() error {
	if c.ID == "" {
		return ErrMalformedCard
	}
	if c.Rank == RankJoker {
		if c.Suit != SuitNone {
			return ErrMalformedCard
		}
		return nil
	}
	if runOrder(c.Rank) == 0 && c.Rank != RankTwo {
		return ErrMalformedCard
	}
	switch c.Suit {
	case SuitHearts, SuitDiamonds, SuitClubs, SuitSpades:
		return nil
	}
	return ErrMalformedCard
}

// HandPoints sums the point values of a group of cards
func HandPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.PointValue()
	}
	return total
}
