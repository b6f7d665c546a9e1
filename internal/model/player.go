package model

// PlayerID uniquely identifies a player across the system
type PlayerID string

// MayIBudgetPerRound is how many May-I uses each player gets per round
const MayIBudgetPerRound = 1

// PlayerState is a seat at the table. Hand order is meaningful: players
// arrange their own hands and the engine never reorders them behind their back.
type PlayerState struct {
	ID   PlayerID
	Hand []Card

	// IsDown is true once the player has laid down this round's contract.
	// Monotonic within a round; reset at round start.
	IsDown bool

	// LaidDownThisTurn is true on the turn the contract was laid down
	LaidDownThisTurn bool

	// MayIUsed counts May-I uses consumed this round
	MayIUsed int

	// TotalScore accumulates round scores across the game; never decreases
	TotalScore int
}

// HandSize returns the number of cards in hand
func (p *PlayerState) HandSize() int {
	return len(p.Hand)
}

// HasMayIBudget reports whether the player can still call or claim a May I
// this round
func (p *PlayerState) HasMayIBudget() bool {
	return p.MayIUsed < MayIBudgetPerRound
}

// CardInHand finds a card in the player's hand by id
func (p *PlayerState) CardInHand(id CardID) (Card, bool) {
	for _, c := range p.Hand {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// RemoveFromHand removes the card with the given id, preserving hand order.
// Returns false if the card is not in hand.
func (p *PlayerState) RemoveFromHand(id CardID) bool {
	for i, c := range p.Hand {
		if c.ID == id {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// AddToHand appends a card to the end of the hand
func (p *PlayerState) AddToHand(card Card) {
	p.Hand = append(p.Hand, card)
}

// Clone returns a deep copy of the player state
func (p *PlayerState) Clone() PlayerState {
	hand := make([]Card, len(p.Hand))
	copy(hand, p.Hand)
	return PlayerState{
		ID:               p.ID,
		Hand:             hand,
		IsDown:           p.IsDown,
		LaidDownThisTurn: p.LaidDownThisTurn,
		MayIUsed:         p.MayIUsed,
		TotalScore:       p.TotalScore,
	}
}
