package model

// MeldID uniquely identifies a meld on the table
type MeldID string

// MeldType distinguishes sets from runs
type MeldType string

const (
	MeldSet MeldType = "set"
	MeldRun MeldType = "run"
)

// Meld is a laid-down group of cards on the table. Ownership is retained so
// scoring and views can attribute melds, but any down player may lay off onto
// any meld. For runs the card order is meaningful: Cards[0] is the low end.
type Meld struct {
	ID      MeldID   `json:"id"`
	Type    MeldType `json:"type"`
	OwnerID PlayerID `json:"owner_id"`
	Cards   []Card   `json:"cards"`
}

// CardIDs returns the ids of the meld's cards in order
func (m *Meld) CardIDs() []CardID {
	ids := make([]CardID, len(m.Cards))
	for i, c := range m.Cards {
		ids[i] = c.ID
	}
	return ids
}

// Clone returns a deep copy of the meld
func (m *Meld) Clone() Meld {
	cards := make([]Card, len(m.Cards))
	copy(cards, m.Cards)
	return Meld{
		ID:      m.ID,
		Type:    m.Type,
		OwnerID: m.OwnerID,
		Cards:   cards,
	}
}

// RunPosition identifies which end of a run a card is added to
type RunPosition string

const (
	// PositionAuto lets the validator infer the end when only one is legal
	PositionAuto RunPosition = ""
	PositionLow  RunPosition = "low"
	PositionHigh RunPosition = "high"
)
