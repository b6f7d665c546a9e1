package model

// Round numbering: the game is always played over rounds 1 through 6
const (
	FirstRound = 1
	FinalRound = 6
)

// Meld size minimums
const (
	MinSetSize = 3
	MinRunSize = 4
)

// Contract is the meld composition a player must lay down in a given round
// before any lay-offs are permitted.
type Contract struct {
	Sets int `json:"sets"`
	Runs int `json:"runs"`
}

// contracts indexes the per-round contract by round number. The round-6
// contract (1 set + 2 runs) consumes the entire 11-card deal, which is why
// round 6 can only be won by laying off, never by discarding the last card.
var contracts = map[int]Contract{
	1: {Sets: 2, Runs: 0},
	2: {Sets: 1, Runs: 1},
	3: {Sets: 0, Runs: 2},
	4: {Sets: 3, Runs: 0},
	5: {Sets: 2, Runs: 1},
	6: {Sets: 1, Runs: 2},
}

// ContractForRound returns the contract for the given round number
func ContractForRound(round int) (Contract, error) {
	c, ok := contracts[round]
	if !ok {
		return Contract{}, ErrInvalidRound
	}
	return c, nil
}

// MinCards returns the fewest cards that can satisfy the contract
func (c Contract) MinCards() int {
	return c.Sets*MinSetSize + c.Runs*MinRunSize
}

// RoundRecord is the immutable audit record of one completed round.
// Records are appended and never mutated; total scores are always derivable
// by summing a player's entries across records.
type RoundRecord struct {
	RoundNumber int              `json:"round_number"`
	Scores      map[PlayerID]int `json:"scores"`
	WinnerID    PlayerID         `json:"winner_id"`
}

// Clone returns a deep copy of the record
func (r RoundRecord) Clone() RoundRecord {
	scores := make(map[PlayerID]int, len(r.Scores))
	for id, s := range r.Scores {
		scores[id] = s
	}
	return RoundRecord{
		RoundNumber: r.RoundNumber,
		Scores:      scores,
		WinnerID:    r.WinnerID,
	}
}
