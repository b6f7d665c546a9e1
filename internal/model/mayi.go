package model

import "time"

// MayIRequestID uniquely identifies a May-I request
type MayIRequestID string

// MayIState is the lifecycle state of a May-I request
type MayIState string

const (
	MayIPending  MayIState = "pending"
	MayIResolved MayIState = "resolved"
)

// MayIDecision is a non-caller's response to a pending May-I request
type MayIDecision string

const (
	// MayIAllow lets the current winner take the card
	MayIAllow MayIDecision = "allow"
	// MayIClaim asserts the responder's own May I, out-ranking the caller
	MayIClaim MayIDecision = "claim"
)

// MayIResponse records one player's decision, in arrival order
type MayIResponse struct {
	PlayerID PlayerID
	Decision MayIDecision
	At       time.Time
}

// MayIRequest is a pending or resolved claim on the top discard card.
// While pending, the named card is frozen: it cannot be drawn normally.
// Expiry is a stored timestamp rather than a live timer; an external sweeper
// calls the engine's resolve-if-expired operation, which is idempotent.
type MayIRequest struct {
	ID          MayIRequestID
	CallerID    PlayerID
	DiscardCard Card
	State       MayIState
	// WinnerID is set on resolution: the caller, or the first claimant
	WinnerID  PlayerID
	Responses []MayIResponse
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsPending reports whether the request is still awaiting resolution
func (r *MayIRequest) IsPending() bool {
	return r != nil && r.State == MayIPending
}

// HasResponded reports whether the given player has already responded
func (r *MayIRequest) HasResponded(id PlayerID) bool {
	for _, resp := range r.Responses {
		if resp.PlayerID == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the request
func (r *MayIRequest) Clone() *MayIRequest {
	if r == nil {
		return nil
	}
	responses := make([]MayIResponse, len(r.Responses))
	copy(responses, r.Responses)
	cp := *r
	cp.Responses = responses
	return &cp
}
