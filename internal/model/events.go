package model

import "time"

// EventType identifies the type of engine event broadcast to clients
type EventType string

const (
	EventGameStarted   EventType = "game_started"
	EventCardDrawn     EventType = "card_drawn"
	EventLaidDown      EventType = "laid_down"
	EventLaidOff       EventType = "laid_off"
	EventJokerSwapped  EventType = "joker_swapped"
	EventCardDiscarded EventType = "card_discarded"
	EventHandReordered EventType = "hand_reordered"
	EventTurnComplete  EventType = "turn_complete"
	EventWentOut       EventType = "went_out"
	EventRoundComplete EventType = "round_complete"
	EventGameComplete  EventType = "game_complete"
	EventMayICalled    EventType = "may_i_called"
	EventMayIResponded EventType = "may_i_responded"
	EventMayIResolved  EventType = "may_i_resolved"
)

// Event is the base structure for all engine events
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	GameID    GameID    `json:"game_id"`
	// PlayerID is the player who triggered or is affected by the event
	PlayerID PlayerID `json:"player_id,omitempty"`
	Payload  any      `json:"payload,omitempty"`
}

// CardDrawnPayload describes a draw; the card itself is only visible to the
// drawing player's own view, so the payload carries the source, not the card.
type CardDrawnPayload struct {
	FromDiscard bool `json:"from_discard"`
	StockCount  int  `json:"stock_count"`
}

// LaidDownPayload describes a contract lay-down
type LaidDownPayload struct {
	MeldIDs []MeldID `json:"meld_ids"`
}

// LaidOffPayload describes a single lay-off
type LaidOffPayload struct {
	CardID CardID `json:"card_id"`
	MeldID MeldID `json:"meld_id"`
}

// TurnCompletePayload names the next player to act
type TurnCompletePayload struct {
	NextPlayerID PlayerID `json:"next_player_id"`
}

// RoundCompletePayload carries the appended round record
type RoundCompletePayload struct {
	Record      RoundRecord `json:"record"`
	NextRound   int         `json:"next_round"`
	DealerIndex int         `json:"dealer_index"`
}

// GameCompletePayload carries final standings
type GameCompletePayload struct {
	Winners []PlayerID       `json:"winners"`
	Totals  map[PlayerID]int `json:"totals"`
}

// MayIResolvedPayload describes how a May I request ended
type MayIResolvedPayload struct {
	RequestID MayIRequestID `json:"request_id"`
	CallerID  PlayerID      `json:"caller_id"`
	WinnerID  PlayerID      `json:"winner_id"`
	Expired   bool          `json:"expired"`
}
