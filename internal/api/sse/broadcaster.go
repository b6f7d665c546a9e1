package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/cardfold/mayi-go/internal/model"
)

// Broadcaster fans engine events out to the SSE clients of a game.
// Events carry no hidden information (a draw names the source, not the card),
// so a single broadcast per game is safe for every seat.
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// BroadcastEvents sends each event to the clients of its game. The SSE event
// name is the engine event type; the data is the event as JSON.
func (b *Broadcaster) BroadcastEvents(events []model.Event) {
	for _, event := range events {
		b.BroadcastEvent(event)
	}
}

// BroadcastEvent sends a single engine event
func (b *Broadcaster) BroadcastEvent(event model.Event) {
	hub := b.hubManager.GetHub(event.GameID)
	if hub == nil {
		// Nobody is listening to this game
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("sse failed to marshal event",
			slog.String("game_id", string(event.GameID)),
			slog.String("event_type", string(event.Type)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(string(event.Type), string(data))
}
