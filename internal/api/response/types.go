package response

import (
	"time"

	"github.com/cardfold/mayi-go/internal/model"
	"github.com/cardfold/mayi-go/internal/services/view"
)

// PlayerResponse is the public summary of one seat: hand size, not hand
type PlayerResponse struct {
	ID            model.PlayerID `json:"id"`
	HandSize      int            `json:"hand_size"`
	IsDown        bool           `json:"is_down"`
	TotalScore    int            `json:"total_score"`
	MayIRemaining int            `json:"may_i_remaining"`
}

// GameResponse is the public state of a game, safe for any observer
type GameResponse struct {
	ID              model.GameID        `json:"id"`
	State           model.GameState     `json:"state"`
	RoundNumber     int                 `json:"round_number"`
	Contract        model.Contract      `json:"contract"`
	Phase           model.TurnPhase     `json:"phase"`
	Players         []PlayerResponse    `json:"players"`
	Melds           []model.Meld        `json:"melds"`
	StockCount      int                 `json:"stock_count"`
	DiscardCount    int                 `json:"discard_count"`
	TopDiscard      *model.Card         `json:"top_discard,omitempty"`
	CurrentPlayerID model.PlayerID      `json:"current_player_id"`
	DealerID        model.PlayerID      `json:"dealer_id"`
	MayIPending     bool                `json:"may_i_pending"`
	RoundRecords    []model.RoundRecord `json:"round_records"`
	Winners         []model.PlayerID    `json:"winners,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// GameFromModel projects the public summary of a game
func GameFromModel(g *model.Game) GameResponse {
	players := make([]PlayerResponse, len(g.Players))
	for i, p := range g.Players {
		players[i] = PlayerResponse{
			ID:            p.ID,
			HandSize:      p.HandSize(),
			IsDown:        p.IsDown,
			TotalScore:    p.TotalScore,
			MayIRemaining: model.MayIBudgetPerRound - p.MayIUsed,
		}
	}

	resp := GameResponse{
		ID:           g.ID,
		State:        g.State,
		RoundNumber:  g.RoundNumber,
		Contract:     g.Contract(),
		Phase:        g.Phase,
		Players:      players,
		Melds:        g.Melds,
		StockCount:   len(g.Stock),
		DiscardCount: len(g.Discard),
		MayIPending:  g.MayI.IsPending(),
		RoundRecords: g.RoundRecords,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}

	if top, ok := g.TopDiscard(); ok {
		resp.TopDiscard = &top
	}
	if cp := g.CurrentPlayer(); cp != nil {
		resp.CurrentPlayerID = cp.ID
	}
	if g.DealerIndex >= 0 && g.DealerIndex < len(g.Players) {
		resp.DealerID = g.Players[g.DealerIndex].ID
	}
	if g.State == model.GameStateEnded {
		resp.Winners = g.Winners()
	}

	return resp
}

// CommandResponse is returned after a successful command: the events it
// produced plus the acting player's refreshed view
type CommandResponse struct {
	Events []model.Event    `json:"events"`
	View   *view.PlayerView `json:"view"`
}
