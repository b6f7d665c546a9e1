package request

import (
	"fmt"

	"github.com/cardfold/mayi-go/internal/model"
)

// CreateGameRequest creates a new game
type CreateGameRequest struct {
	PlayerIDs []string `json:"player_ids"`
	// StartingRound is optional; zero means round 1
	StartingRound int `json:"starting_round,omitempty"`
}

// CommandRequest is the envelope for all player commands. Kind selects the
// command; the remaining fields are read per kind and ignored otherwise.
type CommandRequest struct {
	PlayerID string            `json:"player_id"`
	Kind     model.CommandKind `json:"kind"`

	// lay_down
	Melds []model.MeldSpec `json:"melds,omitempty"`

	// lay_off
	Placement *model.Placement `json:"placement,omitempty"`

	// go_out
	Placements []model.Placement `json:"placements,omitempty"`

	// swap_joker
	MeldID  model.MeldID `json:"meld_id,omitempty"`
	JokerID model.CardID `json:"joker_id,omitempty"`

	// swap_joker and discard
	CardID model.CardID `json:"card_id,omitempty"`

	// reorder_hand
	Order []model.CardID `json:"order,omitempty"`

	// respond_may_i
	Decision model.MayIDecision `json:"decision,omitempty"`
}

// ToCommand converts the envelope into the engine's command union
func (r *CommandRequest) ToCommand() (model.Command, error) {
	switch r.Kind {
	case model.CmdDrawFromStock:
		return model.DrawFromStockCommand{}, nil
	case model.CmdDrawFromDiscard:
		return model.DrawFromDiscardCommand{}, nil
	case model.CmdLayDown:
		if len(r.Melds) == 0 {
			return nil, fmt.Errorf("lay_down requires melds")
		}
		return model.LayDownCommand{Melds: r.Melds}, nil
	case model.CmdLayOff:
		if r.Placement == nil {
			return nil, fmt.Errorf("lay_off requires a placement")
		}
		return model.LayOffCommand{Placement: *r.Placement}, nil
	case model.CmdSwapJoker:
		if r.MeldID == "" || r.JokerID == "" || r.CardID == "" {
			return nil, fmt.Errorf("swap_joker requires meld_id, joker_id and card_id")
		}
		return model.SwapJokerCommand{MeldID: r.MeldID, JokerID: r.JokerID, CardID: r.CardID}, nil
	case model.CmdDiscard:
		if r.CardID == "" {
			return nil, fmt.Errorf("discard requires card_id")
		}
		return model.DiscardCommand{CardID: r.CardID}, nil
	case model.CmdGoOut:
		if len(r.Placements) == 0 {
			return nil, fmt.Errorf("go_out requires placements")
		}
		return model.GoOutCommand{Placements: r.Placements}, nil
	case model.CmdReorderHand:
		if len(r.Order) == 0 {
			return nil, fmt.Errorf("reorder_hand requires order")
		}
		return model.ReorderHandCommand{Order: r.Order}, nil
	case model.CmdCallMayI:
		return model.CallMayICommand{}, nil
	case model.CmdRespondMayI:
		if r.Decision != model.MayIAllow && r.Decision != model.MayIClaim {
			return nil, fmt.Errorf("respond_may_i requires decision allow or claim")
		}
		return model.RespondMayICommand{Decision: r.Decision}, nil
	default:
		return nil, fmt.Errorf("unknown command kind %q", r.Kind)
	}
}
