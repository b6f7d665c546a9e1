package view

import (
	"time"

	"github.com/cardfold/mayi-go/internal/model"
)

// Service projects canonical game state into what one player is allowed to
// see, plus the actions currently open to them. It never mutates anything.
type Service struct{}

// New creates a new view Service
func New() *Service {
	return &Service{}
}

// PlayerSummary is the public face of a seat: everything except hand contents
type PlayerSummary struct {
	ID            model.PlayerID `json:"id"`
	HandSize      int            `json:"hand_size"`
	IsDown        bool           `json:"is_down"`
	TotalScore    int            `json:"total_score"`
	MayIRemaining int            `json:"may_i_remaining"`
	IsCurrent     bool           `json:"is_current"`
	IsDealer      bool           `json:"is_dealer"`
}

// MayIView is the visible state of a pending or just-resolved May I request
type MayIView struct {
	ID          model.MayIRequestID `json:"id"`
	CallerID    model.PlayerID      `json:"caller_id"`
	DiscardCard model.Card          `json:"discard_card"`
	Pending     bool                `json:"pending"`
	WinnerID    model.PlayerID      `json:"winner_id,omitempty"`
	Responded   []model.PlayerID    `json:"responded"`
	ExpiresAt   time.Time           `json:"expires_at"`
}

// Availability is the capability set for the viewing player. Each flag says
// whether the matching command would currently be accepted on its guards;
// Reasons explains the blocked ones, keyed by command kind.
type Availability struct {
	CanDrawFromStock   bool `json:"can_draw_from_stock"`
	CanDrawFromDiscard bool `json:"can_draw_from_discard"`
	CanLayDown         bool `json:"can_lay_down"`
	CanLayOff          bool `json:"can_lay_off"`
	CanSwapJoker       bool `json:"can_swap_joker"`
	CanDiscard         bool `json:"can_discard"`
	CanMayI            bool `json:"can_may_i"`
	CanAllowMayI       bool `json:"can_allow_may_i"`
	CanClaimMayI       bool `json:"can_claim_may_i"`
	CanReorderHand     bool `json:"can_reorder_hand"`

	Reasons map[model.CommandKind]string `json:"reasons"`
}

// PlayerView is everything one player may know about the game
type PlayerView struct {
	GameID      model.GameID    `json:"game_id"`
	State       model.GameState `json:"state"`
	RoundNumber int             `json:"round_number"`
	Contract    model.Contract  `json:"contract"`

	ViewerID model.PlayerID  `json:"viewer_id"`
	Hand     []model.Card    `json:"hand"`
	Players  []PlayerSummary `json:"players"`

	Melds        []model.Meld `json:"melds"`
	StockCount   int          `json:"stock_count"`
	DiscardCount int          `json:"discard_count"`
	TopDiscard   *model.Card  `json:"top_discard,omitempty"`

	CurrentPlayerID model.PlayerID  `json:"current_player_id"`
	DealerID        model.PlayerID  `json:"dealer_id"`
	Phase           model.TurnPhase `json:"phase"`

	MayI *MayIView `json:"may_i,omitempty"`

	RoundRecords []model.RoundRecord `json:"round_records"`
	Winners      []model.PlayerID    `json:"winners,omitempty"`

	Availability Availability `json:"availability"`
}

// Project builds the player's view of the game
func (s *Service) Project(game *model.Game, viewerID model.PlayerID) (*PlayerView, error) {
	viewer, err := game.Player(viewerID)
	if err != nil {
		return nil, err
	}

	hand := make([]model.Card, len(viewer.Hand))
	copy(hand, viewer.Hand)

	players := make([]PlayerSummary, 0, game.PlayerCount())
	for i := range game.Players {
		p := &game.Players[i]
		remaining := model.MayIBudgetPerRound - p.MayIUsed
		if remaining < 0 {
			remaining = 0
		}
		players = append(players, PlayerSummary{
			ID:            p.ID,
			HandSize:      p.HandSize(),
			IsDown:        p.IsDown,
			TotalScore:    p.TotalScore,
			MayIRemaining: remaining,
			IsCurrent:     i == game.CurrentPlayerIndex,
			IsDealer:      i == game.DealerIndex,
		})
	}

	melds := make([]model.Meld, len(game.Melds))
	for i := range game.Melds {
		melds[i] = game.Melds[i].Clone()
	}

	pv := &PlayerView{
		GameID:          game.ID,
		State:           game.State,
		RoundNumber:     game.RoundNumber,
		Contract:        game.Contract(),
		ViewerID:        viewerID,
		Hand:            hand,
		Players:         players,
		Melds:           melds,
		StockCount:      len(game.Stock),
		DiscardCount:    len(game.Discard),
		CurrentPlayerID: game.CurrentPlayer().ID,
		DealerID:        game.Players[game.DealerIndex].ID,
		Phase:           game.Phase,
		RoundRecords:    append([]model.RoundRecord{}, game.RoundRecords...),
		Availability:    s.Availability(game, viewerID),
	}

	if top, ok := game.TopDiscard(); ok {
		pv.TopDiscard = &top
	}
	if game.MayI != nil {
		responded := make([]model.PlayerID, 0, len(game.MayI.Responses))
		for _, r := range game.MayI.Responses {
			responded = append(responded, r.PlayerID)
		}
		pv.MayI = &MayIView{
			ID:          game.MayI.ID,
			CallerID:    game.MayI.CallerID,
			DiscardCard: game.MayI.DiscardCard,
			Pending:     game.MayI.IsPending(),
			WinnerID:    game.MayI.WinnerID,
			Responded:   responded,
			ExpiresAt:   game.MayI.ExpiresAt,
		}
	}
	if game.State == model.GameStateEnded {
		pv.Winners = game.Winners()
	}

	return pv, nil
}

// Availability derives the viewer's capability set from canonical state
func (s *Service) Availability(game *model.Game, viewerID model.PlayerID) Availability {
	a := Availability{
		Reasons: make(map[model.CommandKind]string),
	}
	viewer, err := game.Player(viewerID)
	if err != nil {
		return a
	}

	if game.State == model.GameStateEnded {
		for _, kind := range []model.CommandKind{
			model.CmdDrawFromStock, model.CmdDrawFromDiscard, model.CmdLayDown,
			model.CmdLayOff, model.CmdSwapJoker, model.CmdDiscard,
			model.CmdCallMayI, model.CmdRespondMayI, model.CmdReorderHand,
		} {
			a.Reasons[kind] = "the game has ended"
		}
		return a
	}

	a.CanReorderHand = true

	isCurrent := game.IsCurrentPlayer(viewerID)
	awaitingDraw := game.Phase == model.PhaseAwaitingDraw
	drawn := game.Phase == model.PhaseDrawn

	blockTurn := func(kind model.CommandKind) bool {
		if !isCurrent {
			a.Reasons[kind] = "it is not your turn"
			return true
		}
		return false
	}

	// Draw actions
	switch {
	case blockTurn(model.CmdDrawFromStock):
	case !awaitingDraw:
		a.Reasons[model.CmdDrawFromStock] = "you have already drawn"
	case len(game.Stock) == 0:
		a.Reasons[model.CmdDrawFromStock] = "the stock is empty"
	default:
		a.CanDrawFromStock = true
	}

	switch {
	case blockTurn(model.CmdDrawFromDiscard):
	case !awaitingDraw:
		a.Reasons[model.CmdDrawFromDiscard] = "you have already drawn"
	case len(game.Discard) == 0:
		a.Reasons[model.CmdDrawFromDiscard] = "the discard pile is empty"
	case game.DiscardFrozen():
		a.Reasons[model.CmdDrawFromDiscard] = "the top discard is frozen by a pending May I"
	default:
		a.CanDrawFromDiscard = true
	}

	// Meld actions
	switch {
	case blockTurn(model.CmdLayDown):
	case !drawn:
		a.Reasons[model.CmdLayDown] = "draw a card first"
	case viewer.IsDown:
		a.Reasons[model.CmdLayDown] = "you have already laid down this round"
	default:
		a.CanLayDown = true
	}

	switch {
	case blockTurn(model.CmdLayOff):
	case !drawn:
		a.Reasons[model.CmdLayOff] = "draw a card first"
	case !viewer.IsDown:
		a.Reasons[model.CmdLayOff] = "lay down your contract first"
	case len(game.Melds) == 0:
		a.Reasons[model.CmdLayOff] = "there are no melds on the table"
	case viewer.HandSize() == 0:
		a.Reasons[model.CmdLayOff] = "your hand is empty"
	default:
		a.CanLayOff = true
	}

	switch {
	case blockTurn(model.CmdSwapJoker):
	case !drawn:
		a.Reasons[model.CmdSwapJoker] = "draw a card first"
	case !viewer.IsDown:
		a.Reasons[model.CmdSwapJoker] = "lay down your contract first"
	case !tableHasSwappableJoker(game):
		a.Reasons[model.CmdSwapJoker] = "no run on the table holds a joker"
	default:
		a.CanSwapJoker = true
	}

	switch {
	case blockTurn(model.CmdDiscard):
	case !drawn:
		a.Reasons[model.CmdDiscard] = "draw a card first"
	case viewer.HandSize() == 0:
		a.Reasons[model.CmdDiscard] = "your hand is empty"
	case game.RoundNumber == model.FinalRound && viewer.HandSize() == 1:
		a.Reasons[model.CmdDiscard] = "the final round ends by laying off, not by discarding your last card"
	default:
		a.CanDiscard = true
	}

	// May I actions
	pending := game.MayI.IsPending()
	switch {
	case isCurrent:
		a.Reasons[model.CmdCallMayI] = "the turn holder draws instead of calling May I"
	case !awaitingDraw:
		a.Reasons[model.CmdCallMayI] = "the turn holder has already drawn"
	case pending:
		a.Reasons[model.CmdCallMayI] = "a May I request is already pending"
	case len(game.Discard) == 0:
		a.Reasons[model.CmdCallMayI] = "the discard pile is empty"
	case !viewer.HasMayIBudget():
		a.Reasons[model.CmdCallMayI] = "no May I uses left this round"
	default:
		a.CanMayI = true
	}

	switch {
	case !pending:
		a.Reasons[model.CmdRespondMayI] = "no May I request is pending"
	case game.MayI.CallerID == viewerID:
		a.Reasons[model.CmdRespondMayI] = "you called this May I"
	case game.MayI.HasResponded(viewerID):
		a.Reasons[model.CmdRespondMayI] = "you have already responded"
	default:
		a.CanAllowMayI = true
		if viewer.HasMayIBudget() {
			a.CanClaimMayI = true
		} else {
			a.Reasons[model.CmdRespondMayI] = "no May I uses left this round"
		}
	}

	return a
}

// tableHasSwappableJoker reports whether any run on the table holds a joker
func tableHasSwappableJoker(game *model.Game) bool {
	for i := range game.Melds {
		if game.Melds[i].Type != model.MeldRun {
			continue
		}
		for _, c := range game.Melds[i].Cards {
			if c.IsJoker() {
				return true
			}
		}
	}
	return false
}
