package model

// CommandKind discriminates the closed set of player commands
type CommandKind string

const (
	CmdDrawFromStock   CommandKind = "draw_from_stock"
	CmdDrawFromDiscard CommandKind = "draw_from_discard"
	CmdLayDown         CommandKind = "lay_down"
	CmdLayOff          CommandKind = "lay_off"
	CmdSwapJoker       CommandKind = "swap_joker"
	CmdDiscard         CommandKind = "discard"
	CmdGoOut           CommandKind = "go_out"
	CmdReorderHand     CommandKind = "reorder_hand"
	CmdCallMayI        CommandKind = "call_may_i"
	CmdRespondMayI     CommandKind = "respond_may_i"
)

// Command is the sealed union of player actions. Each variant is one struct;
// the engine matches kinds exhaustively and rejects anything unknown. New
// variants are added deliberately rather than widening existing ones.
type Command interface {
	Kind() CommandKind
	isCommand()
}

// DrawFromStockCommand draws the top card of the stock
type DrawFromStockCommand struct{}

// DrawFromDiscardCommand draws the top card of the discard pile
type DrawFromDiscardCommand struct{}

// MeldSpec names the cards (in order, for runs) of one proposed meld
type MeldSpec struct {
	Type    MeldType `json:"type"`
	CardIDs []CardID `json:"card_ids"`
}

// LayDownCommand lays down the round contract from hand, first time only
type LayDownCommand struct {
	Melds []MeldSpec `json:"melds"`
}

// Placement stages one card onto one meld. Position is only meaningful for
// runs, and may be left auto when exactly one end is legal.
type Placement struct {
	CardID   CardID      `json:"card_id"`
	MeldID   MeldID      `json:"meld_id"`
	Position RunPosition `json:"position,omitempty"`
}

// LayOffCommand adds a single card to an existing meld; repeatable within a turn
type LayOffCommand struct {
	Placement Placement `json:"placement"`
}

// SwapJokerCommand trades a matching natural card for a joker in a run
type SwapJokerCommand struct {
	MeldID  MeldID `json:"meld_id"`
	JokerID CardID `json:"joker_id"`
	CardID  CardID `json:"card_id"`
}

// DiscardCommand discards one card, ending the turn
type DiscardCommand struct {
	CardID CardID `json:"card_id"`
}

// GoOutCommand lays off every remaining card in one atomic batch
type GoOutCommand struct {
	Placements []Placement `json:"placements"`
}

// ReorderHandCommand rearranges the player's own hand; legal at any time
type ReorderHandCommand struct {
	Order []CardID `json:"order"`
}

// CallMayICommand requests the top discard out of turn
type CallMayICommand struct{}

// RespondMayICommand answers a pending May I with allow or claim
type RespondMayICommand struct {
	Decision MayIDecision `json:"decision"`
}

func (DrawFromStockCommand) Kind() CommandKind   { return CmdDrawFromStock }
func (DrawFromDiscardCommand) Kind() CommandKind { return CmdDrawFromDiscard }
func (LayDownCommand) Kind() CommandKind         { return CmdLayDown }
func (LayOffCommand) Kind() CommandKind          { return CmdLayOff }
func (SwapJokerCommand) Kind() CommandKind       { return CmdSwapJoker }
func (DiscardCommand) Kind() CommandKind         { return CmdDiscard }
func (GoOutCommand) Kind() CommandKind           { return CmdGoOut }
func (ReorderHandCommand) Kind() CommandKind     { return CmdReorderHand }
func (CallMayICommand) Kind() CommandKind        { return CmdCallMayI }
func (RespondMayICommand) Kind() CommandKind     { return CmdRespondMayI }

func (DrawFromStockCommand) isCommand()   {}
func (DrawFromDiscardCommand) isCommand() {}
func (LayDownCommand) isCommand()         {}
func (LayOffCommand) isCommand()          {}
func (SwapJokerCommand) isCommand()       {}
func (DiscardCommand) isCommand()         {}
func (GoOutCommand) isCommand()           {}
func (ReorderHandCommand) isCommand()     {}
func (CallMayICommand) isCommand()        {}
func (RespondMayICommand) isCommand()     {}
