package model

import "errors"

// Common errors used across the application. All are local and recoverable:
// a rejected command never mutates game state.
var (
	// Lookup errors
	ErrGameNotFound    = errors.New("game not found")
	ErrPlayerNotInGame = errors.New("player is not in this game")
	ErrMeldNotFound    = errors.New("meld not found")
	ErrCardNotInHand   = errors.New("card is not in hand")

	// Lifecycle errors
	ErrGameEnded          = errors.New("game has ended")
	ErrInvalidPlayerCount = errors.New("invalid player count")
	ErrInvalidRound       = errors.New("invalid round number")

	// Turn errors
	ErrNotYourTurn           = errors.New("not this player's turn")
	ErrIllegalCommandForPhase = errors.New("command is not legal in the current phase")
	ErrStockEmpty            = errors.New("stock is empty")
	ErrDiscardEmpty          = errors.New("discard pile is empty")
	ErrDiscardFrozen         = errors.New("top discard is frozen by a pending May I")
	ErrAlreadyDown           = errors.New("player has already laid down this round")
	ErrNotDown               = errors.New("player has not laid down yet")
	ErrHandNotEmptyForGoOut  = errors.New("going out requires emptying the hand via lay-offs")
	ErrInvalidHandOrder      = errors.New("hand reorder must be a permutation of the current hand")

	// Meld errors
	ErrInvalidMeldComposition = errors.New("cards do not form a legal meld")
	ErrContractNotMet         = errors.New("melds do not satisfy the round contract")
	ErrCardNotEligible        = errors.New("card is not eligible at that position")
	ErrJokerSwapMismatch      = errors.New("card does not match what the joker stands in for")
	// ErrPositionChoiceRequired is a signal, not a failure: the wild card is
	// legal at both ends of the run and the player must pick one.
	ErrPositionChoiceRequired = errors.New("card fits both ends of the run; a position choice is required")

	// May I errors
	ErrMayIBudgetExhausted = errors.New("no May I uses remaining this round")
	ErrNoDiscardToRequest  = errors.New("no discard card to request")
	ErrMayIAlreadyPending  = errors.New("a May I request is already pending")
	ErrMayINotAllowed      = errors.New("not allowed on this May I request")
	ErrNoPendingMayI       = errors.New("no pending May I request")
	// ErrStaleMayIResponse is soft: a response that arrives after resolution
	// is a no-op, not a state corruption.
	ErrStaleMayIResponse = errors.New("May I request is already resolved")

	// Validation errors
	ErrMalformedCard = errors.New("malformed card")
)
