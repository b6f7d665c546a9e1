package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cardfold/mayi-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest          = "INVALID_REQUEST"
	CodeGameNotFound            = "GAME_NOT_FOUND"
	CodePlayerNotInGame         = "PLAYER_NOT_IN_GAME"
	CodeMeldNotFound            = "MELD_NOT_FOUND"
	CodeCardNotInHand           = "CARD_NOT_IN_HAND"
	CodeGameEnded               = "GAME_ENDED"
	CodeInvalidPlayerCount      = "INVALID_PLAYER_COUNT"
	CodeInvalidRound            = "INVALID_ROUND"
	CodeNotYourTurn             = "NOT_YOUR_TURN"
	CodeIllegalCommandForPhase  = "ILLEGAL_COMMAND_FOR_PHASE"
	CodeStockEmpty              = "STOCK_EMPTY"
	CodeDiscardEmpty            = "DISCARD_EMPTY"
	CodeDiscardFrozen           = "DISCARD_FROZEN"
	CodeAlreadyDown             = "ALREADY_DOWN"
	CodeNotDown                 = "NOT_DOWN"
	CodeHandNotEmptyForGoOut    = "HAND_NOT_EMPTY_FOR_GO_OUT"
	CodeInvalidHandOrder        = "INVALID_HAND_ORDER"
	CodeInvalidMeldComposition  = "INVALID_MELD_COMPOSITION"
	CodeContractNotMet          = "CONTRACT_NOT_MET"
	CodeCardNotEligible         = "CARD_NOT_ELIGIBLE"
	CodeJokerSwapMismatch       = "JOKER_SWAP_MISMATCH"
	CodePositionChoiceRequired  = "POSITION_CHOICE_REQUIRED"
	CodeMayIBudgetExhausted     = "MAY_I_BUDGET_EXHAUSTED"
	CodeNoDiscardToRequest      = "NO_DISCARD_TO_REQUEST"
	CodeMayIAlreadyPending      = "MAY_I_ALREADY_PENDING"
	CodeMayINotAllowed          = "MAY_I_NOT_ALLOWED"
	CodeNoPendingMayI           = "NO_PENDING_MAY_I"
	CodeStaleMayIResponse       = "STALE_MAY_I_RESPONSE"
	CodeMalformedCard           = "MALFORMED_CARD"
	CodeInternalError           = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors. Lookup failures are 404, turn/ownership violations
	// are 403, state conflicts are 409, rule violations on otherwise
	// well-formed input are 422.
	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrPlayerNotInGame):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotInGame, "Player is not in this game"}}
	case errors.Is(err, model.ErrMeldNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMeldNotFound, "Meld not found"}}
	case errors.Is(err, model.ErrNoPendingMayI):
		return &httpError{http.StatusNotFound, APIError{CodeNoPendingMayI, "No pending May I request"}}

	case errors.Is(err, model.ErrNotYourTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrMayINotAllowed):
		return &httpError{http.StatusForbidden, APIError{CodeMayINotAllowed, "Not allowed on this May I request"}}

	case errors.Is(err, model.ErrGameEnded):
		return &httpError{http.StatusConflict, APIError{CodeGameEnded, "Game has ended"}}
	case errors.Is(err, model.ErrIllegalCommandForPhase):
		return &httpError{http.StatusConflict, APIError{CodeIllegalCommandForPhase, err.Error()}}
	case errors.Is(err, model.ErrStockEmpty):
		return &httpError{http.StatusConflict, APIError{CodeStockEmpty, "Stock is empty"}}
	case errors.Is(err, model.ErrDiscardEmpty):
		return &httpError{http.StatusConflict, APIError{CodeDiscardEmpty, "Discard pile is empty"}}
	case errors.Is(err, model.ErrDiscardFrozen):
		return &httpError{http.StatusConflict, APIError{CodeDiscardFrozen, "Top discard is frozen by a pending May I"}}
	case errors.Is(err, model.ErrAlreadyDown):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyDown, "Already laid down this round"}}
	case errors.Is(err, model.ErrNotDown):
		return &httpError{http.StatusConflict, APIError{CodeNotDown, "Must lay down the contract first"}}
	case errors.Is(err, model.ErrHandNotEmptyForGoOut):
		return &httpError{http.StatusConflict, APIError{CodeHandNotEmptyForGoOut, "The final round is won by laying off every card, not by discarding"}}
	case errors.Is(err, model.ErrCardNotInHand):
		return &httpError{http.StatusConflict, APIError{CodeCardNotInHand, "Card is not in hand"}}
	case errors.Is(err, model.ErrMayIBudgetExhausted):
		return &httpError{http.StatusConflict, APIError{CodeMayIBudgetExhausted, "No May I uses remaining this round"}}
	case errors.Is(err, model.ErrNoDiscardToRequest):
		return &httpError{http.StatusConflict, APIError{CodeNoDiscardToRequest, "No discard card to request"}}
	case errors.Is(err, model.ErrMayIAlreadyPending):
		return &httpError{http.StatusConflict, APIError{CodeMayIAlreadyPending, "A May I request is already pending"}}
	case errors.Is(err, model.ErrStaleMayIResponse):
		return &httpError{http.StatusConflict, APIError{CodeStaleMayIResponse, "May I request was already resolved"}}
	// Not a rejection: the card fits both ends of the run, so the client
	// must re-submit with an explicit position.
	case errors.Is(err, model.ErrPositionChoiceRequired):
		return &httpError{http.StatusConflict, APIError{CodePositionChoiceRequired, "Card fits both ends of the run; choose low or high"}}

	case errors.Is(err, model.ErrInvalidPlayerCount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPlayerCount, "Games need 2 to 8 players"}}
	case errors.Is(err, model.ErrInvalidRound):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRound, "Round number must be between 1 and 6"}}
	case errors.Is(err, model.ErrInvalidHandOrder):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidHandOrder, "Hand reorder must be a permutation of the current hand"}}
	case errors.Is(err, model.ErrMalformedCard):
		return &httpError{http.StatusBadRequest, APIError{CodeMalformedCard, "Malformed card"}}

	case errors.Is(err, model.ErrInvalidMeldComposition):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidMeldComposition, "Cards do not form a legal meld"}}
	case errors.Is(err, model.ErrContractNotMet):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeContractNotMet, "Melds do not satisfy the round contract"}}
	case errors.Is(err, model.ErrCardNotEligible):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeCardNotEligible, "Card is not eligible at that position"}}
	case errors.Is(err, model.ErrJokerSwapMismatch):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeJokerSwapMismatch, "Card does not match what the joker stands in for"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
