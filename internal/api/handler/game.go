package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cardfold/mayi-go/internal/api/request"
	"github.com/cardfold/mayi-go/internal/api/response"
	"github.com/cardfold/mayi-go/internal/api/sse"
	"github.com/cardfold/mayi-go/internal/model"
	"github.com/cardfold/mayi-go/internal/services/game"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	controller  *game.Controller
	hubManager  *sse.HubManager
	broadcaster *sse.Broadcaster
}

// NewGameHandler creates a new game handler
func NewGameHandler(controller *game.Controller, hubManager *sse.HubManager, logger *slog.Logger) *GameHandler {
	var broadcaster *sse.Broadcaster
	if hubManager != nil {
		broadcaster = sse.NewBroadcaster(hubManager, logger)
	}
	return &GameHandler{
		controller:  controller,
		hubManager:  hubManager,
		broadcaster: broadcaster,
	}
}

func (h *GameHandler) broadcastEvents(events []model.Event) {
	if h.broadcaster != nil {
		h.broadcaster.BroadcastEvents(events)
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	playerIDs := make([]model.PlayerID, len(req.PlayerIDs))
	for i, id := range req.PlayerIDs {
		playerIDs[i] = model.PlayerID(id)
	}

	g, events, err := h.controller.StartNewGame(r.Context(), playerIDs, req.StartingRound)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcastEvents(events)

	response.JSON(w, http.StatusCreated, response.GameFromModel(g))
}

// Get handles GET /api/v1/games/{game_id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	g, err := h.controller.GetGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Delete handles DELETE /api/v1/games/{game_id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	if err := h.controller.DeleteGame(r.Context(), gameID); err != nil {
		WriteError(w, err)
		return
	}

	if h.hubManager != nil {
		h.hubManager.RemoveHub(gameID)
	}

	response.NoContent(w)
}

// GetView handles GET /api/v1/games/{game_id}/view
func (h *GameHandler) GetView(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	playerID := model.PlayerID(r.URL.Query().Get("player_id"))
	if playerID == "" {
		WriteError(w, NewInvalidRequestError("player_id query parameter is required"))
		return
	}

	v, err := h.controller.ProjectView(r.Context(), gameID, playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, v)
}

// ApplyCommand handles POST /api/v1/games/{game_id}/commands
func (h *GameHandler) ApplyCommand(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	var req request.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	playerID := model.PlayerID(req.PlayerID)
	g, events, err := h.controller.Apply(r.Context(), gameID, playerID, cmd)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcastEvents(events)

	v, err := h.controller.ProjectView(r.Context(), g.ID, playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CommandResponse{
		Events: events,
		View:   v,
	})
}

// StartRound handles POST /api/v1/games/{game_id}/rounds.
// It re-deals the current round without scoring, for tables that want a
// fresh deal after a misdeal.
func (h *GameHandler) StartRound(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	g, events, err := h.controller.StartNewRound(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcastEvents(events)

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Events handles GET /api/v1/games/{game_id}/events as an SSE stream
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	playerID := model.PlayerID(r.URL.Query().Get("player_id"))
	if playerID == "" {
		WriteError(w, NewInvalidRequestError("player_id query parameter is required"))
		return
	}

	// The game must exist and the player must have a seat
	g, err := h.controller.GetGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if _, err := g.Player(playerID); err != nil {
		WriteError(w, err)
		return
	}

	if h.hubManager == nil {
		WriteError(w, NewInternalError())
		return
	}

	hub := h.hubManager.GetOrCreateHub(gameID)
	sse.ServeSSE(w, r, hub, playerID)
}
