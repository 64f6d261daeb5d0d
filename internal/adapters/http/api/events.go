// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fantasyforge/forge/internal/domain/model"
)

// EventsHandler handles event ingestion requests.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// eventRequest mirrors the ingestion contract for POST /events.
type eventRequest struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Scope     struct {
		PlayerID string `json:"player_id"`
		TeamID   string `json:"team_id"`
	} `json:"scope"`
}

func (e eventRequest) validate() error {
	if !model.EventType(strings.TrimSpace(e.EventType)).Valid() {
		return errors.New("unknown event_type")
	}
	if strings.TrimSpace(e.Scope.PlayerID) == "" && strings.TrimSpace(e.Scope.TeamID) == "" {
		return errors.New("scope must reference a player or a team")
	}
	return nil
}

type ackResponse struct {
	EventID   string `json:"event_id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// HandlePostEvent handles POST /events requests.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, err))
		return
	}

	scope := model.Scope{
		PlayerID: strings.TrimSpace(req.Scope.PlayerID),
		TeamID:   strings.TrimSpace(req.Scope.TeamID),
	}
	id, duplicate, err := h.deps.IngestEvent(r.Context(), model.EventType(req.EventType), scope, strings.TrimSpace(req.EventID))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", wrap(op, ErrIngest, err))
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{EventID: id, Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{EventID: id, Status: "accepted", Duplicate: false})
}
