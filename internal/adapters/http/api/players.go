// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"
)

// PlayersHandler handles player-week record reads.
type PlayersHandler struct {
	deps Dependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleGetPlayerWeek handles GET /players/{player_id}?season=&week= requests.
func (h *PlayersHandler) HandleGetPlayerWeek(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player_week"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	playerID := strings.TrimPrefix(r.URL.Path, "/players/")
	if playerID == "" || strings.Contains(playerID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, nil))
		return
	}

	q := r.URL.Query()
	season, err := strconv.Atoi(q.Get("season"))
	if err != nil || season < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, err))
		return
	}
	week, err := strconv.Atoi(q.Get("week"))
	if err != nil || week < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, err))
		return
	}

	rec, err := h.deps.PlayerWeek(r.Context(), playerID, season, week)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
