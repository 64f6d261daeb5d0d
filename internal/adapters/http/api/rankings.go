// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"

	"github.com/fantasyforge/forge/internal/domain/model"
)

// RankingsHandler handles ranking board reads.
type RankingsHandler struct {
	deps Dependencies
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps Dependencies) *RankingsHandler {
	return &RankingsHandler{deps: deps}
}

// HandleGetRankings handles GET /rankings?season=&week=&type=&limit= requests.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rankings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
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

	rankingType := model.RankingType(q.Get("type"))
	if rankingType == "" {
		rankingType = model.RankingOverall
	}
	if !rankingType.Valid() {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, nil))
		return
	}

	limit := h.deps.MaxBoardLimit()
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest, err))
			return
		}
		if n > h.deps.MaxBoardLimit() {
			writeError(w, http.StatusBadRequest, "limit_exceeded", wrap(op, ErrBadRequest, nil))
			return
		}
		limit = n
	}

	board, err := h.deps.Rankings(r.Context(), season, week, rankingType)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if len(board) > limit {
		board = board[:limit]
	}
	writeJSON(w, http.StatusOK, board)
}
