// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fantasyforge/forge/internal/adapters/repository"
	"github.com/fantasyforge/forge/internal/domain/model"
	"github.com/fantasyforge/forge/internal/domain/types"
)

// Dependencies required by HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// IngestEvent appends an event after validation and dedupe. The
	// returned bool is true when the event id was already seen.
	IngestEvent(ctx context.Context, eventType model.EventType, scope model.Scope, eventID string) (string, bool, error)

	// Read operations expose board and record data.
	Rankings(ctx context.Context, season, week int, t model.RankingType) ([]types.BoardEntry, error)
	PlayerWeek(ctx context.Context, playerID string, season, week int) (types.PlayerWeek, error)

	// MaxBoardLimit caps GET /rankings?limit.
	MaxBoardLimit() int
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	eventsHandler   *EventsHandler
	rankingsHandler *RankingsHandler
	playersHandler  *PlayersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		eventsHandler:   NewEventsHandler(deps),
		rankingsHandler: NewRankingsHandler(deps),
		playersHandler:  NewPlayersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	_ = ctx

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandleGetPlayerWeek, "players"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrRecordNotFound) ||
		errors.Is(err, repository.ErrBoardNotFound)
}
