// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/mercato/internal/adapters/repository"
	service "github.com/okian/mercato/internal/app"
	"github.com/okian/mercato/internal/domain/analytics"
	"github.com/okian/mercato/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CatalogDependencies
	RankingDependencies
	ClubDependencies
	PlayerDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	catalogHandler *CatalogHandler
	rankingHandler *RankingHandler
	clubHandler    *ClubHandler
	playerHandler  *PlayerHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		catalogHandler: NewCatalogHandler(deps),
		rankingHandler: NewRankingHandler(deps),
		clubHandler:    NewClubHandler(deps),
		playerHandler:  NewPlayerHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/seasons", MetricsMiddleware(s.catalogHandler.HandleSeasons, "seasons"))
	mux.HandleFunc("/leagues", MetricsMiddleware(s.catalogHandler.HandleLeagues, "leagues"))
	mux.HandleFunc("/resolve", MetricsMiddleware(s.catalogHandler.HandleResolve, "resolve"))
	mux.HandleFunc("/foreign-clubs", MetricsMiddleware(s.rankingHandler.HandleForeignClubs, "foreign_clubs"))
	mux.HandleFunc("/top-players", MetricsMiddleware(s.rankingHandler.HandleTopPlayers, "top_players"))
	mux.HandleFunc("/club-summary", MetricsMiddleware(s.rankingHandler.HandleClubSummary, "club_summary"))
	mux.HandleFunc("/roster", MetricsMiddleware(s.clubHandler.HandleRoster, "roster"))
	mux.HandleFunc("/net-flow", MetricsMiddleware(s.clubHandler.HandleNetFlow, "net_flow"))
	mux.HandleFunc("/player-history", MetricsMiddleware(s.playerHandler.HandlePlayerHistory, "player_history"))
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

// writeFailure maps upstream error kinds onto status codes.
func writeFailure(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, analytics.ErrInvalidSeason):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, model.ErrNoData), errors.Is(err, service.ErrStopped):
		writeError(w, http.StatusServiceUnavailable, "no_data", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}

// getOnly rejects anything but GET with 404, like an unknown route.
func getOnly(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return false
	}
	return true
}

// selection reads the optional season and league filters.
func selection(r *http.Request) analytics.Selection {
	q := r.URL.Query()
	return analytics.Selection{Season: q.Get("season"), League: q.Get("league")}
}
