package api

import (
	"context"
	"net/http"

	"github.com/okian/mercato/internal/domain/analytics"
	"github.com/okian/mercato/internal/domain/model"
)

// RankingDependencies defines the ranking and aggregate queries.
type RankingDependencies interface {
	TopForeignClubs(ctx context.Context, sel analytics.Selection, direction model.Direction) ([]analytics.Total, error)
	TopPlayers(ctx context.Context, sel analytics.Selection) ([]analytics.Total, error)
	ClubSummaries(ctx context.Context, sel analytics.Selection) ([]analytics.ClubSummary, error)
}

// RankingHandler handles ranking requests.
type RankingHandler struct {
	deps RankingDependencies
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps RankingDependencies) *RankingHandler {
	return &RankingHandler{deps: deps}
}

// HandleForeignClubs handles GET /foreign-clubs?season=&league=&direction=.
// league is required since it defines what counts as foreign; direction
// defaults to "out".
func (h *RankingHandler) HandleForeignClubs(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_foreign_clubs"
	if !getOnly(w, r) {
		return
	}
	sel := selection(r)
	if sel.League == "" {
		writeFailure(w, op, NewKind("missing league", ErrBadRequest))
		return
	}
	direction := model.DirectionOut
	if raw := r.URL.Query().Get("direction"); raw != "" {
		d, ok := model.ParseDirection(raw)
		if !ok {
			writeFailure(w, op, NewKind("direction must be in or out", ErrBadRequest))
			return
		}
		direction = d
	}
	totals, err := h.deps.TopForeignClubs(r.Context(), sel, direction)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// HandleTopPlayers handles GET /top-players?season=&league=.
func (h *RankingHandler) HandleTopPlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_top_players"
	if !getOnly(w, r) {
		return
	}
	totals, err := h.deps.TopPlayers(r.Context(), selection(r))
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// HandleClubSummary handles GET /club-summary?season=&league=.
func (h *RankingHandler) HandleClubSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_club_summary"
	if !getOnly(w, r) {
		return
	}
	rows, err := h.deps.ClubSummaries(r.Context(), selection(r))
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
