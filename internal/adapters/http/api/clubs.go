package api

import (
	"context"
	"net/http"

	"github.com/okian/mercato/internal/domain/analytics"
)

// ClubDependencies defines the roster and league flow queries.
type ClubDependencies interface {
	CurrentRoster(ctx context.Context, club, season string) ([]analytics.RosterEntry, error)
	NetFlow(ctx context.Context, season string) (analytics.FlowMatrix, error)
}

// ClubHandler handles club and league level requests.
type ClubHandler struct {
	deps ClubDependencies
}

// NewClubHandler creates a new club handler.
func NewClubHandler(deps ClubDependencies) *ClubHandler {
	return &ClubHandler{deps: deps}
}

// HandleRoster handles GET /roster?club=&season=.
func (h *ClubHandler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_roster"
	if !getOnly(w, r) {
		return
	}
	q := r.URL.Query()
	club, season := q.Get("club"), q.Get("season")
	if club == "" || season == "" {
		writeFailure(w, op, NewKind("club and season are required", ErrBadRequest))
		return
	}
	roster, err := h.deps.CurrentRoster(r.Context(), club, season)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

// HandleNetFlow handles GET /net-flow?season=. Without a season the whole
// ledger is used.
func (h *ClubHandler) HandleNetFlow(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_net_flow"
	if !getOnly(w, r) {
		return
	}
	m, err := h.deps.NetFlow(r.Context(), r.URL.Query().Get("season"))
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
