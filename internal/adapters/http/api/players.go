package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/mercato/internal/domain/analytics"
)

// PlayerDependencies defines the player history query.
type PlayerDependencies interface {
	PlayerHistory(ctx context.Context, name string) (analytics.History, error)
}

// PlayerHandler handles player requests.
type PlayerHandler struct {
	deps PlayerDependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps PlayerDependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

// HandlePlayerHistory handles GET /player-history?name=.
func (h *PlayerHandler) HandlePlayerHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player_history"
	if !getOnly(w, r) {
		return
	}
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		writeFailure(w, op, NewKind("missing name", ErrBadRequest))
		return
	}
	history, err := h.deps.PlayerHistory(r.Context(), name)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
