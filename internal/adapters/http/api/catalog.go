package api

import (
	"context"
	"net/http"
	"strings"

	service "github.com/okian/mercato/internal/app"
)

// CatalogDependencies lists what the pickers and the name lookup need.
type CatalogDependencies interface {
	Seasons(ctx context.Context) ([]string, error)
	Leagues(ctx context.Context) ([]string, error)
	Resolve(ctx context.Context, name string) (service.Resolution, error)
}

// CatalogHandler serves seasons, leagues and ad-hoc name resolution.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleSeasons handles GET /seasons.
func (h *CatalogHandler) HandleSeasons(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_seasons"
	if !getOnly(w, r) {
		return
	}
	seasons, err := h.deps.Seasons(r.Context())
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, seasons)
}

// HandleLeagues handles GET /leagues.
func (h *CatalogHandler) HandleLeagues(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leagues"
	if !getOnly(w, r) {
		return
	}
	leagues, err := h.deps.Leagues(r.Context())
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, leagues)
}

// HandleResolve handles GET /resolve?name=.
func (h *CatalogHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	const op = "api.resolve"
	if !getOnly(w, r) {
		return
	}
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		writeFailure(w, op, NewKind("missing name", ErrBadRequest))
		return
	}
	res, err := h.deps.Resolve(r.Context(), name)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
