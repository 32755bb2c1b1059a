// Package registry builds the canonical club registry: every club that acts
// in the ledger, and the league each one primarily plays in.
package registry

import (
	"github.com/google/uuid"

	"github.com/okian/mercato/internal/domain/model"
)

// Registry is the closed set of canonical club names.
// It is immutable after Build and safe for concurrent reads.
type Registry struct {
	version string
	clubs   []string            // first-appearance order
	members map[string]struct{} // membership
	leagues map[string]string   // club -> primary league
}

// leagueTally counts appearances of one club per league, remembering the
// order in which leagues were first seen so ties resolve deterministically.
type leagueTally struct {
	order  []string
	counts map[string]int
}

// Build derives the registry from the unresolved ledger. An empty ledger
// yields an empty registry whose lookups all miss.
func Build(records []model.TransferRecord) *Registry {
	r := &Registry{
		version: uuid.NewString(),
		members: make(map[string]struct{}),
		leagues: make(map[string]string),
	}

	tallies := make(map[string]*leagueTally)
	for i := range records {
		club := records[i].ClubName
		if club == "" {
			continue
		}
		t, ok := tallies[club]
		if !ok {
			t = &leagueTally{counts: make(map[string]int)}
			tallies[club] = t
			r.clubs = append(r.clubs, club)
			r.members[club] = struct{}{}
		}
		league := records[i].LeagueName
		if league == "" {
			continue
		}
		if _, seen := t.counts[league]; !seen {
			t.order = append(t.order, league)
		}
		t.counts[league]++
	}

	for club, t := range tallies {
		best, bestCount := "", 0
		for _, league := range t.order {
			if c := t.counts[league]; c > bestCount {
				best, bestCount = league, c
			}
		}
		if best != "" {
			r.leagues[club] = best
		}
	}
	return r
}

// Version identifies this registry build. Caches keyed on a registry must
// be discarded when the version changes.
func (r *Registry) Version() string { return r.version }

// Len returns the number of canonical clubs.
func (r *Registry) Len() int { return len(r.clubs) }

// Clubs returns the canonical names in first-appearance order.
// The returned slice must not be modified.
func (r *Registry) Clubs() []string { return r.clubs }

// Contains reports whether name is a canonical club.
func (r *Registry) Contains(name string) bool {
	_, ok := r.members[name]
	return ok
}

// League returns the primary league of a canonical club.
func (r *Registry) League(club string) (string, bool) {
	l, ok := r.leagues[club]
	return l, ok
}

// ClubsInLeague lists canonical clubs whose primary league is league.
func (r *Registry) ClubsInLeague(league string) []string {
	var out []string
	for _, c := range r.clubs {
		if r.leagues[c] == league {
			out = append(out, c)
		}
	}
	return out
}
