// Package matcher resolves free-text counterparty club names onto the
// canonical club registry.
//
// Resolution runs four steps and stops at the first success:
//  1. strip one youth/reserve suffix (" U19", " II", ...)
//  2. exact membership (a canonical name is always its own result)
//  3. structural word containment, symmetric, first club in registry order wins
//  4. token-set similarity against every club, best score at or above the threshold
//
// Results are memoized per raw name for the lifetime of the Matcher.
package matcher

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/okian/mercato/pkg/logger"
	"github.com/okian/mercato/pkg/metrics"
)

// DefaultThreshold is the minimum similarity (0..100) accepted by the
// approximate step.
const DefaultThreshold = 80

// DefaultSuffixes are the youth/reserve team markers stripped before matching.
var DefaultSuffixes = []string{" U19", " U21", " II", " U23", " U18", " U17", " U16"} //nolint:gochecknoglobals // read-only defaults

// Stage names the resolution step that produced a result.
type Stage string

// Resolution stages.
const (
	StageEmpty       Stage = "empty"
	StageExact       Stage = "exact"
	StageStructural  Stage = "structural"
	StageApproximate Stage = "approximate"
	StageUnresolved  Stage = "unresolved"
)

// Result is the outcome of resolving one raw name.
type Result struct {
	Name  string // canonical club, "" when unresolved
	Stage Stage
	Score int // similarity score for the approximate stage
}

// OK reports whether the name resolved to a canonical club.
func (r Result) OK() bool { return r.Name != "" }

// Index is the read side of the canonical club registry the matcher needs.
type Index interface {
	Clubs() []string
	Contains(name string) bool
	Version() string
}

// Resolver resolves raw names. Matcher is the production implementation.
type Resolver interface {
	Resolve(ctx context.Context, raw string) Result
}

// Stats summarizes matcher activity.
type Stats struct {
	RegistryVersion     string `json:"registry_version"`
	CacheSize           int64  `json:"cache_size"`
	CacheHits           int64  `json:"cache_hits"`
	CacheMisses         int64  `json:"cache_misses"`
	ApproximateSearches int64  `json:"approximate_searches"`
}

// Matcher resolves names against one registry version.
type Matcher struct {
	index     Index
	threshold int
	suffixes  []string
	cache     Cache

	approximate atomic.Int64

	logger logger.Logger
}

// New creates a Matcher bound to index.
func New(index Index, opts ...Option) *Matcher {
	m := &Matcher{
		index:     index,
		threshold: DefaultThreshold,
		suffixes:  DefaultSuffixes,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cache == nil {
		m.cache = NewCache()
	}
	if m.logger == nil {
		m.logger = logger.Get().Named("matcher")
	}
	return m
}

// Resolve maps raw onto a canonical club name. It never fails: names that
// cannot be resolved yield a Result with an empty Name.
func (m *Matcher) Resolve(ctx context.Context, raw string) Result {
	if strings.TrimSpace(raw) == "" {
		return Result{Stage: StageEmpty}
	}
	res, _ := m.cache.LoadOrCompute(ctx, raw, func() Result {
		return m.resolve(ctx, raw)
	})
	return res
}

func (m *Matcher) resolve(ctx context.Context, raw string) Result {
	// Canonical names resolve to themselves even when they end in a suffix.
	if m.index.Contains(raw) {
		return Result{Name: raw, Stage: StageExact}
	}
	name := m.stripSuffix(raw)

	if m.index.Contains(name) {
		return Result{Name: name, Stage: StageExact}
	}

	for _, club := range m.index.Clubs() {
		if StructuralMatch(name, club) {
			return Result{Name: club, Stage: StageStructural}
		}
	}

	best, score := m.searchApproximate(name)
	if best != "" && score >= m.threshold {
		return Result{Name: best, Stage: StageApproximate, Score: score}
	}

	m.logger.Debug(ctx, "counterparty unresolved",
		logger.String("raw", raw),
		logger.String("closest", best),
		logger.Int("score", score),
	)
	return Result{Stage: StageUnresolved, Score: score}
}

// stripSuffix removes the first matching suffix, once.
func (m *Matcher) stripSuffix(name string) string {
	for _, s := range m.suffixes {
		if strings.HasSuffix(name, s) && len(name) > len(s) {
			return name[:len(name)-len(s)]
		}
	}
	return name
}

// searchApproximate returns the best-scoring club. Ties keep the club that
// comes first in registry order.
func (m *Matcher) searchApproximate(name string) (string, int) {
	start := time.Now()
	m.approximate.Add(1)
	defer func() {
		metrics.RecordApproximateSearchLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	best, bestScore := "", -1
	for _, club := range m.index.Clubs() {
		if s := TokenSetRatio(name, club); s > bestScore {
			best, bestScore = club, s
		}
	}
	if bestScore < 0 {
		bestScore = 0
	}
	return best, bestScore
}

// Stats reports cache and search counters.
func (m *Matcher) Stats() Stats {
	st := Stats{
		RegistryVersion:     m.index.Version(),
		CacheSize:           m.cache.Size(),
		ApproximateSearches: m.approximate.Load(),
	}
	if c, ok := m.cache.(interface{ counters() (int64, int64) }); ok {
		st.CacheHits, st.CacheMisses = c.counters()
	}
	return st
}
