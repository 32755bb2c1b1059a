package matcher

import "github.com/okian/mercato/pkg/logger"

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithThreshold sets the minimum similarity accepted by the approximate step.
// Values outside 0..100 are ignored.
func WithThreshold(threshold int) Option {
	return func(m *Matcher) {
		if threshold >= 0 && threshold <= 100 {
			m.threshold = threshold
		}
	}
}

// WithSuffixes replaces the youth/reserve suffix list.
func WithSuffixes(suffixes []string) Option {
	return func(m *Matcher) {
		if suffixes != nil {
			m.suffixes = suffixes
		}
	}
}

// WithCache injects a memo cache, e.g. one shared by tests.
func WithCache(c Cache) Option {
	return func(m *Matcher) {
		if c != nil {
			m.cache = c
		}
	}
}

// WithLogger sets a custom logger for the matcher.
func WithLogger(l logger.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.logger = l
		}
	}
}
