package matcher

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// normalize lowercases s, turns every non-alphanumeric rune into a space and
// trims the result.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(b.String())
}

// ratio scores two strings 0..100 as 2*LCS over their combined length, so a
// substituted character costs a deletion plus an insertion. Halves round to
// even. Empty input scores 0.
func ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	lensum := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	common := edlib.LCS(a, b)
	return int(math.RoundToEven(100 * float64(2*common) / float64(lensum)))
}

// tokenSet returns the distinct whitespace tokens of s, sorted.
func tokenSet(s string) []string {
	fields := strings.Fields(s)
	seen := make(map[string]struct{}, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// TokenSetRatio scores how similar two names are regardless of word order
// and of extra words on either side. Both inputs are normalized first.
// The score is the best of three comparisons: shared tokens against each
// side's shared+remaining tokens, and the two augmented strings against each other.
func TokenSetRatio(a, b string) int {
	ta, tb := tokenSet(normalize(a)), tokenSet(normalize(b))
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inB := make(map[string]struct{}, len(tb))
	for _, t := range tb {
		inB[t] = struct{}{}
	}
	inA := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		inA[t] = struct{}{}
	}

	var shared, onlyA, onlyB []string
	for _, t := range ta {
		if _, ok := inB[t]; ok {
			shared = append(shared, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range tb {
		if _, ok := inA[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}

	sect := strings.Join(shared, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	best := ratio(sect, combinedA)
	if s := ratio(sect, combinedB); s > best {
		best = s
	}
	if s := ratio(combinedA, combinedB); s > best {
		best = s
	}
	return best
}
