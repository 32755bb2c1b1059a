package matcher

import "strings"

// wordsWithin reports whether the words of short can be found in long.
//
// A single word must be one of long's whitespace-separated words. Several
// words must be whole words of long in the same order: the first one is
// long's first word and the others follow, with any words in between.
// Matching is case-sensitive.
func wordsWithin(short, long string) bool {
	words := strings.Fields(short)
	have := strings.Fields(long)
	if len(words) == 0 || len(have) == 0 {
		return false
	}
	if len(words) == 1 {
		for _, w := range have {
			if w == words[0] {
				return true
			}
		}
		return false
	}

	if have[0] != words[0] {
		return false
	}
	next := 1
	for _, w := range have[1:] {
		if next < len(words) && w == words[next] {
			next++
		}
	}
	return next == len(words)
}

// StructuralMatch reports whether either name's words are contained in the
// other as described by wordsWithin. Either side may be the fuller name.
func StructuralMatch(a, b string) bool {
	return wordsWithin(a, b) || wordsWithin(b, a)
}
