// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

package scoring

import (
	"strings"
	"sync"
)

// fuzzyMatcher resolves near-duplicate keyword phrasings ("time travel" vs
// "time-travel" vs "travel through time"). Match results are memoized per
// keyword pair; TMDB vocabularies repeat heavily across a library, so the
// cache pays for itself within one scoring run.
type fuzzyMatcher struct {
	mu    sync.Mutex
	cache map[string]float64
}

func newFuzzyMatcher() *fuzzyMatcher {
	return &fuzzyMatcher{cache: make(map[string]float64)}
}

// similarity returns a match strength in [0, 1] for two lowercase keywords:
// 1.0 for an exact match, 0.8 when one contains the other, otherwise the
// Jaccard overlap of their word tokens. Anything below 0.5 counts as no
// match.
func (f *fuzzyMatcher) similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	key := a + "\x00" + b
	if a > b {
		key = b + "\x00" + a
	}
	f.mu.Lock()
	if sim, ok := f.cache[key]; ok {
		f.mu.Unlock()
		return sim
	}
	f.mu.Unlock()

	sim := computeSimilarity(a, b)

	f.mu.Lock()
	f.cache[key] = sim
	f.mu.Unlock()
	return sim
}

func computeSimilarity(a, b string) float64 {
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}

	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	intersection := 0
	for t := range tokensA {
		if tokensB[t] {
			intersection++
		}
	}
	if intersection == 0 {
		return 0
	}
	union := len(tokensA) + len(tokensB) - intersection
	sim := float64(intersection) / float64(union)
	if sim < 0.5 {
		return 0
	}
	return sim
}

func tokenSet(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, t := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '/'
	}) {
		if t != "" {
			tokens[t] = true
		}
	}
	return tokens
}
