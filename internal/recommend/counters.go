// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

package recommend

// Counters is the aggregated user profile: one weighted frequency map per
// preference category plus the watched-exclusion set. Weights are additive
// across all processed items and may be negative for penalized content.
//
// Counters is a plain data structure with no locking; each scoring run
// operates on its own instance.
type Counters struct {
	// Genres maps normalized genre name to accumulated weight.
	Genres map[string]float64 `json:"genres"`

	// Actors maps lowercase actor name to accumulated weight.
	Actors map[string]float64 `json:"actors"`

	// Directors maps lowercase director name to accumulated weight (movies).
	Directors map[string]float64 `json:"directors"`

	// Studios maps lowercase studio name to accumulated weight (TV).
	Studios map[string]float64 `json:"studios"`

	// Languages maps lowercase language name to accumulated weight.
	Languages map[string]float64 `json:"languages"`

	// Keywords maps lowercase keyword to accumulated weight.
	Keywords map[string]float64 `json:"keywords"`

	// Collections maps collection ID to the plain count of watched members.
	// Deliberately not multiplier-weighted; feeds the sequel bonus.
	Collections map[int]float64 `json:"collections"`

	// TMDBIDs is the watched-exclusion set. Populated unconditionally, even
	// for negative-weighted items, so disliked and dropped content never
	// reappears as a recommendation.
	TMDBIDs map[int]bool `json:"tmdb_ids"`

	// WatchedTitles holds normalized lowercase titles of watched items.
	// Fallback exclusion for candidates without a TMDB ID and for release
	// variants ("Blade Runner 4K") of watched content.
	WatchedTitles map[string]bool `json:"watched_titles"`
}

// NewCounters returns an empty profile.
func NewCounters() *Counters {
	return &Counters{
		Genres:        make(map[string]float64),
		Actors:        make(map[string]float64),
		Directors:     make(map[string]float64),
		Studios:       make(map[string]float64),
		Languages:     make(map[string]float64),
		Keywords:      make(map[string]float64),
		Collections:   make(map[int]float64),
		TMDBIDs:       make(map[int]bool),
		WatchedTitles: make(map[string]bool),
	}
}

// ensureMaps re-creates any nil maps. Profiles decoded from a persisted
// cache can arrive with missing categories.
func (c *Counters) ensureMaps() {
	if c.Genres == nil {
		c.Genres = make(map[string]float64)
	}
	if c.Actors == nil {
		c.Actors = make(map[string]float64)
	}
	if c.Directors == nil {
		c.Directors = make(map[string]float64)
	}
	if c.Studios == nil {
		c.Studios = make(map[string]float64)
	}
	if c.Languages == nil {
		c.Languages = make(map[string]float64)
	}
	if c.Keywords == nil {
		c.Keywords = make(map[string]float64)
	}
	if c.Collections == nil {
		c.Collections = make(map[int]float64)
	}
	if c.TMDBIDs == nil {
		c.TMDBIDs = make(map[int]bool)
	}
	if c.WatchedTitles == nil {
		c.WatchedTitles = make(map[string]bool)
	}
}

// IsEmpty reports whether no weighted category holds any entry. A new user
// with no watch history produces an empty profile; every candidate then
// scores 0 and callers receive an empty recommendation set, not an error.
func (c *Counters) IsEmpty() bool {
	return len(c.Genres) == 0 && len(c.Actors) == 0 && len(c.Directors) == 0 &&
		len(c.Studios) == 0 && len(c.Languages) == 0 && len(c.Keywords) == 0
}

// weightedCategories returns the weighted maps in a fixed order, paired with
// their canonical names. Used by the profile hash; Collections and TMDBIDs
// are handled separately there.
func (c *Counters) weightedCategories() []struct {
	Name string
	M    map[string]float64
} {
	return []struct {
		Name string
		M    map[string]float64
	}{
		{"genres", c.Genres},
		{"actors", c.Actors},
		{"directors", c.Directors},
		{"studios", c.Studios},
		{"languages", c.Languages},
		{"keywords", c.Keywords},
	}
}

// PositiveTotal sums the positive weights of a counter map. Negative
// entries are excluded so penalties cannot distort the normalization
// denominator.
func PositiveTotal(m map[string]float64) float64 {
	var total float64
	for _, w := range m {
		if w > 0 {
			total += w
		}
	}
	return total
}
