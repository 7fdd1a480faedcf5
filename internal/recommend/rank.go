// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

package recommend

import (
	"math/rand"
	"sort"
	"strings"
)

// defaultSeed keeps tiered selection reproducible when the caller does not
// supply a seed.
const defaultSeed = 0x63757261 // "cura"

// Rank scores the candidate pool against a profile and returns the final
// recommendation list. Watched items and excluded genres are filtered before
// scoring, quality floors after; ties break on vote count, then title, then
// ID, so identical inputs always produce identical output.
func Rank(candidates []Item, profile *Counters, scorer Scorer, cfg *Config) []RankedItem {
	excludedGenres := make(map[string]bool, len(cfg.ExcludedGenres))
	for _, g := range cfg.ExcludedGenres {
		excludedGenres[NormalizeGenre(g)] = true
	}

	scored := make([]RankedItem, 0, len(candidates))
	for i := range candidates {
		item := &candidates[i]
		if item.TMDBID != 0 && profile.TMDBIDs[item.TMDBID] {
			continue
		}
		if item.Title != "" && profile.WatchedTitles[strings.ToLower(NormalizeTitle(item.Title))] {
			continue
		}
		if hasExcludedGenre(item, excludedGenres) {
			continue
		}
		if cfg.MinRating > 0 && item.Rating < cfg.MinRating {
			continue
		}
		if cfg.MinVoteCount > 0 && item.VoteCount < cfg.MinVoteCount {
			continue
		}

		score, breakdown := scorer.Score(item, profile)
		if score <= 0 {
			continue
		}
		scored = append(scored, RankedItem{Item: *item, Score: score, Breakdown: breakdown})
	}

	sortRanked(scored)

	if cfg.Randomize {
		return tieredSelect(scored, cfg.Limit, cfg.Seed)
	}
	if len(scored) > cfg.Limit {
		scored = scored[:cfg.Limit]
	}
	return scored
}

func hasExcludedGenre(item *Item, excluded map[string]bool) bool {
	if len(excluded) == 0 {
		return false
	}
	for _, g := range item.Genres {
		if excluded[NormalizeGenre(g)] {
			return true
		}
	}
	return false
}

// sortRanked orders by score descending with a deterministic tie-break
// chain: vote count descending, title ascending, ID ascending.
func sortRanked(items []RankedItem) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Item.VoteCount != b.Item.VoteCount {
			return a.Item.VoteCount > b.Item.VoteCount
		}
		if a.Item.Title != b.Item.Title {
			return strings.ToLower(a.Item.Title) < strings.ToLower(b.Item.Title)
		}
		return a.Item.ID < b.Item.ID
	})
}

// tieredSelect draws limit items from three score-percentile pools: 60% safe
// picks from the top fifth, 30% diverse picks from the middle, 10% wildcards
// from the tail. Randomness stays inside each pool, so a wildcard can never
// outrank the pool it was drawn from misleadingly: the final list is
// re-sorted by score. Input must already be sorted.
func tieredSelect(sorted []RankedItem, limit int, seed int64) []RankedItem {
	if len(sorted) <= limit {
		return sorted
	}
	if seed == 0 {
		seed = defaultSeed
	}
	rng := rand.New(rand.NewSource(seed))

	safeEnd := len(sorted) / 5
	diverseEnd := len(sorted) * 3 / 5
	if safeEnd == 0 {
		safeEnd = 1
	}
	if diverseEnd <= safeEnd {
		diverseEnd = safeEnd
	}

	pools := [][]RankedItem{
		sorted[:safeEnd],
		sorted[safeEnd:diverseEnd],
		sorted[diverseEnd:],
	}
	quotas := []int{
		limit * 60 / 100,
		limit * 30 / 100,
		0,
	}
	quotas[2] = limit - quotas[0] - quotas[1]

	picked := make([]RankedItem, 0, limit)
	short := 0
	for i, pool := range pools {
		want := quotas[i] + short
		got := samplePool(rng, pool, want)
		short = want - len(got)
		picked = append(picked, got...)
	}

	// Backfill from the strongest pools if the tail ran dry.
	if short > 0 {
		taken := make(map[string]bool, len(picked))
		for _, it := range picked {
			taken[it.Item.ID] = true
		}
		for _, it := range sorted {
			if short == 0 {
				break
			}
			if !taken[it.Item.ID] {
				picked = append(picked, it)
				short--
			}
		}
	}

	sortRanked(picked)
	return picked
}

func samplePool(rng *rand.Rand, pool []RankedItem, n int) []RankedItem {
	if n >= len(pool) {
		out := make([]RankedItem, len(pool))
		copy(out, pool)
		return out
	}
	idx := rng.Perm(len(pool))[:n]
	out := make([]RankedItem, 0, n)
	for _, i := range idx {
		out = append(out, pool[i])
	}
	return out
}
