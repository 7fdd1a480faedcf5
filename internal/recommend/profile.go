// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

package recommend

import (
	"math"
	"strings"
	"time"
)

// Aggregator folds watched items into a preference profile. Each item's
// combined multiplier weight is added to every attribute the item carries;
// order of Add calls does not affect the result.
type Aggregator struct {
	cfg       *Config
	mediaType MediaType
	now       time.Time
	counters  *Counters
}

// NewAggregator returns an aggregator for one scoring run. now anchors the
// recency-decay tiers so a run produces one consistent profile regardless of
// how long it takes.
func NewAggregator(cfg *Config, mediaType MediaType, now time.Time) *Aggregator {
	return &Aggregator{
		cfg:       cfg,
		mediaType: mediaType,
		now:       now,
		counters:  NewCounters(),
	}
}

// Add folds a watched item into the profile using its combined
// recency/rating/rewatch weight.
func (a *Aggregator) Add(w *WatchedItem) {
	weight := ItemWeight(w, a.mediaType, a.now, a.cfg)
	a.apply(&w.Item, weight)
}

// AddPenalized folds an item in with an explicit negative weight, bypassing
// the multiplier chain. Used for dropped shows, whose penalty comes from the
// abandonment rule rather than a rating.
func (a *Aggregator) AddPenalized(item *Item, weight float64) {
	if weight > 0 {
		weight = -weight
	}
	a.apply(item, weight)
}

// Counters returns the accumulated profile.
func (a *Aggregator) Counters() *Counters {
	return a.counters
}

func (a *Aggregator) apply(item *Item, weight float64) {
	delta := weight
	if delta < 0 && a.cfg.NegativeSignals.BadRatings.CapPenalty > 0 {
		// A single item may only push an entry so far down.
		delta = math.Max(delta, -a.cfg.NegativeSignals.BadRatings.CapPenalty)
	}

	for _, genre := range item.Genres {
		a.counters.Genres[NormalizeGenre(genre)] += delta
	}
	for _, actor := range item.Cast {
		a.counters.Actors[strings.ToLower(actor)] += delta
	}

	if a.mediaType == MediaTypeTV {
		if item.Studio != "" {
			a.counters.Studios[strings.ToLower(item.Studio)] += delta
		}
	} else {
		for _, director := range item.Directors {
			a.counters.Directors[strings.ToLower(director)] += delta
		}
	}

	if item.Language != "" {
		a.counters.Languages[strings.ToLower(item.Language)] += delta
	}
	for _, keyword := range item.Keywords {
		a.counters.Keywords[strings.ToLower(keyword)] += delta
	}

	// Collections track plain membership counts for the sequel bonus;
	// penalized items don't feed it.
	if delta > 0 && item.CollectionID != 0 {
		a.counters.Collections[item.CollectionID]++
	}

	// The exclusion sets are unconditional: watched is watched, liked or not.
	if item.TMDBID != 0 {
		a.counters.TMDBIDs[item.TMDBID] = true
	}
	if item.Title != "" {
		a.counters.WatchedTitles[strings.ToLower(NormalizeTitle(item.Title))] = true
	}
}
