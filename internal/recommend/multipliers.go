// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

package recommend

import (
	"math"
	"time"
)

// negativeRatingTable maps a rounded bad rating to its penalty multiplier.
// Lower ratings penalize harder.
var negativeRatingTable = map[int]float64{
	0: -1.0,
	1: -0.8,
	2: -0.5,
	3: -0.3,
}

// RecencyMultiplier returns the tiered decay multiplier for a watch at
// viewedAt evaluated at now. A zero viewedAt means the source had no
// timestamp; the item keeps full weight rather than being aged into the
// oldest tier.
func RecencyMultiplier(viewedAt, now time.Time, cfg RecencyDecayConfig) float64 {
	if !cfg.Enabled || viewedAt.IsZero() {
		return 1.0
	}

	days := int(now.Sub(viewedAt).Hours() / 24)
	switch {
	case days <= 30:
		return cfg.Days0to30
	case days <= 90:
		return cfg.Days31to90
	case days <= 180:
		return cfg.Days91to180
	case days <= 365:
		return cfg.Days181to365
	default:
		return cfg.Days365Plus
	}
}

// RatingMultiplier converts a user rating on the 0-10 scale into a weight
// multiplier. An unrated item (rating 0) gets a neutral-positive 0.6: the
// user finished it, which is a mild signal by itself. When negative signals
// are active and the rounded rating falls at or below the bad-rating
// threshold, the multiplier goes negative and the item penalizes its
// attributes instead.
func RatingMultiplier(rating float64, cfg NegativeSignalsConfig) float64 {
	if rating <= 0 {
		return 0.6
	}

	rounded := int(math.Round(rating))

	if cfg.Enabled && cfg.BadRatings.Enabled && rounded <= cfg.BadRatings.Threshold {
		if m, ok := negativeRatingTable[rounded]; ok {
			return m
		}
		return negativeRatingTable[3]
	}

	switch {
	case rounded >= 9:
		return 1.0
	case rounded >= 7:
		return 0.75
	case rounded >= 5:
		return 0.5
	default:
		return 0.25
	}
}

// RewatchMultiplier boosts repeatedly watched items logarithmically:
// 1 play is baseline 1.0, 2 plays 2.0, 4 plays 3.0. The log keeps a
// comfort-movie habit from dominating the profile.
func RewatchMultiplier(viewCount int) float64 {
	if viewCount <= 1 {
		return 1.0
	}
	return math.Log2(float64(viewCount)) + 1.0
}

// ItemWeight combines the recency, rating, and rewatch multipliers for a
// watched item. For TV shows the raw play count is episode-level, so it is
// normalized by distinct watched episodes before the rewatch boost; a
// watched-once 100-episode show contributes 1.0, not log2(100)+1.
//
// The sign of the result follows the rating multiplier: a negative weight
// marks the item as a penalizing signal for the aggregator.
func ItemWeight(w *WatchedItem, mediaType MediaType, now time.Time, cfg *Config) float64 {
	recency := RecencyMultiplier(w.ViewedAt, now, cfg.RecencyDecay)
	rating := RatingMultiplier(w.UserRating, cfg.NegativeSignals)

	viewCount := w.ViewCount
	if mediaType == MediaTypeTV && w.WatchedEpisodes > 0 {
		viewCount = w.ViewCount / w.WatchedEpisodes
	}
	rewatch := RewatchMultiplier(viewCount)

	return recency * rating * rewatch
}
