// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

package recommend

import (
	"fmt"
	"math"
)

// Weights defines the relative contribution of each scoring dimension.
// Callers are warned, not blocked, when they don't sum to 1.0: the weighted
// sum still lands in [0, 1] as long as individual weights do.
type Weights struct {
	// Genre is the weight of the genre-overlap dimension.
	Genre float64 `json:"genre" koanf:"genre"`

	// Director is the weight of the director dimension (movies only).
	Director float64 `json:"director" koanf:"director"`

	// Studio is the weight of the studio dimension (TV only).
	Studio float64 `json:"studio" koanf:"studio"`

	// Actor is the weight of the cast-overlap dimension.
	Actor float64 `json:"actor" koanf:"actor"`

	// Language is the weight of the language exact-match dimension.
	Language float64 `json:"language" koanf:"language"`

	// Keyword is the weight of the keyword-overlap dimension.
	Keyword float64 `json:"keyword" koanf:"keyword"`
}

// DefaultWeights returns the specificity-first default weighting: keywords
// carry the most signal, genres and actors moderate, language almost none.
func DefaultWeights() Weights {
	return Weights{
		Genre:    0.25,
		Director: 0.05,
		Studio:   0.10,
		Actor:    0.20,
		Language: 0.0,
		Keyword:  0.50,
	}
}

// Sum returns the total weight for the given media type. Director counts
// only for movies, studio only for TV.
func (w Weights) Sum(mediaType MediaType) float64 {
	sum := w.Genre + w.Actor + w.Language + w.Keyword
	if mediaType == MediaTypeTV {
		return sum + w.Studio
	}
	return sum + w.Director
}

// RecencyDecayConfig maps elapsed-time tiers since a watch to weight
// multipliers. Tier boundaries are inclusive (<=).
type RecencyDecayConfig struct {
	// Enabled toggles decay. When false every item gets multiplier 1.0.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// Days0to30 is the multiplier for watches within the last 30 days.
	Days0to30 float64 `json:"days_0_30" koanf:"days_0_30"`

	// Days31to90 is the multiplier for watches 31-90 days ago.
	Days31to90 float64 `json:"days_31_90" koanf:"days_31_90"`

	// Days91to180 is the multiplier for watches 91-180 days ago.
	Days91to180 float64 `json:"days_91_180" koanf:"days_91_180"`

	// Days181to365 is the multiplier for watches 181-365 days ago.
	Days181to365 float64 `json:"days_181_365" koanf:"days_181_365"`

	// Days365Plus is the multiplier for watches over a year ago.
	Days365Plus float64 `json:"days_365_plus" koanf:"days_365_plus"`
}

// DefaultRecencyDecay returns the default decay tiers.
func DefaultRecencyDecay() RecencyDecayConfig {
	return RecencyDecayConfig{
		Enabled:      true,
		Days0to30:    1.0,
		Days31to90:   0.75,
		Days91to180:  0.50,
		Days181to365: 0.25,
		Days365Plus:  0.10,
	}
}

// BadRatingsConfig controls the low-rating negative signal: items rated at
// or below Threshold penalize their attributes instead of weakly
// reinforcing them.
type BadRatingsConfig struct {
	// Enabled toggles the negative-rating path.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// Threshold is the rounded 0-10 rating at or below which an item
	// becomes a negative signal. Default: 3.
	Threshold int `json:"threshold" koanf:"threshold"`

	// CapPenalty bounds how much negative weight a single item may add to
	// any one counter entry, so one hated movie cannot sink an entire
	// genre. Default: 0.5.
	CapPenalty float64 `json:"cap_penalty" koanf:"cap_penalty"`
}

// DroppedShowsConfig controls the abandoned-show negative signal.
type DroppedShowsConfig struct {
	// Enabled toggles dropped-show detection.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// MinEpisodesWatched is the minimum episodes the user must have watched
	// for abandonment to mean anything. Default: 2.
	MinEpisodesWatched int `json:"min_episodes_watched" koanf:"min_episodes_watched"`

	// MaxCompletionPercent is the completion percentage below which a
	// started show counts as dropped. Default: 25.
	MaxCompletionPercent float64 `json:"max_completion_percent" koanf:"max_completion_percent"`

	// PenaltyMultiplier is the (negative) weight applied to a dropped
	// show's attributes. Default: -0.4.
	PenaltyMultiplier float64 `json:"penalty_multiplier" koanf:"penalty_multiplier"`

	// TreatAiringAsDropped controls the still-airing ambiguity: a
	// partially-watched show that is still airing may simply be in
	// progress. When false (the default), shows whose status says airing
	// are never marked dropped; sources without status information fall
	// back to the completion-ratio-only rule.
	TreatAiringAsDropped bool `json:"treat_airing_as_dropped" koanf:"treat_airing_as_dropped"`
}

// NegativeSignalsConfig groups both negative-signal policies so the movie
// and TV paths share one source of truth for thresholds and penalties.
type NegativeSignalsConfig struct {
	// Enabled is the master switch for all negative signals.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// BadRatings configures the low-rating inversion.
	BadRatings BadRatingsConfig `json:"bad_ratings" koanf:"bad_ratings"`

	// DroppedShows configures abandoned-show detection.
	DroppedShows DroppedShowsConfig `json:"dropped_shows" koanf:"dropped_shows"`
}

// DefaultNegativeSignals returns the default negative-signal policy.
func DefaultNegativeSignals() NegativeSignalsConfig {
	return NegativeSignalsConfig{
		Enabled: true,
		BadRatings: BadRatingsConfig{
			Enabled:    true,
			Threshold:  3,
			CapPenalty: 0.5,
		},
		DroppedShows: DroppedShowsConfig{
			Enabled:              true,
			MinEpisodesWatched:   2,
			MaxCompletionPercent: 25,
			PenaltyMultiplier:    -0.4,
			TreatAiringAsDropped: false,
		},
	}
}

// Config contains all tunables for a recommendation pipeline.
type Config struct {
	// Weights defines per-dimension scoring weights.
	Weights Weights `json:"weights" koanf:"weights"`

	// RecencyDecay configures time-based weight decay.
	RecencyDecay RecencyDecayConfig `json:"recency_decay" koanf:"recency_decay"`

	// NegativeSignals configures disliked/dropped content handling.
	NegativeSignals NegativeSignalsConfig `json:"negative_signals" koanf:"negative_signals"`

	// NormalizeCounters divides dimension overlap by the category's total
	// positive weight so a single dominant genre cannot saturate scores.
	NormalizeCounters bool `json:"normalize_counters" koanf:"normalize_counters"`

	// FuzzyKeywords tolerates near-duplicate keyword phrasing when
	// matching, since TMDB keyword vocabularies are inconsistent.
	FuzzyKeywords bool `json:"fuzzy_keywords" koanf:"fuzzy_keywords"`

	// RedistributeWeights moves the weight of profile-empty dimensions to
	// dimensions with data instead of wasting it. Off by default: it bends
	// the plain weighted sum.
	RedistributeWeights bool `json:"redistribute_weights" koanf:"redistribute_weights"`

	// ExcludedGenres lists genres filtered from candidates, matched
	// case-insensitively after normalization.
	ExcludedGenres []string `json:"excluded_genres" koanf:"excluded_genres"`

	// Limit is the maximum number of recommendations returned. Default: 10.
	Limit int `json:"limit" koanf:"limit"`

	// Randomize enables tiered randomized selection instead of a plain
	// top-N cut. Randomization happens within score tiers only.
	Randomize bool `json:"randomize" koanf:"randomize"`

	// MinRating filters candidates below this community rating.
	MinRating float64 `json:"min_rating" koanf:"min_rating"`

	// MinVoteCount filters candidates with fewer community votes.
	MinVoteCount int `json:"min_vote_count" koanf:"min_vote_count"`

	// Seed fixes the random source for tiered selection. If zero, a fixed
	// default seed is used for determinism.
	Seed int64 `json:"seed" koanf:"seed"`
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Weights:           DefaultWeights(),
		RecencyDecay:      DefaultRecencyDecay(),
		NegativeSignals:   DefaultNegativeSignals(),
		NormalizeCounters: true,
		FuzzyKeywords:     true,
		Limit:             10,
	}
}

// Validate checks the configuration for values the pipeline cannot work
// with. Weight sums that deviate from 1.0 are deliberately not an error;
// the engine warns instead.
func (c *Config) Validate() error {
	for name, w := range map[string]float64{
		"genre":    c.Weights.Genre,
		"director": c.Weights.Director,
		"studio":   c.Weights.Studio,
		"actor":    c.Weights.Actor,
		"language": c.Weights.Language,
		"keyword":  c.Weights.Keyword,
	} {
		if w < 0 || w > 1 || math.IsNaN(w) {
			return fmt.Errorf("weight %q must be in [0, 1], got %v", name, w)
		}
	}

	for name, m := range map[string]float64{
		"days_0_30":     c.RecencyDecay.Days0to30,
		"days_31_90":    c.RecencyDecay.Days31to90,
		"days_91_180":   c.RecencyDecay.Days91to180,
		"days_181_365":  c.RecencyDecay.Days181to365,
		"days_365_plus": c.RecencyDecay.Days365Plus,
	} {
		if m < 0 || m > 1 {
			return fmt.Errorf("recency multiplier %q must be in [0, 1], got %v", name, m)
		}
	}

	if c.NegativeSignals.BadRatings.Threshold < 0 || c.NegativeSignals.BadRatings.Threshold > 10 {
		return fmt.Errorf("bad-ratings threshold must be in [0, 10], got %d", c.NegativeSignals.BadRatings.Threshold)
	}
	if c.NegativeSignals.BadRatings.CapPenalty < 0 {
		return fmt.Errorf("cap_penalty must be >= 0, got %v", c.NegativeSignals.BadRatings.CapPenalty)
	}
	if c.NegativeSignals.DroppedShows.PenaltyMultiplier > 0 {
		return fmt.Errorf("dropped-show penalty multiplier must be <= 0, got %v", c.NegativeSignals.DroppedShows.PenaltyMultiplier)
	}
	if c.NegativeSignals.DroppedShows.MaxCompletionPercent < 0 || c.NegativeSignals.DroppedShows.MaxCompletionPercent > 100 {
		return fmt.Errorf("max_completion_percent must be in [0, 100], got %v", c.NegativeSignals.DroppedShows.MaxCompletionPercent)
	}

	if c.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", c.Limit)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.ExcludedGenres = append([]string(nil), c.ExcludedGenres...)
	return &clone
}
