// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

package recommend

import (
	"time"
)

// MediaType identifies the library type a pipeline operates on.
type MediaType string

const (
	// MediaTypeMovie is a movie library. Movies score the director dimension.
	MediaTypeMovie MediaType = "movie"
	// MediaTypeTV is a TV library. Shows score the studio dimension instead
	// of directors, and normalize rewatch counts by watched episodes.
	MediaTypeTV MediaType = "tv"
)

// Item holds the metadata of a single library entry. The same shape serves
// watched items and unscored candidates; it is sourced from the media
// metadata store and immutable during a scoring run.
type Item struct {
	// ID is the Plex rating-key-equivalent string identifier.
	ID string `json:"id"`

	// Type is the library type the item belongs to.
	Type MediaType `json:"type"`

	// TMDBID is the TMDB identifier, 0 when unknown.
	TMDBID int `json:"tmdb_id,omitempty"`

	// Title is the display title.
	Title string `json:"title"`

	// Year is the release year.
	Year int `json:"year,omitempty"`

	// Genres is a slice of genre names.
	Genres []string `json:"genres,omitempty"`

	// Directors is a slice of director names (movies).
	Directors []string `json:"directors,omitempty"`

	// Studio is the production studio (TV).
	Studio string `json:"studio,omitempty"`

	// Cast is a slice of actor names.
	Cast []string `json:"cast,omitempty"`

	// Language is the primary audio language.
	Language string `json:"language,omitempty"`

	// Keywords is a slice of TMDB keywords.
	Keywords []string `json:"keywords,omitempty"`

	// CollectionID is the TMDB collection the item belongs to, 0 when none.
	CollectionID int `json:"collection_id,omitempty"`

	// CollectionName is the TMDB collection name.
	CollectionName string `json:"collection_name,omitempty"`

	// Rating is the community rating (0-10).
	Rating float64 `json:"rating,omitempty"`

	// VoteCount is the number of community votes behind Rating.
	VoteCount int `json:"vote_count,omitempty"`
}

// WatchedItem couples item metadata with the watch facts that determine its
// weight in the profile. Constructed per scoring run from the metadata store
// plus the history source; never persisted.
type WatchedItem struct {
	Item

	// ViewedAt is when the item was last watched. Zero means unknown, which
	// disables recency decay for the item.
	ViewedAt time.Time

	// UserRating is the user's rating on a 0-10 scale. 0 means unrated.
	UserRating float64

	// ViewCount is the total number of plays. For TV shows this counts
	// episode plays, not show completions.
	ViewCount int

	// WatchedEpisodes is the number of distinct episodes watched (TV only).
	// Used to normalize ViewCount so a long show contributes a base weight
	// of 1.0 regardless of episode count.
	WatchedEpisodes int
}

// HistoryEntry is a single watch-history fact as supplied by the history
// source collaborator. Metadata is joined in by the engine.
type HistoryEntry struct {
	// ItemID is the rating-key-equivalent identifier of the watched item.
	ItemID string `json:"item_id"`

	// ViewedAt is when the item was last watched (zero when unknown).
	ViewedAt time.Time `json:"viewed_at"`

	// UserRating is the user's 0-10 rating, 0 when unrated.
	UserRating float64 `json:"user_rating"`

	// ViewCount is the number of plays (defaults to 1 when unset).
	ViewCount int `json:"view_count"`

	// WatchedEpisodes is the distinct episode count for shows.
	WatchedEpisodes int `json:"watched_episodes,omitempty"`
}

// ScoreBreakdown explains how a candidate's score was assembled.
type ScoreBreakdown struct {
	// Total is the final score in [0, 1] after all bonuses.
	Total float64 `json:"total"`

	// PerCategory maps dimension name (genre, actor, director, studio,
	// language, keyword) to its weighted contribution.
	PerCategory map[string]float64 `json:"per_category"`

	// Details maps dimension name to a human-readable explanation of the
	// matches behind the contribution.
	Details map[string]string `json:"details,omitempty"`

	// CollectionBonus is the multiplicative sequel bonus applied, 0 when
	// none.
	CollectionBonus float64 `json:"collection_bonus,omitempty"`
}

// RankedItem is a scored candidate in the final recommendation list.
type RankedItem struct {
	// Item is the candidate metadata.
	Item Item `json:"item"`

	// Score is the final similarity score in [0, 1].
	Score float64 `json:"score"`

	// Breakdown explains the score for transparency and debugging.
	Breakdown *ScoreBreakdown `json:"breakdown,omitempty"`
}

// ShowStatus describes whether a show has finished airing. Sources that
// cannot supply it leave it empty and the completion-ratio-only rule applies.
type ShowStatus string

const (
	// ShowStatusUnknown means the source supplied no airing information.
	ShowStatusUnknown ShowStatus = ""
	// ShowStatusEnded means the show has finished airing.
	ShowStatusEnded ShowStatus = "ended"
	// ShowStatusAiring means the show is still airing.
	ShowStatusAiring ShowStatus = "airing"
)

// ShowProgress records per-show episode completion, used to detect dropped
// shows. Raw counts come from the history source collaborator.
type ShowProgress struct {
	// ShowID is the rating-key-equivalent identifier of the show.
	ShowID string `json:"show_id"`

	// WatchedEpisodes is the number of distinct episodes watched.
	WatchedEpisodes int `json:"watched_episodes"`

	// TotalEpisodes is the number of episodes available in the library.
	TotalEpisodes int `json:"total_episodes"`

	// Status is the airing status when the source can supply it.
	Status ShowStatus `json:"status,omitempty"`
}

// CompletionPercent returns the watched fraction as a percentage.
func (p ShowProgress) CompletionPercent() float64 {
	if p.TotalEpisodes <= 0 {
		return 0
	}
	return float64(p.WatchedEpisodes) / float64(p.TotalEpisodes) * 100
}

// Scorer computes a similarity score between a candidate and an aggregated
// profile. Implemented by the scoring package; kept as an interface here so
// the engine and ranker stay free of scoring internals.
type Scorer interface {
	// Score returns the candidate's similarity to the profile in [0, 1]
	// with a per-dimension breakdown. An empty profile scores 0, never an
	// error.
	Score(item *Item, profile *Counters) (float64, *ScoreBreakdown)
}
