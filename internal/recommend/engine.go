// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/curatarr/curatarr/internal/logging"
)

// ErrNotFound is returned by stores when a key has no value. The engine
// treats it as cold-start, never as failure.
var ErrNotFound = errors.New("not found")

// HistorySource supplies watch facts for a user. Implementations wrap the
// media-server API or an export of it.
type HistorySource interface {
	// History returns all watch entries for the user in the given library
	// type. Order is not significant.
	History(ctx context.Context, user string, mediaType MediaType) ([]HistoryEntry, error)

	// ShowProgress returns per-show episode completion for the user. Only
	// consulted for TV; movie pipelines never call it.
	ShowProgress(ctx context.Context, user string) ([]ShowProgress, error)
}

// MetadataStore resolves item metadata and enumerates the candidate pool.
type MetadataStore interface {
	// Get returns the item with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Item, error)

	// All returns every item of the given media type.
	All(ctx context.Context, mediaType MediaType) ([]Item, error)
}

// ProfileStore persists aggregated profiles between runs so an unchanged
// watch history skips re-aggregation.
type ProfileStore interface {
	// Load returns the stored profile for the key, or ErrNotFound.
	Load(ctx context.Context, key string) (*StoredProfile, error)

	// Save persists the profile under the key.
	Save(ctx context.Context, key string, profile *StoredProfile) error
}

// StoredProfile is the persisted form of an aggregated profile.
type StoredProfile struct {
	// WatchedCount is the history length the profile was built from. A
	// differing count on the next run forces a rebuild.
	WatchedCount int `json:"watched_count"`

	// ProfileHash fingerprints Counters for score-cache invalidation.
	ProfileHash string `json:"profile_hash"`

	// Counters is the aggregated profile.
	Counters *Counters `json:"counters"`

	// UpdatedAt is when the profile was last rebuilt.
	UpdatedAt time.Time `json:"updated_at"`
}

// Observer receives pipeline events for metrics. A nil Observer is valid.
type Observer interface {
	ScoringRun(mediaType string, duration time.Duration)
	ProfileCacheHit()
	ProfileCacheMiss()
	ScoreCacheHit()
	ScoreCacheMiss()
	MetadataMiss()
}

// Response is the result of one recommendation run.
type Response struct {
	// User identifies whose history was scored.
	User string `json:"user"`

	// MediaType is the library type scored.
	MediaType MediaType `json:"media_type"`

	// GeneratedAt is when the run completed.
	GeneratedAt time.Time `json:"generated_at"`

	// ProfileHash fingerprints the profile behind these recommendations.
	ProfileHash string `json:"profile_hash"`

	// WatchedCount is the number of history entries folded in.
	WatchedCount int `json:"watched_count"`

	// SkippedMetadata counts history entries dropped for missing metadata.
	SkippedMetadata int `json:"skipped_metadata,omitempty"`

	// Recommendations is the ranked list, best first.
	Recommendations []RankedItem `json:"recommendations"`
}

// Engine runs the full pipeline: history to profile to ranked
// recommendations, with profile and score caching on top.
type Engine struct {
	cfg      *Config
	history  HistorySource
	metadata MetadataStore
	profiles ProfileStore
	scorers  map[MediaType]Scorer
	observer Observer
	log      zerolog.Logger

	nowFn func() time.Time

	mu         sync.Mutex
	scoreCache map[string][]RankedItem

	warnWeights sync.Once
}

// NewEngine wires the pipeline. scorers must cover every media type the
// engine will be asked to recommend for; observer may be nil.
func NewEngine(cfg *Config, history HistorySource, metadata MetadataStore, profiles ProfileStore, scorers map[MediaType]Scorer, observer Observer) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		cfg:        cfg,
		history:    history,
		metadata:   metadata,
		profiles:   profiles,
		scorers:    scorers,
		observer:   observer,
		log:        logging.With().Str("component", "recommend").Logger(),
		nowFn:      time.Now,
		scoreCache: make(map[string][]RankedItem),
	}, nil
}

// Recommend produces recommendations for a user in one library type. An
// empty watch history yields an empty recommendation list, not an error.
func (e *Engine) Recommend(ctx context.Context, user string, mediaType MediaType) (*Response, error) {
	scorer, ok := e.scorers[mediaType]
	if !ok {
		return nil, fmt.Errorf("no scorer registered for media type %q", mediaType)
	}
	e.checkWeights(mediaType)

	start := e.nowFn()

	entries, err := e.history.History(ctx, user, mediaType)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	profile, skipped, err := e.buildProfile(ctx, user, mediaType, entries)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		User:         user,
		MediaType:    mediaType,
		ProfileHash:  profile.ProfileHash,
		WatchedCount: profile.WatchedCount,
	}
	resp.SkippedMetadata = skipped

	if !profile.Counters.IsEmpty() {
		ranked, err := e.rank(ctx, mediaType, profile, scorer)
		if err != nil {
			return nil, err
		}
		resp.Recommendations = ranked
	} else {
		e.log.Info().Str("user", user).Msg("empty profile, returning no recommendations")
		resp.Recommendations = []RankedItem{}
	}

	resp.GeneratedAt = e.nowFn()
	if e.observer != nil {
		e.observer.ScoringRun(string(mediaType), resp.GeneratedAt.Sub(start))
	}

	e.log.Info().
		Str("user", user).
		Str("media_type", string(mediaType)).
		Int("watched", resp.WatchedCount).
		Int("recommendations", len(resp.Recommendations)).
		Str("profile_hash", resp.ProfileHash).
		Dur("elapsed", resp.GeneratedAt.Sub(start)).
		Msg("recommendation run complete")

	return resp, nil
}

// Profile returns the user's aggregated profile, rebuilding it if the watch
// history has changed since it was stored.
func (e *Engine) Profile(ctx context.Context, user string, mediaType MediaType) (*StoredProfile, error) {
	entries, err := e.history.History(ctx, user, mediaType)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	profile, _, err := e.buildProfile(ctx, user, mediaType, entries)
	return profile, err
}

func (e *Engine) buildProfile(ctx context.Context, user string, mediaType MediaType, entries []HistoryEntry) (*StoredProfile, int, error) {
	key := profileKey(user, mediaType)

	if stored, err := e.profiles.Load(ctx, key); err == nil {
		if stored.WatchedCount == len(entries) && stored.Counters != nil {
			stored.Counters.ensureMaps()
			if e.observer != nil {
				e.observer.ProfileCacheHit()
			}
			e.log.Debug().Str("user", user).Int("watched", len(entries)).Msg("profile unchanged, skipping aggregation")
			return stored, 0, nil
		}
	} else if !errors.Is(err, ErrNotFound) {
		e.log.Warn().Err(err).Str("user", user).Msg("profile load failed, rebuilding")
	}
	if e.observer != nil {
		e.observer.ProfileCacheMiss()
	}

	now := e.nowFn()
	agg := NewAggregator(e.cfg, mediaType, now)

	var dropped map[string]bool
	if mediaType == MediaTypeTV {
		progress, err := e.history.ShowProgress(ctx, user)
		if err != nil {
			return nil, 0, fmt.Errorf("fetch show progress: %w", err)
		}
		dropped = IdentifyDroppedShows(progress, e.cfg.NegativeSignals)
	}

	skipped := 0
	for _, entry := range entries {
		item, err := e.metadata.Get(ctx, entry.ItemID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				skipped++
				if e.observer != nil {
					e.observer.MetadataMiss()
				}
				e.log.Debug().Str("item_id", entry.ItemID).Msg("metadata missing, skipping history entry")
				continue
			}
			return nil, 0, fmt.Errorf("fetch metadata for %s: %w", entry.ItemID, err)
		}

		if dropped[entry.ItemID] {
			agg.AddPenalized(item, e.cfg.NegativeSignals.DroppedShows.PenaltyMultiplier)
			continue
		}

		viewCount := entry.ViewCount
		if viewCount == 0 {
			viewCount = 1
		}
		agg.Add(&WatchedItem{
			Item:            *item,
			ViewedAt:        entry.ViewedAt,
			UserRating:      entry.UserRating,
			ViewCount:       viewCount,
			WatchedEpisodes: entry.WatchedEpisodes,
		})
	}

	counters := agg.Counters()
	profile := &StoredProfile{
		WatchedCount: len(entries),
		ProfileHash:  ProfileHash(counters),
		Counters:     counters,
		UpdatedAt:    now,
	}

	if err := e.profiles.Save(ctx, key, profile); err != nil {
		// Persistence failure degrades to rebuild-every-run, nothing worse.
		e.log.Warn().Err(err).Str("user", user).Msg("profile save failed")
	}

	return profile, skipped, nil
}

func (e *Engine) rank(ctx context.Context, mediaType MediaType, profile *StoredProfile, scorer Scorer) ([]RankedItem, error) {
	cacheKey := profile.ProfileHash + "|" + string(mediaType)

	e.mu.Lock()
	cached, ok := e.scoreCache[cacheKey]
	e.mu.Unlock()
	if ok {
		if e.observer != nil {
			e.observer.ScoreCacheHit()
		}
		return cached, nil
	}
	if e.observer != nil {
		e.observer.ScoreCacheMiss()
	}

	candidates, err := e.metadata.All(ctx, mediaType)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	ranked := Rank(candidates, profile.Counters, scorer, e.cfg)

	e.mu.Lock()
	// Scores are a pure function of the profile; one entry per media type
	// is enough, and dropping stale hashes keeps the cache bounded.
	for k := range e.scoreCache {
		if k != cacheKey && strings.HasSuffix(k, "|"+string(mediaType)) {
			delete(e.scoreCache, k)
		}
	}
	e.scoreCache[cacheKey] = ranked
	e.mu.Unlock()

	return ranked, nil
}

func (e *Engine) checkWeights(mediaType MediaType) {
	e.warnWeights.Do(func() {
		sum := e.cfg.Weights.Sum(mediaType)
		if math.Abs(sum-1.0) > 0.01 {
			e.log.Warn().Float64("sum", sum).Msg("scoring weights do not sum to 1.0, scores will not span the full [0, 1] range")
		}
	})
}

func profileKey(user string, mediaType MediaType) string {
	return user + ":" + string(mediaType)
}
