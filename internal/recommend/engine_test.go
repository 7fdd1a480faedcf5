// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

package recommend

import (
	"context"
	"testing"
	"time"
)

type mockHistory struct {
	entries  []HistoryEntry
	progress []ShowProgress
	calls    int
}

func (m *mockHistory) History(_ context.Context, _ string, _ MediaType) ([]HistoryEntry, error) {
	m.calls++
	return m.entries, nil
}

func (m *mockHistory) ShowProgress(_ context.Context, _ string) ([]ShowProgress, error) {
	return m.progress, nil
}

type mockMetadata struct {
	items  map[string]*Item
	all    []Item
	misses int
}

func (m *mockMetadata) Get(_ context.Context, id string) (*Item, error) {
	item, ok := m.items[id]
	if !ok {
		m.misses++
		return nil, ErrNotFound
	}
	return item, nil
}

func (m *mockMetadata) All(_ context.Context, _ MediaType) ([]Item, error) {
	return m.all, nil
}

type mockProfiles struct {
	stored map[string]*StoredProfile
	saves  int
}

func (m *mockProfiles) Load(_ context.Context, key string) (*StoredProfile, error) {
	p, ok := m.stored[key]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockProfiles) Save(_ context.Context, key string, profile *StoredProfile) error {
	if m.stored == nil {
		m.stored = make(map[string]*StoredProfile)
	}
	m.stored[key] = profile
	m.saves++
	return nil
}

// overlapScorer scores by shared normalized genres over profile genres.
type overlapScorer struct{}

func (overlapScorer) Score(item *Item, profile *Counters) (float64, *ScoreBreakdown) {
	total := PositiveTotal(profile.Genres)
	if total <= 0 {
		return 0, &ScoreBreakdown{}
	}
	var raw float64
	for _, g := range item.Genres {
		raw += profile.Genres[NormalizeGenre(g)]
	}
	score := raw / total
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, &ScoreBreakdown{Total: score}
}

func newTestEngine(t *testing.T, history *mockHistory, metadata *mockMetadata, profiles *mockProfiles) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Limit = 5
	eng, err := NewEngine(cfg, history, metadata, profiles, map[MediaType]Scorer{
		MediaTypeMovie: overlapScorer{},
		MediaTypeTV:    overlapScorer{},
	}, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	eng.nowFn = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	return eng
}

func TestEngineRecommendEndToEnd(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	history := &mockHistory{entries: []HistoryEntry{
		{ItemID: "w1", ViewedAt: now.AddDate(0, 0, -5), UserRating: 9, ViewCount: 1},
		{ItemID: "w2", ViewedAt: now.AddDate(0, 0, -200), UserRating: 8, ViewCount: 1},
	}}
	metadata := &mockMetadata{
		items: map[string]*Item{
			"w1": {ID: "w1", TMDBID: 1, Title: "Blade Runner", Genres: []string{"Sci-Fi"}},
			"w2": {ID: "w2", TMDBID: 2, Title: "Chinatown", Genres: []string{"Crime"}},
		},
		all: []Item{
			{ID: "c1", TMDBID: 10, Title: "Dune", Genres: []string{"Science Fiction"}, VoteCount: 900},
			{ID: "c2", TMDBID: 11, Title: "Heat", Genres: []string{"Crime"}, VoteCount: 800},
			{ID: "c3", TMDBID: 12, Title: "Airplane!", Genres: []string{"Comedy"}, VoteCount: 700},
			{ID: "w1c", TMDBID: 1, Title: "Blade Runner", Genres: []string{"Sci-Fi"}, VoteCount: 999},
		},
	}
	profiles := &mockProfiles{}

	eng := newTestEngine(t, history, metadata, profiles)
	resp, err := eng.Recommend(context.Background(), "alice", MediaTypeMovie)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if resp.WatchedCount != 2 {
		t.Errorf("WatchedCount = %d, want 2", resp.WatchedCount)
	}
	if resp.ProfileHash == "" {
		t.Error("ProfileHash empty")
	}
	if len(resp.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want 2 (comedy scores 0, watched excluded)", len(resp.Recommendations))
	}
	// Sci-fi watched recently (weight 1.0) outweighs crime watched 200 days
	// ago (weight 0.1875).
	if resp.Recommendations[0].Item.ID != "c1" {
		t.Errorf("top recommendation = %s, want c1", resp.Recommendations[0].Item.ID)
	}
	for _, r := range resp.Recommendations {
		if r.Item.TMDBID == 1 || r.Item.TMDBID == 2 {
			t.Errorf("watched item %d recommended", r.Item.TMDBID)
		}
	}
	if profiles.saves != 1 {
		t.Errorf("profile saves = %d, want 1", profiles.saves)
	}
}

func TestEngineSkipsMissingMetadata(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	history := &mockHistory{entries: []HistoryEntry{
		{ItemID: "w1", ViewedAt: now, UserRating: 9, ViewCount: 1},
		{ItemID: "ghost", ViewedAt: now, UserRating: 9, ViewCount: 1},
	}}
	metadata := &mockMetadata{
		items: map[string]*Item{
			"w1": {ID: "w1", TMDBID: 1, Title: "Alien", Genres: []string{"Horror"}},
		},
	}

	eng := newTestEngine(t, history, metadata, &mockProfiles{})
	resp, err := eng.Recommend(context.Background(), "alice", MediaTypeMovie)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if resp.SkippedMetadata != 1 {
		t.Errorf("SkippedMetadata = %d, want 1", resp.SkippedMetadata)
	}
	if metadata.misses != 1 {
		t.Errorf("metadata misses = %d, want 1", metadata.misses)
	}
}

func TestEngineEmptyHistory(t *testing.T) {
	eng := newTestEngine(t, &mockHistory{}, &mockMetadata{}, &mockProfiles{})
	resp, err := eng.Recommend(context.Background(), "newuser", MediaTypeMovie)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(resp.Recommendations) != 0 {
		t.Errorf("empty history produced %d recommendations", len(resp.Recommendations))
	}
	if resp.WatchedCount != 0 {
		t.Errorf("WatchedCount = %d, want 0", resp.WatchedCount)
	}
}

func TestEngineProfileCacheSkipsRebuild(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	history := &mockHistory{entries: []HistoryEntry{
		{ItemID: "w1", ViewedAt: now, UserRating: 9, ViewCount: 1},
	}}
	metadata := &mockMetadata{
		items: map[string]*Item{
			"w1": {ID: "w1", TMDBID: 1, Title: "Alien", Genres: []string{"Horror"}},
		},
		all: []Item{{ID: "c1", TMDBID: 10, Title: "The Thing", Genres: []string{"Horror"}}},
	}
	profiles := &mockProfiles{}

	eng := newTestEngine(t, history, metadata, profiles)
	first, err := eng.Recommend(context.Background(), "alice", MediaTypeMovie)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := eng.Recommend(context.Background(), "alice", MediaTypeMovie)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if profiles.saves != 1 {
		t.Errorf("profile saves = %d, want 1 (second run should reuse)", profiles.saves)
	}
	if first.ProfileHash != second.ProfileHash {
		t.Errorf("hash changed across unchanged history: %q != %q", first.ProfileHash, second.ProfileHash)
	}
}

func TestEngineDroppedShowPenalized(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	history := &mockHistory{
		entries: []HistoryEntry{
			{ItemID: "s1", ViewedAt: now, UserRating: 9, ViewCount: 60, WatchedEpisodes: 60},
			{ItemID: "s2", ViewedAt: now, ViewCount: 3, WatchedEpisodes: 3},
		},
		progress: []ShowProgress{
			{ShowID: "s1", WatchedEpisodes: 60, TotalEpisodes: 60, Status: ShowStatusEnded},
			{ShowID: "s2", WatchedEpisodes: 3, TotalEpisodes: 60, Status: ShowStatusEnded},
		},
	}
	metadata := &mockMetadata{
		items: map[string]*Item{
			"s1": {ID: "s1", TMDBID: 1, Title: "The Wire", Genres: []string{"Crime"}, Studio: "HBO"},
			"s2": {ID: "s2", TMDBID: 2, Title: "Lost", Genres: []string{"Mystery"}, Studio: "ABC"},
		},
	}

	eng := newTestEngine(t, history, metadata, &mockProfiles{})
	profile, err := eng.Profile(context.Background(), "alice", MediaTypeTV)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}

	if got := profile.Counters.Genres["crime"]; got <= 0 {
		t.Errorf("finished show genre weight = %v, want positive", got)
	}
	if got := profile.Counters.Genres["mystery"]; got >= 0 {
		t.Errorf("dropped show genre weight = %v, want negative", got)
	}
	if !profile.Counters.TMDBIDs[2] {
		t.Error("dropped show missing from exclusion set")
	}
}

func TestEngineUnknownMediaType(t *testing.T) {
	eng := newTestEngine(t, &mockHistory{}, &mockMetadata{}, &mockProfiles{})
	if _, err := eng.Recommend(context.Background(), "alice", MediaType("music")); err == nil {
		t.Error("expected error for unregistered media type")
	}
}
