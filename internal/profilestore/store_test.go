// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

package profilestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/curatarr/curatarr/internal/recommend"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func sampleProfile() *recommend.StoredProfile {
	c := recommend.NewCounters()
	c.Genres["drama"] = 1.5
	c.Actors["amy adams"] = 1.0
	c.Collections[7] = 2
	c.TMDBIDs[100] = true
	return &recommend.StoredProfile{
		WatchedCount: 12,
		ProfileHash:  recommend.ProfileHash(c),
		Counters:     c,
		UpdatedAt:    time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := sampleProfile()
	if err := s.Save(ctx, "alice:movie", want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "alice:movie")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.WatchedCount != 12 || got.ProfileHash != want.ProfileHash {
		t.Errorf("round trip mangled profile: %+v", got)
	}
	if got.Counters.Genres["drama"] != 1.5 {
		t.Errorf("genre weight = %v, want 1.5", got.Counters.Genres["drama"])
	}
	if !got.Counters.TMDBIDs[100] {
		t.Error("exclusion set lost in round trip")
	}
}

func TestLoadMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Load(context.Background(), "nobody:movie"); !errors.Is(err, recommend.ErrNotFound) {
		t.Errorf("Load(missing) = %v, want ErrNotFound", err)
	}
}

func TestLoadCorruptFileIsColdStart(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "alice_movie.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	if _, err := s.Load(context.Background(), "alice:movie"); !errors.Is(err, recommend.ErrNotFound) {
		t.Errorf("Load(corrupt) = %v, want ErrNotFound", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := sampleProfile()
	if err := s.Save(ctx, "alice:movie", first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := sampleProfile()
	second.WatchedCount = 13
	if err := s.Save(ctx, "alice:movie", second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "alice:movie")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.WatchedCount != 13 {
		t.Errorf("WatchedCount = %d, want 13", got.WatchedCount)
	}
}

func TestKeysIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "alice:movie", sampleProfile()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Load(ctx, "alice:tv"); !errors.Is(err, recommend.ErrNotFound) {
		t.Errorf("Load(other media type) = %v, want ErrNotFound", err)
	}
}
