// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

// Package profilestore persists aggregated profiles as JSON files, one per
// user and media type. Profiles are pure caches: a corrupt or missing file
// means cold start, never failure.
package profilestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/curatarr/curatarr/internal/logging"
	"github.com/curatarr/curatarr/internal/recommend"
)

// Store is a directory of profile JSON files.
type Store struct {
	dir string
}

// Open ensures the directory exists and returns a store over it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create profile directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Load returns the stored profile for key, or recommend.ErrNotFound. A file
// that fails to decode is treated as absent and logged, so a bad write can
// never wedge the pipeline.
func (s *Store) Load(_ context.Context, key string) (*recommend.StoredProfile, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, recommend.ErrNotFound
		}
		return nil, fmt.Errorf("read profile %s: %w", key, err)
	}

	profile := &recommend.StoredProfile{}
	if err := json.Unmarshal(data, profile); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("corrupt profile file, rebuilding from scratch")
		return nil, recommend.ErrNotFound
	}
	return profile, nil
}

// Save persists the profile atomically via a temp file rename.
func (s *Store) Save(_ context.Context, key string, profile *recommend.StoredProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", key, err)
	}

	target := s.path(key)
	tmp, err := os.CreateTemp(s.dir, ".profile-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp profile: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write profile %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close profile %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("rename profile %s: %w", key, err)
	}
	return nil
}

// path maps a profile key to a filename. Colons in keys (user:mediatype)
// are not filesystem-safe everywhere.
func (s *Store) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(s.dir, safe+".json")
}
