// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

// Package history supplies watch facts from exported history files. Each
// user has one JSON file per media type plus an optional show-progress file,
// as produced by the library sync tooling:
//
//	<dir>/<user>.movie.json    []recommend.HistoryEntry
//	<dir>/<user>.tv.json       []recommend.HistoryEntry
//	<dir>/<user>.progress.json []recommend.ShowProgress
//
// A missing file means no history, not an error.
package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/curatarr/curatarr/internal/recommend"
)

// FileSource reads watch history from a directory of JSON exports.
type FileSource struct {
	dir string
}

// NewFileSource returns a source over dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// History implements recommend.HistorySource.
func (s *FileSource) History(_ context.Context, user string, mediaType recommend.MediaType) ([]recommend.HistoryEntry, error) {
	var entries []recommend.HistoryEntry
	if err := s.readJSON(user, string(mediaType), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ShowProgress implements recommend.HistorySource.
func (s *FileSource) ShowProgress(_ context.Context, user string) ([]recommend.ShowProgress, error) {
	var progress []recommend.ShowProgress
	if err := s.readJSON(user, "progress", &progress); err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *FileSource) readJSON(user, kind string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, sanitize(user)+"."+kind+".json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s history for %s: %w", kind, user, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s history for %s: %w", kind, user, err)
	}
	return nil
}

// sanitize keeps user-supplied names from escaping the export directory.
func sanitize(user string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, user)
}
