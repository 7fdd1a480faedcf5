// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

package recommend

import "strings"

// genreAliases maps Plex/TMDB genre variants to a single canonical name so
// that "Sci-Fi" in the library and "Science Fiction" from TMDB accumulate
// into the same counter.
var genreAliases = map[string]string{
	"sci-fi":             "science fiction",
	"scifi":              "science fiction",
	"science-fiction":    "science fiction",
	"sci-fi & fantasy":   "science fiction",
	"action & adventure": "action",
	"action/adventure":   "action",
	"war & politics":     "war",
	"tv movie":           "drama",
	"news":               "documentary",
	"talk":               "comedy",
	"reality":            "documentary",
	"soap":               "drama",
	"kids":               "family",
}

// NormalizeGenre lowercases a genre name and folds known variants into their
// canonical form.
func NormalizeGenre(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := genreAliases[lower]; ok {
		return mapped
	}
	return lower
}

// titleSuffixes are release-variant markers stripped before comparing titles
// across libraries.
var titleSuffixes = []string{
	" 4K", " 4k", " HD", " hd", " UHD", " uhd",
	" Extended", " extended", " EXTENDED",
	" Director's Cut", " Directors Cut", " Theatrical",
	" Unrated", " UNRATED", " Remastered", " REMASTERED",
	" Special Edition", " Collector's Edition",
	" IMAX", " 3D", " 3d",
}

// NormalizeTitle strips release-variant suffixes like "4K" or "Extended"
// from a title.
func NormalizeTitle(title string) string {
	normalized := strings.TrimSpace(title)
	for _, suffix := range titleSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			normalized = strings.TrimSpace(strings.TrimSuffix(normalized, suffix))
		}
	}
	return normalized
}
