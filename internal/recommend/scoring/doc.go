// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

// Package scoring implements the content-based similarity scorer used by the
// recommendation engine. A candidate is scored against the aggregated
// profile one dimension at a time (genres, people, studio, language,
// keywords); each dimension's overlap is normalized by the profile's total
// positive weight in that category, clamped to [0, 1], and combined as a
// weighted sum. Movies in a partially-watched collection receive a small
// multiplicative sequel bonus on top.
package scoring
