// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

// Package recommend implements the profile-aggregation and recommendation
// pipeline: it folds Plex watch history into weighted preference counters,
// applies recency/rating/rewatch multipliers (including negative signals for
// disliked and dropped content), fingerprints the resulting profile for cache
// invalidation, and ranks unwatched candidates scored against it.
//
// The package has no dependencies on storage or transport. Collaborators are
// expressed as narrow interfaces (MediaProcessor, MetadataStore,
// ProfileStore, Scorer) wired together by the Engine; implementations live in
// the metastore, profilestore, and scoring packages and are composed in
// cmd/curatarr.
//
// # Data flow
//
//	watch history ──► multipliers ──► Aggregator ──► Counters ──► ProfileHash
//	                                                    │
//	            candidates ──► Scorer ──► Rank ◄────────┘
//
// Aggregation is a strict fold: addition is commutative, so the same history
// in any order produces the same profile (within floating-point epsilon).
package recommend
