// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

package recommend

// IdentifyDroppedShows returns the set of show IDs the user started and
// abandoned: watched at least the minimum episodes, yet completed less than
// the configured percentage of a show large enough for the ratio to mean
// anything. Shows still airing are skipped unless TreatAiringAsDropped is
// set, since low completion there usually means "caught up and waiting".
func IdentifyDroppedShows(progress []ShowProgress, cfg NegativeSignalsConfig) map[string]bool {
	dropped := make(map[string]bool)
	if !cfg.Enabled || !cfg.DroppedShows.Enabled {
		return dropped
	}

	rule := cfg.DroppedShows
	for _, p := range progress {
		if p.WatchedEpisodes < rule.MinEpisodesWatched {
			continue
		}
		if p.TotalEpisodes <= rule.MinEpisodesWatched {
			continue
		}
		if p.Status == ShowStatusAiring && !rule.TreatAiringAsDropped {
			continue
		}
		if p.CompletionPercent() < rule.MaxCompletionPercent {
			dropped[p.ShowID] = true
		}
	}
	return dropped
}
