// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

package recommend

import "testing"

func TestIdentifyDroppedShows(t *testing.T) {
	cfg := DefaultNegativeSignals()

	tests := []struct {
		name     string
		progress ShowProgress
		dropped  bool
	}{
		{
			"two of ten episodes",
			ShowProgress{ShowID: "x", WatchedEpisodes: 2, TotalEpisodes: 10, Status: ShowStatusEnded},
			true,
		},
		{
			"abandoned early",
			ShowProgress{ShowID: "a", WatchedEpisodes: 3, TotalEpisodes: 60, Status: ShowStatusEnded},
			true,
		},
		{
			"finished show",
			ShowProgress{ShowID: "b", WatchedEpisodes: 60, TotalEpisodes: 60, Status: ShowStatusEnded},
			false,
		},
		{
			"watched well past threshold",
			ShowProgress{ShowID: "c", WatchedEpisodes: 30, TotalEpisodes: 60, Status: ShowStatusEnded},
			false,
		},
		{
			"single episode sampled",
			ShowProgress{ShowID: "d", WatchedEpisodes: 1, TotalEpisodes: 60, Status: ShowStatusEnded},
			false,
		},
		{
			"miniseries too short to judge",
			ShowProgress{ShowID: "e", WatchedEpisodes: 2, TotalEpisodes: 2},
			false,
		},
		{
			"exactly at completion threshold",
			ShowProgress{ShowID: "f", WatchedEpisodes: 15, TotalEpisodes: 60, Status: ShowStatusEnded},
			false,
		},
		{
			"just under completion threshold",
			ShowProgress{ShowID: "g", WatchedEpisodes: 14, TotalEpisodes: 60, Status: ShowStatusEnded},
			true,
		},
		{
			"still airing",
			ShowProgress{ShowID: "h", WatchedEpisodes: 3, TotalEpisodes: 60, Status: ShowStatusAiring},
			false,
		},
		{
			"unknown status falls back to ratio rule",
			ShowProgress{ShowID: "i", WatchedEpisodes: 3, TotalEpisodes: 60},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IdentifyDroppedShows([]ShowProgress{tt.progress}, cfg)
			if got[tt.progress.ShowID] != tt.dropped {
				t.Errorf("dropped = %v, want %v", got[tt.progress.ShowID], tt.dropped)
			}
		})
	}
}

func TestIdentifyDroppedShowsAiringPolicy(t *testing.T) {
	cfg := DefaultNegativeSignals()
	cfg.DroppedShows.TreatAiringAsDropped = true

	progress := []ShowProgress{
		{ShowID: "airing", WatchedEpisodes: 3, TotalEpisodes: 60, Status: ShowStatusAiring},
	}
	if got := IdentifyDroppedShows(progress, cfg); !got["airing"] {
		t.Error("airing show not dropped with TreatAiringAsDropped set")
	}
}

func TestIdentifyDroppedShowsDisabled(t *testing.T) {
	cfg := DefaultNegativeSignals()
	cfg.DroppedShows.Enabled = false

	progress := []ShowProgress{
		{ShowID: "a", WatchedEpisodes: 3, TotalEpisodes: 60, Status: ShowStatusEnded},
	}
	if got := IdentifyDroppedShows(progress, cfg); len(got) != 0 {
		t.Errorf("disabled detection returned %v", got)
	}
}
