// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

package scoring

import (
	"math"
	"testing"

	"github.com/curatarr/curatarr/internal/recommend"
)

const floatEps = 1e-9

func genreOnlyConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Weights = recommend.Weights{Genre: 1.0}
	return cfg
}

func TestScoreFullOverlapIsOne(t *testing.T) {
	profile := recommend.NewCounters()
	profile.Genres["drama"] = 2.5

	scorer := NewSimilarityScorer(genreOnlyConfig(), recommend.MediaTypeMovie)
	score, breakdown := scorer.Score(&recommend.Item{
		ID: "1", Title: "Candidate", Genres: []string{"Drama"},
	}, profile)

	if math.Abs(score-1.0) > floatEps {
		t.Errorf("full single-genre overlap score = %v, want exactly 1.0", score)
	}
	if math.Abs(breakdown.PerCategory["genre"]-1.0) > floatEps {
		t.Errorf("genre contribution = %v, want 1.0", breakdown.PerCategory["genre"])
	}
}

func TestScorePartialOverlap(t *testing.T) {
	profile := recommend.NewCounters()
	profile.Genres["drama"] = 1.0
	profile.Genres["comedy"] = 1.0
	profile.Genres["horror"] = 2.0

	scorer := NewSimilarityScorer(genreOnlyConfig(), recommend.MediaTypeMovie)
	score, _ := scorer.Score(&recommend.Item{
		ID: "1", Genres: []string{"Drama"},
	}, profile)

	// 1.0 of 4.0 total positive genre weight.
	if math.Abs(score-0.25) > floatEps {
		t.Errorf("partial overlap score = %v, want 0.25", score)
	}
}

func TestScoreNegativeWeightsReduce(t *testing.T) {
	profile := recommend.NewCounters()
	profile.Genres["drama"] = 2.0
	profile.Genres["horror"] = -0.5

	scorer := NewSimilarityScorer(genreOnlyConfig(), recommend.MediaTypeMovie)
	mixed, _ := scorer.Score(&recommend.Item{ID: "1", Genres: []string{"Drama", "Horror"}}, profile)
	clean, _ := scorer.Score(&recommend.Item{ID: "2", Genres: []string{"Drama"}}, profile)

	if mixed >= clean {
		t.Errorf("penalized genre did not reduce score: mixed %v >= clean %v", mixed, clean)
	}
	// Overlap 2.0 - 0.5 = 1.5 over positive total 2.0.
	if math.Abs(mixed-0.75) > floatEps {
		t.Errorf("mixed score = %v, want 0.75", mixed)
	}
}

func TestScoreClampedNonNegative(t *testing.T) {
	profile := recommend.NewCounters()
	profile.Genres["drama"] = 0.1
	profile.Genres["horror"] = -0.5

	scorer := NewSimilarityScorer(genreOnlyConfig(), recommend.MediaTypeMovie)
	score, _ := scorer.Score(&recommend.Item{ID: "1", Genres: []string{"Horror"}}, profile)
	if score != 0 {
		t.Errorf("net-negative overlap score = %v, want 0", score)
	}
}

func TestScoreEmptyProfile(t *testing.T) {
	scorer := NewSimilarityScorer(recommend.DefaultConfig(), recommend.MediaTypeMovie)
	score, breakdown := scorer.Score(&recommend.Item{
		ID: "1", Genres: []string{"Drama"}, Cast: []string{"Someone"},
	}, recommend.NewCounters())

	if score != 0 {
		t.Errorf("empty profile score = %v, want 0", score)
	}
	if breakdown.Total != 0 {
		t.Errorf("empty profile breakdown total = %v, want 0", breakdown.Total)
	}
}

func TestScoreWeightedSum(t *testing.T) {
	cfg := recommend.DefaultConfig()
	cfg.Weights = recommend.Weights{Genre: 0.5, Actor: 0.5}

	profile := recommend.NewCounters()
	profile.Genres["drama"] = 1.0
	profile.Actors["amy adams"] = 1.0
	profile.Actors["hugh jackman"] = 1.0

	scorer := NewSimilarityScorer(cfg, recommend.MediaTypeMovie)
	score, breakdown := scorer.Score(&recommend.Item{
		ID: "1", Genres: []string{"Drama"}, Cast: []string{"Amy Adams"},
	}, profile)

	// genre: 0.5 * 1.0, actor: 0.5 * 0.5.
	if math.Abs(score-0.75) > floatEps {
		t.Errorf("weighted sum = %v, want 0.75", score)
	}
	if math.Abs(breakdown.PerCategory["actor"]-0.25) > floatEps {
		t.Errorf("actor contribution = %v, want 0.25", breakdown.PerCategory["actor"])
	}
}

func TestScoreTVUsesStudio(t *testing.T) {
	cfg := recommend.DefaultConfig()
	cfg.Weights = recommend.Weights{Studio: 1.0, Director: 1.0}

	profile := recommend.NewCounters()
	profile.Studios["hbo"] = 1.0
	profile.Directors["someone"] = 1.0

	scorer := NewSimilarityScorer(cfg, recommend.MediaTypeTV)
	score, breakdown := scorer.Score(&recommend.Item{
		ID: "1", Studio: "HBO", Directors: []string{"Someone"},
	}, profile)

	if math.Abs(score-1.0) > floatEps {
		t.Errorf("studio score = %v, want 1.0", score)
	}
	if _, ok := breakdown.PerCategory["director"]; ok {
		t.Error("TV scoring produced a director contribution")
	}
}

func TestCollectionBonusMoviesOnly(t *testing.T) {
	profile := recommend.NewCounters()
	profile.Genres["action"] = 1.0
	profile.Collections[7] = 2

	cfg := genreOnlyConfig()
	cfg.Weights.Genre = 0.5

	movie := NewSimilarityScorer(cfg, recommend.MediaTypeMovie)
	base, _ := movie.Score(&recommend.Item{ID: "1", Genres: []string{"Action"}}, profile)
	boosted, breakdown := movie.Score(&recommend.Item{
		ID: "2", Genres: []string{"Action"}, CollectionID: 7,
	}, profile)

	if boosted <= base {
		t.Errorf("collection member not boosted: %v <= %v", boosted, base)
	}
	// bonus = min(0.15, 0.05 * (1 + log2(2)*0.5)) = 0.075.
	if math.Abs(breakdown.CollectionBonus-0.075) > floatEps {
		t.Errorf("collection bonus = %v, want 0.075", breakdown.CollectionBonus)
	}

	tv := NewSimilarityScorer(cfg, recommend.MediaTypeTV)
	_, tvBreakdown := tv.Score(&recommend.Item{
		ID: "3", Genres: []string{"Action"}, CollectionID: 7,
	}, profile)
	if tvBreakdown.CollectionBonus != 0 {
		t.Errorf("TV candidate received collection bonus %v", tvBreakdown.CollectionBonus)
	}
}

func TestCollectionBonusThreeMembers(t *testing.T) {
	profile := recommend.NewCounters()
	profile.Genres["action"] = 1.0
	profile.Collections[789] = 3

	// Base score 0.70 from a fully-overlapping genre at weight 0.7.
	cfg := genreOnlyConfig()
	cfg.Weights.Genre = 0.7

	scorer := NewSimilarityScorer(cfg, recommend.MediaTypeMovie)
	score, breakdown := scorer.Score(&recommend.Item{
		ID: "1", Genres: []string{"Action"}, CollectionID: 789,
	}, profile)

	wantBonus := 0.05 * (1 + math.Log2(3)*0.5)
	if math.Abs(breakdown.CollectionBonus-wantBonus) > 1e-6 {
		t.Errorf("bonus = %v, want %v", breakdown.CollectionBonus, wantBonus)
	}
	if math.Abs(score-0.70*(1+wantBonus)) > 1e-6 {
		t.Errorf("score = %v, want %v", score, 0.70*(1+wantBonus))
	}
}

func TestCollectionBonusCapped(t *testing.T) {
	profile := recommend.NewCounters()
	profile.Collections[7] = 50

	if bonus := collectionBonus(&recommend.Item{CollectionID: 7}, profile); bonus != maxCollectionBonus {
		t.Errorf("bonus = %v, want cap %v", bonus, maxCollectionBonus)
	}
}

func TestScoreNeverExceedsOne(t *testing.T) {
	profile := recommend.NewCounters()
	profile.Genres["action"] = 1.0
	profile.Collections[7] = 10

	cfg := genreOnlyConfig()
	scorer := NewSimilarityScorer(cfg, recommend.MediaTypeMovie)
	score, _ := scorer.Score(&recommend.Item{
		ID: "1", Genres: []string{"Action"}, CollectionID: 7,
	}, profile)

	if score > 1.0 {
		t.Errorf("score %v exceeds 1.0", score)
	}
}

func TestFuzzyKeywordMatching(t *testing.T) {
	cfg := recommend.DefaultConfig()
	cfg.Weights = recommend.Weights{Keyword: 1.0}

	profile := recommend.NewCounters()
	profile.Keywords["time travel"] = 1.0

	fuzzy := NewSimilarityScorer(cfg, recommend.MediaTypeMovie)
	score, _ := fuzzy.Score(&recommend.Item{ID: "1", Keywords: []string{"time travel paradox"}}, profile)
	if score <= 0 {
		t.Error("fuzzy matching found no overlap for contained keyword")
	}
	// Containment sim 0.8: contribution 1.0 * (0.5 + 0.5*0.8) = 0.9.
	if math.Abs(score-0.9) > floatEps {
		t.Errorf("fuzzy containment score = %v, want 0.9", score)
	}

	cfg2 := recommend.DefaultConfig()
	cfg2.Weights = recommend.Weights{Keyword: 1.0}
	cfg2.FuzzyKeywords = false
	exact := NewSimilarityScorer(cfg2, recommend.MediaTypeMovie)
	score, _ = exact.Score(&recommend.Item{ID: "1", Keywords: []string{"time travel paradox"}}, profile)
	if score != 0 {
		t.Errorf("exact-only matching scored %v for non-exact keyword", score)
	}
}

func TestRedistributeWeights(t *testing.T) {
	cfg := recommend.DefaultConfig()
	cfg.Weights = recommend.Weights{Genre: 0.5, Keyword: 0.5}
	cfg.RedistributeWeights = true

	// Profile has genres but no keywords: keyword weight shifts to genre.
	profile := recommend.NewCounters()
	profile.Genres["drama"] = 1.0

	scorer := NewSimilarityScorer(cfg, recommend.MediaTypeMovie)
	score, _ := scorer.Score(&recommend.Item{ID: "1", Genres: []string{"Drama"}}, profile)
	if math.Abs(score-1.0) > floatEps {
		t.Errorf("redistributed score = %v, want 1.0", score)
	}
}
