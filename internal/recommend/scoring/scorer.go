// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/curatarr/curatarr/internal/recommend"
)

// maxCollectionBonus caps the sequel bonus so collection membership stays a
// nudge, not a ranking override.
const maxCollectionBonus = 0.15

// SimilarityScorer scores candidates against an aggregated profile. It is
// stateless apart from the fuzzy-keyword memo and safe for concurrent use.
type SimilarityScorer struct {
	cfg       *recommend.Config
	mediaType recommend.MediaType
	fuzzy     *fuzzyMatcher
}

// NewSimilarityScorer returns a scorer for the given media type. Movies
// score the director dimension and the collection bonus; TV scores studio.
func NewSimilarityScorer(cfg *recommend.Config, mediaType recommend.MediaType) *SimilarityScorer {
	return &SimilarityScorer{
		cfg:       cfg,
		mediaType: mediaType,
		fuzzy:     newFuzzyMatcher(),
	}
}

type dimension struct {
	name    string
	weight  float64
	raw     float64
	total   float64
	matches int
	of      int
}

// Score implements recommend.Scorer.
func (s *SimilarityScorer) Score(item *recommend.Item, profile *recommend.Counters) (float64, *recommend.ScoreBreakdown) {
	breakdown := &recommend.ScoreBreakdown{
		PerCategory: make(map[string]float64),
		Details:     make(map[string]string),
	}
	if profile == nil || profile.IsEmpty() {
		return 0, breakdown
	}

	dims := s.dimensions(item, profile)

	if s.cfg.RedistributeWeights {
		redistribute(dims)
	}

	var score float64
	for _, d := range dims {
		value := d.raw
		if s.cfg.NormalizeCounters {
			if d.total <= 0 {
				value = 0
			} else {
				value = d.raw / d.total
			}
		}
		value = clamp01(value)

		contribution := d.weight * value
		score += contribution
		breakdown.PerCategory[d.name] = contribution
		if d.of > 0 {
			breakdown.Details[d.name] = fmt.Sprintf("%d/%d matched", d.matches, d.of)
		}
	}
	score = clamp01(score)

	if s.mediaType == recommend.MediaTypeMovie && score > 0 {
		if bonus := collectionBonus(item, profile); bonus > 0 {
			breakdown.CollectionBonus = bonus
			score = clamp01(score * (1 + bonus))
		}
	}

	breakdown.Total = score
	return score, breakdown
}

func (s *SimilarityScorer) dimensions(item *recommend.Item, profile *recommend.Counters) []*dimension {
	w := s.cfg.Weights

	genre := &dimension{name: "genre", weight: w.Genre, total: recommend.PositiveTotal(profile.Genres), of: len(item.Genres)}
	for _, g := range item.Genres {
		if weight, ok := profile.Genres[recommend.NormalizeGenre(g)]; ok {
			genre.raw += weight
			genre.matches++
		}
	}

	actor := &dimension{name: "actor", weight: w.Actor, total: recommend.PositiveTotal(profile.Actors), of: len(item.Cast)}
	for _, a := range item.Cast {
		if weight, ok := profile.Actors[strings.ToLower(a)]; ok {
			actor.raw += weight
			actor.matches++
		}
	}

	var people *dimension
	if s.mediaType == recommend.MediaTypeTV {
		people = &dimension{name: "studio", weight: w.Studio, total: recommend.PositiveTotal(profile.Studios)}
		if item.Studio != "" {
			people.of = 1
			if weight, ok := profile.Studios[strings.ToLower(item.Studio)]; ok {
				people.raw = weight
				people.matches = 1
			}
		}
	} else {
		people = &dimension{name: "director", weight: w.Director, total: recommend.PositiveTotal(profile.Directors), of: len(item.Directors)}
		for _, d := range item.Directors {
			if weight, ok := profile.Directors[strings.ToLower(d)]; ok {
				people.raw += weight
				people.matches++
			}
		}
	}

	language := &dimension{name: "language", weight: w.Language, total: recommend.PositiveTotal(profile.Languages)}
	if item.Language != "" {
		language.of = 1
		if weight, ok := profile.Languages[strings.ToLower(item.Language)]; ok {
			language.raw = weight
			language.matches = 1
		}
	}

	keyword := &dimension{name: "keyword", weight: w.Keyword, total: recommend.PositiveTotal(profile.Keywords), of: len(item.Keywords)}
	for _, k := range item.Keywords {
		lower := strings.ToLower(k)
		if weight, ok := profile.Keywords[lower]; ok {
			keyword.raw += weight
			keyword.matches++
			continue
		}
		if !s.cfg.FuzzyKeywords {
			continue
		}
		if weight, sim := s.bestFuzzy(lower, profile.Keywords); sim > 0 {
			// Partial matches contribute at reduced strength.
			keyword.raw += weight * (0.5 + 0.5*sim)
			keyword.matches++
		}
	}

	return []*dimension{genre, people, actor, language, keyword}
}

// bestFuzzy returns the profile weight and similarity of the closest fuzzy
// keyword match, or (0, 0) when nothing clears the similarity floor.
func (s *SimilarityScorer) bestFuzzy(keyword string, profileKeywords map[string]float64) (float64, float64) {
	var bestWeight, bestSim float64
	for pk, weight := range profileKeywords {
		sim := s.fuzzy.similarity(keyword, pk)
		if sim > bestSim {
			bestSim = sim
			bestWeight = weight
		}
	}
	return bestWeight, bestSim
}

// redistribute moves the weight of dimensions with no profile data onto the
// dimensions that have some, preserving their relative proportions.
func redistribute(dims []*dimension) {
	var activeWeight, idleWeight float64
	for _, d := range dims {
		if d.total > 0 {
			activeWeight += d.weight
		} else {
			idleWeight += d.weight
		}
	}
	if activeWeight <= 0 || idleWeight <= 0 {
		return
	}
	scale := (activeWeight + idleWeight) / activeWeight
	for _, d := range dims {
		if d.total > 0 {
			d.weight *= scale
		} else {
			d.weight = 0
		}
	}
}

// collectionBonus rewards candidates from collections the user has already
// watched into. Grows logarithmically with watched members and caps at
// maxCollectionBonus.
func collectionBonus(item *recommend.Item, profile *recommend.Counters) float64 {
	if item.CollectionID == 0 {
		return 0
	}
	count := profile.Collections[item.CollectionID]
	if count <= 0 {
		return 0
	}
	bonus := 0.05 * (1 + math.Log2(math.Max(1, count))*0.5)
	return math.Min(maxCollectionBonus, bonus)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
