// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

// Package metrics exposes Prometheus instrumentation for the recommendation
// pipeline. A Recorder implements the engine's Observer interface; the /metrics
// endpoint is served by promhttp in the server package.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds all pipeline metrics. Safe for concurrent use.
type Recorder struct {
	scoringRuns     *prometheus.CounterVec
	scoringDuration *prometheus.HistogramVec
	profileCache    *prometheus.CounterVec
	scoreCache      *prometheus.CounterVec
	metadataMisses  prometheus.Counter
}

// NewRecorder registers all metrics with the given registerer. Pass
// prometheus.DefaultRegisterer in production; a fresh registry in tests.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		scoringRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "curatarr_scoring_runs_total",
			Help: "Completed recommendation runs by media type.",
		}, []string{"media_type"}),
		scoringDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "curatarr_scoring_duration_seconds",
			Help:    "End-to-end recommendation run duration.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"media_type"}),
		profileCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "curatarr_profile_cache_total",
			Help: "Profile cache lookups by result.",
		}, []string{"result"}),
		scoreCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "curatarr_score_cache_total",
			Help: "Score cache lookups by result.",
		}, []string{"result"}),
		metadataMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "curatarr_metadata_misses_total",
			Help: "Watch-history entries skipped for missing metadata.",
		}),
	}
}

// ScoringRun records a completed recommendation run.
func (r *Recorder) ScoringRun(mediaType string, duration time.Duration) {
	r.scoringRuns.WithLabelValues(mediaType).Inc()
	r.scoringDuration.WithLabelValues(mediaType).Observe(duration.Seconds())
}

// ProfileCacheHit records an aggregation skipped via unchanged history.
func (r *Recorder) ProfileCacheHit() { r.profileCache.WithLabelValues("hit").Inc() }

// ProfileCacheMiss records a profile rebuild.
func (r *Recorder) ProfileCacheMiss() { r.profileCache.WithLabelValues("miss").Inc() }

// ScoreCacheHit records a candidate-scoring pass served from cache.
func (r *Recorder) ScoreCacheHit() { r.scoreCache.WithLabelValues("hit").Inc() }

// ScoreCacheMiss records a full candidate-scoring pass.
func (r *Recorder) ScoreCacheMiss() { r.scoreCache.WithLabelValues("miss").Inc() }

// MetadataMiss records a history entry skipped for missing metadata.
func (r *Recorder) MetadataMiss() { r.metadataMisses.Inc() }
