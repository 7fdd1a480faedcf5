// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

// Package server exposes the recommendation pipeline over HTTP using the
// chi router.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/curatarr/curatarr/internal/config"
	"github.com/curatarr/curatarr/internal/logging"
	"github.com/curatarr/curatarr/internal/recommend"
)

// Recommender is the engine surface the HTTP layer needs.
type Recommender interface {
	Recommend(ctx context.Context, user string, mediaType recommend.MediaType) (*recommend.Response, error)
	Profile(ctx context.Context, user string, mediaType recommend.MediaType) (*recommend.StoredProfile, error)
}

// Server handles HTTP requests.
type Server struct {
	cfg    config.ServerConfig
	engine Recommender
	log    zerolog.Logger
}

// New returns a server over the given engine.
func New(cfg config.ServerConfig, engine Recommender) *Server {
	return &Server{
		cfg:    cfg,
		engine: engine,
		log:    logging.With().Str("component", "server").Logger(),
	}
}

// Router builds the HTTP handler with the full middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(s.cfg.RateLimitReqs, s.cfg.RateLimitWindow))
		r.Get("/recommendations", s.handleRecommendations)
		r.Get("/profile", s.handleProfile)
	})

	return r
}

// requestID assigns a UUID to each request and echoes it in the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}
