// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

package server

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/curatarr/curatarr/internal/recommend"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	user, mediaType, ok := s.userAndType(w, r)
	if !ok {
		return
	}

	resp, err := s.engine.Recommend(r.Context(), user, mediaType)
	if err != nil {
		s.log.Error().Err(err).Str("user", user).Msg("recommendation run failed")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "recommendation run failed"})
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, mediaType, ok := s.userAndType(w, r)
	if !ok {
		return
	}

	profile, err := s.engine.Profile(r.Context(), user, mediaType)
	if err != nil {
		s.log.Error().Err(err).Str("user", user).Msg("profile build failed")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "profile build failed"})
		return
	}
	s.writeJSON(w, http.StatusOK, profile)
}

// userAndType extracts and validates the required query parameters. Writes
// the error response itself when validation fails.
func (s *Server) userAndType(w http.ResponseWriter, r *http.Request) (string, recommend.MediaType, bool) {
	user := r.URL.Query().Get("user")
	if user == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing required parameter: user"})
		return "", "", false
	}

	mediaType := recommend.MediaType(r.URL.Query().Get("type"))
	switch mediaType {
	case recommend.MediaTypeMovie, recommend.MediaTypeTV:
	case "":
		mediaType = recommend.MediaTypeMovie
	default:
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "parameter type must be movie or tv"})
		return "", "", false
	}
	return user, mediaType, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}
