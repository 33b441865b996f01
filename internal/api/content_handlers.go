// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking"
)

// contentPayload mirrors the validated fields of an ingested candidate item.
type contentPayload struct {
	ID    string `validate:"required,max=128"`
	Title string `validate:"required,max=512"`
}

// profilePayload mirrors the validated fields of an ingested user profile.
type profilePayload struct {
	UserID string `validate:"required,max=128"`
}

// UpsertContent handles PUT /api/v1/content/{id}. The CMS pushes created and
// updated items here; every accepted write bumps the store version, which
// invalidates the result cache.
func (h *Handler) UpsertContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var item ranking.CandidateItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON", err)
		return
	}
	if item.ID == "" {
		item.ID = id
	}
	if item.ID != id {
		respondError(w, http.StatusBadRequest, "ID_MISMATCH", "Body ID does not match path ID", nil)
		return
	}

	if apiErr := validateRequest(&contentPayload{ID: item.ID, Title: item.Title}); apiErr != nil {
		writeEnvelope(w, http.StatusBadRequest, &apiResponse{
			Status:   "error",
			Error:    apiErr,
			Metadata: envelopeMeta{Timestamp: time.Now().UTC()},
		})
		return
	}

	if err := h.store.Upsert(item); err != nil {
		respondError(w, http.StatusInternalServerError, "CONTENT_WRITE_FAILED", "Failed to store content item", err)
		return
	}

	h.logger.Debug().
		Str("content_id", sanitizeLogValue(item.ID)).
		Str("version", h.store.Version()).
		Msg("Content item upserted")
	respondJSON(w, http.StatusOK, "", map[string]string{
		"id":      item.ID,
		"version": h.store.Version(),
	})
}

// DeleteContent handles DELETE /api/v1/content/{id}.
func (h *Handler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.store.Delete(id)
	respondJSON(w, http.StatusOK, "", map[string]string{
		"id":      id,
		"version": h.store.Version(),
	})
}

// GetContent handles GET /api/v1/content/{id}.
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, ok := h.store.Get(r.Context(), id)
	if !ok {
		respondError(w, http.StatusNotFound, "CONTENT_NOT_FOUND", "No content item with that ID", nil)
		return
	}
	respondJSON(w, http.StatusOK, "", item)
}

// UpsertProfile handles PUT /api/v1/profiles/{user_id}.
func (h *Handler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	if h.profiles == nil {
		respondError(w, http.StatusServiceUnavailable, "PROFILES_DISABLED", "Profile store is disabled", nil)
		return
	}
	userID := chi.URLParam(r, "user_id")

	var profile ranking.UserContext
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON", err)
		return
	}
	if profile.UserID == "" {
		profile.UserID = userID
	}
	if profile.UserID != userID {
		respondError(w, http.StatusBadRequest, "ID_MISMATCH", "Body user ID does not match path user ID", nil)
		return
	}

	if apiErr := validateRequest(&profilePayload{UserID: profile.UserID}); apiErr != nil {
		writeEnvelope(w, http.StatusBadRequest, &apiResponse{
			Status:   "error",
			Error:    apiErr,
			Metadata: envelopeMeta{Timestamp: time.Now().UTC()},
		})
		return
	}

	if err := h.profiles.Upsert(profile); err != nil {
		respondError(w, http.StatusInternalServerError, "PROFILE_WRITE_FAILED", "Failed to store profile", err)
		return
	}
	respondJSON(w, http.StatusOK, "", map[string]string{"user_id": profile.UserID})
}

// GetProfile handles GET /api/v1/profiles/{user_id}.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	if h.profiles == nil {
		respondError(w, http.StatusServiceUnavailable, "PROFILES_DISABLED", "Profile store is disabled", nil)
		return
	}
	userID := chi.URLParam(r, "user_id")
	profile, ok := h.profiles.Profile(r.Context(), userID)
	if !ok {
		respondError(w, http.StatusNotFound, "PROFILE_NOT_FOUND", "No profile with that user ID", nil)
		return
	}
	respondJSON(w, http.StatusOK, "", profile)
}
