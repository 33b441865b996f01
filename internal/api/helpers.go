// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/logging"
	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/validation"
)

// apiResponse is the JSON envelope for every endpoint.
type apiResponse struct {
	Status   string       `json:"status"` // "success" or "error"
	Data     interface{}  `json:"data,omitempty"`
	Error    *apiError    `json:"error,omitempty"`
	Metadata envelopeMeta `json:"metadata"`
}

type envelopeMeta struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// apiError is the wire shape of an error.
type apiError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// sanitizeLogValue strips control characters so request-derived strings
// cannot forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON writes a success envelope.
func respondJSON(w http.ResponseWriter, status int, requestID string, data interface{}) {
	writeEnvelope(w, status, &apiResponse{
		Status:   "success",
		Data:     data,
		Metadata: envelopeMeta{Timestamp: time.Now().UTC(), RequestID: requestID},
	})
}

// respondError writes an error envelope. The underlying error is logged,
// never sent to the client.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}
	writeEnvelope(w, status, &apiResponse{
		Status:   "error",
		Error:    &apiError{Code: code, Message: message},
		Metadata: envelopeMeta{Timestamp: time.Now().UTC()},
	})
}

func writeEnvelope(w http.ResponseWriter, status int, resp *apiResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(resp)
	if err != nil {
		logging.Error().Err(err).Msg("Marshal response failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Write response failed")
	}
}

// generateETag hashes the body with FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// validateRequest validates a payload struct, translating failures to the
// wire error shape.
func validateRequest(v interface{}) *apiError {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	converted := verr.ToAPIError()
	return &apiError{
		Code:    converted.Code,
		Message: converted.Message,
		Details: converted.Details,
	}
}

// getIntParam reads an integer query parameter, falling back to def for
// missing or malformed values.
func getIntParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
