// NewsForge Ranking Core - Search & Recommendation Fusion Engine
// Copyright 2026 Sabq (sabq4org)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sabq4org/newsforge-ai-cms-sub005

// Package validation provides struct validation for API request payloads
// using go-playground/validator v10. A thread-safe singleton instance
// caches struct metadata; custom validators cover the ranking wire formats
// (sort mode names).
//
// Example usage:
//
//	type rankPayload struct {
//	    MaxResults int    `validate:"omitempty,min=1,max=100"`
//	    SortMode   string `validate:"omitempty,sortmode"`
//	}
//
//	if verr := validation.ValidateStruct(&payload); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/sabq4org/newsforge-ai-cms-sub005/internal/ranking"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return e.Message
}

// RequestValidationError aggregates field errors for one payload.
type RequestValidationError struct {
	errs []FieldError
}

// Errors returns the individual field errors.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errs
}

// Error implements the error interface.
func (ve *RequestValidationError) Error() string {
	if len(ve.errs) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.errs))
	for i, e := range ve.errs {
		messages[i] = e.Message
	}
	return strings.Join(messages, "; ")
}

// APIError is the wire shape for a validation failure, matching the
// response helpers in the api package.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ToAPIError converts the aggregate into one API error payload.
func (ve *RequestValidationError) ToAPIError() *APIError {
	if len(ve.errs) == 0 {
		return &APIError{Code: "VALIDATION_ERROR", Message: "Validation failed"}
	}

	if len(ve.errs) == 1 {
		e := ve.errs[0]
		return &APIError{
			Code:    "VALIDATION_ERROR",
			Message: e.Message,
			Details: map[string]interface{}{
				"field": e.Field,
				"tag":   e.Tag,
				"value": e.Value,
			},
		}
	}

	fields := make([]map[string]interface{}, len(ve.errs))
	messages := make([]string, len(ve.errs))
	for i, e := range ve.errs {
		fields[i] = map[string]interface{}{
			"field":   e.Field,
			"tag":     e.Tag,
			"message": e.Message,
		}
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return &APIError{
		Code:    "VALIDATION_ERROR",
		Message: strings.Join(messages, "; "),
		Details: map[string]interface{}{"fields": fields},
	}
}

// GetValidator returns the singleton validator. Thread-safe.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// sortmode accepts the ranking wire names; empty means relevance.
		//nolint:errcheck // registration of a static validator cannot fail
		validate.RegisterValidation("sortmode", func(fl validator.FieldLevel) bool {
			_, ok := ranking.ParseSortMode(fl.Field().String())
			return ok
		})
	})
	return validate
}

// ValidateStruct validates a payload with the singleton validator. Returns
// nil on success.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestValidationError{errs: []FieldError{{
			Field:   "unknown",
			Message: err.Error(),
		}}}
	}

	out := &RequestValidationError{errs: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.errs = append(out.errs, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: messageFor(fe),
		})
	}
	return out
}

// messageFor renders a human-readable message for a field error.
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "sortmode":
		return fmt.Sprintf("%s must be one of: relevance, date, popularity", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
