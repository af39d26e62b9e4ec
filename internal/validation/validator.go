// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package validation validates request structs with go-playground/validator.
//
// A single validator instance is shared; it caches struct metadata and is
// safe for concurrent use. Field names in messages are the JSON (or query)
// names the client sent, so errors read like:
//
//	rating must be at most 5
//	session_id is required
//
// Custom tags:
//   - entityid: a non-blank id of at most 128 characters without control
//     characters or slashes
//   - interactionkind: one of view, rating or wishlist
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/shelfwise/internal/models"
)

// ErrorCode is the APIError code for every validation failure.
const ErrorCode = "VALIDATION_ERROR"

const maxEntityIDLength = 128

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// RequestValidationError collects the field errors of one struct.
type RequestValidationError struct {
	Fields []FieldError
}

// Error joins the field messages.
func (ve *RequestValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.Fields))
	for i := range ve.Fields {
		messages[i] = ve.Fields[i].Message
	}
	return strings.Join(messages, "; ")
}

// ToAPIError converts the failure into the API error body.
func (ve *RequestValidationError) ToAPIError() *models.APIError {
	apiErr := &models.APIError{Code: ErrorCode, Message: ve.Error()}
	if len(ve.Fields) > 0 {
		apiErr.Details = map[string]interface{}{"fields": ve.Fields}
	}
	return apiErr
}

// GetValidator returns the shared validator.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(fieldName)

		// registration only fails on an empty tag or nil func
		_ = validate.RegisterValidation("entityid", validEntityID)    //nolint:errcheck
		_ = validate.RegisterValidation("interactionkind", validKind) //nolint:errcheck
	})
	return validate
}

// fieldName prefers the json tag, then the query tag, then the Go name.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "query"} {
		name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func validEntityID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if strings.TrimSpace(id) == "" || len(id) > maxEntityIDLength {
		return false
	}
	for _, r := range id {
		if unicode.IsControl(r) || r == '/' {
			return false
		}
	}
	return true
}

func validKind(fl validator.FieldLevel) bool {
	return models.InteractionKind(fl.Field().String()).Valid()
}

// ValidateStruct validates s. It returns nil or a *RequestValidationError.
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondAPIError(w, r, http.StatusBadRequest, verr.ToAPIError())
//	    return
//	}
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{Fields: []FieldError{{
			Field:   "unknown",
			Tag:     "unknown",
			Message: err.Error(),
		}}}
	}

	fields := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translateError(fe),
		}
	}
	return &RequestValidationError{Fields: fields}
}

var errorMessageTemplates = map[string]string{
	"required":        "%s is required",
	"required_if":     "%s is required",
	"entityid":        "%s must be a non-blank id without slashes",
	"interactionkind": "%s must be one of: view, rating, wishlist",
}

var errorMessageWithParam = map[string]string{
	"oneof":    "%s must be one of: %s",
	"gte":      "%s must be greater than or equal to %s",
	"lte":      "%s must be less than or equal to %s",
	"gtefield": "%s must be greater than or equal to %s",
}

func translateError(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	isString := fe.Kind() == reflect.String
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
