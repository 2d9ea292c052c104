// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// Rules run at the service boundary and in handlers for request shape checks,
// never in storage. A zero Validator is ready to use and is not safe for
// concurrent use.
package validate

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/pkg/slug"
)

// InvalidJSON reports a request body that could not be decoded.
func InvalidJSON(cause error) error {
	return apperr.ValidationError("Invalid JSON payload").WithCause(cause)
}

// Validator accumulates field failures; [Validator.Err] reports them all at once.
type Validator struct {
	failures []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	return v.Custom(field, strings.TrimSpace(value) == "", "This field is required")
}

// MinLen fails if the value has fewer than min characters.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.Custom(field, utf8.RuneCountInString(value) < min, fmt.Sprintf("Minimum %d characters", min))
}

// MaxLen fails if the value has more than max characters.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.Custom(field, utf8.RuneCountInString(value) > max, fmt.Sprintf("Maximum %d characters", max))
}

// Slug fails unless value is already in the canonical form produced by
// [slug.From]: lowercase ASCII letters and digits joined by single hyphens.
func (v *Validator) Slug(field, value string) *Validator {
	return v.Custom(field, value == "" || slug.From(value) != value,
		"Must be a valid URL slug (lowercase letters, digits, hyphens only)")
}

// URL fails if the value is not an absolute http(s) URL.
func (v *Validator) URL(field, value string) *Validator {
	parsed, err := url.Parse(value)
	invalid := err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https")
	return v.Custom(field, invalid, "Must be an absolute http(s) URL")
}

// OptionalURL applies [Validator.URL] only when value is present.
func (v *Validator) OptionalURL(field string, value *string) *Validator {
	if value == nil {
		return v
	}
	return v.URL(field, *value)
}

// OneOf fails if the value is not in the allowed set.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return v.Custom(field, !slices.Contains(allowed, value), "Must be one of: "+strings.Join(allowed, ", "))
}

// Custom records message for field when failed is true.
//
//	v.Custom("chapterId", !belongs, "Chapter does not belong to this series")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.failures = append(v.failures, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

// Err returns a VALIDATION_ERROR carrying every failure, or nil.
func (v *Validator) Err() error {
	if len(v.failures) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.failures...)
}
