// Package validation checks inbound payloads before they reach the prompt
// builder and estimates prompt token counts.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/teilomillet/tavita/server/prompt"
)

// Limits bounds the shape of a caller payload.
type Limits struct {
	MaxFields      int `validate:"gt=0"`
	MaxKeyLength   int `validate:"gt=0"`
	MaxValueLength int `validate:"gt=0"`
}

// DefaultLimits returns limits generous enough for any real caption request.
func DefaultLimits() Limits {
	return Limits{
		MaxFields:      32,
		MaxKeyLength:   64,
		MaxValueLength: 4000,
	}
}

// ValidationErrorDetail describes one rejected part of a payload.
type ValidationErrorDetail struct {
	Field   string `json:"field"`           // The field that failed validation
	Message string `json:"message"`         // Human-readable error message
	Code    string `json:"code"`            // Machine-readable error code
	Value   string `json:"value,omitempty"` // The invalid value (if safe to return)
}

// Error collects every detail found while validating a payload.
type Error struct {
	Details []ValidationErrorDetail
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Details))
	for i, d := range e.Details {
		msgs[i] = d.Message
	}
	return "invalid payload: " + strings.Join(msgs, "; ")
}

// PayloadValidator validates payloads against fixed limits.
type PayloadValidator struct {
	validate *validator.Validate
	limits   Limits
}

// NewPayloadValidator creates a validator for the given limits.
func NewPayloadValidator(limits Limits) (*PayloadValidator, error) {
	v := validator.New()
	if err := v.Struct(limits); err != nil {
		return nil, fmt.Errorf("invalid payload limits: %w", err)
	}
	return &PayloadValidator{validate: v, limits: limits}, nil
}

// Validate returns an *Error listing every violation in key order, or nil.
// Field values are never echoed back since they may be long.
func (pv *PayloadValidator) Validate(p prompt.Payload) error {
	var details []ValidationErrorDetail

	if err := pv.validate.Var(map[string]string(p), fmt.Sprintf("max=%d", pv.limits.MaxFields)); err != nil {
		details = append(details, ValidationErrorDetail{
			Field:   "body",
			Message: fmt.Sprintf("payload has %d fields, at most %d allowed", len(p), pv.limits.MaxFields),
			Code:    "too_many_fields",
		})
	}

	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	keyTag := fmt.Sprintf("min=1,max=%d", pv.limits.MaxKeyLength)
	valueTag := fmt.Sprintf("max=%d", pv.limits.MaxValueLength)
	for _, k := range keys {
		if err := pv.validate.Var(k, keyTag); err != nil {
			details = append(details, keyDetail(k, pv.limits.MaxKeyLength))
			continue
		}
		if err := pv.validate.Var(p[k], valueTag); err != nil {
			details = append(details, ValidationErrorDetail{
				Field:   k,
				Message: fmt.Sprintf("field '%s' longer than %d characters", k, pv.limits.MaxValueLength),
				Code:    "value_too_long",
			})
		}
	}

	if len(details) == 0 {
		return nil
	}
	return &Error{Details: details}
}

func keyDetail(key string, limit int) ValidationErrorDetail {
	if key == "" {
		return ValidationErrorDetail{
			Field:   "body",
			Message: "field names must not be empty",
			Code:    "empty_field_name",
		}
	}
	r := []rune(key)
	return ValidationErrorDetail{
		Field:   string(r[:limit]) + "...",
		Message: fmt.Sprintf("field name longer than %d characters", limit),
		Code:    "field_name_too_long",
	}
}
