package model

import (
	"fmt"
	"strings"
	"time"
)

// FieldError describes one failed validation rule.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every field that failed validation for one event.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	return "invalid log event: " + strings.Join(parts, "; ")
}

// Rejection identifies an invalid event within a batch by its index.
type Rejection struct {
	Index  int          `json:"index"`
	Errors []FieldError `json:"errors"`
}

// Validate checks the event against the required-field, level-enum, and
// timestamp rules. It returns a *ValidationError naming every failed field,
// or nil when the event is acceptable.
func Validate(e LogEvent) error {
	var fields []FieldError

	if e.Level == "" {
		fields = append(fields, FieldError{Field: "level", Reason: "missing required field"})
	} else if !e.Level.Valid() {
		fields = append(fields, FieldError{Field: "level", Reason: "must be one of: error, warn, info, debug"})
	}

	if e.Message == "" {
		fields = append(fields, FieldError{Field: "message", Reason: "missing required field"})
	}

	if e.Timestamp == "" {
		fields = append(fields, FieldError{Field: "timestamp", Reason: "missing required field"})
	} else if _, err := time.Parse(time.RFC3339Nano, e.Timestamp); err != nil {
		fields = append(fields, FieldError{Field: "timestamp", Reason: fmt.Sprintf("must be a valid ISO 8601 instant: %v", err)})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ValidateBatch splits a batch into accepted events and indexed rejections.
// Callers that require all-or-nothing semantics reject the batch when any
// rejections are present; partial-accept callers ingest the valid slice.
func ValidateBatch(events []LogEvent) (valid []LogEvent, rejected []Rejection) {
	for i, e := range events {
		if err := Validate(e); err != nil {
			ve := err.(*ValidationError)
			rejected = append(rejected, Rejection{Index: i, Errors: ve.Fields})
			continue
		}
		valid = append(valid, e)
	}
	return valid, rejected
}
