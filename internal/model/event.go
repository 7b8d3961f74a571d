// Package model defines the log event shape accepted at the ingestion
// boundary and the validation applied before events enter the pipeline.
package model

import (
	"time"
)

// Level is the severity of a log event.
type Level string

// Accepted levels, lowest to highest severity.
const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Valid reports whether l is one of the accepted levels.
func (l Level) Valid() bool {
	switch l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	}
	return false
}

// MetadataParentResourceID is the recognized metadata sub-field addressable
// in queries as "metadata.parentResourceId".
const MetadataParentResourceID = "parentResourceId"

// LogEvent is the atomic unit of ingestion. Timestamp stays in its wire form
// (ISO-8601 UTC); validation guarantees it parses. Events are never mutated
// after validation.
type LogEvent struct {
	Level      Level                  `json:"level"`
	Message    string                 `json:"message"`
	Timestamp  string                 `json:"timestamp"`
	ResourceID string                 `json:"resourceId,omitempty"`
	TraceID    string                 `json:"traceId,omitempty"`
	SpanID     string                 `json:"spanId,omitempty"`
	Commit     string                 `json:"commit,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// Time parses the event timestamp. Validated events never return an error.
func (e LogEvent) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, e.Timestamp)
}

// ParentResourceID returns metadata.parentResourceId when present.
func (e LogEvent) ParentResourceID() string {
	if e.Metadata == nil {
		return ""
	}
	if v, ok := e.Metadata[MetadataParentResourceID].(string); ok {
		return v
	}
	return ""
}

// Field returns the value of a queryable string field by its wire name.
// Unknown fields return "".
func (e LogEvent) Field(name string) string {
	switch name {
	case "level":
		return string(e.Level)
	case "message":
		return e.Message
	case "timestamp":
		return e.Timestamp
	case "resourceId":
		return e.ResourceID
	case "traceId":
		return e.TraceID
	case "spanId":
		return e.SpanID
	case "commit":
		return e.Commit
	case "metadata.parentResourceId":
		return e.ParentResourceID()
	}
	return ""
}
