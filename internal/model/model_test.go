package model

import (
	"strings"
	"testing"
)

func validEvent() LogEvent {
	return LogEvent{
		Level:     LevelError,
		Message:   "connection refused",
		Timestamp: "2023-09-15T08:00:00Z",
	}
}

func TestValidateAccepts(t *testing.T) {
	e := validEvent()
	e.ResourceID = "server-1234"
	e.Metadata = map[string]interface{}{MetadataParentResourceID: "server-0987"}
	if err := Validate(e); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}
}

func TestValidateReportsEveryFailedField(t *testing.T) {
	err := Validate(LogEvent{Level: "fatal", Timestamp: "yesterday"})
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	got := map[string]bool{}
	for _, f := range ve.Fields {
		got[f.Field] = true
	}
	for _, want := range []string{"level", "message", "timestamp"} {
		if !got[want] {
			t.Fatalf("missing failure for %q: %v", want, ve.Fields)
		}
	}
}

func TestValidateTimestamp(t *testing.T) {
	e := validEvent()
	e.Timestamp = "2023-09-15T08:00:00.000Z"
	if err := Validate(e); err != nil {
		t.Fatalf("millisecond timestamp rejected: %v", err)
	}
	e.Timestamp = "not-a-time"
	if err := Validate(e); err == nil {
		t.Fatalf("unparseable timestamp accepted")
	}
}

func TestValidateBatchSplits(t *testing.T) {
	events := []LogEvent{
		validEvent(),
		{Level: "shout", Message: "x", Timestamp: "2023-09-15T08:00:00Z"},
		validEvent(),
	}
	valid, rejected := ValidateBatch(events)
	if len(valid) != 2 {
		t.Fatalf("want 2 valid, got %d", len(valid))
	}
	if len(rejected) != 1 || rejected[0].Index != 1 {
		t.Fatalf("want rejection at index 1, got %+v", rejected)
	}
}

func TestParseEventsSingle(t *testing.T) {
	body := []byte(`{"level":"info","message":"started","timestamp":"2023-09-15T08:00:00Z","metadata":{"parentResourceId":"server-9","attempt":2}}`)
	events, isArray, err := ParseEvents(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if isArray {
		t.Fatalf("single object reported as array")
	}
	if len(events) != 1 {
		t.Fatalf("want 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Level != LevelInfo || e.Message != "started" {
		t.Fatalf("fields not decoded: %+v", e)
	}
	if e.ParentResourceID() != "server-9" {
		t.Fatalf("parentResourceId not decoded: %+v", e.Metadata)
	}
	if e.Metadata["attempt"].(float64) != 2 {
		t.Fatalf("numeric metadata not decoded: %+v", e.Metadata)
	}
}

func TestParseEventsArray(t *testing.T) {
	body := []byte(`[{"level":"warn","message":"a","timestamp":"2023-09-15T08:00:00Z"},{"level":"info","message":"b","timestamp":"2023-09-15T08:00:01Z"}]`)
	events, isArray, err := ParseEvents(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !isArray || len(events) != 2 {
		t.Fatalf("want array of 2, got isArray=%v len=%d", isArray, len(events))
	}
}

func TestParseEventsInvalidJSON(t *testing.T) {
	if _, _, err := ParseEvents([]byte(`{"level":`)); err == nil {
		t.Fatalf("truncated JSON accepted")
	}
}

func TestFieldAccessor(t *testing.T) {
	e := validEvent()
	e.TraceID = "abc-123"
	e.Metadata = map[string]interface{}{MetadataParentResourceID: "p-1"}
	if e.Field("traceId") != "abc-123" {
		t.Fatalf("traceId accessor")
	}
	if e.Field("metadata.parentResourceId") != "p-1" {
		t.Fatalf("metadata accessor")
	}
	if e.Field("nope") != "" {
		t.Fatalf("unknown field should be empty")
	}
	if !strings.Contains((&ValidationError{Fields: []FieldError{{Field: "level", Reason: "missing"}}}).Error(), "level") {
		t.Fatalf("error text should name the field")
	}
}
