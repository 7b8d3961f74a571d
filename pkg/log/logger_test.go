package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithLevel(WarnLevel), WithFormatter(&TextFormatter{}), WithOutput(NewWriterOutput(&buf)))
	l.Info("hidden")
	l.Warn("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn should be written: %q", out)
	}
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithLevel(DebugLevel), WithFormatter(&JSONFormatter{}), WithOutput(NewWriterOutput(&buf)))
	l = l.With(Component("buffer"), Str("ns", "default"))
	l.Info("flush complete", Int("count", 3))

	var obj map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if obj["component"] != "buffer" {
		t.Fatalf("component field missing: %v", obj)
	}
	if obj["msg"] != "flush complete" {
		t.Fatalf("msg mismatch: %v", obj)
	}
	if obj["count"].(float64) != 3 {
		t.Fatalf("count mismatch: %v", obj)
	}
}

func TestSlogRecordsRenderThroughPipeline(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithLevel(InfoLevel), WithFormatter(&JSONFormatter{}), WithOutput(NewWriterOutput(&buf)))

	sl := l.(*BaseLogger).Slog()
	sl.Info("from slog", "shard", 7)
	sl.Debug("filtered by facade level")

	var obj map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if obj["msg"] != "from slog" {
		t.Fatalf("msg mismatch: %v", obj)
	}
	if obj["shard"].(float64) != 7 {
		t.Fatalf("attr missing: %v", obj)
	}
	if strings.Contains(buf.String(), "filtered by facade level") {
		t.Fatalf("debug record should be gated by the facade level: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": DebugLevel, "info": InfoLevel, "warn": WarnLevel, "error": ErrorLevel, "": InfoLevel}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: got %v want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestErrField(t *testing.T) {
	if f := Err(nil); f.Value != "" {
		t.Fatalf("nil error should yield empty value")
	}
}
