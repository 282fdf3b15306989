package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextFieldsFlowThrough(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-123")
	ctx = logg.WithHouseID(ctx, "house-9")
	logg.Info(ctx, "hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if line["request_id"] != "req-123" || line["house_id"] != "house-9" {
		t.Fatalf("context fields missing from output: %v", line)
	}
	if line["service"] != "test" {
		t.Fatalf("service field missing: %v", line)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG") != zerolog.DebugLevel {
		t.Fatal("expected debug")
	}
	if ParseLevel("") != zerolog.InfoLevel {
		t.Fatal("empty input should default to info")
	}
	if ParseLevel("nope") != zerolog.InfoLevel {
		t.Fatal("garbage input should default to info")
	}
}
