//go:build !integration

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestWith(t *testing.T) {
	t.Run("should attach context fields to every entry", func(t *testing.T) {
		var buf bytes.Buffer
		base := zerolog.New(&buf)
		ctx := WithRole(WithUserID(WithTraceID(context.Background(), "tr-1"), "u-1"), "admin")

		With(ctx, &base).Info().Msg("hello")

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("log line is not json: %v", err)
		}
		if entry["trace_id"] != "tr-1" || entry["user_id"] != "u-1" || entry["role"] != "admin" {
			t.Errorf("missing context fields: %v", entry)
		}
		if TraceID(ctx) != "tr-1" {
			t.Errorf("TraceID returned %q", TraceID(ctx))
		}
	})

	t.Run("should leave fields out when the context has none", func(t *testing.T) {
		var buf bytes.Buffer
		base := zerolog.New(&buf)

		With(context.Background(), &base).Info().Msg("bare")

		if bytes.Contains(buf.Bytes(), []byte("trace_id")) {
			t.Errorf("unexpected trace_id in %s", buf.String())
		}
	})
}

func TestRedact(t *testing.T) {
	if got := Redact("ABCDEFGHIJ", false); got != "ABCD...IJ" {
		t.Errorf("unexpected redaction %q", got)
	}
	if got := Redact("short", false); got != "***" {
		t.Errorf("unexpected redaction %q", got)
	}
	if got := Redact("ABCDEFGHIJ", true); got != "ABCDEFGHIJ" {
		t.Errorf("dev mode must not redact, got %q", got)
	}
}
