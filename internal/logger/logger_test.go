package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestInit(t *testing.T) {
	Init("debug", "json")
	if !L.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug level to be enabled")
	}

	Init("warn", "text")
	if L.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected info level to be disabled at warn")
	}
}

func TestContextLogger(t *testing.T) {
	Init("info", "text")

	custom := L.With(slog.String("event_id", "12345"))
	ctx := WithContext(context.Background(), custom)

	if got := FromContext(ctx); got != custom {
		t.Fatal("expected logger stored in context to round-trip")
	}
	if got := FromContext(context.Background()); got != L {
		t.Fatal("expected global logger for bare context")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%s) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
