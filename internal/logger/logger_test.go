package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitRejectsUnknownFormat(t *testing.T) {
	if err := Init(Options{Level: "info", Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestInitJSON(t *testing.T) {
	if err := Init(Options{Level: "debug", Format: "json"}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if !L().Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level to be enabled")
	}
}

func TestReplaceRoutesPackageFunctions(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Replace(zap.New(core))
	t.Cleanup(func() { _ = Init(Options{Level: "info"}) })

	Debug("dropped")
	Info("delivered", zap.String("kind", "text"))
	Named("gateway").Warn("signature mismatch")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "delivered" || entries[0].ContextMap()["kind"] != "text" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].LoggerName != "gateway" {
		t.Errorf("expected logger name gateway, got %q", entries[1].LoggerName)
	}
}
