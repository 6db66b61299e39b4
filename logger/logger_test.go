package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestParseLevel(t *testing.T) {
	testCases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
	}
	for name, want := range testCases {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestInitWriter(t *testing.T) {
	defer InitWriter(&bytes.Buffer{}, "info", "console")

	var buf bytes.Buffer
	InitWriter(&buf, "warn", "json")
	log.Info().Msg("hidden")
	log.Warn().Str("file", "a.csv").Msg("skipping export")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1:\n%s", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["level"] != "warn" || entry["file"] != "a.csv" || entry["message"] != "skipping export" {
		t.Errorf("log entry = %v", entry)
	}

	buf.Reset()
	InitWriter(&buf, "debug", "console")
	log.Debug().Msg("readable")
	if !strings.Contains(buf.String(), "readable") || strings.HasPrefix(buf.String(), "{") {
		t.Errorf("console output = %q", buf.String())
	}
}
