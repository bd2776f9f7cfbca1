package logs

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFormatLine(t *testing.T) {
	ts := time.Date(2025, 1, 1, 7, 0, 0, 0, time.UTC)
	got := formatLine(ts, LevelInfo, "push channel open", "url", "ws://x/ws", "attempt", 2)
	want := "2025-01-01T07:00:00Z [INFO] push channel open url=ws://x/ws attempt=2"
	if got != want {
		t.Fatalf("formatLine = %q, want %q", got, want)
	}
}

func TestFormatKVs_IgnoresOddAndNonStringKeys(t *testing.T) {
	got := formatKVs("a", 1, 2, "b", "dangling")
	if got != " a=1" {
		t.Fatalf("formatKVs = %q, want %q", got, " a=1")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetLevel(LevelInfo)
	})

	SetLevel(LevelError)
	Info("hidden")
	Debug("hidden too")
	Error("poll failed", errors.New("boom"), "domain", "weather")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("output = %q, want INFO/DEBUG filtered", out)
	}
	if !strings.Contains(out, "[ERROR] poll failed err=boom domain=weather") {
		t.Fatalf("output = %q, want error line with kvs", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{" ERROR ", LevelError},
		{"info", LevelInfo},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
