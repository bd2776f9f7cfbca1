package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBind != defaultAPIBind {
		t.Fatalf("APIBind = %q, want %q", cfg.APIBind, defaultAPIBind)
	}
	if cfg.PushPath != "/ws" {
		t.Fatalf("PushPath = %q, want /ws", cfg.PushPath)
	}
	if want := filepath.Join(home, ".local/share/porch/cache"); cfg.CacheDir != want {
		t.Fatalf("CacheDir = %q, want %q", cfg.CacheDir, want)
	}
	if cfg.ReconnectDelay != 5*time.Second {
		t.Fatalf("ReconnectDelay = %v, want 5s", cfg.ReconnectDelay)
	}
	if diff := cmp.Diff(DefaultIntervals(), cfg.Intervals); diff != "" {
		t.Fatalf("intervals mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultIntervals(t *testing.T) {
	iv := DefaultIntervals()
	if iv.Weather != 5*time.Minute || iv.Calendar != 5*time.Minute || iv.Notes != 5*time.Minute {
		t.Fatalf("core intervals = %+v, want 5m", iv)
	}
	if iv.Nest != time.Minute || iv.NestStatus != 5*time.Minute {
		t.Fatalf("nest intervals = %v/%v, want 1m/5m", iv.Nest, iv.NestStatus)
	}
	if iv.Spotify != 3*time.Second || iv.SpotifyStatus != 5*time.Minute {
		t.Fatalf("spotify intervals = %v/%v, want 3s/5m", iv.Spotify, iv.SpotifyStatus)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_bind = "  10.0.0.5:9999  "
push_path = "socket"
log_path = "  ~/logs/porch.log  "
briefing_cron = "30 7 * * 1-5"
rollover_cron = "off"
reconnect_delay = 2

[intervals]
weather = 60
spotify = 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBind != "10.0.0.5:9999" {
		t.Fatalf("APIBind = %q, want %q", cfg.APIBind, "10.0.0.5:9999")
	}
	if cfg.PushPath != "/socket" {
		t.Fatalf("PushPath = %q, want /socket", cfg.PushPath)
	}
	if cfg.LogPath != filepath.Join(home, "logs/porch.log") {
		t.Fatalf("LogPath = %q, want it under HOME", cfg.LogPath)
	}
	if cfg.BriefingCron != "30 7 * * 1-5" || cfg.RolloverCron != "" {
		t.Fatalf("cron = %q/%q, want custom briefing and disabled rollover", cfg.BriefingCron, cfg.RolloverCron)
	}
	if cfg.ReconnectDelay != 2*time.Second {
		t.Fatalf("ReconnectDelay = %v, want 2s", cfg.ReconnectDelay)
	}
	if cfg.Intervals.Weather != time.Minute || cfg.Intervals.Spotify != 10*time.Second {
		t.Fatalf("intervals = %+v, want weather 1m spotify 10s", cfg.Intervals)
	}
	if cfg.Intervals.Calendar != 5*time.Minute {
		t.Fatalf("Calendar = %v, want default 5m", cfg.Intervals.Calendar)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
api_bind = "   "
log_level = ""
briefing_cron = ""
[intervals]
notes = 0
nest = -5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBind != defaultAPIBind || cfg.LogLevel != defaultLogLevel {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
	if cfg.BriefingCron != defaultBriefingCron {
		t.Fatalf("BriefingCron = %q, want %q", cfg.BriefingCron, defaultBriefingCron)
	}
	if cfg.Intervals.Notes != 5*time.Minute || cfg.Intervals.Nest != time.Minute {
		t.Fatalf("intervals = %+v, want defaults for non-positive values", cfg.Intervals)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `api_bind = [`))
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %v, want parse config error", err)
	}
}

func TestLoad_InvalidCronFails(t *testing.T) {
	_, err := Load(writeConfig(t, `briefing_cron = "every morning"`))
	if err == nil || !strings.Contains(err.Error(), "briefing_cron") {
		t.Fatalf("Load error = %v, want briefing_cron error", err)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if want := filepath.Join(home, "a/b"); got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := ExpandPath("   "); err == nil {
		t.Fatalf("ExpandPath returned nil error, want error")
	}
}
