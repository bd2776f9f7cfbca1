package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Intervals holds the poll cadence per domain.
type Intervals struct {
	Weather       time.Duration
	Calendar      time.Duration
	Notes         time.Duration
	Jarvis        time.Duration
	Photos        time.Duration
	Nest          time.Duration // thermostat, while connected
	NestStatus    time.Duration
	Spotify       time.Duration // now-playing, while connected
	SpotifyStatus time.Duration
}

// Config captures everything porch needs to reach and mirror the backend.
type Config struct {
	APIBind        string
	PushPath       string
	CacheDir       string
	LogPath        string
	LogLevel       string
	BriefingCron   string // empty disables the job
	RolloverCron   string // empty disables the job
	ReconnectDelay time.Duration
	Intervals      Intervals
}

const (
	defaultConfigPath     = "~/.config/porch/config.toml"
	defaultAPIBind        = "127.0.0.1:5000"
	defaultPushPath       = "/ws"
	defaultCacheDir       = "~/.local/share/porch/cache"
	defaultLogPath        = "~/.local/share/porch/porch.log"
	defaultLogLevel       = "info"
	defaultBriefingCron   = "0 6 * * *"
	defaultRolloverCron   = "0 0 * * *"
	defaultReconnectDelay = 5 * time.Second

	// cronDisabled turns a cron job off.
	cronDisabled = "off"
)

// DefaultIntervals returns the stock poll cadence.
func DefaultIntervals() Intervals {
	return Intervals{
		Weather:       5 * time.Minute,
		Calendar:      5 * time.Minute,
		Notes:         5 * time.Minute,
		Jarvis:        15 * time.Minute,
		Photos:        30 * time.Minute,
		Nest:          60 * time.Second,
		NestStatus:    5 * time.Minute,
		Spotify:       3 * time.Second,
		SpotifyStatus: 5 * time.Minute,
	}
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBind:        defaultAPIBind,
		PushPath:       defaultPushPath,
		CacheDir:       mustExpand(defaultCacheDir),
		LogPath:        mustExpand(defaultLogPath),
		LogLevel:       defaultLogLevel,
		BriefingCron:   defaultBriefingCron,
		RolloverCron:   defaultRolloverCron,
		ReconnectDelay: defaultReconnectDelay,
		Intervals:      DefaultIntervals(),
	}
}

type rawIntervals struct {
	Weather       int `toml:"weather"`
	Calendar      int `toml:"calendar"`
	Notes         int `toml:"notes"`
	Jarvis        int `toml:"jarvis"`
	Photos        int `toml:"photos"`
	Nest          int `toml:"nest"`
	NestStatus    int `toml:"nest_status"`
	Spotify       int `toml:"spotify"`
	SpotifyStatus int `toml:"spotify_status"`
}

type rawConfig struct {
	APIBind        string       `toml:"api_bind"`
	PushPath       string       `toml:"push_path"`
	CacheDir       string       `toml:"cache_dir"`
	LogPath        string       `toml:"log_path"`
	LogLevel       string       `toml:"log_level"`
	BriefingCron   string       `toml:"briefing_cron"`
	RolloverCron   string       `toml:"rollover_cron"`
	ReconnectDelay int          `toml:"reconnect_delay"`
	Intervals      rawIntervals `toml:"intervals"`
}

// Load locates and parses the porch config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIBind = orDefault(raw.APIBind, defaultAPIBind)
	cfg.PushPath = orDefault(raw.PushPath, defaultPushPath)
	if !strings.HasPrefix(cfg.PushPath, "/") {
		cfg.PushPath = "/" + cfg.PushPath
	}
	cfg.CacheDir = mustExpand(orDefault(raw.CacheDir, defaultCacheDir))
	cfg.LogPath = mustExpand(orDefault(raw.LogPath, defaultLogPath))
	cfg.LogLevel = orDefault(raw.LogLevel, defaultLogLevel)
	if raw.ReconnectDelay > 0 {
		cfg.ReconnectDelay = time.Duration(raw.ReconnectDelay) * time.Second
	}

	if cfg.BriefingCron, err = cronSpec(raw.BriefingCron, defaultBriefingCron); err != nil {
		return Config{}, fmt.Errorf("parse briefing_cron: %w", err)
	}
	if cfg.RolloverCron, err = cronSpec(raw.RolloverCron, defaultRolloverCron); err != nil {
		return Config{}, fmt.Errorf("parse rollover_cron: %w", err)
	}

	cfg.Intervals = mergeIntervals(raw.Intervals)
	return cfg, nil
}

func mergeIntervals(raw rawIntervals) Intervals {
	out := DefaultIntervals()
	pick := func(dst *time.Duration, seconds int) {
		if seconds > 0 {
			*dst = time.Duration(seconds) * time.Second
		}
	}
	pick(&out.Weather, raw.Weather)
	pick(&out.Calendar, raw.Calendar)
	pick(&out.Notes, raw.Notes)
	pick(&out.Jarvis, raw.Jarvis)
	pick(&out.Photos, raw.Photos)
	pick(&out.Nest, raw.Nest)
	pick(&out.NestStatus, raw.NestStatus)
	pick(&out.Spotify, raw.Spotify)
	pick(&out.SpotifyStatus, raw.SpotifyStatus)
	return out
}

// cronSpec validates a standard five-field expression. "off" disables the
// job and yields an empty spec.
func cronSpec(value, fallback string) (string, error) {
	spec := orDefault(value, fallback)
	if strings.EqualFold(spec, cronDisabled) {
		return "", nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return "", err
	}
	return spec, nil
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath expands a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
