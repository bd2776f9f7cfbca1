// Package prefs handles porch display preferences persistence.
// Preferences are stored in ~/.config/porch/prefs.toml.
package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds display preferences for the kiosk.
type Prefs struct {
	Theme           string  `toml:"theme"`
	BackgroundTheme string  `toml:"background_theme"`
	GlassOpacity    float64 `toml:"glass_opacity"`
	GlassMode       string  `toml:"glass_mode"`
	Orientation     string  `toml:"orientation"`
	TouchMode       bool    `toml:"touch_mode"`
	WeatherEffects  bool    `toml:"weather_effects"`
	HolidayPreview  string  `toml:"holiday_preview"`
}

// Orientation and glass mode values.
const (
	Landscape = "landscape"
	Portrait  = "portrait"

	GlassFrosted = "frosted"
	GlassSolid   = "solid"
	GlassNone    = "none"
)

const (
	defaultPrefsPath       = "~/.config/porch/prefs.toml"
	defaultTheme           = "Nightfox"
	defaultBackgroundTheme = "auto"
	defaultGlassOpacity    = 0.35
)

// Default returns the preferences used when nothing is stored.
func Default() Prefs {
	return Prefs{
		Theme:           defaultTheme,
		BackgroundTheme: defaultBackgroundTheme,
		GlassOpacity:    defaultGlassOpacity,
		GlassMode:       GlassFrosted,
		Orientation:     Landscape,
		WeatherEffects:  true,
	}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if
// missing or unreadable.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		return Default(), nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Default(), nil // Graceful degradation
	}

	p := Default()
	if err := toml.Unmarshal(bytes, &p); err != nil {
		return Default(), nil // Graceful degradation
	}
	return p.normalized(), nil
}

// Save writes preferences atomically, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	encoded, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := atomic.WriteFile(resolved, bytes.NewReader(encoded)); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// normalized replaces empty or out-of-range values with defaults.
func (p Prefs) normalized() Prefs {
	def := Default()
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = def.Theme
	}
	if strings.TrimSpace(p.BackgroundTheme) == "" {
		p.BackgroundTheme = def.BackgroundTheme
	}
	p.GlassOpacity = min(max(p.GlassOpacity, 0), 1)
	switch p.GlassMode {
	case GlassFrosted, GlassSolid, GlassNone:
	default:
		p.GlassMode = def.GlassMode
	}
	switch p.Orientation {
	case Landscape, Portrait:
	default:
		p.Orientation = def.Orientation
	}
	return p
}

// ErrUnknownKey is returned by Get and Set for names that are not prefs.
var ErrUnknownKey = errors.New("unknown preference")

// Keys returns the fixed preference names in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(accessors))
	for k := range accessors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type accessor struct {
	get func(Prefs) string
	set func(*Prefs, string) error
}

var accessors = map[string]accessor{
	"theme": {
		get: func(p Prefs) string { return p.Theme },
		set: func(p *Prefs, v string) error { p.Theme = v; return nil },
	},
	"background_theme": {
		get: func(p Prefs) string { return p.BackgroundTheme },
		set: func(p *Prefs, v string) error { p.BackgroundTheme = v; return nil },
	},
	"glass_opacity": {
		get: func(p Prefs) string { return strconv.FormatFloat(p.GlassOpacity, 'f', -1, 64) },
		set: func(p *Prefs, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("glass_opacity must be between 0 and 1")
			}
			p.GlassOpacity = f
			return nil
		},
	},
	"glass_mode": {
		get: func(p Prefs) string { return p.GlassMode },
		set: func(p *Prefs, v string) error {
			switch v {
			case GlassFrosted, GlassSolid, GlassNone:
				p.GlassMode = v
				return nil
			}
			return fmt.Errorf("glass_mode must be %s, %s or %s", GlassFrosted, GlassSolid, GlassNone)
		},
	},
	"orientation": {
		get: func(p Prefs) string { return p.Orientation },
		set: func(p *Prefs, v string) error {
			if v != Landscape && v != Portrait {
				return fmt.Errorf("orientation must be %s or %s", Landscape, Portrait)
			}
			p.Orientation = v
			return nil
		},
	},
	"touch_mode": {
		get: func(p Prefs) string { return strconv.FormatBool(p.TouchMode) },
		set: func(p *Prefs, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("touch_mode must be true or false")
			}
			p.TouchMode = b
			return nil
		},
	},
	"weather_effects": {
		get: func(p Prefs) string { return strconv.FormatBool(p.WeatherEffects) },
		set: func(p *Prefs, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("weather_effects must be true or false")
			}
			p.WeatherEffects = b
			return nil
		},
	},
	"holiday_preview": {
		get: func(p Prefs) string { return p.HolidayPreview },
		set: func(p *Prefs, v string) error { p.HolidayPreview = v; return nil },
	},
}

// Get returns the string form of the named preference.
func (p Prefs) Get(key string) (string, error) {
	a, ok := accessors[key]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	return a.get(p), nil
}

// Set parses value into the named preference.
func (p *Prefs) Set(key, value string) error {
	a, ok := accessors[key]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	return a.set(p, strings.TrimSpace(value))
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
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
