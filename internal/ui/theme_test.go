package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/porch/internal/dashboard"
	"github.com/five82/porch/internal/prefs"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 || names[0] != "Nightfox" {
		t.Fatalf("ThemeNames() = %v, want Nightfox first of 3", names)
	}
}

func TestNextTheme(t *testing.T) {
	tests := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Nightfox",
		"unknown":  "Nightfox",
	}
	for in, want := range tests {
		if got := NextTheme(in); got != want {
			t.Errorf("NextTheme(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetTheme_FallsBackToNightfox(t *testing.T) {
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Dracula) = %q, want Nightfox", got)
	}
}

func TestCardBackground(t *testing.T) {
	th := GetTheme("Nightfox")
	if got := th.CardBackground(0); got != th.Background {
		t.Fatalf("opacity 0 = %q, want background %q", got, th.Background)
	}
	if got := th.CardBackground(1); got != th.SurfaceAlt {
		t.Fatalf("opacity 1 = %q, want %q", got, th.SurfaceAlt)
	}
	mid := th.CardBackground(0.5)
	if mid == th.Background || mid == th.SurfaceAlt {
		t.Fatalf("opacity 0.5 = %q, want a blend", mid)
	}
}

func TestBackdropAndHoliday(t *testing.T) {
	th := GetTheme("Nightfox")
	if got := th.WithBackdrop("auto").Background; got != th.Background {
		t.Fatalf("auto backdrop changed background to %q", got)
	}
	if got := th.WithBackdrop("Slate").Background; got != GetTheme("Slate").Background {
		t.Fatalf("Slate backdrop = %q", got)
	}
	if got := th.WithHoliday("Halloween").Accent; got != holidayAccents["halloween"] {
		t.Fatalf("holiday accent = %q", got)
	}
	if got := th.WithHoliday("").Accent; got != th.Accent {
		t.Fatalf("empty holiday changed accent to %q", got)
	}
}

func TestGlassBorder(t *testing.T) {
	if glassBorder(prefs.GlassFrosted) != lipgloss.RoundedBorder() {
		t.Fatal("frosted should be rounded")
	}
	if glassBorder(prefs.GlassSolid) != lipgloss.ThickBorder() {
		t.Fatal("solid should be thick")
	}
	if glassBorder(prefs.GlassNone) != lipgloss.HiddenBorder() {
		t.Fatal("none should be hidden")
	}
}

func TestConditionGlyph(t *testing.T) {
	tests := map[string]string{
		"Thunderstorm":  "⛈",
		"Light snow":    "❄",
		"Rain showers":  "☂",
		"Partly cloudy": "☁",
		"Clear sky":     "☀",
		"Unavailable":   "·",
	}
	for in, want := range tests {
		if got := conditionGlyph(in); got != want {
			t.Errorf("conditionGlyph(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWeatherGlyph(t *testing.T) {
	moon := &dashboard.MoonPhase{Name: "Full Moon", Emoji: "🌕"}
	tests := []struct {
		name string
		w    dashboard.Weather
		want string
	}{
		{"effect wins", dashboard.Weather{WeatherEffect: "storm", Description: "clear sky"}, "⛈"},
		{"wind", dashboard.Weather{WeatherEffect: "wind", Description: "clear sky"}, "≈"},
		{"clear night", dashboard.Weather{WeatherEffect: "none", IsNight: true, MoonPhase: moon, Description: "clear sky"}, "🌕"},
		{"description fallback", dashboard.Weather{WeatherEffect: "none", Description: "overcast clouds"}, "☁"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := weatherGlyph(tt.w); got != tt.want {
				t.Fatalf("weatherGlyph = %q, want %q", got, tt.want)
			}
		})
	}
}
