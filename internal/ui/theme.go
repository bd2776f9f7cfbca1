package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme defines the kiosk palette.
type Theme struct {
	Name string

	// Base colors
	Background string // Behind every card
	Surface    string // Status bar
	SurfaceAlt string // Card glass tint at full opacity

	// Border colors
	Border      string
	BorderMuted string // Stale cards

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// HVAC and connection colors
	StatusColors map[string]string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Background: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Background)),

		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		InfoText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)),

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		Clock: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		statusColors: t.StatusColors,
		background:   t.Background,
		muted:        t.Muted,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Background lipgloss.Style

	// Text
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	// Components
	Title     lipgloss.Style
	Clock     lipgloss.Style
	StatusBar lipgloss.Style

	statusColors map[string]string
	background   string
	muted        string
}

// StatusStyle returns a badge style for an HVAC or connection status.
func (s Styles) StatusStyle(status string) lipgloss.Style {
	color := s.statusColors[strings.ToLower(strings.TrimSpace(status))]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// WithBackground returns a copy of Styles whose text styles carry bgColor,
// so text inside a tinted card does not punch holes in the tint.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)

	return Styles{
		Background: s.Background.Background(bg),

		Text:        s.Text.Background(bg),
		MutedText:   s.MutedText.Background(bg),
		FaintText:   s.FaintText.Background(bg),
		AccentText:  s.AccentText.Background(bg),
		SuccessText: s.SuccessText.Background(bg),
		WarningText: s.WarningText.Background(bg),
		DangerText:  s.DangerText.Background(bg),
		InfoText:    s.InfoText.Background(bg),

		Title:     s.Title.Background(bg),
		Clock:     s.Clock.Background(bg),
		StatusBar: s.StatusBar,

		statusColors: s.statusColors,
		background:   s.background,
		muted:        s.muted,
	}
}

// CardBackground mixes the background with the glass tint. opacity 0 is
// the bare background, 1 the full SurfaceAlt.
func (t Theme) CardBackground(opacity float64) string {
	return blend(t.Background, t.SurfaceAlt, opacity)
}

// WithBackdrop replaces the background with the named theme's one. "auto"
// and unknown names keep t unchanged.
func (t Theme) WithBackdrop(name string) Theme {
	if name == "" || strings.EqualFold(name, "auto") {
		return t
	}
	other, ok := themes[name]
	if !ok {
		return t
	}
	t.Background = other.Background
	return t
}

// WithHoliday tints the accent for a holiday preview. Unknown names keep
// t unchanged.
func (t Theme) WithHoliday(name string) Theme {
	if accent, ok := holidayAccents[strings.ToLower(strings.TrimSpace(name))]; ok {
		t.Accent = accent
	}
	return t
}

var holidayAccents = map[string]string{
	"halloween":    "#f4a261",
	"christmas":    "#c94f6d",
	"thanksgiving": "#d08c47",
	"valentines":   "#e46893",
	"independence": "#719cd6",
	"easter":       "#b8a1e3",
	"newyear":      "#dbc074",
}

func blend(from, to string, t float64) string {
	t = min(max(t, 0), 1)
	a, err := colorful.Hex(from)
	if err != nil {
		return from
	}
	b, err := colorful.Hex(to)
	if err != nil {
		return from
	}
	return a.BlendRgb(b, t).Clamped().Hex()
}

// Theme definitions

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Kanagawa": kanagawaTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return nightfoxTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func nightfoxTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name: "Nightfox",

		Background: "#131a24", // bg0
		Surface:    "#192330", // bg1
		SurfaceAlt: "#29394f", // bg3

		Border:      "#39506d", // bg4
		BorderMuted: "#212e3f", // bg2

		Text:    "#cdcecf", // fg1
		Muted:   "#738091", // comment
		Faint:   "#71839b", // fg3
		Accent:  "#719cd6", // blue
		Success: "#81b29a", // green
		Warning: "#dbc074", // yellow
		Danger:  "#c94f6d", // red
		Info:    "#63cdcf", // cyan

		StatusColors: map[string]string{
			"heating":    "#f4a261", // orange
			"cooling":    "#63cdcf", // cyan
			"off":        "#738091", // comment
			"open":       "#81b29a", // green
			"connecting": "#dbc074", // yellow
			"retrying":   "#c94f6d", // red
			"stale":      "#dbc074", // yellow
			"offline":    "#c94f6d", // red
		},
	}
}

func kanagawaTheme() Theme {
	// Kanagawa palette: https://github.com/rebelot/kanagawa.nvim
	return Theme{
		Name: "Kanagawa",

		Background: "#16161D", // sumiInk0
		Surface:    "#1F1F28", // sumiInk3
		SurfaceAlt: "#363646", // sumiInk5

		Border:      "#54546D", // sumiInk6
		BorderMuted: "#2A2A37", // sumiInk4

		Text:    "#DCD7BA", // fujiWhite
		Muted:   "#C8C093", // oldWhite
		Faint:   "#727169", // fujiGray
		Accent:  "#7E9CD8", // crystalBlue
		Success: "#98BB6C", // springGreen
		Warning: "#E6C384", // carpYellow
		Danger:  "#E46876", // waveRed
		Info:    "#7FB4CA", // springBlue

		StatusColors: map[string]string{
			"heating":    "#FFA066", // surimiOrange
			"cooling":    "#7FB4CA", // springBlue
			"off":        "#727169", // fujiGray
			"open":       "#98BB6C", // springGreen
			"connecting": "#E6C384", // carpYellow
			"retrying":   "#E46876", // waveRed
			"stale":      "#E6C384", // carpYellow
			"offline":    "#E46876", // waveRed
		},
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name: "Slate",

		Background: "#020617", // slate-950
		Surface:    "#0f172a", // slate-900
		SurfaceAlt: "#334155", // slate-700

		Border:      "#475569", // slate-600
		BorderMuted: "#1e293b", // slate-800

		Text:    "#f1f5f9", // slate-100
		Muted:   "#94a3b8", // slate-400
		Faint:   "#64748b", // slate-500
		Accent:  "#38bdf8", // sky-400
		Success: "#22c55e", // green-500
		Warning: "#f59e0b", // amber-500
		Danger:  "#ef4444", // red-500
		Info:    "#06b6d4", // cyan-500

		StatusColors: map[string]string{
			"heating":    "#f97316", // orange-500
			"cooling":    "#0ea5e9", // sky-500
			"off":        "#64748b", // slate-500
			"open":       "#22c55e", // green-500
			"connecting": "#f59e0b", // amber-500
			"retrying":   "#dc2626", // red-600
			"stale":      "#f59e0b", // amber-500
			"offline":    "#dc2626", // red-600
		},
	}
}
