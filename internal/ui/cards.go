package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/porch/internal/dashboard"
	"github.com/five82/porch/internal/prefs"
	"github.com/five82/porch/internal/state"
)

const (
	defaultCardWidth = 40
	maxNoteLines     = 8
)

// renderCard renders the card for d. Hidden cards render as "".
func (m Model) renderCard(d state.Domain) string {
	st := m.domains[d]
	styles := m.theme.Styles().WithBackground(m.cardBackground())
	var (
		title string
		body  []string
	)
	switch d {
	case state.Weather:
		title, body = "Weather", m.weatherBody(st, styles)
	case state.Calendar:
		title, body = "Calendar", m.calendarBody(styles)
	case state.Notes:
		title, body = "Notes", notesBody(st, styles)
	case state.Jarvis:
		title, body = "Jarvis", briefingBody(st, styles)
	case state.Nest:
		nest := state.Value[dashboard.Nest](st)
		if !nest.Visible() {
			return ""
		}
		title, body = "Thermostat", nestBody(nest, styles)
	case state.Spotify:
		sp := state.Value[dashboard.Spotify](st)
		if !sp.PlayerVisible() {
			return ""
		}
		title, body = "Now Playing", m.spotifyBody(sp, styles)
	case state.Photos:
		title, body = "Photos", m.photoBody(styles)
	default:
		return ""
	}
	return m.frame(st, title, body, styles)
}

// frame wraps body in the glass card for st.
func (m Model) frame(st state.DomainState, title string, body []string, styles Styles) string {
	bg := lipgloss.Color(m.cardBackground())
	borderColor := m.theme.Border
	heading := styles.Title.Render(title)
	switch {
	case st.IsOffline():
		borderColor = m.theme.BorderMuted
		heading += styles.DangerText.Render(" · offline")
	case st.Stale:
		borderColor = m.theme.BorderMuted
		heading += styles.WarningText.Render(" · stale")
	}
	lines := append([]string{heading}, body...)
	if st.LastError != nil {
		lines = append(lines, styles.FaintText.Render(dashboard.StatusText(st.LastError)))
	}

	padV, padH := 0, 1
	if m.prefs.TouchMode {
		padV, padH = 1, 2
	}
	return lipgloss.NewStyle().
		Border(glassBorder(m.prefs.GlassMode)).
		BorderForeground(lipgloss.Color(borderColor)).
		BorderBackground(lipgloss.Color(m.theme.Background)).
		Background(bg).
		Foreground(lipgloss.Color(m.theme.Text)).
		Padding(padV, padH).
		Width(max(m.cardWidth()-2, 10)).
		Render(strings.Join(lines, "\n"))
}

func glassBorder(mode string) lipgloss.Border {
	switch mode {
	case prefs.GlassSolid:
		return lipgloss.ThickBorder()
	case prefs.GlassNone:
		return lipgloss.HiddenBorder()
	default:
		return lipgloss.RoundedBorder()
	}
}

func (m Model) cardBackground() string {
	return m.theme.CardBackground(m.prefs.GlassOpacity)
}

// cardWidth is the outer width of one card for the current orientation.
func (m Model) cardWidth() int {
	if m.width <= 0 {
		return defaultCardWidth
	}
	if m.prefs.Orientation == prefs.Portrait {
		return m.width
	}
	return m.width / 2
}

// innerWidth is the usable text width inside a card.
func (m Model) innerWidth() int {
	pad := 2
	if m.prefs.TouchMode {
		pad = 4
	}
	return max(m.cardWidth()-2-pad, 8)
}

func (m Model) renderClock() string {
	styles := m.theme.Styles().WithBackground(m.cardBackground())
	body := []string{
		styles.Clock.Render(m.now.Format("15:04:05")),
		styles.MutedText.Render(m.now.Format("Monday, January 2")),
	}
	return m.frame(state.DomainState{}, "Clock", body, styles)
}

func (m Model) weatherBody(st state.DomainState, styles Styles) []string {
	w := state.Value[dashboard.Weather](st)
	if !st.HasData {
		return []string{styles.MutedText.Render(w.Description)}
	}
	unit := w.Unit
	if unit == "" {
		unit = "°"
	}
	head := fmt.Sprintf("%s%s %s", w.Temp.Format(0), unit, w.Description)
	if m.prefs.WeatherEffects {
		head = weatherGlyph(w) + " " + head
	}
	lines := []string{styles.Text.Bold(true).Render(strings.TrimSpace(head))}
	if w.Location != "" {
		lines = append(lines, styles.MutedText.Render(w.Location))
	}
	lines = append(lines, styles.MutedText.Render(fmt.Sprintf(
		"Feels %s  Humidity %s%%  Wind %s",
		w.FeelsLike.Format(0), w.Humidity.Format(0), w.WindSpeed.Format(0),
	)))
	var sun []string
	if w.Sunrise != "" {
		sun = append(sun, "↑ "+w.Sunrise)
	}
	if w.Sunset != "" {
		sun = append(sun, "↓ "+w.Sunset)
	}
	if w.IsNight && w.MoonPhase != nil && w.MoonPhase.Name != "" {
		sun = append(sun, w.MoonPhase.Name)
	}
	if len(sun) > 0 {
		lines = append(lines, styles.FaintText.Render(strings.Join(sun, "  ")))
	}
	return lines
}

// weatherGlyph prefers the backend's effect name, then the moon at a clear
// night, then the description.
func weatherGlyph(w dashboard.Weather) string {
	switch effect := strings.ToLower(w.WeatherEffect); effect {
	case "", "none":
	case "wind":
		return "≈"
	default:
		return conditionGlyph(effect)
	}
	if w.IsNight && w.MoonPhase != nil && w.MoonPhase.Emoji != "" {
		return w.MoonPhase.Emoji
	}
	return conditionGlyph(w.Description)
}

// conditionGlyph picks a symbol for a weather description.
func conditionGlyph(desc string) string {
	d := strings.ToLower(desc)
	switch {
	case strings.Contains(d, "thunder"), strings.Contains(d, "storm"):
		return "⛈"
	case strings.Contains(d, "snow"), strings.Contains(d, "sleet"):
		return "❄"
	case strings.Contains(d, "rain"), strings.Contains(d, "drizzle"), strings.Contains(d, "shower"):
		return "☂"
	case strings.Contains(d, "fog"), strings.Contains(d, "mist"), strings.Contains(d, "haze"):
		return "≋"
	case strings.Contains(d, "cloud"), strings.Contains(d, "overcast"):
		return "☁"
	case strings.Contains(d, "clear"), strings.Contains(d, "sun"):
		return "☀"
	default:
		return "·"
	}
}

func (m Model) calendarBody(styles Styles) []string {
	cal := m.calendar()
	lines := m.renderCalendarSection("Today", cal.Today, m.today, styles, false)
	lines = append(lines, "")
	return append(lines, m.renderCalendarSection("Upcoming", cal.Upcoming, m.upcoming, styles, true)...)
}

func notesBody(st state.DomainState, styles Styles) []string {
	lines := state.Value[dashboard.Notes](st).Lines()
	if len(lines) == 0 {
		return []string{styles.FaintText.Render("No notes")}
	}
	out := make([]string, 0, min(len(lines), maxNoteLines)+1)
	for i, line := range lines {
		if i == maxNoteLines {
			out = append(out, styles.FaintText.Render(fmt.Sprintf("+%d more", len(lines)-maxNoteLines)))
			break
		}
		out = append(out, styles.Text.Render(line))
	}
	return out
}

func briefingBody(st state.DomainState, styles Styles) []string {
	b := state.Value[dashboard.Briefing](st)
	text := strings.TrimSpace(b.Message)
	if text == "" {
		if b.Source == dashboard.BriefingDisabled {
			return []string{styles.FaintText.Render("Jarvis is disabled")}
		}
		return []string{styles.FaintText.Render("No briefing yet")}
	}
	return []string{styles.Text.Render(text)}
}

func nestBody(n dashboard.Nest, styles Styles) []string {
	t := n.Thermostat
	if t == nil {
		return []string{styles.MutedText.Render("Waiting for thermostat")}
	}
	lines := []string{
		styles.Text.Bold(true).Render(t.AmbientF.Format(0)+"°F") +
			styles.MutedText.Render("  set "+t.SetpointText()),
	}
	status := strings.ToLower(t.HVACStatus)
	if status == "" {
		status = "off"
	}
	line := styles.StatusStyle(status).Render(status)
	if t.HVACMode != "" {
		line += styles.MutedText.Render("  " + strings.ToLower(t.HVACMode))
	}
	if t.Humidity.Valid {
		line += styles.MutedText.Render("  " + t.Humidity.Format(0) + "% RH")
	}
	lines = append(lines, line)
	name := t.DisplayName
	if !t.IsOnline && t.Connectivity != "" {
		name = strings.TrimSpace(name + "  " + strings.ToLower(t.Connectivity))
	}
	if name != "" {
		lines = append(lines, styles.FaintText.Render(name))
	}
	return lines
}

func (m Model) spotifyBody(sp dashboard.Spotify, styles Styles) []string {
	np := sp.NowPlaying
	lines := []string{
		styles.Text.Bold(true).Render("♪ " + np.Track.Name),
		styles.MutedText.Render(np.Track.Artist),
	}
	if np.Track.DurationMS > 0 {
		bar := progress.New(
			progress.WithSolidFill(m.theme.Accent),
			progress.WithWidth(m.innerWidth()),
			progress.WithoutPercentage(),
		)
		pct := float64(np.ProgressMS) / float64(np.Track.DurationMS)
		lines = append(lines, bar.ViewAs(min(max(pct, 0), 1)))
	}
	if np.Device != nil && np.Device.Name != "" {
		lines = append(lines, styles.FaintText.Render("on "+np.Device.Name))
	}
	return lines
}

func (m Model) photoBody(styles Styles) []string {
	p, ok := m.currentPhoto()
	if !ok {
		return []string{styles.FaintText.Render("No photos")}
	}
	lines := []string{styles.Text.Render(p.Label())}
	meta := fmt.Sprintf("%d/%d", m.slideIndex%len(m.photos())+1, len(m.photos()))
	if taken := photoDate(p.Modified); taken != "" {
		meta += "  " + taken
	}
	if m.slideshow {
		meta += "  ▶"
	}
	return append(lines, styles.FaintText.Render(meta))
}

// photoDate shortens the backend's ISO modification time to a day.
func photoDate(modified string) string {
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", strings.TrimSpace(modified), time.Local); err == nil {
		return t.Format("Jan 2 2006")
	}
	if len(modified) >= 10 {
		return modified[:10]
	}
	return ""
}
