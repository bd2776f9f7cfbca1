package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/porch/internal/prefs"
	"github.com/five82/porch/internal/state"
)

// Card placement per orientation. Landscape splits the cards into two
// columns; portrait stacks both lists.
var (
	leftColumn  = []state.Domain{state.Weather, state.Notes, state.Jarvis}
	rightColumn = []state.Domain{state.Calendar, state.Nest, state.Spotify, state.Photos}
)

// renderMain renders the status bar above the cards.
func (m Model) renderMain() string {
	left := append([]string{m.renderClock()}, m.cachedCards(leftColumn)...)
	right := m.cachedCards(rightColumn)

	var body string
	if m.prefs.Orientation == prefs.Portrait {
		body = lipgloss.JoinVertical(lipgloss.Left, append(left, right...)...)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.JoinVertical(lipgloss.Left, left...),
			lipgloss.JoinVertical(lipgloss.Left, right...),
		)
	}

	height := max(m.height-1, 0)
	body = clipLines(body, height)
	main := lipgloss.Place(m.width, height, lipgloss.Left, lipgloss.Top, body,
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)))
	return m.renderStatusBar() + "\n" + main
}

// cachedCards returns the rendered cards for ds, skipping hidden ones.
func (m Model) cachedCards(ds []state.Domain) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		if card := m.cards[d]; card != "" {
			out = append(out, card)
		}
	}
	return out
}

// clipLines drops lines past n so a small terminal shows the top cards
// instead of scrolling.
func clipLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}

func nextOrientation(o string) string {
	if o == prefs.Portrait {
		return prefs.Landscape
	}
	return prefs.Portrait
}
