package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/porch/internal/dashboard"
	"github.com/five82/porch/internal/state"
)

// slideTickMsg advances the slideshow if gen is still the running one.
type slideTickMsg struct{ gen int }

func slideTickCmd(gen int) tea.Cmd {
	return tea.Tick(slideInterval, func(time.Time) tea.Msg {
		return slideTickMsg{gen: gen}
	})
}

// toggleSlideshow starts or stops the photo rotation. Every start bumps
// the generation so the previous run's pending tick is ignored.
func (m *Model) toggleSlideshow() tea.Cmd {
	m.slideshow = !m.slideshow
	m.slideGen++
	m.cards[state.Photos] = m.renderCard(state.Photos)
	if !m.slideshow {
		return nil
	}
	return slideTickCmd(m.slideGen)
}

func (m Model) handleSlideTick(msg slideTickMsg) (tea.Model, tea.Cmd) {
	if !m.slideshow || msg.gen != m.slideGen {
		return m, nil
	}
	if n := len(m.photos()); n > 0 {
		m.slideIndex = (m.slideIndex + 1) % n
	}
	m.cards[state.Photos] = m.renderCard(state.Photos)
	return m, slideTickCmd(msg.gen)
}

func (m Model) photos() []dashboard.Photo {
	return state.Value[dashboard.Photos](m.domains[state.Photos]).Photos
}

func (m Model) currentPhoto() (dashboard.Photo, bool) {
	ps := m.photos()
	if len(ps) == 0 {
		return dashboard.Photo{}, false
	}
	return ps[m.slideIndex%len(ps)], true
}
