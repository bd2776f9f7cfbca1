package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/porch/internal/cycle"
	"github.com/five82/porch/internal/dashboard"
	"github.com/five82/porch/internal/state"
)

type calendarCard int

const (
	cardToday calendarCard = iota
	cardUpcoming
)

// cycleTickMsg advances one calendar card if its generation is current.
type cycleTickMsg struct {
	card calendarCard
	gen  int
}

func cycleTickCmd(card calendarCard, gen int) tea.Cmd {
	return tea.Tick(cycle.Period, func(time.Time) tea.Msg {
		return cycleTickMsg{card: card, gen: gen}
	})
}

func (m Model) calendar() dashboard.Calendar {
	return state.Value[dashboard.Calendar](m.domains[state.Calendar])
}

// resetCalendarCycles restarts both rotations. Ticks already in flight
// carry the old generation and are dropped on arrival.
func (m *Model) resetCalendarCycles() {
	cal := m.calendar()
	m.today.Reset(len(cal.Today))
	m.upcoming.Reset(len(cal.Upcoming))
}

func (m Model) calendarTicks() []tea.Cmd {
	var cmds []tea.Cmd
	if m.today.Mode() == cycle.Cycling {
		cmds = append(cmds, cycleTickCmd(cardToday, m.today.Gen()))
	}
	if m.upcoming.Mode() == cycle.Cycling {
		cmds = append(cmds, cycleTickCmd(cardUpcoming, m.upcoming.Gen()))
	}
	return cmds
}

func (m Model) handleCycleTick(msg cycleTickMsg) (tea.Model, tea.Cmd) {
	c := &m.today
	if msg.card == cardUpcoming {
		c = &m.upcoming
	}
	if !c.Accept(msg.gen) {
		return m, nil
	}
	c.Advance()
	m.cards[state.Calendar] = m.renderCard(state.Calendar)
	return m, cycleTickCmd(msg.card, msg.gen)
}

// renderCalendarSection renders one list: the pinned first entry, the
// rotating entry and the position dots.
func (m Model) renderCalendarSection(title string, events []dashboard.CalendarEvent, c cycle.Controller, styles Styles, withDate bool) []string {
	lines := []string{styles.Title.Render(title)}
	if len(events) == 0 {
		return append(lines, styles.FaintText.Render("Nothing scheduled"))
	}
	lines = append(lines, m.eventLine(events[0], styles, withDate))
	if ev, ok := cycle.Current(c, events); ok {
		lines = append(lines, m.eventLine(ev, styles, withDate))
	}
	if dots := c.Dots(); len(dots) > 0 {
		lines = append(lines, renderDots(dots, styles))
	}
	return lines
}

func (m Model) eventLine(ev dashboard.CalendarEvent, styles Styles, withDate bool) string {
	when := ev.DisplayTime()
	if withDate {
		if d := ev.DisplayDate(); d != "" {
			when = d + " " + when
		}
	}
	return styles.AccentText.Render(strings.TrimSpace(when)) + styles.Text.Render(" "+ev.Title)
}

func renderDots(dots []bool, styles Styles) string {
	parts := make([]string, len(dots))
	for i, active := range dots {
		if active {
			parts[i] = styles.AccentText.Render("●")
		} else {
			parts[i] = styles.FaintText.Render("○")
		}
	}
	return strings.Join(parts, styles.Text.Render(" "))
}
