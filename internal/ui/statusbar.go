package ui

import (
	"strings"

	"github.com/five82/porch/internal/push"
	"github.com/five82/porch/internal/state"
)

// renderStatusBar shows the push connection state, stale domains and the
// last action notice.
func (m Model) renderStatusBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{
		bg.Render("porch", styles.AccentText.Bold(true)),
		m.pushBadge(styles),
	}

	var stale, offline []string
	for _, d := range state.Domains {
		st := m.domains[d]
		switch {
		case st.IsOffline():
			offline = append(offline, string(d))
		case st.Stale:
			stale = append(stale, string(d))
		}
	}
	if len(offline) > 0 {
		parts = append(parts, bg.Render("offline: "+strings.Join(offline, ","), styles.DangerText))
	}
	if len(stale) > 0 {
		parts = append(parts, bg.Render("stale: "+strings.Join(stale, ","), styles.WarningText))
	}
	if m.prefs.HolidayPreview != "" {
		parts = append(parts, bg.Render("preview: "+m.prefs.HolidayPreview, styles.InfoText))
	}
	if m.notice != "" {
		parts = append(parts, bg.Render(m.notice, styles.MutedText))
	}
	parts = append(parts, bg.Render("h help", styles.FaintText))

	return styles.StatusBar.Width(m.width).Render(bg.Join(parts, 2))
}

func (m Model) pushBadge(styles Styles) string {
	label := "live"
	key := "open"
	switch m.pushState {
	case push.Connecting:
		label, key = "connecting", "connecting"
	case push.ClosedPendingRetry:
		label, key = "retrying", "retrying"
	}
	return styles.StatusStyle(key).Render("● " + label)
}
