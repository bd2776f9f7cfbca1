package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/porch/internal/dashboard"
	"github.com/five82/porch/internal/state"
)

// actionResultMsg reports the outcome of a Spotify transport command.
type actionResultMsg struct {
	action Action
	err    error
}

func (r actionResultMsg) text() string {
	if r.err == nil {
		return ""
	}
	return dashboard.StatusText(r.err)
}

type transportFunc func(dashboard.SpotifyController, context.Context) error

func (m *Model) playPause() tea.Cmd {
	sp := state.Value[dashboard.Spotify](m.domains[state.Spotify])
	if sp.PlayerVisible() {
		return m.playerCmd(ActionPlayPause, dashboard.SpotifyController.SpotifyPause)
	}
	return m.playerCmd(ActionPlayPause, dashboard.SpotifyController.SpotifyPlay)
}

// playerCmd sends a transport command off the UI goroutine. On success the
// Spotify poll is triggered so the player reflects the change promptly.
func (m *Model) playerCmd(a Action, call transportFunc) tea.Cmd {
	if m.player == nil {
		return nil
	}
	player, parent, refresher := m.player, m.ctx, m.refresher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, actionTimeout)
		defer cancel()
		err := call(player, ctx)
		if err == nil && refresher != nil {
			refresher.Trigger(state.Spotify)
		}
		return actionResultMsg{action: a, err: err}
	}
}
