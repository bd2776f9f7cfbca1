package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/porch/internal/dashboard"
)

// Action names one thing the kiosk can be asked to do. Keys publish
// actions; handlers subscribe to them.
type Action string

const (
	ActionRefresh           Action = "refresh"
	ActionPlayPause         Action = "play-pause"
	ActionNextTrack         Action = "next-track"
	ActionPreviousTrack     Action = "previous-track"
	ActionCycleTheme        Action = "cycle-theme"
	ActionToggleOrientation Action = "toggle-orientation"
	ActionToggleTouch       Action = "toggle-touch"
	ActionToggleEffects     Action = "toggle-effects"
	ActionToggleSlideshow   Action = "toggle-slideshow"
	ActionHelp              Action = "help"
	ActionQuit              Action = "quit"
)

// ActionHandler reacts to a published action.
type ActionHandler func(m *Model) tea.Cmd

type binding struct {
	action Action
	key    key.Binding
}

// Registry maps keys to actions and actions to handlers.
type Registry struct {
	bindings []binding
	handlers map[Action][]ActionHandler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Action][]ActionHandler)}
}

// Bind maps k to a. Bindings are matched in the order they were added.
func (r *Registry) Bind(a Action, k key.Binding) {
	r.bindings = append(r.bindings, binding{action: a, key: k})
}

// On subscribes h to a.
func (r *Registry) On(a Action, h ActionHandler) {
	if h == nil {
		return
	}
	r.handlers[a] = append(r.handlers[a], h)
}

// Lookup returns the action bound to msg.
func (r *Registry) Lookup(msg tea.KeyMsg) (Action, bool) {
	for _, b := range r.bindings {
		if key.Matches(msg, b.key) {
			return b.action, true
		}
	}
	return "", false
}

// Dispatch runs every handler subscribed to a and batches their commands.
// It reports false when nothing is subscribed.
func (r *Registry) Dispatch(a Action, m *Model) (tea.Cmd, bool) {
	hs := r.handlers[a]
	if len(hs) == 0 {
		return nil, false
	}
	cmds := make([]tea.Cmd, 0, len(hs))
	for _, h := range hs {
		if cmd := h(m); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return batch(cmds), true
}

// batch avoids wrapping zero or one command in a BatchMsg.
func batch(cmds []tea.Cmd) tea.Cmd {
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

// Help lists the bound keys with their help text.
func (r *Registry) Help() []helpItem {
	items := make([]helpItem, 0, len(r.bindings))
	for _, b := range r.bindings {
		h := b.key.Help()
		items = append(items, helpItem{key: h.Key, desc: h.Desc})
	}
	return items
}

// defaultBindings is the stock key layout.
func defaultBindings(r *Registry) {
	r.Bind(ActionRefresh, key.NewBinding(key.WithKeys("r", "f5"), key.WithHelp("r", "Refresh everything")))
	r.Bind(ActionPlayPause, key.NewBinding(key.WithKeys(" ", "k"), key.WithHelp("space", "Play / pause")))
	r.Bind(ActionNextTrack, key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "Next track")))
	r.Bind(ActionPreviousTrack, key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p/←", "Previous track")))
	r.Bind(ActionCycleTheme, key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "Cycle theme")))
	r.Bind(ActionToggleOrientation, key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "Landscape / portrait")))
	r.Bind(ActionToggleTouch, key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "Touch mode")))
	r.Bind(ActionToggleEffects, key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "Weather effects")))
	r.Bind(ActionToggleSlideshow, key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Photo slideshow")))
	r.Bind(ActionHelp, key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h/?", "Toggle help")))
	r.Bind(ActionQuit, key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "Quit")))
}

// defaultHandlers subscribes the built-in behavior of every action.
func defaultHandlers(r *Registry) {
	r.On(ActionRefresh, (*Model).refresh)
	r.On(ActionPlayPause, (*Model).playPause)
	r.On(ActionNextTrack, func(m *Model) tea.Cmd {
		return m.playerCmd(ActionNextTrack, dashboard.SpotifyController.SpotifyNext)
	})
	r.On(ActionPreviousTrack, func(m *Model) tea.Cmd {
		return m.playerCmd(ActionPreviousTrack, dashboard.SpotifyController.SpotifyPrevious)
	})
	r.On(ActionCycleTheme, func(m *Model) tea.Cmd {
		m.prefs.Theme = NextTheme(m.prefs.Theme)
		return m.prefsChanged()
	})
	r.On(ActionToggleOrientation, func(m *Model) tea.Cmd {
		m.prefs.Orientation = nextOrientation(m.prefs.Orientation)
		return m.prefsChanged()
	})
	r.On(ActionToggleTouch, func(m *Model) tea.Cmd {
		m.prefs.TouchMode = !m.prefs.TouchMode
		return m.prefsChanged()
	})
	r.On(ActionToggleEffects, func(m *Model) tea.Cmd {
		m.prefs.WeatherEffects = !m.prefs.WeatherEffects
		return m.prefsChanged()
	})
	r.On(ActionToggleSlideshow, (*Model).toggleSlideshow)
	r.On(ActionHelp, func(m *Model) tea.Cmd {
		m.showHelp = !m.showHelp
		return nil
	})
	r.On(ActionQuit, func(*Model) tea.Cmd { return tea.Quit })
}
