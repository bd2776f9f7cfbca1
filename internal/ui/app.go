package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/porch/internal/cycle"
	"github.com/five82/porch/internal/dashboard"
	"github.com/five82/porch/internal/logs"
	"github.com/five82/porch/internal/prefs"
	"github.com/five82/porch/internal/push"
	"github.com/five82/porch/internal/state"
)

// Refresher re-runs poll jobs on demand.
type Refresher interface {
	Trigger(d state.Domain) bool
	TriggerAll() int
}

// PushStatus exposes the push channel's connection state.
type PushStatus interface {
	State() push.State
	OnStateChange(fn func(push.State))
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Player    dashboard.SpotifyController
	Refresher Refresher
	Push      PushStatus
	Prefs     prefs.Prefs
	PrefsPath string

	// Start runs once the store and push subscriptions are in place and
	// before the program starts reading input.
	Start func()
}

const (
	clockTick     = time.Second
	slideInterval = 12 * time.Second
	actionTimeout = 5 * time.Second
)

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	player    dashboard.SpotifyController
	refresher Refresher
	prefsPath string
	actions   *Registry

	// UI state
	prefs    prefs.Prefs
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	now      time.Time
	notice   string // result of the last action, shown in the status bar

	// Data state
	domains   map[state.Domain]state.DomainState
	cards     map[state.Domain]string // rendered card cache
	pushState push.State

	// Calendar cycling
	today    cycle.Controller
	upcoming cycle.Controller

	// Photo slideshow
	slideshow  bool
	slideIndex int
	slideGen   int
}

// New creates a new Bubble Tea model seeded from the store.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	r := NewRegistry()
	defaultBindings(r)
	defaultHandlers(r)

	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		player:    opts.Player,
		refresher: opts.Refresher,
		prefsPath: prefsPath,
		actions:   r,
		prefs:     opts.Prefs,
		now:       time.Now(),
		domains:   make(map[state.Domain]state.DomainState, len(state.Domains)),
		cards:     make(map[state.Domain]string, len(state.Domains)),
		pushState: push.Connecting,
	}
	if opts.Push != nil {
		m.pushState = opts.Push.State()
	}
	m.applyTheme()
	for _, d := range state.Domains {
		st := state.DomainState{Domain: d, Payload: state.DefaultPayload(d)}
		if m.store != nil {
			st = m.store.Get(d)
		}
		m.domains[d] = st
	}
	m.resetCalendarCycles()
	m.renderAll()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return batch(append([]tea.Cmd{clockCmd()}, m.calendarTicks()...))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.renderAll()
		return m, nil

	case tea.FocusMsg:
		// Regaining focus is the kiosk's cue that it may have missed updates.
		return m, m.refresh()

	case clockMsg:
		m.now = time.Time(msg)
		return m, clockCmd()

	case domainMsg:
		return m.handleDomain(msg.state)

	case pushStateMsg:
		m.pushState = msg.state
		return m, nil

	case cycleTickMsg:
		return m.handleCycleTick(msg)

	case slideTickMsg:
		return m.handleSlideTick(msg)

	case actionResultMsg:
		m.notice = msg.text()
		if msg.err != nil {
			logs.Error("action failed", msg.err, "action", msg.action)
		}
		return m, nil

	case prefsSavedMsg:
		if msg.err != nil {
			logs.Error("save prefs failed", msg.err, "path", m.prefsPath)
			m.notice = "Preferences not saved"
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey looks the key up in the action registry. While help is shown
// any key closes it.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a, ok := m.actions.Lookup(msg)
	if m.showHelp && (!ok || a != ActionQuit) {
		m.showHelp = false
		return m, nil
	}
	if !ok {
		return m, nil
	}
	cmd, _ := m.actions.Dispatch(a, &m)
	return m, cmd
}

// handleDomain stores the new state and re-renders that domain's card only.
func (m Model) handleDomain(st state.DomainState) (tea.Model, tea.Cmd) {
	m.domains[st.Domain] = st
	var cmds []tea.Cmd
	switch st.Domain {
	case state.Calendar:
		m.resetCalendarCycles()
		cmds = append(cmds, m.calendarTicks()...)
	case state.Photos:
		m.slideIndex = 0
	}
	m.cards[st.Domain] = m.renderCard(st.Domain)
	return m, batch(cmds)
}

func (m *Model) refresh() tea.Cmd {
	if m.refresher == nil {
		return nil
	}
	refresher := m.refresher
	return func() tea.Msg {
		n := refresher.TriggerAll()
		logs.Debug("refresh requested", "triggered", n)
		return nil
	}
}

// applyTheme derives the palette from the current prefs.
func (m *Model) applyTheme() {
	m.theme = GetTheme(m.prefs.Theme).
		WithBackdrop(m.prefs.BackgroundTheme).
		WithHoliday(m.prefs.HolidayPreview)
}

// prefsChanged re-renders with the new prefs and saves them in the
// background.
func (m *Model) prefsChanged() tea.Cmd {
	m.applyTheme()
	m.renderAll()
	path, p := m.prefsPath, m.prefs
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}

func (m *Model) renderAll() {
	for _, d := range state.Domains {
		m.cards[d] = m.renderCard(d)
	}
}

// Messages

type clockMsg time.Time

type domainMsg struct{ state state.DomainState }

type pushStateMsg struct{ state push.State }

type prefsSavedMsg struct{ err error }

// Commands

func clockCmd() tea.Cmd {
	return tea.Tick(clockTick, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// Run starts the Bubble Tea program. Store subscribers and push state
// changes reach the model through Program.Send, so the program's event
// loop is the only goroutine that touches UI state.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(m.ctx))

	if opts.Store != nil {
		for _, d := range state.Domains {
			opts.Store.Subscribe(d, func(st state.DomainState) {
				p.Send(domainMsg{state: st})
			})
		}
	}
	if opts.Push != nil {
		opts.Push.OnStateChange(func(s push.State) {
			p.Send(pushStateMsg{state: s})
		})
	}
	if opts.Start != nil {
		opts.Start()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
