package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/porch/internal/dashboard"
	"github.com/five82/porch/internal/prefs"
	"github.com/five82/porch/internal/push"
	"github.com/five82/porch/internal/state"
)

type fakeRefresher struct {
	all      atomic.Int32
	triggers atomic.Int32
}

func (f *fakeRefresher) Trigger(state.Domain) bool { f.triggers.Add(1); return true }
func (f *fakeRefresher) TriggerAll() int          { f.all.Add(1); return 7 }

type fakePlayer struct {
	calls []string
	err   error
}

func (f *fakePlayer) SpotifyPlay(context.Context) error     { f.calls = append(f.calls, "play"); return f.err }
func (f *fakePlayer) SpotifyPause(context.Context) error    { f.calls = append(f.calls, "pause"); return f.err }
func (f *fakePlayer) SpotifyNext(context.Context) error     { f.calls = append(f.calls, "next"); return f.err }
func (f *fakePlayer) SpotifyPrevious(context.Context) error { f.calls = append(f.calls, "previous"); return f.err }

func newTestModel(t *testing.T) (Model, *fakeRefresher, *fakePlayer) {
	t.Helper()
	r := &fakeRefresher{}
	p := &fakePlayer{}
	m := New(Options{
		Store:     &state.Store{},
		Player:    p,
		Refresher: r,
		Prefs:     prefs.Default(),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	return next.(Model), r, p
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// runCmd executes cmd and any batched children, returning their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if b, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range b {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func domainUpdate(d state.Domain, payload any) domainMsg {
	return domainMsg{state: state.DomainState{Domain: d, Payload: payload, UpdatedAt: time.Now(), HasData: true}}
}

func TestDomainMsgRerendersOnlyThatCard(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.cards[state.Notes] = "notes-sentinel"
	m.cards[state.Calendar] = "calendar-sentinel"

	m, _ = update(t, m, domainUpdate(state.Weather, dashboard.Weather{Description: "Light rain", Temp: dashboard.Num(12), Unit: "°F"}))

	if m.cards[state.Notes] != "notes-sentinel" || m.cards[state.Calendar] != "calendar-sentinel" {
		t.Fatal("other cards were re-rendered")
	}
	if !strings.Contains(m.cards[state.Weather], "Light rain") {
		t.Fatalf("weather card = %q, want description", m.cards[state.Weather])
	}
}

func TestNestCardHiddenUnlessConnected(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = update(t, m, domainUpdate(state.Nest, dashboard.Nest{Status: dashboard.NestStatus{Connected: false}}))
	if m.cards[state.Nest] != "" {
		t.Fatalf("nest card rendered while disconnected: %q", m.cards[state.Nest])
	}

	m, _ = update(t, m, domainUpdate(state.Nest, dashboard.Nest{
		Status:     dashboard.NestStatus{Connected: true},
		Thermostat: &dashboard.Thermostat{
			DisplayName: "Hallway", AmbientF: dashboard.Num(68.6), HVACMode: "HEAT", HVACStatus: "HEATING",
			HeatSetpointF: dashboard.Num(70), Humidity: dashboard.Num(41), IsOnline: true,
		},
	}))
	card := m.cards[state.Nest]
	for _, want := range []string{"Hallway", "69°F", "set 70°", "41% RH"} {
		if !strings.Contains(card, want) {
			t.Fatalf("nest card = %q, want %q", card, want)
		}
	}
}

func TestSpotifyPlayerHiddenWhenPaused(t *testing.T) {
	m, _, _ := newTestModel(t)
	track := &dashboard.Track{Name: "Blue in Green", Artist: "Miles Davis", DurationMS: 300000}

	m, _ = update(t, m, domainUpdate(state.Spotify, dashboard.Spotify{
		Status:     dashboard.SpotifyStatus{Connected: true},
		NowPlaying: &dashboard.NowPlaying{IsPlaying: false, Track: track},
	}))
	if m.cards[state.Spotify] != "" {
		t.Fatal("player rendered while paused")
	}

	m, _ = update(t, m, domainUpdate(state.Spotify, dashboard.Spotify{
		Status:     dashboard.SpotifyStatus{Connected: true},
		NowPlaying: &dashboard.NowPlaying{IsPlaying: true, ProgressMS: 60000, Track: track},
	}))
	if !strings.Contains(m.cards[state.Spotify], "Blue in Green") {
		t.Fatalf("player = %q, want track name", m.cards[state.Spotify])
	}
}

func TestCalendarCyclingAndGenerations(t *testing.T) {
	m, _, _ := newTestModel(t)
	cal := dashboard.Calendar{Today: []dashboard.CalendarEvent{
		{Title: "Pinned", Time: "08:00"},
		{Title: "Second", Time: "09:00"},
		{Title: "Third", Time: "10:00"},
	}}

	m, cmd := update(t, m, domainUpdate(state.Calendar, cal))
	if cmd == nil {
		t.Fatal("calendar update scheduled no tick")
	}
	if m.today.Count() != 2 || m.today.Index() != 0 {
		t.Fatalf("today = count %d index %d, want 2/0", m.today.Count(), m.today.Index())
	}
	card := m.cards[state.Calendar]
	if !strings.Contains(card, "Pinned") || !strings.Contains(card, "Second") {
		t.Fatalf("card = %q, want pinned and first rotating entry", card)
	}

	gen := m.today.Gen()
	m, cmd = update(t, m, cycleTickMsg{card: cardToday, gen: gen})
	if cmd == nil || m.today.Index() != 1 {
		t.Fatalf("index after tick = %d, want 1 with next tick scheduled", m.today.Index())
	}
	if !strings.Contains(m.cards[state.Calendar], "Third") {
		t.Fatal("card not re-rendered after tick")
	}

	// New data restarts the rotation; the old generation's tick is dropped.
	m, _ = update(t, m, domainUpdate(state.Calendar, cal))
	if m.today.Index() != 0 || m.today.Gen() == gen {
		t.Fatalf("after reset index=%d gen=%d (old %d)", m.today.Index(), m.today.Gen(), gen)
	}
	m, cmd = update(t, m, cycleTickMsg{card: cardToday, gen: gen})
	if cmd != nil || m.today.Index() != 0 {
		t.Fatal("stale tick advanced the rotation")
	}
}

func TestCalendarSingleRotatingEntryShowsDot(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, domainUpdate(state.Calendar, dashboard.Calendar{Today: []dashboard.CalendarEvent{
		{Title: "Pinned", Time: "08:00 AM"},
		{Title: "Second", Time: "09:00 AM"},
	}}))
	if m.today.Count() != 1 {
		t.Fatalf("today count = %d, want 1", m.today.Count())
	}
	if !strings.Contains(m.cards[state.Calendar], "●") {
		t.Fatalf("card = %q, want a dot for the single rotating entry", m.cards[state.Calendar])
	}
}

func TestCalendarSingleEntryDoesNotCycle(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, cmd := update(t, m, domainUpdate(state.Calendar, dashboard.Calendar{
		Today: []dashboard.CalendarEvent{{Title: "Only", AllDay: true}},
	}))
	if cmd != nil {
		t.Fatal("single entry scheduled a rotation")
	}
	if !strings.Contains(m.cards[state.Calendar], "All day") {
		t.Fatalf("card = %q, want all-day label", m.cards[state.Calendar])
	}
}

func TestToggleOrientationSavesPrefs(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, cmd := update(t, m, keyRunes("o"))
	if m.prefs.Orientation != prefs.Portrait {
		t.Fatalf("orientation = %q, want portrait", m.prefs.Orientation)
	}
	for _, msg := range runCmd(cmd) {
		saved, ok := msg.(prefsSavedMsg)
		if !ok {
			continue
		}
		if saved.err != nil {
			t.Fatalf("save failed: %v", saved.err)
		}
	}
	loaded, _ := prefs.Load(m.prefsPath)
	if loaded.Orientation != prefs.Portrait {
		t.Fatalf("saved orientation = %q, want portrait", loaded.Orientation)
	}
}

func TestThemeAndToggles(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = update(t, m, keyRunes("T"))
	if m.theme.Name != "Kanagawa" || m.prefs.Theme != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	m, _ = update(t, m, keyRunes("t"))
	if !m.prefs.TouchMode {
		t.Fatal("touch mode not toggled")
	}
	m, _ = update(t, m, keyRunes("w"))
	if m.prefs.WeatherEffects {
		t.Fatal("weather effects not toggled")
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = update(t, m, keyRunes("?"))
	if !m.showHelp {
		t.Fatal("help not shown")
	}
	if view := m.View(); !strings.Contains(view, "Keyboard Shortcuts") || !strings.Contains(view, "Photo slideshow") {
		t.Fatal("help view missing bindings")
	}
	m, _ = update(t, m, keyRunes("x"))
	if m.showHelp {
		t.Fatal("any key should close help")
	}
}

func TestFocusTriggersRefresh(t *testing.T) {
	m, r, _ := newTestModel(t)

	_, cmd := update(t, m, tea.FocusMsg{})
	runCmd(cmd)
	if got := r.all.Load(); got != 1 {
		t.Fatalf("TriggerAll calls = %d, want 1", got)
	}
}

func TestPlayPauseFollowsPlayback(t *testing.T) {
	m, r, p := newTestModel(t)
	m, _ = update(t, m, domainUpdate(state.Spotify, dashboard.Spotify{
		Status:     dashboard.SpotifyStatus{Connected: true},
		NowPlaying: &dashboard.NowPlaying{IsPlaying: true, Track: &dashboard.Track{Name: "So What"}},
	}))

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	runCmd(cmd)
	if len(p.calls) != 1 || p.calls[0] != "pause" {
		t.Fatalf("player calls = %v, want [pause]", p.calls)
	}
	if r.triggers.Load() != 1 {
		t.Fatal("spotify poll not triggered after transport command")
	}

	p.err = &dashboard.APIError{Code: dashboard.CodeNoDevice}
	m, cmd = update(t, m, keyRunes("n"))
	for _, msg := range runCmd(cmd) {
		m, _ = update(t, m, msg)
	}
	if m.notice != "No active Spotify device" {
		t.Fatalf("notice = %q, want device message", m.notice)
	}
}

func TestSlideshowGenerations(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, domainUpdate(state.Photos, dashboard.Photos{Photos: []dashboard.Photo{
		{Filename: "beach.jpg", URL: "/photos/beach.jpg", Modified: "2024-06-01T10:00:00"},
		{Filename: "forest.jpg", URL: "/photos/forest.jpg", Modified: "2024-05-01T10:00:00"},
	}}))

	m, cmd := update(t, m, keyRunes("s"))
	if !m.slideshow || cmd == nil {
		t.Fatal("slideshow not started")
	}
	first := m.slideGen

	m, _ = update(t, m, keyRunes("s"))
	m, _ = update(t, m, keyRunes("s"))
	if m.slideGen == first {
		t.Fatal("restart did not bump generation")
	}

	m, cmd = update(t, m, slideTickMsg{gen: first})
	if cmd != nil || m.slideIndex != 0 {
		t.Fatal("tick from previous slideshow advanced")
	}
	m, cmd = update(t, m, slideTickMsg{gen: m.slideGen})
	if cmd == nil || m.slideIndex != 1 {
		t.Fatalf("slideIndex = %d, want 1", m.slideIndex)
	}
	if !strings.Contains(m.cards[state.Photos], "forest.jpg") {
		t.Fatalf("photo card = %q, want forest.jpg", m.cards[state.Photos])
	}
}

func TestStatusBarShowsPushAndStaleness(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, pushStateMsg{state: push.ClosedPendingRetry})
	m, _ = update(t, m, domainMsg{state: state.DomainState{
		Domain: state.Notes, Payload: dashboard.Notes{}, HasData: true, Stale: true, LastError: errors.New("boom"), Failures: 1,
	}})

	bar := m.renderStatusBar()
	if !strings.Contains(bar, "retrying") || !strings.Contains(bar, "notes") {
		t.Fatalf("status bar = %q, want retrying and stale notes", bar)
	}
	if !strings.Contains(m.cards[state.Notes], "stale") {
		t.Fatal("notes card not flagged stale")
	}
}

func TestQuitAction(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := update(t, m, keyRunes("q"))
	if cmd == nil {
		t.Fatal("quit produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("quit command did not return QuitMsg")
	}
}
