package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/five82/porch/internal/dashboard"
	"github.com/five82/porch/internal/state"
)

func TestSaveLoad(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	want := dashboard.Nest{
		Status:     dashboard.NestStatus{Connected: true, Configured: true},
		Thermostat: &dashboard.Thermostat{
			DisplayName: "Hall", AmbientF: dashboard.Num(69.5), HVACMode: "HEAT",
			HeatSetpointF: dashboard.Num(70), Humidity: dashboard.Num(40), IsOnline: true,
		},
	}
	if err := c.Save(state.Nest, want, at); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, gotAt, err := c.Load(state.Nest)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !gotAt.Equal(at) {
		t.Fatalf("UpdatedAt = %v, want %v", gotAt, at)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, _, err := c.Load(state.Weather); err == nil {
		t.Fatal("Load of missing snapshot returned nil error")
	}
	if err := os.WriteFile(filepath.Join(dir, "weather.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, _, err := c.Load(state.Weather); err == nil {
		t.Fatal("Load of corrupt snapshot returned nil error")
	}
}

func TestRestoreIntoMarksStaleWithoutNotifying(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	if err := c.Save(state.Weather, dashboard.Weather{Description: "Rain", Temp: dashboard.Num(11), Unit: "°F"}, at); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := c.Save(state.Notes, dashboard.Notes{Content: "milk"}, at); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var st state.Store
	calls := 0
	st.Subscribe(state.Weather, func(state.DomainState) { calls++ })

	if n := c.RestoreInto(&st); n != 2 {
		t.Fatalf("RestoreInto = %d, want 2", n)
	}
	if calls != 0 {
		t.Fatalf("subscriber called %d times during restore", calls)
	}
	ws := st.Get(state.Weather)
	if !ws.Stale || !ws.HasData {
		t.Fatalf("restored state = %+v, want stale with data", ws)
	}
	if got := state.Value[dashboard.Weather](ws).Description; got != "Rain" {
		t.Fatalf("Description = %q, want Rain", got)
	}
}

func TestPersistWritesFreshUpdatesOnly(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var st state.Store
	c.Persist(&st)

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cal := dashboard.Calendar{Today: []dashboard.CalendarEvent{{Title: "Standup", Datetime: "2026-03-01T09:00:00"}}}
	st.Update(state.Calendar, cal, at)

	got, gotAt, err := c.Load(state.Calendar)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !gotAt.Equal(at) {
		t.Fatalf("UpdatedAt = %v, want %v", gotAt, at)
	}
	if title := got.(dashboard.Calendar).Today[0].Title; title != "Standup" {
		t.Fatalf("Title = %q, want Standup", title)
	}

	st.Fail(state.Notes, os.ErrDeadlineExceeded)
	if _, _, err := c.Load(state.Notes); err == nil {
		t.Fatal("failure was persisted")
	}
}

func TestErase(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Erase(state.Photos); err != nil {
		t.Fatalf("Erase missing: %v", err)
	}
	if err := c.Save(state.Photos, dashboard.Photos{}, time.Now()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := c.Erase(state.Photos); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if _, _, err := c.Load(state.Photos); err == nil {
		t.Fatal("Load after Erase returned nil error")
	}
}

func TestOpen_EmptyDir(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("Open(\"\") returned nil error")
	}
}
