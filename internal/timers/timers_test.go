package timers

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestAfter_FiresOnceAndClears(t *testing.T) {
	s := New()
	t.Cleanup(s.Stop)

	var runs atomic.Int32
	s.After("reconnect", 10*time.Millisecond, func() { runs.Add(1) })
	if !s.Active("reconnect") {
		t.Fatalf("Active(reconnect) = false right after After")
	}

	waitFor(t, func() bool { return runs.Load() == 1 })
	waitFor(t, func() bool { return !s.Active("reconnect") })
	time.Sleep(30 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Fatalf("runs = %d, want 1", got)
	}
}

func TestAfter_ReplacesSameName(t *testing.T) {
	s := New()
	t.Cleanup(s.Stop)

	var first, second atomic.Int32
	s.After("cycle:today", 20*time.Millisecond, func() { first.Add(1) })
	s.After("cycle:today", 20*time.Millisecond, func() { second.Add(1) })

	waitFor(t, func() bool { return second.Load() == 1 })
	time.Sleep(40 * time.Millisecond)
	if first.Load() != 0 {
		t.Fatalf("replaced timer fired %d times, want 0", first.Load())
	}
}

func TestEnsure_IsIdempotent(t *testing.T) {
	s := New()
	t.Cleanup(s.Stop)

	var runs atomic.Int32
	for i := 0; i < 5; i++ {
		scheduled := s.Ensure("reconnect", 20*time.Millisecond, func() { runs.Add(1) })
		if want := i == 0; scheduled != want {
			t.Fatalf("Ensure call %d scheduled = %v, want %v", i, scheduled, want)
		}
	}
	if diff := cmp.Diff([]string{"reconnect"}, s.Names()); diff != "" {
		t.Fatalf("Names mismatch (-want +got):\n%s", diff)
	}

	waitFor(t, func() bool { return runs.Load() == 1 })
	time.Sleep(40 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Fatalf("runs = %d, want exactly 1", got)
	}

	// Once fired, the name is free again.
	if !s.Ensure("reconnect", time.Hour, func() {}) {
		t.Fatalf("Ensure after fire did not schedule")
	}
}

func TestEvery_RepeatsUntilCancelled(t *testing.T) {
	s := New()
	t.Cleanup(s.Stop)

	var runs atomic.Int32
	s.Every("poll:weather", 5*time.Millisecond, func() { runs.Add(1) })
	waitFor(t, func() bool { return runs.Load() >= 3 })

	if !s.Cancel("poll:weather") {
		t.Fatalf("Cancel returned false for pending timer")
	}
	settled := runs.Load()
	time.Sleep(30 * time.Millisecond)
	if got := runs.Load(); got > settled+1 {
		t.Fatalf("runs grew from %d to %d after Cancel", settled, got)
	}
	if s.Cancel("poll:weather") {
		t.Fatalf("second Cancel returned true")
	}
}

func TestStop_IgnoresLaterScheduling(t *testing.T) {
	s := New()
	s.Every("poll:notes", time.Hour, func() {})
	s.Stop()

	if names := s.Names(); len(names) != 0 {
		t.Fatalf("Names after Stop = %v, want empty", names)
	}
	s.After("reconnect", time.Millisecond, func() { t.Errorf("timer fired after Stop") })
	if s.Active("reconnect") {
		t.Fatalf("Active after Stop = true")
	}
	time.Sleep(10 * time.Millisecond)
}
