// Package cycle implements the rotating secondary entry of a calendar card.
//
// A card shows its first (soonest) entry pinned and rotates through the
// rest on a fixed period. The controller is pure state; the UI drives it
// with ticks tagged by generation, so a Reset invalidates every tick that
// was scheduled before it.
package cycle

import "time"

const (
	// Period is the time between rotations.
	Period = 5 * time.Second

	// MaxDots caps the number of indicator dots.
	MaxDots = 5
)

// Mode is the display mode of a card.
type Mode int

const (
	SinglePinned Mode = iota
	Cycling
)

func (m Mode) String() string {
	if m == Cycling {
		return "cycling"
	}
	return "single-pinned"
}

// Controller tracks the rotation of one card.
type Controller struct {
	index int // offset within the non-pinned entries
	count int // number of non-pinned entries
	gen   int
}

// Reset is called whenever new data for the card arrives. total is the
// full list length including the pinned entry. The rotation restarts at
// the first non-pinned entry and the generation advances.
func (c *Controller) Reset(total int) {
	c.count = max(total-1, 0)
	c.index = 0
	c.gen++
}

// Advance moves to the next non-pinned entry, wrapping to the first.
func (c *Controller) Advance() {
	if c.count == 0 {
		return
	}
	c.index = (c.index + 1) % c.count
}

// Mode reports whether the card rotates.
func (c Controller) Mode() Mode {
	if c.count > 0 {
		return Cycling
	}
	return SinglePinned
}

// Index is the current offset within the non-pinned entries.
func (c Controller) Index() int {
	return c.index
}

// Count is the number of non-pinned entries.
func (c Controller) Count() int {
	return c.count
}

// Gen identifies the current rotation. Ticks carrying an older
// generation must be ignored.
func (c Controller) Gen() int {
	return c.gen
}

// Accept reports whether a tick tagged gen belongs to the current
// rotation and the card is still cycling.
func (c Controller) Accept(gen int) bool {
	return gen == c.gen && c.Mode() == Cycling
}

// Dots returns the indicator state: one entry per non-pinned item, capped
// at MaxDots, true for the active one. Nil when the card does not rotate.
func (c Controller) Dots() []bool {
	if c.Mode() != Cycling {
		return nil
	}
	dots := make([]bool, min(c.count, MaxDots))
	dots[c.index%MaxDots] = true
	return dots
}

// Current returns the entry to show in the rotating slot of items, where
// items[0] is the pinned entry.
func Current[T any](c Controller, items []T) (T, bool) {
	var zero T
	pos := c.index + 1
	if c.count == 0 || pos >= len(items) {
		return zero, false
	}
	return items[pos], true
}
