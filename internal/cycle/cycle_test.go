package cycle

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestController_AdvanceWrapsWithoutGaps(t *testing.T) {
	for _, total := range []int{2, 3, 4, 7, 12} {
		var c Controller
		c.Reset(total)
		n := total - 1
		for k := 0; k <= 3*n; k++ {
			if got, want := c.Index(), k%n; got != want {
				t.Fatalf("total=%d after %d ticks: index = %d, want %d", total, k, got, want)
			}
			c.Advance()
		}
	}
}

func TestController_Modes(t *testing.T) {
	tests := []struct {
		total int
		want  Mode
	}{
		{0, SinglePinned},
		{1, SinglePinned},
		{2, Cycling},
		{9, Cycling},
	}
	for _, tt := range tests {
		var c Controller
		c.Reset(tt.total)
		if got := c.Mode(); got != tt.want {
			t.Errorf("Reset(%d) mode = %v, want %v", tt.total, got, tt.want)
		}
	}
}

func TestController_SinglePinnedIgnoresTicks(t *testing.T) {
	var c Controller
	c.Reset(1)
	c.Advance()
	if c.Index() != 0 || c.Dots() != nil {
		t.Fatalf("single-pinned card moved: index=%d dots=%v", c.Index(), c.Dots())
	}
	if c.Accept(c.Gen()) {
		t.Fatalf("single-pinned card accepted a tick")
	}
}

func TestController_ResetRestartsAndInvalidatesTicks(t *testing.T) {
	var c Controller
	c.Reset(4)
	old := c.Gen()
	c.Advance()
	c.Advance()

	c.Reset(4)
	if c.Index() != 0 {
		t.Fatalf("index after Reset = %d, want 0", c.Index())
	}
	if c.Accept(old) {
		t.Fatalf("tick from previous generation accepted")
	}
	if !c.Accept(c.Gen()) {
		t.Fatalf("tick from current generation rejected")
	}
}

func TestController_DotsCapAtFive(t *testing.T) {
	var c Controller
	c.Reset(9) // 8 rotating entries
	var got [][]bool
	for i := 0; i < 8; i++ {
		got = append(got, c.Dots())
		c.Advance()
	}
	dot := func(active int) []bool {
		d := make([]bool, MaxDots)
		d[active] = true
		return d
	}
	want := [][]bool{dot(0), dot(1), dot(2), dot(3), dot(4), dot(0), dot(1), dot(2)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dots mismatch (-want +got):\n%s", diff)
	}

	c.Reset(3)
	if diff := cmp.Diff([]bool{true, false}, c.Dots()); diff != "" {
		t.Fatalf("short list dots mismatch (-want +got):\n%s", diff)
	}
}

func TestCurrent(t *testing.T) {
	items := []string{"pinned", "b", "c"}
	var c Controller
	c.Reset(len(items))

	if got, ok := Current(c, items); !ok || got != "b" {
		t.Fatalf("Current = %q, %v; want b", got, ok)
	}
	c.Advance()
	if got, _ := Current(c, items); got != "c" {
		t.Fatalf("Current after advance = %q, want c", got)
	}
	c.Advance()
	if got, _ := Current(c, items); got != "b" {
		t.Fatalf("Current after wrap = %q, want b", got)
	}

	c.Reset(1)
	if _, ok := Current(c, items[:1]); ok {
		t.Fatalf("Current on single-pinned card reported an entry")
	}
}
