package layout

import "testing"

func TestCyclerWrapsToZero(t *testing.T) {
	c := NewCycler()
	for count := 1; count <= MaxWindows; count++ {
		n := PresetCount(count)
		for i := 0; i < n; i++ {
			if got := c.Next(count); got != i {
				t.Fatalf("count=%d call %d: expected index %d, got %d", count, i+1, i, got)
			}
		}
		// Call n+1 lands back on the first preset.
		if got := c.Next(count); got != 0 {
			t.Fatalf("count=%d: expected wrap to 0 after %d calls, got %d", count, n, got)
		}
	}
}

func TestCyclerCountsAreIndependent(t *testing.T) {
	c := NewCycler()
	c.Next(2)
	c.Next(2)
	if got := c.Peek(2); got != 2 {
		t.Fatalf("expected count-2 counter at 2, got %d", got)
	}
	if got := c.Peek(3); got != 0 {
		t.Fatalf("expected count-3 counter untouched at 0, got %d", got)
	}
}

func TestCyclerSetClampsRange(t *testing.T) {
	c := NewCycler()
	c.Set(2, 5)
	if got := c.Peek(2); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	c.Set(2, -1)
	if got := c.Peek(2); got != 0 {
		t.Fatalf("expected out-of-range set to reset to 0, got %d", got)
	}
	c.Set(2, PresetCount(2))
	if got := c.Peek(2); got != 0 {
		t.Fatalf("expected past-the-end set to reset to 0, got %d", got)
	}
}

func TestCyclerPeekDoesNotAdvance(t *testing.T) {
	c := NewCycler()
	if c.Peek(1) != 0 || c.Peek(1) != 0 {
		t.Fatal("Peek must not advance")
	}
	if got := c.Next(1); got != 0 {
		t.Fatalf("expected first Next to hand out 0, got %d", got)
	}
	if got := c.Peek(1); got != 1 {
		t.Fatalf("expected Peek to see 1 after one Next, got %d", got)
	}
}
