package layout

// Cycler hands out preset indexes round-robin, one counter per window
// count. Next returns the index to use now and advances, wrapping to zero
// past the last preset, so repeated calls walk the whole family and start
// over. Not safe for concurrent use; callers serialize.
type Cycler struct {
	next map[int]int
}

func NewCycler() *Cycler {
	return &Cycler{next: make(map[int]int)}
}

// Next returns the preset index to use for count and advances the counter.
// Counts with no preset family always return 0.
func (c *Cycler) Next(count int) int {
	n := PresetCount(count)
	if n == 0 {
		return 0
	}
	idx := c.next[count]
	if idx >= n {
		idx = 0
	}
	if idx+1 >= n {
		c.next[count] = 0
	} else {
		c.next[count] = idx + 1
	}
	return idx
}

// Peek returns the index Next would hand out, without advancing.
func (c *Cycler) Peek(count int) int {
	n := PresetCount(count)
	if n == 0 {
		return 0
	}
	if idx := c.next[count]; idx < n {
		return idx
	}
	return 0
}

// Set positions the counter for count. Out-of-range values reset to zero.
func (c *Cycler) Set(count, idx int) {
	if idx < 0 || idx >= PresetCount(count) {
		idx = 0
	}
	c.next[count] = idx
}

// Snapshot copies the counters that are positioned past zero.
func (c *Cycler) Snapshot() map[int]int {
	out := make(map[int]int, len(c.next))
	for count, idx := range c.next {
		if idx != 0 {
			out[count] = idx
		}
	}
	return out
}

// Reset zeroes every counter.
func (c *Cycler) Reset() {
	c.next = make(map[int]int)
}
