package timer

// Scheduler delivers periodic ticks to the engine. Schedule starts a
// periodic source that calls fn once per clock unit and returns a function
// that stops it. The stop function must be safe to call more than once.
type Scheduler interface {
	Schedule(fn func()) (stop func())
}

// ManualClock is a Scheduler driven by explicit Tick calls. The terminal UI
// pumps it from its one-second tick message and tests pump it directly, so
// every tick runs on the caller's goroutine.
type ManualClock struct {
	next    int
	sources map[int]func()
	order   []int
}

func NewManualClock() *ManualClock {
	return &ManualClock{sources: make(map[int]func())}
}

func (c *ManualClock) Schedule(fn func()) func() {
	id := c.next
	c.next++
	c.sources[id] = fn
	c.order = append(c.order, id)
	return func() {
		if _, ok := c.sources[id]; !ok {
			return
		}
		delete(c.sources, id)
		for i, v := range c.order {
			if v == id {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
}

// Tick fires every active source once.
func (c *ManualClock) Tick() {
	ids := append([]int(nil), c.order...)
	for _, id := range ids {
		if fn, ok := c.sources[id]; ok {
			fn()
		}
	}
}

// Advance fires n ticks.
func (c *ManualClock) Advance(n int) {
	for i := 0; i < n; i++ {
		c.Tick()
	}
}

// Active reports how many periodic sources are currently scheduled.
func (c *ManualClock) Active() int {
	return len(c.sources)
}
