package clock

// Clock pairs a cycle source with the conversion factor measured for it.
// A Clock is built once at startup and shared read-only by every Timer.
type Clock struct {
	source CycleSource
	factor Factor
}

// New returns a clock reading src and converting with f.
func New(src CycleSource, f Factor) *Clock {
	if src == nil {
		src = Hardware()
	}
	return &Clock{source: src, factor: f}
}

// Now returns the current cycle count.
func (c *Clock) Now() uint64 { return c.source.Cycles() }

// Factor returns the cycle conversion factor.
func (c *Clock) Factor() Factor { return c.factor }

// NewTimer returns a stopped, zeroed timer on this clock.
func (c *Clock) NewTimer() *Timer {
	return &Timer{clock: c}
}

// Timer is an accumulating stopwatch. Start/Stop pairs add their elapsed cycles
// to the total. It is not safe for concurrent use; the renderer drives all
// timers from its own loop.
type Timer struct {
	clock       *Clock
	accumulated uint64
	start       uint64
	running     bool
}

// Start records the current cycle count. Starting a running timer is a no-op
// so nested instrumentation cannot corrupt the total.
func (t *Timer) Start() {
	if t.running {
		return
	}
	t.start = t.clock.Now()
	t.running = true
}

// Stop adds the cycles since Start to the total. Stopping a stopped timer is a
// no-op.
func (t *Timer) Stop() {
	if !t.running {
		return
	}
	now := t.clock.Now()
	if now > t.start {
		t.accumulated += now - t.start
	}
	t.running = false
}

// Reset zeroes the accumulated total. A running timer keeps running and will
// only count cycles from the reset onwards.
func (t *Timer) Reset() {
	t.accumulated = 0
	if t.running {
		t.start = t.clock.Now()
	}
}

// Running reports whether the timer has been started and not yet stopped.
func (t *Timer) Running() bool { return t.running }

// Cycles returns the accumulated cycle count.
func (t *Timer) Cycles() uint64 { return t.accumulated }

// Milliseconds returns the accumulated time in milliseconds.
func (t *Timer) Milliseconds() float64 {
	return t.clock.factor.Milliseconds(t.accumulated)
}

// Seconds returns the accumulated time in seconds.
func (t *Timer) Seconds() float64 {
	return t.clock.factor.Seconds(t.accumulated)
}
