// Package clock provides the cycle-counter stopwatch used to instrument the
// renderer, and the startup calibration that converts cycles to wall time.
package clock

import "time"

// CycleSource is a monotonic high-resolution cycle counter.
type CycleSource interface {
	Cycles() uint64
}

// PlatformTimer is a wall-clock tick counter with a known frequency.
// A zero frequency means the timer is unavailable.
type PlatformTimer interface {
	Frequency() uint64
	Ticks() uint64
}

type hardwareCounter struct{}

func (hardwareCounter) Cycles() uint64 { return readCycles() }

// Hardware returns the processor cycle counter. On amd64 this is RDTSC; other
// architectures fall back to the monotonic clock in nanoseconds.
func Hardware() CycleSource {
	return hardwareCounter{}
}

type monotonicTimer struct {
	epoch time.Time
}

// Monotonic returns a platform timer backed by the Go monotonic clock,
// ticking once per nanosecond.
func Monotonic() PlatformTimer {
	return monotonicTimer{epoch: time.Now()}
}

func (monotonicTimer) Frequency() uint64 { return uint64(time.Second) }

func (m monotonicTimer) Ticks() uint64 { return uint64(time.Since(m.epoch)) }
