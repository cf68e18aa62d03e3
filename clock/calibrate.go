package clock

import (
	"errors"
	"log/slog"
	"math/bits"
	"time"
)

var (
	// ErrNoPlatformTimer is returned when the platform timer reports a zero
	// frequency. The default factor is returned alongside it.
	ErrNoPlatformTimer = errors.New("clock: platform timer unavailable")

	// ErrCalibrationTimeout is returned when the platform timer did not advance
	// far enough before the timeout.
	ErrCalibrationTimeout = errors.New("clock: calibration timed out")
)

const (
	// DefaultMinDuration is long enough for a coarse platform timer to give a
	// usable estimate and short enough not to be noticed at startup.
	DefaultMinDuration = 55 * time.Millisecond

	// DefaultTimeout bounds the busy-wait if the platform timer stalls.
	DefaultTimeout = time.Second
)

// Calibrator measures the cycle counter rate by racing it against a platform
// timer. Zero-valued fields are replaced with the defaults.
type Calibrator struct {
	Cycles      CycleSource
	Timer       PlatformTimer
	Priority    PriorityBooster
	MinDuration time.Duration
	Timeout     time.Duration
	Logger      *slog.Logger

	// now is the wall clock used for the timeout guard.
	now func() time.Time
}

// NewCalibrator returns a calibrator for the hardware cycle counter against the
// monotonic clock, elevating thread priority while it measures.
func NewCalibrator() *Calibrator {
	return &Calibrator{
		Cycles:      Hardware(),
		Timer:       Monotonic(),
		Priority:    OSPriority(),
		MinDuration: DefaultMinDuration,
		Timeout:     DefaultTimeout,
	}
}

// Calibrate runs the measurement once. On failure it returns DefaultFactor with
// a non-nil error; callers may keep the factor and carry on.
func (c *Calibrator) Calibrate() (Factor, error) {
	cycles := c.Cycles
	if cycles == nil {
		cycles = Hardware()
	}
	timer := c.Timer
	if timer == nil {
		timer = Monotonic()
	}
	booster := c.Priority
	if booster == nil {
		booster = NoBoost()
	}
	minDuration := c.MinDuration
	if minDuration <= 0 {
		minDuration = DefaultMinDuration
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	now := c.now
	if now == nil {
		now = time.Now
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	freq := timer.Frequency()
	if freq == 0 {
		return DefaultFactor, ErrNoPlatformTimer
	}
	minTicks := ticksFor(freq, minDuration)
	if minTicks == 0 {
		minTicks = 1
	}

	restore, err := booster.Raise()
	if err != nil {
		logger.Debug("calibration running at normal priority", "error", err)
	}
	defer restore()

	deadline := now().Add(timeout)
	startCycles := cycles.Cycles()
	startTicks := timer.Ticks()
	for timer.Ticks()-startTicks < minTicks {
		if now().After(deadline) {
			return DefaultFactor, ErrCalibrationTimeout
		}
	}
	elapsedCycles := cycles.Cycles() - startCycles
	elapsedTicks := timer.Ticks() - startTicks

	rate := float64(elapsedCycles) * float64(freq) / float64(elapsedTicks)
	f := FactorFromRate(rate)
	logger.Debug("clock calibrated",
		"cycles_per_second", f.CyclesPerSecond(),
		"cycles", elapsedCycles,
		"ticks", elapsedTicks,
	)
	return f, nil
}

// ticksFor returns freq*d/1s without overflowing for realistic frequencies.
func ticksFor(freq uint64, d time.Duration) uint64 {
	hi, lo := bits.Mul64(freq, uint64(d))
	if hi >= uint64(time.Second) {
		return ^uint64(0)
	}
	q, _ := bits.Div64(hi, lo, uint64(time.Second))
	return q
}
