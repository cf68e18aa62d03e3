package clock

import "math"

// Factor converts cycle counts to wall time. It is computed once at startup and
// read-only afterwards.
type Factor struct {
	SecondsPerCycle      float64
	MillisecondsPerCycle float64
}

// DefaultFactor assumes a 100 MHz counter. It is deliberately low so that
// derived times stay finite and non-zero when calibration is unavailable.
var DefaultFactor = Factor{
	SecondsPerCycle:      1e-8,
	MillisecondsPerCycle: 1e-5,
}

// FactorFromRate builds a Factor from a measured cycles-per-second rate.
// Rates that are not positive and finite yield DefaultFactor.
func FactorFromRate(cyclesPerSecond float64) Factor {
	if !(cyclesPerSecond > 0) || math.IsInf(cyclesPerSecond, 0) {
		return DefaultFactor
	}
	return Factor{
		SecondsPerCycle:      1.0 / cyclesPerSecond,
		MillisecondsPerCycle: 1000.0 / cyclesPerSecond,
	}
}

// CyclesPerSecond returns the counter rate this factor represents.
func (f Factor) CyclesPerSecond() float64 {
	if f.SecondsPerCycle == 0 {
		return 0
	}
	return 1.0 / f.SecondsPerCycle
}

// Milliseconds converts a cycle count to milliseconds.
func (f Factor) Milliseconds(cycles uint64) float64 {
	return float64(cycles) * f.MillisecondsPerCycle
}

// Seconds converts a cycle count to seconds.
func (f Factor) Seconds(cycles uint64) float64 {
	return float64(cycles) * f.SecondsPerCycle
}
