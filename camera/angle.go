package camera

import "math"

// Angle is a binary angle: the full circle maps onto the uint32 range, so
// arithmetic wraps naturally. 0 faces +X (east), ANG90 faces +Y (north).
type Angle uint32

// Common angles.
const (
	ANG45  Angle = 0x20000000
	ANG90  Angle = 0x40000000
	ANG180 Angle = 0x80000000
	ANG270 Angle = 0xC0000000
)

const angleUnitsPerTurn = 4294967296.0 // 1 << 32

// FromRadians converts radians to a binary angle.
func FromRadians(r float64) Angle {
	turns := r / (2 * math.Pi)
	turns -= math.Floor(turns)
	return Angle(uint64(turns*angleUnitsPerTurn) & 0xFFFFFFFF)
}

// FromDegrees converts degrees to a binary angle.
func FromDegrees(d float64) Angle {
	return FromRadians(d * math.Pi / 180)
}

// Radians returns the angle in [0, 2π).
func (a Angle) Radians() float64 {
	return float64(a) / angleUnitsPerTurn * 2 * math.Pi
}

// Degrees returns the angle in [0, 360).
func (a Angle) Degrees() float64 {
	return float64(a) / angleUnitsPerTurn * 360
}

// PointToAngle returns the angle from (x1, y1) towards (x2, y2). Coincident
// points face east.
func PointToAngle(x1, y1, x2, y2 float64) Angle {
	dx, dy := x2-x1, y2-y1
	if dx == 0 && dy == 0 {
		return 0
	}
	return FromRadians(math.Atan2(dy, dx))
}

// Diff returns the signed angle from b to a in radians, in [-π, π).
func Diff(a, b Angle) float64 {
	return float64(int32(a-b)) / angleUnitsPerTurn * 2 * math.Pi
}
