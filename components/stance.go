package components

// Stance is the eye height above the floor. A teleport drops the view to the
// floor and it climbs back towards Height over the following frames.
type Stance struct {
	Height  float64 // resting eye height
	Current float64
	Rate    float64 // units per frame
}

// DefaultViewHeight is the resting eye height in map units.
const DefaultViewHeight = 41

// NewStance returns a stance resting at height, recovering at rate units per
// frame after a drop.
func NewStance(height, rate float64) Stance {
	return Stance{Height: height, Current: height, Rate: rate}
}

// Drop puts the eye on the floor.
func (s *Stance) Drop() {
	s.Current = 0
}

// Step moves the eye one frame towards the resting height.
func (s *Stance) Step() {
	if s.Current >= s.Height {
		s.Current = s.Height
		return
	}
	s.Current += s.Rate
	if s.Current > s.Height || s.Rate <= 0 {
		s.Current = s.Height
	}
}

// Settled reports whether the eye is at its resting height.
func (s *Stance) Settled() bool {
	return s.Current >= s.Height
}

// EyeZ returns the absolute eye height above a floor at floorZ.
func (s *Stance) EyeZ(floorZ float64) float64 {
	return floorZ + s.Current
}
