package clock

// PriorityBooster temporarily raises the scheduling priority of the calling
// thread. Raise always returns a usable restore function, even on error.
type PriorityBooster interface {
	Raise() (restore func(), err error)
}

type noBoost struct{}

func (noBoost) Raise() (func(), error) { return func() {}, nil }

// NoBoost returns a booster that leaves the scheduling priority alone.
func NoBoost() PriorityBooster {
	return noBoost{}
}
