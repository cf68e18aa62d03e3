//go:build !linux && !darwin

package clock

// OSPriority returns a no-op booster on platforms without thread renicing.
func OSPriority() PriorityBooster {
	return noBoost{}
}
