//go:build !amd64

package clock

import "time"

var cycleEpoch = time.Now()

// Without a readable cycle counter one "cycle" is one nanosecond.
func readCycles() uint64 { return uint64(time.Since(cycleEpoch)) }
