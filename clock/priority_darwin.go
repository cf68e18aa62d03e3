package clock

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// highestNice is the most favourable nice value.
const highestNice = -20

type osPriority struct{}

// OSPriority returns a booster that renices the whole process. Unlike Linux,
// darwin has no per-thread nice value, and getpriority reports nice directly.
func OSPriority() PriorityBooster {
	return osPriority{}
}

func (osPriority) Raise() (func(), error) {
	prevNice, err := unix.Getpriority(unix.PRIO_PROCESS, 0)
	if err != nil {
		return func() {}, fmt.Errorf("reading priority: %w", err)
	}
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, highestNice); err != nil {
		return func() {}, fmt.Errorf("raising priority: %w", err)
	}
	return func() {
		_ = unix.Setpriority(unix.PRIO_PROCESS, 0, prevNice)
	}, nil
}
