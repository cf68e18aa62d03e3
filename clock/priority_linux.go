package clock

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// highestNice is the most favourable nice value on Linux.
const highestNice = -20

type osPriority struct{}

// OSPriority returns a booster that renices the calling OS thread. Linux applies
// PRIO_PROCESS with who=0 to the calling thread only, so the goroutine is
// locked to its thread until restore runs.
func OSPriority() PriorityBooster {
	return osPriority{}
}

func (osPriority) Raise() (func(), error) {
	runtime.LockOSThread()

	// The raw syscall reports 20-nice.
	raw, err := unix.Getpriority(unix.PRIO_PROCESS, 0)
	if err != nil {
		runtime.UnlockOSThread()
		return func() {}, fmt.Errorf("reading priority: %w", err)
	}
	prevNice := 20 - raw

	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, highestNice); err != nil {
		runtime.UnlockOSThread()
		return func() {}, fmt.Errorf("raising priority: %w", err)
	}

	return func() {
		_ = unix.Setpriority(unix.PRIO_PROCESS, 0, prevNice)
		runtime.UnlockOSThread()
	}, nil
}
