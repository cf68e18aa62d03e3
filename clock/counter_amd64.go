package clock

// rdtsc is implemented in counter_amd64.s.
func rdtsc() uint64

func readCycles() uint64 { return rdtsc() }
