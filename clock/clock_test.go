package clock

import (
	"math"
	"testing"
)

// stepSource advances by a fixed step on every read.
type stepSource struct {
	now  uint64
	step uint64
}

func (s *stepSource) Cycles() uint64 {
	s.now += s.step
	return s.now
}

// scriptSource returns the scripted values in order, repeating the last one.
type scriptSource struct {
	values []uint64
	i      int
}

func (s *scriptSource) Cycles() uint64 {
	v := s.values[s.i]
	if s.i < len(s.values)-1 {
		s.i++
	}
	return v
}

func TestTimerAccumulatesPairs(t *testing.T) {
	src := &scriptSource{values: []uint64{100, 150, 1000, 1300, 2000, 2001}}
	clk := New(src, Factor{SecondsPerCycle: 1e-9, MillisecondsPerCycle: 1e-6})
	timer := clk.NewTimer()

	for i := 0; i < 3; i++ {
		timer.Start()
		timer.Stop()
	}

	if got, want := timer.Cycles(), uint64(50+300+1); got != want {
		t.Fatalf("Cycles() = %d, want %d", got, want)
	}
	wantMS := float64(351) * 1e-6
	if math.Abs(timer.Milliseconds()-wantMS) > 1e-15 {
		t.Errorf("Milliseconds() = %v, want %v", timer.Milliseconds(), wantMS)
	}
	wantSec := float64(351) * 1e-9
	if math.Abs(timer.Seconds()-wantSec) > 1e-18 {
		t.Errorf("Seconds() = %v, want %v", timer.Seconds(), wantSec)
	}
}

func TestTimerStopWithoutStart(t *testing.T) {
	clk := New(&stepSource{step: 10}, DefaultFactor)
	timer := clk.NewTimer()

	timer.Stop()
	timer.Stop()

	if timer.Cycles() != 0 {
		t.Errorf("stop without start accumulated %d cycles", timer.Cycles())
	}
	if timer.Running() {
		t.Error("timer should not be running")
	}
}

func TestTimerDoubleStartKeepsFirstMark(t *testing.T) {
	src := &scriptSource{values: []uint64{10, 500, 40}}
	clk := New(src, DefaultFactor)
	timer := clk.NewTimer()

	timer.Start() // 10
	timer.Start() // ignored, must not read the source
	timer.Stop()  // 500

	if got, want := timer.Cycles(), uint64(490); got != want {
		t.Errorf("Cycles() = %d, want %d", got, want)
	}
}

func TestTimerReset(t *testing.T) {
	clk := New(&stepSource{step: 7}, DefaultFactor)
	timer := clk.NewTimer()

	timer.Start()
	timer.Stop()
	if timer.Cycles() == 0 {
		t.Fatal("expected cycles before reset")
	}

	timer.Reset()
	if timer.Cycles() != 0 {
		t.Errorf("Cycles() after reset = %d, want 0", timer.Cycles())
	}
	if timer.Milliseconds() != 0 {
		t.Errorf("Milliseconds() after reset = %v, want 0", timer.Milliseconds())
	}
}

func TestTimerResetWhileRunning(t *testing.T) {
	src := &scriptSource{values: []uint64{0, 100, 130}}
	clk := New(src, DefaultFactor)
	timer := clk.NewTimer()

	timer.Start() // 0
	timer.Reset() // restarts at 100
	timer.Stop()  // 130

	if got, want := timer.Cycles(), uint64(30); got != want {
		t.Errorf("Cycles() = %d, want %d", got, want)
	}
}

func TestTimerIgnoresBackwardsCounter(t *testing.T) {
	src := &scriptSource{values: []uint64{1000, 900}}
	clk := New(src, DefaultFactor)
	timer := clk.NewTimer()

	timer.Start()
	timer.Stop()

	if timer.Cycles() != 0 {
		t.Errorf("Cycles() = %d, want 0 for a counter that went backwards", timer.Cycles())
	}
}

func TestFactorFromRate(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		want Factor
	}{
		{"1 GHz", 1e9, Factor{SecondsPerCycle: 1e-9, MillisecondsPerCycle: 1e-6}},
		{"zero", 0, DefaultFactor},
		{"negative", -5, DefaultFactor},
		{"inf", math.Inf(1), DefaultFactor},
		{"nan", math.NaN(), DefaultFactor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FactorFromRate(tt.rate)
			if math.Abs(got.SecondsPerCycle-tt.want.SecondsPerCycle) > 1e-20 ||
				math.Abs(got.MillisecondsPerCycle-tt.want.MillisecondsPerCycle) > 1e-17 {
				t.Errorf("FactorFromRate(%v) = %+v, want %+v", tt.rate, got, tt.want)
			}
		})
	}
}

func TestHardwareCounterAdvances(t *testing.T) {
	src := Hardware()
	a := src.Cycles()
	for i := 0; i < 1000; i++ {
		_ = src.Cycles()
	}
	b := src.Cycles()
	if b < a {
		t.Errorf("cycle counter went backwards: %d -> %d", a, b)
	}
}
