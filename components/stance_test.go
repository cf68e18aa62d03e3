package components

import "testing"

func TestStanceRecovery(t *testing.T) {
	tests := []struct {
		name       string
		height     float64
		rate       float64
		wantFrames int
	}{
		{"even steps", 40, 4, 10},
		{"overshoot clamps", 41, 4, 11},
		{"zero rate snaps back", 41, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStance(tt.height, tt.rate)
			if !s.Settled() {
				t.Fatal("new stance should be settled")
			}

			s.Drop()
			frames := 0
			for !s.Settled() {
				s.Step()
				frames++
				if frames > 1000 {
					t.Fatal("stance never settled")
				}
			}
			if frames != tt.wantFrames {
				t.Errorf("settled after %d frames, want %d", frames, tt.wantFrames)
			}
			if s.Current != tt.height {
				t.Errorf("Current = %v, want %v", s.Current, tt.height)
			}
		})
	}
}

func TestStanceEyeZ(t *testing.T) {
	s := NewStance(DefaultViewHeight, 1)
	if got := s.EyeZ(16); got != 57 {
		t.Errorf("EyeZ(16) = %v, want 57", got)
	}
	s.Drop()
	if got := s.EyeZ(16); got != 16 {
		t.Errorf("EyeZ(16) after drop = %v, want 16", got)
	}
}
