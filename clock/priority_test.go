package clock

import "testing"

func TestOSPriorityRestoreAlwaysCallable(t *testing.T) {
	// Raising to the highest priority usually needs privileges; both outcomes
	// must hand back a usable restore.
	restore, err := OSPriority().Raise()
	if restore == nil {
		t.Fatalf("restore is nil (err = %v)", err)
	}
	restore()

	restore, _ = NoBoost().Raise()
	if restore == nil {
		t.Fatal("NoBoost restore is nil")
	}
	restore()
}
