package curve

import "testing"

func TestAmpAtBeforeRamp(t *testing.T) {
	r := Ramp{InitialA: 100, TargetA: 200, StartTS: 1000, StopTS: 2000}
	if got := r.AmpAt(500); got != 100 {
		t.Fatalf("AmpAt before start = %d, want 100", got)
	}
}

func TestAmpAtAfterRamp(t *testing.T) {
	r := Ramp{InitialA: 100, TargetA: 200, StartTS: 1000, StopTS: 2000}
	if got := r.AmpAt(3000); got != 200 {
		t.Fatalf("AmpAt after stop = %d, want 200", got)
	}
}

func TestAmpAtMidRampUp(t *testing.T) {
	r := Ramp{InitialA: 100, TargetA: 200, StartTS: 1000, StopTS: 2000}
	got := r.AmpAt(1500)
	if got != 150 {
		t.Fatalf("AmpAt midpoint = %d, want 150", got)
	}
}

func TestAmpAtMidRampDown(t *testing.T) {
	r := Ramp{InitialA: 200, TargetA: 100, StartTS: 1000, StopTS: 2000}
	got := r.AmpAt(1500)
	if got != 150 {
		t.Fatalf("AmpAt midpoint down = %d, want 150", got)
	}
}

func TestAmpAtNoRamp(t *testing.T) {
	r := Ramp{InitialA: 500, TargetA: 500, StartTS: 0, StopTS: 0}
	if got := r.AmpAt(12345); got != 500 {
		t.Fatalf("AmpAt flat = %d, want 500", got)
	}
}

func TestRampValidateRejectsTooLargeA(t *testing.T) {
	r := Ramp{InitialA: 100, TargetA: MaxA + 1, StartTS: 0, StopTS: 100}
	if err := r.Validate(); err == nil {
		t.Fatalf("expected error for target A above MaxA")
	}
}

func TestRampValidateRejectsBackwardsWindow(t *testing.T) {
	r := Ramp{InitialA: 100, TargetA: 200, StartTS: 100, StopTS: 50}
	if err := r.Validate(); err == nil {
		t.Fatalf("expected error for StopTS before StartTS")
	}
}
