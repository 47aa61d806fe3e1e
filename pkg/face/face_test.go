package face

import (
	"encoding/json"
	"math"
	"testing"
)

func TestFaceSmoothing(t *testing.T) {
	t.Run("pupils converge geometrically on the target", func(t *testing.T) {
		f := New()
		f.SetTarget(1, -1)

		var got State
		const n = 10
		for i := 0; i < n; i++ {
			got = f.Tick()
		}

		// After n ticks of easing, the remaining distance is
		// (1 - Smoothing)^n of the original.
		wantX := MaxMovement * (1 - math.Pow(1-Smoothing, n))
		wantY := -wantX
		if math.Abs(got.EyeX-wantX) > 1e-9 {
			t.Errorf("EyeX after %d ticks = %v, want %v", n, got.EyeX, wantX)
		}
		if math.Abs(got.EyeY-wantY) > 1e-9 {
			t.Errorf("EyeY after %d ticks = %v, want %v", n, got.EyeY, wantY)
		}
	})

	t.Run("full deflection never exceeds max movement", func(t *testing.T) {
		f := New()
		f.SetTarget(1, 1)
		var got State
		for i := 0; i < 1000; i++ {
			got = f.Tick()
		}
		if got.EyeX > MaxMovement || got.EyeY > MaxMovement {
			t.Errorf("pupils overshot: (%v, %v)", got.EyeX, got.EyeY)
		}
	})

	t.Run("retargeting mid-glide changes direction", func(t *testing.T) {
		f := New()
		f.SetTarget(1, 0)
		for i := 0; i < 5; i++ {
			f.Tick()
		}
		before := f.State()

		f.SetTarget(-1, 0)
		after := f.Tick()
		if after.EyeX >= before.EyeX {
			t.Errorf("EyeX did not move toward new target: %v -> %v", before.EyeX, after.EyeX)
		}
	})
}

func TestFaceBlink(t *testing.T) {
	f := New()

	// Eyes stay open for the first 150 ticks.
	var got State
	for i := 0; i < 150; i++ {
		got = f.Tick()
		if got.Blinking {
			t.Fatalf("blinking at tick %d, want open", i+1)
		}
	}

	// Ticks 151 through 155 are the blink.
	for i := 151; i <= 155; i++ {
		got = f.Tick()
		if !got.Blinking {
			t.Fatalf("not blinking at tick %d", i)
		}
	}

	// Tick 156 wraps the counter and reopens the eyes.
	got = f.Tick()
	if got.Blinking {
		t.Fatal("still blinking after the cycle wrapped")
	}

	// The cycle repeats with the same period.
	for i := 0; i < 150; i++ {
		got = f.Tick()
		if got.Blinking {
			t.Fatalf("blinking %d ticks into the second cycle", i+1)
		}
	}
	if got = f.Tick(); !got.Blinking {
		t.Fatal("second blink did not start on schedule")
	}
}

func TestFaceExpression(t *testing.T) {
	f := New()
	if got := f.State().Expression; got != ExpressionNormal {
		t.Fatalf("initial expression = %v, want normal", got)
	}

	f.SetExpression(ExpressionTalking)
	if got := f.State().Expression; got != ExpressionTalking {
		t.Fatalf("expression = %v, want talking", got)
	}

	// Out-of-range values are dropped.
	f.SetExpression(Expression(42))
	if got := f.State().Expression; got != ExpressionTalking {
		t.Fatalf("invalid expression overwrote state: %v", got)
	}
}

func TestExpressionJSON(t *testing.T) {
	s := State{Expression: ExpressionHappy}
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back State
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Expression != ExpressionHappy {
		t.Errorf("round trip = %v, want happy", back.Expression)
	}

	if err := json.Unmarshal([]byte(`{"expression":"confused"}`), &back); err == nil {
		t.Error("expected error for unknown expression name")
	}
}
