package vehicle

import (
	"math"

	"remake/internal/mathutil"
)

// ControlInput is one sample of the driver's raw intent.
type ControlInput struct {
	Vertical   float64 // throttle/brake axis, [-1,1]
	Horizontal float64 // steering axis, [-1,1]
	Handbrake  bool
}

// Sanitize clamps both axes to [-1,1] and drops steering inside the deadzone.
func (in ControlInput) Sanitize(deadzone float64) ControlInput {
	in.Vertical = clampAxis(in.Vertical)
	in.Horizontal = clampAxis(in.Horizontal)
	if math.Abs(in.Horizontal) < deadzone {
		in.Horizontal = 0
	}
	return in
}

func clampAxis(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return mathutil.Clamp(v, -1, 1)
}
