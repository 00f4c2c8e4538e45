package vehicle

import (
	"remake/internal/body"
	"remake/internal/mathutil"
)

type LongitudinalMode int

const (
	Coasting LongitudinalMode = iota
	Accelerating
	Braking
	Reversing
)

func (m LongitudinalMode) String() string {
	switch m {
	case Accelerating:
		return "accelerating"
	case Braking:
		return "braking"
	case Reversing:
		return "reversing"
	default:
		return "coasting"
	}
}

// Longitudinal resolves the throttle into a drag factor and a forward velocity
// change.
//
// Negative throttle while rolling forward faster than ReverseGuardSpeed is a full
// brake, not reverse: throttle is pinned to -1 and the velocity change stops at
// standstill. Below the guard speed the same input drives the car backward.
func Longitudinal(ds DriveState, st body.State, t Tuning, dt float64) (DriveState, body.State, LongitudinalMode) {
	if dt < 0 {
		dt = 0
	}
	fwd := st.Forward()

	braking := false
	if st.Velocity.Dot(fwd) > t.ReverseGuardSpeed && ds.Throttle < 0 {
		ds.Throttle = -1
		braking = true
	}

	var force float64
	mode := Coasting
	switch {
	case ds.Throttle > 0:
		force = t.Accel * ds.Throttle
		mode = Accelerating
	case ds.Throttle < 0:
		force = t.Brake * ds.Throttle
		mode = Reversing
		if braking {
			mode = Braking
		}
	}

	var drag float64
	switch {
	case mathutil.Approximately(ds.Throttle, 0):
		drag = t.DragWhenNoInput
	case ds.Throttle < 0:
		drag = t.DragWhenBraking
	}
	st.Velocity = st.Velocity.Mul(1 / (1 + drag*dt))

	dv := force
	if t.ScaleForceByDelta {
		dv *= dt
	}
	if braking {
		if fs := st.Velocity.Dot(fwd); fs+dv < 0 {
			dv = -fs
		}
	}
	st = st.AddForce(fwd.Mul(dv), body.VelocityChange, dt)
	return ds, st, mode
}
