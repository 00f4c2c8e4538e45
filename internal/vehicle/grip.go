package vehicle

import (
	"remake/internal/body"
	"remake/internal/mathutil"
)

// GripCoefficient is the lateral friction in effect for the handbrake state.
func GripCoefficient(handbrake bool, t Tuning) float64 {
	if handbrake {
		return t.LateralFriction * t.HandbrakeGripMultiplier
	}
	return t.LateralFriction
}

// Grip cancels sideways velocity with an acceleration of -lateral*grip. The step
// is capped at the full lateral speed so a stiff grip cannot flip the slide.
// It returns the lateral speed measured before the correction.
func Grip(st body.State, handbrake bool, t Tuning, dt float64) (body.State, float64) {
	right := st.Right()
	lateral := st.Velocity.Dot(right)
	if dt <= 0 {
		return st, lateral
	}
	k := mathutil.Clamp01(GripCoefficient(handbrake, t) * dt)
	return st.AddForce(right.Mul(-lateral*k), body.VelocityChange, dt), lateral
}

// Downforce pushes the body toward the ground in proportion to its speed.
func Downforce(st body.State, t Tuning, dt float64) body.State {
	if t.Downforce == 0 {
		return st
	}
	return st.AddForce(body.AxisUp.Mul(-t.Downforce*st.Speed()), body.Acceleration, dt)
}
