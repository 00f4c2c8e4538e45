package vehicle

import (
	"remake/internal/body"
	"remake/internal/mathutil"
)

// SteerRate is the yaw authority in deg/s at the given speed: SteerAtZero when
// stopped, falling linearly to SteerAtMax at MaxSpeed.
func SteerRate(speed float64, t Tuning) float64 {
	speed01 := mathutil.Clamp01(abs(speed) / t.MaxSpeed)
	return mathutil.Lerp(t.SteerAtZero, t.SteerAtMax, speed01)
}

// Turn yaws the body directly by steer*SteerRate*dt degrees. There is no torque;
// the rotation is written the way a kinematic MoveRotation would.
// It returns the new state and the applied rate in deg/s.
func Turn(st body.State, steer float64, t Tuning, dt float64) (body.State, float64) {
	if dt <= 0 {
		return st, 0
	}
	rate := steer * SteerRate(st.Speed(), t)
	return st.Yaw(rate * dt), rate
}
