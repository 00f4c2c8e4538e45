package vehicle

import (
	"remake/internal/mathutil"
)

// DriveState is the smoothed drive intent carried between ticks.
type DriveState struct {
	Throttle    float64 // [-1,1]
	Steer       float64 // [-1,1]
	TargetSteer float64 // last filtered steering input
	YawRate     float64 // deg/s applied by the steering model on the last frame
}

// Smooth moves throttle toward the vertical axis at ThrottleResponse units per
// second and eases steer toward the horizontal axis at SteerResponse per second.
func Smooth(ds DriveState, in ControlInput, t Tuning, dt float64) DriveState {
	if dt < 0 {
		dt = 0
	}
	in = in.Sanitize(t.InputDeadzone)

	ds.Throttle = mathutil.MoveTowards(ds.Throttle, in.Vertical, t.ThrottleResponse*dt)
	ds.TargetSteer = in.Horizontal
	ds.Steer = mathutil.Lerp(ds.Steer, ds.TargetSteer, dt*t.SteerResponse)

	ds.Throttle = mathutil.Clamp(ds.Throttle, -1, 1)
	ds.Steer = mathutil.Clamp(ds.Steer, -1, 1)
	return ds
}

// yawRate is the combined turn rate in deg/s: the steering model's own rate plus
// any spin the host left on the body.
func yawRate(ds DriveState, angularYaw float64) float64 {
	return abs(ds.YawRate) + abs(angularYaw)*degPerRad
}
