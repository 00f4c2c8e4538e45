package vehicle

import (
	"remake/internal/body"
)

// DetectSkid flags a slide once the lateral speed passes SkidThreshold and the
// body moves faster than SkidMinSpeed. With SkidIntentGate the slide must also be
// driver-caused: steering, handbrake, or a yaw rate above SkidYawRateThreshold.
func DetectSkid(ds DriveState, st body.State, lateralSpeed float64, handbrake bool, t Tuning) bool {
	if st.Speed() <= t.SkidMinSpeed || abs(lateralSpeed) <= t.SkidThreshold {
		return false
	}
	if !t.SkidIntentGate {
		return true
	}
	return abs(ds.TargetSteer) >= t.NoSteerDeadzone ||
		handbrake ||
		yawRate(ds, st.AngularVelocity.Y()) > t.SkidYawRateThreshold
}
