package vehicle

import (
	"remake/internal/body"
)

// NoIntent reports that the driver is neither steering nor handbraking, and, when
// StabilizerMaxYawRate is set, that the car has stopped rotating.
func NoIntent(ds DriveState, st body.State, handbrake bool, t Tuning) bool {
	if abs(ds.TargetSteer) >= t.NoSteerDeadzone || handbrake {
		return false
	}
	if t.StabilizerMaxYawRate > 0 && yawRate(ds, st.AngularVelocity.Y()) >= t.StabilizerMaxYawRate {
		return false
	}
	return true
}

// Stabilize clamps forward speed to MaxSpeed and, with no driver intent, snaps
// the lateral velocity and the yaw spin to zero in the same tick. The vertical
// component is carried through untouched.
func Stabilize(ds DriveState, st body.State, handbrake bool, t Tuning) (body.State, bool) {
	fwd, right, up := st.Forward(), st.Right(), st.Up()

	forward := fwd.Mul(st.Velocity.Dot(fwd))
	if l := forward.Len(); l > t.MaxSpeed {
		forward = forward.Mul(t.MaxSpeed / l)
	}
	side := right.Mul(st.Velocity.Dot(right))
	vertical := up.Mul(st.Velocity.Dot(up))

	snapped := NoIntent(ds, st, handbrake, t)
	if snapped {
		side = side.Mul(0)
		st.AngularVelocity[1] = 0
	}
	st.Velocity = forward.Add(side).Add(vertical)
	return st, snapped
}
