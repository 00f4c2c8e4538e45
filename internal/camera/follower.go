// Package camera implements a chase camera that trails a target pose.
package camera

import (
	"github.com/go-gl/mathgl/mgl64"

	"remake/internal/mathutil"
)

// Target is anything with a world pose, typically the car's rigid body.
type Target interface {
	Pose() (mgl64.Vec3, mgl64.Quat)
}

type Follower struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat

	FollowSpeed   float64 // position lerp rate per second
	RotationSpeed float64 // rotation slerp rate per second

	Target Target
}

func NewFollower(target Target, followSpeed, rotationSpeed float64) *Follower {
	f := &Follower{
		Rotation:      mgl64.QuatIdent(),
		FollowSpeed:   followSpeed,
		RotationSpeed: rotationSpeed,
		Target:        target,
	}
	if target != nil {
		f.Position, f.Rotation = target.Pose()
	}
	return f
}

// Step eases the camera toward the target. Without a target it does nothing.
func (f *Follower) Step(dt float64) {
	if f.Target == nil || dt <= 0 {
		return
	}
	pos, rot := f.Target.Pose()

	t := mathutil.Clamp01(f.FollowSpeed * dt)
	f.Position = f.Position.Add(pos.Sub(f.Position).Mul(t))

	r := mathutil.Clamp01(f.RotationSpeed * dt)
	f.Rotation = slerp(f.Rotation, rot, r)
}

// slerp takes the short arc between two orientations.
func slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	if t >= 1 {
		return b.Normalize()
	}
	return mgl64.QuatSlerp(a, b, t).Normalize()
}
