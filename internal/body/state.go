package body

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Local axes. +Z is forward, +X is right, +Y is up.
var (
	AxisForward = mgl64.Vec3{0, 0, 1}
	AxisRight   = mgl64.Vec3{1, 0, 0}
	AxisUp      = mgl64.Vec3{0, 1, 0}
)

type ForceMode int

const (
	// VelocityChange adds the vector to the velocity directly, ignoring mass.
	VelocityChange ForceMode = iota
	// Acceleration adds vector*dt to the velocity, ignoring mass.
	Acceleration
)

// State is the per-tick view of a rigid body that the vehicle model reads and
// writes. Values are copied; callers hand the result back to the owner.
type State struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3 // rad/s, world space
}

func NewState() State {
	return State{Rotation: mgl64.QuatIdent()}
}

// orientation treats the zero quaternion as identity so zero-value States are usable.
func (s State) orientation() mgl64.Quat {
	if s.Rotation.W == 0 && s.Rotation.V.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return s.Rotation
}

func (s State) Forward() mgl64.Vec3 { return s.orientation().Rotate(AxisForward) }
func (s State) Right() mgl64.Vec3   { return s.orientation().Rotate(AxisRight) }
func (s State) Up() mgl64.Vec3      { return s.orientation().Rotate(AxisUp) }

// Speed is the magnitude of the linear velocity.
func (s State) Speed() float64 { return s.Velocity.Len() }

// ForwardSpeed is the signed velocity component along the body's forward axis.
func (s State) ForwardSpeed() float64 { return s.Velocity.Dot(s.Forward()) }

// LateralSpeed is the signed velocity component along the body's right axis.
func (s State) LateralSpeed() float64 { return s.Velocity.Dot(s.Right()) }

// YawDegrees is the heading around world up, 0 facing +Z, positive toward +X.
func (s State) YawDegrees() float64 {
	f := s.Forward()
	return mgl64.RadToDeg(math.Atan2(f.X(), f.Z()))
}

// InverseTransformVector converts a world-space direction into body space.
func (s State) InverseTransformVector(v mgl64.Vec3) mgl64.Vec3 {
	return s.orientation().Inverse().Rotate(v)
}

// AddForce applies f to the velocity according to mode.
func (s State) AddForce(f mgl64.Vec3, mode ForceMode, dt float64) State {
	switch mode {
	case VelocityChange:
		s.Velocity = s.Velocity.Add(f)
	case Acceleration:
		if dt > 0 {
			s.Velocity = s.Velocity.Add(f.Mul(dt))
		}
	}
	return s
}

// MoveRotation replaces the orientation, renormalizing to keep it a unit quaternion.
func (s State) MoveRotation(q mgl64.Quat) State {
	s.Rotation = q.Normalize()
	return s
}

// Yaw returns the state rotated by deg degrees about its local up axis.
func (s State) Yaw(deg float64) State {
	if deg == 0 {
		return s
	}
	return s.MoveRotation(s.orientation().Mul(mgl64.QuatRotate(mgl64.DegToRad(deg), AxisUp)))
}

// Pose returns the position and orientation, for followers that track this body.
func (s State) Pose() (mgl64.Vec3, mgl64.Quat) {
	return s.Position, s.orientation()
}
