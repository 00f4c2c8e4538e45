package body

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Constraints lock rotational axes. A car keeps yaw free and freezes the rest.
type Constraints struct {
	FreezePitch bool // rotation about X
	FreezeRoll  bool // rotation about Z
}

// RigidBody is a minimal integrator standing in for a host physics engine:
// explicit Euler on velocity, axis-locked angular integration, and contact with
// an optional flat ground plane. It does no collision detection.
type RigidBody struct {
	State

	Mass         float64
	CenterOfMass mgl64.Vec3 // local offset; informational for hosts with torque
	Constraints  Constraints

	// Ground is the height of the ground plane. Nil disables ground contact.
	Ground *float64

	// Grounded is true after Integrate if the body rests on the ground plane.
	Grounded bool
}

func NewRigidBody() *RigidBody {
	return &RigidBody{
		State: NewState(),
		Mass:  1,
	}
}

// SetGround enables ground contact at height h.
func (rb *RigidBody) SetGround(h float64) {
	rb.Ground = &h
}

// Integrate advances position and orientation by dt using the current velocities.
func (rb *RigidBody) Integrate(dt float64) {
	if dt <= 0 {
		return
	}

	rb.AngularVelocity = rb.constrain(rb.AngularVelocity)
	if w := rb.AngularVelocity.Len(); w > 0 {
		spin := mgl64.QuatRotate(w*dt, rb.AngularVelocity.Mul(1/w))
		rb.Rotation = spin.Mul(rb.orientation()).Normalize()
	}

	rb.Position = rb.Position.Add(rb.Velocity.Mul(dt))

	rb.Grounded = false
	if rb.Ground == nil {
		return
	}
	g := *rb.Ground
	if rb.Position.Y() <= g {
		rb.Position[1] = g
		if rb.Velocity.Y() < 0 {
			rb.Velocity[1] = 0
		}
		rb.Grounded = true
	}
}

func (rb *RigidBody) constrain(w mgl64.Vec3) mgl64.Vec3 {
	if rb.Constraints.FreezePitch {
		w[0] = 0
	}
	if rb.Constraints.FreezeRoll {
		w[2] = 0
	}
	return w
}
