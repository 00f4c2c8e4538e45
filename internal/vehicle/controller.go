package vehicle

import (
	"fmt"

	"remake/internal/body"
)

// Controller owns the drive state of one car and applies the model to its
// rigid body. The host integrates the body after FixedUpdate.
type Controller struct {
	Tuning Tuning
	Body   *body.RigidBody
	Drive  DriveState

	lastFrame FrameReport
	lastTick  TickReport
}

func NewController(t Tuning, rb *body.RigidBody) (*Controller, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if rb == nil {
		return nil, fmt.Errorf("vehicle controller: nil rigid body")
	}
	return &Controller{Tuning: t, Body: rb}, nil
}

// Awake configures the body the way the model expects: pitch and roll locked,
// centre of mass lowered.
func (c *Controller) Awake() {
	c.Body.Constraints = body.Constraints{FreezePitch: true, FreezeRoll: true}
	c.Body.CenterOfMass = c.Tuning.CenterOfMass
}

// Update runs the variable-rate step.
func (c *Controller) Update(in ControlInput, dt float64) FrameReport {
	c.Drive, c.Body.State, c.lastFrame = FrameStep(c.Drive, c.Body.State, in, c.Tuning, dt)
	return c.lastFrame
}

// FixedUpdate runs the fixed-rate step.
func (c *Controller) FixedUpdate(in ControlInput, dt float64) TickReport {
	c.Drive, c.Body.State, c.lastTick = FixedStep(c.Drive, c.Body.State, in, c.Tuning, dt)
	return c.lastTick
}

func (c *Controller) LastFrame() FrameReport { return c.lastFrame }
func (c *Controller) LastTick() TickReport   { return c.lastTick }
