// Package input supplies raw driver input to the car each frame.
package input

import "remake/internal/vehicle"

// Source yields the current raw control state. Sample is called once per
// rendered frame; the value holds for every fixed tick in that frame.
type Source interface {
	Sample() vehicle.ControlInput
}

// Advancer is implemented by sources that run on simulation time rather than
// a live device.
type Advancer interface {
	Advance(dt float64)
}

// Constant always reports the same input.
type Constant vehicle.ControlInput

func (c Constant) Sample() vehicle.ControlInput { return vehicle.ControlInput(c) }
