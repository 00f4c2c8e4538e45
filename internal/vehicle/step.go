package vehicle

import (
	"remake/internal/body"
	"remake/internal/mathutil"
)

// FrameReport is what the variable-rate step hands to cosmetic collaborators.
type FrameReport struct {
	YawRate     float64 // deg/s
	ExhaustRate float64 // particles/s
	Handbrake   bool
}

// TickReport summarizes one fixed tick.
type TickReport struct {
	Mode         LongitudinalMode
	Speed        float64
	ForwardSpeed float64
	LateralSpeed float64 // measured before grip correction
	Skidding     bool
	Stabilized   bool
	Handbrake    bool
}

// FrameStep is the variable-rate update: input smoothing, steering and the
// exhaust mapping.
func FrameStep(ds DriveState, st body.State, in ControlInput, t Tuning, dt float64) (DriveState, body.State, FrameReport) {
	in = in.Sanitize(t.InputDeadzone)
	ds = Smooth(ds, in, t, dt)

	var rate float64
	st, rate = Turn(st, ds.Steer, t, dt)
	ds.YawRate = rate

	return ds, st, FrameReport{
		YawRate:     rate,
		ExhaustRate: ExhaustRate(ds.Throttle, in.Handbrake, t),
		Handbrake:   in.Handbrake,
	}
}

// FixedStep is the physics-rate update. Order matters: drag and drive force,
// lateral grip, downforce, then the clamp/stabilizer and skid detection on the
// result.
func FixedStep(ds DriveState, st body.State, in ControlInput, t Tuning, dt float64) (DriveState, body.State, TickReport) {
	in = in.Sanitize(t.InputDeadzone)

	var mode LongitudinalMode
	ds, st, mode = Longitudinal(ds, st, t, dt)

	var lateral float64
	st, lateral = Grip(st, in.Handbrake, t, dt)
	st = Downforce(st, t, dt)

	var stabilized bool
	st, stabilized = Stabilize(ds, st, in.Handbrake, t)

	return ds, st, TickReport{
		Mode:         mode,
		Speed:        st.Speed(),
		ForwardSpeed: st.ForwardSpeed(),
		LateralSpeed: lateral,
		Skidding:     DetectSkid(ds, st, lateral, in.Handbrake, t),
		Stabilized:   stabilized,
		Handbrake:    in.Handbrake,
	}
}

// ExhaustRate maps |throttle| onto the idle..max emission range.
func ExhaustRate(throttle float64, handbrake bool, t Tuning) float64 {
	if handbrake && t.MuteExhaustOnHandbrake {
		return 0
	}
	return mathutil.Lerp(t.ExhaustRateIdle, t.ExhaustRateMax, abs(throttle))
}
