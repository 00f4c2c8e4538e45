package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"remake/internal/body"
	"remake/internal/mathutil"
)

func TestSmoothMovesThrottleAtFixedRate(t *testing.T) {
	tun := BaselineTuning()

	ds := Smooth(DriveState{}, ControlInput{Vertical: 1}, tun, 0.1)
	assert.InDelta(t, 0.4, ds.Throttle, 1e-12)

	ds = Smooth(ds, ControlInput{Vertical: 1}, tun, 0.1)
	assert.InDelta(t, 0.8, ds.Throttle, 1e-12)

	ds = Smooth(ds, ControlInput{Vertical: 1}, tun, 0.1)
	assert.Equal(t, 1.0, ds.Throttle, "throttle must not overshoot the axis")
}

func TestSmoothEasesSteer(t *testing.T) {
	tun := BaselineTuning()

	ds := Smooth(DriveState{}, ControlInput{Horizontal: 1}, tun, 0.1)
	assert.InDelta(t, 0.8, ds.Steer, 1e-12)
	assert.Equal(t, 1.0, ds.TargetSteer)

	ds = Smooth(DriveState{}, ControlInput{Horizontal: -1}, tun, 1)
	assert.Equal(t, -1.0, ds.Steer, "a large step lands on the target")
}

func TestSmoothAppliesSteeringDeadzone(t *testing.T) {
	tun := BaselineTuning()
	ds := Smooth(DriveState{Steer: 0.5}, ControlInput{Horizontal: 0.07}, tun, 0.05)

	assert.Equal(t, 0.0, ds.TargetSteer)
	assert.Less(t, ds.Steer, 0.5)
}

func TestSmoothIgnoresNegativeDelta(t *testing.T) {
	tun := BaselineTuning()
	ds := Smooth(DriveState{Throttle: 0.2, Steer: 0.3}, ControlInput{Vertical: 1, Horizontal: 1}, tun, -1)

	assert.Equal(t, 0.2, ds.Throttle)
	assert.Equal(t, 0.3, ds.Steer)
}

func TestSmoothStaysWithinUnitRange(t *testing.T) {
	tun := BaselineTuning()
	r := mathutil.NewRand(7)
	ds := DriveState{}
	for range 5000 {
		in := ControlInput{
			Vertical:   r.RangeF(-5, 5),
			Horizontal: r.RangeF(-5, 5),
		}
		ds = Smooth(ds, in, tun, r.RangeF(0, 3))
		assert.GreaterOrEqual(t, ds.Throttle, -1.0)
		assert.LessOrEqual(t, ds.Throttle, 1.0)
		assert.GreaterOrEqual(t, ds.Steer, -1.0)
		assert.LessOrEqual(t, ds.Steer, 1.0)
	}
}

func TestSanitizeClampsAndFilters(t *testing.T) {
	in := ControlInput{Vertical: 4, Horizontal: -0.05}.Sanitize(0.08)
	assert.Equal(t, 1.0, in.Vertical)
	assert.Equal(t, 0.0, in.Horizontal)

	in = ControlInput{Vertical: -2, Horizontal: -3}.Sanitize(0.08)
	assert.Equal(t, -1.0, in.Vertical)
	assert.Equal(t, -1.0, in.Horizontal)
}

func TestSteerRateFallsWithSpeed(t *testing.T) {
	tun := BaselineTuning()

	assert.Equal(t, 120.0, SteerRate(0, tun))
	assert.InDelta(t, 80, SteerRate(11, tun), 1e-12)
	assert.Equal(t, 40.0, SteerRate(44, tun), "past max speed the rate stays at steerAtMax")
}

func TestTurnAtStandstillUsesFullAuthority(t *testing.T) {
	tun := BaselineTuning()

	st, rate := Turn(body.NewState(), 1, tun, 0.5)
	assert.Equal(t, 120.0, rate)
	assert.InDelta(t, 60, st.YawDegrees(), 1e-9)

	st, rate = Turn(body.NewState(), -0.5, tun, 0.5)
	assert.Equal(t, -60.0, rate)
	assert.InDelta(t, -30, st.YawDegrees(), 1e-9)
}

func TestFrameStepReportsExhaust(t *testing.T) {
	tun := BaselineTuning()
	ds := DriveState{Throttle: 0.5}

	_, _, rep := FrameStep(ds, body.NewState(), ControlInput{Vertical: 0.5}, tun, 0.01)
	assert.InDelta(t, 20, rep.ExhaustRate, 1e-12)

	_, _, rep = FrameStep(ds, body.NewState(), ControlInput{Vertical: 0.5, Handbrake: true}, tun, 0.01)
	assert.Equal(t, 0.0, rep.ExhaustRate, "handbrake mutes the exhaust")

	tun.MuteExhaustOnHandbrake = false
	_, _, rep = FrameStep(ds, body.NewState(), ControlInput{Vertical: 0.5, Handbrake: true}, tun, 0.01)
	assert.InDelta(t, 20, rep.ExhaustRate, 1e-12)
}
