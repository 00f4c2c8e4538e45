package sim

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remake/internal/audio"
	"remake/internal/body"
	"remake/internal/camera"
	"remake/internal/effects"
	"remake/internal/input"
	"remake/internal/telemetry"
	"remake/internal/vehicle"
)

type fakeVoice struct {
	playing bool
	pitch   float64
}

func (f *fakeVoice) IsPlaying() bool    { return f.playing }
func (f *fakeVoice) Play()              { f.playing = true }
func (f *fakeVoice) Stop()              { f.playing = false }
func (f *fakeVoice) SetPitch(p float64) { f.pitch = p }
func (f *fakeVoice) HasClip() bool      { return true }

// driftScript accelerates, throws the car into a handbrake turn, then lets go.
func driftScript() *input.Script {
	gas := vehicle.ControlInput{Vertical: 1}
	drift := vehicle.ControlInput{Vertical: 1, Horizontal: 1, Handbrake: true}
	return input.NewScript([]input.Segment{
		{At: 0, Input: gas},
		{At: 3, Input: drift},
		{At: 4, Input: vehicle.ControlInput{}},
	})
}

type rig struct {
	car     *Car
	sched   *Scheduler
	summary *telemetry.Summary
	voice   *fakeVoice
	events  map[EventType]int
	order   []EventType
}

func newRig(t *testing.T, tun vehicle.Tuning) *rig {
	t.Helper()
	rb := body.NewRigidBody()
	rb.SetGround(0)
	ctrl, err := vehicle.NewController(tun, rb)
	require.NoError(t, err)

	r := &rig{summary: &telemetry.Summary{}, voice: &fakeVoice{}, events: map[EventType]int{}}
	c := NewCar(ctrl, zerolog.Nop())
	c.Input = driftScript()
	c.Camera = camera.NewFollower(rb, 5, 5)
	c.Exhaust = []*effects.Exhaust{effects.NewExhaust(effects.NewParticleSystem(512, 1), body.AxisForward.Mul(-2))}
	c.Wheels = DefaultWheels(effects.FlatGround(0))
	c.Engine = audio.NewEngineSound(r.voice)
	c.Recorder = telemetry.NewRecorder(zerolog.Nop(), r.summary)
	for _, typ := range []EventType{EventSkidStarted, EventSkidEnded, EventEngineStarted, EventEngineStopped, EventModeChanged} {
		c.Events.Subscribe(typ, func(e Event) {
			r.events[e.Type]++
			r.order = append(r.order, e.Type)
		})
	}
	c.Start()

	r.car = c
	r.sched = NewScheduler(Config{FixedDelta: 0.02, FrameRate: 60}, c.Hooks())
	return r
}

func (r *rig) run(t *testing.T, seconds float64) {
	t.Helper()
	require.NoError(t, r.sched.Simulate(context.Background(), seconds, 1.0/60))
}

func TestCarDriftLifecycle(t *testing.T) {
	r := newRig(t, vehicle.BaselineTuning())
	r.run(t, 6)

	assert.GreaterOrEqual(t, r.events[EventSkidStarted], 1)
	assert.Equal(t, r.events[EventSkidStarted], r.events[EventSkidEnded], "every skid ends once the driver lets go")
	assert.False(t, r.car.Skidding())
	assert.Equal(t, vehicle.Coasting, r.car.Mode())

	assert.Equal(t, EventModeChanged, r.order[0], "first tick leaves coasting")
	assert.Equal(t, 1, r.events[EventEngineStarted])
	assert.True(t, r.voice.playing)
	assert.Greater(t, r.voice.pitch, r.car.Engine.MinPitch)

	assert.Equal(t, r.sched.Tick(), r.summary.Ticks)
	assert.Equal(t, r.events[EventSkidStarted], r.summary.SkidCount)
	assert.Greater(t, r.summary.SkidTime, 0.0)
	assert.Greater(t, r.summary.Distance, 50.0)
	assert.Greater(t, r.summary.TopSpeed, 20.0)

	// Baseline keeps the marks until they fade.
	for _, w := range r.car.Wheels {
		assert.NotEmpty(t, w.Trail.Points)
		assert.False(t, w.Trail.Emitting())
		for _, p := range w.Trail.Points {
			assert.InDelta(t, 0.005, p.Pos.Y(), 1e-9)
		}
	}
}

func TestCarIntentPresetClearsTrails(t *testing.T) {
	r := newRig(t, vehicle.IntentTuning())
	r.run(t, 6)

	assert.GreaterOrEqual(t, r.events[EventSkidStarted], 1)
	for _, w := range r.car.Wheels {
		assert.Empty(t, w.Trail.Points)
	}
}

func TestCarCameraAndExhaustFollow(t *testing.T) {
	r := newRig(t, vehicle.BaselineTuning())
	r.run(t, 1)

	rb := r.car.Body()
	assert.Greater(t, rb.Position.Z(), 1.0)
	assert.Greater(t, r.car.Camera.Position.Z(), 0.0)
	assert.Less(t, r.car.Camera.Position.Z(), rb.Position.Z(), "camera lags behind")
	assert.Greater(t, r.car.Exhaust[0].Particles.Alive(), 0)
	assert.InDelta(t, 40, r.car.Exhaust[0].Rate(), 1e-9)
}

func TestCarWithoutCollaborators(t *testing.T) {
	rb := body.NewRigidBody()
	ctrl, err := vehicle.NewController(vehicle.BaselineTuning(), rb)
	require.NoError(t, err)

	c := NewCar(ctrl, zerolog.Nop())
	c.Start()
	s := NewScheduler(Config{}, c.Hooks())
	assert.NotPanics(t, func() {
		require.NoError(t, s.Simulate(context.Background(), 0.5, 1.0/60))
	})
	assert.Equal(t, vehicle.ControlInput{}, c.in)
	assert.Zero(t, rb.Speed())
}
