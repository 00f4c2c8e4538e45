package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"remake/internal/audio"
	"remake/internal/body"
	"remake/internal/camera"
	"remake/internal/effects"
	"remake/internal/input"
	"remake/internal/telemetry"
	"remake/internal/vehicle"
)

// Wheel is a rear wheel contact that lays skid marks.
type Wheel struct {
	Anchor  mgl64.Vec3 // body-space offset
	Trail   *effects.Trail
	Aligner *effects.GroundAligner
}

// Car ties the drive model to its body and the cosmetic collaborators around
// it. Every collaborator except Controller is optional.
type Car struct {
	Controller *vehicle.Controller
	Input      input.Source
	Camera     *camera.Follower
	Exhaust    []*effects.Exhaust
	Wheels     []Wheel
	Engine     *audio.EngineSound
	Recorder   *telemetry.Recorder
	Events     *EventBus
	Log        zerolog.Logger

	in       vehicle.ControlInput
	skidding bool
	engineOn bool
	mode     vehicle.LongitudinalMode
	time     float64
}

func NewCar(ctrl *vehicle.Controller, log zerolog.Logger) *Car {
	return &Car{Controller: ctrl, Events: NewEventBus(), Log: log}
}

// DefaultWheels places two rear wheels on the given ground.
func DefaultWheels(g effects.Ground) []Wheel {
	anchors := []mgl64.Vec3{{-0.8, 0, -1.3}, {0.8, 0, -1.3}}
	wheels := make([]Wheel, len(anchors))
	for i, a := range anchors {
		wheels[i] = Wheel{Anchor: a, Trail: effects.NewTrail(), Aligner: effects.NewGroundAligner(g)}
	}
	return wheels
}

func (c *Car) Body() *body.RigidBody { return c.Controller.Body }

// Start prepares the body and engine before the first frame.
func (c *Car) Start() {
	c.Controller.Awake()
	if c.Engine != nil {
		c.Engine.Start(c.Body().Speed())
		c.engineOn = c.Engine.Playing()
	}
	c.Log.Debug().
		Float64("maxSpeed", c.Controller.Tuning.MaxSpeed).
		Bool("intentGate", c.Controller.Tuning.SkidIntentGate).
		Msg("car started")
}

// Hooks returns the scheduler callbacks for this car.
func (c *Car) Hooks() Hooks {
	return Hooks{
		Begin: c.begin,
		Fixed: c.fixed,
		Frame: c.frame,
		Late:  c.late,
	}
}

// Input reads are latched once per frame.
func (c *Car) begin(dt float64) {
	if c.Input == nil {
		c.in = vehicle.ControlInput{}
		return
	}
	if a, ok := c.Input.(input.Advancer); ok {
		a.Advance(dt)
	}
	c.in = c.Input.Sample()
}

func (c *Car) fixed(tick uint64, dt float64) {
	rep := c.Controller.FixedUpdate(c.in, dt)
	rb := c.Body()
	rb.Integrate(dt)
	c.time += dt

	if c.Camera != nil {
		c.Camera.Step(dt)
	}

	c.updateTrails(rep.Skidding)
	c.updateEngine(tick, rb)

	if rep.Skidding != c.skidding {
		typ := EventSkidEnded
		if rep.Skidding {
			typ = EventSkidStarted
		}
		c.Events.Emit(Event{Type: typ, Tick: tick, Position: rb.Position, Speed: rb.Speed()})
		c.skidding = rep.Skidding
	}
	if rep.Mode != c.mode {
		c.mode = rep.Mode
		c.Events.Emit(Event{Type: EventModeChanged, Tick: tick, Position: rb.Position, Speed: rb.Speed(), Mode: rep.Mode})
	}

	c.Recorder.Record(c.sample(tick, rep))
}

func (c *Car) updateTrails(skidding bool) {
	wipe := !skidding && c.Controller.Tuning.ClearTrailsWhenIdle
	for _, w := range c.Wheels {
		if w.Trail == nil {
			continue
		}
		w.Trail.SetEmitting(skidding)
		if wipe {
			w.Trail.Clear()
		}
	}
}

func (c *Car) updateEngine(tick uint64, rb *body.RigidBody) {
	if c.Engine == nil {
		return
	}
	c.Engine.FixedUpdate(rb.Speed())
	on := c.Engine.Playing()
	if on == c.engineOn {
		return
	}
	c.engineOn = on
	typ := EventEngineStopped
	if on {
		typ = EventEngineStarted
	}
	c.Events.Emit(Event{Type: typ, Tick: tick, Position: rb.Position, Speed: rb.Speed()})
}

func (c *Car) frame(dt float64) {
	rep := c.Controller.Update(c.in, dt)
	pos, rot := c.Body().Pose()
	for _, ex := range c.Exhaust {
		if ex == nil {
			continue
		}
		ex.SetRate(rep.ExhaustRate)
		ex.Update(pos, rot, dt)
	}
}

// late glues the skid anchors to the ground after everything else moved.
func (c *Car) late(dt float64) {
	rb := c.Body()
	pos, rot := rb.Pose()
	fwd := rb.Forward()
	for _, w := range c.Wheels {
		p := pos.Add(rot.Rotate(w.Anchor))
		normal := body.AxisUp
		if w.Aligner != nil {
			w.Aligner.Align(p, &fwd)
			p, normal = w.Aligner.Position, w.Aligner.Normal
		}
		if w.Trail != nil {
			w.Trail.Update(p, normal, dt)
		}
	}
}

func (c *Car) sample(tick uint64, rep vehicle.TickReport) telemetry.Sample {
	rb := c.Body()
	s := telemetry.Sample{
		Tick:         tick,
		T:            c.time,
		Speed:        rep.Speed,
		ForwardSpeed: rep.ForwardSpeed,
		LateralSpeed: rep.LateralSpeed,
		Throttle:     c.Controller.Drive.Throttle,
		Steer:        c.Controller.Drive.Steer,
		Mode:         rep.Mode.String(),
		Skidding:     rep.Skidding,
		Handbrake:    rep.Handbrake,
		X:            rb.Position.X(),
		Z:            rb.Position.Z(),
		Yaw:          rb.YawDegrees(),
	}
	if c.Engine != nil {
		s.EnginePitch = c.Engine.Pitch()
	}
	return s
}

// Skidding reports the flag from the last fixed tick.
func (c *Car) Skidding() bool { return c.skidding }

// Mode reports the longitudinal mode from the last fixed tick.
func (c *Car) Mode() vehicle.LongitudinalMode { return c.mode }
