// Package app assembles a drivable car from a Config and runs it.
package app

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"remake/internal/audio"
	"remake/internal/body"
	"remake/internal/camera"
	"remake/internal/config"
	"remake/internal/effects"
	"remake/internal/input"
	"remake/internal/mathutil"
	"remake/internal/scenario"
	"remake/internal/sim"
	"remake/internal/telemetry"
	"remake/internal/vehicle"
)

// tailpipe is the exhaust anchor in body space.
var tailpipe = mgl64.Vec3{0.45, 0.3, -2.1}

// Session is one car on flat ground with its scheduler.
type Session struct {
	Car       *sim.Car
	Scheduler *sim.Scheduler
	Recorder  *telemetry.Recorder
	Summary   *telemetry.Summary
}

type Options struct {
	Input    input.Source
	Voice    audio.Source // nil for a silent car
	Sinks    []telemetry.Sink
	Seed     uint64
	OnFrame  func(sim.FrameResult)
	Tuning   *vehicle.Tuning // overrides cfg.Tuning when set
	StartPos scenario.Pose
}

func NewSession(cfg *config.Config, opts Options, log zerolog.Logger) (*Session, error) {
	tun := cfg.Tuning
	if opts.Tuning != nil {
		tun = *opts.Tuning
	}

	rb := body.NewRigidBody()
	opts.StartPos.Place(rb)
	rb.SetGround(cfg.Sim.Ground)

	ctrl, err := vehicle.NewController(tun, rb)
	if err != nil {
		return nil, fmt.Errorf("build controller: %w", err)
	}

	summary := &telemetry.Summary{}
	sinks := append([]telemetry.Sink{summary, telemetry.NewLogSink(log, cfg.Telemetry.LogEvery)}, opts.Sinks...)
	rec := telemetry.NewRecorder(log, sinks...)

	car := sim.NewCar(ctrl, log.With().Str("component", "car").Logger())
	car.Input = opts.Input
	car.Camera = camera.NewFollower(rb, cfg.Camera.FollowSpeed, cfg.Camera.RotationSpeed)
	car.Exhaust = []*effects.Exhaust{
		effects.NewExhaust(effects.NewParticleSystem(cfg.Exhaust.MaxParticles, mathutil.Hash(opts.Seed, 0)), tailpipe),
	}
	car.Wheels = sim.DefaultWheels(effects.FlatGround(cfg.Sim.Ground))
	car.Recorder = rec
	if opts.Voice != nil {
		es := audio.NewEngineSound(opts.Voice)
		es.MinSpeed, es.MaxSpeed = cfg.Engine.MinSpeed, cfg.Engine.MaxSpeed
		es.MinPitch, es.MaxPitch = cfg.Engine.MinPitch, cfg.Engine.MaxPitch
		car.Engine = es
	}

	car.Events.Subscribe(sim.EventSkidStarted, func(e sim.Event) {
		log.Debug().Uint64("tick", e.Tick).Float64("speed", e.Speed).Msg("skid started")
	})
	car.Events.Subscribe(sim.EventSkidEnded, func(e sim.Event) {
		log.Debug().Uint64("tick", e.Tick).Msg("skid ended")
	})
	car.Events.Subscribe(sim.EventModeChanged, func(e sim.Event) {
		log.Trace().Uint64("tick", e.Tick).Stringer("mode", e.Mode).Msg("mode changed")
	})

	hooks := car.Hooks()
	hooks.AfterFrame = opts.OnFrame
	sched := sim.NewScheduler(sim.Config{
		FixedDelta:      cfg.Sim.FixedDelta,
		FrameRate:       cfg.Sim.FrameRate,
		MaxCatchupTicks: cfg.Sim.MaxCatchupTicks,
	}, hooks)

	car.Start()
	return &Session{Car: car, Scheduler: sched, Recorder: rec, Summary: summary}, nil
}

func (s *Session) Close() error { return s.Recorder.Close() }

// ResolveTuning picks the tuning for a scenario run and the preset name to label
// it with. A scenario that names a preset starts from that preset; otherwise the
// configured preset and tuning apply. The scenario's overrides go on top.
func ResolveTuning(cfg *config.Config, sc *scenario.Scenario) (vehicle.Tuning, string, error) {
	name, tun := cfg.Preset, cfg.Tuning
	if sc.Preset != "" {
		var err error
		if tun, err = vehicle.Preset(sc.Preset); err != nil {
			return vehicle.Tuning{}, "", err
		}
		name = sc.Preset
	}
	if len(sc.Tuning) > 0 {
		var err error
		if tun, err = config.ApplyOverrides(tun, sc.Tuning); err != nil {
			return vehicle.Tuning{}, "", err
		}
	}
	return tun, name, nil
}

// Simulate runs a scenario headless as fast as possible and returns its summary.
func Simulate(ctx context.Context, cfg *config.Config, sc *scenario.Scenario, sinks []telemetry.Sink, log zerolog.Logger) (*telemetry.Summary, error) {
	tun, preset, err := ResolveTuning(cfg, sc)
	if err != nil {
		return nil, err
	}

	sess, err := NewSession(cfg, Options{
		Input:    sc.Script(),
		Sinks:    sinks,
		Tuning:   &tun,
		StartPos: sc.Start,
	}, log)
	if err != nil {
		return nil, err
	}

	log.Info().Str("scenario", sc.Name).Str("preset", preset).Float64("duration", sc.Duration).Msg("simulating")
	runErr := sess.Scheduler.Simulate(ctx, sc.Duration, sc.FrameDelta())
	if err := sess.Close(); err != nil {
		log.Error().Err(err).Msg("closing telemetry")
	}
	if runErr != nil {
		return nil, runErr
	}
	return sess.Summary, nil
}
