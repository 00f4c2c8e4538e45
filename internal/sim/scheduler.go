// Package sim drives the car on a fixed physics tick inside a variable frame
// loop: every frame runs zero or more fixed ticks, then the frame step, then
// the late step.
package sim

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type Config struct {
	FixedDelta      float64 // seconds per physics tick
	FrameRate       int     // frames per second for Run
	MaxCatchupTicks int     // most fixed ticks a single frame may run
}

func DefaultConfig() Config {
	return Config{FixedDelta: 0.02, FrameRate: 60, MaxCatchupTicks: 8}
}

// Hooks are the per-phase callbacks. Any may be nil.
type Hooks struct {
	Begin func(dt float64)
	Fixed func(tick uint64, dt float64)
	Frame func(dt float64)
	Late  func(dt float64)

	AfterFrame func(FrameResult)
}

type FrameResult struct {
	Frame    uint64
	Ticks    int
	Delta    float64
	Clamped  bool
	Duration time.Duration
}

// Scheduler splits frame time into fixed ticks using an accumulator.
type Scheduler struct {
	config Config
	hooks  Hooks
	clock  Clock

	acc   float64
	tick  uint64
	frame uint64
	time  float64
}

func NewScheduler(cfg Config, hooks Hooks) *Scheduler {
	def := DefaultConfig()
	if cfg.FixedDelta <= 0 {
		cfg.FixedDelta = def.FixedDelta
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = def.FrameRate
	}
	if cfg.MaxCatchupTicks <= 0 {
		cfg.MaxCatchupTicks = def.MaxCatchupTicks
	}
	return &Scheduler{config: cfg, hooks: hooks, clock: SystemClock{}}
}

func (s *Scheduler) SetClock(c Clock) {
	if c == nil {
		c = SystemClock{}
	}
	s.clock = c
}

func (s *Scheduler) Config() Config { return s.config }

// Tick is the number of fixed ticks run so far.
func (s *Scheduler) Tick() uint64 { return s.tick }

// Time is the simulated time covered by fixed ticks.
func (s *Scheduler) Time() float64 { return s.time }

// Advance runs one frame of frameDt seconds.
func (s *Scheduler) Advance(frameDt float64) FrameResult {
	start := s.clock.Now()
	fixed := s.config.FixedDelta
	maxDt := fixed * float64(s.config.MaxCatchupTicks)

	res := FrameResult{Delta: frameDt}
	if frameDt < 0 {
		frameDt = 0
		res.Delta = 0
	} else if frameDt > maxDt {
		frameDt = maxDt
		res.Delta = maxDt
		res.Clamped = true
	}

	if s.hooks.Begin != nil {
		s.hooks.Begin(frameDt)
	}

	s.acc += frameDt
	// The epsilon keeps 0.02+0.02+... from leaving a tick behind on rounding.
	for s.acc+1e-9 >= fixed && res.Ticks < s.config.MaxCatchupTicks {
		s.acc -= fixed
		s.tick++
		s.time += fixed
		res.Ticks++
		if s.hooks.Fixed != nil {
			s.hooks.Fixed(s.tick, fixed)
		}
	}
	if s.acc < 0 {
		s.acc = 0
	}
	if s.acc >= fixed {
		// Out of catch-up budget; drop the backlog rather than spiral.
		s.acc = 0
	}

	if s.hooks.Frame != nil {
		s.hooks.Frame(frameDt)
	}
	if s.hooks.Late != nil {
		s.hooks.Late(frameDt)
	}

	s.frame++
	res.Frame = s.frame
	res.Duration = s.clock.Now().Sub(start)
	if s.hooks.AfterFrame != nil {
		s.hooks.AfterFrame(res)
	}
	return res
}

// Simulate runs frames of frameDt back to back until duration seconds of frame
// time have elapsed. It does not sleep.
func (s *Scheduler) Simulate(ctx context.Context, duration, frameDt float64) error {
	if frameDt <= 0 {
		frameDt = 1 / float64(s.config.FrameRate)
	}
	for elapsed := 0.0; elapsed+1e-9 < duration; elapsed += frameDt {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Advance(frameDt)
	}
	return nil
}

// Run drives Advance from a ticker at FrameRate until ctx is cancelled, using
// the clock to measure real frame time.
func (s *Scheduler) Run(ctx context.Context) error {
	budget := time.Second / time.Duration(s.config.FrameRate)
	ticker := time.NewTicker(budget)
	defer ticker.Stop()

	last := s.clock.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := s.clock.Now()
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = budget.Seconds()
			}
			last = now
			s.Advance(dt)
		}
	}
}
