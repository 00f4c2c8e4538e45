// Package telemetry records per-tick samples of the car to pluggable sinks.
package telemetry

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Sample is one fixed tick as seen by the outside world.
type Sample struct {
	Tick         uint64
	T            float64 // seconds since start
	Speed        float64
	ForwardSpeed float64
	LateralSpeed float64
	Throttle     float64
	Steer        float64
	Mode         string
	Skidding     bool
	Handbrake    bool
	X            float64
	Z            float64
	Yaw          float64 // degrees
	EnginePitch  float64
}

type Sink interface {
	Write(Sample) error
	Close() error
}

// Recorder fans samples out to every sink. A failing sink is logged once and
// then skipped; it never stops the simulation.
type Recorder struct {
	sinks  []Sink
	failed []bool
	log    zerolog.Logger
	count  uint64
}

func NewRecorder(log zerolog.Logger, sinks ...Sink) *Recorder {
	r := &Recorder{log: log}
	for _, s := range sinks {
		r.Add(s)
	}
	return r
}

func (r *Recorder) Add(s Sink) {
	if s == nil {
		return
	}
	r.sinks = append(r.sinks, s)
	r.failed = append(r.failed, false)
}

func (r *Recorder) Record(s Sample) {
	if r == nil {
		return
	}
	r.count++
	for i, sink := range r.sinks {
		if r.failed[i] {
			continue
		}
		if err := sink.Write(s); err != nil {
			r.failed[i] = true
			r.log.Error().Err(err).Str("sink", fmt.Sprintf("%T", sink)).Uint64("tick", s.Tick).
				Msg("telemetry sink failed, disabling")
		}
	}
}

// Count is the number of samples recorded.
func (r *Recorder) Count() uint64 { return r.count }

func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, sink := range r.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.sinks, r.failed = nil, nil
	return errors.Join(errs...)
}
