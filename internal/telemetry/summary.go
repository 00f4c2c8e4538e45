package telemetry

import (
	"math"

	"github.com/rs/zerolog"
)

// Summary accumulates run totals from the sample stream.
type Summary struct {
	Ticks     uint64
	Duration  float64
	Distance  float64
	TopSpeed  float64
	SkidTime  float64
	SkidCount int

	havePrev bool
	prev     Sample
}

func (s *Summary) Write(x Sample) error {
	s.Ticks++
	if x.Speed > s.TopSpeed {
		s.TopSpeed = x.Speed
	}
	if x.Skidding && (!s.havePrev || !s.prev.Skidding) {
		s.SkidCount++
	}
	if s.havePrev {
		dt := x.T - s.prev.T
		if dt > 0 {
			s.Duration += dt
			if x.Skidding {
				s.SkidTime += dt
			}
		}
		s.Distance += math.Hypot(x.X-s.prev.X, x.Z-s.prev.Z)
	}
	s.prev, s.havePrev = x, true
	return nil
}

func (s *Summary) Close() error { return nil }

// MarshalZerologObject lets a summary be logged with Object().
func (s *Summary) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("ticks", s.Ticks).
		Float64("duration", s.Duration).
		Float64("distance", s.Distance).
		Float64("topSpeed", s.TopSpeed).
		Float64("skidTime", s.SkidTime).
		Int("skids", s.SkidCount)
}
