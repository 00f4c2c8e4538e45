package telemetry

import "github.com/rs/zerolog"

// LogSink prints a debug line every Every ticks.
type LogSink struct {
	Logger zerolog.Logger
	Every  uint64
}

func NewLogSink(log zerolog.Logger, every int) *LogSink {
	if every <= 0 {
		every = 15
	}
	return &LogSink{Logger: log, Every: uint64(every)}
}

func (l *LogSink) Write(s Sample) error {
	if s.Tick%l.Every != 0 {
		return nil
	}
	l.Logger.Debug().
		Uint64("tick", s.Tick).
		Str("mode", s.Mode).
		Bool("skid", s.Skidding).
		Msgf("spd=%.1f  throttle=%.2f", s.Speed, s.Throttle)
	return nil
}

func (l *LogSink) Close() error { return nil }
