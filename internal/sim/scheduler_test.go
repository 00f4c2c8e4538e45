package sim

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingHooks(log *[]string) Hooks {
	return Hooks{
		Begin: func(float64) { *log = append(*log, "begin") },
		Fixed: func(tick uint64, _ float64) { *log = append(*log, fmt.Sprintf("fixed%d", tick)) },
		Frame: func(float64) { *log = append(*log, "frame") },
		Late:  func(float64) { *log = append(*log, "late") },
	}
}

func TestAdvanceOrdersPhases(t *testing.T) {
	var log []string
	s := NewScheduler(Config{FixedDelta: 0.02, MaxCatchupTicks: 8}, recordingHooks(&log))

	res := s.Advance(0.05)
	assert.Equal(t, 2, res.Ticks)
	assert.Equal(t, []string{"begin", "fixed1", "fixed2", "frame", "late"}, log)

	log = log[:0]
	res = s.Advance(0.01)
	assert.Equal(t, 1, res.Ticks, "leftover time carries into the next frame")
	assert.Equal(t, []string{"begin", "fixed3", "frame", "late"}, log)
	assert.Equal(t, uint64(2), res.Frame)
	assert.InDelta(t, 0.06, s.Time(), 1e-12)
}

func TestAdvanceWithoutTickStillRunsFrame(t *testing.T) {
	var log []string
	s := NewScheduler(Config{FixedDelta: 0.02}, recordingHooks(&log))
	res := s.Advance(0.005)
	assert.Zero(t, res.Ticks)
	assert.Equal(t, []string{"begin", "frame", "late"}, log)
}

func TestAdvanceClampsCatchup(t *testing.T) {
	ticks := 0
	s := NewScheduler(Config{FixedDelta: 0.02, MaxCatchupTicks: 5}, Hooks{
		Fixed: func(uint64, float64) { ticks++ },
	})

	res := s.Advance(3)
	assert.True(t, res.Clamped)
	assert.InDelta(t, 0.1, res.Delta, 1e-12)
	assert.Equal(t, 5, ticks)

	res = s.Advance(0)
	assert.Zero(t, res.Ticks, "backlog is dropped, not replayed")
}

func TestAdvanceNegativeDelta(t *testing.T) {
	s := NewScheduler(Config{}, Hooks{})
	res := s.Advance(-1)
	assert.Zero(t, res.Ticks)
	assert.Zero(t, res.Delta)
}

func TestDefaultsFillZeroConfig(t *testing.T) {
	s := NewScheduler(Config{}, Hooks{})
	assert.Equal(t, DefaultConfig(), s.Config())
}

func TestSimulateRunsWholeDuration(t *testing.T) {
	frames := 0
	var after []FrameResult
	s := NewScheduler(Config{FixedDelta: 0.02}, Hooks{
		Frame:      func(float64) { frames++ },
		AfterFrame: func(r FrameResult) { after = append(after, r) },
	})

	require.NoError(t, s.Simulate(context.Background(), 1, 1.0/60))
	assert.Equal(t, 60, frames)
	assert.Len(t, after, 60)
	assert.InDelta(t, 50, float64(s.Tick()), 1)
}

func TestSimulateStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewScheduler(Config{}, Hooks{})
	err := s.Simulate(ctx, 10, 0.01)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.Tick())
}

func TestRunUsesClock(t *testing.T) {
	base := time.Unix(0, 0)
	var calls int
	clock := ClockFunc(func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * 10 * time.Millisecond)
	})

	var deltas []float64
	s := NewScheduler(Config{FixedDelta: 0.02, FrameRate: 200}, Hooks{
		Frame: func(dt float64) { deltas = append(deltas, dt) },
	})
	s.SetClock(clock)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Run(ctx))

	require.NotEmpty(t, deltas)
	for _, dt := range deltas {
		assert.Greater(t, dt, 0.0)
		assert.LessOrEqual(t, dt, 0.02*8)
	}
}
