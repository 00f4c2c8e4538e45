package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remake/internal/config"
	"remake/internal/scenario"
	"remake/internal/telemetry"
	"remake/internal/vehicle"
)

const drift = `
name: drift
duration: 6
preset: intent
tuning:
  maxSpeed: 24
start:
  z: 5
segments:
  - at: 0
    vertical: 1
  - at: 3
    vertical: 1
    horizontal: -1
    handbrake: true
  - at: 4
`

func TestSimulateScenario(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	sc, err := scenario.Parse([]byte(drift))
	require.NoError(t, err)

	db, err := telemetry.OpenSQLite("", zerolog.Nop())
	require.NoError(t, err)
	sink, err := telemetry.NewSQLiteSink(db, sc.Name, sc.Preset)
	require.NoError(t, err)

	sum, err := Simulate(context.Background(), cfg, sc, []telemetry.Sink{sink}, zerolog.Nop())
	require.NoError(t, err)

	assert.InDelta(t, 300, float64(sum.Ticks), 1)
	assert.GreaterOrEqual(t, sum.SkidCount, 1)
	assert.Greater(t, sum.Distance, 50.0)

	var n int64
	require.NoError(t, db.Model(&telemetry.SampleRow{}).Count(&n).Error)
	assert.Equal(t, int64(sum.Ticks), n)
}

func TestSimulateIsDeterministic(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	sc, err := scenario.Parse([]byte(drift))
	require.NoError(t, err)

	a, err := Simulate(context.Background(), cfg, sc, nil, zerolog.Nop())
	require.NoError(t, err)
	b, err := Simulate(context.Background(), cfg, sc, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, a.Distance, b.Distance)
	assert.Equal(t, a.SkidCount, b.SkidCount)
}

const straight = `
name: straight
duration: 2
segments:
  - at: 0
    vertical: 1
`

func loadConfig(t *testing.T, doc string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remake.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg
}

func TestSimulateUsesConfiguredTuning(t *testing.T) {
	cfg := loadConfig(t, "preset: intent\ntuning:\n  maxSpeed: 5\n")
	sc, err := scenario.Parse([]byte(straight))
	require.NoError(t, err)

	sum, err := Simulate(context.Background(), cfg, sc, nil, zerolog.Nop())
	require.NoError(t, err)

	assert.InDelta(t, 100, float64(sum.Ticks), 1)
	assert.Greater(t, sum.Distance, 5.0)
	assert.LessOrEqual(t, sum.Distance, 10.0+1e-6, "forward speed is capped at the configured maxSpeed")
}

func TestResolveTuning(t *testing.T) {
	cfg := loadConfig(t, "preset: intent\ntuning:\n  maxSpeed: 5\n")

	tests := []struct {
		name       string
		doc        string
		wantPreset string
		wantMax    float64
		wantGate   bool
	}{
		{"config preset", straight, vehicle.PresetIntent, 5, true},
		{"scenario overrides config", straight + "tuning:\n  maxSpeed: 9\n", vehicle.PresetIntent, 9, true},
		{"scenario preset", straight + "preset: baseline\n", vehicle.PresetBaseline, 22, false},
		{"scenario preset and tuning", drift, vehicle.PresetIntent, 24, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := scenario.Parse([]byte(tt.doc))
			require.NoError(t, err)

			tun, preset, err := ResolveTuning(cfg, sc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPreset, preset)
			assert.Equal(t, tt.wantMax, tun.MaxSpeed)
			assert.Equal(t, tt.wantGate, tun.SkidIntentGate)
		})
	}
}

func TestSimulateRejectsBadOverride(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	sc, err := scenario.Parse([]byte("duration: 1\ntuning:\n  warp: 9\n"))
	require.NoError(t, err)

	_, err = Simulate(context.Background(), cfg, sc, nil, zerolog.Nop())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestNewSessionStartsAtPose(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	sess, err := NewSession(cfg, Options{StartPos: scenario.Pose{X: 3, Z: 4, Yaw: 180}}, zerolog.Nop())
	require.NoError(t, err)
	defer sess.Close()

	rb := sess.Car.Body()
	assert.Equal(t, 3.0, rb.Position.X())
	assert.InDelta(t, 180, abs(rb.YawDegrees()), 1e-9)
	assert.True(t, rb.Constraints.FreezePitch)
	assert.Nil(t, sess.Car.Engine)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
