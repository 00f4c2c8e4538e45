package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetsValidate(t *testing.T) {
	for _, name := range PresetNames() {
		tun, err := Preset(name)
		require.NoError(t, err, name)
		assert.NoError(t, tun.Validate(), name)
	}
}

func TestPresetsDiverge(t *testing.T) {
	base, err := Preset(PresetBaseline)
	require.NoError(t, err)
	intent, err := Preset(PresetIntent)
	require.NoError(t, err)

	assert.Equal(t, 0.35, base.HandbrakeGripMultiplier)
	assert.Equal(t, 0.2, intent.HandbrakeGripMultiplier)
	assert.False(t, base.SkidIntentGate)
	assert.True(t, intent.SkidIntentGate)
	assert.Equal(t, base.MaxSpeed, intent.MaxSpeed)
}

func TestUnknownPreset(t *testing.T) {
	_, err := Preset("rally")
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Contains(t, err.Error(), "baseline")
}

func TestPresetsDefaultToVelocityChange(t *testing.T) {
	for _, name := range PresetNames() {
		tun, err := Preset(name)
		require.NoError(t, err)
		assert.False(t, tun.ScaleForceByDelta, name)
	}
}

func TestNextPresetCycles(t *testing.T) {
	name, tun, err := NextPreset(PresetBaseline)
	require.NoError(t, err)
	assert.Equal(t, PresetIntent, name)
	assert.Equal(t, IntentTuning(), tun)

	name, tun, err = NextPreset(PresetIntent)
	require.NoError(t, err)
	assert.Equal(t, PresetBaseline, name)
	assert.Equal(t, BaselineTuning(), tun)

	name, _, err = NextPreset("rally")
	require.NoError(t, err)
	assert.Equal(t, PresetNames()[0], name)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tuning)
		field  string
	}{
		{"zero max speed", func(t *Tuning) { t.MaxSpeed = 0 }, "maxSpeed"},
		{"negative brake", func(t *Tuning) { t.Brake = -1 }, "brake"},
		{"negative drag", func(t *Tuning) { t.DragWhenBraking = -0.1 }, "dragWhenBraking"},
		{"grip multiplier above one", func(t *Tuning) { t.HandbrakeGripMultiplier = 1.5 }, "handbrakeGripMultiplier"},
		{"zero steer response", func(t *Tuning) { t.SteerResponse = 0 }, "steerResponse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tun := BaselineTuning()
			tt.mutate(&tun)
			err := tun.Validate()
			require.ErrorIs(t, err, ErrInvalidTuning)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
