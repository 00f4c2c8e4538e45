package vehicle

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrInvalidTuning = errors.New("invalid tuning")
	ErrUnknownPreset = errors.New("unknown tuning preset")
)

// Tuning is the per-session parameter set of the drive model. Rates are per second
// and angles are in degrees.
type Tuning struct {
	// Speed / accel.
	MaxSpeed          float64 `mapstructure:"maxSpeed" yaml:"maxSpeed"`
	Accel             float64 `mapstructure:"accel" yaml:"accel"`
	Brake             float64 `mapstructure:"brake" yaml:"brake"`
	DragWhenNoInput   float64 `mapstructure:"dragWhenNoInput" yaml:"dragWhenNoInput"`
	DragWhenBraking   float64 `mapstructure:"dragWhenBraking" yaml:"dragWhenBraking"`
	ThrottleResponse  float64 `mapstructure:"throttleResponse" yaml:"throttleResponse"`
	ReverseGuardSpeed float64 `mapstructure:"reverseGuardSpeed" yaml:"reverseGuardSpeed"`
	// By default the whole Accel/Brake force lands as a velocity change every tick.
	// ScaleForceByDelta turns them into per-second rates (velocity change of force*dt).
	ScaleForceByDelta bool `mapstructure:"scaleForceByDelta" yaml:"scaleForceByDelta"`

	// Steering.
	SteerAtZero     float64 `mapstructure:"steerAtZero" yaml:"steerAtZero"`
	SteerAtMax      float64 `mapstructure:"steerAtMax" yaml:"steerAtMax"`
	SteerResponse   float64 `mapstructure:"steerResponse" yaml:"steerResponse"`
	InputDeadzone   float64 `mapstructure:"inputDeadzone" yaml:"inputDeadzone"`
	NoSteerDeadzone float64 `mapstructure:"noSteerDeadzone" yaml:"noSteerDeadzone"`

	// Grip / skid.
	LateralFriction         float64 `mapstructure:"lateralFriction" yaml:"lateralFriction"`
	HandbrakeGripMultiplier float64 `mapstructure:"handbrakeGripMultiplier" yaml:"handbrakeGripMultiplier"`
	SkidThreshold           float64 `mapstructure:"skidThreshold" yaml:"skidThreshold"`
	SkidMinSpeed            float64 `mapstructure:"skidMinSpeed" yaml:"skidMinSpeed"`
	SkidIntentGate          bool    `mapstructure:"skidIntentGate" yaml:"skidIntentGate"`
	SkidYawRateThreshold    float64 `mapstructure:"skidYawRateThreshold" yaml:"skidYawRateThreshold"`
	StabilizerMaxYawRate    float64 `mapstructure:"stabilizerMaxYawRate" yaml:"stabilizerMaxYawRate"` // 0 disables the yaw check
	Downforce               float64 `mapstructure:"downforce" yaml:"downforce"`
	ClearTrailsWhenIdle     bool    `mapstructure:"clearTrailsWhenIdle" yaml:"clearTrailsWhenIdle"`

	// Body setup.
	CenterOfMass mgl64.Vec3 `mapstructure:"-" yaml:"-"`

	// Exhaust.
	ExhaustRateIdle        float64 `mapstructure:"exhaustRateIdle" yaml:"exhaustRateIdle"`
	ExhaustRateMax         float64 `mapstructure:"exhaustRateMax" yaml:"exhaustRateMax"`
	MuteExhaustOnHandbrake bool    `mapstructure:"muteExhaustOnHandbrake" yaml:"muteExhaustOnHandbrake"`
}

// Preset names.
const (
	PresetBaseline = "baseline"
	PresetIntent   = "intent"
)

// BaselineTuning is the plain model: skids flag on slide magnitude alone and the
// stabilizer only looks at steering input.
func BaselineTuning() Tuning {
	return Tuning{
		MaxSpeed:          22,
		Accel:             14,
		Brake:             20,
		DragWhenNoInput:   1.2,
		DragWhenBraking:   3.0,
		ThrottleResponse:  4,
		ReverseGuardSpeed: 1,
		ScaleForceByDelta: false,

		SteerAtZero:     120,
		SteerAtMax:      40,
		SteerResponse:   8,
		InputDeadzone:   0.08,
		NoSteerDeadzone: 0.05,

		LateralFriction:         8,
		HandbrakeGripMultiplier: 0.35,
		SkidThreshold:           3,
		SkidMinSpeed:            5,
		Downforce:               20,

		CenterOfMass: mgl64.Vec3{0, -0.5, 0},

		ExhaustRateIdle:        0,
		ExhaustRateMax:         40,
		MuteExhaustOnHandbrake: true,
	}
}

// IntentTuning loosens handbrake grip and only reports skids the driver caused.
// The stabilizer also waits for the yaw rate to settle before snapping straight.
func IntentTuning() Tuning {
	t := BaselineTuning()
	t.HandbrakeGripMultiplier = 0.2
	t.SkidIntentGate = true
	t.SkidYawRateThreshold = 30
	t.StabilizerMaxYawRate = 5
	t.ClearTrailsWhenIdle = true
	return t
}

var presets = map[string]func() Tuning{
	PresetBaseline: BaselineTuning,
	PresetIntent:   IntentTuning,
}

// Preset returns the named tuning preset.
func Preset(name string) (Tuning, error) {
	fn, ok := presets[name]
	if !ok {
		return Tuning{}, fmt.Errorf("%w %q (have %v)", ErrUnknownPreset, name, PresetNames())
	}
	return fn(), nil
}

// PresetNames lists the registered presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NextPreset returns the preset after name in PresetNames order, wrapping
// around. An unknown name starts over at the first preset.
func NextPreset(name string) (string, Tuning, error) {
	names := PresetNames()
	next := names[0]
	for i, n := range names {
		if n == name {
			next = names[(i+1)%len(names)]
			break
		}
	}
	t, err := Preset(next)
	if err != nil {
		return "", Tuning{}, err
	}
	return next, t, nil
}

// Validate reports the first parameter outside its usable range.
func (t Tuning) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"maxSpeed", t.MaxSpeed},
		{"throttleResponse", t.ThrottleResponse},
		{"steerResponse", t.SteerResponse},
	}
	for _, p := range positive {
		if !(p.v > 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidTuning, p.name, p.v)
		}
	}

	nonNegative := []struct {
		name string
		v    float64
	}{
		{"accel", t.Accel},
		{"brake", t.Brake},
		{"dragWhenNoInput", t.DragWhenNoInput},
		{"dragWhenBraking", t.DragWhenBraking},
		{"reverseGuardSpeed", t.ReverseGuardSpeed},
		{"steerAtZero", t.SteerAtZero},
		{"steerAtMax", t.SteerAtMax},
		{"lateralFriction", t.LateralFriction},
		{"skidThreshold", t.SkidThreshold},
		{"skidMinSpeed", t.SkidMinSpeed},
		{"skidYawRateThreshold", t.SkidYawRateThreshold},
		{"stabilizerMaxYawRate", t.StabilizerMaxYawRate},
		{"downforce", t.Downforce},
		{"exhaustRateIdle", t.ExhaustRateIdle},
		{"exhaustRateMax", t.ExhaustRateMax},
	}
	for _, p := range nonNegative {
		if p.v < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidTuning, p.name, p.v)
		}
	}

	unit := []struct {
		name string
		v    float64
	}{
		{"handbrakeGripMultiplier", t.HandbrakeGripMultiplier},
		{"inputDeadzone", t.InputDeadzone},
		{"noSteerDeadzone", t.NoSteerDeadzone},
	}
	for _, p := range unit {
		if p.v < 0 || p.v > 1 {
			return fmt.Errorf("%w: %s must be within [0,1], got %v", ErrInvalidTuning, p.name, p.v)
		}
	}
	return nil
}
