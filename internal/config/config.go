// Package config layers defaults, an optional YAML file, REMAKE_ environment
// variables and command-line flags into one Config.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"remake/internal/telemetry"
	"remake/internal/vehicle"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel string `mapstructure:"logLevel"`
	LogFile  string `mapstructure:"logFile"`
	Preset   string `mapstructure:"preset"`

	Sim       SimConfig       `mapstructure:"sim"`
	Camera    CameraConfig    `mapstructure:"camera"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Exhaust   ExhaustConfig   `mapstructure:"exhaust"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// Tuning is the preset with any tuning.* overrides applied.
	Tuning vehicle.Tuning `mapstructure:"-"`
}

type SimConfig struct {
	FixedDelta      float64 `mapstructure:"fixedDelta"`
	FrameRate       int     `mapstructure:"frameRate"`
	MaxCatchupTicks int     `mapstructure:"maxCatchupTicks"`
	Ground          float64 `mapstructure:"ground"`
}

type CameraConfig struct {
	FollowSpeed   float64 `mapstructure:"followSpeed"`
	RotationSpeed float64 `mapstructure:"rotationSpeed"`
}

type EngineConfig struct {
	Enabled  bool    `mapstructure:"enabled"`
	Volume   float64 `mapstructure:"volume"`
	MinSpeed float64 `mapstructure:"minSpeed"`
	MaxSpeed float64 `mapstructure:"maxSpeed"`
	MinPitch float64 `mapstructure:"minPitch"`
	MaxPitch float64 `mapstructure:"maxPitch"`
}

type ExhaustConfig struct {
	MaxParticles int `mapstructure:"maxParticles"`
}

type TelemetryConfig struct {
	LogEvery int    `mapstructure:"logEvery"`
	DB       string `mapstructure:"db"`

	InfluxEnabled bool                   `mapstructure:"influxEnabled"`
	Influx        telemetry.InfluxConfig `mapstructure:"influx"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logFile", "")
	v.SetDefault("preset", vehicle.PresetBaseline)

	v.SetDefault("sim.fixedDelta", 0.02)
	v.SetDefault("sim.frameRate", 60)
	v.SetDefault("sim.maxCatchupTicks", 8)
	v.SetDefault("sim.ground", 0.0)

	v.SetDefault("camera.followSpeed", 5.0)
	v.SetDefault("camera.rotationSpeed", 5.0)

	v.SetDefault("engine.enabled", true)
	v.SetDefault("engine.volume", 0.35)
	v.SetDefault("engine.minSpeed", 0.5)
	v.SetDefault("engine.maxSpeed", 22.0)
	v.SetDefault("engine.minPitch", 0.8)
	v.SetDefault("engine.maxPitch", 2.2)

	v.SetDefault("exhaust.maxParticles", 512)

	v.SetDefault("telemetry.logEvery", 15)
	v.SetDefault("telemetry.db", "")
	v.SetDefault("telemetry.influxEnabled", false)
	v.SetDefault("telemetry.influx.url", "http://localhost:8086")
	v.SetDefault("telemetry.influx.token", "")
	v.SetDefault("telemetry.influx.org", "remake")
	v.SetDefault("telemetry.influx.bucket", "drives")
	v.SetDefault("telemetry.influx.backupPath", "telemetry.lp.gz")
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"log-level":  "logLevel",
	"log-file":   "logFile",
	"preset":     "preset",
	"frame-rate": "sim.frameRate",
	"db":         "telemetry.db",
	"influx":     "telemetry.influxEnabled",
	"influx-url": "telemetry.influx.url",
	"no-audio":   "engine.enabled",
}

// Flags declares the shared flags. --config names the YAML file.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "YAML config file")
	fs.String("log-level", "info", "trace, debug, info, warn or error")
	fs.String("log-file", "", "also write JSON logs to this file")
	fs.StringP("preset", "p", vehicle.PresetBaseline, fmt.Sprintf("tuning preset %v", vehicle.PresetNames()))
	fs.Int("frame-rate", 60, "frames per second")
	fs.String("db", "", "SQLite telemetry database path")
	fs.Bool("influx", false, "send telemetry to InfluxDB")
	fs.String("influx-url", "http://localhost:8086", "InfluxDB URL")
	fs.Bool("no-audio", false, "disable the engine voice")
	return fs
}

// Load reads path (may be empty) on top of the defaults and the environment.
func Load(path string) (*Config, error) {
	return LoadWithFlags(path, nil)
}

// LoadWithFlags is Load plus any flags the user actually set.
func LoadWithFlags(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("REMAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	tuning, err := vehicle.Preset(cfg.Preset)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if overrides := v.GetStringMap("tuning"); len(overrides) > 0 {
		if tuning, err = ApplyOverrides(tuning, overrides); err != nil {
			return nil, err
		}
	}
	cfg.Tuning = tuning

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if name == "no-audio" {
			off, err := fs.GetBool(name)
			if err != nil {
				return err
			}
			v.Set(key, !off)
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// ApplyOverrides decodes overrides onto t. Keys are tuning field names,
// matched case-insensitively; unknown keys are an error.
func ApplyOverrides(t vehicle.Tuning, overrides map[string]any) (vehicle.Tuning, error) {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &t,
		TagName:          "mapstructure",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return t, err
	}
	if err := dec.Decode(overrides); err != nil {
		return t, fmt.Errorf("%w: tuning: %v", ErrInvalidConfig, err)
	}
	return t, nil
}

func (c *Config) Validate() error {
	if err := c.Tuning.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch {
	case !(c.Sim.FixedDelta > 0):
		return fmt.Errorf("%w: sim.fixedDelta must be positive", ErrInvalidConfig)
	case c.Sim.FrameRate <= 0:
		return fmt.Errorf("%w: sim.frameRate must be positive", ErrInvalidConfig)
	case c.Sim.MaxCatchupTicks <= 0:
		return fmt.Errorf("%w: sim.maxCatchupTicks must be positive", ErrInvalidConfig)
	case c.Engine.MaxSpeed <= c.Engine.MinSpeed:
		return fmt.Errorf("%w: engine.maxSpeed must exceed engine.minSpeed", ErrInvalidConfig)
	case c.Exhaust.MaxParticles <= 0:
		return fmt.Errorf("%w: exhaust.maxParticles must be positive", ErrInvalidConfig)
	}
	return nil
}
