// Package scenario loads scripted drives used for headless runs.
package scenario

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"remake/internal/body"
	"remake/internal/input"
	"remake/internal/vehicle"
)

var ErrInvalidScenario = errors.New("invalid scenario")

type Scenario struct {
	Name      string         `yaml:"name"`
	FrameRate int            `yaml:"frameRate"`
	Duration  float64        `yaml:"duration"`
	Preset    string         `yaml:"preset"`
	Tuning    map[string]any `yaml:"tuning"`
	Start     Pose           `yaml:"start"`
	Segments  []Segment      `yaml:"segments"`
}

type Pose struct {
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
	Z   float64 `yaml:"z"`
	Yaw float64 `yaml:"yaw"`
}

type Segment struct {
	At         float64 `yaml:"at"`
	Vertical   float64 `yaml:"vertical"`
	Horizontal float64 `yaml:"horizontal"`
	Handbrake  bool    `yaml:"handbrake"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scenario, fills defaults and validates it. An empty preset is
// left empty so the run falls back to the configured one.
func Parse(data []byte) (*Scenario, error) {
	s := &Scenario{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if s.FrameRate == 0 {
		s.FrameRate = 60
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scenario) Validate() error {
	if s.FrameRate <= 0 {
		return fmt.Errorf("%w: frameRate must be positive, got %d", ErrInvalidScenario, s.FrameRate)
	}
	if !(s.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidScenario, s.Duration)
	}
	if s.Preset != "" {
		if _, err := vehicle.Preset(s.Preset); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
		}
	}
	last := math.Inf(-1)
	for i, seg := range s.Segments {
		switch {
		case seg.At < 0:
			return fmt.Errorf("%w: segment %d starts before zero", ErrInvalidScenario, i)
		case seg.At < last:
			return fmt.Errorf("%w: segment %d at %v is before segment %d", ErrInvalidScenario, i, seg.At, i-1)
		case math.Abs(seg.Vertical) > 1 || math.Abs(seg.Horizontal) > 1:
			return fmt.Errorf("%w: segment %d axis outside [-1,1]", ErrInvalidScenario, i)
		}
		last = seg.At
	}
	return nil
}

// Script turns the segments into an input source.
func (s *Scenario) Script() *input.Script {
	segs := make([]input.Segment, len(s.Segments))
	for i, seg := range s.Segments {
		segs[i] = input.Segment{
			At: seg.At,
			Input: vehicle.ControlInput{
				Vertical:   seg.Vertical,
				Horizontal: seg.Horizontal,
				Handbrake:  seg.Handbrake,
			},
		}
	}
	return input.NewScript(segs)
}

// FrameDelta is the seconds per rendered frame.
func (s *Scenario) FrameDelta() float64 { return 1 / float64(s.FrameRate) }

// Place puts the body at the start pose, at rest.
func (p Pose) Place(rb *body.RigidBody) {
	rb.State = body.NewState().Yaw(p.Yaw)
	rb.Position = mgl64.Vec3{p.X, p.Y, p.Z}
}
