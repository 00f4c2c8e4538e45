package audio

import "remake/internal/mathutil"

// Source is a looping engine clip.
type Source interface {
	IsPlaying() bool
	Play()
	Stop()
	SetPitch(p float64)
	HasClip() bool
}

// EngineSound maps body speed onto the pitch of an engine loop. Below MinSpeed
// the loop is silent.
type EngineSound struct {
	Source   Source
	MinSpeed float64
	MaxSpeed float64
	MinPitch float64
	MaxPitch float64

	pitch float64
}

func NewEngineSound(src Source) *EngineSound {
	return &EngineSound{
		Source:   src,
		MinSpeed: 0.5,
		MaxSpeed: 22,
		MinPitch: 0.8,
		MaxPitch: 2.2,
		pitch:    0.8,
	}
}

// Start silences a loop left playing on a car that is standing still.
func (e *EngineSound) Start(speed float64) {
	if e.Source == nil {
		return
	}
	if e.Source.IsPlaying() && speed <= e.MinSpeed {
		e.Source.Stop()
	}
}

// FixedUpdate retunes the loop for the current speed.
func (e *EngineSound) FixedUpdate(speed float64) {
	if e.Source == nil {
		return
	}
	if speed <= e.MinSpeed {
		if e.Source.IsPlaying() {
			e.Source.Stop()
		}
		e.setPitch(e.MinPitch)
		return
	}
	if !e.Source.IsPlaying() && e.Source.HasClip() {
		e.Source.Play()
	}
	t := mathutil.InverseLerp(e.MinSpeed, e.MaxSpeed, speed)
	e.setPitch(mathutil.Lerp(e.MinPitch, e.MaxPitch, t))
}

func (e *EngineSound) setPitch(p float64) {
	e.pitch = p
	e.Source.SetPitch(p)
}

// Pitch is the last pitch written to the source.
func (e *EngineSound) Pitch() float64 { return e.pitch }

// Playing reports whether the source is running.
func (e *EngineSound) Playing() bool { return e.Source != nil && e.Source.IsPlaying() }
