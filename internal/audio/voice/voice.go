// Package voice plays the engine synth through the system audio device.
// It needs cgo and a sound backend; headless code uses audio.Source fakes instead.
package voice

import (
	"sync"

	"github.com/hajimehoshi/oto/v2"

	"remake/internal/audio"
)

const bitDepth = 0 // 32-bit float (oto.FormatFloat32LE)

// Context wraps the oto output device. Only one may exist per process.
type Context struct {
	ctx   *oto.Context
	ready chan struct{}
}

func NewContext() (*Context, error) {
	ctx, ready, err := oto.NewContext(audio.SampleRate, audio.ChannelCount, bitDepth)
	if err != nil {
		return nil, err
	}
	return &Context{ctx: ctx, ready: ready}, nil
}

func (c *Context) Ready() bool {
	select {
	case <-c.ready:
		return true
	default:
		return false
	}
}

// EngineVoice is an audio.Source backed by oto. Pitch changes land on the next
// buffer the device pulls.
type EngineVoice struct {
	mu     sync.Mutex
	ctx    *Context
	player oto.Player
	volume float64

	synth *audio.Synth
}

var _ audio.Source = (*EngineVoice)(nil)

func NewEngineVoice(ctx *Context, volume float64) *EngineVoice {
	return &EngineVoice{ctx: ctx, volume: volume, synth: audio.NewSynth()}
}

func (v *EngineVoice) HasClip() bool { return v.ctx != nil && v.ctx.Ready() }

func (v *EngineVoice) IsPlaying() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.player != nil && v.player.IsPlaying()
}

func (v *EngineVoice) Play() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.ctx == nil || !v.ctx.Ready() {
		return
	}
	if v.player == nil {
		v.player = v.ctx.ctx.NewPlayer(v.synth)
		v.player.SetVolume(v.volume)
	}
	v.player.Play()
}

func (v *EngineVoice) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.player != nil {
		v.player.Pause()
	}
}

func (v *EngineVoice) SetPitch(p float64) { v.synth.SetPitch(p) }

// Close releases the player.
func (v *EngineVoice) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.player == nil {
		return nil
	}
	err := v.player.Close()
	v.player = nil
	return err
}
