package audio

import (
	"math"
	"sync/atomic"
)

const (
	SampleRate   = 44100
	ChannelCount = 2

	idleHz = 55.0 // fundamental at pitch 1
)

// Synth generates an endless stereo float32 LE engine loop. SetPitch may be
// called from another goroutine than the one reading.
type Synth struct {
	pitch atomic.Uint64 // float64 bits
	phase float64
	sub   float64
	seed  uint64
	lp    float64
}

func NewSynth() *Synth {
	s := &Synth{}
	s.SetPitch(1)
	return s
}

func (s *Synth) SetPitch(p float64) {
	if p < 0 {
		p = 0
	}
	s.pitch.Store(math.Float64bits(p))
}

func (s *Synth) Pitch() float64 { return math.Float64frombits(s.pitch.Load()) }

func (s *Synth) Read(p []byte) (int, error) {
	samples := len(p) / 8
	if samples == 0 {
		return 0, nil
	}
	hz := idleHz * s.Pitch()
	for i := range samples {
		s.phase += hz / SampleRate
		if s.phase >= 1 {
			s.phase -= 1
		}
		s.sub += hz * 0.5 / SampleRate
		if s.sub >= 1 {
			s.sub -= 1
		}
		// Saw for the firing pulses, a sub octave for body and filtered noise for rasp.
		saw := 2*s.phase - 1
		body := math.Sin(2 * math.Pi * s.sub)
		s.lp += 0.08 * (lcg(&s.seed) - s.lp)
		v := saw*0.45 + body*0.35 + s.lp*0.2
		putStereoF32(p, i, softSat(v*0.8))
	}
	return samples * 8, nil
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[i*8] = byte(v)
	buf[i*8+1] = byte(v >> 8)
	buf[i*8+2] = byte(v >> 16)
	buf[i*8+3] = byte(v >> 24)
	buf[i*8+4] = byte(v)
	buf[i*8+5] = byte(v >> 8)
	buf[i*8+6] = byte(v >> 16)
	buf[i*8+7] = byte(v >> 24)
}

// softSat applies gentle saturation instead of hard clipping.
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/(x)
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

// lcg advances an LCG seed and returns a noise sample in [-1,1].
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}
