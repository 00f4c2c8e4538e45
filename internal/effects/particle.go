package effects

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"remake/internal/mathutil"
)

const (
	smokeDrag    = 1.2 // exp(-smokeDrag*dt) horizontal decay
	smokeRise    = 0.9 // upward drift in units/s^2
	smokeLifeMin = 0.35
	smokeLifeMax = 0.9
)

type Particle struct {
	Pos     mgl64.Vec3
	Vel     mgl64.Vec3
	Size    float64
	Life    float64
	MaxLife float64
}

// ParticleSystem is a bounded pool of particles. When full, new particles
// overwrite the oldest slots in a ring.
type ParticleSystem struct {
	Max    int
	P      []Particle
	rng    *mathutil.Rand
	ovrIdx int
}

func NewParticleSystem(maxParticles int, seed uint64) *ParticleSystem {
	if maxParticles <= 0 {
		maxParticles = 256
	}
	return &ParticleSystem{
		Max: maxParticles,
		P:   make([]Particle, 0, maxParticles),
		rng: mathutil.NewRand(seed),
	}
}

func (ps *ParticleSystem) Clear() {
	ps.P = ps.P[:0]
	ps.ovrIdx = 0
}

func (ps *ParticleSystem) Add(p Particle) {
	if len(ps.P) < ps.Max {
		ps.P = append(ps.P, p)
		return
	}
	// Circular overwrite.
	if ps.ovrIdx >= ps.Max {
		ps.ovrIdx = 0
	}
	ps.P[ps.ovrIdx] = p
	ps.ovrIdx++
}

// Update ages particles, drifts them, and removes expired ones.
func (ps *ParticleSystem) Update(dt float64) {
	if dt <= 0 {
		return
	}
	decay := math.Exp(-smokeDrag * dt)
	for i := 0; i < len(ps.P); {
		p := &ps.P[i]
		p.Life += dt
		if p.Life >= p.MaxLife {
			ps.P[i] = ps.P[len(ps.P)-1]
			ps.P = ps.P[:len(ps.P)-1]
			continue
		}
		p.Vel[0] *= decay
		p.Vel[2] *= decay
		p.Vel[1] += smokeRise * dt
		p.Pos = p.Pos.Add(p.Vel.Mul(dt))
		p.Size += 0.6 * dt
		i++
	}
}

// Alive is the number of live particles.
func (ps *ParticleSystem) Alive() int { return len(ps.P) }
