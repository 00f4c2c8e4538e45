package effects

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Exhaust emits smoke at a rate set each frame from the throttle mapping.
// Anchor is the tailpipe offset in body space.
type Exhaust struct {
	Particles *ParticleSystem
	Anchor    mgl64.Vec3
	Speed     float64 // ejection speed out of the pipe

	rate float64
	acc  float64
}

func NewExhaust(ps *ParticleSystem, anchor mgl64.Vec3) *Exhaust {
	return &Exhaust{Particles: ps, Anchor: anchor, Speed: 1.5}
}

// SetRate changes the emission rate in particles per second.
func (e *Exhaust) SetRate(rate float64) {
	if rate < 0 {
		rate = 0
	}
	e.rate = rate
}

func (e *Exhaust) Rate() float64 { return e.rate }

// Update spawns the particles owed for dt at the tailpipe and advances the pool.
// It returns how many were spawned.
func (e *Exhaust) Update(pos mgl64.Vec3, rot mgl64.Quat, dt float64) int {
	if e.Particles == nil || dt <= 0 {
		return 0
	}
	e.acc += e.rate * dt
	n := int(e.acc)
	e.acc -= float64(n)

	origin := pos.Add(rot.Rotate(e.Anchor))
	back := rot.Rotate(mgl64.Vec3{0, 0, -1})
	r := e.Particles.rng
	for range n {
		jitter := mgl64.Vec3{r.RangeF(-0.2, 0.2), r.RangeF(0, 0.25), r.RangeF(-0.2, 0.2)}
		e.Particles.Add(Particle{
			Pos:     origin,
			Vel:     back.Mul(e.Speed).Add(jitter),
			Size:    0.15,
			MaxLife: r.RangeF(smokeLifeMin, smokeLifeMax),
		})
	}
	e.Particles.Update(dt)
	return n
}
