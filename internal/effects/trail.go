package effects

import (
	"github.com/go-gl/mathgl/mgl64"
)

type TrailPoint struct {
	Pos    mgl64.Vec3
	Normal mgl64.Vec3
	Age    float64
}

// Trail is a skid-mark ribbon. While emitting it drops a point every
// MinVertexDistance of travel; points expire after Lifetime seconds.
type Trail struct {
	Lifetime          float64
	MinVertexDistance float64
	MaxPoints         int

	Points   []TrailPoint
	emitting bool
}

func NewTrail() *Trail {
	return &Trail{
		Lifetime:          4,
		MinVertexDistance: 0.1,
		MaxPoints:         512,
	}
}

func (t *Trail) SetEmitting(on bool) { t.emitting = on }
func (t *Trail) Emitting() bool      { return t.emitting }

// Clear drops every point.
func (t *Trail) Clear() { t.Points = t.Points[:0] }

// Update ages the ribbon and, while emitting, extends it to pos.
func (t *Trail) Update(pos, normal mgl64.Vec3, dt float64) {
	if dt > 0 {
		kept := t.Points[:0]
		for _, p := range t.Points {
			p.Age += dt
			if t.Lifetime > 0 && p.Age >= t.Lifetime {
				continue
			}
			kept = append(kept, p)
		}
		t.Points = kept
	}

	if !t.emitting {
		return
	}
	if n := len(t.Points); n > 0 && t.Points[n-1].Pos.Sub(pos).Len() < t.MinVertexDistance {
		return
	}
	if t.MaxPoints > 0 && len(t.Points) >= t.MaxPoints {
		copy(t.Points, t.Points[1:])
		t.Points = t.Points[:len(t.Points)-1]
	}
	t.Points = append(t.Points, TrailPoint{Pos: pos, Normal: normal})
}
