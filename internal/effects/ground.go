package effects

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var worldUp = mgl64.Vec3{0, 1, 0}

type Hit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// Ground answers ray queries against the driving surface.
type Ground interface {
	Raycast(origin, dir mgl64.Vec3, maxDist float64) (Hit, bool)
}

// Plane is an infinite flat surface through Point.
type Plane struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

func FlatGround(height float64) Plane {
	return Plane{Point: mgl64.Vec3{0, height, 0}, Normal: worldUp}
}

func (p Plane) Raycast(origin, dir mgl64.Vec3, maxDist float64) (Hit, bool) {
	n := p.Normal.Normalize()
	dir = dir.Normalize()
	denom := dir.Dot(n)
	if math.Abs(denom) < 1e-9 {
		return Hit{}, false
	}
	dist := p.Point.Sub(origin).Dot(n) / denom
	if dist < 0 || dist > maxDist {
		return Hit{}, false
	}
	return Hit{Point: origin.Add(dir.Mul(dist)), Normal: n, Distance: dist}, true
}

// GroundAligner keeps a decal anchor glued to the ground just below it. The
// anchor faces along the surface normal with its up axis toward UpRef.
type GroundAligner struct {
	Ground      Ground
	RayDistance float64
	YOffset     float64
	ProbeHeight float64

	Position mgl64.Vec3
	Rotation mgl64.Quat
	Normal   mgl64.Vec3
}

func NewGroundAligner(g Ground) *GroundAligner {
	return &GroundAligner{
		Ground:      g,
		RayDistance: 1.0,
		YOffset:     0.005,
		ProbeHeight: 0.2,
		Rotation:    mgl64.QuatIdent(),
		Normal:      worldUp,
	}
}

// Align probes straight down from pos. On a hit it snaps to the surface, offset
// by YOffset along the normal, and orients toward upRef (world forward if nil).
// On a miss the anchor just follows pos.
func (a *GroundAligner) Align(pos mgl64.Vec3, upRef *mgl64.Vec3) bool {
	a.Position = pos
	if a.Ground == nil {
		return false
	}
	origin := pos.Add(worldUp.Mul(a.ProbeHeight))
	hit, ok := a.Ground.Raycast(origin, worldUp.Mul(-1), a.RayDistance)
	if !ok {
		return false
	}
	a.Position = hit.Point.Add(hit.Normal.Mul(a.YOffset))
	a.Normal = hit.Normal

	up := mgl64.Vec3{0, 0, 1}
	if upRef != nil {
		up = *upRef
	}
	a.Rotation = lookRotation(hit.Normal, up)
	return true
}

// lookRotation builds the orientation whose +Z points along forward and whose +Y
// leans toward up.
func lookRotation(forward, up mgl64.Vec3) mgl64.Quat {
	z := forward.Normalize()
	x := up.Cross(z)
	if x.Len() < 1e-9 {
		x = mgl64.Vec3{1, 0, 0}.Cross(z)
		if x.Len() < 1e-9 {
			x = mgl64.Vec3{0, 1, 0}.Cross(z)
		}
	}
	x = x.Normalize()
	y := z.Cross(x)
	return mgl64.Mat4ToQuat(mgl64.Mat3FromCols(x, y, z).Mat4()).Normalize()
}
