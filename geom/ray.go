package geom

import "github.com/go-gl/mathgl/mgl64"

// Ray is a half-line starting at Origin. NewRay normalizes Direction; raycasts
// normalize rays built as literals.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

func NewRay(origin, direction mgl64.Vec3) Ray {
	return Ray{Origin: origin, Direction: Direction(direction)}
}

// At returns the point at distance along the ray
func (r Ray) At(distance float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(distance))
}

// RelativeTo expresses the ray in the local space of t
func (r Ray) RelativeTo(t Transform) Ray {
	return Ray{
		Origin:    t.PointRelativeTo(r.Origin),
		Direction: t.DirectionRelativeTo(r.Direction),
	}
}
