package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoundingSphere is a sphere containing a body, used for broad phase rejection.
// An infinite Radius stands for unbounded geometry such as planes.
type BoundingSphere struct {
	Center mgl64.Vec3
	Radius float64
}

// ContainsPoint checks if a point is inside the sphere
func (s BoundingSphere) ContainsPoint(point mgl64.Vec3) bool {
	if math.IsInf(s.Radius, 1) {
		return true
	}
	return point.Sub(s.Center).LenSqr() <= s.Radius*s.Radius
}

// Overlaps checks if two bounding spheres overlap
func (s BoundingSphere) Overlaps(other BoundingSphere) bool {
	radii := s.Radius + other.Radius
	if math.IsInf(radii, 1) {
		return true
	}
	return other.Center.Sub(s.Center).LenSqr() <= radii*radii
}
