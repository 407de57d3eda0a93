package shape

import (
	"math"

	"github.com/akmonengine/impulse/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// insideTolerance accepts points sitting on a polygon edge
const insideTolerance = 1e-9

// Intersection is where a ray enters a shape
type Intersection struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// Raycast intersects a ray with a shape, both in the same space.
// Rays starting inside a shape, parallel to a surface or facing away from it do not hit.
// The ray direction does not need to be normalized, distances are along the unit direction.
func Raycast(ray geom.Ray, s Shape) (Intersection, bool) {
	ray.Direction = geom.Direction(ray.Direction)
	switch s := s.(type) {
	case Plane:
		return raycastPlane(ray, s)
	case Sphere:
		return raycastSphere(ray, s)
	case Convex:
		return raycastConvex(ray, s)
	case Particle:
		return Intersection{}, false
	}
	return Intersection{}, false
}

func raycastPlane(ray geom.Ray, plane Plane) (Intersection, bool) {
	denominator := plane.Normal.Dot(ray.Direction)
	if denominator >= 0 {
		return Intersection{}, false
	}

	distance := plane.Normal.Dot(plane.Position.Sub(ray.Origin)) / denominator
	if distance < 0 {
		return Intersection{}, false
	}

	return Intersection{
		Point:    ray.At(distance),
		Normal:   plane.Normal,
		Distance: distance,
	}, true
}

func raycastSphere(ray geom.Ray, sphere Sphere) (Intersection, bool) {
	toOrigin := ray.Origin.Sub(sphere.Position)
	b := toOrigin.Dot(ray.Direction)
	c := toOrigin.Dot(toOrigin) - sphere.Radius*sphere.Radius

	discriminant := b*b - c
	if discriminant < 0 {
		return Intersection{}, false
	}

	distance := -b - math.Sqrt(discriminant)
	if distance < 0 {
		return Intersection{}, false
	}

	point := ray.At(distance)
	return Intersection{
		Point:    point,
		Normal:   geom.Direction(point.Sub(sphere.Position)),
		Distance: distance,
	}, true
}

func raycastConvex(ray geom.Ray, convex Convex) (Intersection, bool) {
	var best Intersection
	found := false

	for _, face := range convex.Faces {
		denominator := face.Normal.Dot(ray.Direction)
		if denominator >= 0 {
			continue
		}

		distance := face.Normal.Dot(face.Vertices[0].Sub(ray.Origin)) / denominator
		if distance < 0 || (found && distance >= best.Distance) {
			continue
		}

		point := ray.At(distance)
		if !InsideFace(face, point) {
			continue
		}

		best = Intersection{Point: point, Normal: face.Normal, Distance: distance}
		found = true
	}

	return best, found
}

// InsideFace checks whether a point lying in the plane of face is within its polygon
func InsideFace(face Face, point mgl64.Vec3) bool {
	for i := range face.Vertices {
		a := face.Vertices[i]
		b := face.Vertices[(i+1)%len(face.Vertices)]
		if b.Sub(a).Cross(point.Sub(a)).Dot(face.Normal) < -insideTolerance {
			return false
		}
	}
	return true
}
