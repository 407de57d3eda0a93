package contact

import (
	"math"

	"github.com/akmonengine/impulse/geom"
	"github.com/akmonengine/impulse/shape"
	"github.com/go-gl/mathgl/mgl64"
)

func sphereSphere(sphere1, sphere2 shape.Sphere) []Contact {
	delta := sphere2.Position.Sub(sphere1.Position)
	radii := sphere1.Radius + sphere2.Radius
	if delta.LenSqr() > radii*radii {
		return nil
	}

	normal := geom.Direction(delta)
	return []Contact{{
		Normal:       normal,
		PointOnBody1: sphere1.Position.Add(normal.Mul(sphere1.Radius)),
		PointOnBody2: sphere2.Position.Sub(normal.Mul(sphere2.Radius)),
	}}
}

// sphereConvex finds the point of the hull surface closest to the sphere center:
// a face interior, an edge or a vertex. A center inside the hull is pushed out
// through the face it is closest to.
func sphereConvex(sphere shape.Sphere, convex shape.Convex) []Contact {
	center := sphere.Position

	inside := true
	shallowest := math.Inf(-1)
	var shallowestFace shape.Face

	var closest mgl64.Vec3
	closestDistanceSqr := math.Inf(1)

	for _, face := range convex.Faces {
		distance := face.Normal.Dot(center.Sub(face.Vertices[0]))
		if distance > sphere.Radius {
			// This face plane separates the sphere from the hull
			return nil
		}
		if distance > 0 {
			inside = false
			projected := center.Sub(face.Normal.Mul(distance))
			if shape.InsideFace(face, projected) && distance*distance < closestDistanceSqr {
				closest = projected
				closestDistanceSqr = distance * distance
			}
		}
		if distance > shallowest {
			shallowest = distance
			shallowestFace = face
		}
	}

	if inside {
		normal := shallowestFace.Normal.Mul(-1)
		return []Contact{{
			Normal:       normal,
			PointOnBody1: center.Add(normal.Mul(sphere.Radius)),
			PointOnBody2: center.Add(normal.Mul(shallowest)),
		}}
	}

	// A face interior projection of an outside point is the closest hull point;
	// otherwise the closest point is on an edge or a vertex.
	if math.IsInf(closestDistanceSqr, 1) {
		for _, face := range convex.Faces {
			for i := range face.Vertices {
				a := face.Vertices[i]
				b := face.Vertices[(i+1)%len(face.Vertices)]
				point := closestPointOnSegment(a, b, center)
				if d := point.Sub(center).LenSqr(); d < closestDistanceSqr {
					closest = point
					closestDistanceSqr = d
				}
			}
		}
	}

	if closestDistanceSqr > sphere.Radius*sphere.Radius {
		return nil
	}

	normal := geom.DirectionOr(closest.Sub(center), shallowestFace.Normal.Mul(-1))
	return []Contact{{
		Normal:       normal,
		PointOnBody1: center.Add(normal.Mul(sphere.Radius)),
		PointOnBody2: closest,
	}}
}

func closestPointOnSegment(a, b, point mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	lengthSqr := ab.LenSqr()
	if lengthSqr < geom.Epsilon {
		return a
	}
	t := point.Sub(a).Dot(ab) / lengthSqr
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Mul(t))
}
