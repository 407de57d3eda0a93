package contact

import (
	"math"

	"github.com/akmonengine/impulse/geom"
	"github.com/akmonengine/impulse/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// convexConvex runs the separating axis test over both hulls' face normals and
// the cross products of their edges. When no axis separates them, the incident
// face of the second hull is clipped against the reference face of the first.
func convexConvex(convex1, convex2 shape.Convex) []Contact {
	axis, depth, ok := findSeparatingAxis(convex1, convex2)
	if !ok {
		return nil
	}

	reference := mostAlignedFace(convex1.Faces, axis)
	incident := mostAlignedFace(convex2.Faces, axis.Mul(-1))

	var contacts []Contact
	for _, point := range clipAgainstReference(incident.Vertices, reference) {
		distance := reference.Normal.Dot(point.Sub(reference.Vertices[0]))
		if distance > 0 {
			continue
		}
		contacts = append(contacts, Contact{
			Normal:       axis,
			PointOnBody1: point.Sub(reference.Normal.Mul(distance)),
			PointOnBody2: point,
		})
	}

	if len(contacts) == 0 {
		// Edge-edge or grazing case: use the deepest point of the second hull
		deepest := convex2.Support(axis.Mul(-1))
		contacts = append(contacts, Contact{
			Normal:       axis,
			PointOnBody1: deepest.Add(axis.Mul(depth)),
			PointOnBody2: deepest,
		})
	}

	return contacts
}

// findSeparatingAxis returns the axis of least penetration, oriented from the
// first hull towards the second, and false as soon as a separating axis exists.
func findSeparatingAxis(convex1, convex2 shape.Convex) (mgl64.Vec3, float64, bool) {
	bestAxis := geom.DefaultAxis
	bestDepth := math.Inf(1)

	testAxis := func(axis mgl64.Vec3) bool {
		depth, flipped, overlapping := overlapOnAxis(convex1, convex2, axis)
		if !overlapping {
			return false
		}
		if depth < bestDepth {
			bestDepth = depth
			bestAxis = axis
			if flipped {
				bestAxis = axis.Mul(-1)
			}
		}
		return true
	}

	for _, normal := range convex1.UniqueNormals {
		if !testAxis(normal) {
			return mgl64.Vec3{}, 0, false
		}
	}
	for _, normal := range convex2.UniqueNormals {
		if !testAxis(normal) {
			return mgl64.Vec3{}, 0, false
		}
	}
	for _, edge1 := range convex1.UniqueEdges {
		for _, edge2 := range convex2.UniqueEdges {
			cross := edge1.Cross(edge2)
			if cross.Len() < 1e-6 {
				continue
			}
			if !testAxis(cross.Normalize()) {
				return mgl64.Vec3{}, 0, false
			}
		}
	}

	return bestAxis, bestDepth, true
}

// overlapOnAxis projects both hulls on the axis. flipped is set when the
// second hull is pushed out along -axis.
func overlapOnAxis(convex1, convex2 shape.Convex, axis mgl64.Vec3) (depth float64, flipped bool, overlapping bool) {
	min1, max1 := convex1.Project(axis)
	min2, max2 := convex2.Project(axis)

	forward := max1 - min2
	backward := max2 - min1
	if forward < 0 || backward < 0 {
		return 0, false, false
	}

	if backward < forward {
		return backward, true, true
	}
	return forward, false, true
}

func mostAlignedFace(faces []shape.Face, direction mgl64.Vec3) shape.Face {
	best := faces[0]
	bestDot := math.Inf(-1)
	for _, face := range faces {
		if d := face.Normal.Dot(direction); d > bestDot {
			bestDot = d
			best = face
		}
	}
	return best
}
