package contact

import (
	"math"

	"github.com/akmonengine/impulse/geom"
	"github.com/akmonengine/impulse/shape"
	"github.com/go-gl/mathgl/mgl64"
)

const clipTolerance = 1e-6

// clipAgainstReference clips the incident polygon against the side planes of
// the reference face, keeping the part that lies above the reference face area.
func clipAgainstReference(incident []mgl64.Vec3, reference shape.Face) []mgl64.Vec3 {
	if len(reference.Vertices) < 3 {
		return incident
	}

	center := geom.Centroid(reference.Vertices)
	output := incident
	for i := range reference.Vertices {
		if len(output) == 0 {
			break
		}

		v1 := reference.Vertices[i]
		v2 := reference.Vertices[(i+1)%len(reference.Vertices)]

		// Side plane normal: perpendicular to the edge, pointing inward
		clipNormal := geom.Direction(v2.Sub(v1).Cross(reference.Normal))
		if center.Sub(v1).Dot(clipNormal) < 0 {
			clipNormal = clipNormal.Mul(-1)
		}

		output = clipPolygonAgainstPlane(output, v1, clipNormal)
	}

	return output
}

// clipPolygonAgainstPlane is one Sutherland-Hodgman pass, keeping the side the normal points to
func clipPolygonAgainstPlane(polygon []mgl64.Vec3, planePoint, planeNormal mgl64.Vec3) []mgl64.Vec3 {
	if len(polygon) == 0 {
		return polygon
	}

	output := make([]mgl64.Vec3, 0, len(polygon)+1)
	for i := range polygon {
		current := polygon[i]
		next := polygon[(i+1)%len(polygon)]

		currentDist := current.Sub(planePoint).Dot(planeNormal)
		nextDist := next.Sub(planePoint).Dot(planeNormal)

		if currentDist >= -clipTolerance {
			output = append(output, current)
			if nextDist < -clipTolerance {
				output = append(output, lineIntersectPlane(current, next, planePoint, planeNormal))
			}
		} else if nextDist >= -clipTolerance {
			output = append(output, lineIntersectPlane(current, next, planePoint, planeNormal))
		}
	}

	return output
}

func lineIntersectPlane(p1, p2, planePoint, planeNormal mgl64.Vec3) mgl64.Vec3 {
	dir := p2.Sub(p1)
	dist := p1.Sub(planePoint).Dot(planeNormal)
	denom := dir.Dot(planeNormal)

	if math.Abs(denom) < 1e-10 {
		return p1 // parallel
	}

	t := -dist / denom
	t = math.Max(0, math.Min(1, t))

	return p1.Add(dir.Mul(t))
}
