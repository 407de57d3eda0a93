package shape

import (
	"errors"
	"fmt"

	"github.com/akmonengine/impulse/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidMesh is returned by ConvexFromMesh for malformed face lists
var ErrInvalidMesh = errors.New("invalid convex mesh")

// parallelTolerance decides when two unit directions are considered the same axis
const parallelTolerance = 1e-6

// Face is a planar convex polygon of a hull.
// Vertices are ordered counter-clockwise when seen from outside, along Normal.
type Face struct {
	Vertices []mgl64.Vec3
	Normal   mgl64.Vec3
}

// Convex represents a convex polyhedron.
// UniqueEdges and UniqueNormals hold edge directions and face normals deduplicated
// up to sign; they are the candidate separating axes of SAT.
type Convex struct {
	Vertices      []mgl64.Vec3
	Faces         []Face
	UniqueEdges   []mgl64.Vec3
	UniqueNormals []mgl64.Vec3
	Position      mgl64.Vec3

	volume  float64
	inertia mgl64.Mat3
	radius  float64
}

func (c Convex) Kind() Kind { return KindConvex }
func (c Convex) Center() mgl64.Vec3 { return c.Position }
func (c Convex) Volume() float64 { return c.volume }
func (c Convex) Inertia() mgl64.Mat3 { return c.inertia }
func (c Convex) BoundingRadius() float64 { return c.radius }
func (c Convex) sealed() {}

// PlaceIn transforms the whole hull, its faces, axes and inertia.
func (c Convex) PlaceIn(t geom.Transform) Shape {
	placed := Convex{
		Vertices:      make([]mgl64.Vec3, len(c.Vertices)),
		Faces:         make([]Face, len(c.Faces)),
		UniqueEdges:   make([]mgl64.Vec3, len(c.UniqueEdges)),
		UniqueNormals: make([]mgl64.Vec3, len(c.UniqueNormals)),
		Position:      t.PointPlaceIn(c.Position),
		volume:        c.volume,
		inertia:       geom.RotateInertia(c.inertia, t.Rotation),
		radius:        c.radius,
	}

	for i, v := range c.Vertices {
		placed.Vertices[i] = t.PointPlaceIn(v)
	}
	for i, face := range c.Faces {
		vertices := make([]mgl64.Vec3, len(face.Vertices))
		for j, v := range face.Vertices {
			vertices[j] = t.PointPlaceIn(v)
		}
		placed.Faces[i] = Face{Vertices: vertices, Normal: t.DirectionPlaceIn(face.Normal)}
	}
	for i, e := range c.UniqueEdges {
		placed.UniqueEdges[i] = t.DirectionPlaceIn(e)
	}
	for i, n := range c.UniqueNormals {
		placed.UniqueNormals[i] = t.DirectionPlaceIn(n)
	}

	return placed
}

// Support returns the hull vertex furthest along direction
func (c Convex) Support(direction mgl64.Vec3) mgl64.Vec3 {
	best := c.Vertices[0]
	bestDot := best.Dot(direction)
	for _, v := range c.Vertices[1:] {
		if d := v.Dot(direction); d > bestDot {
			best, bestDot = v, d
		}
	}
	return best
}

// Project returns the interval covered by the hull along axis
func (c Convex) Project(axis mgl64.Vec3) (float64, float64) {
	lo := c.Vertices[0].Dot(axis)
	hi := lo
	for _, v := range c.Vertices[1:] {
		d := v.Dot(axis)
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	return lo, hi
}

// Block creates a box of the given full dimensions centered on the origin
func Block(sizeX, sizeY, sizeZ float64) Convex {
	hx, hy, hz := sizeX/2, sizeY/2, sizeZ/2

	vertices := []mgl64.Vec3{
		{-hx, -hy, -hz},
		{+hx, -hy, -hz},
		{+hx, +hy, -hz},
		{-hx, +hy, -hz},
		{-hx, -hy, +hz},
		{+hx, -hy, +hz},
		{+hx, +hy, +hz},
		{-hx, +hy, +hz},
	}
	faces := [][]int{
		{3, 2, 1, 0}, // -Z
		{4, 5, 6, 7}, // +Z
		{5, 4, 0, 1}, // -Y
		{2, 3, 7, 6}, // +Y
		{0, 4, 7, 3}, // -X
		{1, 2, 6, 5}, // +X
	}

	convex := buildConvex(vertices, faces)

	// Formula for a box: I = (m/12) * (dimension1² + dimension2²)
	volume := sizeX * sizeY * sizeZ
	factor := volume / 12.0
	convex.volume = volume
	convex.inertia = mgl64.Diag3(mgl64.Vec3{
		factor * (sizeY*sizeY + sizeZ*sizeZ),
		factor * (sizeX*sizeX + sizeZ*sizeZ),
		factor * (sizeX*sizeX + sizeY*sizeY),
	})
	convex.Position = mgl64.Vec3{0, 0, 0}

	return convex
}

// ConvexFromMesh builds a hull from a vertex list and faces given as vertex indices.
// The mesh must describe a closed convex polyhedron; face winding is fixed up so
// every normal points outward.
func ConvexFromMesh(vertices []mgl64.Vec3, faces [][]int) (Convex, error) {
	if len(vertices) < 4 {
		return Convex{}, fmt.Errorf("%w: need at least 4 vertices, got %d", ErrInvalidMesh, len(vertices))
	}
	if len(faces) < 4 {
		return Convex{}, fmt.Errorf("%w: need at least 4 faces, got %d", ErrInvalidMesh, len(faces))
	}
	for i, face := range faces {
		if len(face) < 3 {
			return Convex{}, fmt.Errorf("%w: face %d has %d vertices", ErrInvalidMesh, i, len(face))
		}
		for _, index := range face {
			if index < 0 || index >= len(vertices) {
				return Convex{}, fmt.Errorf("%w: face %d references vertex %d out of %d", ErrInvalidMesh, i, index, len(vertices))
			}
		}
	}

	return buildConvex(vertices, faces), nil
}

func buildConvex(vertices []mgl64.Vec3, faceIndices [][]int) Convex {
	reference := geom.Centroid(vertices)

	faces := make([]Face, 0, len(faceIndices))
	for _, indices := range faceIndices {
		points := make([]mgl64.Vec3, len(indices))
		for i, index := range indices {
			points[i] = vertices[index]
		}

		normal := newellNormal(points)
		// Winding given inward: reverse it
		if normal.Dot(geom.Centroid(points).Sub(reference)) < 0 {
			for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
				points[i], points[j] = points[j], points[i]
			}
			normal = normal.Mul(-1)
		}

		faces = append(faces, Face{Vertices: points, Normal: normal})
	}

	convex := Convex{
		Vertices: append([]mgl64.Vec3(nil), vertices...),
		Faces:    faces,
	}
	convex.UniqueNormals = uniqueFaceNormals(faces)
	convex.UniqueEdges = uniqueEdges(faces)
	convex.volume, convex.Position, convex.inertia = massProperties(faces, reference)
	convex.radius = boundingRadius(convex.Vertices, convex.Position)

	return convex
}

// newellNormal computes a robust polygon normal, also for slightly non-planar faces
func newellNormal(points []mgl64.Vec3) mgl64.Vec3 {
	var normal mgl64.Vec3
	for i := range points {
		current := points[i]
		next := points[(i+1)%len(points)]
		normal[0] += (current.Y() - next.Y()) * (current.Z() + next.Z())
		normal[1] += (current.Z() - next.Z()) * (current.X() + next.X())
		normal[2] += (current.X() - next.X()) * (current.Y() + next.Y())
	}
	return geom.Direction(normal)
}

func uniqueFaceNormals(faces []Face) []mgl64.Vec3 {
	var normals []mgl64.Vec3
	for _, face := range faces {
		normals = appendUniqueAxis(normals, face.Normal)
	}
	return normals
}

func uniqueEdges(faces []Face) []mgl64.Vec3 {
	var edges []mgl64.Vec3
	for _, face := range faces {
		for i := range face.Vertices {
			edge := face.Vertices[(i+1)%len(face.Vertices)].Sub(face.Vertices[i])
			if edge.Len() < geom.Epsilon {
				continue
			}
			edges = appendUniqueAxis(edges, edge.Normalize())
		}
	}
	return edges
}

func appendUniqueAxis(axes []mgl64.Vec3, axis mgl64.Vec3) []mgl64.Vec3 {
	for _, existing := range axes {
		if geom.Parallel(existing, axis, parallelTolerance) {
			return axes
		}
	}
	return append(axes, axis)
}

// massProperties sums signed tetrahedra from reference to every fan triangle of
// every face. It returns the volume, the centroid and the unit density inertia
// about the centroid.
func massProperties(faces []Face, reference mgl64.Vec3) (float64, mgl64.Vec3, mgl64.Mat3) {
	var volume float64
	var weightedCentroid mgl64.Vec3
	var covariance mgl64.Mat3

	for _, face := range faces {
		a := face.Vertices[0]
		for i := 1; i+1 < len(face.Vertices); i++ {
			b := face.Vertices[i]
			c := face.Vertices[i+1]

			tetraVolume := a.Sub(reference).Dot(b.Sub(reference).Cross(c.Sub(reference))) / 6.0
			if tetraVolume == 0 {
				continue
			}

			points := [4]mgl64.Vec3{reference, a, b, c}
			sum := points[0].Add(points[1]).Add(points[2]).Add(points[3])

			volume += tetraVolume
			weightedCentroid = weightedCentroid.Add(sum.Mul(tetraVolume / 4.0))

			// ∫ x xᵀ dV = V/20 * (Σ pᵢ pᵢᵀ + (Σ pᵢ)(Σ pᵢ)ᵀ)
			second := sum.OuterProd3(sum)
			for _, p := range points {
				second = second.Add(p.OuterProd3(p))
			}
			covariance = covariance.Add(second.Mul(tetraVolume / 20.0))
		}
	}

	if volume <= geom.Epsilon {
		return 0, reference, mgl64.Mat3{}
	}

	centroid := weightedCentroid.Mul(1.0 / volume)
	trace := covariance.At(0, 0) + covariance.At(1, 1) + covariance.At(2, 2)
	inertiaAtOrigin := mgl64.Ident3().Mul(trace).Sub(covariance)

	return volume, centroid, geom.UnshiftInertia(inertiaAtOrigin, volume, centroid)
}

func boundingRadius(vertices []mgl64.Vec3, center mgl64.Vec3) float64 {
	var radius float64
	for _, v := range vertices {
		if d := v.Sub(center).Len(); d > radius {
			radius = d
		}
	}
	return radius
}
