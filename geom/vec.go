package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the length below which a vector is treated as zero
const Epsilon = 1e-12

// DefaultAxis is returned when a zero-length vector is normalized
var DefaultAxis = mgl64.Vec3{0, 0, 1}

// Direction normalizes v, falling back to DefaultAxis for degenerate input.
func Direction(v mgl64.Vec3) mgl64.Vec3 {
	return DirectionOr(v, DefaultAxis)
}

// DirectionOr normalizes v, falling back to fallback for degenerate input.
func DirectionOr(v, fallback mgl64.Vec3) mgl64.Vec3 {
	length := v.Len()
	if length < Epsilon || math.IsNaN(length) || math.IsInf(length, 0) {
		return fallback
	}
	return v.Mul(1.0 / length)
}

// NormalizeQuat renormalizes q, returning the identity for a zero quaternion
func NormalizeQuat(q mgl64.Quat) mgl64.Quat {
	length := q.Len()
	if length < Epsilon {
		return mgl64.QuatIdent()
	}
	return q.Scale(1.0 / length)
}

// TangentBasis returns two unit vectors perpendicular to normal and to each other.
func TangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	normal = Direction(normal)

	var tangent1 mgl64.Vec3
	if math.Abs(normal.X()) > 0.9 {
		tangent1 = mgl64.Vec3{0, 1, 0}
	} else {
		tangent1 = mgl64.Vec3{1, 0, 0}
	}

	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()

	return tangent1, tangent2
}

// Centroid calculates the average of a set of points
func Centroid(points []mgl64.Vec3) mgl64.Vec3 {
	if len(points) == 0 {
		return mgl64.Vec3{0, 0, 0}
	}

	sum := mgl64.Vec3{0, 0, 0}
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1.0 / float64(len(points)))
}

// Parallel reports whether a and b are parallel or anti-parallel unit vectors
func Parallel(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a.Dot(b)) > 1.0-tolerance
}
