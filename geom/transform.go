package geom

import "github.com/go-gl/mathgl/mgl64"

// Transform is a rigid pose: a position and a unit orientation.
// The zero value is not a valid transform, use Identity or NewTransform.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Identity creates an identity transform
func Identity() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
	}
}

// NewTransform creates a transform, normalizing the rotation
func NewTransform(position mgl64.Vec3, rotation mgl64.Quat) Transform {
	return Transform{
		Position: position,
		Rotation: NormalizeQuat(rotation),
	}
}

// Translation creates a transform that only moves points by offset
func Translation(offset mgl64.Vec3) Transform {
	return Transform{Position: offset, Rotation: mgl64.QuatIdent()}
}

// PointPlaceIn maps a point from the local space of t into the parent space.
func (t Transform) PointPlaceIn(point mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(t.Rotation.Rotate(point))
}

// PointRelativeTo maps a point from the parent space into the local space of t.
func (t Transform) PointRelativeTo(point mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Conjugate().Rotate(point.Sub(t.Position))
}

func (t Transform) DirectionPlaceIn(direction mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(direction)
}

func (t Transform) DirectionRelativeTo(direction mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Conjugate().Rotate(direction)
}

// PlaceIn expresses t, defined in the local space of parent, in the parent's space.
// It is the composition parent ∘ t.
func (t Transform) PlaceIn(parent Transform) Transform {
	return Transform{
		Position: parent.PointPlaceIn(t.Position),
		Rotation: NormalizeQuat(parent.Rotation.Mul(t.Rotation)),
	}
}

// RelativeTo expresses t, defined in the parent space, in the local space of frame.
func (t Transform) RelativeTo(frame Transform) Transform {
	return t.PlaceIn(frame.Inverse())
}

// Inverse returns the transform undoing t
func (t Transform) Inverse() Transform {
	inverseRotation := t.Rotation.Conjugate()
	return Transform{
		Position: inverseRotation.Rotate(t.Position).Mul(-1),
		Rotation: inverseRotation,
	}
}

// Matrix returns the rotation part of t as a 3x3 matrix
func (t Transform) Matrix() mgl64.Mat3 {
	return t.Rotation.Mat4().Mat3()
}

// ApproxEqual compares positions and orientations within an absolute threshold.
// q and -q encode the same orientation.
func (t Transform) ApproxEqual(other Transform, threshold float64) bool {
	if t.Position.Sub(other.Position).Len() > threshold {
		return false
	}
	if quatDistance(t.Rotation, other.Rotation) <= threshold {
		return true
	}
	return quatDistance(t.Rotation.Scale(-1), other.Rotation) <= threshold
}

func quatDistance(q1, q2 mgl64.Quat) float64 {
	return q1.Sub(q2).Len()
}
