package geom

import "github.com/go-gl/mathgl/mgl64"

// RotateInertia expresses an inertia tensor in a rotated frame: I' = R * I * R^T
func RotateInertia(inertia mgl64.Mat3, rotation mgl64.Quat) mgl64.Mat3 {
	r := rotation.Mat4().Mat3()
	return r.Mul3(inertia).Mul3(r.Transpose())
}

// ShiftInertia moves an inertia tensor about the center of mass to a point at
// offset from it (parallel axis theorem). mass may be a volume for unit density.
func ShiftInertia(inertia mgl64.Mat3, mass float64, offset mgl64.Vec3) mgl64.Mat3 {
	shift := mgl64.Ident3().Mul(offset.Dot(offset)).Sub(offset.OuterProd3(offset))
	return inertia.Add(shift.Mul(mass))
}

// UnshiftInertia is the inverse of ShiftInertia: it moves an inertia tensor about
// a point back to the center of mass located at offset from that point.
func UnshiftInertia(inertia mgl64.Mat3, mass float64, offset mgl64.Vec3) mgl64.Mat3 {
	shift := mgl64.Ident3().Mul(offset.Dot(offset)).Sub(offset.OuterProd3(offset))
	return inertia.Sub(shift.Mul(mass))
}

// InvertInertia inverts an inertia tensor; singular tensors invert to the zero matrix.
func InvertInertia(inertia mgl64.Mat3) mgl64.Mat3 {
	if inertia.Det() == 0 {
		return mgl64.Mat3{}
	}
	return inertia.Inv()
}
