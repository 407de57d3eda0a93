package actor

import "math"

const (
	DefaultFriction   = 0.3
	DefaultBounciness = 0.0
)

// Material describes how a body behaves on contact
type Material struct {
	Friction   float64 // >= 0
	Bounciness float64 // 0 = no rebound, 1 = perfect restitution
}

func DefaultMaterial() Material {
	return Material{Friction: DefaultFriction, Bounciness: DefaultBounciness}
}

// CombineFriction is the friction coefficient used between two materials.
// Geometric mean, negative inputs count as zero.
func CombineFriction(frictionA, frictionB float64) float64 {
	return math.Sqrt(math.Max(frictionA, 0) * math.Max(frictionB, 0))
}

// CombineBounciness is the restitution used between two materials: the average
// of both, each clamped to [0, 1].
func CombineBounciness(bouncinessA, bouncinessB float64) float64 {
	return (clamp01(bouncinessA) + clamp01(bouncinessB)) / 2.0
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
