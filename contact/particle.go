package contact

import (
	"math"

	"github.com/akmonengine/impulse/geom"
	"github.com/akmonengine/impulse/shape"
)

func particleSphere(particle shape.Particle, sphere shape.Sphere) []Contact {
	delta := sphere.Position.Sub(particle.Position)
	if delta.LenSqr() > sphere.Radius*sphere.Radius {
		return nil
	}

	normal := geom.Direction(delta)
	return []Contact{{
		Normal:       normal,
		PointOnBody1: particle.Position,
		PointOnBody2: sphere.Position.Sub(normal.Mul(sphere.Radius)),
	}}
}

// particleConvex: a particle inside the hull is pushed out through the closest face
func particleConvex(particle shape.Particle, convex shape.Convex) []Contact {
	shallowest := math.Inf(-1)
	var shallowestFace shape.Face

	for _, face := range convex.Faces {
		distance := face.Normal.Dot(particle.Position.Sub(face.Vertices[0]))
		if distance > 0 {
			return nil
		}
		if distance > shallowest {
			shallowest = distance
			shallowestFace = face
		}
	}
	if len(convex.Faces) == 0 {
		return nil
	}

	return []Contact{{
		Normal:       shallowestFace.Normal.Mul(-1),
		PointOnBody1: particle.Position,
		PointOnBody2: particle.Position.Sub(shallowestFace.Normal.Mul(shallowest)),
	}}
}
