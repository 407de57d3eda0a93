// Package contact implements the narrow phase: exact tests between two placed
// shapes, producing contact points.
//
// Every routine takes shapes already placed in world space. A Contact normal
// points from the first shape towards the second one, PointOnBody1 lies on the
// surface of the first shape and PointOnBody2 on the surface of the second.
// For overlapping shapes the two points are swapped along the normal, the
// separation n·(PointOnBody2 - PointOnBody1) is then negative.
//
// Routines are only written for one order of each pair; Between flips the
// result for the mirrored order.
package contact

import (
	"github.com/akmonengine/impulse/shape"
	"github.com/go-gl/mathgl/mgl64"
)

type Contact struct {
	Normal       mgl64.Vec3
	PointOnBody1 mgl64.Vec3
	PointOnBody2 mgl64.Vec3
}

// Separation is the signed distance between both points along the normal,
// negative while penetrating.
func (c Contact) Separation() float64 {
	return c.Normal.Dot(c.PointOnBody2.Sub(c.PointOnBody1))
}

// Depth is the penetration depth, zero when the shapes only touch or are apart
func (c Contact) Depth() float64 {
	if s := c.Separation(); s < 0 {
		return -s
	}
	return 0
}

// Flip swaps the roles of both bodies
func (c Contact) Flip() Contact {
	return Contact{
		Normal:       c.Normal.Mul(-1),
		PointOnBody1: c.PointOnBody2,
		PointOnBody2: c.PointOnBody1,
	}
}

// Flip swaps the roles of both bodies for every contact, in place
func Flip(contacts []Contact) []Contact {
	for i := range contacts {
		contacts[i] = contacts[i].Flip()
	}
	return contacts
}

// Between dispatches on both shape variants and returns the contacts of the pair,
// nil when they are apart. Plane-plane and particle-particle pairs never collide.
func Between(shape1, shape2 shape.Shape) []Contact {
	switch s1 := shape1.(type) {
	case shape.Plane:
		switch s2 := shape2.(type) {
		case shape.Plane:
			return nil
		case shape.Sphere:
			return planeSphere(s1, s2)
		case shape.Convex:
			return planeConvex(s1, s2)
		case shape.Particle:
			return planeParticle(s1, s2)
		}

	case shape.Sphere:
		switch s2 := shape2.(type) {
		case shape.Plane:
			return Flip(planeSphere(s2, s1))
		case shape.Sphere:
			return sphereSphere(s1, s2)
		case shape.Convex:
			return sphereConvex(s1, s2)
		case shape.Particle:
			return Flip(particleSphere(s2, s1))
		}

	case shape.Convex:
		switch s2 := shape2.(type) {
		case shape.Plane:
			return Flip(planeConvex(s2, s1))
		case shape.Sphere:
			return Flip(sphereConvex(s2, s1))
		case shape.Convex:
			return convexConvex(s1, s2)
		case shape.Particle:
			return Flip(particleConvex(s2, s1))
		}

	case shape.Particle:
		switch s2 := shape2.(type) {
		case shape.Plane:
			return Flip(planeParticle(s2, s1))
		case shape.Sphere:
			return particleSphere(s1, s2)
		case shape.Convex:
			return particleConvex(s1, s2)
		case shape.Particle:
			return nil
		}
	}

	return nil
}
