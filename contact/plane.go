package contact

import "github.com/akmonengine/impulse/shape"

// planeSphere: the sphere collides when its center is closer to the plane than its radius
func planeSphere(plane shape.Plane, sphere shape.Sphere) []Contact {
	distance := plane.SignedDistance(sphere.Position)
	if distance > sphere.Radius {
		return nil
	}

	return []Contact{{
		Normal:       plane.Normal,
		PointOnBody1: plane.Project(sphere.Position),
		PointOnBody2: sphere.Position.Sub(plane.Normal.Mul(sphere.Radius)),
	}}
}

// planeConvex produces one contact per hull vertex below the plane
func planeConvex(plane shape.Plane, convex shape.Convex) []Contact {
	var contacts []Contact
	for _, vertex := range convex.Vertices {
		distance := plane.SignedDistance(vertex)
		if distance > 0 {
			continue
		}
		contacts = append(contacts, Contact{
			Normal:       plane.Normal,
			PointOnBody1: vertex.Sub(plane.Normal.Mul(distance)),
			PointOnBody2: vertex,
		})
	}
	return contacts
}

func planeParticle(plane shape.Plane, particle shape.Particle) []Contact {
	distance := plane.SignedDistance(particle.Position)
	if distance > 0 {
		return nil
	}

	return []Contact{{
		Normal:       plane.Normal,
		PointOnBody1: particle.Position.Sub(plane.Normal.Mul(distance)),
		PointOnBody2: particle.Position,
	}}
}
