package solver

import (
	"math"

	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/contact"
	"github.com/akmonengine/impulse/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// ContactGroup holds the contacts between two bodies, given by their index in the solved slice
type ContactGroup struct {
	Body1    int
	Body2    int
	Contacts []contact.Contact
}

// contactEquations builds, for every contact point, one non-penetration equation
// that can only push the bodies apart and two friction equations along the
// contact plane. All non-penetration rows come first so that friction is solved
// against the normal impulses of the whole manifold.
func (s step) contactEquations(body1, body2 *actor.Body, contacts []contact.Contact) []Equation {
	bounciness := actor.CombineBounciness(body1.Material.Bounciness, body2.Material.Bounciness)
	friction := actor.CombineFriction(body1.Material.Friction, body2.Material.Friction)

	// Coulomb bound, approximated with the weight the pair exerts on the contact
	var reducedMass float64
	if invMassSum := body1.InvMass() + body2.InvMass(); invMassSum > 0 {
		reducedMass = 1.0 / invMassSum
	}
	maxFriction := friction * s.gravity.Len() * reducedMass

	equations := make([]Equation, 0, 3*len(contacts))

	// ========== NORMAL ==========
	for _, c := range contacts {
		ri, rj := s.arms(body1, body2, c)
		normal := jacobian{
			vB: c.Normal,
			wA: ri.Cross(c.Normal).Mul(-1),
			wB: rj.Cross(c.Normal),
		}
		gw := (1+bounciness)*(body2.Velocity.Dot(c.Normal)-body1.Velocity.Dot(c.Normal)) +
			normal.wA.Dot(body1.AngularVelocity) +
			normal.wB.Dot(body2.AngularVelocity)
		equations = append(equations, s.newEquation(body1, body2, normal, c.Separation(), gw, 0, math.Inf(1)))
	}

	// ========== FRICTION ==========
	if maxFriction <= 0 {
		return equations
	}
	for _, c := range contacts {
		ri, rj := s.arms(body1, body2, c)
		tangent1, tangent2 := geom.TangentBasis(c.Normal)
		for _, tangent := range [2]mgl64.Vec3{tangent1, tangent2} {
			j := jacobian{
				vB: tangent,
				wA: ri.Cross(tangent).Mul(-1),
				wB: rj.Cross(tangent),
			}
			equations = append(equations, s.newEquation(body1, body2, j, 0, j.velocity(body1, body2), -maxFriction, maxFriction))
		}
	}

	return equations
}

// arms are the contact points relative to each center of mass
func (s step) arms(body1, body2 *actor.Body, c contact.Contact) (mgl64.Vec3, mgl64.Vec3) {
	return c.PointOnBody1.Sub(body1.Transform().Position), c.PointOnBody2.Sub(body2.Transform().Position)
}
