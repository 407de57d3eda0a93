package solver

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/constraint"
	"github.com/akmonengine/impulse/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// ConstraintGroup holds the constraints between two bodies, given by their index in the solved slice.
// Pivots and axes are expressed in the center of mass frames.
type ConstraintGroup struct {
	Body1       int
	Body2       int
	Constraints []constraint.Constraint
}

var basis = [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

func (s step) constraintEquations(body1, body2 *actor.Body, constraints []constraint.Constraint) []Equation {
	var equations []Equation
	for _, c := range constraints {
		switch c := c.(type) {
		case constraint.PointToPoint:
			equations = append(equations, s.pointToPoint(body1, body2, c.Pivot1, c.Pivot2)...)

		case constraint.Hinge:
			equations = append(equations, s.pointToPoint(body1, body2, c.Pivot1, c.Pivot2)...)
			axis1 := body1.Transform().DirectionPlaceIn(c.Axis1)
			axis2 := body2.Transform().DirectionPlaceIn(c.Axis2)
			tangent1, tangent2 := geom.TangentBasis(axis1)
			equations = append(equations,
				s.rotational(body1, body2, tangent1, axis2),
				s.rotational(body1, body2, tangent2, axis2),
			)

		case constraint.Lock:
			equations = append(equations, s.pointToPoint(body1, body2, c.Pivot1, c.Pivot2)...)
			t1, t2 := body1.Transform(), body2.Transform()
			equations = append(equations,
				s.rotational(body1, body2, t1.DirectionPlaceIn(c.X1), t2.DirectionPlaceIn(c.Y2)),
				s.rotational(body1, body2, t1.DirectionPlaceIn(c.Y1), t2.DirectionPlaceIn(c.Z2)),
				s.rotational(body1, body2, t1.DirectionPlaceIn(c.Z1), t2.DirectionPlaceIn(c.X2)),
			)

		case constraint.Distance:
			equations = append(equations, s.distance(body1, body2, c.Length))
		}
	}
	return equations
}

// pointToPoint joins two pivots with one contact-like equation per world axis
func (s step) pointToPoint(body1, body2 *actor.Body, pivot1, pivot2 mgl64.Vec3) []Equation {
	ri := body1.Transform().DirectionPlaceIn(pivot1)
	rj := body2.Transform().DirectionPlaceIn(pivot2)
	delta := body2.Transform().Position.Add(rj).Sub(body1.Transform().Position.Add(ri))

	equations := make([]Equation, 0, len(basis))
	for _, axis := range basis {
		j := jacobian{
			vB: axis,
			wA: ri.Cross(axis).Mul(-1),
			wB: rj.Cross(axis),
		}
		equations = append(equations, s.newEquation(body1, body2, j, axis.Dot(delta), j.velocity(body1, body2), unboundedMin, unboundedMax))
	}
	return equations
}

// rotational keeps the world directions axis1 of body 1 and axis2 of body 2 perpendicular
func (s step) rotational(body1, body2 *actor.Body, axis1, axis2 mgl64.Vec3) Equation {
	j := jacobian{
		wA: axis2.Cross(axis1),
		wB: axis1.Cross(axis2),
	}
	return s.newEquation(body1, body2, j, -axis1.Dot(axis2), j.velocity(body1, body2), unboundedMin, unboundedMax)
}

// distance keeps both centers of mass length apart
func (s step) distance(body1, body2 *actor.Body, length float64) Equation {
	delta := body2.Transform().Position.Sub(body1.Transform().Position)
	normal := geom.Direction(delta)
	ri := normal.Mul(length / 2)
	rj := normal.Mul(-length / 2)

	j := jacobian{
		vB: normal,
		wA: ri.Cross(normal).Mul(-1),
		wB: rj.Cross(normal),
	}
	return s.newEquation(body1, body2, j, delta.Len()-length, j.velocity(body1, body2), unboundedMin, unboundedMax)
}
