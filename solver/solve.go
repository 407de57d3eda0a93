package solver

import (
	"math"

	"github.com/akmonengine/impulse/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Stats describes one Solve call
type Stats struct {
	// Iterations is the number of Gauss-Seidel passes run
	Iterations int
	// Equations is the number of rows in the system
	Equations int
	// Residual is the sum of |Δλ| over the last pass
	Residual float64
}

// equationGroup is the set of rows between one pair of bodies
type equationGroup struct {
	body1     int
	body2     int
	equations []Equation
}

// velocityAccumulator collects the velocity corrections of one body during the passes
type velocityAccumulator struct {
	linear  mgl64.Vec3
	angular mgl64.Vec3
}

// Solve builds the equations of all constraint and contact groups, runs
// projected Gauss-Seidel on them, applies the resulting velocity corrections
// and integrates every body by dt.
//
// Groups are solved in the given order, constraints before contacts; the
// result of Gauss-Seidel depends on it.
func Solve(dt float64, gravity mgl64.Vec3, bodies []*actor.Body, contacts []ContactGroup, constraints []ConstraintGroup, cfg Config) Stats {
	s := step{
		dt:      dt,
		gravity: gravity,
		spook:   newSpook(dt, cfg.Stiffness, cfg.Relaxation),
	}

	groups := make([]equationGroup, 0, len(constraints)+len(contacts))
	var stats Stats
	for _, g := range constraints {
		equations := s.constraintEquations(bodies[g.Body1], bodies[g.Body2], g.Constraints)
		groups = append(groups, equationGroup{body1: g.Body1, body2: g.Body2, equations: equations})
		stats.Equations += len(equations)
	}
	for _, g := range contacts {
		equations := s.contactEquations(bodies[g.Body1], bodies[g.Body2], g.Contacts)
		groups = append(groups, equationGroup{body1: g.Body1, body2: g.Body2, equations: equations})
		stats.Equations += len(equations)
	}

	accumulators := make([]velocityAccumulator, len(bodies))
	if stats.Equations > 0 {
		stats.Iterations, stats.Residual = solveGroups(groups, bodies, accumulators, cfg)
	}

	for i, body := range bodies {
		if body.IsDynamic() {
			body.Velocity = body.Velocity.Add(accumulators[i].linear)
			body.AngularVelocity = body.AngularVelocity.Add(accumulators[i].angular)
		}
		body.Integrate(dt, gravity)
	}

	return stats
}

func solveGroups(groups []equationGroup, bodies []*actor.Body, accumulators []velocityAccumulator, cfg Config) (int, float64) {
	var iterations int
	var residual float64

	for iterations < cfg.Iterations {
		iterations++
		residual = 0

		for gi := range groups {
			group := &groups[gi]
			body1, body2 := bodies[group.body1], bodies[group.body2]
			acc1, acc2 := &accumulators[group.body1], &accumulators[group.body2]

			for ei := range group.equations {
				eq := &group.equations[ei]

				gwLambda := eq.VB.Dot(acc2.linear.Sub(acc1.linear)) +
					eq.WA.Dot(acc1.angular) +
					eq.WB.Dot(acc2.angular)
				deltaLambda := eq.InvC * (eq.B - gwLambda - eq.SpookEps*eq.lambda)

				// Project onto [MinForce, MaxForce]
				if eq.lambda+deltaLambda < eq.MinForce {
					deltaLambda = eq.MinForce - eq.lambda
				} else if eq.lambda+deltaLambda > eq.MaxForce {
					deltaLambda = eq.MaxForce - eq.lambda
				}
				eq.lambda += deltaLambda
				residual += math.Abs(deltaLambda)

				acc1.linear = acc1.linear.Sub(eq.VB.Mul(deltaLambda * body1.InvMass()))
				acc1.angular = acc1.angular.Add(body1.InvInertiaWorld().Mul3x1(eq.WA.Mul(deltaLambda)))
				acc2.linear = acc2.linear.Add(eq.VB.Mul(deltaLambda * body2.InvMass()))
				acc2.angular = acc2.angular.Add(body2.InvInertiaWorld().Mul3x1(eq.WB.Mul(deltaLambda)))
			}
		}

		if residual < cfg.Tolerance {
			break
		}
	}

	return iterations, residual
}
