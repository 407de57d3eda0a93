package solver

import (
	"math"

	"github.com/akmonengine/impulse/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Equation is one row of the system, between body 1 and body 2.
// Its Jacobian is (-VB, WA) for body 1 and (VB, WB) for body 2.
type Equation struct {
	MinForce float64
	MaxForce float64
	B        float64
	InvC     float64
	SpookEps float64
	VB       mgl64.Vec3
	WA       mgl64.Vec3
	WB       mgl64.Vec3

	lambda float64
}

// Lambda is the impulse accumulated by the last Solve
func (e Equation) Lambda() float64 {
	return e.lambda
}

// step holds what every equation built during one simulation step shares
type step struct {
	dt      float64
	gravity mgl64.Vec3
	spook   spook
}

// jacobian is the direction part of an equation
type jacobian struct {
	vB mgl64.Vec3
	wA mgl64.Vec3
	wB mgl64.Vec3
}

// velocity is GW, the rate at which the bodies' current motion changes the constraint
func (j jacobian) velocity(body1, body2 *actor.Body) float64 {
	return j.vB.Dot(body2.Velocity.Sub(body1.Velocity)) +
		j.wA.Dot(body1.AngularVelocity) +
		j.wB.Dot(body2.AngularVelocity)
}

// newEquation computes B and the inverse diagonal term from the violation g and its velocity gw
func (s step) newEquation(body1, body2 *actor.Body, j jacobian, g, gw, minForce, maxForce float64) Equation {
	// GiMf: the velocity change forces and gravity would produce during the step
	acceleration1 := body1.Force().Mul(body1.InvMass())
	if body1.IsDynamic() {
		acceleration1 = acceleration1.Add(s.gravity)
	}
	acceleration2 := body2.Force().Mul(body2.InvMass())
	if body2.IsDynamic() {
		acceleration2 = acceleration2.Add(s.gravity)
	}
	giMf := j.vB.Dot(acceleration2.Sub(acceleration1)) +
		j.wA.Dot(body1.InvInertiaWorld().Mul3x1(body1.Torque())) +
		j.wB.Dot(body2.InvInertiaWorld().Mul3x1(body2.Torque()))

	linear := j.vB.LenSqr() * (body1.InvMass() + body2.InvMass())
	angular := j.wA.Dot(body1.InvInertiaWorld().Mul3x1(j.wA)) +
		j.wB.Dot(body2.InvInertiaWorld().Mul3x1(j.wB))
	c := linear + angular + s.spook.eps

	return Equation{
		MinForce: minForce,
		MaxForce: maxForce,
		B:        -g*s.spook.a - gw*s.spook.b - s.dt*giMf,
		InvC:     1.0 / c,
		SpookEps: s.spook.eps,
		VB:       j.vB,
		WA:       j.wA,
		WB:       j.wB,
	}
}

// unbounded is the force range of constraint equations
var (
	unboundedMin = math.Inf(-1)
	unboundedMax = math.Inf(1)
)
