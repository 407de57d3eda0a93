package solver

import (
	"math"
	"testing"

	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/constraint"
	"github.com/akmonengine/impulse/contact"
	"github.com/akmonengine/impulse/geom"
	"github.com/akmonengine/impulse/shape"
	"github.com/go-gl/mathgl/mgl64"
)

const dt = 1.0 / 60.0

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func createSphere(t *testing.T, radius, mass float64, position mgl64.Vec3) *actor.Body {
	t.Helper()
	rb := actor.New(shape.NewSphere(radius), nil)
	if mass > 0 {
		var err error
		if rb, err = rb.WithBehavior(actor.Dynamic(mass)); err != nil {
			t.Fatalf("WithBehavior() error = %v", err)
		}
	}
	rb.MoveTo(position)
	return rb
}

func contactsBetween(body1, body2 *actor.Body) []contact.Contact {
	var contacts []contact.Contact
	for _, s1 := range body1.WorldShapes() {
		for _, s2 := range body2.WorldShapes() {
			contacts = append(contacts, contact.Between(s1, s2)...)
		}
	}
	return contacts
}

// ===== Spook Tests =====

func TestNewSpook(t *testing.T) {
	s := newSpook(dt, DefaultStiffness, DefaultRelaxation)

	if !almostEqual(s.a, 240.0/13.0, 1e-9) {
		t.Errorf("a = %v, want %v", s.a, 240.0/13.0)
	}
	if !almostEqual(s.b, 12.0/13.0, 1e-12) {
		t.Errorf("b = %v, want %v", s.b, 12.0/13.0)
	}
	if !almostEqual(s.eps, 4.0*3600.0/(1e7*13.0), 1e-12) {
		t.Errorf("eps = %v, want %v", s.eps, 4.0*3600.0/(1e7*13.0))
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Iterations != 20 || cfg.Tolerance != 1e-7 || cfg.Stiffness != 1e7 || cfg.Relaxation != 3 {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
}

// ===== Contact Tests =====

func TestSolve_RestingContact(t *testing.T) {
	plane := actor.New(shape.XYPlane(), nil)
	ball := createSphere(t, 1, 1, mgl64.Vec3{0, 0, 1})
	gravity := mgl64.Vec3{0, 0, -9.8}

	bodies := []*actor.Body{plane, ball}
	contacts := []ContactGroup{{Body1: 0, Body2: 1, Contacts: contactsBetween(plane, ball)}}
	if len(contacts[0].Contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts[0].Contacts))
	}

	stats := Solve(dt, gravity, bodies, contacts, nil, DefaultConfig())

	if stats.Equations != 3 {
		t.Errorf("Equations = %d, want 3 (normal + 2 friction)", stats.Equations)
	}
	if stats.Iterations < 1 || stats.Iterations > DefaultIterations {
		t.Errorf("Iterations = %d", stats.Iterations)
	}
	if ball.Velocity.Len() > 1e-3 {
		t.Errorf("resting ball should keep still, velocity = %v", ball.Velocity)
	}
	if !almostEqual(ball.Transform().Position.Z(), 1, 1e-4) {
		t.Errorf("ball height = %v, want 1", ball.Transform().Position.Z())
	}
	if plane.Velocity.Len() != 0 {
		t.Errorf("static plane should not move, velocity = %v", plane.Velocity)
	}
}

func TestContactEquations_NormalsBeforeFriction(t *testing.T) {
	plane := actor.New(shape.XYPlane(), nil)
	block, err := actor.New(shape.Block(1, 1, 1), nil).WithBehavior(actor.Dynamic(1))
	if err != nil {
		t.Fatalf("WithBehavior() error = %v", err)
	}
	block.MoveTo(mgl64.Vec3{0, 0, 0.5})

	contacts := contactsBetween(plane, block)
	if len(contacts) < 3 {
		t.Fatalf("expected a face manifold, got %d contacts", len(contacts))
	}
	s := step{dt: dt, gravity: mgl64.Vec3{0, 0, -9.8}, spook: newSpook(dt, DefaultStiffness, DefaultRelaxation)}

	equations := s.contactEquations(plane, block, contacts)
	if len(equations) != 3*len(contacts) {
		t.Fatalf("Equations = %d, want %d", len(equations), 3*len(contacts))
	}
	for i, e := range equations {
		isNormal := e.MinForce == 0 && math.IsInf(e.MaxForce, 1)
		if i < len(contacts) && !isNormal {
			t.Errorf("equation %d bounds [%v, %v], want a non-penetration row", i, e.MinForce, e.MaxForce)
		}
		if i >= len(contacts) && isNormal {
			t.Errorf("equation %d is a non-penetration row after the friction rows started", i)
		}
	}

	plane.Material.Friction = 0
	block.Material.Friction = 0
	if got := len(s.contactEquations(plane, block, contacts)); got != len(contacts) {
		t.Errorf("frictionless Equations = %d, want %d", got, len(contacts))
	}
}

func TestSolve_HeadOnSpheres(t *testing.T) {
	ball1 := createSphere(t, 0.5, 1, mgl64.Vec3{-0.5, 0, 0})
	ball2 := createSphere(t, 0.5, 1, mgl64.Vec3{0.5, 0, 0})
	for _, b := range []*actor.Body{ball1, ball2} {
		b.Material = actor.Material{Friction: 0, Bounciness: 1}
	}
	ball1.Velocity = mgl64.Vec3{1, 0, 0}
	ball2.Velocity = mgl64.Vec3{-1, 0, 0}

	bodies := []*actor.Body{ball1, ball2}
	contacts := []ContactGroup{{Body1: 0, Body2: 1, Contacts: contactsBetween(ball1, ball2)}}
	stats := Solve(dt, mgl64.Vec3{}, bodies, contacts, nil, DefaultConfig())

	if stats.Equations != 1 {
		t.Errorf("frictionless contact should produce only the normal row, got %d", stats.Equations)
	}
	// λ = 4b / (2 + eps): the velocities reverse, slightly damped by the relaxation
	if !almostEqual(ball1.Velocity.X(), -0.846, 1e-2) || !almostEqual(ball2.Velocity.X(), 0.846, 1e-2) {
		t.Errorf("velocities = %v, %v", ball1.Velocity, ball2.Velocity)
	}
	if !almostEqual(ball1.Velocity.X(), -ball2.Velocity.X(), 1e-12) {
		t.Error("equal masses should get opposite velocities")
	}
}

func TestSolve_NoEquations(t *testing.T) {
	ball := createSphere(t, 1, 1, mgl64.Vec3{})
	stats := Solve(dt, mgl64.Vec3{0, 0, -10}, []*actor.Body{ball}, nil, nil, DefaultConfig())

	if stats.Iterations != 0 || stats.Equations != 0 {
		t.Errorf("Stats = %+v, want zero", stats)
	}
	if !almostEqual(ball.Velocity.Z(), -10*dt*math.Pow(0.99, dt), 1e-9) {
		t.Errorf("free body should only integrate gravity, velocity = %v", ball.Velocity)
	}
}

// ===== Constraint Tests =====

func TestSolve_ConstraintEquationCount(t *testing.T) {
	tests := []struct {
		name       string
		constraint constraint.Constraint
		expected   int
	}{
		{"distance", constraint.NewDistance(1), 1},
		{"point to point", constraint.NewPointToPoint(mgl64.Vec3{}, mgl64.Vec3{}), 3},
		{"hinge", constraint.NewHinge(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}), 5},
		{"lock", constraint.NewLock(geom.Identity(), geom.Identity()), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ball1 := createSphere(t, 0.5, 1, mgl64.Vec3{})
			ball2 := createSphere(t, 0.5, 1, mgl64.Vec3{1, 0, 0})
			groups := []ConstraintGroup{{Body1: 0, Body2: 1, Constraints: []constraint.Constraint{tt.constraint}}}

			stats := Solve(dt, mgl64.Vec3{}, []*actor.Body{ball1, ball2}, nil, groups, DefaultConfig())
			if stats.Equations != tt.expected {
				t.Errorf("Equations = %d, want %d", stats.Equations, tt.expected)
			}
		})
	}
}

func TestSolve_DistancePullsTogether(t *testing.T) {
	ball1 := createSphere(t, 0.5, 1, mgl64.Vec3{0, 0, 0})
	ball2 := createSphere(t, 0.5, 1, mgl64.Vec3{3, 0, 0})
	groups := []ConstraintGroup{{Body1: 0, Body2: 1, Constraints: []constraint.Constraint{constraint.NewDistance(2)}}}

	Solve(dt, mgl64.Vec3{}, []*actor.Body{ball1, ball2}, nil, groups, DefaultConfig())

	if ball1.Velocity.X() <= 0 || ball2.Velocity.X() >= 0 {
		t.Errorf("bodies should move towards each other, velocities = %v, %v", ball1.Velocity, ball2.Velocity)
	}
	if !almostEqual(ball1.Velocity.X(), -ball2.Velocity.X(), 1e-9) {
		t.Errorf("equal masses should move symmetrically, velocities = %v, %v", ball1.Velocity, ball2.Velocity)
	}
}

func TestSolve_PendulumKeepsLength(t *testing.T) {
	anchor := createSphere(t, 0.1, 0, mgl64.Vec3{0, 0, 0})
	ball := createSphere(t, 0.1, 1, mgl64.Vec3{1, 0, 0})
	groups := []ConstraintGroup{{
		Body1:       0,
		Body2:       1,
		Constraints: []constraint.Constraint{constraint.NewPointToPoint(mgl64.Vec3{}, mgl64.Vec3{-1, 0, 0})},
	}}
	bodies := []*actor.Body{anchor, ball}

	for i := 0; i < 120; i++ {
		Solve(dt, mgl64.Vec3{0, 0, -9.8}, bodies, nil, groups, DefaultConfig())
	}

	length := ball.Transform().Position.Len()
	if !almostEqual(length, 1, 0.05) {
		t.Errorf("pendulum length = %v, want about 1", length)
	}
	if ball.Transform().Position.Z() >= 0 {
		t.Errorf("pendulum should have swung down, position = %v", ball.Transform().Position)
	}
	if anchor.Transform().Position.Len() != 0 {
		t.Errorf("static anchor moved to %v", anchor.Transform().Position)
	}
}

func TestSolve_HingeKeepsAxesAligned(t *testing.T) {
	anchor := actor.New(shape.Block(0.2, 0.2, 0.2), nil)
	door, err := actor.New(shape.Block(1, 0.1, 1), nil).WithBehavior(actor.Dynamic(1))
	if err != nil {
		t.Fatal(err)
	}
	door.MoveTo(mgl64.Vec3{0.6, 0, 0})

	// Hinge around the world z axis at the anchor center
	hinge := constraint.NewHinge(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{-0.6, 0, 0}, mgl64.Vec3{0, 0, 1})
	groups := []ConstraintGroup{{Body1: 0, Body2: 1, Constraints: []constraint.Constraint{hinge}}}
	bodies := []*actor.Body{anchor, door}

	door.AngularVelocity = mgl64.Vec3{1, 0, 2}
	for i := 0; i < 60; i++ {
		Solve(dt, mgl64.Vec3{}, bodies, nil, groups, DefaultConfig())
	}

	axis := door.Transform().DirectionPlaceIn(mgl64.Vec3{0, 0, 1})
	if axis.Z() < 0.99 {
		t.Errorf("door axis drifted to %v", axis)
	}
	if math.Abs(door.AngularVelocity.X()) > 0.1 {
		t.Errorf("rotation off the hinge axis should be removed, angular velocity = %v", door.AngularVelocity)
	}
}

func TestSolve_LockHoldsRelativePose(t *testing.T) {
	anchor := actor.New(shape.Block(0.2, 0.2, 0.2), nil)
	anchor.MoveTo(mgl64.Vec3{0, 0, 5})
	plank, err := actor.New(shape.Block(2, 0.2, 0.2), nil).WithBehavior(actor.Dynamic(1))
	if err != nil {
		t.Fatal(err)
	}
	plank.MoveTo(mgl64.Vec3{1.2, 0, 5})

	// Both frames sit on the anchor center, with world orientation
	lock := constraint.NewLock(geom.Identity(), geom.Translation(mgl64.Vec3{-1.2, 0, 0}))
	groups := []ConstraintGroup{{Body1: 0, Body2: 1, Constraints: []constraint.Constraint{lock}}}
	bodies := []*actor.Body{anchor, plank}

	for i := 0; i < 120; i++ {
		Solve(dt, mgl64.Vec3{0, 0, -9.8}, bodies, nil, groups, DefaultConfig())
	}

	pivot := plank.Transform().PointPlaceIn(mgl64.Vec3{-1.2, 0, 0})
	if d := pivot.Sub(mgl64.Vec3{0, 0, 5}).Len(); d > 5e-3 {
		t.Errorf("locked pivot drifted to %v", pivot)
	}
	xAxis := plank.Transform().DirectionPlaceIn(mgl64.Vec3{1, 0, 0})
	if xAxis.Sub(mgl64.Vec3{1, 0, 0}).Len() > 1e-3 {
		t.Errorf("plank x axis rotated to %v", xAxis)
	}
	yAxis := plank.Transform().DirectionPlaceIn(mgl64.Vec3{0, 1, 0})
	if yAxis.Sub(mgl64.Vec3{0, 1, 0}).Len() > 1e-3 {
		t.Errorf("plank y axis rotated to %v", yAxis)
	}
	if plank.Velocity.Len() > 0.1 || plank.AngularVelocity.Len() > 0.1 {
		t.Errorf("locked plank still moving: v = %v, ω = %v", plank.Velocity, plank.AngularVelocity)
	}
}
