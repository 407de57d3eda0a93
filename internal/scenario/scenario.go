// Package scenario builds the demonstration worlds run by the impulse command.
package scenario

import (
	"slices"

	"github.com/akmonengine/impulse"
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/constraint"
	"github.com/akmonengine/impulse/shape"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Scenario is a named world layout. Build adds the bodies and constraints to w
// and returns the body worth following.
type Scenario struct {
	Name        string
	Description string
	build       func(w *impulse.World) (*actor.Body, error)
}

var registry = map[string]Scenario{
	"drop": {
		Name:        "drop",
		Description: "a bouncy sphere falling on the ground",
		build:       buildDrop,
	},
	"collide": {
		Name:        "collide",
		Description: "two spheres colliding head-on on a frictionless ground",
		build:       buildCollide,
	},
	"stack": {
		Name:        "stack",
		Description: "a tower of five blocks settling on the ground",
		build:       buildStack,
	},
	"pendulum": {
		Name:        "pendulum",
		Description: "a sphere swinging from a fixed point",
		build:       buildPendulum,
	},
	"hinge": {
		Name:        "hinge",
		Description: "a plank swinging around a horizontal hinge",
		build:       buildHinge,
	},
}

// Names lists the registered scenarios in alphabetical order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get returns the scenario registered under name
func Get(name string) (Scenario, error) {
	s, ok := registry[name]
	if !ok {
		return Scenario{}, errors.Errorf("unknown scenario: %s", name)
	}
	return s, nil
}

// Build creates a world with options and fills it with the named scenario.
// The returned body is the one the scenario follows, e.g. for plotting its height.
func Build(name string, options ...impulse.Option) (*impulse.World, *actor.Body, error) {
	s, err := Get(name)
	if err != nil {
		return nil, nil, err
	}

	w := impulse.NewWorld(options...)
	tracked, err := s.build(w)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to build scenario %s", name)
	}
	return w, tracked, nil
}

func dynamic(s shape.Shape, mass float64, position mgl64.Vec3, data string) (*actor.Body, error) {
	body, err := actor.New(s, data).WithBehavior(actor.Dynamic(mass))
	if err != nil {
		return nil, errors.Wrapf(err, "body %s", data)
	}
	body.MoveTo(position)
	return body, nil
}

func buildDrop(w *impulse.World) (*actor.Body, error) {
	w.Add(actor.New(shape.XYPlane(), "ground"))

	ball, err := dynamic(shape.NewSphere(0.5), 1, mgl64.Vec3{0, 0, 5}, "ball")
	if err != nil {
		return nil, err
	}
	ball.Material.Bounciness = 0.6
	w.Add(ball)

	return ball, nil
}

func buildCollide(w *impulse.World) (*actor.Body, error) {
	ground := actor.New(shape.XYPlane(), "ground")
	ground.Material.Friction = 0
	w.Add(ground)

	left, err := dynamic(shape.NewSphere(0.5), 1, mgl64.Vec3{-2, 0, 0.5}, "left")
	if err != nil {
		return nil, err
	}
	right, err := dynamic(shape.NewSphere(0.5), 1, mgl64.Vec3{2, 0, 0.5}, "right")
	if err != nil {
		return nil, err
	}
	for _, ball := range []*actor.Body{left, right} {
		ball.Material = actor.Material{Friction: 0, Bounciness: 1}
		w.Add(ball)
	}
	left.Velocity = mgl64.Vec3{2, 0, 0}
	right.Velocity = mgl64.Vec3{-2, 0, 0}

	return left, nil
}

func buildStack(w *impulse.World) (*actor.Body, error) {
	w.Add(actor.New(shape.XYPlane(), "ground"))

	var top *actor.Body
	for i := 0; i < 5; i++ {
		block, err := dynamic(shape.Block(1, 1, 1), 1, mgl64.Vec3{0, 0, 0.5 + float64(i)}, "block")
		if err != nil {
			return nil, err
		}
		w.Add(block)
		top = block
	}

	return top, nil
}

func buildPendulum(w *impulse.World) (*actor.Body, error) {
	anchor := actor.New(shape.NewParticle(), "anchor")
	anchor.MoveTo(mgl64.Vec3{0, 0, 5})
	w.Add(anchor)

	ball, err := dynamic(shape.NewSphere(0.2), 1, mgl64.Vec3{1.5, 0, 5}, "ball")
	if err != nil {
		return nil, err
	}
	w.Add(ball)

	w.Constrain(func(body1, body2 *actor.Body) []constraint.Constraint {
		if body1 != anchor || body2 != ball {
			return nil
		}
		return []constraint.Constraint{constraint.NewPointToPoint(mgl64.Vec3{}, mgl64.Vec3{-1.5, 0, 0})}
	})

	return ball, nil
}

func buildHinge(w *impulse.World) (*actor.Body, error) {
	anchor := actor.New(shape.NewParticle(), "anchor")
	anchor.MoveTo(mgl64.Vec3{0, 0, 5})
	w.Add(anchor)

	plank, err := dynamic(shape.Block(2, 0.5, 0.1), 2, mgl64.Vec3{1.2, 0, 5}, "plank")
	if err != nil {
		return nil, err
	}
	w.Add(plank)

	axis := mgl64.Vec3{0, 1, 0}
	w.Constrain(func(body1, body2 *actor.Body) []constraint.Constraint {
		if body1 != anchor || body2 != plank {
			return nil
		}
		return []constraint.Constraint{constraint.NewHinge(mgl64.Vec3{}, axis, mgl64.Vec3{-1.2, 0, 0}, axis)}
	})

	return plank, nil
}
