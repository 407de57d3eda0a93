// Package constraint defines the joints that can be placed between two bodies.
//
// Pivots and axes are given in each body's own frame, the one its shapes were
// built in. A World re-expresses them in the center of mass frames with
// RelativeTo when the constraint is added, so they stay attached to the bodies
// as they move.
package constraint

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Constraint is one of PointToPoint, Hinge, Lock or Distance
type Constraint interface {
	// RelativeTo re-expresses the constraint in the given frames of body 1 and body 2
	RelativeTo(frame1, frame2 geom.Transform) Constraint
	// Equations is the number of solver rows the constraint produces
	Equations() int

	sealed()
}

// PointToPoint keeps a point of body 1 and a point of body 2 together
type PointToPoint struct {
	Pivot1 mgl64.Vec3
	Pivot2 mgl64.Vec3
}

func NewPointToPoint(pivot1, pivot2 mgl64.Vec3) PointToPoint {
	return PointToPoint{Pivot1: pivot1, Pivot2: pivot2}
}

func (c PointToPoint) Equations() int { return 3 }
func (c PointToPoint) sealed() {}

func (c PointToPoint) RelativeTo(frame1, frame2 geom.Transform) Constraint {
	return PointToPoint{
		Pivot1: frame1.PointRelativeTo(c.Pivot1),
		Pivot2: frame2.PointRelativeTo(c.Pivot2),
	}
}

// Hinge joins two pivots and keeps Axis1 aligned with Axis2, leaving one rotational freedom
type Hinge struct {
	Pivot1 mgl64.Vec3
	Axis1  mgl64.Vec3
	Pivot2 mgl64.Vec3
	Axis2  mgl64.Vec3
}

func NewHinge(pivot1, axis1, pivot2, axis2 mgl64.Vec3) Hinge {
	return Hinge{
		Pivot1: pivot1,
		Axis1:  geom.Direction(axis1),
		Pivot2: pivot2,
		Axis2:  geom.Direction(axis2),
	}
}

func (c Hinge) Equations() int { return 5 }
func (c Hinge) sealed() {}

func (c Hinge) RelativeTo(frame1, frame2 geom.Transform) Constraint {
	return Hinge{
		Pivot1: frame1.PointRelativeTo(c.Pivot1),
		Axis1:  frame1.DirectionRelativeTo(c.Axis1),
		Pivot2: frame2.PointRelativeTo(c.Pivot2),
		Axis2:  frame2.DirectionRelativeTo(c.Axis2),
	}
}

// Lock removes every relative freedom: the pivots are joined and the two
// axis triples keep their relative orientation.
type Lock struct {
	Pivot1     mgl64.Vec3
	X1, Y1, Z1 mgl64.Vec3
	Pivot2     mgl64.Vec3
	X2, Y2, Z2 mgl64.Vec3
}

// NewLock locks the frame of body 1 given in frame1 onto the frame of body 2 given in frame2.
// Both frames should describe the same world pose when the lock is created.
func NewLock(frame1, frame2 geom.Transform) Lock {
	return Lock{
		Pivot1: frame1.Position,
		X1:     frame1.DirectionPlaceIn(mgl64.Vec3{1, 0, 0}),
		Y1:     frame1.DirectionPlaceIn(mgl64.Vec3{0, 1, 0}),
		Z1:     frame1.DirectionPlaceIn(mgl64.Vec3{0, 0, 1}),
		Pivot2: frame2.Position,
		X2:     frame2.DirectionPlaceIn(mgl64.Vec3{1, 0, 0}),
		Y2:     frame2.DirectionPlaceIn(mgl64.Vec3{0, 1, 0}),
		Z2:     frame2.DirectionPlaceIn(mgl64.Vec3{0, 0, 1}),
	}
}

func (c Lock) Equations() int { return 6 }
func (c Lock) sealed() {}

func (c Lock) RelativeTo(frame1, frame2 geom.Transform) Constraint {
	return Lock{
		Pivot1: frame1.PointRelativeTo(c.Pivot1),
		X1:     frame1.DirectionRelativeTo(c.X1),
		Y1:     frame1.DirectionRelativeTo(c.Y1),
		Z1:     frame1.DirectionRelativeTo(c.Z1),
		Pivot2: frame2.PointRelativeTo(c.Pivot2),
		X2:     frame2.DirectionRelativeTo(c.X2),
		Y2:     frame2.DirectionRelativeTo(c.Y2),
		Z2:     frame2.DirectionRelativeTo(c.Z2),
	}
}

// Distance keeps the centers of mass of both bodies Length apart
type Distance struct {
	Length float64
}

func NewDistance(length float64) Distance {
	return Distance{Length: length}
}

func (c Distance) Equations() int { return 1 }
func (c Distance) sealed() {}

func (c Distance) RelativeTo(frame1, frame2 geom.Transform) Constraint {
	return c
}

// Group holds the constraints between one ordered pair of bodies
type Group struct {
	Body1       actor.BodyID
	Body2       actor.BodyID
	Constraints []Constraint
}

// Involves reports whether the group references the body
func (g Group) Involves(id actor.BodyID) bool {
	return g.Body1 == id || g.Body2 == id
}

// Equations is the total number of solver rows of the group
func (g Group) Equations() int {
	var n int
	for _, c := range g.Constraints {
		n += c.Equations()
	}
	return n
}
