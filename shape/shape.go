// Package shape holds the collision geometry of bodies.
//
// The set of shapes is closed: Plane, Sphere, Convex and Particle. Code that needs
// per-variant behavior uses an exhaustive type switch over these four types.
// Every shape carries its mass properties for unit density: Volume, and Inertia about
// its Center expressed in the shape's current frame.
//
// Shapes are values. PlaceIn returns a new shape and never mutates the receiver.
package shape

import (
	"fmt"
	"math"

	"github.com/akmonengine/impulse/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Kind identifies a shape variant
type Kind int

const (
	KindPlane Kind = iota
	KindSphere
	KindConvex
	KindParticle
)

func (k Kind) String() string {
	switch k {
	case KindPlane:
		return "plane"
	case KindSphere:
		return "sphere"
	case KindConvex:
		return "convex"
	case KindParticle:
		return "particle"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Shape is implemented by Plane, Sphere, Convex and Particle only
type Shape interface {
	Kind() Kind
	// Center is the shape origin: plane point, sphere center, convex centroid or particle position
	Center() mgl64.Vec3
	Volume() float64
	// Inertia for unit density, about Center
	Inertia() mgl64.Mat3
	// BoundingRadius is the radius of the smallest sphere around Center containing the shape
	BoundingRadius() float64
	// PlaceIn moves the shape from the local space of t into t's parent space
	PlaceIn(t geom.Transform) Shape

	sealed()
}

// Plane represents an infinite half-space.
// Points p with Normal·(p - Position) <= 0 are inside.
type Plane struct {
	Normal   mgl64.Vec3
	Position mgl64.Vec3
}

// NewPlane creates a plane through position, the normal is normalized
func NewPlane(normal, position mgl64.Vec3) Plane {
	return Plane{Normal: geom.Direction(normal), Position: position}
}

// XYPlane is the ground plane through the origin, facing +Z
func XYPlane() Plane {
	return NewPlane(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 0})
}

func (p Plane) Kind() Kind { return KindPlane }
func (p Plane) Center() mgl64.Vec3 { return p.Position }
func (p Plane) Volume() float64 { return 0 }
func (p Plane) Inertia() mgl64.Mat3 { return mgl64.Mat3{} }
func (p Plane) BoundingRadius() float64 { return math.Inf(1) }
func (p Plane) sealed() {}

func (p Plane) PlaceIn(t geom.Transform) Shape {
	return Plane{
		Normal:   t.DirectionPlaceIn(p.Normal),
		Position: t.PointPlaceIn(p.Position),
	}
}

// SignedDistance returns the distance of point above the plane (negative below)
func (p Plane) SignedDistance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point.Sub(p.Position))
}

// Project returns the closest point on the plane
func (p Plane) Project(point mgl64.Vec3) mgl64.Vec3 {
	return point.Sub(p.Normal.Mul(p.SignedDistance(point)))
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius   float64
	Position mgl64.Vec3
}

// NewSphere creates a sphere centered on the origin
func NewSphere(radius float64) Sphere {
	return Sphere{Radius: math.Abs(radius)}
}

func (s Sphere) Kind() Kind { return KindSphere }
func (s Sphere) Center() mgl64.Vec3 { return s.Position }
func (s Sphere) BoundingRadius() float64 { return s.Radius }
func (s Sphere) sealed() {}

// Volume of sphere = (4/3) * π * r³
func (s Sphere) Volume() float64 {
	return (4.0 / 3.0) * math.Pi * s.Radius * s.Radius * s.Radius
}

// Inertia for a sphere: I = (2/5) * m * r², on all axes
func (s Sphere) Inertia() mgl64.Mat3 {
	i := (2.0 / 5.0) * s.Volume() * s.Radius * s.Radius
	return mgl64.Diag3(mgl64.Vec3{i, i, i})
}

func (s Sphere) PlaceIn(t geom.Transform) Shape {
	return Sphere{Radius: s.Radius, Position: t.PointPlaceIn(s.Position)}
}

// Particle is a single point with no volume
type Particle struct {
	Position mgl64.Vec3
}

func NewParticle() Particle {
	return Particle{}
}

func (p Particle) Kind() Kind { return KindParticle }
func (p Particle) Center() mgl64.Vec3 { return p.Position }
func (p Particle) Volume() float64 { return 0 }
func (p Particle) Inertia() mgl64.Mat3 { return mgl64.Mat3{} }
func (p Particle) BoundingRadius() float64 { return 0 }
func (p Particle) sealed() {}

func (p Particle) PlaceIn(t geom.Transform) Shape {
	return Particle{Position: t.PointPlaceIn(p.Position)}
}

// PlaceAll places every shape of a list into t
func PlaceAll(shapes []Shape, t geom.Transform) []Shape {
	placed := make([]Shape, len(shapes))
	for i, s := range shapes {
		placed[i] = s.PlaceIn(t)
	}
	return placed
}
