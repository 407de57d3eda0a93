package actor

import (
	"math"

	"github.com/akmonengine/impulse/geom"
	"github.com/akmonengine/impulse/shape"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultLinearDamping  = 0.01
	DefaultAngularDamping = 0.01
)

// BodyID identifies a body inside a World.
// Indices are recycled when bodies are removed, the generation tells reused slots apart.
// A zero generation means the body was never added to a world.
type BodyID struct {
	Index      uint32
	Generation uint32
}

// Valid reports whether the id was assigned by a world
func (id BodyID) Valid() bool {
	return id.Generation != 0
}

// Body represents a rigid body made of one or more shapes
type Body struct {
	id BodyID

	// Data is owned by the caller, the engine never inspects it
	Data any

	// Shapes in the center of mass frame, and the same shapes placed in world space.
	// worldShapes is rebuilt by setTransform, the only writer of transform.
	shapes      []shape.Shape
	worldShapes []shape.Shape

	// World pose of the center of mass frame
	transform geom.Transform
	// Pose of the center of mass frame in the body frame, fixed at construction
	centerOfMass geom.Transform

	// Linear motion
	Velocity mgl64.Vec3 // m/s
	// Angular motion
	AngularVelocity mgl64.Vec3 // rad/s

	force  mgl64.Vec3
	torque mgl64.Vec3

	behavior Behavior
	mass     float64
	invMass  float64
	volume   float64
	// Inertia for unit density about the center of mass
	unitInertia     mgl64.Mat3
	invInertia      mgl64.Mat3
	invInertiaWorld mgl64.Mat3

	Material       Material
	LinearDamping  float64 // 0.0 - 1.0, typical: 0.01
	AngularDamping float64 // 0.0 - 1.0, typical: 0.01

	boundingRadius float64
}

// Compound creates a static body from shapes given in the body frame.
// The shapes are re-expressed around their volume weighted centroid, which becomes
// the center of mass. A body without volume keeps its center of mass at the origin.
func Compound(shapes []shape.Shape, data any) *Body {
	var volume float64
	var weighted mgl64.Vec3
	for _, s := range shapes {
		volume += s.Volume()
		weighted = weighted.Add(s.Center().Mul(s.Volume()))
	}

	centroid := mgl64.Vec3{0, 0, 0}
	if volume > 0 {
		centroid = weighted.Mul(1.0 / volume)
	}
	centerOfMass := geom.Translation(centroid)

	local := shape.PlaceAll(shapes, centerOfMass.Inverse())

	var unitInertia mgl64.Mat3
	var boundingRadius float64
	for _, s := range local {
		unitInertia = unitInertia.Add(geom.ShiftInertia(s.Inertia(), s.Volume(), s.Center()))
		boundingRadius = math.Max(boundingRadius, s.BoundingRadius()+s.Center().Len())
	}

	rb := &Body{
		Data:           data,
		shapes:         local,
		centerOfMass:   centerOfMass,
		behavior:       Static(),
		volume:         volume,
		unitInertia:    unitInertia,
		Material:       DefaultMaterial(),
		LinearDamping:  DefaultLinearDamping,
		AngularDamping: DefaultAngularDamping,
		boundingRadius: boundingRadius,
	}
	rb.setTransform(centerOfMass)

	return rb
}

// New creates a static body from a single shape
func New(s shape.Shape, data any) *Body {
	return Compound([]shape.Shape{s}, data)
}

// WithBehavior sets the body static or dynamic and recomputes its mass properties.
// Dynamic behavior is rejected for bodies containing a plane, and for masses that
// are not positive and finite.
func (rb *Body) WithBehavior(behavior Behavior) (*Body, error) {
	if behavior.dynamic {
		if !(behavior.mass > 0) || math.IsInf(behavior.mass, 0) {
			return rb, &ConfigurationError{Reason: "dynamic mass must be positive and finite"}
		}
		for _, s := range rb.shapes {
			if s.Kind() == shape.KindPlane {
				return rb, &ConfigurationError{Reason: "a body with a plane cannot be dynamic"}
			}
		}
	}

	rb.behavior = behavior
	rb.updateMassProperties()

	return rb, nil
}

func (rb *Body) updateMassProperties() {
	if !rb.behavior.dynamic || rb.volume <= 0 {
		rb.mass = 0
		rb.invMass = 0
		rb.invInertia = mgl64.Mat3{}
	} else {
		rb.mass = rb.behavior.mass
		rb.invMass = 1.0 / rb.mass
		rb.invInertia = geom.InvertInertia(rb.unitInertia.Mul(rb.mass / rb.volume))
	}
	rb.invInertiaWorld = geom.RotateInertia(rb.invInertia, rb.transform.Rotation)
}

// setTransform is the single place where the pose changes, keeping world shapes fresh
func (rb *Body) setTransform(transform geom.Transform) {
	rb.transform = transform
	rb.worldShapes = shape.PlaceAll(rb.shapes, transform)
	rb.invInertiaWorld = geom.RotateInertia(rb.invInertia, transform.Rotation)
}

func (rb *Body) ID() BodyID {
	return rb.id
}

// SetID is called by the world when the body is added or removed
func (rb *Body) SetID(id BodyID) {
	rb.id = id
}

func (rb *Body) Behavior() Behavior {
	return rb.behavior
}

// IsDynamic reports whether the body responds to forces and contacts
func (rb *Body) IsDynamic() bool {
	return rb.invMass > 0
}

func (rb *Body) Mass() float64 {
	return rb.mass
}

func (rb *Body) InvMass() float64 {
	return rb.invMass
}

func (rb *Body) Volume() float64 {
	return rb.volume
}

// InvInertia is the inverse inertia in the center of mass frame
func (rb *Body) InvInertia() mgl64.Mat3 {
	return rb.invInertia
}

// InvInertiaWorld is the inverse inertia rotated into world space
func (rb *Body) InvInertiaWorld() mgl64.Mat3 {
	return rb.invInertiaWorld
}

// Transform is the world pose of the center of mass frame
func (rb *Body) Transform() geom.Transform {
	return rb.transform
}

// CenterOfMass is the pose of the center of mass frame inside the body frame
func (rb *Body) CenterOfMass() geom.Transform {
	return rb.centerOfMass
}

// Frame is the world pose of the body frame, the one its shapes were given in
func (rb *Body) Frame() geom.Transform {
	return rb.centerOfMass.Inverse().PlaceIn(rb.transform)
}

// SetFrame places the body frame in the world
func (rb *Body) SetFrame(frame geom.Transform) {
	rb.setTransform(rb.centerOfMass.PlaceIn(frame))
}

// MoveTo translates the body frame origin to position, keeping the orientation
func (rb *Body) MoveTo(position mgl64.Vec3) {
	frame := rb.Frame()
	frame.Position = position
	rb.SetFrame(frame)
}

// Translate moves the body by offset in world space
func (rb *Body) Translate(offset mgl64.Vec3) {
	rb.setTransform(geom.Transform{
		Position: rb.transform.Position.Add(offset),
		Rotation: rb.transform.Rotation,
	})
}

// RotateAround rotates the body by angle radians around a world axis through its center of mass
func (rb *Body) RotateAround(axis mgl64.Vec3, angle float64) {
	rotation := mgl64.QuatRotate(angle, geom.Direction(axis))
	rb.setTransform(geom.Transform{
		Position: rb.transform.Position,
		Rotation: geom.NormalizeQuat(rotation.Mul(rb.transform.Rotation)),
	})
}

// Shapes returns the shapes in the center of mass frame
func (rb *Body) Shapes() []shape.Shape {
	return rb.shapes
}

// WorldShapes returns the shapes placed in world space
func (rb *Body) WorldShapes() []shape.Shape {
	return rb.worldShapes
}

// BoundingSphereRadius is the radius around the center of mass containing all shapes
func (rb *Body) BoundingSphereRadius() float64 {
	return rb.boundingRadius
}

func (rb *Body) BoundingSphere() geom.BoundingSphere {
	return geom.BoundingSphere{Center: rb.transform.Position, Radius: rb.boundingRadius}
}

// PointVelocity returns the velocity of a world point attached to the body
func (rb *Body) PointVelocity(point mgl64.Vec3) mgl64.Vec3 {
	return rb.Velocity.Add(rb.AngularVelocity.Cross(point.Sub(rb.transform.Position)))
}

// AddForce accumulates a force (N) applied at the center of mass until the next step
func (rb *Body) AddForce(force mgl64.Vec3) {
	if rb.IsDynamic() {
		rb.force = rb.force.Add(force)
	}
}

// AddTorque accumulates a torque (N⋅m) until the next step
func (rb *Body) AddTorque(torque mgl64.Vec3) {
	if rb.IsDynamic() {
		rb.torque = rb.torque.Add(torque)
	}
}

// ApplyForce accumulates a force applied at a world point, producing torque off center
func (rb *Body) ApplyForce(force, point mgl64.Vec3) {
	rb.AddForce(force)
	rb.AddTorque(point.Sub(rb.transform.Position).Cross(force))
}

// ApplyImpulse changes velocities immediately, as if hit at a world point
func (rb *Body) ApplyImpulse(impulse, point mgl64.Vec3) {
	if !rb.IsDynamic() {
		return
	}
	rb.Velocity = rb.Velocity.Add(impulse.Mul(rb.invMass))
	angularImpulse := point.Sub(rb.transform.Position).Cross(impulse)
	rb.AngularVelocity = rb.AngularVelocity.Add(rb.invInertiaWorld.Mul3x1(angularImpulse))
}

func (rb *Body) Force() mgl64.Vec3 {
	return rb.force
}

func (rb *Body) Torque() mgl64.Vec3 {
	return rb.torque
}

func (rb *Body) ClearForces() {
	rb.force = mgl64.Vec3{0, 0, 0}
	rb.torque = mgl64.Vec3{0, 0, 0}
}

// Integrate advances a dynamic body by dt. Solver corrections must already be
// applied to the velocities. Static bodies only get their accumulators cleared.
func (rb *Body) Integrate(dt float64, gravity mgl64.Vec3) {
	if !rb.IsDynamic() {
		rb.ClearForces()
		return
	}

	// ========== LINEAR ==========
	acceleration := gravity.Add(rb.force.Mul(rb.invMass))
	velocity := rb.Velocity.Add(acceleration.Mul(dt))
	velocity = velocity.Mul(math.Pow(1.0-rb.LinearDamping, dt))

	// A body may not travel further than its own radius in one step
	if displacement := velocity.Len() * dt; displacement > rb.boundingRadius {
		velocity = velocity.Mul(rb.boundingRadius / displacement)
	}

	// ========== ANGULAR ==========
	angularVelocity := rb.AngularVelocity.Add(rb.invInertiaWorld.Mul3x1(rb.torque).Mul(dt))
	angularVelocity = angularVelocity.Mul(math.Pow(1.0-rb.AngularDamping, dt))

	rb.Velocity = velocity
	rb.AngularVelocity = angularVelocity

	// ========== POSE ==========
	position := rb.transform.Position.Add(velocity.Mul(dt))

	rotation := rb.transform.Rotation
	omegaQuat := mgl64.Quat{V: angularVelocity, W: 0}
	qDot := omegaQuat.Mul(rotation).Scale(0.5)
	rotation = geom.NormalizeQuat(rotation.Add(qDot.Scale(dt)))

	rb.setTransform(geom.Transform{Position: position, Rotation: rotation})
	rb.ClearForces()
}
