package actor

import (
	"errors"
	"math"
	"testing"

	"github.com/akmonengine/impulse/geom"
	"github.com/akmonengine/impulse/shape"
	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func vec3AlmostEqual(a, b mgl64.Vec3, tolerance float64) bool {
	return a.Sub(b).Len() < tolerance
}

func dynamicSphere(t *testing.T, radius, mass float64) *Body {
	t.Helper()
	rb, err := New(shape.NewSphere(radius), nil).WithBehavior(Dynamic(mass))
	if err != nil {
		t.Fatalf("WithBehavior() error = %v", err)
	}
	rb.LinearDamping = 0
	rb.AngularDamping = 0
	return rb
}

// =============================================================================
// Construction Tests
// =============================================================================

func TestNew_DefaultsToStatic(t *testing.T) {
	rb := New(shape.NewSphere(1), "ball")

	if rb.IsDynamic() {
		t.Error("new body should be static")
	}
	if rb.Data != "ball" {
		t.Errorf("Data = %v, want ball", rb.Data)
	}
	if rb.ID().Valid() {
		t.Error("new body should not have a valid id")
	}
	if rb.Material != DefaultMaterial() {
		t.Errorf("Material = %v, want default", rb.Material)
	}
	if !rb.Frame().ApproxEqual(geom.Identity(), epsilon) {
		t.Errorf("Frame() = %v, want identity", rb.Frame())
	}
}

func TestCompound_CenterOfMass(t *testing.T) {
	left := shape.Block(1, 1, 1).PlaceIn(geom.Translation(mgl64.Vec3{0, 0, 0}))
	right := shape.Block(1, 1, 1).PlaceIn(geom.Translation(mgl64.Vec3{2, 0, 0}))
	rb := Compound([]shape.Shape{left, right}, nil)

	if !vec3AlmostEqual(rb.CenterOfMass().Position, mgl64.Vec3{1, 0, 0}, epsilon) {
		t.Errorf("CenterOfMass = %v, want (1, 0, 0)", rb.CenterOfMass().Position)
	}
	if !vec3AlmostEqual(rb.Transform().Position, mgl64.Vec3{1, 0, 0}, epsilon) {
		t.Errorf("Transform().Position = %v, want (1, 0, 0)", rb.Transform().Position)
	}
	if !almostEqual(rb.Volume(), 2, epsilon) {
		t.Errorf("Volume() = %v, want 2", rb.Volume())
	}

	// Shapes are stored around the center of mass, world shapes keep the input placement
	if !vec3AlmostEqual(rb.Shapes()[0].Center(), mgl64.Vec3{-1, 0, 0}, epsilon) {
		t.Errorf("local center = %v, want (-1, 0, 0)", rb.Shapes()[0].Center())
	}
	if !vec3AlmostEqual(rb.WorldShapes()[1].Center(), mgl64.Vec3{2, 0, 0}, epsilon) {
		t.Errorf("world center = %v, want (2, 0, 0)", rb.WorldShapes()[1].Center())
	}

	// 1 (distance to the far block center) + sqrt(3)/2 (block half diagonal)
	if !almostEqual(rb.BoundingSphereRadius(), 1+math.Sqrt(3)/2, 1e-6) {
		t.Errorf("BoundingSphereRadius() = %v", rb.BoundingSphereRadius())
	}
}

func TestCompound_Empty(t *testing.T) {
	rb := Compound(nil, nil)
	if rb.Volume() != 0 || len(rb.WorldShapes()) != 0 {
		t.Error("empty compound should have no volume and no shapes")
	}
}

// =============================================================================
// Behavior Tests
// =============================================================================

func TestWithBehavior_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     *Body
		behavior Behavior
		wantErr  bool
	}{
		{"dynamic sphere", New(shape.NewSphere(1), nil), Dynamic(1), false},
		{"static plane", New(shape.XYPlane(), nil), Static(), false},
		{"dynamic plane", New(shape.XYPlane(), nil), Dynamic(1), true},
		{"plane inside compound", Compound([]shape.Shape{shape.NewSphere(1), shape.XYPlane()}, nil), Dynamic(1), true},
		{"zero mass", New(shape.NewSphere(1), nil), Dynamic(0), true},
		{"negative mass", New(shape.NewSphere(1), nil), Dynamic(-2), true},
		{"infinite mass", New(shape.NewSphere(1), nil), Dynamic(math.Inf(1)), true},
		{"NaN mass", New(shape.NewSphere(1), nil), Dynamic(math.NaN()), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb, err := tt.body.WithBehavior(tt.behavior)
			if (err != nil) != tt.wantErr {
				t.Fatalf("WithBehavior() error = %v, wantErr %v", err, tt.wantErr)
			}
			if rb != tt.body {
				t.Error("WithBehavior() should return the same body")
			}
			if err != nil {
				if !errors.Is(err, ErrConfiguration) {
					t.Errorf("error %v should wrap ErrConfiguration", err)
				}
				var configErr *ConfigurationError
				if !errors.As(err, &configErr) || configErr.Reason == "" {
					t.Errorf("error %v should be a ConfigurationError with a reason", err)
				}
				if rb.IsDynamic() {
					t.Error("rejected behavior should leave the body static")
				}
			}
		})
	}
}

func TestWithBehavior_MassProperties(t *testing.T) {
	rb := dynamicSphere(t, 1, 2)

	if rb.Mass() != 2 || rb.InvMass() != 0.5 {
		t.Errorf("Mass() = %v, InvMass() = %v", rb.Mass(), rb.InvMass())
	}

	// Solid sphere: I = 2/5 m r² = 0.8
	want := 1.0 / 0.8
	for i := 0; i < 3; i++ {
		if !almostEqual(rb.InvInertia().At(i, i), want, 1e-9) {
			t.Errorf("InvInertia[%d][%d] = %v, want %v", i, i, rb.InvInertia().At(i, i), want)
		}
	}

	// Back to static drops the mass
	rb, _ = rb.WithBehavior(Static())
	if rb.IsDynamic() || rb.InvMass() != 0 || rb.InvInertia() != (mgl64.Mat3{}) {
		t.Error("static body should have zero inverse mass and inertia")
	}
}

func TestWithBehavior_ZeroVolumeActsStatic(t *testing.T) {
	rb, err := New(shape.NewParticle(), nil).WithBehavior(Dynamic(1))
	if err != nil {
		t.Fatalf("WithBehavior() error = %v", err)
	}
	if rb.IsDynamic() {
		t.Error("a body without volume cannot move")
	}
	if !rb.Behavior().IsDynamic() {
		t.Error("the requested behavior should still be reported")
	}
}

func TestBlockInertia(t *testing.T) {
	rb, _ := New(shape.Block(2, 4, 6), nil).WithBehavior(Dynamic(12))

	// I = m/12 (b² + c²) per axis
	wants := []float64{12.0 / 12 * (16 + 36), 12.0 / 12 * (4 + 36), 12.0 / 12 * (4 + 16)}
	for i, want := range wants {
		if !almostEqual(rb.InvInertia().At(i, i), 1/want, 1e-9) {
			t.Errorf("InvInertia[%d][%d] = %v, want %v", i, i, rb.InvInertia().At(i, i), 1/want)
		}
	}
}

// =============================================================================
// Pose Tests
// =============================================================================

func TestSetFrame_RoundTrip(t *testing.T) {
	offset := shape.NewSphere(1).PlaceIn(geom.Translation(mgl64.Vec3{1, 0, 0}))
	rb := New(offset, nil)

	frame := geom.NewTransform(mgl64.Vec3{0, 0, 5}, mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))
	rb.SetFrame(frame)

	if !rb.Frame().ApproxEqual(frame, 1e-9) {
		t.Errorf("Frame() = %v, want %v", rb.Frame(), frame)
	}
	// The sphere center was at +x in the body frame, the quarter turn sends it to +y
	if !vec3AlmostEqual(rb.Transform().Position, mgl64.Vec3{0, 1, 5}, 1e-9) {
		t.Errorf("Transform().Position = %v, want (0, 1, 5)", rb.Transform().Position)
	}
	if !vec3AlmostEqual(rb.WorldShapes()[0].Center(), mgl64.Vec3{0, 1, 5}, 1e-9) {
		t.Errorf("world shape center = %v, want (0, 1, 5)", rb.WorldShapes()[0].Center())
	}
}

func TestMoveToAndTranslate(t *testing.T) {
	rb := New(shape.NewSphere(1), nil)

	rb.MoveTo(mgl64.Vec3{1, 2, 3})
	if !vec3AlmostEqual(rb.Frame().Position, mgl64.Vec3{1, 2, 3}, epsilon) {
		t.Errorf("after MoveTo, position = %v", rb.Frame().Position)
	}

	rb.Translate(mgl64.Vec3{0, 0, -3})
	if !vec3AlmostEqual(rb.WorldShapes()[0].Center(), mgl64.Vec3{1, 2, 0}, epsilon) {
		t.Errorf("after Translate, center = %v", rb.WorldShapes()[0].Center())
	}
}

func TestRotateAround(t *testing.T) {
	rb, _ := New(shape.Block(2, 1, 1), nil).WithBehavior(Dynamic(1))
	rb.RotateAround(mgl64.Vec3{0, 0, 1}, math.Pi/2)

	x := rb.Transform().DirectionPlaceIn(mgl64.Vec3{1, 0, 0})
	if !vec3AlmostEqual(x, mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("rotated x axis = %v, want (0, 1, 0)", x)
	}
	// The inverse inertia follows the rotation: the long axis now lies along y
	if !almostEqual(rb.InvInertiaWorld().At(0, 0), rb.InvInertia().At(1, 1), 1e-9) {
		t.Error("world inverse inertia should be rotated")
	}
}

// =============================================================================
// Force Tests
// =============================================================================

func TestAddForce_StaticIgnored(t *testing.T) {
	rb := New(shape.NewSphere(1), nil)
	rb.AddForce(mgl64.Vec3{1, 0, 0})
	rb.AddTorque(mgl64.Vec3{1, 0, 0})
	if rb.Force() != (mgl64.Vec3{}) || rb.Torque() != (mgl64.Vec3{}) {
		t.Error("static bodies should not accumulate forces")
	}
}

func TestApplyForce_OffCenterProducesTorque(t *testing.T) {
	rb := dynamicSphere(t, 1, 1)
	rb.ApplyForce(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0})

	if !vec3AlmostEqual(rb.Force(), mgl64.Vec3{0, 1, 0}, epsilon) {
		t.Errorf("Force() = %v", rb.Force())
	}
	if !vec3AlmostEqual(rb.Torque(), mgl64.Vec3{0, 0, 1}, epsilon) {
		t.Errorf("Torque() = %v, want (0, 0, 1)", rb.Torque())
	}

	rb.ClearForces()
	if rb.Force() != (mgl64.Vec3{}) || rb.Torque() != (mgl64.Vec3{}) {
		t.Error("ClearForces() should reset both accumulators")
	}
}

func TestApplyImpulse(t *testing.T) {
	rb := dynamicSphere(t, 1, 2)
	rb.ApplyImpulse(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{1, 0, 0})

	if !vec3AlmostEqual(rb.Velocity, mgl64.Vec3{0, 1, 0}, epsilon) {
		t.Errorf("Velocity = %v, want (0, 1, 0)", rb.Velocity)
	}
	// Angular impulse (0, 0, 2) through I⁻¹ = 1.25
	if !vec3AlmostEqual(rb.AngularVelocity, mgl64.Vec3{0, 0, 2.5}, 1e-9) {
		t.Errorf("AngularVelocity = %v, want (0, 0, 2.5)", rb.AngularVelocity)
	}
	if !vec3AlmostEqual(rb.PointVelocity(mgl64.Vec3{1, 0, 0}), mgl64.Vec3{0, 3.5, 0}, 1e-9) {
		t.Errorf("PointVelocity = %v, want (0, 3.5, 0)", rb.PointVelocity(mgl64.Vec3{1, 0, 0}))
	}
}

// =============================================================================
// Integrate Tests
// =============================================================================

func TestIntegrate(t *testing.T) {
	gravity := mgl64.Vec3{0, 0, -9.8}

	tests := []struct {
		name         string
		setup        func(rb *Body)
		dt           float64
		wantVelocity mgl64.Vec3
		wantPosition mgl64.Vec3
	}{
		{
			name:         "free fall",
			setup:        func(rb *Body) {},
			dt:           0.1,
			wantVelocity: mgl64.Vec3{0, 0, -0.98},
			wantPosition: mgl64.Vec3{0, 0, -0.098},
		},
		{
			name: "force cancels gravity",
			setup: func(rb *Body) {
				rb.AddForce(mgl64.Vec3{0, 0, 9.8})
				rb.Velocity = mgl64.Vec3{1, 0, 0}
			},
			dt:           0.1,
			wantVelocity: mgl64.Vec3{1, 0, 0},
			wantPosition: mgl64.Vec3{0.1, 0, 0},
		},
		{
			name: "velocity capped by bounding radius",
			setup: func(rb *Body) {
				rb.AddForce(mgl64.Vec3{0, 0, 9.8})
				rb.Velocity = mgl64.Vec3{100, 0, 0}
			},
			dt:           0.1,
			wantVelocity: mgl64.Vec3{10, 0, 0},
			wantPosition: mgl64.Vec3{1, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := dynamicSphere(t, 1, 1)
			tt.setup(rb)
			rb.Integrate(tt.dt, gravity)

			if !vec3AlmostEqual(rb.Velocity, tt.wantVelocity, 1e-9) {
				t.Errorf("Velocity = %v, want %v", rb.Velocity, tt.wantVelocity)
			}
			if !vec3AlmostEqual(rb.Transform().Position, tt.wantPosition, 1e-9) {
				t.Errorf("Position = %v, want %v", rb.Transform().Position, tt.wantPosition)
			}
			if rb.Force() != (mgl64.Vec3{}) {
				t.Error("forces should be cleared after integration")
			}
		})
	}
}

func TestIntegrate_LinearDamping(t *testing.T) {
	rb := dynamicSphere(t, 1, 1)
	rb.LinearDamping = 0.5
	rb.Velocity = mgl64.Vec3{0.5, 0, 0}

	rb.Integrate(1, mgl64.Vec3{})

	if !vec3AlmostEqual(rb.Velocity, mgl64.Vec3{0.25, 0, 0}, 1e-12) {
		t.Errorf("Velocity = %v, want (0.25, 0, 0)", rb.Velocity)
	}
}

func TestIntegrate_StaticDoesNotMove(t *testing.T) {
	rb := New(shape.NewSphere(1), nil)
	rb.Velocity = mgl64.Vec3{1, 0, 0}
	rb.Integrate(1, mgl64.Vec3{0, 0, -9.8})

	if !vec3AlmostEqual(rb.Transform().Position, mgl64.Vec3{}, epsilon) {
		t.Errorf("static body moved to %v", rb.Transform().Position)
	}
}

func TestIntegrate_Rotation(t *testing.T) {
	rb := dynamicSphere(t, 1, 1)
	rb.AngularVelocity = mgl64.Vec3{0, 0, math.Pi}

	for i := 0; i < 100; i++ {
		rb.Integrate(0.005, mgl64.Vec3{})
	}

	// Half a second at π rad/s is a quarter turn
	x := rb.Transform().DirectionPlaceIn(mgl64.Vec3{1, 0, 0})
	if !vec3AlmostEqual(x, mgl64.Vec3{0, 1, 0}, 0.02) {
		t.Errorf("rotated x axis = %v, want about (0, 1, 0)", x)
	}
	if !almostEqual(rb.Transform().Rotation.Len(), 1, 1e-9) {
		t.Errorf("rotation should stay normalized, len = %v", rb.Transform().Rotation.Len())
	}
}

// =============================================================================
// Material Tests
// =============================================================================

func TestCombineFriction(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"same", 0.5, 0.5, 0.5},
		{"geometric mean", 0.2, 0.8, 0.4},
		{"zero", 0, 1, 0},
		{"negative counts as zero", -1, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CombineFriction(tt.a, tt.b); !almostEqual(got, tt.want, 1e-12) {
				t.Errorf("CombineFriction(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCombineBounciness(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"average", 0, 1, 0.5},
		{"clamped high", 2, 1, 1},
		{"clamped low", -1, 0.5, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CombineBounciness(tt.a, tt.b); !almostEqual(got, tt.want, 1e-12) {
				t.Errorf("CombineBounciness(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestBodyID_Valid(t *testing.T) {
	if (BodyID{}).Valid() {
		t.Error("zero id should be invalid")
	}
	if !(BodyID{Index: 0, Generation: 1}).Valid() {
		t.Error("assigned id should be valid")
	}
}
