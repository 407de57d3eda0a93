package impulse

import (
	"math"

	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/geom"
	"github.com/akmonengine/impulse/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// RaycastResult is the nearest hit of a ray, in world space
type RaycastResult struct {
	Body     *actor.Body
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// Raycast returns the nearest body surface hit by the ray, false when nothing is hit.
// Rays starting inside a shape do not hit it.
func (w *World) Raycast(ray geom.Ray) (RaycastResult, bool) {
	ray.Direction = geom.Direction(ray.Direction)

	var best RaycastResult
	best.Distance = math.Inf(1)
	found := false

	for _, body := range w.bodies {
		for _, s := range body.WorldShapes() {
			hit, ok := shape.Raycast(ray, s)
			if !ok || hit.Distance >= best.Distance {
				continue
			}
			best = RaycastResult{Body: body, Point: hit.Point, Normal: hit.Normal, Distance: hit.Distance}
			found = true
		}
	}

	return best, found
}
