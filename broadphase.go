package impulse

import "github.com/akmonengine/impulse/actor"

// Pair is a pair of bodies, by position in the world body list, that might be colliding
type Pair struct {
	Body1 int
	Body2 int
}

// BroadPhase returns the pairs whose bounding spheres overlap.
// Pairs where neither body has mass are skipped since no contact could move them.
// This is an O(n²) brute-force approach suitable for small numbers of bodies.
func BroadPhase(bodies []*actor.Body) []Pair {
	var pairs []Pair
	for i := 0; i < len(bodies); i++ {
		body1 := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			body2 := bodies[j]
			if body1.Mass()+body2.Mass() == 0 {
				continue
			}
			if !body1.BoundingSphere().Overlaps(body2.BoundingSphere()) {
				continue
			}
			pairs = append(pairs, Pair{Body1: i, Body2: j})
		}
	}
	return pairs
}
