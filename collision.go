package impulse

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/contact"
	"github.com/akmonengine/impulse/geom"
	"github.com/akmonengine/impulse/solver"
)

// NarrowPhase runs the exact shape tests of every candidate pair, spread over
// workersCount goroutines. Bodies are only read. Groups keep the order of pairs.
func NarrowPhase(bodies []*actor.Body, pairs []Pair, workersCount int) []solver.ContactGroup {
	results := make([][]contact.Contact, len(pairs))
	task(workersCount, pairs, func(i int, pair Pair) {
		results[i] = collide(bodies[pair.Body1], bodies[pair.Body2])
	})

	groups := make([]solver.ContactGroup, 0, len(pairs))
	for i, contacts := range results {
		if len(contacts) == 0 {
			continue
		}
		groups = append(groups, solver.ContactGroup{
			Body1:    pairs[i].Body1,
			Body2:    pairs[i].Body2,
			Contacts: contacts,
		})
	}
	return groups
}

// collide tests every shape of body1 against every shape of body2
func collide(body1, body2 *actor.Body) []contact.Contact {
	var contacts []contact.Contact
	for _, shape1 := range body1.WorldShapes() {
		bounds1 := geom.BoundingSphere{Center: shape1.Center(), Radius: shape1.BoundingRadius()}
		for _, shape2 := range body2.WorldShapes() {
			bounds2 := geom.BoundingSphere{Center: shape2.Center(), Radius: shape2.BoundingRadius()}
			if !bounds1.Overlaps(bounds2) {
				continue
			}
			contacts = append(contacts, contact.Between(shape1, shape2)...)
		}
	}
	return contacts
}
