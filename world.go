package impulse

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/config"
	"github.com/akmonengine/impulse/constraint"
	"github.com/akmonengine/impulse/contact"
	"github.com/akmonengine/impulse/geom"
	"github.com/akmonengine/impulse/solver"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

const DEFAULT_WORKERS = 1

// World owns a set of bodies and the constraints between them, and steps them through time.
// A World is not safe for concurrent use.
type World struct {
	// Most recently added first
	bodies []*actor.Body
	// Body by id index, nil for free slots
	slots       []*actor.Body
	generations []uint32
	// Freed indices, reused last in first out
	freeIDs []uint32

	constraints []constraint.Group
	// Gravity acceleration (m/s², or N/kg)
	gravity mgl64.Vec3

	solver  solver.Config
	workers int
	logger  *zap.Logger

	collisions []Collision

	Events Events
}

// Collision holds the contacts found between two bodies during the last step.
// Normals point from Body1 towards Body2.
type Collision struct {
	Body1    actor.BodyID
	Body2    actor.BodyID
	Contacts []contact.Contact
}

type Option func(w *World)

func WithLogger(logger *zap.Logger) Option {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithConfig applies the gravity, solver tuning and worker count of cfg, a nil cfg is ignored
func WithConfig(cfg *config.Config) Option {
	return func(w *World) {
		if cfg == nil {
			return
		}
		w.gravity = cfg.GravityVector()
		w.solver = cfg.Solver
		w.workers = cfg.Workers
	}
}

// WithWorkers bounds the goroutines running the narrow phase
func WithWorkers(workers int) Option {
	return func(w *World) {
		w.workers = workers
	}
}

// NewWorld creates an empty world without gravity
func NewWorld(options ...Option) *World {
	w := &World{
		solver:  solver.DefaultConfig(),
		workers: DEFAULT_WORKERS,
		logger:  zap.NewNop(),
		Events:  NewEvents(),
	}
	for _, option := range options {
		option(w)
	}
	w.workers = max(DEFAULT_WORKERS, w.workers)

	return w
}

// Add inserts a body and returns its new id. Indices of removed bodies are reused first.
// Adding a body already in the world returns its current id.
func (w *World) Add(body *actor.Body) actor.BodyID {
	if w.contains(body) {
		return body.ID()
	}

	var index uint32
	if n := len(w.freeIDs); n > 0 {
		index = w.freeIDs[n-1]
		w.freeIDs = w.freeIDs[:n-1]
	} else {
		index = uint32(len(w.slots))
		w.slots = append(w.slots, nil)
		w.generations = append(w.generations, 0)
	}
	w.generations[index]++

	id := actor.BodyID{Index: index, Generation: w.generations[index]}
	body.SetID(id)
	w.slots[index] = body
	w.bodies = append([]*actor.Body{body}, w.bodies...)

	w.logger.Debug("body added",
		zap.Uint32("index", id.Index),
		zap.Uint32("generation", id.Generation),
		zap.Stringer("behavior", body.Behavior()),
	)

	return id
}

func (w *World) contains(body *actor.Body) bool {
	id := body.ID()
	return id.Valid() && int(id.Index) < len(w.slots) && w.slots[id.Index] == body
}

// Bodies returns the bodies, most recently added first. The slice must not be modified.
func (w *World) Bodies() []*actor.Body {
	return w.bodies
}

// Body returns the body with the given id, false when it was removed
func (w *World) Body(id actor.BodyID) (*actor.Body, bool) {
	if !id.Valid() || int(id.Index) >= len(w.slots) {
		return nil, false
	}
	body := w.slots[id.Index]
	if body == nil || body.ID() != id {
		return nil, false
	}
	return body, true
}

// Update calls fn on every body, e.g. to move a body under pointer control.
// Ids are owned by the world and survive fn.
func (w *World) Update(fn func(body *actor.Body)) {
	for _, body := range w.bodies {
		id := body.ID()
		fn(body)
		body.SetID(id)
	}
}

// KeepIf removes the bodies for which keep returns false, recycles their ids
// and drops every constraint that references them.
func (w *World) KeepIf(keep func(body *actor.Body) bool) {
	kept := w.bodies[:0]
	var removed []actor.BodyID
	for _, body := range w.bodies {
		if keep(body) {
			kept = append(kept, body)
			continue
		}
		removed = append(removed, body.ID())
	}
	clear(w.bodies[len(kept):])
	w.bodies = kept

	if len(removed) == 0 {
		return
	}

	for _, id := range removed {
		if body := w.slots[id.Index]; body != nil {
			body.SetID(actor.BodyID{})
		}
		w.slots[id.Index] = nil
		w.freeIDs = append(w.freeIDs, id.Index)
		w.Events.forget(id)

		w.logger.Debug("body removed", zap.Uint32("index", id.Index), zap.Uint32("generation", id.Generation))
	}

	groups := w.constraints[:0]
	for _, group := range w.constraints {
		if w.isAlive(group.Body1) && w.isAlive(group.Body2) {
			groups = append(groups, group)
		}
	}
	clear(w.constraints[len(groups):])
	w.constraints = groups
}

func (w *World) isAlive(id actor.BodyID) bool {
	_, ok := w.Body(id)
	return ok
}

// Constrain replaces every constraint of the world with the ones fn returns
// for each ordered pair of distinct bodies.
func (w *World) Constrain(fn func(body1, body2 *actor.Body) []constraint.Constraint) {
	w.ConstrainIf(func(*actor.Body) bool { return true }, fn)
}

// ConstrainIf drops the constraints between bodies that both pass the predicate,
// then calls fn for every ordered pair of distinct bodies passing it.
// Constraints returned by fn use the bodies' own frames.
func (w *World) ConstrainIf(predicate func(body *actor.Body) bool, fn func(body1, body2 *actor.Body) []constraint.Constraint) {
	selected := make([]*actor.Body, 0, len(w.bodies))
	passing := make(map[actor.BodyID]bool, len(w.bodies))
	for _, body := range w.bodies {
		if predicate(body) {
			selected = append(selected, body)
			passing[body.ID()] = true
		}
	}

	groups := w.constraints[:0]
	for _, group := range w.constraints {
		if !(passing[group.Body1] && passing[group.Body2]) {
			groups = append(groups, group)
		}
	}
	clear(w.constraints[len(groups):])
	w.constraints = groups

	for _, body1 := range selected {
		for _, body2 := range selected {
			if body1 == body2 {
				continue
			}
			constraints := fn(body1, body2)
			if len(constraints) == 0 {
				continue
			}

			local := make([]constraint.Constraint, len(constraints))
			for i, c := range constraints {
				local[i] = c.RelativeTo(body1.CenterOfMass(), body2.CenterOfMass())
			}
			w.constraints = append(w.constraints, constraint.Group{
				Body1:       body1.ID(),
				Body2:       body2.ID(),
				Constraints: local,
			})
		}
	}
}

// Constraints returns the constraint groups, in center of mass frames
func (w *World) Constraints() []constraint.Group {
	return w.constraints
}

// WithGravity sets the gravity to acceleration (m/s²) along direction
func (w *World) WithGravity(acceleration float64, direction mgl64.Vec3) *World {
	w.gravity = geom.Direction(direction).Mul(acceleration)
	return w
}

func (w *World) Gravity() mgl64.Vec3 {
	return w.gravity
}

// Collisions returns the contacts found during the last step
func (w *World) Collisions() []Collision {
	return w.collisions
}

// Simulate advances the world by dt seconds. A non-positive dt leaves it untouched.
func (w *World) Simulate(dt float64) {
	if !(dt > 0) {
		return
	}

	// Phase 1: Broad phase
	pairs := BroadPhase(w.bodies)

	// Phase 2: Narrow phase
	contacts := NarrowPhase(w.bodies, pairs, w.workers)

	// Phase 3: Solve and integrate
	constraints := w.constraintGroups()
	stats := solver.Solve(dt, w.gravity, w.bodies, contacts, constraints, w.solver)

	w.recordCollisions(contacts)
	w.Events.flush()

	w.logger.Debug("step",
		zap.Float64("dt", dt),
		zap.Int("bodies", len(w.bodies)),
		zap.Int("pairs", len(pairs)),
		zap.Int("collisions", len(contacts)),
		zap.Int("equations", stats.Equations),
		zap.Int("iterations", stats.Iterations),
		zap.Float64("residual", stats.Residual),
	)
}

// constraintGroups maps the constraint groups onto the current body order
func (w *World) constraintGroups() []solver.ConstraintGroup {
	if len(w.constraints) == 0 {
		return nil
	}

	positions := make(map[actor.BodyID]int, len(w.bodies))
	for i, body := range w.bodies {
		positions[body.ID()] = i
	}

	groups := make([]solver.ConstraintGroup, 0, len(w.constraints))
	for _, group := range w.constraints {
		body1, ok1 := positions[group.Body1]
		body2, ok2 := positions[group.Body2]
		if !ok1 || !ok2 {
			continue
		}
		groups = append(groups, solver.ConstraintGroup{Body1: body1, Body2: body2, Constraints: group.Constraints})
	}
	return groups
}

func (w *World) recordCollisions(contacts []solver.ContactGroup) {
	w.collisions = make([]Collision, len(contacts))
	for i, group := range contacts {
		collision := Collision{
			Body1:    w.bodies[group.Body1].ID(),
			Body2:    w.bodies[group.Body2].ID(),
			Contacts: group.Contacts,
		}
		w.collisions[i] = collision
		w.Events.recordCollision(collision.Body1, collision.Body2)
	}
}
