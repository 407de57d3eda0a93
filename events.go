package impulse

import "github.com/akmonengine/impulse/actor"

const (
	COLLISION_ENTER EventType = iota
	COLLISION_STAY
	COLLISION_EXIT
)

type pairKey struct {
	body1 actor.BodyID
	body2 actor.BodyID
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(body1, body2 actor.BodyID) pairKey {
	if body2.Index < body1.Index || (body2.Index == body1.Index && body2.Generation < body1.Generation) {
		body1, body2 = body2, body1
	}

	return pairKey{body1: body1, body2: body2}
}

type EventType uint8

func (t EventType) String() string {
	switch t {
	case COLLISION_ENTER:
		return "collision_enter"
	case COLLISION_STAY:
		return "collision_stay"
	case COLLISION_EXIT:
		return "collision_exit"
	default:
		return "unknown"
	}
}

// Event interface - all events implement this
type Event interface {
	Type() EventType
	Bodies() (actor.BodyID, actor.BodyID)
}

type CollisionEnterEvent struct {
	Body1 actor.BodyID
	Body2 actor.BodyID
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }
func (e CollisionEnterEvent) Bodies() (actor.BodyID, actor.BodyID) { return e.Body1, e.Body2 }

type CollisionStayEvent struct {
	Body1 actor.BodyID
	Body2 actor.BodyID
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }
func (e CollisionStayEvent) Bodies() (actor.BodyID, actor.BodyID) { return e.Body1, e.Body2 }

type CollisionExitEvent struct {
	Body1 actor.BodyID
	Body2 actor.BodyID
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }
func (e CollisionExitEvent) Bodies() (actor.BodyID, actor.BodyID) { return e.Body1, e.Body2 }

// EventListener - callback for events
type EventListener func(event Event)

// Events dispatches collision events at the end of every step
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Collision tracking for Enter/Stay/Exit detection
	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 64),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordCollision marks a pair as touching during the current step
func (e *Events) recordCollision(body1, body2 actor.BodyID) {
	e.currentActivePairs[makePairKey(body1, body2)] = true
}

// forget drops a removed body from the tracked pairs, no exit event is sent for it
func (e *Events) forget(id actor.BodyID) {
	for pair := range e.previousActivePairs {
		if pair.body1 == id || pair.body2 == id {
			delete(e.previousActivePairs, pair)
		}
	}
	for pair := range e.currentActivePairs {
		if pair.body1 == id || pair.body2 == id {
			delete(e.currentActivePairs, pair)
		}
	}
}

// processCollisionEvents compares current and previous pairs to detect Enter/Stay/Exit
func (e *Events) processCollisionEvents() {
	for pair := range e.currentActivePairs {
		if e.previousActivePairs[pair] {
			e.buffer = append(e.buffer, CollisionStayEvent{Body1: pair.body1, Body2: pair.body2})
		} else {
			e.buffer = append(e.buffer, CollisionEnterEvent{Body1: pair.body1, Body2: pair.body2})
		}
	}

	for pair := range e.previousActivePairs {
		if !e.currentActivePairs[pair] {
			e.buffer = append(e.buffer, CollisionExitEvent{Body1: pair.body1, Body2: pair.body2})
		}
	}

	// Swap for next frame and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processCollisionEvents()

	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	e.buffer = e.buffer[:0]
}
