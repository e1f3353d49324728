package physics2d

import "github.com/hollow-engine/physics2d/body"

// EventType identifies one of the pub-sub events the engine can emit.
type EventType uint8

const (
	CollisionEnter EventType = iota
	CollisionStay
	CollisionExit
	BodySleep
	BodyWake
)

// Event is implemented by every concrete event type below.
type Event interface {
	Type() EventType
}

// CollisionEnterEvent fires the first step a pair's contact is confirmed.
type CollisionEnterEvent struct{ BodyA, BodyB *body.RigidBody }

func (e CollisionEnterEvent) Type() EventType { return CollisionEnter }

// CollisionStayEvent fires every subsequent step the pair stays confirmed.
type CollisionStayEvent struct{ BodyA, BodyB *body.RigidBody }

func (e CollisionStayEvent) Type() EventType { return CollisionStay }

// CollisionExitEvent fires the step a previously-confirmed pair is no
// longer confirmed (the manifold cache evicted it).
type CollisionExitEvent struct{ BodyA, BodyB *body.RigidBody }

func (e CollisionExitEvent) Type() EventType { return CollisionExit }

// BodySleepEvent/BodyWakeEvent fire on a body's sleeping-flag transition.
type BodySleepEvent struct{ Body *body.RigidBody }

func (e BodySleepEvent) Type() EventType { return BodySleep }

type BodyWakeEvent struct{ Body *body.RigidBody }

func (e BodyWakeEvent) Type() EventType { return BodyWake }

// EventListener is a subscriber callback.
type EventListener func(Event)

// Events diffs each step's confirmed collisions and body sleeping flags
// against its own record of the previous step: the previous step's confirmed
// pairs (previousPairs) and each body's previous sleeping flag (sleepStates).
type Events struct {
	listeners map[EventType][]EventListener

	previousPairs map[uint64][2]*body.RigidBody
	sleepStates   map[*body.RigidBody]bool
}

// NewEvents returns an empty pub-sub hub.
func NewEvents() *Events {
	return &Events{
		listeners:     make(map[EventType][]EventListener),
		previousPairs: make(map[uint64][2]*body.RigidBody),
		sleepStates:   make(map[*body.RigidBody]bool),
	}
}

// Subscribe registers listener for eventType.
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(ev Event) {
	for _, l := range e.listeners[ev.Type()] {
		l(ev)
	}
}

// syncCollisions compares this step's confirmed collisions against the
// previous step's set and emits Enter/Stay/Exit, then remembers the new set.
func (e *Events) syncCollisions(collisions []*Collision) {
	current := make(map[uint64][2]*body.RigidBody, len(collisions))
	for _, c := range collisions {
		current[c.ID] = [2]*body.RigidBody{c.BodyA, c.BodyB}
		if _, existed := e.previousPairs[c.ID]; existed {
			e.emit(CollisionStayEvent{BodyA: c.BodyA, BodyB: c.BodyB})
		} else {
			e.emit(CollisionEnterEvent{BodyA: c.BodyA, BodyB: c.BodyB})
		}
	}
	for id, pair := range e.previousPairs {
		if _, stillActive := current[id]; !stillActive {
			e.emit(CollisionExitEvent{BodyA: pair[0], BodyB: pair[1]})
		}
	}
	e.previousPairs = current
}

// syncSleep compares each body's current sleeping flag against the last
// tracked value and emits Sleep/Wake transitions, then forgets bodies no
// longer present (the engine calls this with its current body list only).
func (e *Events) syncSleep(bodies []*body.RigidBody) {
	seen := make(map[*body.RigidBody]bool, len(bodies))
	for _, b := range bodies {
		seen[b] = true
		prev, tracked := e.sleepStates[b]
		if !tracked {
			e.sleepStates[b] = b.Sleeping
			continue
		}
		if !prev && b.Sleeping {
			e.emit(BodySleepEvent{Body: b})
		} else if prev && !b.Sleeping {
			e.emit(BodyWakeEvent{Body: b})
		}
		e.sleepStates[b] = b.Sleeping
	}
	for b := range e.sleepStates {
		if !seen[b] {
			delete(e.sleepStates, b)
		}
	}
}

// forget drops any bookkeeping referencing body, called by RemoveBody.
func (e *Events) forget(b *body.RigidBody) {
	delete(e.sleepStates, b)
	for id, pair := range e.previousPairs {
		if pair[0] == b || pair[1] == b {
			delete(e.previousPairs, id)
		}
	}
}
