package roids

import (
	"time"
)

// Commands buffers structural changes made while systems run. The buffer
// is applied at the end of the stage, in the order systems were declared
// and, within a system, in the order commands were issued.
//
// A Commands value belongs to one system and is never shared between
// goroutines.
type Commands struct {
	w   *World
	ops []func(w *World)
}

func newCommands(w *World) *Commands {
	return &Commands{w: w}
}

// Spawn reserves an entity and queues its creation with the given
// components. The returned handle is valid immediately, but the entity is
// only visible to queries once the buffer is applied.
func (c *Commands) Spawn(components ...any) Entity {
	e := c.w.reserve()
	c.ops = append(c.ops, func(w *World) {
		w.materialize(e, components)
	})
	return e
}

// Despawn queues destruction of e. Despawning an entity twice, or one
// that is already gone, is a no-op.
func (c *Commands) Despawn(e Entity) {
	c.ops = append(c.ops, func(w *World) {
		w.Despawn(e)
	})
}

// Add queues attaching components to e. Skipped if e is gone by then.
func (c *Commands) Add(e Entity, components ...any) {
	c.ops = append(c.ops, func(w *World) {
		for _, comp := range components {
			w.attachAny(e, comp)
		}
	})
}

// AddFor queues attaching a component that expires after d of simulated
// time.
func (c *Commands) AddFor(e Entity, component any, d time.Duration) {
	c.ops = append(c.ops, func(w *World) {
		if !w.attachAny(e, component) {
			return
		}
		id, ok := w.registry.getID(reflectElem(component))
		if ok {
			w.expireAfter(e, id, d)
		}
	})
}

// RemoveLater queues removal of component T from e.
func RemoveLater[T any](c *Commands, e Entity) {
	c.ops = append(c.ops, func(w *World) {
		Remove[T](w, e)
	})
}

// RequestPhase records a phase change to apply after the tick completes.
// The latest request in a tick wins.
func (c *Commands) RequestPhase(p Phase) {
	c.ops = append(c.ops, func(w *World) {
		w.RequestPhase(p)
	})
}

// Dispatch queues an event for the registered handlers.
func (c *Commands) Dispatch(event any) {
	c.ops = append(c.ops, func(w *World) {
		w.Dispatch(event)
	})
}

// Run queues an arbitrary function with exclusive world access.
func (c *Commands) Run(fn func(w *World)) {
	c.ops = append(c.ops, fn)
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.ops)
}

// flush applies and clears the buffer.
func (c *Commands) flush() {
	for i := 0; i < len(c.ops); i++ {
		c.ops[i](c.w)
		c.ops[i] = nil
	}
	c.ops = c.ops[:0]
}
