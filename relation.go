package roids

import (
	"reflect"
)

// Relation is a typed reference from one entity to another. The type
// parameter names the component the target is expected to carry.
// Relations hold generational handles, so a despawned target simply stops
// resolving and needs no cleanup pass.
//
// Usage:
//
//	type Shield struct {
//	    Visual roids.Relation[Transform]
//	}
type Relation[T any] struct {
	target Entity
}

// Set points the relation at target.
func (r *Relation[T]) Set(target Entity) {
	r.target = target
}

// Clear removes the target reference.
func (r *Relation[T]) Clear() {
	r.target = 0
}

// Target returns the raw target handle, which may be stale.
func (r *Relation[T]) Target() Entity {
	return r.target
}

// Get returns the target if it is alive and carries T.
func (r *Relation[T]) Get(w *World) (Entity, bool) {
	if r.target.IsZero() || !Has[T](w, r.target) {
		return 0, false
	}
	return r.target, true
}

// TargetType returns the reflect.Type of the component the target must have.
func (r *Relation[T]) TargetType() reflect.Type {
	return typeOf[T]()
}

// isRelationType checks if a value is a *Relation[T].
func isRelationType(v any) bool {
	_, ok := v.(interface{ Target() Entity })
	return ok
}
