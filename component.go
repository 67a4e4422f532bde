package roids

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"
)

// ComponentID is a unique identifier for a component type within a world.
type ComponentID uint8

// MaxComponents is the maximum number of component types a world supports.
const MaxComponents = 128

// ErrComponentLimit is returned when a world runs out of component IDs.
var ErrComponentLimit = errors.New("roids: component limit exceeded")

// componentRegistry assigns component IDs on first use.
// sync.Map keeps the lookup path lock-free since registration is rare and
// lookups happen on every Get.
type componentRegistry struct {
	types sync.Map // map[reflect.Type]ComponentID

	names    [MaxComponents]string
	typesArr [MaxComponents]reflect.Type
	arrMu    sync.RWMutex

	nextID atomic.Uint32
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{}
}

// register returns the ID for t, allocating one if needed.
func (r *componentRegistry) register(t reflect.Type) ComponentID {
	if id, ok := r.types.Load(t); ok {
		return id.(ComponentID)
	}

	n := r.nextID.Add(1) - 1
	if n >= MaxComponents {
		panic(fmt.Errorf("%w (max %d types, registering %s)", ErrComponentLimit, MaxComponents, t))
	}
	newID := ComponentID(n)

	actual, loaded := r.types.LoadOrStore(t, newID)
	if loaded {
		// lost the race; the allocated ID stays unused
		return actual.(ComponentID)
	}

	r.arrMu.Lock()
	r.names[newID] = t.Name()
	r.typesArr[newID] = t
	r.arrMu.Unlock()

	return newID
}

func (r *componentRegistry) getID(t reflect.Type) (ComponentID, bool) {
	if id, ok := r.types.Load(t); ok {
		return id.(ComponentID), true
	}
	return 0, false
}

func (r *componentRegistry) getName(id ComponentID) string {
	r.arrMu.RLock()
	defer r.arrMu.RUnlock()
	return r.names[id]
}

func (r *componentRegistry) getType(id ComponentID) reflect.Type {
	r.arrMu.RLock()
	defer r.arrMu.RUnlock()
	return r.typesArr[id]
}

func (r *componentRegistry) count() int {
	return int(r.nextID.Load())
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Attachable is implemented by components that need initialization logic
// when attached to an entity.
type Attachable interface {
	Attach(w *World, e Entity)
}

// Detachable is implemented by components that need cleanup logic when
// removed from an entity or when the entity is despawned.
type Detachable interface {
	Detach(w *World, e Entity)
}

// Add attaches a component to the entity, replacing any component of the
// same type. Returns false if the entity is not alive.
//
// Inside a tick, prefer Commands.Add so that the change lands at the stage
// boundary.
func Add[T any](w *World, e Entity, component *T) bool {
	if w == nil || component == nil {
		return false
	}
	return w.attach(e, typeOf[T](), unsafe.Pointer(component), any(component))
}

// Remove detaches a component from the entity. Detachable components are
// notified after the component is gone.
func Remove[T any](w *World, e Entity) bool {
	if w == nil {
		return false
	}
	id, ok := w.registry.getID(typeOf[T]())
	if !ok {
		return false
	}
	return w.detach(e, id)
}

// Get retrieves a component from the entity, or nil if absent.
//
// The pointer aliases the stored component; systems that declare the
// component mutable may write through it.
func Get[T any](w *World, e Entity) *T {
	if w == nil {
		return nil
	}
	id, ok := w.registry.getID(typeOf[T]())
	if !ok {
		return nil
	}

	w.mu.RLock()
	rec := w.recordUnsafe(e)
	var ptr unsafe.Pointer
	if rec != nil {
		ptr = rec.components[id]
	}
	w.mu.RUnlock()

	if ptr == nil {
		return nil
	}
	return (*T)(ptr)
}

// Has checks if a component type is present on the entity.
func Has[T any](w *World, e Entity) bool {
	if w == nil {
		return false
	}
	id, ok := w.registry.getID(typeOf[T]())
	if !ok {
		return false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	rec := w.recordUnsafe(e)
	return rec != nil && rec.mask.Has(id)
}

// ComponentName returns the registered name of the component ID in w.
func (w *World) ComponentName(id ComponentID) string {
	return w.registry.getName(id)
}

// RegisteredComponentCount returns the number of component types in w.
func (w *World) RegisteredComponentCount() int {
	return w.registry.count()
}
