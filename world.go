package roids

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"go.uber.org/zap"
)

// record holds the components attached to one live entity.
type record struct {
	entity     Entity
	mask       Bitmask
	components [MaxComponents]unsafe.Pointer

	// expirations tracks remaining simulated lifetime of timed components
	expirations map[ComponentID]time.Duration
}

// World owns every live entity, its components and the process-wide
// resources. It is driven one tick at a time by a host loop through Tick.
//
// Structural changes (spawn, despawn, add, remove) made directly on the
// world are applied immediately; systems running inside a tick should go
// through their Commands buffer so the change lands at the stage boundary.
type World struct {
	registry *componentRegistry

	// mu protects pool, records and record contents
	mu      sync.RWMutex
	pool    entityPool
	records []*record
	live    int

	resources   map[reflect.Type]unsafe.Pointer
	resourcesMu sync.RWMutex

	phases    phaseMachine
	scheduler *Scheduler
	bundles   []*Bundle
	handlers  []*handlerMeta

	// timersIn limits timed-component expiry to these phases (empty = all)
	timersIn []Phase

	clock Time
	log   *zap.Logger

	closed atomic.Bool
}

func newWorld(log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	w := &World{
		registry:  newComponentRegistry(),
		resources: make(map[reflect.Type]unsafe.Pointer),
		log:       log,
	}
	w.phases.init()
	w.scheduler = newScheduler(w)
	w.addResource(&w.clock)
	w.addResource(log)
	return w
}

// NewWorld returns an empty world with no systems, useful for tests and
// tools that drive the store directly. Use NewBuilder for a scheduled world.
func NewWorld(log *zap.Logger) *World {
	return newWorld(log)
}

// Log returns the world logger.
func (w *World) Log() *zap.Logger {
	return w.log
}

// Time returns the clock published at the start of the current tick.
func (w *World) Time() Time {
	return w.clock
}

// Spawn creates an entity with the given components (pointers to values).
func (w *World) Spawn(components ...any) Entity {
	e := w.reserve()
	w.materialize(e, components)
	return e
}

// reserve allocates an entity handle without making it visible.
func (w *World) reserve() Entity {
	w.mu.Lock()
	e := w.pool.create()
	w.mu.Unlock()
	return e
}

// materialize makes a reserved entity live and attaches its components.
func (w *World) materialize(e Entity, components []any) {
	w.mu.Lock()
	if !w.pool.current(e) {
		w.mu.Unlock()
		return
	}
	idx := int(e.Index())
	for len(w.records) <= idx {
		w.records = append(w.records, nil)
	}
	if w.records[idx] == nil {
		w.records[idx] = &record{entity: e}
		w.live++
	}
	w.mu.Unlock()

	for _, c := range components {
		w.attachAny(e, c)
	}
}

// Alive reports whether e refers to a live entity.
func (w *World) Alive(e Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.recordUnsafe(e) != nil
}

// Len returns the number of live entities.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.live
}

// Despawn destroys the entity and detaches all of its components.
// Despawning a dead or stale entity is a no-op and returns false.
func (w *World) Despawn(e Entity) bool {
	w.mu.Lock()
	rec := w.recordUnsafe(e)
	if rec == nil {
		w.mu.Unlock()
		return false
	}
	w.records[e.Index()] = nil
	w.live--
	w.pool.destroy(e)
	w.mu.Unlock()

	// Hooks run after the entity is gone so they cannot resurrect it.
	for id := range ComponentID(MaxComponents) {
		ptr := rec.components[id]
		if ptr == nil {
			continue
		}
		if t := w.registry.getType(id); t != nil {
			if d, ok := reflect.NewAt(t, ptr).Interface().(Detachable); ok {
				d.Detach(w, e)
			}
		}
	}

	w.Dispatch(Despawned{Entity: e})
	return true
}

// Despawned is dispatched after an entity has been destroyed.
type Despawned struct {
	Entity Entity
}

// recordUnsafe returns the live record for e. Caller must hold mu.
func (w *World) recordUnsafe(e Entity) *record {
	idx := int(e.Index())
	if e.IsZero() || idx >= len(w.records) {
		return nil
	}
	rec := w.records[idx]
	if rec == nil || rec.entity != e {
		return nil
	}
	return rec
}

// attachAny attaches a component given as a pointer of any type.
func (w *World) attachAny(e Entity, component any) bool {
	v := reflect.ValueOf(component)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		w.log.Warn("ignoring non-pointer component", zap.Stringer("entity", e), zap.String("type", fmt.Sprintf("%T", component)))
		return false
	}
	return w.attach(e, v.Type().Elem(), v.UnsafePointer(), component)
}

// reflectElem returns the pointed-to type of a component pointer.
func reflectElem(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t != nil && t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

func (w *World) attach(e Entity, t reflect.Type, ptr unsafe.Pointer, value any) bool {
	id := w.registry.register(t)

	w.mu.Lock()
	rec := w.recordUnsafe(e)
	if rec == nil {
		w.mu.Unlock()
		return false
	}
	old := rec.components[id]
	rec.components[id] = ptr
	rec.mask.Set(id)
	delete(rec.expirations, id)
	w.mu.Unlock()

	if old != nil && old != ptr {
		if d, ok := reflect.NewAt(t, old).Interface().(Detachable); ok {
			d.Detach(w, e)
		}
	}
	if a, ok := value.(Attachable); ok {
		a.Attach(w, e)
	}
	return true
}

func (w *World) detach(e Entity, id ComponentID) bool {
	w.mu.Lock()
	rec := w.recordUnsafe(e)
	if rec == nil || rec.components[id] == nil {
		w.mu.Unlock()
		return false
	}
	ptr := rec.components[id]
	rec.components[id] = nil
	rec.mask.Clear(id)
	delete(rec.expirations, id)
	w.mu.Unlock()

	if t := w.registry.getType(id); t != nil {
		if d, ok := reflect.NewAt(t, ptr).Interface().(Detachable); ok {
			d.Detach(w, e)
		}
	}
	return true
}

// AddFor attaches a component that is removed automatically after d of
// simulated time has elapsed.
func AddFor[T any](w *World, e Entity, component *T, d time.Duration) bool {
	if !Add(w, e, component) {
		return false
	}
	w.expireAfter(e, w.registry.register(typeOf[T]()), d)
	return true
}

// Remaining returns the remaining lifetime of a timed component.
func Remaining[T any](w *World, e Entity) (time.Duration, bool) {
	id, ok := w.registry.getID(typeOf[T]())
	if !ok {
		return 0, false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	rec := w.recordUnsafe(e)
	if rec == nil {
		return 0, false
	}
	d, ok := rec.expirations[id]
	return d, ok
}

func (w *World) expireAfter(e Entity, id ComponentID, d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	rec := w.recordUnsafe(e)
	if rec == nil || !rec.mask.Has(id) {
		return
	}
	if rec.expirations == nil {
		rec.expirations = make(map[ComponentID]time.Duration)
	}
	rec.expirations[id] = d
}

// processExpirations advances timed components by dt and removes the
// ones whose lifetime has run out.
func (w *World) processExpirations(dt time.Duration) {
	type expired struct {
		e  Entity
		id ComponentID
	}
	var due []expired

	w.mu.Lock()
	for _, rec := range w.records {
		if rec == nil || len(rec.expirations) == 0 {
			continue
		}
		var ids []ComponentID
		for id, left := range rec.expirations {
			left -= dt
			if left <= 0 {
				ids = append(ids, id)
				continue
			}
			rec.expirations[id] = left
		}
		slices.Sort(ids)
		for _, id := range ids {
			delete(rec.expirations, id)
			due = append(due, expired{rec.entity, id})
		}
	}
	w.mu.Unlock()

	for _, x := range due {
		w.detach(x.e, x.id)
	}
}

// addResource registers a process-wide resource keyed by its type.
func (w *World) addResource(res any) {
	t := reflect.TypeOf(res)
	if t.Kind() != reflect.Ptr {
		w.log.Warn("ignoring non-pointer resource", zap.String("type", t.String()))
		return
	}

	w.resourcesMu.Lock()
	w.resources[t.Elem()] = reflect.ValueOf(res).UnsafePointer()
	w.resourcesMu.Unlock()
}

func (w *World) getResource(t reflect.Type) unsafe.Pointer {
	w.resourcesMu.RLock()
	defer w.resourcesMu.RUnlock()
	return w.resources[t]
}

// SetResource registers or replaces a resource. Systems that inject the
// resource see the new value from their next run.
func (w *World) SetResource(res any) {
	w.addResource(res)
}

// Resource retrieves a resource by type, or nil if none is registered.
func Resource[T any](w *World) *T {
	if w == nil {
		return nil
	}
	ptr := w.getResource(typeOf[T]())
	if ptr == nil {
		return nil
	}
	return (*T)(ptr)
}

// Close stops the scheduler workers. The world must not be ticked after.
func (w *World) Close() {
	if w.closed.Swap(true) {
		return
	}
	w.scheduler.stop()
}
