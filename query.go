package roids

import (
	"unsafe"
)

func (w *World) filterMasks(filters []Filter) (require, exclude Bitmask) {
	for _, f := range filters {
		id := w.registry.register(f.ComponentType())
		if f.IsWithout() {
			exclude.Set(id)
		} else {
			require.Set(id)
		}
	}
	return require, exclude
}

// matching returns the live entities satisfying the masks, in ascending
// index order.
func (w *World) matching(require, exclude Bitmask) []Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []Entity
	for _, rec := range w.records {
		if rec != nil && rec.mask.Matches(require, exclude) {
			out = append(out, rec.entity)
		}
	}
	return out
}

// snapshot collects, for each match, the component pointers for ids.
// The returned slice holds len(ids) pointers per entity.
func (w *World) snapshot(ids []ComponentID, filters []Filter) ([]Entity, []unsafe.Pointer) {
	require, exclude := w.filterMasks(filters)
	for _, id := range ids {
		require.Set(id)
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	var ents []Entity
	var ptrs []unsafe.Pointer
	for _, rec := range w.records {
		if rec == nil || !rec.mask.Matches(require, exclude) {
			continue
		}
		ents = append(ents, rec.entity)
		for _, id := range ids {
			ptrs = append(ptrs, rec.components[id])
		}
	}
	return ents, ptrs
}

// Query returns the live entities matching all filters.
func (w *World) Query(filters ...Filter) []Entity {
	require, exclude := w.filterMasks(filters)
	return w.matching(require, exclude)
}

// Count returns how many live entities match all filters.
func (w *World) Count(filters ...Filter) int {
	require, exclude := w.filterMasks(filters)
	w.mu.RLock()
	defer w.mu.RUnlock()
	n := 0
	for _, rec := range w.records {
		if rec != nil && rec.mask.Matches(require, exclude) {
			n++
		}
	}
	return n
}

// Each calls fn for every entity carrying A. Matches are collected before
// the first call, so fn may change the world freely.
func Each[A any](w *World, fn func(e Entity, a *A), filters ...Filter) {
	ids := []ComponentID{w.registry.register(typeOf[A]())}
	ents, ptrs := w.snapshot(ids, filters)
	for i, e := range ents {
		fn(e, (*A)(ptrs[i]))
	}
}

// Each2 calls fn for every entity carrying both A and B.
func Each2[A, B any](w *World, fn func(e Entity, a *A, b *B), filters ...Filter) {
	ids := []ComponentID{
		w.registry.register(typeOf[A]()),
		w.registry.register(typeOf[B]()),
	}
	ents, ptrs := w.snapshot(ids, filters)
	for i, e := range ents {
		fn(e, (*A)(ptrs[2*i]), (*B)(ptrs[2*i+1]))
	}
}

// Each3 calls fn for every entity carrying A, B and C.
func Each3[A, B, C any](w *World, fn func(e Entity, a *A, b *B, c *C), filters ...Filter) {
	ids := []ComponentID{
		w.registry.register(typeOf[A]()),
		w.registry.register(typeOf[B]()),
		w.registry.register(typeOf[C]()),
	}
	ents, ptrs := w.snapshot(ids, filters)
	for i, e := range ents {
		fn(e, (*A)(ptrs[3*i]), (*B)(ptrs[3*i+1]), (*C)(ptrs[3*i+2]))
	}
}

// Single returns the only entity carrying T. It reports false when there
// is no match or more than one.
func Single[T any](w *World, filters ...Filter) (Entity, *T, bool) {
	ids := []ComponentID{w.registry.register(typeOf[T]())}
	ents, ptrs := w.snapshot(ids, filters)
	if len(ents) != 1 {
		return 0, nil, false
	}
	return ents[0], (*T)(ptrs[0]), true
}
