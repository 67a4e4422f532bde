package roids

import (
	"testing"
	"time"
)

type position struct{ X, Y float64 }

type velocity struct{ X, Y float64 }

type marker struct{}

type hooked struct {
	attached, detached *int
}

func (h *hooked) Attach(*World, Entity) { *h.attached++ }
func (h *hooked) Detach(*World, Entity) { *h.detached++ }

func TestSpawnAndGet(t *testing.T) {
	w := NewWorld(nil)

	e := w.Spawn(&position{1, 2}, &velocity{3, 4})
	if !w.Alive(e) {
		t.Fatalf("spawned entity not alive")
	}
	if got := Get[position](w, e); got == nil || *got != (position{1, 2}) {
		t.Errorf("Get[position] = %v, want {1 2}", got)
	}
	if Has[marker](w, e) {
		t.Errorf("Has[marker] = true, want false")
	}
	if got := w.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestAddReplaceRemove(t *testing.T) {
	w := NewWorld(nil)
	e := w.Spawn()

	if !Add(w, e, &position{1, 1}) {
		t.Fatalf("Add = false on live entity")
	}
	Add(w, e, &position{2, 2})
	if got := Get[position](w, e); got.X != 2 {
		t.Errorf("replaced component X = %v, want 2", got.X)
	}

	if !Remove[position](w, e) {
		t.Errorf("Remove = false, want true")
	}
	if Remove[position](w, e) {
		t.Errorf("second Remove = true, want false")
	}
	if Get[position](w, e) != nil {
		t.Errorf("component still present after Remove")
	}
}

func TestDespawnIsIdempotent(t *testing.T) {
	w := NewWorld(nil)
	e := w.Spawn(&position{})

	if !w.Despawn(e) {
		t.Fatalf("Despawn = false, want true")
	}
	if w.Despawn(e) {
		t.Errorf("second Despawn = true, want false")
	}
	if w.Alive(e) || Get[position](w, e) != nil {
		t.Errorf("despawned entity still resolves")
	}
	if Add(w, e, &velocity{}) {
		t.Errorf("Add on dead entity = true, want false")
	}

	// The slot is reused, but the stale handle must not see the new entity.
	f := w.Spawn(&position{5, 5})
	if f.Index() != e.Index() {
		t.Fatalf("slot not reused")
	}
	if Get[position](w, e) != nil {
		t.Errorf("stale handle resolves to new entity")
	}
}

func TestComponentHooks(t *testing.T) {
	w := NewWorld(nil)
	var attached, detached int

	e := w.Spawn(&hooked{&attached, &detached})
	if attached != 1 {
		t.Errorf("attached = %d, want 1", attached)
	}

	Add(w, e, &hooked{&attached, &detached})
	if attached != 2 || detached != 1 {
		t.Errorf("after replace attached, detached = %d, %d, want 2, 1", attached, detached)
	}

	w.Despawn(e)
	if detached != 2 {
		t.Errorf("after despawn detached = %d, want 2", detached)
	}
}

func TestTimedComponents(t *testing.T) {
	w := NewWorld(nil)
	e := w.Spawn()
	AddFor(w, e, &marker{}, 100*time.Millisecond)

	if left, ok := Remaining[marker](w, e); !ok || left != 100*time.Millisecond {
		t.Fatalf("Remaining = %v, %v, want 100ms, true", left, ok)
	}

	w.Tick(60 * time.Millisecond)
	if !Has[marker](w, e) {
		t.Fatalf("component expired early")
	}
	w.Tick(40 * time.Millisecond)
	if Has[marker](w, e) {
		t.Errorf("component outlived its lifetime")
	}

	// Plain Add clears a pending expiry.
	AddFor(w, e, &marker{}, 10*time.Millisecond)
	Add(w, e, &marker{})
	w.Tick(time.Second)
	if !Has[marker](w, e) {
		t.Errorf("re-added component expired")
	}
}

func TestTimersFrozenOutsidePhases(t *testing.T) {
	w, err := NewBuilder().TimersIn(InGame).Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer w.Close()

	e := w.Spawn()
	AddFor(w, e, &marker{}, 10*time.Millisecond)
	w.Tick(time.Second)
	if !Has[marker](w, e) {
		t.Errorf("timed component expired while in %s", w.Phase())
	}
}

func TestResources(t *testing.T) {
	w := NewWorld(nil)
	if Resource[position](w) != nil {
		t.Fatalf("unexpected resource")
	}

	w.SetResource(&position{1, 2})
	if got := Resource[position](w); got == nil || got.Y != 2 {
		t.Errorf("Resource = %v, want {1 2}", got)
	}
	if Resource[Time](w) == nil {
		t.Errorf("clock resource not registered")
	}
}
