package roids

import (
	"testing"
	"time"
)

func TestCommandsDeferred(t *testing.T) {
	w := NewWorld(nil)
	c := newCommands(w)

	e := c.Spawn(&position{1, 1})
	if e.IsZero() {
		t.Fatalf("Spawn returned the zero entity")
	}
	if w.Alive(e) {
		t.Fatalf("entity visible before flush")
	}
	c.Add(e, &velocity{2, 2})
	if got := c.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}

	c.flush()
	if !w.Alive(e) || !Has[velocity](w, e) {
		t.Fatalf("flush did not materialize the entity")
	}
	if c.Len() != 0 {
		t.Errorf("buffer not cleared")
	}
}

func TestCommandsDespawnTwice(t *testing.T) {
	w := NewWorld(nil)
	e := w.Spawn(&position{})
	c := newCommands(w)

	c.Despawn(e)
	c.Despawn(e)
	c.Add(e, &velocity{})
	RemoveLater[position](c, e)
	c.flush()

	if w.Alive(e) {
		t.Errorf("entity alive after despawn")
	}
	if got := w.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestCommandsOrder(t *testing.T) {
	w := NewWorld(nil)
	c := newCommands(w)
	var order []int

	for i := range 3 {
		c.Run(func(*World) { order = append(order, i) })
	}
	c.flush()

	for i, got := range order {
		if got != i {
			t.Fatalf("order = %v, want [0 1 2]", order)
		}
	}
}

func TestCommandsAddFor(t *testing.T) {
	w := NewWorld(nil)
	e := w.Spawn()
	c := newCommands(w)

	c.AddFor(e, &marker{}, 50*time.Millisecond)
	c.AddFor(e, marker{}, time.Second) // not a pointer: ignored
	c.flush()

	if left, ok := Remaining[marker](w, e); !ok || left != 50*time.Millisecond {
		t.Errorf("Remaining = %v, %v, want 50ms, true", left, ok)
	}
}

func TestCommandsRequestPhase(t *testing.T) {
	w := NewWorld(nil)
	c := newCommands(w)

	c.RequestPhase(InGame)
	c.RequestPhase(MainMenu)
	c.flush()

	if p, ok := w.PendingPhase(); !ok || p != MainMenu {
		t.Errorf("PendingPhase = %s, %v, want MainMenu, true", p, ok)
	}
}
