package roids

import "testing"

func TestEntityPoolReuse(t *testing.T) {
	var p entityPool

	a := p.create()
	b := p.create()
	if a.IsZero() || b.IsZero() {
		t.Fatalf("pool issued the zero entity")
	}
	if a.Index() == b.Index() {
		t.Fatalf("indices collide: %v %v", a, b)
	}

	if !p.destroy(a) {
		t.Fatalf("destroy(%v) = false, want true", a)
	}
	if p.destroy(a) {
		t.Errorf("second destroy(%v) = true, want false", a)
	}
	if p.current(a) {
		t.Errorf("destroyed handle %v still current", a)
	}

	c := p.create()
	if c.Index() != a.Index() {
		t.Errorf("index = %d, want reused %d", c.Index(), a.Index())
	}
	if c.Generation() != a.Generation()+1 {
		t.Errorf("generation = %d, want %d", c.Generation(), a.Generation()+1)
	}
	if c == a {
		t.Errorf("reused slot produced an equal handle")
	}
}

func TestEntityString(t *testing.T) {
	tests := []struct {
		e    Entity
		want string
	}{
		{0, "none"},
		{newEntity(0, 1), "0v1"},
		{newEntity(12, 3), "12v3"},
	}
	for _, tt := range tests {
		if got := tt.e.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestBitmask(t *testing.T) {
	var m Bitmask
	for _, id := range []ComponentID{0, 63, 64, 127} {
		m.Set(id)
		if !m.Has(id) {
			t.Errorf("Has(%d) = false after Set", id)
		}
	}
	if got := m.Count(); got != 4 {
		t.Errorf("Count() = %d, want 4", got)
	}

	m.Clear(64)
	if m.Has(64) {
		t.Errorf("Has(64) = true after Clear")
	}

	var require, exclude Bitmask
	require.Set(0)
	require.Set(127)
	exclude.Set(64)
	if !m.Matches(require, exclude) {
		t.Errorf("Matches = false, want true")
	}
	m.Set(64)
	if m.Matches(require, exclude) {
		t.Errorf("Matches with excluded bit = true, want false")
	}

	var zero Bitmask
	if !zero.IsZero() || m.IsZero() {
		t.Errorf("IsZero mismatch")
	}
}
