package game

import (
	"slices"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/roids"
)

func spawnBody(w *roids.World, pos mgl64.Vec3, radius float64) roids.Entity {
	tr := NewTransform(pos)
	return w.Spawn(&tr, &Collider{Radius: radius})
}

func TestDetectCollisions(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		want     bool
	}{
		{"overlapping", 1.9, true},
		{"touching", 2, false},
		{"apart", 2.1, false},
		{"same centre", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newSystemsWorld(t, roids.NewBundle("collide").
				Loop(&DetectCollisions{}, roids.CollisionDetection))
			a := spawnBody(w, mgl64.Vec3{}, 1)
			b := spawnBody(w, mgl64.Vec3{tt.distance, 0, 0}, 1)

			w.Tick(time.Millisecond)

			ca, cb := roids.Get[Collider](w, a), roids.Get[Collider](w, b)
			if got := slices.Contains(ca.Colliding, b); got != tt.want {
				t.Errorf("a lists b = %v, want %v", got, tt.want)
			}
			if got := slices.Contains(cb.Colliding, a); got != tt.want {
				t.Errorf("b lists a = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollisionListsRebuilt(t *testing.T) {
	w := newSystemsWorld(t, roids.NewBundle("collide").
		Loop(&DetectCollisions{}, roids.CollisionDetection))

	a := spawnBody(w, mgl64.Vec3{}, 1)
	b := spawnBody(w, mgl64.Vec3{1, 0, 0}, 1)
	c := spawnBody(w, mgl64.Vec3{0, 0, 1}, 1)

	w.Tick(time.Millisecond)
	if got := roids.Get[Collider](w, a).Colliding; !slices.Equal(got, []roids.Entity{b, c}) {
		t.Fatalf("a colliding = %v, want [%v %v]", got, b, c)
	}

	roids.Get[Transform](w, c).Position = mgl64.Vec3{0, 0, 10}
	w.Tick(time.Millisecond)

	if got := roids.Get[Collider](w, a).Colliding; !slices.Equal(got, []roids.Entity{b}) {
		t.Errorf("a colliding = %v, want [%v]", got, b)
	}
	if got := roids.Get[Collider](w, c).Colliding; len(got) != 0 {
		t.Errorf("c colliding = %v, want none", got)
	}
}
