package game

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/roids"
)

// HUDState is the read-only view a host draws over the scene.
type HUDState struct {
	Phase          roids.Phase
	Health         int
	Score          int
	ShieldActive   bool
	ShieldFraction float64 // remaining shield time in [0, 1]
	CanFire        bool
	BestScore      int
	Asteroids      int
}

// HUD collects the values shown to the player.
func HUD(w *roids.World) HUDState {
	st := HUDState{
		Phase:     w.Phase(),
		Asteroids: w.Count(roids.With[Asteroid]{}),
	}
	if score := roids.Resource[Score](w); score != nil {
		st.Score = score.Value
	}
	if rec := roids.Resource[Records](w); rec != nil && rec.Store != nil {
		st.BestScore = rec.Store.Best()
	}

	ship, health, ok := roids.Single[Health](w, roids.With[Spaceship]{})
	if !ok {
		return st
	}
	st.Health = health.Value
	st.CanFire = !roids.Has[AlreadyFired](w, ship)
	if shield := roids.Get[Shield](w, ship); shield != nil {
		st.ShieldActive = true
		st.ShieldFraction = shield.Strength()
	}
	return st
}

// Sprite is one drawable entity.
type Sprite struct {
	Asset    AssetID
	Radius   float64
	Position mgl64.Vec3
	Forward  mgl64.Vec3
	Up       mgl64.Vec3
}

// Sprites lists every drawable entity in index order.
func Sprites(w *roids.World) []Sprite {
	var out []Sprite
	roids.Each2(w, func(_ roids.Entity, tr *Transform, m *Model) {
		out = append(out, Sprite{
			Asset:    m.Asset,
			Radius:   m.Radius,
			Position: tr.Position,
			Forward:  tr.Forward(),
			Up:       tr.Rotation.Rotate(mgl64.Vec3{0, 1, 0}),
		})
	})
	return out
}
