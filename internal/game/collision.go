package game

import (
	"github.com/oriumgames/roids"
)

// DetectCollisions rebuilds every collider's overlap list. Each unordered
// pair is tested once; two spheres collide when the distance between their
// centres is strictly less than the sum of their radii.
type DetectCollisions struct {
	World *roids.World
}

func (s *DetectCollisions) Run() {
	type body struct {
		e  roids.Entity
		tr *Transform
		c  *Collider
	}

	var bodies []body
	roids.Each2(s.World, func(e roids.Entity, tr *Transform, c *Collider) {
		c.Colliding = c.Colliding[:0]
		bodies = append(bodies, body{e, tr, c})
	})

	for i := range bodies {
		a := &bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			b := &bodies[j]
			if Overlaps(a.tr.Position, a.c.Radius, b.tr.Position, b.c.Radius) {
				a.c.Colliding = append(a.c.Colliding, b.e)
				b.c.Colliding = append(b.c.Colliding, a.e)
			}
		}
	}
}
