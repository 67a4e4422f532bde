package game

import (
	"github.com/oriumgames/roids"
	"go.uber.org/zap"
)

// ShipHit is dispatched when an asteroid strikes an unshielded ship.
type ShipHit struct {
	Ship     roids.Entity
	Asteroid roids.Entity
	Health   int
}

// ShieldConsumed is dispatched when the shield absorbs an impact.
type ShieldConsumed struct {
	Ship     roids.Entity
	Asteroid roids.Entity
}

// AsteroidDestroyed is dispatched when a missile destroys an asteroid.
type AsteroidDestroyed struct {
	Asteroid roids.Entity
	Missile  roids.Entity
	Score    int
}

// firstTagged returns the first entity of list carrying T.
func firstTagged[T any](w *roids.World, list []roids.Entity) (roids.Entity, bool) {
	for _, e := range list {
		if roids.Has[T](w, e) {
			return e, true
		}
	}
	return 0, false
}

// clearCooldown rearms the weapon.
func clearCooldown(w *roids.World) {
	if ship, _, ok := roids.Single[Spaceship](w, roids.With[AlreadyFired]{}); ok {
		roids.Remove[AlreadyFired](w, ship)
	}
}

// ResolveShipHits applies at most one asteroid impact to the ship per tick.
// The asteroid is destroyed; a raised shield absorbs the hit, otherwise
// the ship loses one point of health.
type ResolveShipHits struct {
	Ship     roids.Entity
	Collider *Collider
	Health   *Health    `roids:"mut"`
	Shield   *Shield    `roids:"opt"`
	Visual   *Transform `roids:"rel,opt"`
	World    *roids.World
	Log      *zap.Logger `roids:"res"`
	Cmds     *roids.Commands
	_        roids.With[Spaceship]
}

func (s *ResolveShipHits) Run() {
	asteroid, ok := firstTagged[Asteroid](s.World, s.Collider.Colliding)
	if !ok {
		return
	}
	s.Cmds.Despawn(asteroid)

	if s.Shield != nil {
		if s.Visual == nil {
			s.Log.Warn("shield consumed without a visual", zap.Stringer("ship", s.Ship))
		} else {
			s.Cmds.Despawn(s.Shield.Visual.Target())
		}
		roids.RemoveLater[Shield](s.Cmds, s.Ship)
		s.Cmds.Dispatch(ShieldConsumed{Ship: s.Ship, Asteroid: asteroid})
		return
	}

	s.Health.Value--
	s.Cmds.Dispatch(ShipHit{Ship: s.Ship, Asteroid: asteroid, Health: s.Health.Value})
	if s.Health.Value <= 0 {
		s.Cmds.RequestPhase(roids.EndGame)
	}
}

// ResolveMissileHits destroys every asteroid touched by a missile along
// with the first such missile, and scores it.
type ResolveMissileHits struct {
	Asteroid roids.Entity
	Collider *Collider
	World    *roids.World
	Score    *Score `roids:"res,mut"`
	Cmds     *roids.Commands
	_        roids.With[Asteroid]
}

func (s *ResolveMissileHits) Run() {
	missile, ok := firstTagged[Missile](s.World, s.Collider.Colliding)
	if !ok {
		return
	}

	s.Score.Value++
	s.Cmds.Despawn(missile)
	s.Cmds.Despawn(s.Asteroid)
	s.Cmds.Run(clearCooldown)
	s.Cmds.Dispatch(AsteroidDestroyed{Asteroid: s.Asteroid, Missile: missile, Score: s.Score.Value})
}

// DespawnOutOfBounds removes asteroids that left the play area.
type DespawnOutOfBounds struct {
	Asteroid  roids.Entity
	Transform *Transform
	Bounds    *Bounds `roids:"res"`
	Cmds      *roids.Commands
	_         roids.With[Asteroid]
}

func (s *DespawnOutOfBounds) Run() {
	if !s.Bounds.Contains(s.Transform.Position) {
		s.Cmds.Despawn(s.Asteroid)
	}
}

// DespawnFarMissiles removes missiles that travelled past their range and
// rearms the weapon.
type DespawnFarMissiles struct {
	Missile   roids.Entity
	Transform *Transform
	Settings  *Settings `roids:"res"`
	Cmds      *roids.Commands
	_         roids.With[Missile]
}

func (s *DespawnFarMissiles) Run() {
	if s.Transform.Position.Len() <= s.Settings.MissileMaxDistance {
		return
	}
	s.Cmds.Despawn(s.Missile)
	s.Cmds.Run(clearCooldown)
}

// despawnAtEndgame destroys everything tagged for removal when a run ends.
func despawnAtEndgame(w *roids.World, cmds *roids.Commands) {
	for _, e := range w.Query(roids.With[DespawnAtEndgame]{}) {
		cmds.Despawn(e)
	}
}

// StatsLogger periodically logs population counts.
type StatsLogger struct {
	World *roids.World
	Score *Score `roids:"res"`
}

func (s *StatsLogger) Run() {
	s.World.Log().Debug("world stats",
		zap.Int("entities", s.World.Len()),
		zap.Int("asteroids", s.World.Count(roids.With[Asteroid]{})),
		zap.Int("missiles", s.World.Count(roids.With[Missile]{})),
		zap.Int("score", s.Score.Value),
	)
}
