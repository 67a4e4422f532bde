package game

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/roids"
	"go.uber.org/zap"
)

// MissileFired is dispatched when the ship launches a missile.
type MissileFired struct {
	Missile  roids.Entity
	Position mgl64.Vec3
}

// ShieldRaised is dispatched when the ship raises its shield.
type ShieldRaised struct {
	Ship roids.Entity
}

// spawnShip creates the player ship at its start position.
func spawnShip(w *roids.World, cmds *roids.Commands) {
	s := roids.Resource[Settings](w)
	tr := NewTransform(s.ShipStart())
	cmds.Spawn(
		&Spaceship{},
		&tr,
		&Velocity{},
		&Acceleration{},
		&Collider{Radius: s.ShipRadius},
		&Health{Value: s.ShipHealth},
		&Model{Asset: AssetSpaceship, Radius: s.ShipRadius},
		&DespawnAtEndgame{},
	)
}

// FireMissile launches a missile when Fire is held and the weapon is not
// cooling down.
type FireMissile struct {
	Ship      roids.Entity
	Transform *Transform
	Input     *Snapshot       `roids:"res"`
	Settings  *Settings       `roids:"res"`
	Cmds      *roids.Commands
	_         roids.With[Spaceship]
	_         roids.Without[AlreadyFired]
}

func (s *FireMissile) Run() {
	if !s.Input.Pressed(Fire) {
		return
	}

	back := s.Transform.Forward().Mul(-1)
	tr := NewTransform(s.Transform.Position.Add(back.Mul(s.Settings.MissileSpawnOffset)))
	missile := s.Cmds.Spawn(
		&Missile{},
		&tr,
		&Velocity{Value: back.Mul(s.Settings.MissileSpeed)},
		&Acceleration{},
		&Collider{Radius: s.Settings.MissileRadius},
		&Model{Asset: AssetMissile, Radius: s.Settings.MissileRadius},
		&DespawnAtEndgame{},
	)

	if s.Settings.FireCooldown > 0 {
		s.Cmds.AddFor(s.Ship, &AlreadyFired{}, s.Settings.FireCooldown)
	} else {
		s.Cmds.Add(s.Ship, &AlreadyFired{})
	}
	s.Cmds.Dispatch(MissileFired{Missile: missile, Position: tr.Position})
}

// SteerShip applies thrust, turn and roll input to the ship.
type SteerShip struct {
	Transform *Transform `roids:"mut"`
	Velocity  *Velocity  `roids:"mut"`
	Input     *Snapshot   `roids:"res"`
	Settings  *Settings   `roids:"res"`
	Time      *roids.Time `roids:"res"`
	_         roids.With[Spaceship]
}

func (s *SteerShip) Run() {
	dt := s.Time.DeltaSeconds()

	var movement, rotation, roll float64
	switch {
	case s.Input.Pressed(ThrustBack):
		movement = -s.Settings.ShipSpeed
	case s.Input.Pressed(ThrustForward):
		movement = s.Settings.ShipSpeed
	}
	switch {
	case s.Input.Pressed(TurnRight):
		rotation = -s.Settings.ShipRotation * dt
	case s.Input.Pressed(TurnLeft):
		rotation = s.Settings.ShipRotation * dt
	}
	switch {
	case s.Input.Pressed(RollLeft):
		roll = -s.Settings.ShipRoll * dt
	case s.Input.Pressed(RollRight):
		roll = s.Settings.ShipRoll * dt
	}

	s.Transform.RotateY(rotation)
	s.Transform.RotateZ(roll)
	s.Velocity.Value = s.Transform.Forward().Mul(-movement)
}

// ActivateShield surrounds the ship with a timed shield.
type ActivateShield struct {
	Ship      roids.Entity
	Transform *Transform
	Input     *Snapshot `roids:"res"`
	Settings  *Settings `roids:"res"`
	Cmds      *roids.Commands
	_         roids.With[Spaceship]
	_         roids.Without[Shield]
}

func (s *ActivateShield) Run() {
	if !s.Input.JustPressed(RaiseShield) {
		return
	}

	tr := NewTransform(s.Transform.Position)
	visual := s.Cmds.Spawn(
		&ShieldDisplay{},
		&tr,
		&Model{Asset: AssetShield, Radius: s.Settings.ShieldVisualRadius},
		&DespawnAtEndgame{},
	)

	shield := &Shield{Timer: roids.NewTimer(s.Settings.ShieldDuration, roids.Once)}
	shield.Visual.Set(visual)
	s.Cmds.Add(s.Ship, shield)
	s.Cmds.Dispatch(ShieldRaised{Ship: s.Ship})
}

// ExpireShields drops the shield and its visual once the timer runs out.
type ExpireShields struct {
	Ship   roids.Entity
	Shield *Shield     `roids:"mut"`
	Visual *Transform  `roids:"rel,opt"`
	Time   *roids.Time `roids:"res"`
	Log    *zap.Logger `roids:"res"`
	Cmds   *roids.Commands
}

func (s *ExpireShields) Run() {
	s.Shield.Tick(s.Time.Delta)
	if !s.Shield.Finished() {
		return
	}
	roids.RemoveLater[Shield](s.Cmds, s.Ship)
	if s.Visual == nil {
		s.Log.Warn("shield expired without a visual", zap.Stringer("ship", s.Ship))
		return
	}
	s.Cmds.Despawn(s.Shield.Visual.Target())
}

// FollowShip keeps the shield visual centred on the ship.
type FollowShip struct {
	Transform *Transform
	Shield    *Shield
	Visual    *Transform `roids:"rel,mut"`
}

func (s *FollowShip) Run() {
	s.Visual.Position = s.Transform.Position
}
