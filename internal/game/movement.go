package game

import (
	"github.com/oriumgames/roids"
)

// UpdateVelocity integrates acceleration: v += a·dt.
type UpdateVelocity struct {
	Velocity     *Velocity `roids:"mut"`
	Acceleration *Acceleration
	Time         *roids.Time `roids:"res"`
}

func (s *UpdateVelocity) Run() {
	s.Velocity.Value = s.Velocity.Value.Add(s.Acceleration.Value.Mul(s.Time.DeltaSeconds()))
}

// UpdatePosition integrates velocity: p += v·dt. It runs after
// UpdateVelocity so a tick uses the velocity it just produced.
type UpdatePosition struct {
	Transform *Transform `roids:"mut"`
	Velocity  *Velocity
	Time      *roids.Time `roids:"res"`
}

func (s *UpdatePosition) Run() {
	s.Transform.Position = s.Transform.Position.Add(s.Velocity.Value.Mul(s.Time.DeltaSeconds()))
}

// SpinAsteroids turns asteroids about their own Z axis.
type SpinAsteroids struct {
	Transform *Transform `roids:"mut"`
	Spin      *Spin
	Time      *roids.Time `roids:"res"`
	_         roids.With[Asteroid]
}

func (s *SpinAsteroids) Run() {
	s.Transform.RotateLocalZ(s.Spin.Rate * s.Time.DeltaSeconds())
}
