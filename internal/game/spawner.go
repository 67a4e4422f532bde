package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/roids"
	"go.uber.org/zap"
)

// ErrNoSpawnPosition is returned when every sampled candidate was too close
// to the ship.
var ErrNoSpawnPosition = errors.New("game: no clear spawn position")

// SpawnPoint samples a position in region that keeps clear of ship.
// Pass a nil ship when there is none to avoid.
func SpawnPoint(rng *rand.Rand, region Bounds, ship *mgl64.Vec3, minDist float64, attempts int) (mgl64.Vec3, error) {
	for range attempts {
		p := mgl64.Vec3{
			region.Min.X() + rng.Float64()*(region.Max.X()-region.Min.X()),
			0,
			region.Min.Y() + rng.Float64()*(region.Max.Y()-region.Min.Y()),
		}
		if ship == nil || p.Sub(*ship).Len() >= minDist {
			return p, nil
		}
	}
	return mgl64.Vec3{}, fmt.Errorf("%w after %d attempts", ErrNoSpawnPosition, attempts)
}

// randomPlanar returns a unit vector on the X/Z plane, or zero in the
// degenerate case.
func randomPlanar(rng *rand.Rand) mgl64.Vec3 {
	return normalizeOrZero(mgl64.Vec3{rng.Float64()*2 - 1, 0, rng.Float64()*2 - 1})
}

// spawnAsteroid queues one asteroid placed away from the ship.
func spawnAsteroid(w *roids.World, cmds *roids.Commands, rng *rand.Rand, s *Settings) error {
	var ship *mgl64.Vec3
	if _, tr, ok := roids.Single[Transform](w, roids.With[Spaceship]{}); ok {
		p := tr.Position
		ship = &p
	}

	pos, err := SpawnPoint(rng, s.SpawnRegion(), ship, s.ShipRadius+s.AsteroidRadius*s.SpawnClearance, s.SpawnMaxAttempts)
	if err != nil {
		return err
	}

	var accel mgl64.Vec3
	if s.Accelerate {
		accel = randomPlanar(rng).Mul(s.AsteroidAcceleration)
	}
	tr := NewTransform(pos)
	cmds.Spawn(
		&Asteroid{},
		&tr,
		&Velocity{Value: randomPlanar(rng).Mul(s.AsteroidSpeed)},
		&Acceleration{Value: accel},
		&Collider{Radius: s.AsteroidRadius},
		&Spin{Rate: s.AsteroidSpin},
		&Model{Asset: AssetAsteroid, Radius: s.AsteroidRadius},
		&DespawnAtEndgame{},
	)
	return nil
}

// spawnInitialAsteroids creates the opening wave when a run starts.
func spawnInitialAsteroids(w *roids.World, cmds *roids.Commands) {
	s := roids.Resource[Settings](w)
	rng := roids.Resource[rand.Rand](w)
	for range s.InitialAsteroids {
		if err := spawnAsteroid(w, cmds, rng, s); err != nil {
			w.Log().Warn("skipping initial asteroid", zap.Error(err))
		}
	}
}

// AsteroidSpawner creates one asteroid each time the spawn timer elapses.
type AsteroidSpawner struct {
	World    *roids.World
	Timer    *SpawnTimer `roids:"res,mut"`
	Rand     *rand.Rand  `roids:"res,mut"`
	Settings *Settings   `roids:"res"`
	Score    *Score      `roids:"res"`
	Pacing   *Pacing     `roids:"res,opt"`
	Cmds     *roids.Commands
}

func (s *AsteroidSpawner) Run() {
	if !s.Timer.Tick(s.World.Time().Delta) {
		return
	}
	// a long tick can cover several intervals; it still spawns once
	if err := spawnAsteroid(s.World, s.Cmds, s.Rand, s.Settings); err != nil {
		s.World.Log().Warn("skipping asteroid spawn", zap.Error(err))
	}

	if s.Pacing == nil || s.Pacing.Pacer == nil {
		return
	}
	d, err := s.Pacing.Pacer.Interval(s.World.Time().Elapsed, s.Score.Value)
	if err != nil {
		s.World.Log().Warn("spawn pacer failed", zap.Error(err))
		return
	}
	if d > 0 {
		s.Timer.Duration = d
	}
}
