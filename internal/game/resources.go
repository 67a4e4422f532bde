package game

import (
	"context"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/oriumgames/roids"
	"github.com/oriumgames/roids/internal/config"
)

// Settings are the gameplay constants, read once at startup.
type Settings struct {
	config.GameConfig
}

// DefaultSettings returns the stock gameplay constants.
func DefaultSettings() *Settings {
	return &Settings{GameConfig: config.Defaults().Game}
}

// Bounds returns the play area on the X/Z plane.
func (s *Settings) Bounds() Bounds {
	return Bounds{
		Min: mgl64.Vec2{s.BoundsMinX, s.BoundsMinZ},
		Max: mgl64.Vec2{s.BoundsMaxX, s.BoundsMaxZ},
	}
}

// SpawnRegion returns the rectangle asteroids are sampled from.
func (s *Settings) SpawnRegion() Bounds {
	return Bounds{
		Min: mgl64.Vec2{s.SpawnMinX, s.SpawnMinZ},
		Max: mgl64.Vec2{s.SpawnMaxX, s.SpawnMaxZ},
	}
}

// ShipStart returns the ship's spawn position.
func (s *Settings) ShipStart() mgl64.Vec3 {
	return mgl64.Vec3{s.ShipStartX, 0, s.ShipStartZ}
}

// Bounds is an axis-aligned rectangle on the X/Z plane. X maps to the
// first component and Z to the second.
type Bounds struct {
	Min, Max mgl64.Vec2
}

// Contains reports whether p lies inside, edges included.
func (b Bounds) Contains(p mgl64.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Z() >= b.Min.Y() && p.Z() <= b.Max.Y()
}

// SpawnTimer paces asteroid creation while in game.
type SpawnTimer struct {
	roids.Timer
}

// Score counts asteroids destroyed by missiles in the current run.
type Score struct {
	Value int
}

// RunInfo identifies the current run.
type RunInfo struct {
	ID      uuid.UUID
	Started time.Duration // simulated time at start
}

// Assets tracks which models the host has made available.
type Assets struct {
	loaded map[AssetID]bool
}

// MarkLoaded records that the host can draw id.
func (a *Assets) MarkLoaded(ids ...AssetID) {
	if a.loaded == nil {
		a.loaded = make(map[AssetID]bool)
	}
	for _, id := range ids {
		a.loaded[id] = true
	}
}

// Ready reports whether every model the game spawns is available.
func (a *Assets) Ready() bool {
	for _, id := range []AssetID{AssetSpaceship, AssetAsteroid, AssetMissile, AssetShield} {
		if !a.loaded[id] {
			return false
		}
	}
	return true
}

// App carries requests from the simulation to the host.
type App struct {
	ExitRequested bool
}

// ScoreStore keeps the best score across runs.
type ScoreStore interface {
	Best() int
	Submit(score int) (bool, error)
}

// Records is the optional best-score resource.
type Records struct {
	Store ScoreStore
}

// RunRecorder stores finished runs.
type RunRecorder interface {
	RecordRun(ctx context.Context, id uuid.UUID, score int, played time.Duration) error
}

// History is the optional run history resource.
type History struct {
	Recorder RunRecorder
	Timeout  time.Duration

	pending sync.WaitGroup
}

// Wait blocks until every run handed to the recorder has been written or
// has timed out. Call it before closing the recorder.
func (h *History) Wait() {
	h.pending.Wait()
}

// SoundPlayer plays a named sound without blocking.
type SoundPlayer interface {
	Play(name string)
}

// Sounds is the optional audio resource.
type Sounds struct {
	Player SoundPlayer
}

// SoundExplosion is played when a missile is fired and when an asteroid
// is destroyed.
const SoundExplosion = "explosion"

// SpawnPacer decides the delay until the next asteroid.
type SpawnPacer interface {
	Interval(elapsed time.Duration, score int) (time.Duration, error)
}

// Pacing is the optional spawn pacing resource.
type Pacing struct {
	Pacer SpawnPacer
}
