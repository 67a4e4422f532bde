package game

import (
	"math/rand/v2"
	"time"

	"github.com/oriumgames/roids"
	"go.uber.org/zap"
)

// NewBundle wires the asteroids game: its resources, systems, phase hooks
// and event handlers.
func NewBundle(s *Settings) *roids.Bundle {
	seed := s.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	bounds := s.Bounds()

	return roids.NewBundle("asteroids").
		Resource(s).
		Resource(&bounds).
		Resource(&SpawnTimer{roids.NewTimer(s.SpawnInterval, roids.Repeating)}).
		Resource(&Score{}).
		Resource(&RunInfo{}).
		Resource(&Assets{}).
		Resource(&Snapshot{}).
		Resource(&App{}).
		Resource(rand.New(rand.NewPCG(seed, seed>>1|1))).
		// weapon, then movement, then shield
		Loop(&FireMissile{}, roids.UserInput, roids.InPhase(roids.InGame)).
		Loop(&SteerShip{}, roids.UserInput, roids.InPhase(roids.InGame)).
		Loop(&ActivateShield{}, roids.UserInput, roids.InPhase(roids.InGame)).
		Loop(&PauseInput{}, roids.UserInput, roids.InPhase(roids.InGame)).
		Loop(&FinishLoading{}, roids.UserInput, roids.InPhase(roids.Loading)).
		Loop(&MainMenuInput{}, roids.UserInput, roids.InPhase(roids.MainMenu)).
		Loop(&ResumeInput{}, roids.UserInput, roids.InPhase(roids.Paused)).
		Loop(&EndGameInput{}, roids.UserInput, roids.InPhase(roids.EndGame)).
		Loop(&UpdateVelocity{}, roids.EntityUpdates, roids.InPhase(roids.InGame)).
		Loop(&UpdatePosition{}, roids.EntityUpdates, roids.InPhase(roids.InGame), roids.After(&UpdateVelocity{})).
		Loop(&SpinAsteroids{}, roids.EntityUpdates, roids.InPhase(roids.InGame)).
		Loop(&AsteroidSpawner{}, roids.EntityUpdates, roids.InPhase(roids.InGame)).
		Loop(&ExpireShields{}, roids.EntityUpdates, roids.InPhase(roids.InGame)).
		Loop(&FollowShip{}, roids.EntityUpdates, roids.InPhase(roids.InGame)).
		Loop(&DetectCollisions{}, roids.CollisionDetection, roids.InPhase(roids.InGame)).
		Loop(&ResolveShipHits{}, roids.DespawnEntities, roids.InPhase(roids.InGame)).
		Loop(&ResolveMissileHits{}, roids.DespawnEntities, roids.InPhase(roids.InGame)).
		Loop(&DespawnOutOfBounds{}, roids.DespawnEntities, roids.InPhase(roids.InGame)).
		Loop(&DespawnFarMissiles{}, roids.DespawnEntities, roids.InPhase(roids.InGame), roids.After(&DespawnOutOfBounds{})).
		Loop(&StatsLogger{}, roids.DespawnEntities, roids.InPhase(roids.InGame), roids.Every(5*time.Second)).
		Loop(&AdvanceInput{}, roids.DespawnEntities).
		OnTransition(roids.MainMenu, roids.InGame, startRun).
		OnTransition(roids.MainMenu, roids.InGame, spawnShip).
		OnTransition(roids.MainMenu, roids.InGame, spawnInitialAsteroids).
		OnTransition(roids.InGame, roids.EndGame, despawnAtEndgame).
		Handler(&RecordBest{}).
		Handler(&RecordRun{}).
		Handler(&PlaySounds{})
}

// NewWorld builds a world running the game. Extra resources, such as
// Records, History, Sounds or Pacing, are registered alongside the
// game's own. Timed components only age while in game.
func NewWorld(s *Settings, log *zap.Logger, resources ...any) (*roids.World, error) {
	b := roids.NewBuilder().
		Logger(log).
		TimersIn(roids.InGame).
		Bundle(NewBundle(s).Build())
	for _, res := range resources {
		b.Resource(res)
	}
	return b.Init()
}
