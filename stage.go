package roids

// Stage represents a scheduling stage for system execution.
// Every tick runs the stages in order: UserInput → EntityUpdates →
// CollisionDetection → DespawnEntities. Structural changes requested in a
// stage are applied before the next stage begins.
type Stage int

const (
	// UserInput runs first. Use for systems that translate device state into
	// velocities, rotations, projectiles and phase requests.
	UserInput Stage = iota

	// EntityUpdates runs second. Use for movement integration, spawning and
	// per-entity timers.
	EntityUpdates

	// CollisionDetection runs third. Use for overlap tests over the positions
	// produced by EntityUpdates.
	CollisionDetection

	// DespawnEntities runs last. Use for collision resolution and pruning of
	// stale entities.
	DespawnEntities

	// stageCount is the total number of stages.
	stageCount
)

// Stages returns all stages in execution order.
func Stages() []Stage {
	return []Stage{UserInput, EntityUpdates, CollisionDetection, DespawnEntities}
}

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case UserInput:
		return "UserInput"
	case EntityUpdates:
		return "EntityUpdates"
	case CollisionDetection:
		return "CollisionDetection"
	case DespawnEntities:
		return "DespawnEntities"
	default:
		return "Unknown"
	}
}
