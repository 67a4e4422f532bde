// Package roids is the simulation kernel of an asteroids-style arcade game.
//
// It provides:
//   - A generational entity store with plain-struct components
//   - Declarative system injection via struct tags
//   - A four-stage tick (UserInput, EntityUpdates, CollisionDetection,
//     DespawnEntities) with parallel batches of non-conflicting systems
//   - Deferred structural changes applied at stage boundaries
//   - A phase state machine with enter, exit and edge hooks
//   - Synchronous typed events and timed components
//
// # Quick Start
//
//	bundle := roids.NewBundle("game").
//	    Loop(&Movement{}, roids.EntityUpdates, roids.InPhase(roids.InGame)).
//	    OnEnter(roids.InGame, spawnShip)
//
//	w, err := roids.NewBuilder().
//	    Logger(log).
//	    Bundle(bundle.Build()).
//	    Init()
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	for {
//	    w.Tick(50 * time.Millisecond)
//	}
//
// # Components
//
// Components are plain Go structs attached to entities by pointer:
//
//	type Health struct {
//	    Current int
//	}
//
//	e := w.Spawn(&Health{3})
//	h := roids.Get[Health](w, e)
//	roids.Remove[Health](w, e)
//
// # Systems
//
// Systems declare dependencies via struct tags:
//
//	type Movement struct {
//	    Entity    roids.Entity
//	    Transform *Transform `roids:"mut"`  // Required, mutable
//	    Velocity  *Velocity                 // Required
//	    Time      *roids.Time `roids:"res"` // Resource
//	    Cmds      *roids.Commands
//	    _ roids.Without[Frozen]             // Skip if Frozen exists
//	}
//
// A system with an Entity, component, relation or phantom field runs once
// per matching entity. Otherwise it runs once per tick.
//
// # Tag Reference
//
//	(none)          Required read-only component
//	roids:"mut"     Required mutable component
//	roids:"opt"     Optional (nil if missing)
//	roids:"opt,mut" Optional mutable
//	roids:"rel"     Relation traversal from the previous component
//	roids:"res"     World resource
//	roids:"res,mut" Mutable resource
package roids

// Version is the kernel version.
const Version = "0.1.0"
