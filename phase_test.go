package roids

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	legal := map[[2]Phase]bool{
		{Loading, MainMenu}: true,
		{MainMenu, InGame}:  true,
		{InGame, Paused}:    true,
		{InGame, EndGame}:   true,
		{Paused, InGame}:    true,
		{EndGame, MainMenu}: true,
	}

	for _, from := range Phases() {
		for _, to := range Phases() {
			want := legal[[2]Phase{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTransitionHooks(t *testing.T) {
	var calls []string
	hook := func(name string) PhaseHook {
		return func(*World, *Commands) { calls = append(calls, name) }
	}

	var seen Entity
	bund := NewBundle("phases").
		OnExit(Loading, hook("exit loading")).
		OnTransition(Loading, MainMenu, func(w *World, c *Commands) {
			calls = append(calls, "edge")
			c.Spawn(&marker{})
		}).
		OnEnter(MainMenu, func(w *World, c *Commands) {
			calls = append(calls, "enter menu")
			// commands of the previous hook are already applied
			if ents := w.Query(With[marker]{}); len(ents) == 1 {
				seen = ents[0]
			}
		}).
		OnEnter(InGame, hook("enter game"))

	w, err := NewBuilder().Bundle(bund.Build()).Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer w.Close()

	if err := w.Transition(MainMenu); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	want := []string{"exit loading", "edge", "enter menu"}
	if !slices.Equal(calls, want) {
		t.Errorf("hooks = %v, want %v", calls, want)
	}
	if seen.IsZero() {
		t.Errorf("enter hook did not see the entity spawned by the edge hook")
	}
}

func TestIllegalTransition(t *testing.T) {
	w := NewWorld(nil)

	err := w.Transition(InGame)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("err = %v, want %v", err, ErrIllegalTransition)
	}
	if w.Phase() != Loading {
		t.Errorf("phase = %s, want Loading", w.Phase())
	}

	// Illegal requests are dropped at the end of the tick.
	w.RequestPhase(EndGame)
	w.Tick(time.Millisecond)
	if w.Phase() != Loading {
		t.Errorf("phase after illegal request = %s, want Loading", w.Phase())
	}
	if _, ok := w.PendingPhase(); ok {
		t.Errorf("request still pending")
	}
}

type phaseRecorder struct {
	World *World
}

func (s *phaseRecorder) Run() {
	seen := Resource[[]Phase](s.World)
	*seen = append(*seen, s.World.Phase())
}

type requestMenu struct {
	Cmds *Commands
}

func (s *requestMenu) Run() {
	s.Cmds.RequestPhase(MainMenu)
}

func TestPhaseAppliedAfterTick(t *testing.T) {
	var seen []Phase
	bund := NewBundle("phases").
		Resource(&seen).
		Loop(&requestMenu{}, UserInput, InPhase(Loading)).
		Loop(&phaseRecorder{}, DespawnEntities)

	w, err := NewBuilder().Bundle(bund.Build()).Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer w.Close()

	w.Tick(time.Millisecond)
	w.Tick(time.Millisecond)

	if want := []Phase{Loading, MainMenu}; !slices.Equal(seen, want) {
		t.Errorf("phases seen = %v, want %v", seen, want)
	}
}
