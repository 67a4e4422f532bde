package roids

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Phase is the coarse application state the world is in.
type Phase uint8

const (
	Loading Phase = iota
	MainMenu
	InGame
	Paused
	EndGame

	phaseCount
)

// Phases returns all phases in declaration order.
func Phases() []Phase {
	return []Phase{Loading, MainMenu, InGame, Paused, EndGame}
}

func (p Phase) String() string {
	switch p {
	case Loading:
		return "Loading"
	case MainMenu:
		return "MainMenu"
	case InGame:
		return "InGame"
	case Paused:
		return "Paused"
	case EndGame:
		return "EndGame"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// ErrIllegalTransition is returned for a phase change that is not an edge
// of the phase graph.
var ErrIllegalTransition = errors.New("roids: illegal phase transition")

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to Phase) bool {
	switch from {
	case Loading:
		return to == MainMenu
	case MainMenu:
		return to == InGame
	case InGame:
		return to == Paused || to == EndGame
	case Paused:
		return to == InGame
	case EndGame:
		return to == MainMenu
	}
	return false
}

// PhaseChanged is dispatched after a transition has been applied and its
// hooks have run.
type PhaseChanged struct {
	From, To Phase
}

// PhaseHook runs during a transition. Commands issued by a hook are
// applied before the next hook runs.
type PhaseHook func(w *World, cmds *Commands)

type phaseEdge struct {
	from, to Phase
}

type phaseMachine struct {
	mu         sync.Mutex
	current    Phase
	pending    Phase
	hasPending bool

	onEnter      [phaseCount][]PhaseHook
	onExit       [phaseCount][]PhaseHook
	onTransition map[phaseEdge][]PhaseHook
}

func (m *phaseMachine) init() {
	m.current = Loading
	m.onTransition = make(map[phaseEdge][]PhaseHook)
}

// Phase returns the current phase.
func (w *World) Phase() Phase {
	w.phases.mu.Lock()
	defer w.phases.mu.Unlock()
	return w.phases.current
}

// RequestPhase records a transition to apply at the end of the current
// tick. A later request in the same tick replaces an earlier one.
func (w *World) RequestPhase(to Phase) {
	w.phases.mu.Lock()
	w.phases.pending = to
	w.phases.hasPending = true
	w.phases.mu.Unlock()
}

// PendingPhase returns the requested phase, if any.
func (w *World) PendingPhase() (Phase, bool) {
	w.phases.mu.Lock()
	defer w.phases.mu.Unlock()
	return w.phases.pending, w.phases.hasPending
}

// Transition changes phase immediately. It runs the exit hooks of the old
// phase, the hooks of the edge, then the enter hooks of the new phase, and
// finally dispatches PhaseChanged. Must not be called from a system; use
// Commands.RequestPhase there.
func (w *World) Transition(to Phase) error {
	w.phases.mu.Lock()
	from := w.phases.current
	if !CanTransition(from, to) {
		w.phases.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	exit := slices.Clone(w.phases.onExit[from])
	edge := slices.Clone(w.phases.onTransition[phaseEdge{from, to}])
	enter := slices.Clone(w.phases.onEnter[to])
	w.phases.current = to
	w.phases.mu.Unlock()

	cmds := newCommands(w)
	for _, hooks := range [][]PhaseHook{exit, edge, enter} {
		for _, hook := range hooks {
			hook(w, cmds)
			cmds.flush()
		}
	}

	w.log.Info("phase changed", zap.Stringer("from", from), zap.Stringer("to", to))
	w.Dispatch(PhaseChanged{From: from, To: to})
	return nil
}

// applyPendingPhase applies the transition requested during the tick.
func (w *World) applyPendingPhase() {
	w.phases.mu.Lock()
	to, ok := w.phases.pending, w.phases.hasPending
	w.phases.hasPending = false
	w.phases.mu.Unlock()

	if !ok {
		return
	}
	if err := w.Transition(to); err != nil {
		w.log.Warn("dropping phase request", zap.Error(err))
	}
}

func (w *World) addPhaseHooks(b *Bundle) {
	w.phases.mu.Lock()
	defer w.phases.mu.Unlock()
	for _, h := range b.enterHooks {
		w.phases.onEnter[h.to] = append(w.phases.onEnter[h.to], h.hook)
	}
	for _, h := range b.exitHooks {
		w.phases.onExit[h.from] = append(w.phases.onExit[h.from], h.hook)
	}
	for _, h := range b.edgeHooks {
		key := phaseEdge{h.from, h.to}
		w.phases.onTransition[key] = append(w.phases.onTransition[key], h.hook)
	}
}
