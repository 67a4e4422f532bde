package game

// Action is a logical input the simulation reacts to. Hosts map keys onto
// actions.
type Action uint8

const (
	ThrustForward Action = iota
	ThrustBack
	TurnLeft
	TurnRight
	RollLeft
	RollRight
	Fire
	RaiseShield
	Pause
	Resume
	Confirm
	Menu
	Quit

	actionCount
)

var actionNames = [actionCount]string{
	"ThrustForward", "ThrustBack", "TurnLeft", "TurnRight", "RollLeft", "RollRight",
	"Fire", "RaiseShield", "Pause", "Resume", "Confirm", "Menu", "Quit",
}

func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return "Unknown"
}

// Actions returns every action.
func Actions() []Action {
	out := make([]Action, actionCount)
	for i := range out {
		out[i] = Action(i)
	}
	return out
}

// Input reports device state per action.
type Input interface {
	Pressed(a Action) bool
}

// Snapshot is the input state systems read during a tick. Hosts write it
// before ticking; the game advances it once per tick so that JustPressed
// reports an edge for exactly one tick.
type Snapshot struct {
	down [actionCount]bool
	prev [actionCount]bool
}

// Press marks a as held.
func (s *Snapshot) Press(a Action) {
	if a < actionCount {
		s.down[a] = true
	}
}

// Release marks a as not held.
func (s *Snapshot) Release(a Action) {
	if a < actionCount {
		s.down[a] = false
	}
}

// Capture copies the held state of every action from in.
func (s *Snapshot) Capture(in Input) {
	for a := range actionCount {
		s.down[a] = in.Pressed(a)
	}
}

// Pressed reports whether a is held.
func (s *Snapshot) Pressed(a Action) bool {
	return a < actionCount && s.down[a]
}

// JustPressed reports whether a went down since the previous tick.
func (s *Snapshot) JustPressed(a Action) bool {
	return a < actionCount && s.down[a] && !s.prev[a]
}

// advance closes the tick.
func (s *Snapshot) advance() {
	s.prev = s.down
}
