package roids

import (
	"slices"
	"sync"
	"testing"
	"time"
)

type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(s string) {
	j.mu.Lock()
	j.entries = append(j.entries, s)
	j.mu.Unlock()
}

type move struct {
	Pos *position `roids:"mut"`
	Vel *velocity
}

func (s *move) Run() {
	s.Pos.X += s.Vel.X
}

type accelerate struct {
	Vel *velocity `roids:"mut"`
}

func (s *accelerate) Run() {
	s.Vel.X++
}

type readPos struct {
	Pos *position
	Log *journal `roids:"res"`
}

func (s *readPos) Run() {
	s.Log.add("readPos")
}

type readVel struct {
	Vel *velocity
	Log *journal `roids:"res"`
}

func (s *readVel) Run() {
	s.Log.add("readVel")
}

type exclusive struct {
	World *World
}

func (s *exclusive) Run() {}

func TestBatching(t *testing.T) {
	bund := NewBundle("batch").
		Loop(&accelerate{}, EntityUpdates).
		Loop(&readPos{}, EntityUpdates).
		Loop(&move{}, EntityUpdates).
		Loop(&readVel{}, EntityUpdates).
		Loop(&exclusive{}, EntityUpdates)

	w, err := NewBuilder().Resource(&journal{}).Bundle(bund.Build()).Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer w.Close()

	want := [][]string{
		{"accelerate", "readPos"},
		{"move", "readVel"},
		{"exclusive"},
	}
	got := w.Batches(EntityUpdates)
	if len(got) != len(want) {
		t.Fatalf("Batches = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("batch %d = %v, want %v", i, got[i], want[i])
		}
	}

	if names := w.Systems(EntityUpdates); !slices.Equal(names, []string{"accelerate", "readPos", "move", "readVel", "exclusive"}) {
		t.Errorf("Systems = %v", names)
	}
}

func TestSystemsSeeEarlierWrites(t *testing.T) {
	bund := NewBundle("order").
		Loop(&accelerate{}, EntityUpdates).
		Loop(&move{}, EntityUpdates)
	w, err := NewBuilder().Bundle(bund.Build()).Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer w.Close()

	e := w.Spawn(&position{}, &velocity{})
	w.Tick(time.Millisecond)
	w.Tick(time.Millisecond)

	if got := Get[position](w, e).X; got != 3 {
		t.Errorf("X = %v, want 3", got)
	}
}

type first struct{ Log *journal `roids:"res"` }

func (s *first) Run() { s.Log.add("first") }

type second struct{ Log *journal `roids:"res"` }

func (s *second) Run() { s.Log.add("second") }

func TestAfter(t *testing.T) {
	bund := NewBundle("after").
		Loop(&first{}, UserInput).
		Loop(&second{}, UserInput, After(&first{}))
	w, err := NewBuilder().Resource(&journal{}).Bundle(bund.Build()).Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer w.Close()

	if got := w.Batches(UserInput); len(got) != 2 {
		t.Errorf("Batches = %v, want two batches", got)
	}

	bad := NewBundle("after").Loop(&second{}, UserInput, After(&first{}))
	if _, err := NewBuilder().Bundle(bad.Build()).Init(); err == nil {
		t.Errorf("Init accepted After on an unregistered system")
	}
}

type counter struct{ N int }

type countTicks struct {
	Count *counter `roids:"res,mut"`
}

func (s *countTicks) Run() { s.Count.N++ }

type gameTicks struct {
	Count *counter `roids:"res,mut"`
}

func (s *gameTicks) Run() { s.Count.N += 100 }

func TestEveryAndInPhase(t *testing.T) {
	count := &counter{}
	bund := NewBundle("every").
		Loop(&countTicks{}, UserInput, Every(30*time.Millisecond)).
		Loop(&gameTicks{}, UserInput, InPhase(InGame))
	w, err := NewBuilder().Resource(count).Bundle(bund.Build()).Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer w.Close()

	for range 10 {
		w.Tick(10 * time.Millisecond)
	}
	if count.N != 3 {
		t.Errorf("runs = %d, want 3", count.N)
	}
}

type panicky struct {
	Count *counter `roids:"res,mut"`
}

func (s *panicky) Run() {
	s.Count.N++
	panic("boom")
}

func TestPanickingSystemDisabled(t *testing.T) {
	count := &counter{}
	bund := NewBundle("panic").
		Loop(&panicky{}, UserInput).
		Loop(&countTicks{}, EntityUpdates)
	w, err := NewBuilder().Resource(count).Bundle(bund.Build()).Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer w.Close()

	w.Tick(time.Millisecond)
	w.Tick(time.Millisecond)

	if !w.Disabled("panicky") {
		t.Errorf("panicking system still enabled")
	}
	// one panic, then two ordinary runs
	if count.N != 3 {
		t.Errorf("count = %d, want 3", count.N)
	}
}

type spawnOne struct {
	Cmds *Commands
}

func (s *spawnOne) Run() { s.Cmds.Spawn(&marker{}) }

type countMarkers struct {
	World *World
	Count *counter `roids:"res,mut"`
}

func (s *countMarkers) Run() { s.Count.N = s.World.Count(With[marker]{}) }

func TestCommandsFlushedBetweenStages(t *testing.T) {
	count := &counter{}
	bund := NewBundle("flush").
		Loop(&spawnOne{}, UserInput).
		Loop(&countMarkers{}, EntityUpdates)
	w, err := NewBuilder().Resource(count).Bundle(bund.Build()).Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer w.Close()

	w.Tick(time.Millisecond)
	if count.N != 1 {
		t.Errorf("markers seen in next stage = %d, want 1", count.N)
	}
	if got := w.Time(); got.Tick != 1 || got.Elapsed != time.Millisecond {
		t.Errorf("Time() = %+v, want tick 1 at 1ms", got)
	}
}

func TestParallelBatch(t *testing.T) {
	bund := NewBundle("parallel").
		Loop(&readPos{}, EntityUpdates).
		Loop(&readVel{}, EntityUpdates)
	j := &journal{}
	w, err := NewBuilder().Workers(2).Resource(j).Bundle(bund.Build()).Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer w.Close()

	for range 50 {
		w.Spawn(&position{}, &velocity{})
	}
	w.Tick(time.Millisecond)

	if got := len(j.entries); got != 100 {
		t.Errorf("runs = %d, want 100", got)
	}
}
