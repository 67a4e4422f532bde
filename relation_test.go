package roids

import "testing"

type target struct{ N int }

type follower struct {
	Leader Relation[target]
}

type followLeader struct {
	Follower *follower
	Leader   *target `roids:"rel,mut"`
}

func (s *followLeader) Run() {
	s.Leader.N++
}

func TestRelationGet(t *testing.T) {
	w := NewWorld(nil)
	leader := w.Spawn(&target{N: 7})

	var f follower
	if _, ok := f.Leader.Get(w); ok {
		t.Fatalf("unset relation resolved")
	}

	f.Leader.Set(leader)
	e, ok := f.Leader.Get(w)
	if !ok || e != leader || Get[target](w, e).N != 7 {
		t.Fatalf("Get = %v, %v, want %v, true", e, ok, leader)
	}

	w.Despawn(leader)
	if _, ok := f.Leader.Get(w); ok {
		t.Errorf("relation to despawned entity resolved")
	}
}

func TestRelationInjection(t *testing.T) {
	bund := NewBundle("rel").Loop(&followLeader{}, EntityUpdates)
	w, err := NewBuilder().Bundle(bund.Build()).Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer w.Close()

	leader := w.Spawn(&target{})
	f := &follower{}
	f.Leader.Set(leader)
	w.Spawn(f)
	w.Spawn(&follower{}) // dangling: skipped

	w.Tick(1)
	if got := Get[target](w, leader).N; got != 1 {
		t.Errorf("leader N = %d, want 1", got)
	}
}

type badRelation struct {
	Leader *target `roids:"rel"`
}

func (s *badRelation) Run() {}

func TestRelationNeedsSource(t *testing.T) {
	bund := NewBundle("rel").Loop(&badRelation{}, EntityUpdates)
	if _, err := NewBuilder().Bundle(bund.Build()).Init(); err == nil {
		t.Errorf("Init accepted a relation field without a source component")
	}
}
