package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oriumgames/roids"
)

type memStore struct {
	best      int
	submitted []int
}

func (s *memStore) Best() int { return s.best }

func (s *memStore) Submit(score int) (bool, error) {
	s.submitted = append(s.submitted, score)
	if score <= s.best {
		return false, nil
	}
	s.best = score
	return true, nil
}

type recordedRun struct {
	id    uuid.UUID
	score int
}

type chanRecorder chan recordedRun

func (c chanRecorder) RecordRun(_ context.Context, id uuid.UUID, score int, _ time.Duration) error {
	c <- recordedRun{id, score}
	return nil
}

type countingPlayer struct {
	mu    sync.Mutex
	plays map[string]int
}

func (p *countingPlayer) Play(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.plays == nil {
		p.plays = make(map[string]int)
	}
	p.plays[name]++
}

// endRun knocks the ship out.
func endRun(t *testing.T, w *roids.World) {
	t.Helper()
	e := ship(t, w)
	roids.Get[Health](w, e).Value = 1
	spawnRock(w, roids.Get[Transform](w, e).Position)
	w.Tick(step)
	if w.Phase() != roids.EndGame {
		t.Fatalf("phase = %s, want EndGame", w.Phase())
	}
}

func TestRecordBest(t *testing.T) {
	store := &memStore{best: 0}
	w := newGame(t, testSettings(), &Records{Store: store})
	roids.Resource[Score](w).Value = 4

	endRun(t, w)

	if len(store.submitted) != 1 || store.submitted[0] != 4 {
		t.Fatalf("submitted = %v, want [4]", store.submitted)
	}
	if got := HUD(w).BestScore; got != 4 {
		t.Errorf("HUD best = %d, want 4", got)
	}
}

func TestRecordRun(t *testing.T) {
	runs := make(chanRecorder, 1)
	w := newGame(t, testSettings(), &History{Recorder: runs, Timeout: time.Second})
	id := roids.Resource[RunInfo](w).ID
	roids.Resource[Score](w).Value = 2

	endRun(t, w)

	select {
	case got := <-runs:
		if got.id != id || got.score != 2 {
			t.Errorf("recorded %v/%d, want %v/2", got.id, got.score, id)
		}
	case <-time.After(time.Second):
		t.Fatalf("run was not recorded")
	}
}

// blockingRecorder holds every write until release is closed.
type blockingRecorder struct {
	started chan struct{}
	release chan struct{}
}

func (r *blockingRecorder) RecordRun(context.Context, uuid.UUID, int, time.Duration) error {
	close(r.started)
	<-r.release
	return nil
}

func TestRecordRunWait(t *testing.T) {
	rec := &blockingRecorder{started: make(chan struct{}), release: make(chan struct{})}
	history := &History{Recorder: rec, Timeout: time.Second}
	w := newGame(t, testSettings(), history)

	endRun(t, w)
	<-rec.started

	done := make(chan struct{})
	go func() {
		history.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatalf("Wait returned while the run was still being written")
	case <-time.After(20 * time.Millisecond):
	}

	close(rec.release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Wait did not return after the write finished")
	}
}

func TestPlaySounds(t *testing.T) {
	player := &countingPlayer{}
	w := newGame(t, testSettings(), &Sounds{Player: player})

	input(w).Press(Fire)
	w.Tick(step)

	player.mu.Lock()
	defer player.mu.Unlock()
	if got := player.plays[SoundExplosion]; got != 1 {
		t.Errorf("explosions played = %d, want 1", got)
	}
}

func TestOptionalCollaboratorsAbsent(t *testing.T) {
	w := newGame(t, testSettings())
	input(w).Press(Fire)
	w.Tick(step)
	endRun(t, w)
}
