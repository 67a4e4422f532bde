package roids

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Time is the clock resource published at the start of every tick.
type Time struct {
	// Delta is the simulated time advanced by the current tick
	Delta time.Duration
	// Elapsed is the total simulated time including the current tick
	Elapsed time.Duration
	// Tick counts ticks, starting at 1 for the first
	Tick uint64
}

// DeltaSeconds returns Delta in seconds.
func (t *Time) DeltaSeconds() float64 {
	return t.Delta.Seconds()
}

// Scheduler runs the systems of a world, stage by stage. Inside a stage,
// systems are grouped into batches; systems of one batch have no
// conflicting access and run in parallel.
type Scheduler struct {
	world *World

	// Loop management
	loops   [stageCount][]*loopState
	batches [stageCount][][]*loopState
	loopsMu sync.RWMutex

	// Worker pool
	workers    int
	workerPool chan func()
	workerWG   sync.WaitGroup
	running    atomic.Bool
	stopOnce   sync.Once
}

// loopState tracks the state of a single registered system.
type loopState struct {
	meta   *SystemMeta
	phases []Phase
	after  []reflect.Type
	batch  int

	interval time.Duration
	waited   time.Duration

	cmds     *Commands
	disabled atomic.Bool
}

// ShouldRun reports whether the loop is due in phase p after dt.
func (l *loopState) ShouldRun(p Phase, dt time.Duration) bool {
	if l.disabled.Load() {
		return false
	}
	if len(l.phases) > 0 && !slices.Contains(l.phases, p) {
		return false
	}
	if l.interval <= 0 {
		return true
	}
	l.waited += dt
	if l.waited < l.interval {
		return false
	}
	l.waited -= l.interval
	return true
}

// newScheduler creates a new scheduler.
func newScheduler(w *World) *Scheduler {
	return &Scheduler{
		world:   w,
		workers: max(runtime.GOMAXPROCS(0), 1),
	}
}

// start launches the worker pool.
func (s *Scheduler) start() {
	if s.running.Swap(true) {
		return
	}

	s.workerPool = make(chan func(), s.workers*4)
	for i := 0; i < s.workers; i++ {
		s.workerWG.Add(1)
		go s.worker()
	}
}

// stop shuts the worker pool down.
func (s *Scheduler) stop() {
	s.stopOnce.Do(func() {
		if !s.running.Swap(false) {
			return
		}
		close(s.workerPool)
		s.workerWG.Wait()
	})
}

// worker is a pool worker that executes jobs.
func (s *Scheduler) worker() {
	defer s.workerWG.Done()
	for fn := range s.workerPool {
		fn()
	}
}

// addLoop registers a system with the scheduler. Its batch is one past the
// latest earlier system of the stage that it conflicts with or must follow,
// so declaration order is preserved between dependent systems.
func (s *Scheduler) addLoop(meta *SystemMeta, stage Stage, opts loopOptions) error {
	s.loopsMu.Lock()
	defer s.loopsMu.Unlock()

	state := &loopState{
		meta:     meta,
		phases:   opts.phases,
		after:    opts.after,
		interval: opts.interval,
		cmds:     newCommands(s.world),
	}

	for _, t := range opts.after {
		if !slices.ContainsFunc(s.loops[stage], func(l *loopState) bool { return l.meta.Type == t }) {
			return fmt.Errorf("%s runs after %s, which is not registered earlier in %s", meta.Name, t.Name(), stage)
		}
	}

	for _, prev := range s.loops[stage] {
		if prev.meta.Access.Conflicts(&meta.Access) || slices.Contains(opts.after, prev.meta.Type) {
			state.batch = max(state.batch, prev.batch+1)
		}
	}

	s.loops[stage] = append(s.loops[stage], state)
	for len(s.batches[stage]) <= state.batch {
		s.batches[stage] = append(s.batches[stage], nil)
	}
	s.batches[stage][state.batch] = append(s.batches[stage][state.batch], state)
	return nil
}

// Tick advances the world by dt: publishes the clock, expires timed
// components, runs the four stages in order and finally applies a pending
// phase change.
func (w *World) Tick(dt time.Duration) {
	if w.closed.Load() {
		return
	}

	w.clock.Delta = dt
	w.clock.Elapsed += dt
	w.clock.Tick++

	phase := w.Phase()
	if len(w.timersIn) == 0 || slices.Contains(w.timersIn, phase) {
		w.processExpirations(dt)
	}

	for stage := UserInput; stage < stageCount; stage++ {
		w.scheduler.runStage(stage, phase, dt)
	}

	w.applyPendingPhase()
}

// Run ticks the world at a fixed rate until ctx is cancelled. Each tick
// advances simulated time by exactly rate.
func (w *World) Run(ctx context.Context, rate time.Duration) error {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Tick(rate)
		}
	}
}

// runStage executes the stage batch by batch, then applies the commands
// of every system in declaration order.
func (s *Scheduler) runStage(stage Stage, phase Phase, dt time.Duration) {
	s.loopsMu.RLock()
	batches := s.batches[stage]
	loops := s.loops[stage]
	s.loopsMu.RUnlock()

	if len(loops) == 0 {
		return
	}

	for _, batch := range batches {
		var due []*loopState
		for _, loop := range batch {
			if loop.ShouldRun(phase, dt) {
				due = append(due, loop)
			}
		}

		switch len(due) {
		case 0:
			continue
		case 1:
			s.runLoop(due[0])
			continue
		}

		var wg sync.WaitGroup
		for _, loop := range due {
			wg.Add(1)
			job := func() {
				defer wg.Done()
				s.runLoop(loop)
			}

			select {
			case s.workerPool <- job:
			default:
				// Worker pool full or stopped, run inline
				job()
			}
		}
		wg.Wait()
	}

	for _, loop := range loops {
		loop.cmds.flush()
	}
}

// runLoop runs a system once, or once per matching entity.
func (s *Scheduler) runLoop(loop *loopState) {
	meta := loop.meta
	system := meta.Pool.Get().(Runnable)
	defer func() {
		zeroSystem(system, meta)
		meta.Pool.Put(system)
	}()

	if !meta.PerEntity {
		if injectSystem(system, 0, meta, s.world, loop.cmds) {
			s.execute(loop, system)
		}
		return
	}

	for _, e := range s.world.matching(meta.RequireMask, meta.ExcludeMask) {
		if !injectSystem(system, e, meta, s.world, loop.cmds) {
			zeroSystem(system, meta)
			continue
		}
		ok := s.execute(loop, system)
		zeroSystem(system, meta)
		if !ok {
			return
		}
	}
}

// execute runs the system with panic recovery. A panicking system is
// disabled for the rest of the world's life.
func (s *Scheduler) execute(loop *loopState, system Runnable) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			loop.disabled.Store(true)
			s.world.log.Error("system panicked, disabling it",
				zap.String("system", loop.meta.Name),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			ok = false
		}
	}()
	system.Run()
	return true
}

// Systems returns the names of the systems registered in stage, in
// declaration order.
func (w *World) Systems(stage Stage) []string {
	w.scheduler.loopsMu.RLock()
	defer w.scheduler.loopsMu.RUnlock()
	names := make([]string, 0, len(w.scheduler.loops[stage]))
	for _, l := range w.scheduler.loops[stage] {
		names = append(names, l.meta.Name)
	}
	return names
}

// Batches returns the system names of stage grouped by parallel batch.
func (w *World) Batches(stage Stage) [][]string {
	w.scheduler.loopsMu.RLock()
	defer w.scheduler.loopsMu.RUnlock()
	out := make([][]string, 0, len(w.scheduler.batches[stage]))
	for _, batch := range w.scheduler.batches[stage] {
		names := make([]string, 0, len(batch))
		for _, l := range batch {
			names = append(names, l.meta.Name)
		}
		out = append(out, names)
	}
	return out
}

// Disabled reports whether the named system was disabled after a panic.
func (w *World) Disabled(name string) bool {
	w.scheduler.loopsMu.RLock()
	defer w.scheduler.loopsMu.RUnlock()
	for stage := range stageCount {
		for _, l := range w.scheduler.loops[stage] {
			if l.meta.Name == name && l.disabled.Load() {
				return true
			}
		}
	}
	return false
}
