package roids

import (
	"fmt"

	"go.uber.org/zap"
)

// Builder configures a world before initialization.
// Use NewBuilder() to create a builder and chain configuration methods.
type Builder struct {
	bundles   []func(*World) *Bundle
	resources []any
	log       *zap.Logger
	workers   int
	timersIn  []Phase
}

// NewBuilder creates a new world builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Bundle adds a bundle to the builder.
func (b *Builder) Bundle(callback func(*World) *Bundle) *Builder {
	b.bundles = append(b.bundles, callback)
	return b
}

// Resource adds a world resource. Resources must be pointers.
func (b *Builder) Resource(res any) *Builder {
	b.resources = append(b.resources, res)
	return b
}

// Logger sets the world logger. Defaults to a no-op logger.
func (b *Builder) Logger(log *zap.Logger) *Builder {
	b.log = log
	return b
}

// Workers sets the size of the worker pool used for parallel batches.
// Defaults to GOMAXPROCS.
func (b *Builder) Workers(n int) *Builder {
	b.workers = n
	return b
}

// TimersIn limits expiry of timed components to the given phases, so that
// lifetimes freeze while, for example, the game is paused.
func (b *Builder) TimersIn(phases ...Phase) *Builder {
	b.timersIn = append(b.timersIn, phases...)
	return b
}

// Init builds the world. Systems are analyzed and batched, resources
// registered and post-init hooks run. The world starts in Loading.
func (b *Builder) Init() (*World, error) {
	w := newWorld(b.log)
	if b.workers > 0 {
		w.scheduler.workers = b.workers
	}
	w.timersIn = b.timersIn

	var hooks []func(*World)

	for _, f := range b.bundles {
		bund := f(w)
		w.bundles = append(w.bundles, bund)
		hooks = append(hooks, bund.postInitHooks...)
	}

	for _, res := range b.resources {
		w.addResource(res)
	}
	for _, bundle := range w.bundles {
		for _, res := range bundle.resources {
			w.addResource(res)
		}
	}

	if err := w.build(); err != nil {
		w.Close()
		return nil, fmt.Errorf("roids: build systems: %w", err)
	}

	w.scheduler.start()

	for _, hook := range hooks {
		hook(w)
	}

	return w, nil
}

// build analyzes bundles and registers their systems, handlers and hooks.
func (w *World) build() error {
	for _, bundle := range w.bundles {
		if err := bundle.build(w.registry); err != nil {
			return err
		}
		for i, meta := range bundle.handlerMeta {
			w.registerHandler(bundle.handlers[i], meta, bundle)
		}
		for i, meta := range bundle.loopMeta {
			reg := bundle.loops[i]
			if err := w.scheduler.addLoop(meta, reg.stage, reg.opts); err != nil {
				return err
			}
		}
		w.addPhaseHooks(bundle)
	}
	return nil
}
