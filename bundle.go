package roids

import (
	"fmt"
	"reflect"
	"time"
)

// Bundle groups related systems, handlers, phase hooks and resources.
// Bundles are registered with the builder; systems keep their declaration
// order across bundles.
type Bundle struct {
	name string

	handlers  []any
	loops     []loopRegistration
	resources []any

	enterHooks []phaseHookRegistration
	exitHooks  []phaseHookRegistration
	edgeHooks  []phaseHookRegistration

	postInitHooks []func(*World)

	// meta holds computed metadata for systems
	handlerMeta []*SystemMeta
	loopMeta    []*SystemMeta
}

// loopRegistration holds a system registration.
type loopRegistration struct {
	system Runnable
	stage  Stage
	opts   loopOptions
}

type phaseHookRegistration struct {
	from, to Phase
	hook     PhaseHook
}

// LoopOption configures when a system runs.
type LoopOption func(*loopOptions)

type loopOptions struct {
	phases   []Phase
	interval time.Duration
	after    []reflect.Type
}

// InPhase restricts the system to the given phases. The check uses the
// phase at the start of the tick.
func InPhase(phases ...Phase) LoopOption {
	return func(o *loopOptions) {
		o.phases = append(o.phases, phases...)
	}
}

// Every runs the system once per interval of simulated time instead of
// every tick.
func Every(interval time.Duration) LoopOption {
	return func(o *loopOptions) {
		o.interval = interval
	}
}

// After orders the system behind the given systems of the same stage,
// even when their accesses do not conflict.
func After(systems ...Runnable) LoopOption {
	return func(o *loopOptions) {
		for _, s := range systems {
			t := reflect.TypeOf(s)
			if t.Kind() == reflect.Ptr {
				t = t.Elem()
			}
			o.after = append(o.after, t)
		}
	}
}

// NewBundle creates a new bundle with the given name.
func NewBundle(name string) *Bundle {
	return &Bundle{name: name}
}

// Name returns the bundle name.
func (b *Bundle) Name() string {
	return b.name
}

// Resource registers a world resource. Resources must be pointers.
func (b *Bundle) Resource(res any) *Bundle {
	b.resources = append(b.resources, res)
	return b
}

// PostInit registers a hook run once the world is built.
func (b *Bundle) PostInit(hook func(*World)) *Bundle {
	b.postInitHooks = append(b.postInitHooks, hook)
	return b
}

// Build returns a callback function that returns this bundle.
// This allows for cleaner inline bundle initialization:
//
//	bund := roids.NewBundle("game").
//	    Loop(&Movement{}, roids.EntityUpdates).
//	    Build()
//
//	w, err := roids.NewBuilder().
//	    Bundle(bund).
//	    Init()
func (b *Bundle) Build() func(*World) *Bundle {
	return func(*World) *Bundle {
		return b
	}
}

// Handler registers an event handler. Handlers are structs whose
// single-argument methods receive events of the argument's type.
func (b *Bundle) Handler(h any) *Bundle {
	b.handlers = append(b.handlers, h)
	return b
}

// Loop registers a system in a stage.
func (b *Bundle) Loop(sys Runnable, stage Stage, opts ...LoopOption) *Bundle {
	reg := loopRegistration{system: sys, stage: stage}
	for _, opt := range opts {
		opt(&reg.opts)
	}
	b.loops = append(b.loops, reg)
	return b
}

// OnEnter registers a hook run whenever the world enters phase p.
func (b *Bundle) OnEnter(p Phase, hook PhaseHook) *Bundle {
	b.enterHooks = append(b.enterHooks, phaseHookRegistration{to: p, hook: hook})
	return b
}

// OnExit registers a hook run whenever the world leaves phase p.
func (b *Bundle) OnExit(p Phase, hook PhaseHook) *Bundle {
	b.exitHooks = append(b.exitHooks, phaseHookRegistration{from: p, hook: hook})
	return b
}

// OnTransition registers a hook for the from -> to edge only.
func (b *Bundle) OnTransition(from, to Phase, hook PhaseHook) *Bundle {
	b.edgeHooks = append(b.edgeHooks, phaseHookRegistration{from: from, to: to, hook: hook})
	return b
}

// build analyzes all systems and computes metadata.
func (b *Bundle) build(registry *componentRegistry) error {
	for _, h := range b.handlers {
		meta, err := analyzeSystem(reflect.TypeOf(h), b, registry)
		if err != nil {
			return fmt.Errorf("bundle %s: %w", b.name, err)
		}
		if meta.PerEntity {
			return fmt.Errorf("bundle %s: handler %s must not bind entities or components", b.name, meta.Name)
		}
		b.handlerMeta = append(b.handlerMeta, meta)
	}

	for _, reg := range b.loops {
		if reg.stage < 0 || reg.stage >= stageCount {
			return fmt.Errorf("bundle %s: unknown stage %d", b.name, reg.stage)
		}
		meta, err := analyzeSystem(reflect.TypeOf(reg.system), b, registry)
		if err != nil {
			return fmt.Errorf("bundle %s: %w", b.name, err)
		}
		b.loopMeta = append(b.loopMeta, meta)
	}

	return nil
}
