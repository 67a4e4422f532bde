package roids

import (
	"reflect"

	"go.uber.org/zap"
)

// handlerMeta holds metadata and pool for a registered handler type.
type handlerMeta struct {
	meta   *SystemMeta
	bundle *Bundle
	events map[reflect.Type]int
}

// registerHandler scans h for single-argument methods and records the
// argument types as the events it listens for.
func (w *World) registerHandler(h any, meta *SystemMeta, bundle *Bundle) {
	t := reflect.TypeOf(h)

	events := make(map[reflect.Type]int)
	for i := 0; i < t.NumMethod(); i++ {
		method := t.Method(i)
		// receiver plus one argument, no results
		if method.Type.NumIn() != 2 || method.Type.NumOut() != 0 {
			continue
		}
		events[method.Type.In(1)] = i
	}

	if len(events) == 0 {
		w.log.Warn("handler listens for no events", zap.String("handler", meta.Name), zap.String("bundle", bundle.Name()))
	}

	w.handlers = append(w.handlers, &handlerMeta{
		meta:   meta,
		bundle: bundle,
		events: events,
	})
}

// Dispatch delivers an event synchronously to every handler with a method
// taking the event's type, in registration order. Handlers receive their
// declared resources and *World.
//
// Systems should dispatch through Commands.Dispatch so that handlers run
// at the stage boundary.
//
// Handlers listen for events by implementing a method with the signature:
//
//	func (h *MyHandler) OnMyEvent(event MyEvent)
//
// The method name does not matter, only the signature (one argument).
func (w *World) Dispatch(event any) {
	if event == nil {
		return
	}
	eventType := reflect.TypeOf(event)

	for _, hm := range w.handlers {
		methodIdx, ok := hm.events[eventType]
		if !ok {
			continue
		}

		handler := hm.meta.Pool.Get()
		if !injectSystem(handler, 0, hm.meta, w, nil) {
			zeroSystem(handler, hm.meta)
			hm.meta.Pool.Put(handler)
			continue
		}

		w.callHandler(hm, handler, methodIdx, event)

		zeroSystem(handler, hm.meta)
		hm.meta.Pool.Put(handler)
	}
}

func (w *World) callHandler(hm *handlerMeta, handler any, methodIdx int, event any) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("handler panicked",
				zap.String("handler", hm.meta.Name),
				zap.String("event", reflect.TypeOf(event).String()),
				zap.Any("panic", r),
			)
		}
	}()
	reflect.ValueOf(handler).Method(methodIdx).Call([]reflect.Value{reflect.ValueOf(event)})
}
