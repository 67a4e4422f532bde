package roids

import (
	"reflect"
	"unsafe"
)

// injectSystem fills the fields of a pooled system instance for entity e.
// Global systems pass the zero entity. Returns false when a required
// component, relation target or resource is missing.
func injectSystem(system any, e Entity, meta *SystemMeta, w *World, cmds *Commands) bool {
	base := reflect.ValueOf(system).UnsafePointer()

	var rec *record
	if meta.PerEntity {
		w.mu.RLock()
		defer w.mu.RUnlock()
		if rec = w.recordUnsafe(e); rec == nil {
			return false
		}
	}

	for i := range meta.Fields {
		field := &meta.Fields[i]

		switch field.Kind {
		case KindEntity:
			*(*Entity)(unsafe.Add(base, field.Offset)) = e

		case KindWorld:
			setFieldPtr(base, field.Offset, unsafe.Pointer(w))

		case KindCommands:
			if cmds == nil {
				return false
			}
			setFieldPtr(base, field.Offset, unsafe.Pointer(cmds))

		case KindComponent:
			ptr := rec.components[field.ComponentID]
			if ptr == nil && !field.Optional {
				return false
			}
			setFieldPtr(base, field.Offset, ptr)

		case KindRelation:
			source := rec.components[meta.Fields[field.RelationSourceIndex].ComponentID]
			var ptr unsafe.Pointer
			if source != nil {
				// Relation[T] keeps its target handle at offset 0.
				target := *(*Entity)(unsafe.Add(source, field.RelationDataOffset))
				if trec := w.recordUnsafe(target); trec != nil {
					ptr = trec.components[field.ComponentID]
				}
			}
			if ptr == nil && !field.Optional {
				return false
			}
			setFieldPtr(base, field.Offset, ptr)

		case KindResource:
			res := w.getResource(field.ComponentType)
			if res == nil && !field.Optional {
				return false
			}
			setFieldPtr(base, field.Offset, res)

		case KindPhantomWith, KindPhantomWithout:
			// filtering already done by the mask check
			continue

		case KindPayload:
			// Payload fields must be zeroed so nothing leaks between
			// entities when the pooled instance is reused.
			zeroPayloadField(base, field)
		}
	}

	return true
}

// zeroSystem zeros all injected fields in a system for pool reuse.
func zeroSystem(system any, meta *SystemMeta) {
	base := reflect.ValueOf(system).UnsafePointer()

	for i := range meta.Fields {
		field := &meta.Fields[i]

		switch field.Kind {
		case KindEntity:
			*(*Entity)(unsafe.Add(base, field.Offset)) = 0

		case KindWorld, KindCommands, KindComponent, KindRelation, KindResource:
			setFieldPtr(base, field.Offset, nil)

		case KindPayload:
			zeroPayloadField(base, field)
		}
	}
}

// setFieldPtr sets a pointer field at the given offset.
func setFieldPtr(base unsafe.Pointer, offset uintptr, value unsafe.Pointer) {
	*(*unsafe.Pointer)(unsafe.Add(base, offset)) = value
}

// zeroPayloadField zeros a payload field based on its type.
func zeroPayloadField(base unsafe.Pointer, field *FieldMeta) {
	if field.ComponentType == nil {
		return
	}

	v := reflect.NewAt(field.ComponentType, unsafe.Add(base, field.Offset)).Elem()
	v.Set(reflect.Zero(field.ComponentType))
}
