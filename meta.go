package roids

import (
	"fmt"
	"reflect"
	"sync"
)

// SystemMeta describes a system type. It is computed once when the world
// is built and shared by every run of the system.
type SystemMeta struct {
	Type   reflect.Type
	Name   string
	Bundle *Bundle
	Fields []FieldMeta

	// entities must carry every component in RequireMask and none in
	// ExcludeMask for a per-entity system to run on them
	RequireMask Bitmask
	ExcludeMask Bitmask

	// PerEntity systems bind an entity, component, relation or filter and
	// run once per match. Exclusive systems hold the *World.
	PerEntity bool
	Exclusive bool

	Pool   *sync.Pool
	Access AccessMeta
}

// FieldMeta says how to fill one field of a system.
type FieldMeta struct {
	Offset uintptr
	Name   string
	Kind   FieldKind

	ComponentID   ComponentID
	ComponentType reflect.Type // payload fields: the field type itself

	Optional bool
	Mutable  bool

	// relation fields: index in Fields of the component holding the
	// Relation, and the Relation's offset inside it
	RelationSourceIndex int
	RelationDataOffset  uintptr
}

// AccessMeta lists the component and resource types a system touches.
type AccessMeta struct {
	Reads, Writes       []reflect.Type
	ResReads, ResWrites []reflect.Type
	Exclusive           bool

	readsSet, writesSet       map[reflect.Type]struct{}
	resReadsSet, resWritesSet map[reflect.Type]struct{}
}

func typeSet(src []reflect.Type) map[reflect.Type]struct{} {
	if len(src) == 0 {
		return nil
	}
	m := make(map[reflect.Type]struct{}, len(src))
	for _, t := range src {
		m[t] = struct{}{}
	}
	return m
}

// PrepareSets indexes the access lists for Conflicts.
func (a *AccessMeta) PrepareSets() {
	a.readsSet, a.writesSet = typeSet(a.Reads), typeSet(a.Writes)
	a.resReadsSet, a.resWritesSet = typeSet(a.ResReads), typeSet(a.ResWrites)
}

// Conflicts reports whether the two systems may not share a batch: either
// is exclusive, or one writes a type the other reads or writes.
func (a *AccessMeta) Conflicts(other *AccessMeta) bool {
	if a.Exclusive || other.Exclusive {
		return true
	}
	return intersects(a.Writes, other.readsSet) ||
		intersects(a.Writes, other.writesSet) ||
		intersects(a.Reads, other.writesSet) ||
		intersects(a.ResWrites, other.resReadsSet) ||
		intersects(a.ResWrites, other.resWritesSet) ||
		intersects(a.ResReads, other.resWritesSet)
}

func intersects(types []reflect.Type, set map[reflect.Type]struct{}) bool {
	for _, t := range types {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

var (
	entityType   = reflect.TypeOf(Entity(0))
	worldType    = reflect.TypeOf((*World)(nil))
	commandsType = reflect.TypeOf((*Commands)(nil))
)

// analyzeSystem analyzes a system type and returns its metadata.
// Component types are registered with the world's registry.
func analyzeSystem(systemType reflect.Type, bundle *Bundle, registry *componentRegistry) (*SystemMeta, error) {
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	if systemType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("system must be a struct, got %v", systemType.Kind())
	}

	meta := &SystemMeta{
		Type:   systemType,
		Name:   systemType.Name(),
		Bundle: bundle,
		Pool: &sync.Pool{
			New: func() any {
				return reflect.New(systemType).Interface()
			},
		},
	}

	lastComponentFieldIndex := -1

	for i := 0; i < systemType.NumField(); i++ {
		field := systemType.Field(i)
		tag := parseTag(field.Tag.Get(tagName))

		fieldMeta := FieldMeta{
			Offset:              field.Offset,
			Name:                field.Name,
			Optional:            tag.Optional,
			Mutable:             tag.Mutable,
			RelationSourceIndex: -1,
		}

		switch {
		case field.Type == entityType:
			fieldMeta.Kind = KindEntity
			meta.PerEntity = true

		case field.Type == worldType:
			fieldMeta.Kind = KindWorld
			meta.Exclusive = true
			meta.Access.Exclusive = true

		case field.Type == commandsType:
			fieldMeta.Kind = KindCommands

		case isPhantomType(field.Type):
			compType, isWithout := phantomInfo(field.Type)
			compID := registry.register(compType)
			if isWithout {
				fieldMeta.Kind = KindPhantomWithout
				meta.ExcludeMask.Set(compID)
			} else {
				fieldMeta.Kind = KindPhantomWith
				meta.RequireMask.Set(compID)
			}
			fieldMeta.ComponentID = compID
			fieldMeta.ComponentType = compType
			meta.PerEntity = true

		case tag.Resource:
			if field.Type.Kind() != reflect.Ptr {
				return nil, fmt.Errorf("%s.%s: resource field must be a pointer", meta.Name, field.Name)
			}
			fieldMeta.Kind = KindResource
			fieldMeta.ComponentType = field.Type.Elem()
			if tag.Mutable {
				meta.Access.ResWrites = append(meta.Access.ResWrites, fieldMeta.ComponentType)
			} else {
				meta.Access.ResReads = append(meta.Access.ResReads, fieldMeta.ComponentType)
			}

		case tag.Relation:
			if field.Type.Kind() != reflect.Ptr {
				return nil, fmt.Errorf("%s.%s: relation field must be a pointer", meta.Name, field.Name)
			}
			if lastComponentFieldIndex < 0 {
				return nil, fmt.Errorf("%s.%s: relation field must follow the component holding the relation", meta.Name, field.Name)
			}
			compType := field.Type.Elem()
			source := meta.Fields[lastComponentFieldIndex].ComponentType
			offset, ok := relationOffset(source, compType)
			if !ok {
				return nil, fmt.Errorf("%s.%s: %s has no Relation[%s] field", meta.Name, field.Name, source.Name(), compType.Name())
			}

			compID := registry.register(compType)
			fieldMeta.Kind = KindRelation
			fieldMeta.ComponentID = compID
			fieldMeta.ComponentType = compType
			fieldMeta.RelationSourceIndex = lastComponentFieldIndex
			fieldMeta.RelationDataOffset = offset
			meta.PerEntity = true

			if tag.Mutable {
				meta.Access.Writes = append(meta.Access.Writes, compType)
			} else {
				meta.Access.Reads = append(meta.Access.Reads, compType)
			}

		case field.Type.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct:
			compType := field.Type.Elem()
			compID := registry.register(compType)
			fieldMeta.Kind = KindComponent
			fieldMeta.ComponentID = compID
			fieldMeta.ComponentType = compType
			meta.PerEntity = true

			lastComponentFieldIndex = len(meta.Fields)

			if !tag.Optional {
				meta.RequireMask.Set(compID)
			}
			if tag.Mutable {
				meta.Access.Writes = append(meta.Access.Writes, compType)
			} else {
				meta.Access.Reads = append(meta.Access.Reads, compType)
			}

		default:
			fieldMeta.Kind = KindPayload
			fieldMeta.ComponentType = field.Type
		}

		meta.Fields = append(meta.Fields, fieldMeta)
	}

	meta.Access.PrepareSets()

	return meta, nil
}

// relationOffset finds the Relation[target] field in source.
func relationOffset(source, target reflect.Type) (uintptr, bool) {
	for j := 0; j < source.NumField(); j++ {
		f := source.Field(j)
		ptr := reflect.New(f.Type)
		if !ptr.CanInterface() || !isRelationType(ptr.Interface()) {
			continue
		}
		iface, ok := ptr.Interface().(interface{ TargetType() reflect.Type })
		if ok && iface.TargetType() == target {
			return f.Offset, true
		}
	}
	return 0, false
}
