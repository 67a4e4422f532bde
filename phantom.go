package roids

import "reflect"

// With restricts a system or query to entities carrying T. Nothing is
// injected into the field:
//
//	type ClampAsteroids struct {
//	    Transform *Transform `roids:"mut"`
//	    _ roids.With[Asteroid]
//	}
type With[T any] struct{}

// Without skips entities carrying T.
type Without[T any] struct{}

// Filter narrows a query by component presence. With and Without are the
// only implementations.
type Filter interface {
	ComponentType() reflect.Type
	IsWithout() bool
}

func (With[T]) ComponentType() reflect.Type    { return typeOf[T]() }
func (With[T]) IsWithout() bool                { return false }
func (Without[T]) ComponentType() reflect.Type { return typeOf[T]() }
func (Without[T]) IsWithout() bool             { return true }

var filterType = reflect.TypeOf((*Filter)(nil)).Elem()

func isPhantomType(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.Implements(filterType)
}

// phantomInfo returns the filtered component type of a With or Without
// field type.
func phantomInfo(t reflect.Type) (reflect.Type, bool) {
	f := reflect.New(t).Elem().Interface().(Filter)
	return f.ComponentType(), f.IsWithout()
}
