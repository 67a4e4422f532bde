package roids

import (
	"strconv"
	"strings"
)

// tagName is the struct tag read on system fields, e.g. `roids:"mut"`.
// Modifiers combine with commas: `roids:"rel,opt"`.
const tagName = "roids"

// FieldKind is how a system field is filled before Run.
type FieldKind uint8

const (
	KindPayload FieldKind = iota // left alone
	KindEntity
	KindWorld
	KindCommands
	KindComponent
	KindRelation
	KindResource
	KindPhantomWith
	KindPhantomWithout
)

var fieldKindNames = [...]string{"Payload", "Entity", "World", "Commands", "Component", "Relation", "Resource", "With", "Without"}

func (k FieldKind) String() string {
	if int(k) < len(fieldKindNames) {
		return fieldKindNames[k]
	}
	return "FieldKind(" + strconv.Itoa(int(k)) + ")"
}

type fieldTag struct {
	Mutable  bool // mut: the system writes the value
	Optional bool // opt: nil instead of skipping when absent
	Relation bool // rel: follow the Relation held by the previous component
	Resource bool // res: world resource instead of component
}

func parseTag(tag string) fieldTag {
	var t fieldTag
	for part := range strings.SplitSeq(tag, ",") {
		switch strings.TrimSpace(part) {
		case "mut":
			t.Mutable = true
		case "opt":
			t.Optional = true
		case "rel":
			t.Relation = true
		case "res":
			t.Resource = true
		}
	}
	return t
}
