package ecs

import (
	"slices"
	"strings"
)

// View is the read-only component view handed to system hooks.
type View[C any] struct {
	data *C
	reg  *Registry[C]
}

// Components returns the world's component lists. Hooks must not write to
// them.
func (v View[C]) Components() *C { return v.data }

// Has reports whether e carries the component called name.
func (v View[C]) Has(name string, e IndexedEntity[C]) bool {
	return v.reg.Has(name, e)
}

// Aspect matches entities that carry every component in its all set and
// none of the components in its none set. The zero Aspect matches every
// entity. Aspects are values; All and None return extended copies.
type Aspect[C any] struct {
	all  []string
	none []string
}

func NewAspect[C any]() Aspect[C] {
	return Aspect[C]{}
}

// All returns a copy of a that additionally requires names.
func (a Aspect[C]) All(names ...string) Aspect[C] {
	return Aspect[C]{all: appendFolded(a.all, names), none: a.none}
}

// None returns a copy of a that additionally forbids names.
func (a Aspect[C]) None(names ...string) Aspect[C] {
	return Aspect[C]{all: a.all, none: appendFolded(a.none, names)}
}

func appendFolded(dst, names []string) []string {
	out := slices.Clip(slices.Clone(dst))
	for _, n := range names {
		out = append(out, foldName(n))
	}
	return out
}

// Check evaluates the aspect against e. Presence is read fresh every time.
func (a Aspect[C]) Check(e IndexedEntity[C], v View[C]) bool {
	for _, name := range a.all {
		if !v.reg.lookupFolded(name).hasIndex(e.index) {
			return false
		}
	}
	for _, name := range a.none {
		if v.reg.lookupFolded(name).hasIndex(e.index) {
			return false
		}
	}
	return true
}

// Components returns every component name the aspect refers to.
func (a Aspect[C]) Components() []string {
	return slices.Concat(a.all, a.none)
}

func (a Aspect[C]) String() string {
	return "all[" + strings.Join(a.all, ",") + "] none[" + strings.Join(a.none, ",") + "]"
}

// AspectHolder is implemented by systems that filter by aspect. The world
// checks every component they name against its registry at construction.
type AspectHolder[C any] interface {
	Aspects() []Aspect[C]
}
