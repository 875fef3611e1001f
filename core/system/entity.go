// Package system provides System wrappers that keep per-system interest
// sets in step with the world: a single-aspect entity system, a two-aspect
// interaction system, and an interval gate for any tickable system.
package system

import (
	"iter"
	"maps"

	"github.com/l1jgo/ecsrt/core/ecs"
)

// EntityProcess is the inner logic of an EntitySystem. Its lifecycle hooks
// only fire for entities matching the wrapper's aspect.
type EntityProcess[C, S any] interface {
	ecs.System[C, S]
	ProcessEntities(entities iter.Seq[ecs.IndexedEntity[C]], d *ecs.DataHelper[C, S])
}

// interest is one aspect plus the entities currently matching it.
type interest[C any] struct {
	aspect ecs.Aspect[C]
	set    map[ecs.Entity]ecs.IndexedEntity[C]
}

func newInterest[C any](aspect ecs.Aspect[C]) interest[C] {
	return interest[C]{aspect: aspect, set: make(map[ecs.Entity]ecs.IndexedEntity[C], 64)}
}

type transition uint8

const (
	stayOut transition = iota
	enter
	stay
	leave
)

// activate is the build leg: an entity that matches enters the set.
func (in interest[C]) activate(e ecs.IndexedEntity[C], v ecs.View[C]) transition {
	if !in.aspect.Check(e, v) {
		return stayOut
	}
	in.set[e.Entity()] = e
	return enter
}

// reactivate re-evaluates the aspect for a modified or refreshed entity.
func (in interest[C]) reactivate(e ecs.IndexedEntity[C], v ecs.View[C]) transition {
	_, inside := in.set[e.Entity()]
	matches := in.aspect.Check(e, v)
	switch {
	case inside && matches:
		return stay
	case inside:
		delete(in.set, e.Entity())
		return leave
	case matches:
		in.set[e.Entity()] = e
		return enter
	}
	return stayOut
}

// deactivate is the removal leg.
func (in interest[C]) deactivate(e ecs.IndexedEntity[C]) transition {
	if _, inside := in.set[e.Entity()]; !inside {
		return stayOut
	}
	delete(in.set, e.Entity())
	return leave
}

func (in interest[C]) contains(e ecs.Entity) bool {
	_, ok := in.set[e]
	return ok
}

func (in interest[C]) entities() iter.Seq[ecs.IndexedEntity[C]] {
	return maps.Values(in.set)
}

func notify[C, S any](inner ecs.System[C, S], t transition, e ecs.IndexedEntity[C], v ecs.View[C], s *S) {
	switch t {
	case enter:
		inner.Activated(e, v, s)
	case stay:
		inner.Reactivated(e, v, s)
	case leave:
		inner.Deactivated(e, v, s)
	}
}

// EntitySystem tracks the entities matching one aspect and hands them to
// its inner process each tick.
type EntitySystem[C, S any] struct {
	Inner EntityProcess[C, S]

	interested interest[C]
}

func NewEntitySystem[C, S any](inner EntityProcess[C, S], aspect ecs.Aspect[C]) *EntitySystem[C, S] {
	return &EntitySystem[C, S]{
		Inner:      inner,
		interested: newInterest(aspect),
	}
}

func (s *EntitySystem[C, S]) Activated(e ecs.IndexedEntity[C], v ecs.View[C], svc *S) {
	notify(s.Inner, s.interested.activate(e, v), e, v, svc)
}

func (s *EntitySystem[C, S]) Reactivated(e ecs.IndexedEntity[C], v ecs.View[C], svc *S) {
	notify(s.Inner, s.interested.reactivate(e, v), e, v, svc)
}

func (s *EntitySystem[C, S]) Deactivated(e ecs.IndexedEntity[C], v ecs.View[C], svc *S) {
	notify(s.Inner, s.interested.deactivate(e), e, v, svc)
}

func (s *EntitySystem[C, S]) IsActive() bool { return s.Inner.IsActive() }

func (s *EntitySystem[C, S]) Process(d *ecs.DataHelper[C, S]) {
	s.Inner.ProcessEntities(s.interested.entities(), d)
}

func (s *EntitySystem[C, S]) Aspects() []ecs.Aspect[C] {
	return []ecs.Aspect[C]{s.interested.aspect}
}

// Interested reports whether e is in the interest set.
func (s *EntitySystem[C, S]) Interested(e ecs.Entity) bool { return s.interested.contains(e) }

// Len returns the size of the interest set.
func (s *EntitySystem[C, S]) Len() int { return len(s.interested.set) }

// Entities yields the interest set.
func (s *EntitySystem[C, S]) Entities() iter.Seq[ecs.IndexedEntity[C]] {
	return s.interested.entities()
}
