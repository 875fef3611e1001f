package system

import (
	"iter"

	"github.com/l1jgo/ecsrt/core/ecs"
)

// InteractProcess is the inner logic of an InteractSystem. It receives both
// interest sets, e.g. attackers and targets, each tick.
type InteractProcess[C, S any] interface {
	ecs.System[C, S]
	ProcessInteractions(a, b iter.Seq[ecs.IndexedEntity[C]], d *ecs.DataHelper[C, S])
}

// InteractSystem runs two independent interest sets. An entity matching
// both aspects is in both sets and the inner hooks fire once per set.
type InteractSystem[C, S any] struct {
	Inner InteractProcess[C, S]

	a interest[C]
	b interest[C]
}

func NewInteractSystem[C, S any](inner InteractProcess[C, S], aspectA, aspectB ecs.Aspect[C]) *InteractSystem[C, S] {
	return &InteractSystem[C, S]{
		Inner: inner,
		a:     newInterest(aspectA),
		b:     newInterest(aspectB),
	}
}

func (s *InteractSystem[C, S]) Activated(e ecs.IndexedEntity[C], v ecs.View[C], svc *S) {
	notify(s.Inner, s.a.activate(e, v), e, v, svc)
	notify(s.Inner, s.b.activate(e, v), e, v, svc)
}

func (s *InteractSystem[C, S]) Reactivated(e ecs.IndexedEntity[C], v ecs.View[C], svc *S) {
	notify(s.Inner, s.a.reactivate(e, v), e, v, svc)
	notify(s.Inner, s.b.reactivate(e, v), e, v, svc)
}

func (s *InteractSystem[C, S]) Deactivated(e ecs.IndexedEntity[C], v ecs.View[C], svc *S) {
	notify(s.Inner, s.a.deactivate(e), e, v, svc)
	notify(s.Inner, s.b.deactivate(e), e, v, svc)
}

func (s *InteractSystem[C, S]) IsActive() bool { return s.Inner.IsActive() }

func (s *InteractSystem[C, S]) Process(d *ecs.DataHelper[C, S]) {
	s.Inner.ProcessInteractions(s.a.entities(), s.b.entities(), d)
}

func (s *InteractSystem[C, S]) Aspects() []ecs.Aspect[C] {
	return []ecs.Aspect[C]{s.a.aspect, s.b.aspect}
}

// InterestedA reports whether e is in the first interest set.
func (s *InteractSystem[C, S]) InterestedA(e ecs.Entity) bool { return s.a.contains(e) }

// InterestedB reports whether e is in the second interest set.
func (s *InteractSystem[C, S]) InterestedB(e ecs.Entity) bool { return s.b.contains(e) }

func (s *InteractSystem[C, S]) LenA() int { return len(s.a.set) }
func (s *InteractSystem[C, S]) LenB() int { return len(s.b.set) }
