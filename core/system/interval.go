package system

import (
	"fmt"

	"github.com/l1jgo/ecsrt/core/ecs"
)

// IntervalSystem forwards Process to its inner system once every interval
// ticks. Lifecycle hooks always pass straight through.
type IntervalSystem[C, S any] struct {
	Inner ecs.Process[C, S]

	interval int
	ticker   int
}

// NewIntervalSystem wraps inner so it processes on every interval-th tick.
// interval must be at least 1.
func NewIntervalSystem[C, S any](inner ecs.Process[C, S], interval int) *IntervalSystem[C, S] {
	if interval < 1 {
		panic(fmt.Sprintf("system: interval must be >= 1, got %d", interval))
	}
	return &IntervalSystem[C, S]{Inner: inner, interval: interval}
}

func (s *IntervalSystem[C, S]) Process(d *ecs.DataHelper[C, S]) {
	s.ticker++
	if s.ticker < s.interval {
		return
	}
	s.ticker = 0
	s.Inner.Process(d)
}

func (s *IntervalSystem[C, S]) Activated(e ecs.IndexedEntity[C], v ecs.View[C], svc *S) {
	s.Inner.Activated(e, v, svc)
}

func (s *IntervalSystem[C, S]) Reactivated(e ecs.IndexedEntity[C], v ecs.View[C], svc *S) {
	s.Inner.Reactivated(e, v, svc)
}

func (s *IntervalSystem[C, S]) Deactivated(e ecs.IndexedEntity[C], v ecs.View[C], svc *S) {
	s.Inner.Deactivated(e, v, svc)
}

func (s *IntervalSystem[C, S]) IsActive() bool { return s.Inner.IsActive() }

// Aspects forwards the inner system's aspects, if any.
func (s *IntervalSystem[C, S]) Aspects() []ecs.Aspect[C] {
	if h, ok := s.Inner.(ecs.AspectHolder[C]); ok {
		return h.Aspects()
	}
	return nil
}

func (s *IntervalSystem[C, S]) Interval() int { return s.interval }
