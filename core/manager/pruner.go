package manager

import "github.com/l1jgo/ecsrt/core/ecs"

// Forgetter drops every reference it holds to an entity.
type Forgetter interface {
	Forget(e ecs.Entity)
}

// ForgetFunc adapts a function to Forgetter, e.g. a StateManager keyed by
// entity: ForgetFunc(func(e ecs.Entity) { states.Clear(e) }).
type ForgetFunc func(e ecs.Entity)

func (f ForgetFunc) Forget(e ecs.Entity) { f(e) }

// Pruner is a passive system that forwards deactivations to managers. The
// managers are looked up in the services on every call, so a pruner keeps
// working after the services are replaced by a load.
type Pruner[C, S any] struct {
	ecs.PassiveSystem[C, S]

	managers func(*S) []Forgetter
}

func NewPruner[C, S any](managers func(*S) []Forgetter) *Pruner[C, S] {
	return &Pruner[C, S]{managers: managers}
}

func (p *Pruner[C, S]) Deactivated(e ecs.IndexedEntity[C], _ ecs.View[C], s *S) {
	for _, m := range p.managers(s) {
		m.Forget(e.Entity())
	}
}
