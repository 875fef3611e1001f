package system

import (
	"iter"

	"github.com/l1jgo/ecsrt/internal/world"
)

// teamIndex keeps State.Teams in step with the team component. It never
// processes; the entity system wrapper only calls it on interest changes.
type teamIndex struct{ passive }

func (teamIndex) Activated(e world.Entity, v world.View, s *world.State) {
	placeTeam(e, v, s)
}

func (teamIndex) Reactivated(e world.Entity, v world.View, s *world.State) {
	placeTeam(e, v, s)
}

func (teamIndex) Deactivated(e world.Entity, _ world.View, s *world.State) {
	s.Teams.Forget(e.Entity())
}

func (teamIndex) ProcessEntities(iter.Seq[world.Entity], *world.DataHelper) {}

// placeTeam files e under its current team. Entities restored from a
// snapshot are already filed, so the old entry is dropped first.
func placeTeam(e world.Entity, v world.View, s *world.State) {
	s.Teams.Forget(e.Entity())
	if t, ok := v.Components().Team.Get(e); ok {
		s.Teams.Add(t.ID, e.Entity())
	}
}
