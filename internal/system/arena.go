// Package system holds the arena's systems: a clock, a team index,
// movement, combat, regeneration, a reaper and an event journal, plus the
// glue that exposes components to Lua scripts.
package system

import (
	"go.uber.org/zap"

	"github.com/l1jgo/ecsrt/core/ecs"
	"github.com/l1jgo/ecsrt/core/manager"
	coresys "github.com/l1jgo/ecsrt/core/system"
	"github.com/l1jgo/ecsrt/internal/component"
	"github.com/l1jgo/ecsrt/internal/config"
	"github.com/l1jgo/ecsrt/internal/world"
)

type (
	base    = ecs.BaseSystem[component.Set, world.State]
	passive = ecs.PassiveSystem[component.Set, world.State]

	entitySystem   = coresys.EntitySystem[component.Set, world.State]
	interactSystem = coresys.InteractSystem[component.Set, world.State]
	intervalSystem = coresys.IntervalSystem[component.Set, world.State]
)

func aspect() world.Aspect { return ecs.NewAspect[component.Set]() }

// Arena is the full set of arena systems. Systems returns them in tick
// order; the fields are kept for inspection.
type Arena struct {
	Clock    *ClockSystem
	Teams    *entitySystem
	Movement *entitySystem
	Combat   *interactSystem
	Regen    *intervalSystem
	Scripts  []world.System
	Reaper   *entitySystem
	Journal  *Journal
	Pruner   *manager.Pruner[component.Set, world.State]
}

// NewArena builds the arena systems. scripts run after regen and before
// the reaper, so damage they deal is reaped in the same tick.
func NewArena(cfg config.ArenaConfig, log *zap.Logger, scripts ...world.System) *Arena {
	return &Arena{
		Clock: &ClockSystem{},
		Teams: coresys.NewEntitySystem[component.Set, world.State](
			teamIndex{}, aspect().All(component.NameTeam)),
		Movement: coresys.NewEntitySystem[component.Set, world.State](
			&movement{size: cfg.Size}, aspect().All(component.NamePosition, component.NameVelocity)),
		Combat: coresys.NewInteractSystem[component.Set, world.State](
			combat{},
			aspect().All(component.NamePosition, component.NameTeam, component.NameAttack),
			aspect().All(component.NamePosition, component.NameTeam, component.NameHealth),
		),
		Regen: coresys.NewIntervalSystem[component.Set, world.State](
			coresys.NewEntitySystem[component.Set, world.State](
				&regen{delay: uint64(max(cfg.RegenDelay, 0))},
				aspect().All(component.NameHealth, component.NameRegen)),
			cfg.RegenEvery,
		),
		Scripts: scripts,
		Reaper: coresys.NewEntitySystem[component.Set, world.State](
			reaper{}, aspect().All(component.NameHealth)),
		Journal: &Journal{log: log.Named("journal")},
		Pruner: manager.NewPruner[component.Set, world.State](func(s *world.State) []manager.Forgetter {
			return []manager.Forgetter{
				&s.Teams,
				manager.ForgetFunc(func(e ecs.Entity) { s.LastHit.Clear(e) }),
			}
		}),
	}
}

// Systems returns the systems in the order the world should run them.
func (a *Arena) Systems() []world.System {
	out := []world.System{a.Clock, a.Teams, a.Movement, a.Combat, a.Regen}
	out = append(out, a.Scripts...)
	return append(out, a.Reaper, a.Journal, a.Pruner)
}
