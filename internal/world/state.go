package world

import (
	"github.com/l1jgo/ecsrt/core/ecs"
	"github.com/l1jgo/ecsrt/core/event"
	"github.com/l1jgo/ecsrt/core/manager"
	"github.com/l1jgo/ecsrt/internal/component"
)

// State is the arena's service bundle. Tick, Kills and Teams are saved with
// every snapshot; LastHit and Events only matter while the world runs.
// Every field works from its zero value, so a loaded State is ready as is.
// Accessed only from the tick goroutine; no locks needed.
type State struct {
	Tick  uint64                      `json:"tick"`
	Kills uint64                      `json:"kills"`
	Teams manager.GroupManager[uint8] `json:"teams"`

	// LastHit holds the tick each entity last took damage.
	LastHit manager.StateManager[ecs.Entity, uint64] `json:"-"`
	Events  event.Queue                              `json:"-"`
}

type (
	World      = ecs.World[component.Set, State]
	DataHelper = ecs.DataHelper[component.Set, State]
	System     = ecs.System[component.Set, State]
	Entity     = ecs.IndexedEntity[component.Set]
	View       = ecs.View[component.Set]
	Aspect     = ecs.Aspect[component.Set]
)

// Hit is queued when an attacker damages a target.
type Hit struct {
	Attacker ecs.Entity
	Target   ecs.Entity
	Damage   int32
}

// Died is queued when an entity's HP reaches zero and it is reaped.
type Died struct {
	Entity ecs.Entity
	Team   uint8
}
