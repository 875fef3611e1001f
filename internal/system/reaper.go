package system

import (
	"iter"
	"slices"

	"github.com/l1jgo/ecsrt/core/event"
	"github.com/l1jgo/ecsrt/internal/world"
)

// reaper removes entities whose HP has dropped to zero and queues a Died
// event for each. Removal settles at the end-of-tick flush.
type reaper struct{ base }

func (reaper) ProcessEntities(entities iter.Seq[world.Entity], d *world.DataHelper) {
	c, s := d.Components, d.Services
	for _, e := range slices.SortedFunc(entities, byID) {
		h := c.Health.Borrow(e)
		if h == nil || h.HP > 0 {
			continue
		}
		var team uint8
		if t, ok := c.Team.Get(e); ok {
			team = t.ID
		}
		d.RemoveEntity(e.Entity())
		s.Kills++
		event.Push(&s.Events, world.Died{Entity: e.Entity(), Team: team})
	}
}
