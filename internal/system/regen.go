package system

import (
	"iter"

	"github.com/l1jgo/ecsrt/internal/world"
)

// regen heals living entities by their Regen amount, capped at Max. An
// entity hit within the last delay ticks does not heal. NewArena runs it
// under an interval gate.
type regen struct {
	base
	delay uint64
}

func (r *regen) ProcessEntities(entities iter.Seq[world.Entity], d *world.DataHelper) {
	c, s := d.Components, d.Services
	for e := range entities {
		h, g := c.Health.Borrow(e), c.Regen.Borrow(e)
		if h == nil || g == nil || h.HP <= 0 || h.HP >= h.Max {
			continue
		}
		if last, ok := s.LastHit.Get(e.Entity()); ok && s.Tick-last < r.delay {
			continue
		}
		h.HP = min(h.HP+g.Amount, h.Max)
	}
}
