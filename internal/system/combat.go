package system

import (
	"cmp"
	"iter"
	"slices"

	"github.com/l1jgo/ecsrt/core/event"
	"github.com/l1jgo/ecsrt/internal/component"
	"github.com/l1jgo/ecsrt/internal/world"
)

// combat matches attackers against targets. Each living attacker strikes
// the nearest living target of another team within its range, at most once
// per tick. Ties go to the lower entity id. Attackers act in id order and
// damage lands at once, so a target killed earlier in the tick is skipped.
type combat struct{ base }

func (combat) ProcessInteractions(attackers, targets iter.Seq[world.Entity], d *world.DataHelper) {
	c, s := d.Components, d.Services
	pool := slices.SortedFunc(targets, byID)

	for _, a := range slices.SortedFunc(attackers, byID) {
		atk, pos, team := c.Attack.Borrow(a), c.Position.Borrow(a), c.Team.Borrow(a)
		if atk == nil || pos == nil || team == nil {
			continue
		}
		if h := c.Health.Borrow(a); h != nil && h.HP <= 0 {
			continue
		}

		limit := atk.Range * atk.Range
		var (
			target *world.Entity
			best   float32
		)
		for i := range pool {
			t := &pool[i]
			if t.Entity() == a.Entity() {
				continue
			}
			tt, th, tp := c.Team.Borrow(*t), c.Health.Borrow(*t), c.Position.Borrow(*t)
			if tt == nil || th == nil || tp == nil || tt.ID == team.ID || th.HP <= 0 {
				continue
			}
			dist := distSq(*pos, *tp)
			if dist > limit || (target != nil && dist >= best) {
				continue
			}
			target, best = t, dist
		}
		if target == nil {
			continue
		}

		c.Health.Borrow(*target).HP -= atk.Damage
		s.LastHit.Set(target.Entity(), s.Tick)
		event.Push(&s.Events, world.Hit{
			Attacker: a.Entity(),
			Target:   target.Entity(),
			Damage:   atk.Damage,
		})
	}
}

func distSq(a, b component.Position) float32 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

func byID(a, b world.Entity) int {
	return cmp.Compare(a.Entity(), b.Entity())
}
