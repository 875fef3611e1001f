package system

import (
	"go.uber.org/zap"

	"github.com/l1jgo/ecsrt/core/event"
	"github.com/l1jgo/ecsrt/internal/world"
)

// Journal drains the tick's events into the log and clears whatever is
// left in the queue. It runs last.
type Journal struct {
	base
	log    *zap.Logger
	hits   uint64
	deaths uint64
}

func (j *Journal) Process(d *world.DataHelper) {
	s := d.Services
	event.Drain(&s.Events, func(h world.Hit) {
		j.hits++
		j.log.Debug("hit",
			zap.Stringer("attacker", h.Attacker),
			zap.Stringer("target", h.Target),
			zap.Int32("damage", h.Damage),
		)
	})
	event.Drain(&s.Events, func(ev world.Died) {
		j.deaths++
		j.log.Info("entity died",
			zap.Stringer("entity", ev.Entity),
			zap.Uint8("team", ev.Team),
			zap.Uint64("tick", s.Tick),
		)
	})
	s.Events.Reset()
}

// Hits returns how many Hit events the journal has seen.
func (j *Journal) Hits() uint64 { return j.hits }

// Deaths returns how many Died events the journal has seen.
func (j *Journal) Deaths() uint64 { return j.deaths }
