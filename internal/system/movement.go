package system

import (
	"iter"
	"math"

	"github.com/l1jgo/ecsrt/internal/world"
)

// movement applies velocity to position once per tick. Positions wrap
// around the arena edges.
type movement struct {
	base
	size float32
}

func (m *movement) ProcessEntities(entities iter.Seq[world.Entity], d *world.DataHelper) {
	c := d.Components
	for e := range entities {
		p, v := c.Position.Borrow(e), c.Velocity.Borrow(e)
		if p == nil || v == nil {
			continue
		}
		p.X = wrap(p.X+v.DX, m.size)
		p.Y = wrap(p.Y+v.DY, m.size)
	}
}

func wrap(x, size float32) float32 {
	x = float32(math.Mod(float64(x), float64(size)))
	if x < 0 {
		x += size
	}
	return x
}
