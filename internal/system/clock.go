package system

import "github.com/l1jgo/ecsrt/internal/world"

// ClockSystem advances State.Tick. NewArena puts it first so every later
// system sees the current tick.
type ClockSystem struct{ base }

func (*ClockSystem) Process(d *world.DataHelper) {
	d.Services.Tick++
}
