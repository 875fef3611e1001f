package ecs

// System receives lifecycle notifications for entities. Activated fires
// when an entity is built (or, for filtering systems, starts matching),
// Reactivated when a live entity is modified or refreshed, and Deactivated
// when it is removed (or stops matching). Hooks get a read-only component
// view and the world's services.
type System[C, S any] interface {
	Activated(e IndexedEntity[C], c View[C], s *S)
	Reactivated(e IndexedEntity[C], c View[C], s *S)
	Deactivated(e IndexedEntity[C], c View[C], s *S)
	// IsActive reports whether World.Update should process the system.
	IsActive() bool
}

// Process is a System the world can tick.
type Process[C, S any] interface {
	System[C, S]
	Process(d *DataHelper[C, S])
}

// BaseSystem implements System with no-op hooks and is always active.
// Embed it and override what you need.
type BaseSystem[C, S any] struct{}

func (BaseSystem[C, S]) Activated(IndexedEntity[C], View[C], *S)   {}
func (BaseSystem[C, S]) Reactivated(IndexedEntity[C], View[C], *S) {}
func (BaseSystem[C, S]) Deactivated(IndexedEntity[C], View[C], *S) {}
func (BaseSystem[C, S]) IsActive() bool                            { return true }

// PassiveSystem is a BaseSystem that World.Update skips. Drive it with
// World.Process.
type PassiveSystem[C, S any] struct{ BaseSystem[C, S] }

func (PassiveSystem[C, S]) IsActive() bool { return false }
