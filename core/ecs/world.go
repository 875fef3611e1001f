package ecs

import (
	"fmt"
	"iter"
	"slices"

	"go.uber.org/zap"
)

type eventKind uint8

const (
	buildEvent eventKind = iota + 1
	removeEvent
)

type event struct {
	kind   eventKind
	entity Entity
}

// DataHelper is the mutable data context: component lists, services,
// entities and the deferred event queue. Systems receive it in Process.
type DataHelper[C, S any] struct {
	Components *C
	Services   *S

	registry *Registry[C]
	entities *EntityManager[C]
	queue    []event
}

// View returns the read-only component view used by hooks and aspects.
func (d *DataHelper[C, S]) View() View[C] {
	return View[C]{data: d.Components, reg: d.registry}
}

func (d *DataHelper[C, S]) Registry() *Registry[C] { return d.registry }

// CreateEntity allocates an entity at once, runs b against it and queues
// its activation for the next flush. b may be nil.
func (d *DataHelper[C, S]) CreateEntity(b EntityBuilder[C]) Entity {
	e := d.entities.Create()
	if b != nil {
		b.Build(d.entities.Indexed(e), d.Components)
	}
	d.queue = append(d.queue, event{kind: buildEvent, entity: e})
	return e
}

// RemoveEntity queues e for removal. It stays valid until the next flush.
func (d *DataHelper[C, S]) RemoveEntity(e Entity) {
	d.queue = append(d.queue, event{kind: removeEvent, entity: e})
}

// WithEntityData calls fn with e's indexed view if e is valid and reports
// whether it did.
func (d *DataHelper[C, S]) WithEntityData(e Entity, fn func(IndexedEntity[C], *C)) bool {
	ie, ok := d.entities.Lookup(e)
	if !ok {
		return false
	}
	fn(ie, d.Components)
	return true
}

func (d *DataHelper[C, S]) IsValid(e Entity) bool { return d.entities.IsValid(e) }

// Indexed returns e's indexed view and panics if e is not valid.
func (d *DataHelper[C, S]) Indexed(e Entity) IndexedEntity[C] { return d.entities.Indexed(e) }

// Entities yields every live entity.
func (d *DataHelper[C, S]) Entities() iter.Seq[IndexedEntity[C]] { return d.entities.Iter() }

// Matching yields the live entities a matches.
func (d *DataHelper[C, S]) Matching(a Aspect[C]) iter.Seq[IndexedEntity[C]] {
	view := d.View()
	return func(yield func(IndexedEntity[C]) bool) {
		for ie := range d.entities.Iter() {
			if a.Check(ie, view) && !yield(ie) {
				return
			}
		}
	}
}

func (d *DataHelper[C, S]) EntityCount() int   { return d.entities.Count() }
func (d *DataHelper[C, S]) PendingEvents() int { return len(d.queue) }

type options struct {
	log      *zap.Logger
	queueCap int
}

// Option configures a World.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithQueueCapacity presizes the deferred event queue. Negative sizes
// count as zero.
func WithQueueCapacity(n int) Option {
	return func(o *options) { o.queueCap = max(n, 0) }
}

// World owns the entities, components and services of one simulation and
// drives its systems. Systems are fixed at construction and notified in
// the order given.
type World[C, S any] struct {
	*DataHelper[C, S]

	systems []System[C, S]
	spare   []event
	log     *zap.Logger
}

// NewWorld builds a world. components constructs the component set and must
// register every list with the registry it is given. It panics if a system
// filters on a component the registry does not know.
func NewWorld[C, S any](components func(*Registry[C]) *C, services S, systems []System[C, S], opts ...Option) *World[C, S] {
	o := options{log: zap.NewNop(), queueCap: 64}
	for _, opt := range opts {
		opt(&o)
	}

	reg := NewRegistry[C]()
	w := &World[C, S]{
		DataHelper: &DataHelper[C, S]{
			Components: components(reg),
			Services:   &services,
			registry:   reg,
			entities:   NewEntityManager[C](),
			queue:      make([]event, 0, o.queueCap),
		},
		systems: slices.Clone(systems),
		spare:   make([]event, 0, o.queueCap),
		log:     o.log,
	}
	for i, s := range w.systems {
		h, ok := s.(AspectHolder[C])
		if !ok {
			continue
		}
		for _, a := range h.Aspects() {
			for _, name := range a.Components() {
				if _, known := reg.byName[name]; !known {
					panic(fmt.Sprintf("ecs: system %d (%T) filters on unknown component %q", i, s, name))
				}
			}
		}
	}
	w.log.Debug("world created",
		zap.Strings("components", reg.Names()),
		zap.Int("systems", len(w.systems)),
	)
	return w
}

// Systems returns the registered systems in notification order.
func (w *World[C, S]) Systems() []System[C, S] {
	return slices.Clone(w.systems)
}

// ModifyEntity applies m to e right away and then sends every system a
// reactivation for e. It panics if e is not valid. m may be nil.
func (w *World[C, S]) ModifyEntity(e Entity, m EntityModifier[C]) {
	ie := w.entities.Indexed(e)
	if m != nil {
		m.Modify(ie, w.Components)
	}
	w.reactivate(ie)
}

func (w *World[C, S]) reactivate(ie IndexedEntity[C]) {
	view := w.View()
	for _, s := range w.systems {
		s.Reactivated(ie, view, w.Services)
	}
}

// FlushQueue drains the deferred events in the order they were queued.
// A build activates the entity on every system. A remove deactivates it on
// every system, then clears its components and releases it. Removing an
// entity that an earlier event already removed is skipped.
func (w *World[C, S]) FlushQueue() {
	if len(w.queue) == 0 {
		return
	}
	events := w.queue
	w.queue = w.spare[:0]

	view := w.View()
	var built, removed, skipped int
	for _, ev := range events {
		switch ev.kind {
		case buildEvent:
			ie := w.entities.Indexed(ev.entity)
			for _, s := range w.systems {
				s.Activated(ie, view, w.Services)
			}
			built++
		case removeEvent:
			ie, ok := w.entities.Lookup(ev.entity)
			if !ok {
				skipped++
				continue
			}
			for _, s := range w.systems {
				s.Deactivated(ie, view, w.Services)
			}
			w.registry.removeAll(ie)
			w.entities.Remove(ev.entity)
			removed++
		}
	}
	w.spare = events[:0]

	w.log.Debug("flushed entity events",
		zap.Int("built", built),
		zap.Int("removed", removed),
		zap.Int("skipped", skipped),
		zap.Int("live", w.entities.Count()),
	)
}

// Update runs one tick: flush, process every active system that
// implements Process in declaration order, flush again.
func (w *World[C, S]) Update() {
	w.FlushQueue()
	for _, s := range w.systems {
		if !s.IsActive() {
			continue
		}
		if p, ok := s.(Process[C, S]); ok {
			p.Process(w.DataHelper)
		}
	}
	w.FlushQueue()
}

// Process runs p once against the world's data regardless of IsActive.
// Entities p creates or removes are settled at the next flush.
func (w *World[C, S]) Process(p Process[C, S]) {
	p.Process(w.DataHelper)
}

// Refresh flushes and then reactivates every live entity on every system,
// resynchronising interest sets after bulk changes such as a load.
func (w *World[C, S]) Refresh() {
	w.FlushQueue()
	for ie := range w.entities.Iter() {
		w.reactivate(ie)
	}
	w.log.Debug("world refreshed", zap.Int("live", w.entities.Count()))
}
