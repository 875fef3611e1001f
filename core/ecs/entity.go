package ecs

import (
	"fmt"
	"iter"
	"strconv"
)

// Entity is an opaque identifier. Identities increase monotonically and are
// never reused within a process; 0 is reserved as the nil entity.
type Entity uint64

// NilEntity is the zero entity. It is never issued by an EntityManager.
const NilEntity Entity = 0

func (e Entity) ID() uint64     { return uint64(e) }
func (e Entity) IsNil() bool    { return e == NilEntity }
func (e Entity) String() string { return "Entity(" + strconv.FormatUint(uint64(e), 10) + ")" }

// IndexedEntity pairs an entity with its dense storage index. The type
// parameter C binds the index to one component set, so indices from
// unrelated worlds cannot be passed to each other's storage.
type IndexedEntity[C any] struct {
	index  int
	entity Entity
}

// Index is the dense key used by component storage.
func (e IndexedEntity[C]) Index() int { return e.index }

func (e IndexedEntity[C]) Entity() Entity { return e.entity }

func (e IndexedEntity[C]) String() string {
	return fmt.Sprintf("%s@%d", e.entity, e.index)
}

// EntityManager issues entities, maps them to dense indices and tracks
// which are still valid.
type EntityManager[C any] struct {
	indices  *IndexPool
	entities map[Entity]IndexedEntity[C]
	nextID   uint64
}

func NewEntityManager[C any]() *EntityManager[C] {
	return &EntityManager[C]{
		indices:  NewIndexPool(),
		entities: make(map[Entity]IndexedEntity[C], 256),
	}
}

// Create issues a new entity and assigns it the first available index.
func (m *EntityManager[C]) Create() Entity {
	m.nextID++
	e := Entity(m.nextID)
	m.entities[e] = IndexedEntity[C]{index: m.indices.Acquire(), entity: e}
	return e
}

// IsValid reports whether e has been created and not yet removed.
func (m *EntityManager[C]) IsValid(e Entity) bool {
	_, ok := m.entities[e]
	return ok
}

// Indexed returns the indexed view of e. It panics if e is not valid.
func (m *EntityManager[C]) Indexed(e Entity) IndexedEntity[C] {
	ie, ok := m.entities[e]
	if !ok {
		panic(fmt.Sprintf("ecs: %s is not a valid entity", e))
	}
	return ie
}

// Lookup is the non-panicking form of Indexed.
func (m *EntityManager[C]) Lookup(e Entity) (IndexedEntity[C], bool) {
	ie, ok := m.entities[e]
	return ie, ok
}

// Remove drops e and returns its index to the pool. Removing an invalid
// entity does nothing.
func (m *EntityManager[C]) Remove(e Entity) {
	ie, ok := m.entities[e]
	if !ok {
		return
	}
	delete(m.entities, e)
	m.indices.Release(ie.index)
}

// Iter yields the live entities at the time of iteration. Creating or
// removing entities while ranging over it is undefined.
func (m *EntityManager[C]) Iter() iter.Seq[IndexedEntity[C]] {
	return func(yield func(IndexedEntity[C]) bool) {
		for _, ie := range m.entities {
			if !yield(ie) {
				return
			}
		}
	}
}

// Count returns the number of live entities.
func (m *EntityManager[C]) Count() int {
	return m.indices.Count()
}
