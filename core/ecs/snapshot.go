package ecs

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// ErrPendingEvents is returned when encoding a world whose event queue has
// not been flushed.
var ErrPendingEvents = errors.New("ecs: flush events before serialising the world")

type worldSnapshot struct {
	Services   json.RawMessage     `json:"services"`
	Entities   entitySnapshot      `json:"entities"`
	Components []componentSnapshot `json:"components"`
}

type entitySnapshot struct {
	NextID    uint64        `json:"next_id"`
	NextIndex int           `json:"next_index"`
	Recycled  []int         `json:"recycled"`
	Entries   []entityEntry `json:"entries"`
}

type entityEntry struct {
	ID    uint64 `json:"id"`
	Index int    `json:"index"`
}

type componentSnapshot struct {
	Name    string          `json:"name"`
	Kind    StorageKind     `json:"kind"`
	Entries json.RawMessage `json:"entries"`
}

type componentEntry[T any] struct {
	Index int `json:"i"`
	Value T   `json:"v"`
}

func (l *ComponentList[C, T]) marshalEntries() ([]byte, error) {
	entries := make([]componentEntry[T], 0, l.data.len())
	for idx, v := range l.All() {
		entries = append(entries, componentEntry[T]{Index: idx, Value: *v})
	}
	return json.Marshal(entries)
}

// restore rebuilds the list from raw. Every entry must sit at an index in
// live, so a recycled index never comes back carrying stale data.
func (l *ComponentList[C, T]) restore(kind StorageKind, raw []byte, live map[int]bool) error {
	if !kind.valid() {
		return fmt.Errorf("component %s: unrecognised list type (hot = %d, cold = %d, found %d)",
			l.name, Hot, Cold, uint8(kind))
	}
	var entries []componentEntry[T]
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("component %s: %w", l.name, err)
	}
	data := newStorage[T](kind)
	for _, en := range entries {
		if !live[en.Index] {
			return fmt.Errorf("component %s: index %d has no live entity", l.name, en.Index)
		}
		data.set(en.Index, en.Value)
	}
	l.kind = kind
	l.data = data
	return nil
}

func (m *EntityManager[C]) snapshot() entitySnapshot {
	s := entitySnapshot{
		NextID:    m.nextID,
		NextIndex: m.indices.next,
		Recycled:  slices.Clone(m.indices.recycled),
		Entries:   make([]entityEntry, 0, len(m.entities)),
	}
	for e, ie := range m.entities {
		s.Entries = append(s.Entries, entityEntry{ID: uint64(e), Index: ie.index})
	}
	slices.SortFunc(s.Entries, func(a, b entityEntry) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return s
}

func (m *EntityManager[C]) restore(s entitySnapshot) error {
	if s.NextIndex < 0 || len(s.Recycled)+len(s.Entries) != s.NextIndex {
		return fmt.Errorf("entities: %d live + %d recycled does not match high-water mark %d",
			len(s.Entries), len(s.Recycled), s.NextIndex)
	}
	seen := make(map[int]bool, s.NextIndex)
	claim := func(idx int) error {
		if idx < 0 || idx >= s.NextIndex {
			return fmt.Errorf("entities: index %d out of range", idx)
		}
		if seen[idx] {
			return fmt.Errorf("entities: index %d used twice", idx)
		}
		seen[idx] = true
		return nil
	}
	for _, idx := range s.Recycled {
		if err := claim(idx); err != nil {
			return err
		}
	}
	entities := make(map[Entity]IndexedEntity[C], len(s.Entries))
	for _, en := range s.Entries {
		if en.ID == 0 || en.ID > s.NextID {
			return fmt.Errorf("entities: identity %d outside issued range", en.ID)
		}
		if err := claim(en.Index); err != nil {
			return err
		}
		e := Entity(en.ID)
		entities[e] = IndexedEntity[C]{index: en.Index, entity: e}
	}
	m.nextID = s.NextID
	m.indices.next = s.NextIndex
	m.indices.recycled = slices.Clone(s.Recycled)
	m.entities = entities
	return nil
}

// liveIndices returns the set of indices held by live entities.
func (m *EntityManager[C]) liveIndices() map[int]bool {
	live := make(map[int]bool, len(m.entities))
	for _, ie := range m.entities {
		live[ie.index] = true
	}
	return live
}

// Encode writes the services, the entity manager and every component list
// as JSON. It returns ErrPendingEvents if the event queue is not empty.
func (d *DataHelper[C, S]) Encode(wr io.Writer) error {
	if len(d.queue) != 0 {
		return ErrPendingEvents
	}
	services, err := json.Marshal(d.Services)
	if err != nil {
		return fmt.Errorf("encode services: %w", err)
	}
	snap := worldSnapshot{
		Services:   services,
		Entities:   d.entities.snapshot(),
		Components: make([]componentSnapshot, 0, len(d.registry.stores)),
	}
	for _, s := range d.registry.stores {
		raw, err := s.marshalEntries()
		if err != nil {
			return fmt.Errorf("encode component %s: %w", s.Name(), err)
		}
		snap.Components = append(snap.Components, componentSnapshot{
			Name:    s.Name(),
			Kind:    s.Kind(),
			Entries: raw,
		})
	}
	if err := json.NewEncoder(wr).Encode(&snap); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Save flushes the event queue and encodes the world.
func (w *World[C, S]) Save(wr io.Writer) error {
	w.FlushQueue()
	if err := w.Encode(wr); err != nil {
		return err
	}
	w.log.Debug("world saved",
		zap.Int("entities", w.entities.Count()),
		zap.Int("components", len(w.registry.stores)),
	)
	return nil
}

// Load reads a world written by Save. Component lists are rebuilt with the
// storage kind recorded in the snapshot, and the world is refreshed so
// every system's interest set matches the loaded state.
func Load[C, S any](r io.Reader, components func(*Registry[C]) *C, systems []System[C, S], opts ...Option) (*World[C, S], error) {
	var snap worldSnapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var services S
	if len(snap.Services) > 0 {
		if err := json.Unmarshal(snap.Services, &services); err != nil {
			return nil, fmt.Errorf("decode services: %w", err)
		}
	}

	w := NewWorld(components, services, systems, opts...)
	if err := w.entities.restore(snap.Entities); err != nil {
		return nil, err
	}
	live := w.entities.liveIndices()
	for _, cs := range snap.Components {
		s, ok := w.registry.lookup(cs.Name)
		if !ok {
			return nil, fmt.Errorf("snapshot has unknown component %q", cs.Name)
		}
		if err := s.restore(cs.Kind, cs.Entries, live); err != nil {
			return nil, err
		}
	}
	w.Refresh()
	w.log.Debug("world loaded",
		zap.Int("entities", w.entities.Count()),
		zap.Int("components", len(snap.Components)),
	)
	return w, nil
}
