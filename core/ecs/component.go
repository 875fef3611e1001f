package ecs

import (
	"fmt"
	"iter"
	"slices"
)

// StorageKind selects the container backing a ComponentList. The numeric
// values double as the snapshot discriminator and must not change.
type StorageKind uint8

const (
	// Hot storage is a slice indexed by dense entity index. Use it for
	// components most entities carry.
	Hot StorageKind = 1
	// Cold storage is a map keyed by dense entity index. Memory follows the
	// number of entities carrying the component, not the index range.
	Cold StorageKind = 2
)

func (k StorageKind) String() string {
	switch k {
	case Hot:
		return "hot"
	case Cold:
		return "cold"
	default:
		return fmt.Sprintf("StorageKind(%d)", uint8(k))
	}
}

func (k StorageKind) valid() bool { return k == Hot || k == Cold }

type storage[T any] interface {
	set(idx int, v T) (T, bool)
	remove(idx int) (T, bool)
	ptr(idx int) *T
	has(idx int) bool
	len() int
	each(fn func(int, *T) bool)
}

func newStorage[T any](kind StorageKind) storage[T] {
	switch kind {
	case Hot:
		return &denseStorage[T]{}
	case Cold:
		return &sparseStorage[T]{data: make(map[int]*T, 64)}
	default:
		panic(fmt.Sprintf("ecs: unknown storage kind %d", uint8(kind)))
	}
}

type denseStorage[T any] struct {
	values  []T
	present []bool
	count   int
}

func (s *denseStorage[T]) grow(n int) {
	if n <= len(s.values) {
		return
	}
	s.values = append(s.values, make([]T, n-len(s.values))...)
	s.present = append(s.present, make([]bool, n-len(s.present))...)
}

func (s *denseStorage[T]) set(idx int, v T) (T, bool) {
	s.grow(idx + 1)
	prev, had := s.values[idx], s.present[idx]
	if !had {
		s.count++
	}
	s.values[idx] = v
	s.present[idx] = true
	return prev, had
}

func (s *denseStorage[T]) remove(idx int) (T, bool) {
	var zero T
	if !s.has(idx) {
		return zero, false
	}
	prev := s.values[idx]
	s.values[idx] = zero
	s.present[idx] = false
	s.count--
	return prev, true
}

func (s *denseStorage[T]) ptr(idx int) *T {
	if !s.has(idx) {
		return nil
	}
	return &s.values[idx]
}

func (s *denseStorage[T]) has(idx int) bool {
	return idx >= 0 && idx < len(s.present) && s.present[idx]
}

func (s *denseStorage[T]) len() int { return s.count }

func (s *denseStorage[T]) each(fn func(int, *T) bool) {
	for idx := range s.values {
		if s.present[idx] && !fn(idx, &s.values[idx]) {
			return
		}
	}
}

type sparseStorage[T any] struct {
	data map[int]*T
}

func (s *sparseStorage[T]) set(idx int, v T) (T, bool) {
	if p, ok := s.data[idx]; ok {
		prev := *p
		*p = v
		return prev, true
	}
	s.data[idx] = &v
	var zero T
	return zero, false
}

func (s *sparseStorage[T]) remove(idx int) (T, bool) {
	p, ok := s.data[idx]
	if !ok {
		var zero T
		return zero, false
	}
	delete(s.data, idx)
	return *p, true
}

func (s *sparseStorage[T]) ptr(idx int) *T { return s.data[idx] }

func (s *sparseStorage[T]) has(idx int) bool {
	_, ok := s.data[idx]
	return ok
}

func (s *sparseStorage[T]) len() int { return len(s.data) }

func (s *sparseStorage[T]) each(fn func(int, *T) bool) {
	keys := make([]int, 0, len(s.data))
	for idx := range s.data {
		keys = append(keys, idx)
	}
	slices.Sort(keys)
	for _, idx := range keys {
		if !fn(idx, s.data[idx]) {
			return
		}
	}
}

// ComponentList stores one component type for every entity of a world
// configuration C, keyed by dense index. It never creates entities or
// touches the index pool.
//
// Pointers returned by Borrow and At stay valid until the next insertion
// into the same Hot list.
type ComponentList[C, T any] struct {
	name string
	kind StorageKind
	data storage[T]
}

// NewComponentList creates a list of the given kind and registers it in r
// under name so entity teardown and snapshots can reach it. Registering two
// lists under the same (case-folded) name panics. r may be nil for a
// free-standing list.
func NewComponentList[C, T any](r *Registry[C], name string, kind StorageKind) *ComponentList[C, T] {
	l := &ComponentList[C, T]{
		name: name,
		kind: kind,
		data: newStorage[T](kind),
	}
	if r != nil {
		r.register(l)
	}
	return l
}

// NewHot is shorthand for NewComponentList(r, name, Hot).
func NewHot[C, T any](r *Registry[C], name string) *ComponentList[C, T] {
	return NewComponentList[C, T](r, name, Hot)
}

// NewCold is shorthand for NewComponentList(r, name, Cold).
func NewCold[C, T any](r *Registry[C], name string) *ComponentList[C, T] {
	return NewComponentList[C, T](r, name, Cold)
}

func (l *ComponentList[C, T]) Name() string      { return l.name }
func (l *ComponentList[C, T]) Kind() StorageKind { return l.kind }
func (l *ComponentList[C, T]) Len() int          { return l.data.len() }

// Add stores v for e, replacing and returning any previous value.
// Builders use Add; it behaves exactly like Insert and Set.
func (l *ComponentList[C, T]) Add(e IndexedEntity[C], v T) (T, bool) {
	return l.data.set(e.index, v)
}

// Insert stores v for e, replacing and returning any previous value.
func (l *ComponentList[C, T]) Insert(e IndexedEntity[C], v T) (T, bool) {
	return l.data.set(e.index, v)
}

// Set stores v for e, replacing and returning any previous value.
func (l *ComponentList[C, T]) Set(e IndexedEntity[C], v T) (T, bool) {
	return l.data.set(e.index, v)
}

// Remove deletes e's value and returns it.
func (l *ComponentList[C, T]) Remove(e IndexedEntity[C]) (T, bool) {
	return l.data.remove(e.index)
}

// Get returns a copy of e's value.
func (l *ComponentList[C, T]) Get(e IndexedEntity[C]) (T, bool) {
	p := l.data.ptr(e.index)
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

func (l *ComponentList[C, T]) Has(e IndexedEntity[C]) bool {
	return l.data.has(e.index)
}

// Borrow returns a pointer to e's value, or nil if e has none.
func (l *ComponentList[C, T]) Borrow(e IndexedEntity[C]) *T {
	return l.data.ptr(e.index)
}

// At returns a pointer to e's value and panics if there is none. Use it
// where presence is already established, e.g. by an aspect.
func (l *ComponentList[C, T]) At(e IndexedEntity[C]) *T {
	p := l.data.ptr(e.index)
	if p == nil {
		panic(fmt.Sprintf("ecs: could not find %s entry for %s", l.name, e.entity))
	}
	return p
}

// All yields every stored value by ascending dense index.
func (l *ComponentList[C, T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		l.data.each(yield)
	}
}

// Apply performs a field-wise change: Keep leaves the value alone, Put
// stores a value and Drop removes it.
func (l *ComponentList[C, T]) Apply(e IndexedEntity[C], ch Change[T]) {
	switch ch.op {
	case changePut:
		l.data.set(e.index, ch.value)
	case changeDrop:
		l.data.remove(e.index)
	}
}

func (l *ComponentList[C, T]) hasIndex(idx int) bool { return l.data.has(idx) }

func (l *ComponentList[C, T]) clear(idx int) { l.data.remove(idx) }

func (l *ComponentList[C, T]) decodeAt(idx int, decode func(any) error) error {
	var v T
	if err := decode(&v); err != nil {
		return fmt.Errorf("decode %s: %w", l.name, err)
	}
	l.data.set(idx, v)
	return nil
}

type changeOp uint8

const (
	changeKeep changeOp = iota
	changePut
	changeDrop
)

// Change describes what a modifier does to one component: keep it, put a
// new value, or drop it. The zero Change keeps.
type Change[T any] struct {
	op    changeOp
	value T
}

func Keep[T any]() Change[T]     { return Change[T]{} }
func Put[T any](v T) Change[T]   { return Change[T]{op: changePut, value: v} }
func Drop[T any]() Change[T]     { return Change[T]{op: changeDrop} }
func (c Change[T]) IsKeep() bool { return c.op == changeKeep }
