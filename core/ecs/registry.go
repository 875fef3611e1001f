package ecs

import (
	"fmt"

	"golang.org/x/text/cases"
)

// componentStore is the type-erased face of a ComponentList. The registry
// uses it to tear entities down and to move lists in and out of snapshots.
type componentStore interface {
	Name() string
	Kind() StorageKind
	Len() int
	hasIndex(idx int) bool
	clear(idx int)
	decodeAt(idx int, decode func(any) error) error
	marshalEntries() ([]byte, error)
	restore(kind StorageKind, raw []byte, live map[int]bool) error
}

// Registry tracks every component list of one world configuration.
// Component names are case-folded, so "Position" and "position" are the
// same component.
type Registry[C any] struct {
	stores []componentStore
	byName map[string]int
}

func NewRegistry[C any]() *Registry[C] {
	return &Registry[C]{
		stores: make([]componentStore, 0, 16),
		byName: make(map[string]int, 16),
	}
}

func foldName(name string) string {
	return cases.Fold().String(name)
}

func (r *Registry[C]) register(s componentStore) {
	key := foldName(s.Name())
	if key == "" {
		panic("ecs: component list registered without a name")
	}
	if _, dup := r.byName[key]; dup {
		panic(fmt.Sprintf("ecs: component %q registered twice", s.Name()))
	}
	r.byName[key] = len(r.stores)
	r.stores = append(r.stores, s)
}

func (r *Registry[C]) lookup(name string) (componentStore, bool) {
	i, ok := r.byName[foldName(name)]
	if !ok {
		return nil, false
	}
	return r.stores[i], true
}

// lookupFolded skips folding for names that were folded at aspect build time.
func (r *Registry[C]) lookupFolded(key string) componentStore {
	i, ok := r.byName[key]
	if !ok {
		panic(fmt.Sprintf("ecs: unknown component %q", key))
	}
	return r.stores[i]
}

// Known reports whether a component called name is registered.
func (r *Registry[C]) Known(name string) bool {
	_, ok := r.lookup(name)
	return ok
}

// Has reports whether e carries the component called name. It panics if no
// such component is registered.
func (r *Registry[C]) Has(name string, e IndexedEntity[C]) bool {
	s, ok := r.lookup(name)
	if !ok {
		panic(fmt.Sprintf("ecs: unknown component %q", name))
	}
	return s.hasIndex(e.index)
}

// Kind returns the storage kind of the component called name.
func (r *Registry[C]) Kind(name string) (StorageKind, bool) {
	s, ok := r.lookup(name)
	if !ok {
		return 0, false
	}
	return s.Kind(), true
}

// Names returns the registered component names in registration order.
func (r *Registry[C]) Names() []string {
	names := make([]string, len(r.stores))
	for i, s := range r.stores {
		names[i] = s.Name()
	}
	return names
}

// DecodeInto decodes a value for the component called name and stores it
// for e. decode receives a pointer to a zero component value; it is
// typically a yaml.Node's Decode or a json.Unmarshal closure.
func (r *Registry[C]) DecodeInto(name string, e IndexedEntity[C], decode func(any) error) error {
	s, ok := r.lookup(name)
	if !ok {
		return fmt.Errorf("unknown component %q", name)
	}
	return s.decodeAt(e.index, decode)
}

// removeAll clears e from every registered list. Only entity teardown
// calls it.
func (r *Registry[C]) removeAll(e IndexedEntity[C]) {
	for _, s := range r.stores {
		s.clear(e.index)
	}
}
