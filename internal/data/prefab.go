package data

import (
	"cmp"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/ecsrt/core/ecs"
)

// Prefab is a named entity template. Components maps a registered component
// name to the YAML body decoded into it.
type Prefab struct {
	Name       string               `yaml:"name"`
	Count      int                  `yaml:"count"` // entities spawned at boot
	Components map[string]yaml.Node `yaml:"components"`
}

type prefabFile struct {
	Prefabs []Prefab `yaml:"prefabs"`
}

// PrefabTable holds prefabs by name in file order.
type PrefabTable struct {
	prefabs map[string]*Prefab
	order   []string
}

// LoadPrefabs loads a prefab YAML file.
func LoadPrefabs(path string) (*PrefabTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefabs: %w", err)
	}
	return ParsePrefabs(raw)
}

func ParsePrefabs(raw []byte) (*PrefabTable, error) {
	var f prefabFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse prefabs: %w", err)
	}
	t := &PrefabTable{
		prefabs: make(map[string]*Prefab, len(f.Prefabs)),
		order:   make([]string, 0, len(f.Prefabs)),
	}
	for i := range f.Prefabs {
		p := &f.Prefabs[i]
		if p.Name == "" {
			return nil, fmt.Errorf("parse prefabs: entry %d has no name", i)
		}
		if _, dup := t.prefabs[p.Name]; dup {
			return nil, fmt.Errorf("parse prefabs: duplicate prefab %q", p.Name)
		}
		if p.Count < 0 {
			return nil, fmt.Errorf("parse prefabs: %s: negative count", p.Name)
		}
		t.prefabs[p.Name] = p
		t.order = append(t.order, p.Name)
	}
	return t, nil
}

// Get returns the prefab called name, or nil.
func (t *PrefabTable) Get(name string) *Prefab {
	return t.prefabs[name]
}

// Names returns prefab names in file order.
func (t *PrefabTable) Names() []string {
	return slices.Clone(t.order)
}

func (t *PrefabTable) Count() int {
	return len(t.prefabs)
}

type decodedComponent struct {
	name string
	node *yaml.Node
}

// PrefabBuilder writes a prefab's components into new entities. Build cannot
// fail, so the decode error of the latest Build is kept in Err.
type PrefabBuilder[C any] struct {
	prefab     string
	reg        *ecs.Registry[C]
	components []decodedComponent
	err        error
}

// Builder returns a builder for the prefab called name. It fails if the
// prefab is missing or names a component reg does not know.
func Builder[C any](t *PrefabTable, name string, reg *ecs.Registry[C]) (*PrefabBuilder[C], error) {
	p := t.Get(name)
	if p == nil {
		return nil, fmt.Errorf("unknown prefab %q", name)
	}
	b := &PrefabBuilder[C]{prefab: name, reg: reg}
	for comp, node := range p.Components {
		if !reg.Known(comp) {
			return nil, fmt.Errorf("prefab %s: unknown component %q", name, comp)
		}
		b.components = append(b.components, decodedComponent{name: comp, node: &node})
	}
	slices.SortFunc(b.components, func(x, y decodedComponent) int {
		return cmp.Compare(x.name, y.name)
	})
	return b, nil
}

func (b *PrefabBuilder[C]) Build(e ecs.IndexedEntity[C], _ *C) {
	b.err = nil
	for _, c := range b.components {
		if err := b.reg.DecodeInto(c.name, e, c.node.Decode); err != nil {
			b.err = fmt.Errorf("prefab %s: %w", b.prefab, err)
			return
		}
	}
}

// Err returns the decode error of the latest Build, or nil.
func (b *PrefabBuilder[C]) Err() error { return b.err }

// Spawn creates Count entities of every prefab in file order. An entity
// whose components fail to decode is removed again and the error returned.
func Spawn[C, S any](t *PrefabTable, w *ecs.World[C, S]) (int, error) {
	n := 0
	for _, name := range t.order {
		b, err := Builder(t, name, w.Registry())
		if err != nil {
			return n, err
		}
		for i := 0; i < t.prefabs[name].Count; i++ {
			e := w.CreateEntity(b)
			if err := b.Err(); err != nil {
				w.RemoveEntity(e)
				return n, err
			}
			n++
		}
	}
	return n, nil
}
