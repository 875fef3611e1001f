// Package manager holds keyed helpers that sit beside the core: entity
// groups, keyed state, and a system adapter that prunes them when entities
// are deactivated.
package manager

import (
	"slices"

	"github.com/l1jgo/ecsrt/core/ecs"
)

// GroupManager keeps named lists of entities. It is a plain map and takes
// no part in interest tracking; Forget drops an entity from every group.
type GroupManager[K comparable] struct {
	Groups map[K][]ecs.Entity `json:"groups"`
}

func NewGroupManager[K comparable]() *GroupManager[K] {
	return &GroupManager[K]{Groups: make(map[K][]ecs.Entity)}
}

// Create makes an empty group for key if none exists.
func (g *GroupManager[K]) Create(key K) {
	if g.Groups == nil {
		g.Groups = make(map[K][]ecs.Entity)
	}
	if _, ok := g.Groups[key]; !ok {
		g.Groups[key] = []ecs.Entity{}
	}
}

// Add appends e to the group for key, creating the group if needed.
func (g *GroupManager[K]) Add(key K, e ecs.Entity) {
	g.Create(key)
	g.Groups[key] = append(g.Groups[key], e)
}

// Get returns the group for key.
func (g *GroupManager[K]) Get(key K) ([]ecs.Entity, bool) {
	es, ok := g.Groups[key]
	return es, ok
}

// Delete removes the group for key and returns its members.
func (g *GroupManager[K]) Delete(key K) ([]ecs.Entity, bool) {
	es, ok := g.Groups[key]
	delete(g.Groups, key)
	return es, ok
}

func (g *GroupManager[K]) Len() int { return len(g.Groups) }

// Forget removes e from every group.
func (g *GroupManager[K]) Forget(e ecs.Entity) {
	for key, es := range g.Groups {
		g.Groups[key] = slices.DeleteFunc(es, func(x ecs.Entity) bool { return x == e })
	}
}
