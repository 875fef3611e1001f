package ecs_test

import (
	"fmt"

	"github.com/l1jgo/ecsrt/core/ecs"
)

type position struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

type team uint8

type feature struct{}

type testComponents struct {
	Position *ecs.ComponentList[testComponents, position]
	Team     *ecs.ComponentList[testComponents, team]
	Feature  *ecs.ComponentList[testComponents, feature]
}

func newTestComponents(r *ecs.Registry[testComponents]) *testComponents {
	return &testComponents{
		Position: ecs.NewHot[testComponents, position](r, "position"),
		Team:     ecs.NewCold[testComponents, team](r, "team"),
		Feature:  ecs.NewHot[testComponents, feature](r, "feature"),
	}
}

type testServices struct {
	Check uint32 `json:"check"`
}

type testWorld = ecs.World[testComponents, testServices]

func newTestWorld(systems ...ecs.System[testComponents, testServices]) *testWorld {
	return ecs.NewWorld(newTestComponents, testServices{}, systems)
}

type entityInit struct {
	Position *position
	Team     *team
	Feature  bool
}

func (b entityInit) Build(e ecs.IndexedEntity[testComponents], c *testComponents) {
	if b.Position != nil {
		c.Position.Add(e, *b.Position)
	}
	if b.Team != nil {
		c.Team.Add(e, *b.Team)
	}
	if b.Feature {
		c.Feature.Add(e, feature{})
	}
}

func ptr[T any](v T) *T { return &v }

// recorder logs every notification it receives along with the components
// visible at that moment.
type recorder struct {
	ecs.BaseSystem[testComponents, testServices]

	events    []string
	processed int
	active    bool
}

func newRecorder() *recorder { return &recorder{active: true} }

func (r *recorder) note(kind string, e ecs.IndexedEntity[testComponents], v ecs.View[testComponents]) {
	r.events = append(r.events, fmt.Sprintf("%s %d pos=%t team=%t",
		kind, e.Entity().ID(), v.Has("position", e), v.Has("team", e)))
}

func (r *recorder) Activated(e ecs.IndexedEntity[testComponents], v ecs.View[testComponents], _ *testServices) {
	r.note("activated", e, v)
}

func (r *recorder) Reactivated(e ecs.IndexedEntity[testComponents], v ecs.View[testComponents], _ *testServices) {
	r.note("reactivated", e, v)
}

func (r *recorder) Deactivated(e ecs.IndexedEntity[testComponents], v ecs.View[testComponents], _ *testServices) {
	r.note("deactivated", e, v)
}

func (r *recorder) IsActive() bool { return r.active }

func (r *recorder) Process(d *ecs.DataHelper[testComponents, testServices]) {
	r.processed++
	d.Services.Check++
}
