package scripting

import (
	"fmt"
	"iter"
	"slices"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/ecsrt/core/ecs"
)

// Field exposes one component field to Lua under a name like "health" or
// "position.x".
type Field[C any] struct {
	Get func(e ecs.IndexedEntity[C], c *C) (lua.LValue, bool)
	Set func(e ecs.IndexedEntity[C], c *C, v lua.LValue) error
}

type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// NumberField exposes a numeric field of the component stored in list(c).
// Setting it on an entity without the component is an error.
func NumberField[C, T any, N Number](list func(*C) *ecs.ComponentList[C, T], ptr func(*T) *N) Field[C] {
	return Field[C]{
		Get: func(e ecs.IndexedEntity[C], c *C) (lua.LValue, bool) {
			v := list(c).Borrow(e)
			if v == nil {
				return lua.LNil, false
			}
			return lua.LNumber(*ptr(v)), true
		},
		Set: func(e ecs.IndexedEntity[C], c *C, lv lua.LValue) error {
			n, ok := lv.(lua.LNumber)
			if !ok {
				return fmt.Errorf("%s: want number, got %s", list(c).Name(), lv.Type())
			}
			v := list(c).Borrow(e)
			if v == nil {
				return fmt.Errorf("%s has no %s", e, list(c).Name())
			}
			*ptr(v) = N(n)
			return nil
		},
	}
}

// ScriptSystem drives an entity process from a Lua module: a global table
// with optional on_activated(id), on_reactivated(id), on_deactivated(id)
// and process(ids) functions. Wrap it in system.NewEntitySystem to pick the
// entities it sees.
//
// While a script runs it can call get(id, field), and from process also
// set(id, field, value) and remove_entity(id).
type ScriptSystem[C, S any] struct {
	ecs.BaseSystem[C, S]

	engine *Engine
	module string
	fields map[string]Field[C]
	log    *zap.Logger

	known map[ecs.Entity]ecs.IndexedEntity[C]
	comps *C
	data  *ecs.DataHelper[C, S]

	get, set, remove *lua.LFunction
	failures         int
}

func NewScriptSystem[C, S any](engine *Engine, module string, fields map[string]Field[C], log *zap.Logger) (*ScriptSystem[C, S], error) {
	if engine.Module(module) == nil {
		return nil, fmt.Errorf("lua module %q is not defined", module)
	}
	s := &ScriptSystem[C, S]{
		engine: engine,
		module: module,
		fields: fields,
		log:    log.With(zap.String("module", module)),
		known:  make(map[ecs.Entity]ecs.IndexedEntity[C]),
	}
	s.get = engine.NewFunction(s.luaGet)
	s.set = engine.NewFunction(s.luaSet)
	s.remove = engine.NewFunction(s.luaRemove)
	return s, nil
}

// Failures returns how many script calls raised an error.
func (s *ScriptSystem[C, S]) Failures() int { return s.failures }

func (s *ScriptSystem[C, S]) Activated(e ecs.IndexedEntity[C], v ecs.View[C], _ *S) {
	s.known[e.Entity()] = e
	s.hook("on_activated", e, v.Components())
}

func (s *ScriptSystem[C, S]) Reactivated(e ecs.IndexedEntity[C], v ecs.View[C], _ *S) {
	s.hook("on_reactivated", e, v.Components())
}

func (s *ScriptSystem[C, S]) Deactivated(e ecs.IndexedEntity[C], v ecs.View[C], _ *S) {
	s.hook("on_deactivated", e, v.Components())
	delete(s.known, e.Entity())
}

func (s *ScriptSystem[C, S]) ProcessEntities(entities iter.Seq[ecs.IndexedEntity[C]], d *ecs.DataHelper[C, S]) {
	fn := s.function("process")
	if fn == nil {
		return
	}
	ids := slices.Sorted(func(yield func(uint64) bool) {
		for ie := range entities {
			if !yield(ie.Entity().ID()) {
				return
			}
		}
	})
	t := s.engine.NewTable()
	for _, id := range ids {
		t.Append(lua.LNumber(id))
	}

	s.bind(d.Components, d)
	defer s.unbind()
	if _, err := s.engine.Call(fn, t); err != nil {
		s.fail("process", err)
	}
}

func (s *ScriptSystem[C, S]) hook(name string, e ecs.IndexedEntity[C], c *C) {
	fn := s.function(name)
	if fn == nil {
		return
	}
	s.bind(c, nil)
	defer s.unbind()
	if _, err := s.engine.Call(fn, lua.LNumber(e.Entity().ID())); err != nil {
		s.fail(name, err)
	}
}

func (s *ScriptSystem[C, S]) function(name string) *lua.LFunction {
	m := s.engine.Module(s.module)
	if m == nil {
		return nil
	}
	fn, _ := m.RawGetString(name).(*lua.LFunction)
	return fn
}

func (s *ScriptSystem[C, S]) bind(c *C, d *ecs.DataHelper[C, S]) {
	s.comps, s.data = c, d
	s.engine.SetGlobal("get", s.get)
	s.engine.SetGlobal("set", s.set)
	s.engine.SetGlobal("remove_entity", s.remove)
}

func (s *ScriptSystem[C, S]) unbind() {
	s.comps, s.data = nil, nil
}

func (s *ScriptSystem[C, S]) fail(name string, err error) {
	s.failures++
	s.log.Error("lua call error", zap.String("func", name), zap.Error(err))
}

// resolve finds the entity behind a Lua id. Hooks only see entities this
// system has been activated for; process sees every live entity.
func (s *ScriptSystem[C, S]) resolve(id lua.LNumber) (ecs.IndexedEntity[C], bool) {
	e := ecs.Entity(uint64(id))
	if s.data != nil {
		var out ecs.IndexedEntity[C]
		ok := s.data.WithEntityData(e, func(ie ecs.IndexedEntity[C], _ *C) { out = ie })
		return out, ok
	}
	ie, ok := s.known[e]
	return ie, ok
}

func (s *ScriptSystem[C, S]) field(L *lua.LState, n int) Field[C] {
	name := L.CheckString(n)
	f, ok := s.fields[name]
	if !ok {
		L.ArgError(n, "unknown field "+name)
	}
	return f
}

// get(id, field) returns the value or nil.
func (s *ScriptSystem[C, S]) luaGet(L *lua.LState) int {
	id := L.CheckNumber(1)
	f := s.field(L, 2)
	ie, ok := s.resolve(id)
	if !ok || s.comps == nil {
		L.Push(lua.LNil)
		return 1
	}
	v, _ := f.Get(ie, s.comps)
	L.Push(v)
	return 1
}

// set(id, field, value) raises an error outside process or on a bad value.
func (s *ScriptSystem[C, S]) luaSet(L *lua.LState) int {
	id := L.CheckNumber(1)
	f := s.field(L, 2)
	v := L.CheckAny(3)
	if s.data == nil {
		L.RaiseError("set is only available in process")
		return 0
	}
	ie, ok := s.resolve(id)
	if !ok {
		L.RaiseError("unknown entity %d", uint64(id))
		return 0
	}
	if err := f.Set(ie, s.comps, v); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// remove_entity(id) queues a removal and reports whether id was live.
func (s *ScriptSystem[C, S]) luaRemove(L *lua.LState) int {
	id := L.CheckNumber(1)
	if s.data == nil {
		L.RaiseError("remove_entity is only available in process")
		return 0
	}
	e := ecs.Entity(uint64(id))
	if !s.data.IsValid(e) {
		L.Push(lua.LFalse)
		return 1
	}
	s.data.RemoveEntity(e)
	L.Push(lua.LTrue)
	return 1
}
