package system

import (
	"fmt"
	"slices"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/ecsrt/core/ecs"
	coresys "github.com/l1jgo/ecsrt/core/system"
	"github.com/l1jgo/ecsrt/internal/component"
	"github.com/l1jgo/ecsrt/internal/scripting"
	"github.com/l1jgo/ecsrt/internal/world"
)

type field = scripting.Field[component.Set]

// LuaFields lists the component fields scripts can read with get and
// write with set.
func LuaFields() map[string]field {
	pos := func(c *component.Set) *ecs.ComponentList[component.Set, component.Position] { return c.Position }
	vel := func(c *component.Set) *ecs.ComponentList[component.Set, component.Velocity] { return c.Velocity }
	hp := func(c *component.Set) *ecs.ComponentList[component.Set, component.Health] { return c.Health }
	team := func(c *component.Set) *ecs.ComponentList[component.Set, component.Team] { return c.Team }
	atk := func(c *component.Set) *ecs.ComponentList[component.Set, component.Attack] { return c.Attack }
	rg := func(c *component.Set) *ecs.ComponentList[component.Set, component.Regen] { return c.Regen }

	return map[string]field{
		"position.x":    scripting.NumberField(pos, func(p *component.Position) *float32 { return &p.X }),
		"position.y":    scripting.NumberField(pos, func(p *component.Position) *float32 { return &p.Y }),
		"velocity.dx":   scripting.NumberField(vel, func(v *component.Velocity) *float32 { return &v.DX }),
		"velocity.dy":   scripting.NumberField(vel, func(v *component.Velocity) *float32 { return &v.DY }),
		"health.hp":     scripting.NumberField(hp, func(h *component.Health) *int32 { return &h.HP }),
		"health.max":    scripting.NumberField(hp, func(h *component.Health) *int32 { return &h.Max }),
		"team.id":       scripting.NumberField(team, func(t *component.Team) *uint8 { return &t.ID }),
		"attack.damage": scripting.NumberField(atk, func(a *component.Attack) *int32 { return &a.Damage }),
		"attack.range":  scripting.NumberField(atk, func(a *component.Attack) *float32 { return &a.Range }),
		"regen.amount":  scripting.NumberField(rg, func(r *component.Regen) *int32 { return &r.Amount }),
	}
}

// NewScript wraps the Lua module in an entity system. The module's
// optional "components" and "without" string lists become the aspect;
// a module with neither sees every entity.
func NewScript(engine *scripting.Engine, module string, log *zap.Logger) (*entitySystem, error) {
	inner, err := scripting.NewScriptSystem[component.Set, world.State](engine, module, LuaFields(), log)
	if err != nil {
		return nil, err
	}
	m := engine.Module(module)
	all, err := nameList(m, "components")
	if err != nil {
		return nil, fmt.Errorf("lua module %s: %w", module, err)
	}
	none, err := nameList(m, "without")
	if err != nil {
		return nil, fmt.Errorf("lua module %s: %w", module, err)
	}
	return coresys.NewEntitySystem[component.Set, world.State](inner, aspect().All(all...).None(none...)), nil
}

func nameList(m *lua.LTable, key string) ([]string, error) {
	var out []string
	switch v := m.RawGetString(key).(type) {
	case *lua.LNilType:
		return nil, nil
	case *lua.LTable:
		var bad error
		v.ForEach(func(_, item lua.LValue) {
			s, ok := item.(lua.LString)
			switch {
			case bad != nil:
			case !ok:
				bad = fmt.Errorf("%s: want strings, got %s", key, item.Type())
			case !known(string(s)):
				bad = fmt.Errorf("%s: unknown component %q", key, string(s))
			default:
				out = append(out, string(s))
			}
		})
		return out, bad
	default:
		return nil, fmt.Errorf("%s: want a list, got %s", key, v.Type())
	}
}

func known(name string) bool {
	return slices.ContainsFunc(component.Names, func(n string) bool {
		return strings.EqualFold(n, name)
	})
}
