package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only (tick
// loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua VM with the standard libraries opened.
func NewEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &Engine{vm: vm, log: log}
}

// NewEngineFromDir creates an engine and loads every script under dir.
func NewEngineFromDir(dir string, log *zap.Logger) (*Engine, error) {
	e := NewEngine(log)
	if err := e.LoadDir(dir); err != nil {
		e.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// LoadDir runs all .lua files in dir in name order. A missing dir is not an
// error.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			e.log.Debug("script dir missing", zap.String("dir", dir))
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs src as a chunk called name.
func (e *Engine) LoadString(name, src string) error {
	fn, err := e.vm.Load(strings.NewReader(src), name)
	if err != nil {
		return fmt.Errorf("compile %s: %w", name, err)
	}
	e.vm.Push(fn)
	if err := e.vm.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	return nil
}

// Module returns the global table called name, or nil.
func (e *Engine) Module(name string) *lua.LTable {
	t, _ := e.vm.GetGlobal(name).(*lua.LTable)
	return t
}

// SetGlobal binds v under name.
func (e *Engine) SetGlobal(name string, v lua.LValue) {
	e.vm.SetGlobal(name, v)
}

// NewFunction wraps a Go function for Lua.
func (e *Engine) NewFunction(fn lua.LGFunction) *lua.LFunction {
	return e.vm.NewFunction(fn)
}

func (e *Engine) NewTable() *lua.LTable {
	return e.vm.NewTable()
}

// Call invokes fn in protected mode and returns its first result.
func (e *Engine) Call(fn lua.LValue, args ...lua.LValue) (lua.LValue, error) {
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		return lua.LNil, err
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return result, nil
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
