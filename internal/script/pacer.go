// Package script runs the Lua spawn pacing rules.
package script

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

//go:embed pacing.lua
var defaultScript string

const intervalFunc = "spawn_interval"

var ErrNoPacingFunc = errors.New("script: spawn_interval is not defined")

// Pacer wraps a gopher-lua VM holding a spawn_interval function.
type Pacer struct {
	mu  sync.Mutex
	vm  *lua.LState
	log *zap.Logger
}

// NewPacer loads the script at path, or the built-in rules when path is
// empty.
func NewPacer(path string, log *zap.Logger) (*Pacer, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	var err error
	if path == "" {
		err = vm.DoString(defaultScript)
	} else {
		err = vm.DoFile(path)
	}
	if err != nil {
		vm.Close()
		return nil, fmt.Errorf("load pacing script: %w", err)
	}
	if vm.GetGlobal(intervalFunc) == lua.LNil {
		vm.Close()
		return nil, ErrNoPacingFunc
	}

	source := path
	if source == "" {
		source = "builtin"
	}
	log.Debug("loaded lua script", zap.String("file", source))
	return &Pacer{vm: vm, log: log}, nil
}

// Interval calls spawn_interval(elapsed_seconds, score).
func (p *Pacer) Interval(elapsed time.Duration, score int) (time.Duration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fn := p.vm.GetGlobal(intervalFunc)
	if err := p.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(elapsed.Seconds()), lua.LNumber(score)); err != nil {
		return 0, fmt.Errorf("lua %s: %w", intervalFunc, err)
	}

	result := p.vm.Get(-1)
	p.vm.Pop(1)

	n, ok := result.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("lua %s returned %s, want number", intervalFunc, result.Type())
	}
	if n <= 0 {
		return 0, fmt.Errorf("lua %s returned %v, want a positive interval", intervalFunc, float64(n))
	}
	return time.Duration(float64(n) * float64(time.Second)), nil
}

func (p *Pacer) Close() {
	p.vm.Close()
}
