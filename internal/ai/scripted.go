package ai

import (
	"battlescape-server/internal/actions"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/sim"
	"battlescape-server/pkg/logger"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"
	"gopkg.in/yaml.v3"
)

// DefaultThinkTimeout - сколько времени дается одному think скрипта.
const DefaultThinkTimeout = 50 * time.Millisecond

var ErrNoThinkFunc = errors.New("script must return a think function")

// Manifest - ai.yaml: какие скрипты думают за какие типы акторов.
//
//	default: alien
//	think_timeout_ms: 50
//	scripts:
//	  alien: alien.lua
//	  civilian: civilian.lua
type Manifest struct {
	Default        string            `yaml:"default"`
	ThinkTimeoutMs int               `yaml:"think_timeout_ms"`
	Scripts        map[string]string `yaml:"scripts"`
}

// LoadManifest читает манифест. Пути скриптов считаются от его каталога.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ai manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse ai manifest %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for typ, file := range m.Scripts {
		if !filepath.IsAbs(file) {
			m.Scripts[typ] = filepath.Join(dir, file)
		}
	}
	return &m, nil
}

// Scripted - AI на Lua. Скрипт возвращает функцию think, которая
// вызывается с таблицей актора и действует через глобальную таблицу ai.
// LState не потокобезопасен: вызывать только из горутины движка.
type Scripted struct {
	L        *lua.LState
	thinks   map[string]*lua.LFunction
	def      string
	fallback Strategy
	timeout  time.Duration

	// текущий think, его читают функции таблицы ai
	ctx    *sim.Context
	player *domain.Player
	ent    *domain.Edict
}

// NewScripted создает пустой Lua-мозг. Акторы без скрипта думают fallback.
func NewScripted(fallback Strategy) *Scripted {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	s := &Scripted{
		L:        L,
		thinks:   make(map[string]*lua.LFunction),
		fallback: fallback,
		timeout:  DefaultThinkTimeout,
	}
	L.SetGlobal("ai", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"self":    s.luaSelf,
		"targets": s.luaTargets,
		"shoot":   s.luaShoot,
		"move":    s.luaMove,
		"crouch":  s.luaCrouch,
		"hide":    s.luaHide,
		"herd":    s.luaHerd,
		"log":     s.luaLog,
	}))
	return s
}

// LoadManifest загружает все скрипты манифеста.
func (s *Scripted) LoadManifest(m *Manifest) error {
	for typ, file := range m.Scripts {
		src, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read ai script %s: %w", file, err)
		}
		if err := s.LoadScript(typ, string(src)); err != nil {
			return fmt.Errorf("load ai script %s: %w", file, err)
		}
	}
	s.def = m.Default
	if m.ThinkTimeoutMs > 0 {
		s.timeout = time.Duration(m.ThinkTimeoutMs) * time.Millisecond
	}
	return nil
}

// LoadScript выполняет исходник и запоминает возвращенную функцию think
// для типа акторов aiType.
func (s *Scripted) LoadScript(aiType, src string) error {
	fn, err := s.L.LoadString(src)
	if err != nil {
		return err
	}
	s.L.Push(fn)
	if err := s.L.PCall(0, 1, nil); err != nil {
		return err
	}
	ret := s.L.Get(-1)
	s.L.Pop(1)

	think, ok := ret.(*lua.LFunction)
	if !ok {
		return fmt.Errorf("%s: %w", aiType, ErrNoThinkFunc)
	}
	s.thinks[aiType] = think

	logger.Component("ai_system").WithField("type", aiType).Info("AI script loaded")
	return nil
}

// Types - типы акторов, для которых загружены скрипты.
func (s *Scripted) Types() []string {
	out := make([]string, 0, len(s.thinks))
	for t := range s.thinks {
		out = append(out, t)
	}
	return out
}

func (s *Scripted) Close() { s.L.Close() }

func (s *Scripted) Think(ctx *sim.Context, player *domain.Player, ent *domain.Edict) {
	fn, ok := s.thinks[ent.AIType]
	if !ok {
		fn, ok = s.thinks[s.def]
	}
	if !ok {
		if s.fallback != nil {
			s.fallback.Think(ctx, player, ent)
		}
		return
	}

	s.ctx, s.player, s.ent = ctx, player, ent
	defer func() { s.ctx, s.player, s.ent = nil, nil, nil }()

	deadline, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.L.SetContext(deadline)
	defer s.L.RemoveContext()

	if err := s.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, s.edictTable(ent)); err != nil {
		logger.Component("ai_system").WithFields(logrus.Fields{
			"edict": ent.Number,
			"type":  ent.AIType,
		}).WithError(err).Warn("AI script failed")
	}
}

// --- таблица ai ---

func (s *Scripted) edictTable(e *domain.Edict) *lua.LTable {
	t := s.L.NewTable()
	s.L.SetField(t, "number", lua.LNumber(e.Number))
	s.L.SetField(t, "team", lua.LNumber(e.Team))
	s.L.SetField(t, "x", lua.LNumber(e.Pos.X))
	s.L.SetField(t, "y", lua.LNumber(e.Pos.Y))
	s.L.SetField(t, "hp", lua.LNumber(e.HP))
	s.L.SetField(t, "tu", lua.LNumber(e.TU))
	s.L.SetField(t, "morale", lua.LNumber(e.Morale))
	s.L.SetField(t, "crouched", lua.LBool(e.State.Has(domain.StateCrouched)))
	s.L.SetField(t, "panic", lua.LBool(e.State.IsPanicked()))
	s.L.SetField(t, "rage", lua.LBool(e.State.IsRaged()))
	if s.ent != nil {
		s.L.SetField(t, "dist", lua.LNumber(s.ent.Pos.ChebyshevTo(e.Pos)))
	}
	return t
}

// fail возвращает в Lua пару nil, сообщение.
func fail(L *lua.LState, err error) int {
	L.Push(lua.LNil)
	L.Push(lua.LString(err.Error()))
	return 2
}

func (s *Scripted) active(L *lua.LState) bool {
	if s.ent == nil {
		L.RaiseError("ai: called outside of think")
		return false
	}
	return true
}

func (s *Scripted) luaSelf(L *lua.LState) int {
	if !s.active(L) {
		return 0
	}
	L.Push(s.edictTable(s.ent))
	return 1
}

func (s *Scripted) luaTargets(L *lua.LState) int {
	if !s.active(L) {
		return 0
	}
	list := L.NewTable()
	for _, o := range visibleTargets(s.ctx, s.ent, enemyFilter(s.ent)) {
		list.Append(s.edictTable(o))
	}
	L.Push(list)
	return 1
}

// ai.shoot(number) - один выстрел лучшим оружием по актору number.
func (s *Scripted) luaShoot(L *lua.LState) int {
	if !s.active(L) {
		return 0
	}
	target := s.ctx.Store.InUse(L.CheckInt(1))
	if target == nil || !target.IsLivingActor() {
		return fail(L, actions.ErrNoObject)
	}
	hand, fdIdx, fd := bestWeapon(s.ent, target.Pos)
	if fd == nil {
		return fail(L, actions.ErrNoWeapon)
	}
	res, err := actions.Shoot(s.ctx, s.player, s.ent, target.Pos, hand, fdIdx)
	if err != nil {
		return fail(L, err)
	}
	L.Push(lua.LNumber(res.Hits))
	return 1
}

func (s *Scripted) luaMove(L *lua.LState) int {
	if !s.active(L) {
		return 0
	}
	to := domain.GridPos{X: L.CheckInt(1), Y: L.CheckInt(2), Z: s.ent.Pos.Z}
	res, err := actions.Move(s.ctx, s.player, s.ent, to)
	if err != nil {
		return fail(L, err)
	}
	L.Push(lua.LNumber(res.Steps))
	return 1
}

func (s *Scripted) luaCrouch(L *lua.LState) int {
	if !s.active(L) {
		return 0
	}
	if err := actions.ClientStateChange(s.ctx, s.player, s.ent, actions.ReqCrouch); err != nil {
		return fail(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

func (s *Scripted) luaHide(L *lua.LState) int {
	if !s.active(L) {
		return 0
	}
	L.Push(lua.LBool(hide(s.ctx, s.player, s.ent)))
	return 1
}

func (s *Scripted) luaHerd(L *lua.LState) int {
	if !s.active(L) {
		return 0
	}
	target := domain.GridPos{X: L.CheckInt(1), Y: L.CheckInt(2), Z: s.ent.Pos.Z}.ToWorld()
	pos, ok := FindHerdLocation(s.ctx, s.ent, target, s.ent.TU)
	L.Push(lua.LBool(ok && moveTo(s.ctx, s.player, s.ent, pos)))
	return 1
}

func (s *Scripted) luaLog(L *lua.LState) int {
	msg := L.CheckString(1)
	f := logrus.Fields{}
	if s.ent != nil {
		f["edict"] = s.ent.Number
	}
	logger.Component("ai_system").WithFields(f).Debug(msg)
	return 0
}
