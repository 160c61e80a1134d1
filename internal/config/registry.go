package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ErrUnknownVar возвращается при попытке читать незарегистрированную переменную.
var ErrUnknownVar = errors.New("unknown console variable")

// Var - одна консольная переменная (cvar).
// Значение хранится строкой, числовые аксессоры парсят его на лету.
// Консоль пишет из горутины матча, HTTP читает из своих: value и modified
// под mu.
type Var struct {
	Name        string
	Default     string
	Description string

	mu       sync.RWMutex
	value    string
	modified bool
}

func (v *Var) String() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Float возвращает значение как float64 (0 при ошибке парсинга).
func (v *Var) Float() float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
	if err != nil {
		return 0
	}
	return f
}

// Int возвращает значение как целое с отбрасыванием дробной части.
func (v *Var) Int() int {
	f := v.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

func (v *Var) Bool() bool { return v.Int() != 0 }

// Modified показывает, менялась ли переменная с последнего ClearModified.
func (v *Var) Modified() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.modified
}

func (v *Var) ClearModified() {
	v.mu.Lock()
	v.modified = false
	v.mu.Unlock()
}

// set меняет значение; modified ставится только при реальном изменении.
func (v *Var) set(value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.value != value {
		v.value = value
		v.modified = true
	}
}

// Registry - реестр консольных переменных сервера.
type Registry struct {
	mu   sync.RWMutex
	vars map[string]*Var
}

// New создает реестр, заполненный значениями по умолчанию.
func New() *Registry {
	r := &Registry{vars: make(map[string]*Var, len(Defaults))}
	for _, d := range Defaults {
		r.Register(d.Name, d.Value, d.Description)
	}
	return r
}

// Register добавляет переменную. Повторная регистрация значение не меняет.
// Новая переменная считается измененной (как в квейковских cvar'ах).
func (r *Registry) Register(name, value, description string) *Var {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.vars[name]; ok {
		return v
	}
	v := &Var{Name: name, Default: value, Description: description, value: value, modified: true}
	r.vars[name] = v
	return v
}

// Get возвращает переменную или nil.
func (r *Registry) Get(name string) *Var {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.vars[name]
}

// MustGet возвращает переменную; отсутствие означает ошибку в коде сервера.
func (r *Registry) MustGet(name string) *Var {
	v := r.Get(name)
	if v == nil {
		panic(fmt.Sprintf("config: %s: %v", name, ErrUnknownVar))
	}
	return v
}

// Set меняет значение, создавая переменную при необходимости.
func (r *Registry) Set(name, value string) *Var {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vars[name]
	if !ok {
		v = &Var{Name: name, value: value, modified: true}
		r.vars[name] = v
		return v
	}
	v.set(value)
	return v
}

// SetInt - удобная обертка для числовых значений.
func (r *Registry) SetInt(name string, value int) *Var {
	return r.Set(name, strconv.Itoa(value))
}

func (r *Registry) Float(name string) float64 { return r.MustGet(name).Float() }
func (r *Registry) Int(name string) int       { return r.MustGet(name).Int() }
func (r *Registry) Bool(name string) bool     { return r.MustGet(name).Bool() }

// Lookup читает значение по имени с ошибкой вместо паники.
func (r *Registry) Lookup(name string) (string, error) {
	v := r.Get(name)
	if v == nil {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownVar)
	}
	return v.String(), nil
}

// All возвращает все переменные, отсортированные по имени.
func (r *Registry) All() []*Var {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Var, 0, len(r.vars))
	for _, v := range r.vars {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ApplyEnv переносит переменные окружения вида <prefix><NAME> в реестр.
// Например BS_MOR_PANIC=20 задает mor_panic.
func (r *Registry) ApplyEnv(prefix string) int {
	applied := 0
	for _, v := range r.All() {
		if val, ok := os.LookupEnv(prefix + strings.ToUpper(v.Name)); ok {
			r.Set(v.Name, val)
			applied++
		}
	}
	return applied
}
