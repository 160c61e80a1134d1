// Package grid отвечает на запросы геометрии поверх клеточного поля:
// трассировка лучей, проверка линии, проходимость и звуки шагов.
package grid

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/edicts"
	"battlescape-server/internal/sim"
	"battlescape-server/pkg/logger"
	"battlescape-server/pkg/mapgen"
	"slices"

	"github.com/sirupsen/logrus"
)

// DefaultFootsteps - звуки шагов по материалу пола.
var DefaultFootsteps = map[string]string{
	mapgen.SurfaceStone: "footsteps/stone",
	mapgen.SurfaceGrass: "footsteps/grass",
	mapgen.SurfaceMetal: "footsteps/metal",
}

// Map реализует sim.Oracle и sim.Router.
//
// Статические стены берутся из поля, динамические препятствия (закрытые
// двери, целые разрушаемые объекты) пересчитываются RecalcRouting.
type Map struct {
	field     *mapgen.Field
	store     *edicts.Store
	blocked   map[mapgen.Point]int // клетка -> номер эдикта-препятствия
	footsteps map[string]string
}

// New связывает поле с ареной эдиктов.
func New(field *mapgen.Field, store *edicts.Store) *Map {
	return &Map{
		field:     field,
		store:     store,
		blocked:   make(map[mapgen.Point]int),
		footsteps: DefaultFootsteps,
	}
}

// Field возвращает исходное поле.
func (m *Map) Field() *mapgen.Field { return m.field }

var (
	_ sim.Oracle = (*Map)(nil)
	_ sim.Router = (*Map)(nil)
)

// Walkable - клетка в пределах поля, не стена и не занята дверью.
func (m *Map) Walkable(p domain.GridPos) bool {
	if p.Z != 0 || m.field.IsWall(p.X, p.Y) {
		return false
	}
	_, dyn := m.blocked[mapgen.Point{X: p.X, Y: p.Y}]
	return !dyn
}

func (m *Map) SurfaceAt(p domain.GridPos) string { return m.field.Surface(p.X, p.Y) }

func (m *Map) FootstepSoundFor(surface string) (string, bool) {
	s, ok := m.footsteps[surface]
	return s, ok
}

// TestLine проверяет прямую видимость между точками.
// Стартовая и конечная клетки препятствием не считаются.
func (m *Map) TestLine(start, end domain.Vec3) bool {
	p1 := domain.WorldToGrid(start)
	p2 := domain.WorldToGrid(end)
	blocked := false
	walk(p1, p2, func(x, y int) bool {
		if (x == p1.X && y == p1.Y) || (x == p2.X && y == p2.Y) {
			return true
		}
		if m.cellBlocks(x, y, sim.MaskVis) >= -1 {
			blocked = true
			return false
		}
		return true
	})
	return blocked
}

// Trace ведет луч от start к end и останавливается на первом препятствии
// из mask. Конечная клетка проверяется: выстрел в клетку с актором попадает в него.
func (m *Map) Trace(start domain.Vec3, _ domain.AABB, end domain.Vec3, ignore *domain.Edict, mask sim.ContentMask) sim.TraceResult {
	p1 := domain.WorldToGrid(start)
	p2 := domain.WorldToGrid(end)
	res := sim.TraceResult{Fraction: 1, EndPos: end, Ent: -1}

	if m.field.IsWall(p1.X, p1.Y) {
		res.StartSolid = true
		res.Fraction = 0
		res.EndPos = start
		return res
	}

	total := max(abs(p2.X-p1.X), abs(p2.Y-p1.Y))
	step := 0
	walk(p1, p2, func(x, y int) bool {
		if x == p1.X && y == p1.Y {
			return true
		}
		step++
		cell := domain.GridPos{X: x, Y: y, Z: p1.Z}
		hit := m.cellBlocks(x, y, mask)
		if hit == -2 && mask&sim.ContentActor != 0 {
			if a := m.actorAt(cell, ignore); a != nil {
				hit = a.Number
			}
		}
		if hit == -2 {
			return true
		}
		res.Fraction = float64(step) / float64(total)
		res.EndPos = cell.ToWorld()
		res.Ent = hit
		res.Surface = m.field.Surface(x, y)
		return false
	})

	logger.Component("physics_system").WithFields(logrus.Fields{
		"from":     p1,
		"to":       p2,
		"fraction": res.Fraction,
		"ent":      res.Ent,
	}).Trace("Trace done")
	return res
}

// cellBlocks: -2 - свободно, -1 - стена, >=0 - номер эдикта-препятствия.
func (m *Map) cellBlocks(x, y int, mask sim.ContentMask) int {
	if mask&sim.ContentSolid != 0 && m.field.IsWall(x, y) {
		return -1
	}
	if mask&sim.ContentDoor != 0 {
		if num, ok := m.blocked[mapgen.Point{X: x, Y: y}]; ok {
			return num
		}
	}
	return -2
}

func (m *Map) actorAt(p domain.GridPos, ignore *domain.Edict) *domain.Edict {
	for e := range m.store.Actors() {
		if e == ignore || e.Pos != p {
			continue
		}
		return e
	}
	return nil
}

// RecalcRouting пересобирает динамические препятствия в пределах box.
// blockers - модели BSP-эдиктов, которые участвуют в маршрутах.
func (m *Map) RecalcRouting(model string, box domain.AABB, blockers []string) {
	lo := domain.WorldToGrid(box.Mins)
	hi := domain.WorldToGrid(box.Maxs)
	for p := range m.blocked {
		if p.X >= lo.X && p.X <= hi.X && p.Y >= lo.Y && p.Y <= hi.Y {
			delete(m.blocked, p)
		}
	}

	for e := range m.store.All(nil) {
		if e.Solid != domain.SolidBSP || e.Type == domain.TypeWorld || !slices.Contains(blockers, e.Model) {
			continue
		}
		if e.Type == domain.TypeDoor && e.Behaviour.Door.Open {
			continue
		}
		if e.Pos.X >= lo.X && e.Pos.X <= hi.X && e.Pos.Y >= lo.Y && e.Pos.Y <= hi.Y {
			m.blocked[mapgen.Point{X: e.Pos.X, Y: e.Pos.Y}] = e.Number
		}
	}

	logger.Component("physics_system").WithFields(logrus.Fields{
		"model":    model,
		"blockers": len(blockers),
		"blocked":  len(m.blocked),
	}).Debug("Routing recalculated")
}

// walk - целочисленный Брезенхэм от p1 до p2 включительно.
// visit возвращает false, чтобы остановить обход.
func walk(p1, p2 domain.GridPos, visit func(x, y int) bool) {
	x0, y0 := p1.X, p1.Y
	x1, y1 := p2.X, p2.Y

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	err := dx - dy

	for {
		if !visit(x0, y0) {
			return
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
