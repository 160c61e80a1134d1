package sim

import (
	"battlescape-server/internal/domain"
	"math/rand"
)

// Rand - общий источник случайных чисел матча.
type Rand interface {
	// Float64 - равномерное в [0, 1).
	Float64() float64
	// Intn - равномерное в [0, n).
	Intn(n int) int
}

// NewRand возвращает детерминированный генератор от seed.
func NewRand(seed int64) Rand { return rand.New(rand.NewSource(seed)) }

// FixedRand - детерминированная подделка для тестов: отдает значения по
// очереди, после конца списка повторяет последнее.
type FixedRand struct {
	Values []float64
	Ints   []int
	pos    int
	ipos   int
}

func (f *FixedRand) Float64() float64 {
	if len(f.Values) == 0 {
		return 0
	}
	v := f.Values[min(f.pos, len(f.Values)-1)]
	f.pos++
	return v
}

func (f *FixedRand) Intn(n int) int {
	if len(f.Ints) == 0 || n <= 0 {
		return 0
	}
	v := f.Ints[min(f.ipos, len(f.Ints)-1)]
	f.ipos++
	return v % n
}

// Consumed - сколько Float64 уже выдано.
func (f *FixedRand) Consumed() int { return f.pos }

// ContentMask - что останавливает трассировку.
type ContentMask uint32

const (
	ContentSolid ContentMask = 1 << iota
	ContentActor
	ContentDoor

	MaskShot = ContentSolid | ContentActor | ContentDoor
	MaskVis  = ContentSolid | ContentDoor
)

// TraceResult - результат трассировки луча.
type TraceResult struct {
	// Fraction - доля пути до препятствия (1 = не задело ничего).
	Fraction float64
	EndPos   domain.Vec3
	// Ent - номер задетого эдикта или -1 (стены).
	Ent        int
	Surface    string
	StartSolid bool
}

// Hit истинно, если луч во что-то уперся.
func (t TraceResult) Hit() bool { return t.Fraction < 1 }

// Oracle - запросы к геометрии карты.
type Oracle interface {
	Trace(start domain.Vec3, box domain.AABB, end domain.Vec3, ignore *domain.Edict, mask ContentMask) TraceResult
	// TestLine истинно, если между точками есть препятствие.
	TestLine(start, end domain.Vec3) bool
	FootstepSoundFor(surface string) (string, bool)
	// SurfaceAt - материал пола клетки (для звуков шагов).
	SurfaceAt(pos domain.GridPos) string
	// Walkable - можно ли встать в клетку.
	Walkable(pos domain.GridPos) bool
}

// Router - пересчет таблиц маршрутов после изменения геометрии.
type Router interface {
	RecalcRouting(model string, box domain.AABB, blockers []string)
}

// OpenField - карта без стен: любая линия свободна, любая клетка проходима.
type OpenField struct{}

func (OpenField) Trace(start domain.Vec3, _ domain.AABB, end domain.Vec3, _ *domain.Edict, _ ContentMask) TraceResult {
	return TraceResult{Fraction: 1, EndPos: end, Ent: -1}
}
func (OpenField) TestLine(_, _ domain.Vec3) bool         { return false }
func (OpenField) FootstepSoundFor(string) (string, bool) { return "", false }
func (OpenField) SurfaceAt(domain.GridPos) string        { return "" }
func (OpenField) Walkable(p domain.GridPos) bool         { return p.X >= 0 && p.Y >= 0 }

// NopRouter ничего не пересчитывает.
type NopRouter struct{}

func (NopRouter) RecalcRouting(string, domain.AABB, []string) {}
