package domain

import "math"

// Vec3 - точка или вектор в мировых координатах.
type Vec3 [3]float64

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }
func (v Vec3) Scale(f float64) Vec3 { return Vec3{v[0] * f, v[1] * f, v[2] * f} }

func (v Vec3) Length() float64 { return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]) }

// Dist возвращает евклидово расстояние между точками.
func (v Vec3) Dist(o Vec3) float64 { return v.Sub(o).Length() }

// AABB - axis-aligned bounding box в мировых координатах.
type AABB struct {
	Mins Vec3
	Maxs Vec3
}

// Intersects - строгая проверка пересечения двух коробок.
// Касание гранями пересечением не считается.
func (b AABB) Intersects(o AABB) bool {
	for i := 0; i < 3; i++ {
		if b.Mins[i] >= o.Maxs[i] || b.Maxs[i] <= o.Mins[i] {
			return false
		}
	}
	return true
}

// Expand расширяет коробку на margin во все стороны.
func (b AABB) Expand(margin float64) AABB {
	m := Vec3{margin, margin, margin}
	return AABB{Mins: b.Mins.Sub(m), Maxs: b.Maxs.Add(m)}
}

// Center возвращает центр коробки.
func (b AABB) Center() Vec3 {
	return b.Mins.Add(b.Maxs).Scale(0.5)
}

// GridPos - клетка поля боя (x, y, уровень z).
type GridPos struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
	Z int `json:"z" msgpack:"z"`
}

// Shift возвращает соседнюю клетку со смещением.
func (p GridPos) Shift(dx, dy int) GridPos {
	return GridPos{X: p.X + dx, Y: p.Y + dy, Z: p.Z}
}

// ChebyshevTo - количество шагов по сетке с диагоналями.
func (p GridPos) ChebyshevTo(o GridPos) int {
	dx := abs(p.X - o.X)
	dy := abs(p.Y - o.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// ToWorld возвращает центр клетки в мировых координатах.
func (p GridPos) ToWorld() Vec3 {
	return Vec3{
		float64(p.X)*UnitSize + UnitSize/2,
		float64(p.Y)*UnitSize + UnitSize/2,
		float64(p.Z)*UnitSize + UnitSize/2,
	}
}

// WorldToGrid - обратное преобразование.
func WorldToGrid(v Vec3) GridPos {
	return GridPos{
		X: int(math.Floor(v[0] / UnitSize)),
		Y: int(math.Floor(v[1] / UnitSize)),
		Z: int(math.Floor(v[2] / UnitSize)),
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
