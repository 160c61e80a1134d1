// Package mapgen строит клеточное поле боя: комнаты, коридоры, места
// под двери и зоны высадки команд.
package mapgen

import (
	"math/rand"
)

// Константы генерации
const (
	DefaultWidth  = 40
	DefaultHeight = 25
	MaxRooms      = 9
	MinSize       = 4
	MaxSize       = 9
)

// Материалы пола
const (
	SurfaceStone = "stone"
	SurfaceGrass = "grass"
	SurfaceMetal = "metal"
)

var surfaces = []string{SurfaceStone, SurfaceGrass, SurfaceMetal}

// Rect - прямоугольная комната.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H && r.Y+r.H >= other.Y
}

// Contains - клетка внутри пола комнаты.
func (r Rect) Contains(x, y int) bool {
	return x > r.X && x < r.X+r.W && y > r.Y && y < r.Y+r.H
}

// Cell - одна клетка поля.
type Cell struct {
	Wall    bool   `json:"wall"`
	Surface string `json:"surface"`
}

// Point - клетка на плоскости (уровень z у поля один).
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Field - сгенерированное поле боя.
type Field struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Cells  [][]Cell `json:"cells"`
	Rooms  []Rect   `json:"rooms"`
	// DoorSpots - клетки коридоров на входе в комнату.
	DoorSpots []Point `json:"doorSpots"`
}

// In - клетка в пределах поля.
func (f *Field) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.Width && y < f.Height
}

// IsWall - стена или клетка за границей.
func (f *Field) IsWall(x, y int) bool {
	if !f.In(x, y) {
		return true
	}
	return f.Cells[y][x].Wall
}

// Surface - материал пола клетки.
func (f *Field) Surface(x, y int) string {
	if !f.In(x, y) {
		return ""
	}
	return f.Cells[y][x].Surface
}

// Floor - все проходимые клетки комнаты.
func (f *Field) Floor(r Rect) []Point {
	var out []Point
	for y := r.Y + 1; y < r.Y+r.H; y++ {
		for x := r.X + 1; x < r.X+r.W; x++ {
			if !f.IsWall(x, y) {
				out = append(out, Point{X: x, Y: y})
			}
		}
	}
	return out
}

// Generate создает поле заданного размера. Одинаковый rng дает одинаковое поле.
func Generate(rng *rand.Rand, width, height int) *Field {
	if width <= MaxSize+2 {
		width = DefaultWidth
	}
	if height <= MaxSize+2 {
		height = DefaultHeight
	}

	// 1. Заполняем стенами
	cells := make([][]Cell, height)
	for y := 0; y < height; y++ {
		row := make([]Cell, width)
		for x := 0; x < width; x++ {
			row[x] = Cell{Wall: true, Surface: SurfaceStone}
		}
		cells[y] = row
	}
	f := &Field{Width: width, Height: height, Cells: cells}

	// 2. Комнаты и коридоры
	for i := 0; i < MaxRooms*3 && len(f.Rooms) < MaxRooms; i++ {
		w := randRange(rng, MinSize, MaxSize)
		h := randRange(rng, MinSize, MaxSize)
		x := randRange(rng, 1, width-w-1)
		y := randRange(rng, 1, height-h-1)

		newRoom := Rect{X: x, Y: y, W: w, H: h}
		failed := false
		for _, other := range f.Rooms {
			if newRoom.Intersects(other) {
				failed = true
				break
			}
		}
		if failed {
			continue
		}

		f.carveRoom(newRoom, surfaces[rng.Intn(len(surfaces))])
		if len(f.Rooms) > 0 {
			prev := f.Rooms[len(f.Rooms)-1]
			prevX, prevY := prev.Center()
			currX, currY := newRoom.Center()

			if rng.Intn(2) == 0 {
				f.carveH(prevX, currX, prevY)
				f.carveV(prevY, currY, currX)
			} else {
				f.carveV(prevY, currY, prevX)
				f.carveH(prevX, currX, currY)
			}
		}
		f.Rooms = append(f.Rooms, newRoom)
	}

	f.findDoorSpots()
	return f
}

// findDoorSpots ищет клетки коридора, зажатые стенами, рядом с полом комнаты.
func (f *Field) findDoorSpots() {
	for y := 1; y < f.Height-1; y++ {
		for x := 1; x < f.Width-1; x++ {
			if f.IsWall(x, y) || f.inAnyRoom(x, y) {
				continue
			}
			vertical := f.IsWall(x-1, y) && f.IsWall(x+1, y) && !f.IsWall(x, y-1) && !f.IsWall(x, y+1)
			horizontal := f.IsWall(x, y-1) && f.IsWall(x, y+1) && !f.IsWall(x-1, y) && !f.IsWall(x+1, y)
			if !vertical && !horizontal {
				continue
			}
			if f.inAnyRoom(x-1, y) || f.inAnyRoom(x+1, y) || f.inAnyRoom(x, y-1) || f.inAnyRoom(x, y+1) {
				f.DoorSpots = append(f.DoorSpots, Point{X: x, Y: y})
			}
		}
	}
}

func (f *Field) inAnyRoom(x, y int) bool {
	for _, r := range f.Rooms {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}

// --- Вспомогательные функции ---

func (f *Field) carveRoom(room Rect, surface string) {
	for y := room.Y + 1; y < room.Y+room.H; y++ {
		for x := room.X + 1; x < room.X+room.W; x++ {
			f.Cells[y][x] = Cell{Surface: surface}
		}
	}
}

func (f *Field) carveH(x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		if f.Cells[y][x].Wall {
			f.Cells[y][x] = Cell{Surface: SurfaceMetal}
		}
	}
}

func (f *Field) carveV(y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		if f.Cells[y][x].Wall {
			f.Cells[y][x] = Cell{Surface: SurfaceMetal}
		}
	}
}

func randRange(rng *rand.Rand, lo, hi int) int {
	return rng.Intn(hi-lo+1) + lo
}
