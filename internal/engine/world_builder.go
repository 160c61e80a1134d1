package engine

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/sim"
	"battlescape-server/internal/systems"
	"battlescape-server/pkg/logger"
	"battlescape-server/pkg/mapgen"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Battlefield - поле боя с зонами высадки команд и местами под двери.
type Battlefield struct {
	Field *mapgen.Field
	// Zones - клетки высадки по командам, уже перемешанные.
	Zones map[domain.Team][]mapgen.Point
	Doors []mapgen.Point

	doorAutoClose float64
}

// BattlefieldBuilder предоставляет fluent API для сборки поля боя
type BattlefieldBuilder struct {
	rng       *rand.Rand
	width     int
	height    int
	teams     []domain.Team
	doors     bool
	autoClose float64
	field     *mapgen.Field
}

// NewBattlefield создает builder. Один и тот же rng дает одно и то же поле.
func NewBattlefield(rng *rand.Rand) *BattlefieldBuilder {
	return &BattlefieldBuilder{
		rng:   rng,
		teams: []domain.Team{domain.TeamPhalanx, domain.TeamAlien},
	}
}

// WithSize устанавливает размер карты
func (b *BattlefieldBuilder) WithSize(width, height int) *BattlefieldBuilder {
	b.width = width
	b.height = height
	return b
}

// WithField подставляет готовое поле вместо генерации (тесты, фиксированные карты).
func (b *BattlefieldBuilder) WithField(f *mapgen.Field) *BattlefieldBuilder {
	b.field = f
	return b
}

// WithTeams задает играющие команды в порядке выбора комнат.
// Гражданские всегда получают оставшиеся комнаты.
func (b *BattlefieldBuilder) WithTeams(teams ...domain.Team) *BattlefieldBuilder {
	b.teams = teams
	return b
}

// WithDoors ставит двери во все найденные проемы.
func (b *BattlefieldBuilder) WithDoors(autoClose float64) *BattlefieldBuilder {
	b.doors = true
	b.autoClose = autoClose
	return b
}

// Build собирает поле: генерирует карту и раздает комнаты командам.
// Первая команда получает первую комнату, вторая - последнюю, дальше
// комнаты берутся попеременно с краев.
func (b *BattlefieldBuilder) Build() *Battlefield {
	f := b.field
	if f == nil {
		f = mapgen.Generate(b.rng, b.width, b.height)
	}
	bf := &Battlefield{
		Field:         f,
		Zones:         make(map[domain.Team][]mapgen.Point),
		doorAutoClose: b.autoClose,
	}

	rooms := edgeOrder(len(f.Rooms))
	used := 0
	for _, team := range b.teams {
		if used >= len(rooms) {
			break
		}
		bf.Zones[team] = b.shuffled(f.Floor(f.Rooms[rooms[used]]))
		used++
	}
	var rest []mapgen.Point
	for _, idx := range rooms[used:] {
		rest = append(rest, f.Floor(f.Rooms[idx])...)
	}
	if len(rest) == 0 {
		rest = allFloor(f)
	}
	bf.Zones[domain.TeamCivilian] = b.shuffled(rest)

	if b.doors {
		bf.Doors = append(bf.Doors, f.DoorSpots...)
	}

	logger.Component("game").WithFields(logrus.Fields{
		"width":  f.Width,
		"height": f.Height,
		"rooms":  len(f.Rooms),
		"doors":  len(bf.Doors),
	}).Info("Battlefield built")
	return bf
}

// edgeOrder - индексы 0, n-1, 1, n-2, ...
func edgeOrder(n int) []int {
	out := make([]int, 0, n)
	for lo, hi := 0, n-1; lo <= hi; lo, hi = lo+1, hi-1 {
		out = append(out, lo)
		if hi != lo {
			out = append(out, hi)
		}
	}
	return out
}

func (b *BattlefieldBuilder) shuffled(pts []mapgen.Point) []mapgen.Point {
	b.rng.Shuffle(len(pts), func(i, j int) { pts[i], pts[j] = pts[j], pts[i] })
	return pts
}

func allFloor(f *mapgen.Field) []mapgen.Point {
	var out []mapgen.Point
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if !f.IsWall(x, y) {
				out = append(out, mapgen.Point{X: x, Y: y})
			}
		}
	}
	return out
}

// Populate создает в арене двери с объемами-триггерами и записывает
// количество точек высадки по командам.
func (bf *Battlefield) Populate(ctx *sim.Context) error {
	for team, zone := range bf.Zones {
		ctx.Level.NumSpawnPoints[team] = len(zone)
	}

	half := domain.UnitSize / 2
	for i, spot := range bf.Doors {
		door, err := ctx.Store.Allocate()
		if err != nil {
			return fmt.Errorf("place door %d: %w", i, err)
		}
		door.Type = domain.TypeDoor
		door.Solid = domain.SolidBSP
		door.Linked = true
		door.Model = fmt.Sprintf("*d%d", i+1)
		door.TargetName = fmt.Sprintf("door%d", i+1)
		door.HP = 100
		door.SetPos(domain.GridPos{X: spot.X, Y: spot.Y})
		door.SetBox(domain.Vec3{-half, -half, -half}, domain.Vec3{half, half, half})
		door.Behaviour.Kind = domain.BehaviourDoor
		door.Behaviour.Door = domain.DoorState{
			Offset:    domain.Vec3{0, 0, domain.UnitSize * 2},
			AutoClose: bf.doorAutoClose,
		}

		// объем вокруг проема дает стоящему рядом право открыть дверь
		trig, err := ctx.Store.Allocate()
		if err != nil {
			return fmt.Errorf("place door trigger %d: %w", i, err)
		}
		trig.Type = domain.TypeTrigger
		trig.Solid = domain.SolidTrigger
		trig.Linked = true
		trig.SetPos(door.Pos)
		trig.SetBox(
			domain.Vec3{-half - domain.UnitSize, -half - domain.UnitSize, -half},
			domain.Vec3{half + domain.UnitSize, half + domain.UnitSize, half},
		)
		trig.Behaviour.Kind = domain.BehaviourTrigger
		trig.Behaviour.Trigger.Owner = door.Number

		systems.RecalcRouting(ctx, door)
	}
	return nil
}
