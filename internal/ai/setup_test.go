package ai

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"battlescape-server/internal/grid"
	"battlescape-server/internal/sim"
	"battlescape-server/pkg/logger"
	"battlescape-server/pkg/mapgen"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type testWorld struct {
	ctx     *sim.Context
	events  *events.Buffer
	console *sim.RecordingConsole
	rand    *sim.FixedRand
}

// newTestWorld строит матч на поле из строк: '#' - стена, '.' - пол.
func newTestWorld(t *testing.T, rows ...string) *testWorld {
	t.Helper()
	if len(rows) == 0 {
		rows = []string{
			"........",
			"........",
			"........",
			"........",
		}
	}
	field := &mapgen.Field{Width: len(rows[0]), Height: len(rows)}
	field.Cells = make([][]mapgen.Cell, field.Height)
	for y, row := range rows {
		field.Cells[y] = make([]mapgen.Cell, field.Width)
		for x, ch := range row {
			field.Cells[y][x] = mapgen.Cell{Wall: ch == '#', Surface: mapgen.SurfaceStone}
		}
	}

	cfg := config.New()
	cfg.SetInt(config.SvMaxEntities, 32)
	w := &testWorld{
		events:  events.NewBuffer(),
		console: &sim.RecordingConsole{},
		rand:    &sim.FixedRand{},
	}
	w.ctx = sim.New(cfg, sim.Options{
		Events:  w.events,
		Rand:    w.rand,
		Console: w.console,
	})
	m := grid.New(field, w.ctx.Store)
	w.ctx.Oracle = m
	w.ctx.Router = m
	w.ctx.Level.ActiveTeam = domain.TeamPhalanx
	return w
}

func (w *testWorld) join(num int, team domain.Team, name string) *domain.Player {
	p := &w.ctx.Players[num]
	p.InUse = true
	p.Team = team
	p.Name = name
	p.AI = num >= w.ctx.MaxHumans()
	return p
}

func (w *testWorld) spawnActor(t *testing.T, team domain.Team, pnum int, pos domain.GridPos) *domain.Edict {
	t.Helper()
	e, err := w.ctx.Store.Allocate()
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	e.Type = domain.TypeActor
	e.Solid = domain.SolidBBox
	e.Team = team
	e.PNum = pnum
	e.SetPos(pos)
	e.SetBox(
		domain.Vec3{-domain.PlayerWidth, -domain.PlayerWidth, domain.PlayerMin},
		domain.Vec3{domain.PlayerWidth, domain.PlayerWidth, domain.PlayerStand},
	)
	e.Chr.Name = "actor"
	e.Chr.TeamDef = domain.TeamDef{ID: "human", Weapons: true}
	e.Chr.Mission = &domain.MissionScore{}
	e.HP = 100
	e.Chr.MaxHP = 100
	e.Chr.MinHP = 100
	e.Morale = 100
	e.TU = 20
	w.ctx.Level.NumSpawned[team]++
	w.ctx.Level.NumAlive[team]++
	return e
}

// rifle - одиночный и очередь без разброса урона.
func rifle(ammo int) *domain.Item {
	return &domain.Item{
		ID:   "rifle",
		Name: "Assault Rifle",
		FireDefs: []domain.FireDef{
			{Name: "single", TU: 8, Damage: 20, WeaponSkill: domain.SkillAssault, Range: 20, Shots: 1},
			{Name: "burst", TU: 12, Damage: 10, WeaponSkill: domain.SkillAssault, Range: 20, Shots: 3},
		},
		Ammo: ammo,
	}
}

// recordingStrategy запоминает, за кого думали.
type recordingStrategy struct{ thought []int }

func (r *recordingStrategy) Think(_ *sim.Context, _ *domain.Player, ent *domain.Edict) {
	r.thought = append(r.thought, ent.Number)
}
