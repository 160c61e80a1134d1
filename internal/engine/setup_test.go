package engine

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"battlescape-server/internal/sim"
	"battlescape-server/pkg/logger"
	"battlescape-server/pkg/mapgen"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type testGame struct {
	*Game
	events  *events.Buffer
	console *sim.RecordingConsole
	cvars   *config.Registry
}

// testField - открытое поле 12x6 с двумя комнатами 4x4 (левая и правая).
func testField() *mapgen.Field {
	f := &mapgen.Field{Width: 12, Height: 6}
	f.Cells = make([][]mapgen.Cell, f.Height)
	for y := range f.Cells {
		f.Cells[y] = make([]mapgen.Cell, f.Width)
		for x := range f.Cells[y] {
			f.Cells[y][x] = mapgen.Cell{Surface: mapgen.SurfaceStone}
		}
	}
	f.Rooms = []mapgen.Rect{{X: 0, Y: 0, W: 5, H: 5}, {X: 6, Y: 0, W: 5, H: 5}}
	return f
}

// newTestGame создает матч на testField. maxclients < 2 - одиночная игра
// с AI пришельцев (2 актора) и гражданских (1 актор).
func newTestGame(t *testing.T, maxclients int, tune ...func(*config.Registry)) *testGame {
	t.Helper()
	cvars := config.New()
	cvars.SetInt(config.SvMaxEntities, 64)
	cvars.SetInt(config.SvMaxClients, maxclients)
	cvars.SetInt(config.AINumAliens, 2)
	cvars.SetInt(config.AINumCivilians, 1)
	for _, fn := range tune {
		fn(cvars)
	}

	cfg := NewConfig()
	cfg.Seed = 1
	cfg.SquadSize = 2
	cfg.IPFile = filepath.Join(t.TempDir(), "listip.cfg")

	tg := &testGame{
		events:  events.NewBuffer(),
		console: &sim.RecordingConsole{},
		cvars:   cvars,
	}
	bf := NewBattlefield(rand.New(rand.NewSource(cfg.Seed))).
		WithField(testField()).
		WithTeams(playingTeams(cvars)...).
		Build()

	g, err := NewGame(cfg, Options{
		Cvars:       cvars,
		Events:      tg.events,
		Console:     tg.console,
		Rand:        &sim.FixedRand{},
		Battlefield: bf,
	})
	require.NoError(t, err)
	tg.Game = g
	return tg
}

func (tg *testGame) join(t *testing.T, name string, team domain.Team) *domain.Player {
	t.Helper()
	p, err := tg.Join(name, "10.0.0.1", team)
	require.NoError(t, err)
	return p
}

// aiPlayer - AI-игрок команды.
func (tg *testGame) aiPlayer(team domain.Team) *domain.Player {
	ctx := tg.Context()
	for i := ctx.MaxHumans(); i < len(ctx.Players); i++ {
		if p := &ctx.Players[i]; p.InUse && p.AI && p.Team == team {
			return p
		}
	}
	return nil
}

// skipGuard сдвигает счетчик кадров за защиту от двойного конца раунда.
func (tg *testGame) skipGuard() {
	lvl := tg.Level()
	lvl.FrameNum = max(lvl.FrameNum, lvl.NextEndRound)
}

func (tg *testGame) countLiving(team domain.Team) int {
	n := 0
	for range tg.Context().Store.LivingActors(team) {
		n++
	}
	return n
}
