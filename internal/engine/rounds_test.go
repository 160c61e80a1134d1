package engine

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"battlescape-server/internal/sim"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientEndRound_Rotation(t *testing.T) {
	g := newTestGame(t, 1)
	p := g.join(t, "Alice", domain.TeamPhalanx)
	lvl := g.Level()
	g.events.Reset()

	g.ClientEndRound(p)
	assert.Equal(t, domain.TeamAlien, lvl.ActiveTeam)
	assert.Equal(t, 1, lvl.ActualRound)
	assert.Equal(t, EndRoundGuardFrames, lvl.NextEndRound)

	// гражданские тоже ходят, у них есть AI-игрок
	g.ClientEndRound(g.aiPlayer(domain.TeamAlien))
	assert.Equal(t, domain.TeamCivilian, lvl.ActiveTeam)

	g.ClientEndRound(g.aiPlayer(domain.TeamCivilian))
	assert.Equal(t, domain.TeamPhalanx, lvl.ActiveTeam)
	assert.Equal(t, 3, lvl.ActualRound)

	var order []int
	for _, ev := range g.events.OfKind(events.EvEndRound) {
		assert.Equal(t, domain.PMAll, ev.Mask)
		order = append(order, ev.Reader().Byte())
	}
	assert.Equal(t, []int{7, 0, 1}, order)
}

func TestClientEndRound_Guard(t *testing.T) {
	g := newTestGame(t, 2)
	alice := g.join(t, "Alice", 1)
	bob := g.join(t, "Bob", 2)
	lvl := g.Level()

	g.ClientEndRound(alice)
	require.Equal(t, domain.Team(2), lvl.ActiveTeam)

	// повторный конец раунда в пределах защиты игнорируется
	g.ClientEndRound(bob)
	assert.Equal(t, domain.Team(2), lvl.ActiveTeam)

	lvl.FrameNum = EndRoundGuardFrames
	g.ClientEndRound(bob)
	assert.Equal(t, domain.Team(1), lvl.ActiveTeam)
	assert.Equal(t, 2, lvl.ActualRound)
}

func TestClientEndRound_NotActiveTeam(t *testing.T) {
	g := newTestGame(t, 2)
	g.join(t, "Alice", 1)
	bob := g.join(t, "Bob", 2)

	g.ClientEndRound(bob)
	assert.Equal(t, domain.Team(1), g.Level().ActiveTeam)
	assert.Zero(t, g.Level().ActualRound)
	assert.Zero(t, g.Level().NextEndRound, "guard untouched")
}

func TestClientEndRound_Teamplay(t *testing.T) {
	g := newTestGame(t, 3, func(r *config.Registry) {
		r.SetInt(config.SvTeamplay, 1)
	})
	alice := g.join(t, "Alice", 1)
	carol := g.join(t, "Carol", 1)
	g.join(t, "Bob", 2)
	lvl := g.Level()
	require.Equal(t, domain.Team(1), lvl.ActiveTeam)

	g.ClientEndRound(alice)
	assert.True(t, alice.Ready)
	assert.Equal(t, domain.Team(1), lvl.ActiveTeam, "Carol is not ready")
	assert.True(t, g.console.Contains("Alice has ended the round."))

	g.skipGuard()
	g.ClientEndRound(carol)
	assert.Equal(t, domain.Team(2), lvl.ActiveTeam)
	assert.False(t, alice.Ready)
	assert.False(t, carol.Ready)
}

func TestClientEndRound_NewTeamState(t *testing.T) {
	// без морали SHAKEN не выставляется заново
	g := newTestGame(t, 2, func(r *config.Registry) {
		r.SetInt(config.MorPanic, 0)
	})
	alice := g.join(t, "Alice", 1)
	g.join(t, "Bob", 2)

	var stunned, shaken *domain.Edict
	for ent := range g.Context().Store.LivingActors(2) {
		ent.TU = 0
		ent.State |= domain.StateDazed
		if stunned == nil {
			stunned = ent
		} else {
			shaken = ent
		}
	}
	require.NotNil(t, shaken)
	stunned.STUN = 5
	shaken.State |= domain.StateShaken

	g.ClientEndRound(alice)

	assert.Equal(t, 4, stunned.STUN)
	assert.False(t, shaken.State.IsShaken())
	for ent := range g.Context().Store.LivingActors(2) {
		assert.Equal(t, domain.GetTU(ent.Chr.Skill(domain.AbilitySpeed)), ent.TU)
		assert.Zero(t, ent.State&domain.StateDazed)
	}
}

func TestNextTeam_SkipsTeamsWithoutPlayers(t *testing.T) {
	g := newTestGame(t, 2)
	alice := g.join(t, "Alice", 1)
	g.join(t, "Bob", 2)
	lvl := g.Level()

	// у команды 2 никого не осталось, ход остается у команды 1
	lvl.NumAlive[2] = 0
	g.ClientEndRound(alice)
	assert.Equal(t, domain.Team(1), lvl.ActiveTeam)
	assert.Equal(t, 1, lvl.ActualRound)
}

func TestForceEndRound(t *testing.T) {
	g := newTestGame(t, 2, func(r *config.Registry) {
		r.SetInt(config.SvRoundTimeLimit, 60)
	})
	g.join(t, "Alice", 1)
	g.join(t, "Bob", 2)
	lvl := g.Level()

	// первый кадр отсчитывает раунд заново: RoundStartTime = 0.1
	for lvl.FrameNum < 599 {
		g.RunFrame()
	}
	require.Equal(t, domain.Team(1), lvl.ActiveTeam)
	assert.True(t, g.console.Contains("30 seconds left until forced round end"))
	assert.True(t, g.console.Contains("15 seconds left until forced round end"))
	assert.False(t, g.console.Contains("Current active team hit the max round time"))

	g.RunFrame()
	assert.Equal(t, domain.Team(2), lvl.ActiveTeam)
	assert.True(t, g.console.Contains("Current active team hit the max round time"))
	assert.InDelta(t, lvl.Time, lvl.RoundStartTime, 1e-9)
}

func TestForceEndRound_SinglePlayerIgnoresLimit(t *testing.T) {
	g := newTestGame(t, 1, func(r *config.Registry) {
		r.SetInt(config.SvRoundTimeLimit, 30)
	})
	g.join(t, "Alice", domain.TeamPhalanx)
	lvl := g.Level()
	lvl.FrameNum, lvl.Time = 1000, 100

	g.ForceEndRound()
	assert.Equal(t, domain.TeamPhalanx, lvl.ActiveTeam)
}

func TestStartGame_FirstTeamRoll(t *testing.T) {
	tests := []struct {
		name string
		roll float64
		want domain.Team
	}{
		{"low roll", 0.2, 1},
		{"high roll", 0.6, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 3)
			g.Context().Rand = &sim.FixedRand{Values: []float64{tt.roll}}
			g.join(t, "Alice", 1)
			g.join(t, "Bob", 2)
			g.join(t, "Carol", 2)

			assert.Equal(t, tt.want, g.Level().ActiveTeam)
		})
	}
}
