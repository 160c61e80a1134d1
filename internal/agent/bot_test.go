package agent

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/engine"
	"battlescape-server/internal/events"
	"battlescape-server/internal/sim"
	"battlescape-server/pkg/api"
	"battlescape-server/pkg/logger"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func eventFrame(kind events.Kind, payload ...byte) api.ServerFrame {
	return api.ServerFrame{
		Type:   api.FrameEvents,
		Events: []api.EventView{{Kind: uint8(kind), Name: kind.String(), Payload: payload}},
	}
}

func TestBot_MyTurn(t *testing.T) {
	b := &Bot{Team: domain.TeamPhalanx}

	tests := []struct {
		name  string
		frame api.ServerFrame
		want  bool
	}{
		{"reset with own team active", eventFrame(events.EvReset, 1, 1), true},
		{"reset with other team active", eventFrame(events.EvReset, 1, 7), false},
		{"end round to own team", eventFrame(events.EvEndRound, 1), true},
		{"end round to aliens", eventFrame(events.EvEndRound, 7), false},
		{"welcome", api.ServerFrame{Type: api.FrameWelcome, Team: 1}, false},
		{"unrelated event", eventFrame(events.EvStart), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.myTurn(tt.frame))
		})
	}
}

func TestBot_EndsItsRound(t *testing.T) {
	cfg := engine.NewConfig()
	cfg.Seed = 5
	cfg.SquadSize = 1
	cfg.MaxFPS = 100
	cvars := config.New()
	cvars.SetInt(config.AINumAliens, 1)
	cvars.SetInt(config.AINumCivilians, 1)

	svc, err := engine.NewService(cfg, engine.ServiceOptions{Cvars: cvars, Console: &sim.RecordingConsole{}})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	bot, err := NewBot(ctx, "bot1", domain.TeamPhalanx, svc)
	require.NoError(t, err)
	assert.Equal(t, domain.TeamPhalanx, bot.Team)
	go bot.Run(ctx)

	require.Eventually(t, func() bool {
		round := 0
		svc.Inspect(func(g *engine.Game) { round = g.Level().ActualRound })
		return round > 0
	}, 5*time.Second, 20*time.Millisecond)
}
