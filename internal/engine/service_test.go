package engine

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"battlescape-server/internal/infrastructure/storage"
	"battlescape-server/internal/sim"
	"battlescape-server/pkg/api"
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *GameService {
	t.Helper()
	cfg := NewConfig()
	cfg.Seed = 7
	cfg.SquadSize = 2
	cfg.MaxFPS = 100
	cfg.ResultsDir = t.TempDir()

	cvars := config.New()
	cvars.SetInt(config.AINumAliens, 2)
	cvars.SetInt(config.AINumCivilians, 1)

	s, err := NewService(cfg, ServiceOptions{
		Cvars:   cvars,
		Console: &sim.RecordingConsole{},
		Results: storage.NewResultsService(cfg.ResultsDir),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	s.Start(ctx)
	return s
}

// waitFrame читает кадры, пока не встретится подходящий.
func waitFrame(t *testing.T, frames <-chan api.ServerFrame, match func(api.ServerFrame) bool) api.ServerFrame {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case f, ok := <-frames:
			require.True(t, ok, "frames channel closed")
			if match(f) {
				return f
			}
		case <-timeout:
			t.Fatal("timed out waiting for frame")
		}
	}
}

func hasEvent(kind events.Kind) func(api.ServerFrame) bool {
	return func(f api.ServerFrame) bool {
		for _, ev := range f.Events {
			if events.Kind(ev.Kind) == kind {
				return true
			}
		}
		return false
	}
}

func TestService_Join(t *testing.T) {
	s := newTestService(t)

	res, err := s.Join(context.Background(), "Alice", "10.0.0.1", domain.TeamPhalanx)
	require.NoError(t, err)
	assert.Equal(t, domain.TeamPhalanx, res.Team)

	welcome := waitFrame(t, res.Frames, func(f api.ServerFrame) bool { return true })
	assert.Equal(t, api.FrameWelcome, welcome.Type)
	assert.Equal(t, res.Player, welcome.Player)
	assert.Equal(t, int(domain.TeamPhalanx), welcome.Team)
	assert.Equal(t, s.MatchID, welcome.Match)
	assert.Len(t, welcome.Match, 16)

	f := waitFrame(t, res.Frames, hasEvent(events.EvReset))
	assert.Equal(t, api.FrameEvents, f.Type)
	for _, ev := range f.Events {
		assert.Equal(t, events.Kind(ev.Kind).String(), ev.Name)
	}

	var phase Phase
	s.Inspect(func(g *Game) { phase = g.Phase() })
	assert.Equal(t, PhaseActive, phase)
}

func TestService_ProcessCommand(t *testing.T) {
	s := newTestService(t)
	res, err := s.Join(context.Background(), "Alice", "10.0.0.1", domain.TeamPhalanx)
	require.NoError(t, err)

	err = s.ProcessCommand(res.Player, api.ClientCommand{Action: "DANCE"})
	assert.ErrorIs(t, err, ErrUnknownAction)

	// неверный payload возвращается игроку кадром ERROR
	bad := api.ClientCommand{Action: api.ActionMove, Payload: json.RawMessage(`{"entity":0,"x":1,"y":1}`)}
	require.NoError(t, s.ProcessCommand(res.Player, bad))
	errFrame := waitFrame(t, res.Frames, func(f api.ServerFrame) bool { return f.Type == api.FrameError })
	assert.NotEmpty(t, errFrame.Text)

	require.NoError(t, s.ProcessCommand(res.Player, api.ClientCommand{Action: api.ActionEndRound}))
	f := waitFrame(t, res.Frames, hasEvent(events.EvEndRound))
	for _, ev := range f.Events {
		if events.Kind(ev.Kind) == events.EvEndRound {
			assert.Equal(t, byte(domain.TeamAlien), ev.Payload[0])
		}
	}
}

func TestService_ConsoleWinSavesResults(t *testing.T) {
	s := newTestService(t)
	res, err := s.Join(context.Background(), "Alice", "10.0.0.1", domain.TeamPhalanx)
	require.NoError(t, err)

	s.Console("win 1")

	waitFrame(t, res.Frames, hasEvent(events.EvResults))
	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("service did not stop")
	}

	path := s.ResultsPath()
	require.NotEmpty(t, path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	rec, err := storage.NewResultsService(s.Config().ResultsDir).Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.Seed)
	assert.Equal(t, int(domain.TeamPhalanx), rec.Winner)

	r, err := DecodeResults(rec.Payload)
	require.NoError(t, err)
	assert.Len(t, r.Survivors, 2)

	_, err = s.Join(context.Background(), "Bob", "10.0.0.2", domain.TeamPhalanx)
	assert.ErrorIs(t, err, ErrStopped)
	assert.ErrorIs(t, s.ProcessCommand(res.Player, api.ClientCommand{Action: api.ActionEndRound}), ErrStopped)
}

func TestService_DisconnectClosesFrames(t *testing.T) {
	s := newTestService(t)
	res, err := s.Join(context.Background(), "Alice", "10.0.0.1", domain.TeamPhalanx)
	require.NoError(t, err)

	s.Disconnect(res.Player)

	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-res.Frames:
			if !ok {
				var inUse bool
				s.Inspect(func(g *Game) { inUse = g.Player(res.Player).InUse })
				assert.False(t, inUse)
				return
			}
		case <-timeout:
			t.Fatal("frames channel not closed")
		}
	}
}
