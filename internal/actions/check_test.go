package actions

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionCheck(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(w *testWorld, p *domain.Player, e *domain.Edict) *domain.Edict
		tu      int
		want    error
	}{
		{
			name:    "ok",
			prepare: func(_ *testWorld, _ *domain.Player, e *domain.Edict) *domain.Edict { return e },
			tu:      4,
		},
		{
			name: "not your round",
			prepare: func(w *testWorld, _ *domain.Player, e *domain.Edict) *domain.Edict {
				w.ctx.Level.ActiveTeam = domain.TeamAlien
				return e
			},
			want: ErrNotYourRound,
		},
		{
			name:    "no object",
			prepare: func(_ *testWorld, _ *domain.Player, _ *domain.Edict) *domain.Edict { return nil },
			want:    ErrNoObject,
		},
		{
			name: "not an actor",
			prepare: func(_ *testWorld, _ *domain.Player, e *domain.Edict) *domain.Edict {
				e.Type = domain.TypeDoor
				return e
			},
			want: ErrNotActor,
		},
		{
			// оглушенный тоже "мертв" по битам, но сообщение про оглушение
			name: "stunned before dead",
			prepare: func(_ *testWorld, _ *domain.Player, e *domain.Edict) *domain.Edict {
				e.State = domain.StateStun
				return e
			},
			want: ErrStunned,
		},
		{
			name: "dead",
			prepare: func(_ *testWorld, _ *domain.Player, e *domain.Edict) *domain.Edict {
				e.State |= 1
				return e
			},
			want: ErrDead,
		},
		{
			name: "other team",
			prepare: func(_ *testWorld, _ *domain.Player, e *domain.Edict) *domain.Edict {
				e.Team = domain.TeamCivilian
				return e
			},
			want: ErrNotYourTeam,
		},
		{
			name: "allied actor",
			prepare: func(_ *testWorld, _ *domain.Player, e *domain.Edict) *domain.Edict {
				e.PNum = 1
				return e
			},
			want: ErrNotYourActor,
		},
		{
			name:    "not enough TU",
			prepare: func(_ *testWorld, _ *domain.Player, e *domain.Edict) *domain.Edict { return e },
			tu:      21,
			want:    ErrNoTU,
		},
		{
			name: "g_notu ignores TU",
			prepare: func(w *testWorld, _ *domain.Player, e *domain.Edict) *domain.Edict {
				w.ctx.Cfg.Set(config.GNoTU, "1")
				return e
			},
			tu: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			p := w.join(0, domain.TeamPhalanx, "alice")
			e := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 1, Y: 1})
			e = tt.prepare(w, p, e)

			err := ActionCheck(w.ctx, p, e, tt.tu)
			if tt.want == nil {
				require.NoError(t, err)
				assert.Empty(t, w.console.Lines)
				return
			}
			require.ErrorIs(t, err, tt.want)

			prints := events.ForPlayer(w.events.OfKind(events.EvPrint), 0)
			require.Len(t, prints, 1)
			r := prints[0].Reader()
			assert.Equal(t, int(events.PrintHUD), r.Byte())
			assert.Equal(t, "Can't perform action - "+tt.want.Error()+"!", r.Text())
		})
	}
}
