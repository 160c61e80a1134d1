package systems

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTouchingEdicts(t *testing.T) {
	w := newTestWorld(t)
	actor := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 1})
	near := w.spawnTrigger(t, domain.GridPos{X: 1})
	w.spawnTrigger(t, domain.GridPos{X: 5})
	hidden := w.spawnTrigger(t, domain.GridPos{X: 1})
	hidden.Solid = domain.SolidNot

	hits := TouchingEdicts(w.ctx, actor.AbsBox(), actor)
	require.Len(t, hits, 1)
	assert.Same(t, near, hits[0])
}

func TestTouchingEdicts_Truncates(t *testing.T) {
	w := newTestWorldCap(t, domain.MaxTouchedEdicts+10)
	actor := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 1})
	for i := 0; i < domain.MaxTouchedEdicts+5; i++ {
		w.spawnTrigger(t, domain.GridPos{X: 1})
	}

	hits := TouchingEdicts(w.ctx, actor.AbsBox(), actor)
	assert.Len(t, hits, domain.MaxTouchedEdicts)
}

func TestTouchTriggers_LeaveBeforeEnter(t *testing.T) {
	w := newTestWorld(t)
	door := w.spawnDoor(t, domain.GridPos{X: 9})
	a := w.spawnTrigger(t, domain.GridPos{X: 1})
	b := w.spawnTrigger(t, domain.GridPos{X: 2})
	// оба объема обслуживают одну дверь: если reset A придет после touch B,
	// он сотрет право на дверь, выданное B
	a.Behaviour.Trigger.Owner = door.Number
	b.Behaviour.Trigger.Owner = door.Number

	actor := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 1})
	assert.Equal(t, 1, TouchTriggers(w.ctx, actor))
	assert.True(t, a.HasTouched(actor.Number))
	assert.Equal(t, door.Number, actor.ClientAction)

	actor.SetPos(domain.GridPos{X: 2})
	assert.Equal(t, 1, TouchTriggers(w.ctx, actor))

	assert.Equal(t, 1, a.Behaviour.Trigger.Resets)
	assert.False(t, a.HasTouched(actor.Number))
	assert.True(t, b.HasTouched(actor.Number))
	assert.Equal(t, door.Number, actor.ClientAction, "reset of A must run before touch of B")
}

func TestTouchTriggers_OneShot(t *testing.T) {
	tests := []struct {
		name    string
		oneShot bool
		want    int
	}{
		{"repeating", false, 3},
		{"one shot", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			trig := w.spawnTrigger(t, domain.GridPos{X: 1})
			trig.Behaviour.Trigger.OneShot = tt.oneShot
			actor := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 1})

			for i := 0; i < 3; i++ {
				TouchTriggers(w.ctx, actor)
			}
			assert.Equal(t, tt.want, trig.Behaviour.Trigger.Fired)
		})
	}
}

func TestTouchTriggers_IgnoresStunned(t *testing.T) {
	w := newTestWorld(t)
	trig := w.spawnTrigger(t, domain.GridPos{X: 1})
	actor := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 1})
	actor.State = domain.StateStun

	assert.Equal(t, 0, TouchTriggers(w.ctx, actor))
	assert.Zero(t, trig.Behaviour.Trigger.Fired)
}

func TestTouchTriggers_OpensTarget(t *testing.T) {
	w := newTestWorld(t)
	door := w.spawnDoor(t, domain.GridPos{X: 4})
	door.TargetName = "gate"
	trig := w.spawnTrigger(t, domain.GridPos{X: 1})
	trig.Target = "gate"
	actor := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 1})

	TouchTriggers(w.ctx, actor)
	assert.True(t, door.Behaviour.Door.Open)
	assert.Len(t, w.events.OfKind(events.EvDoorOpen), 1)

	trig.Target = "missing"
	actor.SetPos(domain.GridPos{X: 3})
	TouchTriggers(w.ctx, actor)
	actor.SetPos(domain.GridPos{X: 1})
	TouchTriggers(w.ctx, actor)
	assert.True(t, w.console.Contains(`target "missing" not found`))
}

func TestTouchSolids_DoorAccess(t *testing.T) {
	w := newTestWorld(t)
	door := w.spawnDoor(t, domain.GridPos{X: 2})
	half := domain.UnitSize / 2
	door.SetBox(domain.Vec3{-half, -half, -half}, domain.Vec3{half, half, half})
	actor := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 1})

	assert.Equal(t, 0, TouchSolids(w.ctx, actor, 0))
	assert.Equal(t, 1, TouchSolids(w.ctx, actor, domain.UnitSize/2))
	assert.Equal(t, door.Number, actor.ClientAction)
}

func TestTouchEdicts(t *testing.T) {
	w := newTestWorld(t)
	trig := w.spawnTrigger(t, domain.GridPos{X: 1})
	w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 1})
	w.spawnActor(t, domain.TeamAlien, 8, domain.GridPos{X: 1})

	assert.Equal(t, 2, TouchEdicts(w.ctx, trig, 0))
	assert.Equal(t, 2, trig.Behaviour.Trigger.Fired)
}

func TestUseEdict_Group(t *testing.T) {
	w := newTestWorld(t)
	master := w.spawnDoor(t, domain.GridPos{X: 1})
	member := w.spawnDoor(t, domain.GridPos{X: 2})
	master.GroupMaster = master.Number
	master.GroupMembers = []int{master.Number, member.Number}
	member.GroupMaster = master.Number

	assert.True(t, UseEdict(w.ctx, member, nil))
	assert.True(t, master.Behaviour.Door.Open)
	assert.True(t, member.Behaviour.Door.Open)
	assert.Len(t, w.events.OfKind(events.EvDoorOpen), 2)
}

func TestFreeEdict(t *testing.T) {
	w := newTestWorld(t)
	trig := w.spawnTrigger(t, domain.GridPos{X: 1})
	num := trig.Number

	FreeEdict(w.ctx, trig)
	assert.Nil(t, w.ctx.Store.InUse(num))
	assert.Len(t, w.events.OfKind(events.EvEntDestroy), 1)
	assert.Panics(t, func() { FreeEdict(w.ctx, w.ctx.Store.Get(num)) })
}
