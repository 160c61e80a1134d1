package edicts

import (
	"battlescape-server/internal/domain"
	"battlescape-server/pkg/logger"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestStore_CapacityAndReuse(t *testing.T) {
	// слот 0 - мир, слот 1 - актор
	s := NewStore(2)

	actor, err := s.Allocate()
	require.NoError(t, err)
	assert.Equal(t, 1, actor.Number)
	actor.Type = domain.TypeActor

	_, err = s.Allocate()
	require.ErrorIs(t, err, ErrCapacityExceeded)

	s.Free(actor)
	assert.False(t, s.Get(1).InUse)

	again, err := s.Allocate()
	require.NoError(t, err)
	assert.Equal(t, 1, again.Number)
	assert.True(t, again.InUse)
}

func TestStore_FreeClearsSlot(t *testing.T) {
	s := NewStore(4)
	e, err := s.Allocate()
	require.NoError(t, err)
	e.Type = domain.TypeActor
	e.HP = 50
	e.Team = domain.TeamAlien
	e.Touched = []int{2}

	s.Free(e)

	slot := s.Get(e.Number)
	assert.False(t, slot.InUse)
	assert.Equal(t, 0, slot.HP)
	assert.Equal(t, domain.TypeNull, slot.Type)
	assert.Nil(t, slot.Touched)
	assert.Equal(t, 1, slot.Number, "number stays equal to the slot")
}

func TestStore_DoubleFreePanics(t *testing.T) {
	s := NewStore(4)
	e, err := s.Allocate()
	require.NoError(t, err)
	s.Free(e)
	assert.Panics(t, func() { s.Free(e) })
	assert.Panics(t, func() { s.Free(s.World()) })
}

func TestStore_HandleGeneration(t *testing.T) {
	s := NewStore(4)
	e, err := s.Allocate()
	require.NoError(t, err)
	e.Type = domain.TypeDoor
	h := s.Handle(e)

	got, err := s.Resolve(h)
	require.NoError(t, err)
	assert.Same(t, e, got)
	assert.Equal(t, domain.TypeDoor, h.Type())

	s.Free(e)
	_, err = s.Allocate()
	require.NoError(t, err)

	_, err = s.Resolve(h)
	assert.ErrorIs(t, err, ErrStaleHandle)
}

func TestStore_IterationOrderAndLaziness(t *testing.T) {
	s := NewStore(8)
	var made []*domain.Edict
	for i := 0; i < 4; i++ {
		e, err := s.Allocate()
		require.NoError(t, err)
		e.Type = domain.TypeActor
		made = append(made, e)
	}

	var order []int
	for e := range s.All(nil) {
		order = append(order, e.Number)
		if e.Number == 1 {
			// освобождаем эдикт "впереди" курсора
			s.Free(made[2])
		}
	}
	assert.Equal(t, []int{0, 1, 2, 4}, order)

	// последовательность перезапускается
	var again []int
	for e := range s.Actors() {
		again = append(again, e.Number)
	}
	assert.Equal(t, []int{1, 2, 4}, again)
}

func TestStore_FindAtPos(t *testing.T) {
	s := NewStore(8)
	pos := domain.GridPos{X: 3, Y: 4}

	floor, _ := s.Allocate()
	floor.Type = domain.TypeFloor
	floor.SetPos(pos)

	actor, _ := s.Allocate()
	actor.Type = domain.TypeActor
	actor.SetPos(pos)

	assert.Same(t, actor, s.FindAtPos(pos, NewTypeSet(domain.TypeActor, domain.TypeActor2x2)))
	assert.Same(t, floor, s.FindAtPos(pos, 0))
	assert.Same(t, actor, s.FindAtPosExcluding(pos, NewTypeSet(domain.TypeFloor, domain.TypeTrigger)))
	assert.Nil(t, s.FindAtPosExcluding(pos, NewTypeSet(domain.TypeFloor, domain.TypeActor)))
	assert.Nil(t, s.FindAtPos(domain.GridPos{X: 9}, 0))
}

func TestStore_FindRadius(t *testing.T) {
	s := NewStore(8)
	near, _ := s.Allocate()
	near.Type = domain.TypeActor
	near.SetPos(domain.GridPos{X: 1, Y: 1})

	far, _ := s.Allocate()
	far.Type = domain.TypeActor
	far.SetPos(domain.GridPos{X: 10, Y: 10})

	got := s.FindRadius(domain.GridPos{X: 0, Y: 0}.ToWorld(), 2*domain.UnitSize, 0)
	require.Len(t, got, 1)
	assert.Same(t, near, got[0])
}

func TestHandle_JSON(t *testing.T) {
	h := PackHandle(domain.TypeActor, 3, 17)
	data, err := h.MarshalJSON()
	require.NoError(t, err)

	var back Handle
	require.NoError(t, back.UnmarshalJSON(data))
	assert.Equal(t, h, back)
	assert.Equal(t, 17, back.Number())
	assert.Equal(t, uint16(3), back.Generation())

	require.NoError(t, back.UnmarshalJSON([]byte(`""`)))
	assert.True(t, back.IsNil())
}
