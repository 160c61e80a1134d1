package network

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"battlescape-server/pkg/api"
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

func TestBroadcaster_RouteByMask(t *testing.T) {
	b := NewBroadcaster()
	p0 := b.Register(0)
	p1 := b.Register(1)

	buf := events.NewBuffer()
	buf.AddEvent(domain.PlayerBit(0), events.EvActorStats)
	buf.PutShort(5)
	buf.AddEvent(domain.PlayerBit(0)|domain.PlayerBit(1), events.EvEndRound)
	buf.PutByte(7)
	buf.AddEvent(domain.PlayerBit(3), events.EvPrint)
	buf.PutString("nobody listens")
	buf.EndEvents()

	sent := b.Route(12, buf.Events())
	assert.Equal(t, 2, sent)

	f0 := <-p0
	assert.Equal(t, api.FrameEvents, f0.Type)
	assert.Equal(t, 12, f0.Frame)
	require.Len(t, f0.Events, 2)
	assert.Equal(t, "EV_ACTOR_STATS", f0.Events[0].Name)
	assert.Equal(t, uint8(events.EvEndRound), f0.Events[1].Kind)

	f1 := <-p1
	require.Len(t, f1.Events, 1)
	assert.Equal(t, []byte{7}, f1.Events[0].Payload)
}

func TestBroadcaster_RegisterReplacesChannel(t *testing.T) {
	b := NewBroadcaster()
	old := b.Register(2)
	_ = b.Register(2)

	_, ok := <-old
	assert.False(t, ok, "old channel must be closed")
	assert.Equal(t, 1, b.SubscriberCount())

	b.Unregister(2)
	assert.False(t, b.HasSubscriber(2))
}

func TestBroadcaster_SlowSubscriberDropped(t *testing.T) {
	b := NewBroadcaster()
	slow := b.Register(0)
	fast := b.Register(1)

	buf := events.NewBuffer()
	buf.AddEvent(domain.PlayerBit(0)|domain.PlayerBit(1), events.EvEndRound)
	buf.PutByte(1)
	buf.EndEvents()

	for i := 0; i < FrameBuffer; i++ {
		require.Equal(t, 2, b.Route(i, buf.Events()))
		<-fast
	}
	// канал slow полон: следующий кадр отключает его, fast получает свой
	assert.Equal(t, 1, b.Route(FrameBuffer, buf.Events()))
	assert.False(t, b.HasSubscriber(0))
	assert.True(t, b.HasSubscriber(1))
	assert.Equal(t, FrameBuffer, (<-fast).Frame)

	// все принятые кадры дочитываются по порядку, затем канал закрыт
	for i := 0; i < FrameBuffer; i++ {
		f, ok := <-slow
		require.True(t, ok)
		assert.Equal(t, i, f.Frame)
	}
	_, ok := <-slow
	assert.False(t, ok)

	// повторная отписка безопасна
	b.Unregister(0)
}

func TestBroadcaster_SendToSlowSubscriber(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register(4)
	for i := 0; i < FrameBuffer; i++ {
		b.SendTo(4, api.ServerFrame{Type: api.FrameInfo, Frame: i})
	}
	assert.True(t, b.HasSubscriber(4))

	b.SendTo(4, api.ServerFrame{Type: api.FrameInfo, Frame: FrameBuffer})
	assert.False(t, b.HasSubscriber(4))
	assert.Len(t, ch, FrameBuffer)
}

func TestCodec_Frame(t *testing.T) {
	in := api.ServerFrame{
		Type:   api.FrameEvents,
		Frame:  40,
		Events: []api.EventView{{Kind: uint8(events.EvActorDie), Name: "EV_ACTOR_DIE", Payload: []byte{1, 0, 3, 0}}},
	}
	data, err := EncodeFrame(in)
	require.NoError(t, err)

	out, err := DecodeFrame(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = DecodeFrame([]byte{0xc1})
	assert.Error(t, err)
}
