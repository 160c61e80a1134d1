// Package network раздает события матча подключенным игрокам: каждый
// слот игрока получает только события, в маске которых есть его бит.
package network

import (
	"battlescape-server/internal/events"
	"battlescape-server/pkg/api"
	"battlescape-server/pkg/logger"
	"sync"
)

// FrameBuffer - сколько кадров может отстать подписчик до отключения.
const FrameBuffer = 100

// Broadcaster занимается только рассылкой сообщений подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: номер слота игрока -> Личный канал
	subscribers map[int]chan api.ServerFrame
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[int]chan api.ServerFrame),
	}
}

// Register создает личный канал для слота (Игрока или Бота)
func (b *Broadcaster) Register(num int) chan api.ServerFrame {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[num]; ok {
		close(old)
	}

	ch := make(chan api.ServerFrame, FrameBuffer)
	b.subscribers[num] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(num int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[num]; ok {
		close(ch)
		delete(b.subscribers, num)
	}
}

// SendTo отправляет сообщение конкретному слоту (Unicast).
// Переполненный канал означает отставшего клиента: его отключаем.
func (b *Broadcaster) SendTo(num int, msg api.ServerFrame) {
	b.mu.RLock()
	ch, ok := b.subscribers[num]
	delivered := true
	if ok {
		select {
		case ch <- msg:
		default:
			delivered = false
		}
	}
	b.mu.RUnlock()

	if !delivered {
		b.dropSlow(map[int]chan api.ServerFrame{num: ch})
	}
}

// Route раскладывает события кадра по подписчикам согласно маскам.
// Порядок событий сохраняется. Подписчик без своих событий кадр не получает.
// Поток событий нельзя прореживать, поэтому подписчик с полным каналом
// отключается целиком, а не теряет кадр.
func (b *Broadcaster) Route(frame int, evs []events.Event) int {
	if len(evs) == 0 {
		return 0
	}
	b.mu.RLock()
	sent := 0
	var slow map[int]chan api.ServerFrame
	for num, ch := range b.subscribers {
		mine := events.ForPlayer(evs, num)
		if len(mine) == 0 {
			continue
		}
		msg := api.ServerFrame{Type: api.FrameEvents, Frame: frame, Events: make([]api.EventView, len(mine))}
		for i, ev := range mine {
			msg.Events[i] = api.EventView{Kind: uint8(ev.Kind), Name: ev.Kind.String(), Payload: ev.Payload}
		}
		select {
		case ch <- msg:
			sent++
		default:
			if slow == nil {
				slow = make(map[int]chan api.ServerFrame)
			}
			slow[num] = ch
		}
	}
	b.mu.RUnlock()

	b.dropSlow(slow)
	return sent
}

// dropSlow закрывает каналы отставших подписчиков. Слот, успевший
// перерегистрироваться с новым каналом, не трогаем.
func (b *Broadcaster) dropSlow(slow map[int]chan api.ServerFrame) {
	if len(slow) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for num, ch := range slow {
		if cur, ok := b.subscribers[num]; ok && cur == ch {
			close(ch)
			delete(b.subscribers, num)
			logger.Component("hub").WithField("player", num).Warn("Channel full, subscriber dropped")
		}
	}
}

// HasSubscriber проверяет, подключен ли кто-то к слоту
func (b *Broadcaster) HasSubscriber(num int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[num]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
