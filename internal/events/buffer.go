package events

import (
	"battlescape-server/internal/domain"
	"encoding/binary"
)

// Sink - приемник сетевых событий.
//
// Событие открывается AddEvent, наполняется Put*-вызовами и закрывается
// EndEvents (или следующим AddEvent). Маска адресует слоты игроков.
type Sink interface {
	AddEvent(mask domain.PlayerMask, kind Kind)
	PutByte(v int)
	PutShort(v int)
	PutLong(v int)
	PutString(s string)
	PutPos(p domain.GridPos)
	EndEvents()
}

// Event - одно законченное событие.
type Event struct {
	Mask    domain.PlayerMask `msgpack:"mask" json:"mask"`
	Kind    Kind              `msgpack:"kind" json:"kind"`
	Payload []byte            `msgpack:"payload" json:"payload"`
}

// Reader возвращает декодер полезной нагрузки события.
func (e Event) Reader() *Reader { return NewReader(e.Payload) }

// Buffer - Sink, который копит события в памяти.
// Сервис забирает их через Drain после каждого кадра; тесты читают Events.
type Buffer struct {
	done    []Event
	pending *Event
}

func NewBuffer() *Buffer { return &Buffer{} }

func (b *Buffer) AddEvent(mask domain.PlayerMask, kind Kind) {
	b.close()
	b.pending = &Event{Mask: mask, Kind: kind}
}

func (b *Buffer) PutByte(v int) {
	if b.pending == nil {
		return
	}
	b.pending.Payload = append(b.pending.Payload, byte(v))
}

func (b *Buffer) PutShort(v int) {
	if b.pending == nil {
		return
	}
	b.pending.Payload = binary.LittleEndian.AppendUint16(b.pending.Payload, uint16(int16(v)))
}

func (b *Buffer) PutLong(v int) {
	if b.pending == nil {
		return
	}
	b.pending.Payload = binary.LittleEndian.AppendUint32(b.pending.Payload, uint32(int32(v)))
}

// PutString пишет строку с 16-битной длиной впереди.
func (b *Buffer) PutString(s string) {
	if b.pending == nil {
		return
	}
	b.PutShort(len(s))
	b.pending.Payload = append(b.pending.Payload, s...)
}

func (b *Buffer) PutPos(p domain.GridPos) {
	b.PutShort(p.X)
	b.PutShort(p.Y)
	b.PutByte(p.Z)
}

func (b *Buffer) EndEvents() { b.close() }

func (b *Buffer) close() {
	if b.pending == nil {
		return
	}
	// событие с пустой маской никому не адресовано
	if b.pending.Mask != 0 {
		b.done = append(b.done, *b.pending)
	}
	b.pending = nil
}

// Events возвращает закрытые события (без копирования).
func (b *Buffer) Events() []Event { return b.done }

// Drain закрывает текущее событие и отдает накопленное, очищая буфер.
func (b *Buffer) Drain() []Event {
	b.close()
	out := b.done
	b.done = nil
	return out
}

// Reset выбрасывает все события.
func (b *Buffer) Reset() {
	b.done = nil
	b.pending = nil
}

// OfKind отбирает события одного типа в порядке отправки.
func (b *Buffer) OfKind(kind Kind) []Event {
	var out []Event
	for _, ev := range b.done {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// Kinds - последовательность типов событий (для проверок порядка).
func (b *Buffer) Kinds() []Kind {
	out := make([]Kind, 0, len(b.done))
	for _, ev := range b.done {
		out = append(out, ev.Kind)
	}
	return out
}

// ForPlayer отбирает события, адресованные слоту игрока.
func ForPlayer(evs []Event, num int) []Event {
	var out []Event
	for _, ev := range evs {
		if ev.Mask.Has(num) {
			out = append(out, ev)
		}
	}
	return out
}
