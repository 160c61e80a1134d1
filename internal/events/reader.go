package events

import (
	"battlescape-server/internal/domain"
	"encoding/binary"
	"errors"
)

// ErrShortPayload - нагрузка закончилась раньше, чем ожидал декодер.
var ErrShortPayload = errors.New("event payload too short")

// Reader последовательно читает поля, записанные Buffer.
// Первая ошибка запоминается, дальнейшие чтения возвращают нули.
type Reader struct {
	data []byte
	off  int
	err  error
}

func NewReader(data []byte) *Reader { return &Reader{data: data} }

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = ErrShortPayload
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) Byte() int {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return int(b[0])
}

func (r *Reader) Short() int {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return int(int16(binary.LittleEndian.Uint16(b)))
}

func (r *Reader) Long() int {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int(int32(binary.LittleEndian.Uint32(b)))
}

// Text читает строку, записанную PutString.
func (r *Reader) Text() string {
	n := r.Short()
	if n < 0 {
		r.err = ErrShortPayload
		return ""
	}
	b := r.take(n)
	return string(b)
}

func (r *Reader) Pos() domain.GridPos {
	x := r.Short()
	y := r.Short()
	z := r.Byte()
	return domain.GridPos{X: x, Y: y, Z: z}
}

// Remaining - сколько байт еще не прочитано.
func (r *Reader) Remaining() int { return len(r.data) - r.off }

func (r *Reader) Err() error { return r.err }
