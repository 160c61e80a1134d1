package edicts

import (
	"battlescape-server/internal/domain"
	"fmt"
	"strconv"
)

// Handle - 64-битная ссылка на слот арены.
//
// Формат битов (от старших к младшим):
//
//	[ reserved (8) | Type (8) | Generation (16) | Number (32) ]
//
// Generation увеличивается при каждом освобождении слота, поэтому
// ссылка, сохраненная до Free, перестает резолвиться после повторного
// Allocate того же слота.
type Handle uint64

// NilHandle - отсутствие ссылки.
const NilHandle Handle = 0

const (
	bitsNumber = 32
	bitsGen    = 16
	bitsType   = 8

	shiftGen  = bitsNumber
	shiftType = bitsNumber + bitsGen

	maskNumber = (1 << bitsNumber) - 1
	maskGen    = (1 << bitsGen) - 1
	maskType   = (1 << bitsType) - 1

	// handleValid отличает ссылку на слот 0 (мир) от NilHandle.
	handleValid = uint64(1) << 63
)

// PackHandle собирает Handle из составных частей без проверок диапазона.
func PackHandle(typ domain.EntityType, gen uint16, number uint32) Handle {
	return Handle(handleValid |
		(uint64(typ)&maskType)<<shiftType |
		uint64(gen)<<shiftGen |
		uint64(number))
}

// Number возвращает номер слота.
func (h Handle) Number() int { return int(uint64(h) & maskNumber) }

// Generation возвращает поколение слота на момент выдачи ссылки.
func (h Handle) Generation() uint16 { return uint16((uint64(h) >> shiftGen) & maskGen) }

// Type возвращает тип эдикта на момент выдачи ссылки.
func (h Handle) Type() domain.EntityType {
	return domain.EntityType((uint64(h) >> shiftType) & maskType)
}

func (h Handle) IsNil() bool { return h == NilHandle }

func (h Handle) String() string {
	if h.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("[%s gen=%d num=%d]", h.Type(), h.Generation(), h.Number())
}

// MarshalJSON пишет Handle строкой: uint64 теряет точность в JavaScript.
func (h Handle) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(h), 10) + `"`), nil
}

// UnmarshalJSON принимает строку или число.
func (h *Handle) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > 1 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		*h = NilHandle
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*h = Handle(v)
	return nil
}
