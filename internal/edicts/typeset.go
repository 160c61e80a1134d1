package edicts

import "battlescape-server/internal/domain"

// TypeSet - множество типов эдиктов для фильтров поиска.
type TypeSet uint32

// NewTypeSet собирает множество из перечисленных типов.
func NewTypeSet(types ...domain.EntityType) TypeSet {
	var s TypeSet
	for _, t := range types {
		s |= 1 << uint(t)
	}
	return s
}

func (s TypeSet) Has(t domain.EntityType) bool { return s&(1<<uint(t)) != 0 }
func (s TypeSet) Empty() bool                 { return s == 0 }

// With возвращает новое множество с добавленными типами.
func (s TypeSet) With(types ...domain.EntityType) TypeSet {
	return s | NewTypeSet(types...)
}
