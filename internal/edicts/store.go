package edicts

import (
	"battlescape-server/internal/domain"
	"battlescape-server/pkg/logger"
	"errors"
	"fmt"
	"iter"

	"github.com/sirupsen/logrus"
)

var (
	// ErrCapacityExceeded - арена заполнена (sv_maxentities).
	ErrCapacityExceeded = errors.New("entity arena capacity exceeded")
	// ErrStaleHandle - слот был освобожден после выдачи ссылки.
	ErrStaleHandle = errors.New("stale edict handle")
)

// WorldNumber - слот, зарезервированный под мир.
const WorldNumber = 0

// Store - арена эдиктов фиксированной емкости.
//
// Эдикты никогда не переезжают между слотами. Указатели, полученные из
// Store, нельзя хранить через вызовы, которые могут освобождать эдикты:
// слот будет переиспользован. Для долгоживущих ссылок есть Handle.
type Store struct {
	slots []domain.Edict
	// numEdicts - верхняя граница занятых слотов, итерации идут до нее.
	numEdicts int
}

// NewStore создает арену на capacity слотов; слот 0 сразу занят миром.
func NewStore(capacity int) *Store {
	if capacity < 1 {
		capacity = 1
	}
	s := &Store{slots: make([]domain.Edict, capacity)}
	world := &s.slots[WorldNumber]
	world.InUse = true
	world.Number = WorldNumber
	world.Type = domain.TypeWorld
	world.Solid = domain.SolidBSP
	world.GroupMaster = -1
	world.Team = domain.NoActiveTeam
	s.numEdicts = 1
	for i := range s.slots {
		s.slots[i].Number = i
	}
	return s
}

// Capacity возвращает sv_maxentities, с которым создана арена.
func (s *Store) Capacity() int { return len(s.slots) }

// World возвращает эдикт мира.
func (s *Store) World() *domain.Edict { return &s.slots[WorldNumber] }

// Allocate занимает первый свободный слот после мира.
func (s *Store) Allocate() (*domain.Edict, error) {
	for i := WorldNumber + 1; i < len(s.slots); i++ {
		e := &s.slots[i]
		if e.InUse {
			continue
		}
		gen := e.Generation
		*e = domain.Edict{
			InUse:       true,
			Number:      i,
			Generation:  gen,
			GroupMaster: -1,
			PNum:        -1,
		}
		if i >= s.numEdicts {
			s.numEdicts = i + 1
		}
		return e, nil
	}

	logger.Component("entity_store").WithFields(logrus.Fields{
		"capacity": len(s.slots),
	}).Debug("Edict allocation refused")
	return nil, ErrCapacityExceeded
}

// Free очищает слот. Повторное освобождение - нарушение инварианта арены.
func (s *Store) Free(e *domain.Edict) {
	if e == nil {
		panic("edicts: free of nil edict")
	}
	if e.Number == WorldNumber {
		panic("edicts: attempt to free the world")
	}
	if e.Number < 0 || e.Number >= len(s.slots) || &s.slots[e.Number] != e {
		panic(fmt.Sprintf("edicts: edict %d does not belong to this arena", e.Number))
	}
	if !e.InUse {
		panic(fmt.Sprintf("edicts: double free of edict %d", e.Number))
	}

	num := e.Number
	gen := e.Generation + 1
	*e = domain.Edict{Number: num, Generation: gen, GroupMaster: -1, PNum: -1}

	for s.numEdicts > 1 && !s.slots[s.numEdicts-1].InUse {
		s.numEdicts--
	}
}

// Get возвращает эдикт по номеру слота (в том числе свободный) или nil.
func (s *Store) Get(number int) *domain.Edict {
	if number < 0 || number >= len(s.slots) {
		return nil
	}
	return &s.slots[number]
}

// InUse возвращает эдикт только если слот занят.
func (s *Store) InUse(number int) *domain.Edict {
	e := s.Get(number)
	if e == nil || !e.InUse {
		return nil
	}
	return e
}

// MustInUse - поиск эдикта, который обязан существовать (данные ядра).
// Отсутствие означает порчу арены.
func (s *Store) MustInUse(number int) *domain.Edict {
	e := s.InUse(number)
	if e == nil {
		panic(fmt.Sprintf("edicts: edict %d is not in use", number))
	}
	return e
}

// Handle выдает долгоживущую ссылку на эдикт.
func (s *Store) Handle(e *domain.Edict) Handle {
	if e == nil || !e.InUse {
		return NilHandle
	}
	return PackHandle(e.Type, e.Generation, uint32(e.Number))
}

// Resolve проверяет ссылку: слот занят и поколение совпадает.
func (s *Store) Resolve(h Handle) (*domain.Edict, error) {
	if h.IsNil() {
		return nil, ErrStaleHandle
	}
	e := s.InUse(h.Number())
	if e == nil || e.Generation != h.Generation() {
		return nil, fmt.Errorf("%s: %w", h, ErrStaleHandle)
	}
	return e, nil
}

// Count возвращает количество занятых слотов (мир включен).
func (s *Store) Count() int {
	n := 0
	for i := 0; i < s.numEdicts; i++ {
		if s.slots[i].InUse {
			n++
		}
	}
	return n
}

// All - ленивая итерация по занятым слотам в порядке номеров.
// Слот проверяется в момент выдачи, поэтому освобожденные по ходу
// итерации эдикты пропускаются. Последовательность можно перезапускать.
func (s *Store) All(pred func(*domain.Edict) bool) iter.Seq[*domain.Edict] {
	return func(yield func(*domain.Edict) bool) {
		for i := 0; i < s.numEdicts; i++ {
			e := &s.slots[i]
			if !e.InUse {
				continue
			}
			if pred != nil && !pred(e) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Actors - живые и мертвые акторы (без мира).
func (s *Store) Actors() iter.Seq[*domain.Edict] {
	return s.All(func(e *domain.Edict) bool { return e.Type.IsActor() })
}

// LivingActors - живые акторы; team=NoActiveTeam означает все команды.
func (s *Store) LivingActors(team domain.Team) iter.Seq[*domain.Edict] {
	return s.All(func(e *domain.Edict) bool {
		return e.IsLivingActor() && (team == domain.NoActiveTeam || e.Team == team)
	})
}

// FindAtPos ищет первый эдикт в клетке с типом из набора types.
// Пустой набор означает "любой тип".
func (s *Store) FindAtPos(pos domain.GridPos, types TypeSet) *domain.Edict {
	for e := range s.All(nil) {
		if e.Number == WorldNumber || e.Pos != pos {
			continue
		}
		if types.Empty() || types.Has(e.Type) {
			return e
		}
	}
	return nil
}

// FindAtPosExcluding ищет первый эдикт в клетке, чей тип НЕ входит в exclude.
func (s *Store) FindAtPosExcluding(pos domain.GridPos, exclude TypeSet) *domain.Edict {
	for e := range s.All(nil) {
		if e.Number == WorldNumber || e.Pos != pos {
			continue
		}
		if !exclude.Has(e.Type) {
			return e
		}
	}
	return nil
}

// FindRadius возвращает эдикты, чей центр лежит не дальше radius от точки.
// types фильтрует по типу; пустой набор - все типы, кроме мира.
func (s *Store) FindRadius(from domain.Vec3, radius float64, types TypeSet) []*domain.Edict {
	var out []*domain.Edict
	for e := range s.All(nil) {
		if e.Number == WorldNumber {
			continue
		}
		if !types.Empty() && !types.Has(e.Type) {
			continue
		}
		if e.AbsBox().Center().Dist(from) <= radius {
			out = append(out, e)
		}
	}
	return out
}

// FindByTargetName ищет эдикт по targetname (связи дверей и триггеров).
func (s *Store) FindByTargetName(name string) *domain.Edict {
	if name == "" {
		return nil
	}
	for e := range s.All(nil) {
		if e.TargetName == name {
			return e
		}
	}
	return nil
}
