package systems

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"battlescape-server/internal/sim"
	"battlescape-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// FreeEdict уничтожает сетевое представление эдикта, отвязывает его от
// мира и освобождает слот. Повторный вызов для того же слота - паника арены.
func FreeEdict(ctx *sim.Context, ent *domain.Edict) {
	ctx.Events.AddEvent(domain.PMAll, events.EvEntDestroy)
	ctx.Events.PutShort(ent.Number)
	ctx.Events.EndEvents()

	ent.Linked = false
	ctx.Store.Free(ent)
}

// TakeDamage - урон без брони и морали: только акторы и разрушаемые
// объекты (ящики и двери). HP не уходит ниже нуля, отрицательный урон лечит.
func TakeDamage(ent *domain.Edict, damage int) {
	if ent.Type != domain.TypeBreakable && ent.Type != domain.TypeDoor && !ent.Type.IsActor() {
		return
	}
	ent.HP = max(ent.HP-damage, 0)
}

// RecalcRouting пересчитывает маршруты вокруг BSP-эдикта (дверь, ящик).
func RecalcRouting(ctx *sim.Context, ent *domain.Edict) {
	var blockers []string
	for e := range ctx.Store.All(nil) {
		if e.Solid == domain.SolidBSP && e.Type != domain.TypeWorld && e.Model != "" {
			blockers = append(blockers, e.Model)
		}
	}
	box := domain.AABB{Mins: ent.Pos.ToWorld(), Maxs: ent.Pos.ToWorld()}.Expand(domain.UnitSize/2 - 1)
	ctx.Router.RecalcRouting(ent.Model, box, blockers)
}

// UseEdict "использует" эдикт группы: сначала мастера, затем всех участников.
// Возвращает результат использования мастера.
func UseEdict(ctx *sim.Context, ent, activator *domain.Edict) bool {
	if !ent.IsGroupMaster() {
		ent = ctx.Store.MustInUse(ent.GroupMaster)
	}
	if !ent.Behaviour.Kind.HasUse() {
		return false
	}

	used := Use(ctx, ent, activator)
	for _, num := range ent.GroupMembers {
		if num == ent.Number {
			continue
		}
		if member := ctx.Store.InUse(num); member != nil && member.Behaviour.Kind.HasUse() {
			Use(ctx, member, activator)
		}
	}

	logger.Component("trigger_system").WithFields(logrus.Fields{
		"edict":   ent.Number,
		"kind":    ent.Behaviour.Kind.String(),
		"members": len(ent.GroupMembers),
		"used":    used,
	}).Debug("Edict used")
	return used
}
