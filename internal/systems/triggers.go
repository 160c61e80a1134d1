package systems

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/edicts"
	"battlescape-server/internal/sim"
	"battlescape-server/pkg/logger"
	"slices"

	"github.com/sirupsen/logrus"
)

// TouchingEdicts возвращает занятые, участвующие в пересечениях эдикты,
// чья коробка пересекает box. Мир и skip пропускаются.
// Больше MaxTouchedEdicts за вызов не возвращается.
func TouchingEdicts(ctx *sim.Context, box domain.AABB, skip *domain.Edict) []*domain.Edict {
	var out []*domain.Edict
	for e := range ctx.Store.All(nil) {
		if e.Number == edicts.WorldNumber || e == skip || e.Solid == domain.SolidNot {
			continue
		}
		if !box.Intersects(e.AbsBox()) {
			continue
		}
		if len(out) == domain.MaxTouchedEdicts {
			logger.Component("trigger_system").WithFields(logrus.Fields{
				"limit": domain.MaxTouchedEdicts,
			}).Debug("Touch list truncated")
			break
		}
		out = append(out, e)
	}
	return out
}

// ResetTriggers вызывает reset у триггеров, которые помнят ent, но больше
// его не касаются. Должна идти до новых touch, чтобы выход срабатывал раньше входа.
func ResetTriggers(ctx *sim.Context, ent *domain.Edict, touched []*domain.Edict) {
	for trig := range ctx.Store.All(func(e *domain.Edict) bool {
		return e.Solid == domain.SolidTrigger && e.HasTouched(ent.Number)
	}) {
		if slices.Contains(touched, trig) {
			continue
		}
		trig.RemoveTouched(ent.Number)
		if trig.Behaviour.Kind.HasReset() {
			Reset(ctx, trig, ent)
		}
	}
}

// TouchTriggers обрабатывает триггеры вокруг живого актора.
// Возвращает число вызванных touch.
func TouchTriggers(ctx *sim.Context, ent *domain.Edict) int {
	if !ent.IsLivingActor() {
		return 0
	}

	touched := TouchingEdicts(ctx, ent.AbsBox(), ent)
	ResetTriggers(ctx, ent, touched)

	n := 0
	for _, hit := range touched {
		if !hit.InUse || hit.Solid != domain.SolidTrigger || !hit.Behaviour.Kind.HasTouch() {
			continue
		}
		Touch(ctx, hit, ent)
		// запись после колбэка: one-shot триггер видит "еще не касался"
		if hit.InUse {
			hit.AddTouched(ent.Number)
		}
		n++
	}
	return n
}

// TouchSolids вызывает touch у твердых эдиктов вокруг живого актора,
// расширив его коробку на extend. Вызывается каждый раз без one-shot учета.
func TouchSolids(ctx *sim.Context, ent *domain.Edict, extend float64) int {
	if !ent.IsLivingActor() {
		return 0
	}

	n := 0
	for _, hit := range TouchingEdicts(ctx, ent.AbsBox().Expand(extend), ent) {
		if !hit.InUse || hit.Solid == domain.SolidTrigger || !hit.Behaviour.Kind.HasTouch() {
			continue
		}
		Touch(ctx, hit, ent)
		n++
	}
	return n
}

// TouchEdicts - обратное направление: touch самого ent для всех, кого он задевает.
func TouchEdicts(ctx *sim.Context, ent *domain.Edict, extend float64) int {
	if !ent.Behaviour.Kind.HasTouch() {
		return 0
	}

	n := 0
	for _, hit := range TouchingEdicts(ctx, ent.AbsBox().Expand(extend), ent) {
		if !ent.InUse {
			break
		}
		if !hit.InUse {
			continue
		}
		Touch(ctx, ent, hit)
		n++
	}
	return n
}
