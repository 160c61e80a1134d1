package actions

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/edicts"
	"battlescape-server/internal/events"
	"battlescape-server/internal/sim"
	"battlescape-server/internal/systems"
	"battlescape-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Руки для выбора оружия.
const (
	HandRight = iota
	HandLeft
)

var damageable = edicts.NewTypeSet(domain.TypeActor, domain.TypeActor2x2, domain.TypeBreakable, domain.TypeDoor)

// ShotResult - итог серии выстрелов.
type ShotResult struct {
	Shots int
	// Hits - сколько раз луч остановился на эдикте (не на стене).
	Hits int
}

// Weapon возвращает оружие в руке и огневой режим.
func Weapon(ent *domain.Edict, hand, fdIdx int) (*domain.Item, *domain.FireDef) {
	item := ent.Inv.Right
	if hand == HandLeft {
		item = ent.Inv.Left
	}
	if !item.Weapon() || fdIdx < 0 || fdIdx >= len(item.FireDefs) {
		return nil, nil
	}
	return item, &item.FireDefs[fdIdx]
}

// HitChance - вероятность попасть в выбранную клетку.
func HitChance(ent *domain.Edict, fd *domain.FireDef, target domain.GridPos) float64 {
	cells := float64(ent.Pos.ChebyshevTo(target))
	p := 0.3 + 0.006*float64(ent.Chr.Skill(domain.AbilityAccuracy)) + 0.003*float64(ent.Chr.Skill(fd.WeaponSkill))
	p -= fd.Spread * cells * 0.01
	if ent.State.Has(domain.StateCrouched) {
		p += 0.1
	}
	return min(max(p, 0.05), 0.95)
}

// Shoot стреляет из оружия в руке hand режимом fdIdx по клетке target.
func Shoot(ctx *sim.Context, player *domain.Player, ent *domain.Edict, target domain.GridPos, hand, fdIdx int) (ShotResult, error) {
	if err := ActionCheck(ctx, player, ent, 0); err != nil {
		return ShotResult{}, err
	}
	item, fd := Weapon(ent, hand, fdIdx)
	if fd == nil {
		return ShotResult{}, refuse(ctx, player, ErrNoWeapon)
	}
	if err := ActionCheck(ctx, player, ent, fd.TU); err != nil {
		return ShotResult{}, err
	}
	if item.Ammo <= 0 {
		return ShotResult{}, refuse(ctx, player, ErrNoAmmo)
	}
	if fd.Range > 0 && float64(ent.Pos.ChebyshevTo(target)) > fd.Range {
		return ShotResult{}, refuse(ctx, player, ErrOutOfRange)
	}

	spendTU(ctx, ent, fd.TU)
	if m := ent.Chr.Mission; m != nil && int(fd.WeaponSkill) < domain.SkillNum && fd.WeaponSkill >= 0 {
		if fd.SplashRadius > 0 {
			m.FiredSplashTUs[fd.WeaponSkill] += fd.TU
		} else {
			m.FiredTUs[fd.WeaponSkill] += fd.TU
		}
		m.ResetShotFlags()
	}

	shots := min(max(fd.Shots, 1), item.Ammo)
	res := ShotResult{}
	for i := 0; i < shots && ent.IsLivingActor(); i++ {
		res.Shots++
		if shootSingle(ctx, ent, fd, fdIdx, target) {
			res.Hits++
		}
	}
	item.Ammo -= res.Shots

	systems.SendStats(ctx, ent)

	logger.Component("combat_system").WithFields(logrus.Fields{
		"shooter": ent.Number,
		"target":  target,
		"weapon":  item.ID,
		"shots":   res.Shots,
		"hits":    res.Hits,
	}).Info("Shot fired")
	return res, nil
}

// shootSingle - один выстрел: бросок на точность, трассировка, урон.
func shootSingle(ctx *sim.Context, ent *domain.Edict, fd *domain.FireDef, fdIdx int, target domain.GridPos) bool {
	aim := target
	if ctx.Rand.Float64() >= HitChance(ent, fd, target) {
		// промах: пуля уходит в соседнюю клетку
		d := dirs[ctx.Rand.Intn(len(dirs))]
		aim = target.Shift(d[0], d[1])
	}

	tr := ctx.Oracle.Trace(systems.Eye(ent), domain.AABB{}, aim.ToWorld(), ent, sim.MaskShot)
	var victim *domain.Edict
	if tr.Ent > 0 {
		victim = ctx.Store.InUse(tr.Ent)
	}
	impact := domain.WorldToGrid(tr.EndPos)

	vis := ent.VisFlags
	if victim != nil {
		vis |= victim.Team.Bit()
	}
	ctx.Events.AddEvent(systems.VisToPM(ctx, vis)|systems.TeamToPM(ctx, ent.Team), events.EvActorShoot)
	ctx.Events.PutShort(ent.Number)
	ctx.Events.PutByte(fdIdx)
	ctx.Events.PutPos(ent.Pos)
	ctx.Events.PutPos(impact)
	ctx.Events.PutShort(hitNumber(victim))
	ctx.Events.EndEvents()

	damage := fd.Damage + int(float64(fd.DamageSpread)*ctx.Crand())
	if fd.Damage >= 0 {
		damage = max(damage, 0)
	}

	if fd.SplashRadius > 0 {
		center := impact.ToWorld()
		for _, e := range ctx.Store.FindRadius(center, fd.SplashRadius*domain.UnitSize, damageable) {
			if e.InUse {
				systems.Damage(ctx, e, fd, damage, ent)
			}
		}
		return victim != nil
	}

	if victim == nil || !damageable.Has(victim.Type) {
		return false
	}
	if victim.Type.IsActor() {
		systems.UpdateHitScore(ent, victim, fd, 0)
	}
	systems.Damage(ctx, victim, fd, damage, ent)
	return true
}

func hitNumber(victim *domain.Edict) int {
	if victim == nil {
		return -1
	}
	return victim.Number
}
