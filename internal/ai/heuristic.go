package ai

import (
	"battlescape-server/internal/actions"
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/sim"
	"battlescape-server/internal/systems"
	"battlescape-server/pkg/logger"
	"cmp"
	"slices"

	"github.com/sirupsen/logrus"
)

// maxShotsPerThink ограничивает стрельбу при g_notu.
const maxShotsPerThink = 8

// Heuristic - встроенный AI: паника - бегство, ярость - стрельба по всем,
// иначе атака ближайшего видимого врага и укрытие.
type Heuristic struct{}

func (Heuristic) Think(ctx *sim.Context, player *domain.Player, ent *domain.Edict) {
	log := logger.Component("ai_system").WithFields(logrus.Fields{
		"edict": ent.Number,
		"team":  ent.Team,
	})

	switch {
	case ent.State.IsPanicked():
		if hide(ctx, player, ent) {
			log.Debug("Panicked actor fled")
		}
		return

	case ent.State.IsRaged():
		targets := visibleTargets(ctx, ent, rageFilter(ent))
		if len(targets) > 0 {
			fireAt(ctx, player, ent, targets[0])
			log.WithField("target", targets[0].Number).Debug("Raging actor attacks")
		}
		return
	}

	if ent.Team == domain.TeamCivilian {
		civilianThink(ctx, player, ent)
		return
	}

	targets := visibleTargets(ctx, ent, enemyFilter(ent))
	if len(targets) == 0 {
		advance(ctx, player, ent)
		return
	}

	target := targets[0]
	if _, _, fd := bestWeapon(ent, target.Pos); fd == nil {
		approach(ctx, player, ent, target)
	}
	if shots := fireAt(ctx, player, ent, target); shots > 0 {
		log.WithFields(logrus.Fields{
			"target": target.Number,
			"shots":  shots,
		}).Debug("Actor attacked")
	}
	hide(ctx, player, ent)
}

// --- выбор целей ---

type targetFilter func(other *domain.Edict) bool

func enemyFilter(ent *domain.Edict) targetFilter {
	return func(o *domain.Edict) bool {
		if o.Team == ent.Team {
			return false
		}
		// люди не стреляют по гражданским, пришельцы - стреляют
		return o.Team != domain.TeamCivilian || ent.Team == domain.TeamAlien
	}
}

func rageFilter(ent *domain.Edict) targetFilter {
	insane := ent.State.IsInsane()
	return func(o *domain.Edict) bool { return insane || o.Team != ent.Team }
}

// visibleTargets - живые акторы, которых видит ent, от ближнего к дальнему.
func visibleTargets(ctx *sim.Context, ent *domain.Edict, filter targetFilter) []*domain.Edict {
	var out []*domain.Edict
	for o := range ctx.Store.LivingActors(domain.NoActiveTeam) {
		if o == ent || !filter(o) {
			continue
		}
		if ctx.Cfg.Bool(config.GAIDebug) || systems.CanSee(ctx, ent, o) {
			out = append(out, o)
		}
	}
	slices.SortStableFunc(out, func(a, b *domain.Edict) int {
		return cmp.Or(
			cmp.Compare(ent.Pos.ChebyshevTo(a.Pos), ent.Pos.ChebyshevTo(b.Pos)),
			cmp.Compare(a.Number, b.Number),
		)
	})
	return out
}

// --- оружие и стрельба ---

// bestWeapon - огневой режим с наибольшим ожидаемым уроном, из которого
// можно выстрелить по клетке target прямо сейчас.
func bestWeapon(ent *domain.Edict, target domain.GridPos) (hand, fdIdx int, fd *domain.FireDef) {
	bestScore := 0.0
	for _, h := range []int{actions.HandRight, actions.HandLeft} {
		item, _ := actions.Weapon(ent, h, 0)
		if item == nil || item.Ammo <= 0 {
			continue
		}
		for i := range item.FireDefs {
			f := &item.FireDefs[i]
			if f.Damage <= 0 || f.TU > ent.TU {
				continue
			}
			if f.Range > 0 && float64(ent.Pos.ChebyshevTo(target)) > f.Range {
				continue
			}
			score := float64(f.Damage*max(f.Shots, 1)) * actions.HitChance(ent, f, target)
			if score > bestScore {
				hand, fdIdx, fd, bestScore = h, i, f, score
			}
		}
	}
	return hand, fdIdx, fd
}

// fireAt стреляет по цели, пока она жива и хватает TU.
func fireAt(ctx *sim.Context, player *domain.Player, ent, target *domain.Edict) int {
	shots := 0
	for shots < maxShotsPerThink && target.IsLivingActor() && ent.IsLivingActor() {
		hand, fdIdx, fd := bestWeapon(ent, target.Pos)
		if fd == nil {
			break
		}
		res, err := actions.Shoot(ctx, player, ent, target.Pos, hand, fdIdx)
		if err != nil || res.Shots == 0 {
			break
		}
		shots += res.Shots
	}
	return shots
}

// --- движение ---

func moveTo(ctx *sim.Context, player *domain.Player, ent *domain.Edict, to domain.GridPos) bool {
	if to == ent.Pos {
		return false
	}
	res, err := actions.Move(ctx, player, ent, to)
	if err != nil {
		logger.Component("ai_system").WithFields(logrus.Fields{
			"edict": ent.Number,
			"to":    to,
		}).WithError(err).Debug("AI move refused")
		return false
	}
	return res.Steps > 0
}

// hide уводит актора в укрытие на оставшиеся TU.
func hide(ctx *sim.Context, player *domain.Player, ent *domain.Edict) bool {
	if !ent.IsLivingActor() {
		return false
	}
	pos, ok := FindHidingLocation(ctx, ent, ent.TU)
	if !ok {
		return false
	}
	return moveTo(ctx, player, ent, pos)
}

// approach подводит актора на позицию для выстрела, оставляя TU на
// самый дешевый огневой режим.
func approach(ctx *sim.Context, player *domain.Player, ent, target *domain.Edict) {
	reserve := cheapestShot(ent)
	if reserve < 0 {
		return
	}
	eye := systems.Eye(target)
	for _, c := range reachableSorted(ctx, ent, ent.TU-reserve) {
		if c.steps == 0 {
			continue
		}
		if inRange(ent, c.pos, target.Pos) && !ctx.Oracle.TestLine(eyeAt(ent, c.pos), eye) {
			moveTo(ctx, player, ent, c.pos)
			return
		}
	}
	if pos, ok := FindHerdLocation(ctx, ent, target.Origin, ent.TU-reserve); ok {
		moveTo(ctx, player, ent, pos)
	}
}

// cheapestShot - TU самого дешевого выстрела или -1, если стрелять нечем.
func cheapestShot(ent *domain.Edict) int {
	best := -1
	for _, item := range []*domain.Item{ent.Inv.Right, ent.Inv.Left} {
		if !item.Weapon() || item.Ammo <= 0 {
			continue
		}
		for _, f := range item.FireDefs {
			if best < 0 || f.TU < best {
				best = f.TU
			}
		}
	}
	return best
}

func inRange(ent *domain.Edict, from, to domain.GridPos) bool {
	for _, item := range []*domain.Item{ent.Inv.Right, ent.Inv.Left} {
		if !item.Weapon() || item.Ammo <= 0 {
			continue
		}
		for _, f := range item.FireDefs {
			if f.Range == 0 || float64(from.ChebyshevTo(to)) <= f.Range {
				return true
			}
		}
	}
	return false
}

// advance - врагов не видно: идти к ближайшему врагу, которого видела команда.
func advance(ctx *sim.Context, player *domain.Player, ent *domain.Edict) {
	var target *domain.Edict
	for o := range ctx.Store.LivingActors(domain.NoActiveTeam) {
		if !enemyFilter(ent)(o) || o.VisFlags&ent.Team.Bit() == 0 {
			continue
		}
		if target == nil || ent.Pos.ChebyshevTo(o.Pos) < ent.Pos.ChebyshevTo(target.Pos) {
			target = o
		}
	}
	if target == nil {
		return
	}
	approach(ctx, player, ent, target)
}

// civilianThink: прятаться от пришельцев, иначе держаться своих.
func civilianThink(ctx *sim.Context, player *domain.Player, ent *domain.Edict) {
	if exposed(ctx, ent, ent.Pos) {
		hide(ctx, player, ent)
		return
	}

	var sum domain.Vec3
	n := 0
	for o := range ctx.Store.LivingActors(ent.Team) {
		if o != ent {
			sum = sum.Add(o.Origin)
			n++
		}
	}
	if n == 0 {
		return
	}
	center := sum.Scale(1 / float64(n))
	if pos, ok := FindHerdLocation(ctx, ent, center, ent.TU/2); ok && !exposed(ctx, ent, pos) {
		moveTo(ctx, player, ent, pos)
	}
}
