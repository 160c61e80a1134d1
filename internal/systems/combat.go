package systems

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"battlescape-server/internal/sim"
	"battlescape-server/pkg/logger"
	"math"

	"github.com/sirupsen/logrus"
)

// difficultyFactor - множитель урона за уровень сложности в одиночной игре.
const difficultyFactor = 1.18

// ApplyProtection снижает положительный урон броней цели.
// Больше защиты - меньше урона, но попадание всегда снимает хотя бы 1.
func ApplyProtection(target *domain.Edict, dmgWeight, damage int) int {
	if damage <= 0 {
		return damage
	}
	return max(1, damage-target.Inv.Protection(dmgWeight))
}

// Damage применяет урон огневого режима fd к цели.
// Отрицательный урон лечит. attacker может быть nil (урон от мира).
func Damage(ctx *sim.Context, target *domain.Edict, fd *domain.FireDef, damage int, attacker *domain.Edict) {
	log := logger.Component("combat_system").WithFields(logrus.Fields{
		"target": target.Number,
		"damage": damage,
	})

	stun := fd.DmgType.IsStun()
	shock := fd.DmgType == domain.DamageShock

	if target.Type == domain.TypeBreakable || target.Type == domain.TypeDoor {
		if stun || shock {
			return
		}
		if damage >= target.HP {
			explode(ctx, target)
			log.Debug("Breakable destroyed")
			return
		}
		TakeDamage(target, damage)
		return
	}

	if !target.Type.IsActor() || target.State.IsDead() {
		return
	}

	robot := target.Chr.TeamDef.Robot
	switch {
	case damage > 0:
		damage = ApplyProtection(target, fd.DmgWeight, damage)
	case damage < 0 && robot:
		// роботов не лечат
		return
	}

	if ctx.SinglePlayer() && attacker != nil {
		diff := float64(ctx.Cfg.Int(config.Difficulty))
		switch {
		case attacker.Team == domain.TeamAlien && target.Team < domain.TeamAlien:
			damage = int(float64(damage) * math.Pow(difficultyFactor, diff))
		case attacker.Team < domain.TeamAlien && target.Team == domain.TeamAlien:
			damage = int(float64(damage) * math.Pow(difficultyFactor, -diff))
		}
	}

	if !ctx.Cfg.Bool(config.GNoDamage) {
		switch fd.DmgType {
		case domain.DamageStunElectro:
			target.STUN += damage
		case domain.DamageStunGas:
			if !robot {
				target.STUN += damage
			}
		case domain.DamageShock:
			if robot || (attacker != nil && attacker.Team == target.Team) {
				return
			}
			target.TU = 0
			target.State |= domain.StateDazed
			ctx.PlayerPrintf(ctx.PlayerOf(target), events.PrintHUD, "Soldier is dazed!\nEnemy used flashbang!")
			SendStats(ctx, target)
			log.Debug("Target dazed")
			return
		default:
			TakeDamage(target, damage)
			switch {
			case damage < 0:
				if attacker != nil && attacker.Chr.Mission != nil {
					attacker.Chr.Mission.Heal -= damage
				}
			case damage > 0 && fd.SplashRadius > 0:
				UpdateHitScore(attacker, target, fd, damage)
			}
		}
	}

	log.WithFields(logrus.Fields{
		"applied": damage,
		"hp":      target.HP,
		"stun":    target.STUN,
	}).Debug("Damage applied")

	CheckDeathOrKnockout(ctx, target, attacker, fd, damage)
}

// CheckDeathOrKnockout переводит цель в мертвые (HP == 0) или оглушенные
// (STUN > HP). Смерть проверяется первой и побеждает оглушение.
func CheckDeathOrKnockout(ctx *sim.Context, target, attacker *domain.Edict, fd *domain.FireDef, damage int) {
	dead := target.HP == 0
	if dead || target.STUN > target.HP {
		SendStats(ctx, target)
		if ctx.Multiplayer() {
			PrintActorStats(ctx, target, attacker, fd)
		}

		ActorDie(ctx, target, dead, attacker)

		if ctx.Cfg.Int(config.MorPanic) != 0 {
			Morale(ctx, MoraleDeath, target, attacker, damage)
		}

		if attacker != nil && attacker.Team.Valid() && target.Team.Valid() {
			if dead {
				ctx.Level.NumKills[attacker.Team][target.Team]++
			} else {
				ctx.Level.NumStuns[attacker.Team][target.Team]++
			}
		}
		UpdateBodycount(attacker, target, fd, dead)
		return
	}

	target.Chr.MinHP = min(target.Chr.MinHP, target.HP)
	if damage > 0 {
		if ctx.Cfg.Int(config.MorPanic) != 0 {
			Morale(ctx, MoraleWound, target, attacker, damage)
		}
	} else {
		target.HP = min(target.HP, domain.GetHP(target.Chr.Skill(domain.AbilityPower)))
	}
	SendStats(ctx, target)
}

// ActorDie убивает (dead) или оглушает актора.
func ActorDie(ctx *sim.Context, ent *domain.Edict, dead bool, attacker *domain.Edict) {
	if dead {
		ent.State |= domain.State(1 + ctx.Rand.Intn(domain.MaxDeath))
	} else {
		ent.STUN = 0
		ent.State = domain.StateStun
	}
	ent.Maxs[2] = domain.PlayerDead
	if ent.Team.Valid() && ctx.Level.NumAlive[ent.Team] > 0 {
		ctx.Level.NumAlive[ent.Team]--
	}

	ctx.Events.AddEvent(VisToPM(ctx, ent.VisFlags), events.EvActorDie)
	ctx.Events.PutShort(ent.Number)
	ctx.Events.PutShort(int(ent.State))
	ctx.Events.EndEvents()

	if ent.Chr.TeamDef.Weapons {
		InventoryToFloor(ctx, ent)
	}

	CheckVis(ctx, ent, true)
	if attacker != nil && attacker != ent && attacker.InUse {
		CheckVis(ctx, attacker, true)
	}
	CheckVisTeam(ctx, ent.Team, nil, false)

	logger.Component("combat_system").WithFields(logrus.Fields{
		"edict": ent.Number,
		"team":  ent.Team,
		"dead":  dead,
		"state": ent.State,
	}).Info("Actor went down")
}

// UpdateBodycount записывает убийство или оглушение атакующему персонажу.
func UpdateBodycount(attacker, target *domain.Edict, fd *domain.FireDef, dead bool) {
	if attacker == nil || target == nil || !attacker.Type.IsActor() {
		return
	}

	var cat domain.KillType
	switch target.Team {
	case domain.TeamAlien:
		cat = domain.KilledEnemies
		if dead && fd != nil && attacker.Chr.Mission != nil && validSkill(fd.WeaponSkill) {
			attacker.Chr.Mission.SkillKills[fd.WeaponSkill]++
		}
	case domain.TeamCivilian:
		cat = domain.KilledCivilians
	case domain.TeamPhalanx:
		cat = domain.KilledTeam
	default:
		return
	}

	score := &attacker.Chr.Score
	if dead {
		score.Kills[cat]++
	} else {
		score.Stuns[cat]++
	}
	if m := attacker.Chr.Mission; m != nil {
		if dead {
			m.Kills[cat]++
		} else {
			m.Stuns[cat]++
		}
	}
}

// UpdateHitScore учитывает попадание в счетчиках миссии атакующего.
// Внутри одного выстрела каждая категория засчитывается один раз.
// splashDamage == 0 - прямое попадание.
func UpdateHitScore(attacker, target *domain.Edict, fd *domain.FireDef, splashDamage int) {
	if attacker == nil || target == nil || fd == nil || attacker.Chr.Mission == nil || !validSkill(fd.WeaponSkill) {
		return
	}
	m := attacker.Chr.Mission
	skill := fd.WeaponSkill

	cats := make([]domain.KillType, 0, 2)
	if attacker.Team == target.Team {
		cats = append(cats, domain.KilledTeam)
	}
	switch target.Team {
	case domain.TeamCivilian:
		cats = append(cats, domain.KilledCivilians)
	case domain.TeamAlien:
		cats = append(cats, domain.KilledEnemies)
	}

	for _, cat := range cats {
		if splashDamage == 0 {
			if !m.FiredHit[cat] {
				m.Hits[skill][cat]++
				m.FiredHit[cat] = true
			}
			continue
		}
		m.HitsSplashDamage[skill][cat] += splashDamage
		if !m.FiredSplashHit[cat] {
			m.HitsSplash[skill][cat]++
			m.FiredSplashHit[cat] = true
		}
	}
}

func validSkill(s domain.Skill) bool { return s >= 0 && int(s) < domain.SkillNum }

// explode уничтожает разрушаемый объект: взрыв для всех, пересчет маршрутов, освобождение.
func explode(ctx *sim.Context, ent *domain.Edict) {
	ctx.Events.AddEvent(domain.PMAll, events.EvModelExplode)
	ctx.Events.PutShort(ent.Number)
	ctx.Events.EndEvents()

	ent.Linked = false
	ent.Solid = domain.SolidNot
	ent.HP = 0
	RecalcRouting(ctx, ent)
	FreeEdict(ctx, ent)
}

// StunTeam оглушает всех живых акторов команды (отладочная команда).
func StunTeam(ctx *sim.Context, team domain.Team) int {
	n := 0
	for ent := range ctx.Store.LivingActors(team) {
		ent.STUN = 255
		ActorDie(ctx, ent, false, nil)
		if team == domain.TeamAlien {
			ctx.Level.NumStuns[domain.TeamPhalanx][team]++
		} else {
			ctx.Level.NumStuns[domain.TeamAlien][team]++
		}
		n++
	}
	return n
}
