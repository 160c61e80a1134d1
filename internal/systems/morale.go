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

// MoraleEvent - что именно видели окружающие.
type MoraleEvent uint8

const (
	MoraleWound MoraleEvent = iota
	MoraleDeath
)

// Morale распространяет потерю (или прибавку) морали от ранения или
// смерти victim на всех живых не-гражданских акторов.
func Morale(ctx *sim.Context, kind MoraleEvent, victim, attacker *domain.Edict, param int) {
	cfg := ctx.Cfg
	lvl := ctx.Level
	distance := cfg.Float(config.MorDistance)

	for ent := range ctx.Store.All(func(e *domain.Edict) bool {
		return e.Type == domain.TypeActor && e.IsLivingActor() && e.Team != domain.TeamCivilian
	}) {
		mod := cfg.Float(config.MobWound) * float64(param)
		if kind == MoraleDeath {
			mod += cfg.Float(config.MobDeath)
		}
		if ent == victim || CanSee(ctx, ent, victim) {
			mod *= cfg.Float(config.MofWatching)
		}
		if attacker != nil && ent.Team == attacker.Team {
			if victim.Team == attacker.Team {
				mod *= cfg.Float(config.MofTeamkill)
			} else {
				mod *= cfg.Float(config.MofEnemy)
			}
		}
		if victim.Team == domain.TeamCivilian {
			mod *= cfg.Float(config.MofCivilian)
		}
		// потери своих бьют по морали, потери врага ее поднимают
		if victim.Team == ent.Team ||
			(victim.Team == domain.TeamCivilian && ent.Team != domain.TeamAlien && ctx.SinglePlayer()) {
			mod = -mod
		}

		falloff := cfg.Float(config.MorDefault) +
			math.Pow(0.5, ent.Origin.Dist(victim.Origin)/distance)*cfg.Float(config.MorVictim)
		if attacker != nil {
			falloff += math.Pow(0.5, ent.Origin.Dist(attacker.Origin)/distance) * cfg.Float(config.MorAttacker)
		}
		mod *= falloff

		tf := cfg.Float(config.MonTeamfactor)
		if victim.Team.Valid() {
			mod *= (1 - tf) + tf*float64(lvl.NumSpawned[victim.Team]+1)/float64(lvl.NumAlive[victim.Team]+1)
		}
		if ent == victim {
			mod *= cfg.Float(config.MorPain)
		}

		newMorale := ent.Morale + int(domain.MoraleRandom(mod, ctx.Crand()))
		ent.Morale = min(max(newMorale, 0), domain.GetMorale(ent.Chr.Skill(domain.AbilityMind)))
		SendStats(ctx, ent)
	}
}

// IsMoraleEnabled - одиночная игра всегда, в сетевой - гражданские или
// по sv_enablemorale.
func IsMoraleEnabled(ctx *sim.Context, team domain.Team) bool {
	if ctx.SinglePlayer() {
		return true
	}
	return team == domain.TeamCivilian || ctx.Cfg.Int(config.SvEnableMorale) == 1
}

// MoraleBehaviour - тик морали команды в начале ее раунда.
func MoraleBehaviour(ctx *sim.Context, team domain.Team) {
	if !IsMoraleEnabled(ctx, team) {
		return
	}
	panicAt := ctx.Cfg.Float(config.MorPanic)
	log := logger.Component("morale_system")

	for ent := range ctx.Store.LivingActors(team) {
		if ent.Type != domain.TypeActor {
			continue
		}

		before := ent.State
		if !ent.State.IsPanicked() && !ent.State.IsRaged() {
			switch {
			case ent.Morale <= ctx.Cfg.Int(config.MorPanic):
				ratio := float64(ent.Morale) / panicAt
				sanity := ratio > ctx.Cfg.Float(config.MSanity)*ctx.Rand.Float64()
				if ratio > ctx.Cfg.Float(config.MRage)*ctx.Rand.Float64() {
					moralePanic(ctx, ent, sanity)
				} else {
					moraleRage(ctx, ent, sanity)
				}
			case ent.Morale <= ctx.Cfg.Int(config.MorShaken):
				// SHAKEN снимается вместе с реакцией в начале раунда
				ent.State |= domain.StateShaken
				ent.State &^= domain.StateReaction
				SendState(ctx, VisToPM(ctx, ent.VisFlags), ent)
				ctx.PlayerPrintf(ctx.PlayerOf(ent), events.PrintHUD, "%s is currently shaken.", ent.Chr.Name)
				PrintStats(ctx, "%s is shaken (entnum %d).", ent.Chr.Name, ent.Number)
			}
		} else if ent.State.IsPanicked() {
			moraleStopPanic(ctx, ent, panicAt)
		} else if ent.State.IsRaged() {
			moraleStopRage(ctx, ent, panicAt)
		}

		ActorSetMaxs(ent)

		regen := ent.Morale + int(domain.MoraleRandom(ctx.Cfg.Float(config.MorRegeneration), ctx.Crand()))
		ent.Morale = min(regen, domain.GetMorale(ent.Chr.Skill(domain.AbilityMind)))
		SendStats(ctx, ent)

		if before != ent.State {
			log.WithFields(logrus.Fields{
				"edict":  ent.Number,
				"morale": ent.Morale,
				"from":   before,
				"to":     ent.State,
			}).Debug("Morale state changed")
		}
	}
}

func moralePanic(ctx *sim.Context, ent *domain.Edict, sanity bool) {
	player := ctx.PlayerOf(ent)
	ctx.PlayerPrintf(player, events.PrintHUD, "%s panics!", ent.Chr.Name)
	PrintStats(ctx, "%s panics (entnum %d).", ent.Chr.Name, ent.Number)

	if !sanity && ent.Chr.TeamDef.Weapons {
		DropHands(ctx, ent)
	}

	// встает
	ent.State &^= domain.StateCrouched
	ActorSetMaxs(ent)

	ent.State |= domain.StatePanic
	SendState(ctx, VisToPM(ctx, ent.VisFlags), ent)
	CenterView(ctx, ent)

	// пытается отбежать от противника
	if ctx.Brain != nil {
		ctx.Brain.ActorThink(ctx, player, ent)
	}
	ent.TU = 0
}

func moraleStopPanic(ctx *sim.Context, ent *domain.Edict, panicAt float64) {
	if float64(ent.Morale)/panicAt > ctx.Cfg.Float(config.MPanicStop)*ctx.Rand.Float64() {
		ent.State &^= domain.StatePanic
		PrintStats(ctx, "%s is no longer panicked (entnum %d).", ent.Chr.Name, ent.Number)
		return
	}
	moralePanic(ctx, ent, true)
}

func moraleRage(ctx *sim.Context, ent *domain.Edict, sanity bool) {
	if sanity {
		ent.State |= domain.StateRage
		ctx.BroadcastPrintf(events.PrintHUD, "%s is on a rampage!", ent.Chr.Name)
		PrintStats(ctx, "%s is on a rampage (entnum %d).", ent.Chr.Name, ent.Number)
	} else {
		ent.State |= domain.StateInsane
		ctx.BroadcastPrintf(events.PrintHUD, "%s is consumed by mad rage!", ent.Chr.Name)
		PrintStats(ctx, "%s is consumed by mad rage (entnum %d).", ent.Chr.Name, ent.Number)
	}
	SendState(ctx, VisToPM(ctx, ent.VisFlags), ent)

	if ctx.Brain != nil {
		ctx.Brain.ActorThink(ctx, ctx.PlayerOf(ent), ent)
	}
}

func moraleStopRage(ctx *sim.Context, ent *domain.Edict, panicAt float64) {
	if float64(ent.Morale)/panicAt > ctx.Cfg.Float(config.MRageStop)*ctx.Rand.Float64() {
		ent.State &^= domain.StateInsane
		SendState(ctx, VisToPM(ctx, ent.VisFlags), ent)
		PrintStats(ctx, "%s is no longer insane (entnum %d).", ent.Chr.Name, ent.Number)
		return
	}
	// приходит в себя через панику
	moralePanic(ctx, ent, true)
}
