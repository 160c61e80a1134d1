package systems

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"battlescape-server/internal/sim"
	"battlescape-server/pkg/logger"
	"fmt"

	"github.com/sirupsen/logrus"
)

// SendStats зажимает параметры актора и отправляет их владельцам.
func SendStats(ctx *sim.Context, ent *domain.Edict) {
	ent.ClampStats()

	ctx.Events.AddEvent(TeamToPM(ctx, ent.Team), events.EvActorStats)
	ctx.Events.PutShort(ent.Number)
	ctx.Events.PutByte(ent.TU)
	ctx.Events.PutShort(ent.HP)
	ctx.Events.PutByte(ent.STUN)
	ctx.Events.PutByte(ent.Morale)
	ctx.Events.EndEvents()
}

// SendState рассылает состояние: своей команде целиком, остальным из
// mask - только публичные биты.
func SendState(ctx *sim.Context, mask domain.PlayerMask, ent *domain.Edict) {
	own := TeamToPM(ctx, ent.Team)

	ctx.Events.AddEvent(mask&own, events.EvActorStateChange)
	ctx.Events.PutShort(ent.Number)
	ctx.Events.PutShort(int(ent.State))

	ctx.Events.AddEvent(mask&^own, events.EvActorStateChange)
	ctx.Events.PutShort(ent.Number)
	ctx.Events.PutShort(int(ent.State & domain.StatePublic))
	ctx.Events.EndEvents()
}

// PrintStats пишет строку [STATS] в консоль и, если включен logstats,
// в журнал статистики. Отметку времени ставит журнал.
func PrintStats(ctx *sim.Context, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	ctx.Console.Printf("[STATS] %s\n", msg)

	if ctx.Stats == nil || !ctx.Cfg.Bool(config.LogStats) {
		return
	}
	if err := ctx.Stats.Append(msg); err != nil {
		logger.Component("combat_system").WithError(err).Warn("Failed to append stats line")
	}
}

// PrintActorStats печатает сетевую статистику убийства или оглушения.
// Нужна только в мультиплеере.
func PrintActorStats(ctx *sim.Context, victim, attacker *domain.Edict, fd *domain.FireDef) {
	verb := "stunned"
	if victim.HP == 0 {
		verb = "killed"
	}

	if attacker == nil || !attacker.Type.IsActor() {
		PrintStats(ctx, "%s (%s) was %s (entnum: %d).",
			victim.Chr.Name, ownerName(ctx, victim), verb, victim.Number)
		return
	}

	weapon := weaponName(attacker, fd)
	switch {
	case victim.PNum == attacker.PNum:
		PrintStats(ctx, "%s %s %s (own team) with %s of %s (entnum: %d).",
			attacker.Chr.Name, verb, victim.Chr.Name, weapon.fire, weapon.item, victim.Number)
	case victim.Team == attacker.Team:
		PrintStats(ctx, "%s (%s) %s %s (%s) (teamkill) with %s of %s (entnum: %d).",
			attacker.Chr.Name, ownerName(ctx, attacker), verb,
			victim.Chr.Name, ownerName(ctx, victim), weapon.fire, weapon.item, victim.Number)
	default:
		PrintStats(ctx, "%s (%s) %s %s (%s) with %s of %s (entnum: %d).",
			attacker.Chr.Name, ownerName(ctx, attacker), verb,
			victim.Chr.Name, ownerName(ctx, victim), weapon.fire, weapon.item, victim.Number)
	}

	logger.Component("combat_system").WithFields(logrus.Fields{
		"victim":   victim.Number,
		"attacker": attacker.Number,
		"verb":     verb,
	}).Debug("Actor stats printed")
}

// ownerName - имя игрока или название стороны для AI-команд.
func ownerName(ctx *sim.Context, ent *domain.Edict) string {
	if name := ctx.PlayerName(ent.PNum); name != "" {
		return name
	}
	switch ent.Team {
	case domain.TeamCivilian:
		return "civilian"
	case domain.TeamAlien:
		return "alien"
	}
	return "unknown"
}

type weaponLabel struct{ item, fire string }

// weaponName ищет в руках предмет с огневым режимом fd.
func weaponName(ent *domain.Edict, fd *domain.FireDef) weaponLabel {
	if fd == nil {
		return weaponLabel{item: "nothing", fire: "bare hands"}
	}
	for _, it := range []*domain.Item{ent.Inv.Right, ent.Inv.Left} {
		if it == nil {
			continue
		}
		for i := range it.FireDefs {
			if it.FireDefs[i].Name == fd.Name {
				return weaponLabel{item: it.Name, fire: fd.Name}
			}
		}
	}
	return weaponLabel{item: "unknown", fire: fd.Name}
}
