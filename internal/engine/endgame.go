package engine

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"battlescape-server/internal/systems"

	"github.com/sirupsen/logrus"
)

// EndGame завершает матч победой team: опыт защитников, при победе
// пришельцев - гибель выживших защитников и гражданских, полное
// раскрытие карты и рассылка EV_RESULTS.
func (g *Game) EndGame(team domain.Team) {
	if g.ended {
		return
	}
	ctx := g.ctx
	lvl := ctx.Level

	systems.PrintStats(ctx, "End of game - Team %d is the winner", team)

	for ent := range ctx.Store.LivingActors(domain.TeamPhalanx) {
		systems.UpdateCharacterSkills(ent)
	}

	if team == domain.TeamAlien {
		lvl.NumAlive[domain.TeamPhalanx] = 0
		for ent := range ctx.Store.LivingActors(domain.TeamPhalanx) {
			g.killOutright(ent)
			lvl.NumKills[team][domain.TeamPhalanx]++
		}
		for ent := range ctx.Store.LivingActors(domain.TeamCivilian) {
			g.killOutright(ent)
		}
		lvl.NumKills[team][domain.TeamCivilian] += lvl.NumAlive[domain.TeamCivilian]
		lvl.NumAlive[domain.TeamCivilian] = 0
	}

	systems.RevealAll(ctx)

	g.results = g.collectResults(team)
	ctx.Events.AddEvent(domain.PMAll, events.EvResults)
	g.results.put(ctx.Events)
	ctx.Events.EndEvents()

	lvl.Winner = team
	g.ended = true

	g.log.WithFields(logrus.Fields{
		"winner":    team,
		"round":     lvl.ActualRound,
		"survivors": len(g.results.Survivors),
	}).Info("Game ended")
}

func (g *Game) killOutright(ent *domain.Edict) {
	ent.State = domain.StateDead
	ent.HP = 0
	g.ctx.Events.AddEvent(domain.PMAll, events.EvActorStateChange)
	g.ctx.Events.PutShort(ent.Number)
	g.ctx.Events.PutShort(int(domain.StateDead))
	g.ctx.Events.EndEvents()
}

// Ended - матч закончен и итоги разосланы.
func (g *Game) Ended() bool { return g.ended }
