package engine

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"battlescape-server/internal/systems"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// EndRoundGuardFrames - минимальный интервал между концами раунда.
const EndRoundGuardFrames = 20

var roundWarnings = map[int]string{
	240: "4 minutes left until forced round end",
	180: "3 minutes left until forced round end",
	120: "2 minutes left until forced round end",
	60:  "1 minute left until forced round end",
	30:  "30 seconds left until forced round end",
	15:  "15 seconds left until forced round end",
}

// ForceEndRound следит за sv_roundtimelimit в сетевой игре: предупреждает
// о скором конце раунда и завершает раунд активной команды при превышении.
func (g *Game) ForceEndRound() {
	ctx := g.ctx
	lvl := ctx.Level
	limit := ctx.Cfg.Int(config.SvRoundTimeLimit)
	if limit <= 0 || ctx.SinglePlayer() || !lvl.Running() {
		return
	}
	// проверяем только на целых секундах
	if lvl.FrameNum%domain.FramesPerSec != 0 {
		return
	}

	diff := int(math.Round(lvl.RoundStartTime + float64(limit) - lvl.Time))
	if msg, ok := roundWarnings[diff]; ok {
		ctx.BroadcastPrintf(events.PrintHUD, "%s", msg)
		return
	}
	if diff > 0 {
		return
	}

	ctx.BroadcastPrintf(events.PrintHUD, "Current active team hit the max round time")
	g.log.WithFields(logrus.Fields{
		"team":  lvl.ActiveTeam,
		"limit": limit,
	}).Info("Round forced to end")

	active := lvl.ActiveTeam
	for i := 0; i < ctx.MaxHumans(); i++ {
		p := &ctx.Players[i]
		if !p.InUse || p.Team != active {
			continue
		}
		g.ClientEndRound(p)
		// следующий игрок той же команды не должен упереться в защиту
		lvl.NextEndRound = lvl.FrameNum
	}
	lvl.RoundStartTime = lvl.Time
}

// ClientEndRound - игрок заканчивает раунд своей команды. В командной игре
// раунд переходит дальше, только когда готовы все люди команды.
func (g *Game) ClientEndRound(p *domain.Player) {
	ctx := g.ctx
	lvl := ctx.Level
	if p == nil || !p.InUse || p.Team != lvl.ActiveTeam {
		return
	}
	// AI заканчивает раунд только из Brain.Run, защита нужна людям
	if !p.AI {
		if lvl.FrameNum < lvl.NextEndRound {
			return
		}
		lvl.NextEndRound = lvl.FrameNum + EndRoundGuardFrames
	}

	if !p.AI && ctx.Cfg.Bool(config.SvTeamplay) {
		if p.Ready {
			return
		}
		p.Ready = true
		for i := 0; i < ctx.MaxHumans(); i++ {
			q := &ctx.Players[i]
			if q.InUse && q.Team == p.Team && !q.Ready {
				ctx.PlayerPrintf(q, events.PrintHUD, "%s has ended the round.", p.Name)
				return
			}
		}
	}

	// видимость фиксируется до передачи хода
	systems.CheckVisTeam(ctx, lvl.ActiveTeam, nil, true)

	prev := lvl.ActiveTeam
	lvl.ActiveTeam = g.nextTeam(prev)
	lvl.ActualRound++

	ctx.Events.AddEvent(domain.PMAll, events.EvEndRound)
	ctx.Events.PutByte(int(lvl.ActiveTeam))
	ctx.Events.EndEvents()

	lvl.RoundStartTime = lvl.Time

	g.UpdateStunState(lvl.ActiveTeam)
	g.GiveTimeUnits(lvl.ActiveTeam)
	g.ResetReactionFire(lvl.ActiveTeam)
	if ctx.Cfg.Int(config.MorPanic) != 0 {
		systems.MoraleBehaviour(ctx, lvl.ActiveTeam)
	}

	for i := range ctx.Players {
		q := &ctx.Players[i]
		if q.Team == lvl.ActiveTeam {
			q.LastThink = 0
		}
		q.Ready = false
	}

	g.log.WithFields(logrus.Fields{
		"from":  prev,
		"to":    lvl.ActiveTeam,
		"round": lvl.ActualRound,
	}).Info("Round ended")
}

// nextTeam - следующая по кругу команда, у которой есть живые акторы
// (или еще не занятые точки высадки) и подключенный игрок. Если такой
// нет, ход остается у текущей.
func (g *Game) nextTeam(cur domain.Team) domain.Team {
	ctx := g.ctx
	lvl := ctx.Level
	for i := 1; i <= domain.MaxTeams; i++ {
		t := domain.Team((int(cur) + i) % domain.MaxTeams)
		if lvl.NumAlive[t] == 0 && (lvl.NumSpawnPoints[t] == 0 || lvl.NumSpawned[t] > 0) {
			continue
		}
		for j := range ctx.Players {
			if ctx.Players[j].InUse && ctx.Players[j].Team == t {
				return t
			}
		}
	}
	return cur
}

// UpdateStunState снимает по единице оглушения с каждого актора команды.
func (g *Game) UpdateStunState(team domain.Team) {
	ctx := g.ctx
	for ent := range ctx.Store.LivingActors(team) {
		if ent.STUN > 0 {
			ent.STUN--
			systems.SendStats(ctx, ent)
		}
	}
}

// GiveTimeUnits восстанавливает TU команды и снимает DAZED.
func (g *Game) GiveTimeUnits(team domain.Team) {
	ctx := g.ctx
	for ent := range ctx.Store.LivingActors(team) {
		ent.State &^= domain.StateDazed
		ent.TU = domain.GetTU(ent.Chr.Skill(domain.AbilitySpeed))
		systems.SendStats(ctx, ent)
	}
}

// ResetReactionFire снимает SHAKEN в начале раунда команды.
func (g *Game) ResetReactionFire(team domain.Team) {
	ctx := g.ctx
	for ent := range ctx.Store.LivingActors(team) {
		if !ent.State.IsShaken() {
			continue
		}
		ent.State &^= domain.StateShaken
		systems.SendState(ctx, systems.VisToPM(ctx, ent.VisFlags), ent)
	}
}

// StartGame начинает сетевую игру: случайная команда из подключенных
// получает первый раунд.
func (g *Game) StartGame() {
	ctx := g.ctx
	lvl := ctx.Level
	if lvl.Running() || ctx.SinglePlayer() || g.ended {
		return
	}

	seen := make(map[domain.Team]bool)
	var known []domain.Team
	var names []string
	for i := 0; i < ctx.MaxHumans(); i++ {
		p := &ctx.Players[i]
		if !p.InUse || p.Team <= domain.TeamCivilian {
			continue
		}
		names = append(names, p.Name)
		if !seen[p.Team] {
			seen[p.Team] = true
			known = append(known, p.Team)
		}
	}
	if len(known) == 0 {
		return
	}
	sort.Slice(known, func(i, j int) bool { return known[i] < known[j] })

	systems.PrintStats(ctx, "Starting new game: %s", strings.Join(names, ", "))

	idx := int(ctx.Rand.Float64()*float64(len(known)-1) + 0.5)
	lvl.ActiveTeam = known[idx]
	lvl.RoundStartTime = lvl.Time

	for i := 0; i < ctx.MaxHumans(); i++ {
		p := &ctx.Players[i]
		if p.InUse {
			systems.PrintStats(ctx, "Team %d: %s", p.Team, p.Name)
		}
	}
	systems.PrintStats(ctx, "Team %d got the first round", lvl.ActiveTeam)
	ctx.BroadcastPrintf(events.PrintConsole, "Team %d (%s) will get the first turn.",
		lvl.ActiveTeam, g.teamOwner(lvl.ActiveTeam))

	ctx.Events.AddEvent(domain.PMAll, events.EvEndRound)
	ctx.Events.PutByte(int(lvl.ActiveTeam))
	ctx.Events.EndEvents()
	g.GiveTimeUnits(lvl.ActiveTeam)

	g.log.WithFields(logrus.Fields{
		"team":    lvl.ActiveTeam,
		"players": len(names),
	}).Info("Game started")
}

func (g *Game) teamOwner(team domain.Team) string {
	for i := 0; i < g.ctx.MaxHumans(); i++ {
		p := &g.ctx.Players[i]
		if p.InUse && p.Team == team {
			return p.Name
		}
	}
	return ""
}

// teamAssign запускает сетевую игру, когда заняты все sv_maxclients слотов.
func (g *Game) teamAssign() {
	ctx := g.ctx
	if ctx.SinglePlayer() || ctx.Level.Running() {
		return
	}
	humans := 0
	for i := 0; i < ctx.MaxHumans(); i++ {
		if ctx.Players[i].InUse {
			humans++
		}
	}
	if humans >= ctx.Cfg.Int(config.SvMaxClients) {
		g.StartGame()
	}
}
