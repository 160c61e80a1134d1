// Package engine ведет матч: кадр, раунды, конец игры, консоль сервера
// и сервис, который владеет состоянием матча и раздает события по сети.
package engine

import (
	"battlescape-server/internal/ai"
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/edicts"
	"battlescape-server/internal/events"
	"battlescape-server/internal/filter"
	"battlescape-server/internal/grid"
	"battlescape-server/internal/sim"
	"battlescape-server/internal/systems"
	"battlescape-server/pkg/logger"
	"battlescape-server/pkg/mapgen"
	"errors"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

var (
	// ErrServerFull - все человеческие слоты (sv_maxclients) заняты.
	ErrServerFull = errors.New("server is full")
	// ErrBadTeam - команда недоступна для людей.
	ErrBadTeam = errors.New("bad team number")
	// ErrNoSpawnPoint - в зоне высадки команды не осталось места.
	ErrNoSpawnPoint = errors.New("no free spawn point")
	// ErrGameOver - матч уже закончен.
	ErrGameOver = errors.New("game is over")
)

// Phase - стадия матча.
type Phase uint8

const (
	PhaseWaiting Phase = iota
	PhaseActive
	PhaseIntermission
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseIntermission:
		return "intermission"
	case PhaseEnded:
		return "ended"
	}
	return "waiting"
}

var actorTypes = edicts.NewTypeSet(domain.TypeActor, domain.TypeActor2x2)

// MinRoundTimeLimit - нижняя граница положительного sv_roundtimelimit.
const MinRoundTimeLimit = 30

// Game - один матч. Не потокобезопасен: все методы вызываются из
// горутины Service (или из теста).
type Game struct {
	ctx     *sim.Context
	brain   *ai.Brain
	bf      *Battlefield
	cfg     Config
	filter  *filter.Filter
	results *Results
	ended   bool
	ucn     int

	log *logrus.Entry
}

// Options - коллабораторы матча. Незаданные поля получают значения по умолчанию.
type Options struct {
	Cvars    *config.Registry
	Events   events.Sink
	Console  sim.Console
	Stats    sim.StatsLog
	Rand     sim.Rand
	Scripted *ai.Scripted
	Filter   *filter.Filter
	// Battlefield - готовое поле; nil - сгенерировать от Seed.
	Battlefield *Battlefield
}

// NewGame строит поле боя, арену и (в одиночной игре) AI-противника.
func NewGame(cfg Config, opts Options) (*Game, error) {
	cvars := opts.Cvars
	if cvars == nil {
		cvars = config.New()
	}
	if opts.Rand == nil {
		opts.Rand = sim.NewRand(cfg.Seed)
	}

	bf := opts.Battlefield
	if bf == nil {
		bf = NewBattlefield(rand.New(rand.NewSource(cfg.Seed))).
			WithSize(cfg.Width, cfg.Height).
			WithTeams(playingTeams(cvars)...).
			WithDoors(cfg.DoorAutoClose).
			Build()
	}

	ctx := sim.New(cvars, sim.Options{
		Events:  opts.Events,
		Rand:    opts.Rand,
		Console: opts.Console,
		Stats:   opts.Stats,
	})
	m := grid.New(bf.Field, ctx.Store)
	ctx.Oracle = m
	ctx.Router = m

	var scripted ai.Strategy
	if opts.Scripted != nil {
		scripted = opts.Scripted
	}
	brain := ai.NewBrain(scripted)
	ctx.Brain = brain

	g := &Game{
		ctx:    ctx,
		brain:  brain,
		bf:     bf,
		cfg:    cfg,
		filter: opts.Filter,
		log:    logger.Component("game"),
	}
	if g.filter == nil {
		g.filter = filter.New()
	}
	if err := bf.Populate(ctx); err != nil {
		return nil, err
	}

	if ctx.SinglePlayer() {
		for _, team := range []domain.Team{domain.TeamAlien, domain.TeamCivilian} {
			if _, err := g.AddAIPlayer(team); err != nil {
				return nil, err
			}
		}
	}

	g.log.WithFields(logrus.Fields{
		"seed":       cfg.Seed,
		"maxclients": cvars.Int(config.SvMaxClients),
		"edicts":     ctx.Store.Count(),
	}).Info("Game created")
	return g, nil
}

// playingTeams - команды людей и AI, которым нужны зоны высадки.
func playingTeams(cvars *config.Registry) []domain.Team {
	if cvars.Int(config.SvMaxClients) < 2 {
		return []domain.Team{domain.TeamPhalanx, domain.TeamAlien}
	}
	n := min(max(cvars.Int(config.SvMaxTeams), 2), int(domain.TeamAlien)-1)
	teams := make([]domain.Team, 0, n+1)
	for t := 1; t <= n; t++ {
		teams = append(teams, domain.Team(t))
	}
	return append(teams, domain.TeamAlien)
}

func (g *Game) Context() *sim.Context          { return g.ctx }
func (g *Game) Battlefield() *Battlefield      { return g.bf }
func (g *Game) Brain() *ai.Brain               { return g.brain }
func (g *Game) Results() *Results              { return g.results }
func (g *Game) Filter() *filter.Filter         { return g.filter }
func (g *Game) Level() *domain.Level           { return g.ctx.Level }
func (g *Game) Player(num int) *domain.Player { return g.ctx.PlayerByNum(num) }

// Phase выводит стадию из состояния уровня.
func (g *Game) Phase() Phase {
	lvl := g.ctx.Level
	switch {
	case g.ended:
		return PhaseEnded
	case lvl.IntermissionTime > 0:
		return PhaseIntermission
	case lvl.Running():
		return PhaseActive
	}
	return PhaseWaiting
}

// RunFrame продвигает матч на один кадр (0.1 секунды игрового времени).
// Возвращает true в кадре, где матч закончился и разосланы результаты.
func (g *Game) RunFrame() bool {
	if g.ended {
		return false
	}
	ctx := g.ctx
	lvl := ctx.Level
	lvl.AdvanceFrame()

	if !lvl.Running() {
		if v := ctx.Cfg.MustGet(config.SvMaxTeams); v.Modified() {
			g.setConfigString(config.SvMaxTeams, v.String())
			v.ClearModified()
		}
	}

	if ctx.Multiplayer() {
		if v := ctx.Cfg.MustGet(config.SvRoundTimeLimit); v.Modified() {
			lvl.RoundStartTime = lvl.Time
			if n := v.Int(); n > 0 && n < MinRoundTimeLimit {
				ctx.Console.Printf("The minimum value for sv_roundtimelimit is %d\n", MinRoundTimeLimit)
				ctx.Cfg.SetInt(config.SvRoundTimeLimit, MinRoundTimeLimit)
			}
			v.ClearModified()
		}
		g.ForceEndRound()
	}

	if lvl.IntermissionTime > 0 && lvl.Time > lvl.IntermissionTime {
		g.EndGame(lvl.Winner)
		lvl.IntermissionTime = 0
		return true
	}

	if lvl.Running() {
		g.CheckEndGame()
	}
	g.brain.Run(ctx, g.ClientEndRound)
	systems.PhysicsRun(ctx)
	return false
}

// CheckEndGame планирует финал, когда живых команд (кроме гражданских)
// осталось меньше двух. Уже назначенный финал не переносится.
func (g *Game) CheckEndGame() {
	lvl := g.ctx.Level
	if lvl.IntermissionTime > 0 {
		return
	}

	active, last := 0, domain.TeamCivilian
	for t := 1; t < domain.MaxTeams; t++ {
		if lvl.NumAlive[t] > 0 {
			last = domain.Team(t)
			active++
		}
	}
	if active >= 2 {
		return
	}

	lvl.Winner = last
	delay := 3.0
	if last == domain.TeamAlien {
		delay = 10.0
	}
	lvl.IntermissionTime = lvl.Time + delay

	g.log.WithFields(logrus.Fields{
		"winner":       lvl.Winner,
		"intermission": lvl.IntermissionTime,
	}).Info("Game end scheduled")
}

// setConfigString обновляет серверную строку и сообщает ее всем.
func (g *Game) setConfigString(key, value string) {
	g.ctx.Level.ConfigStrings[key] = value
	g.ctx.Events.AddEvent(domain.PMAll, events.EvConfigString)
	g.ctx.Events.PutString(key)
	g.ctx.Events.PutString(value)
	g.ctx.Events.EndEvents()
}

// --- игроки ---

// Join занимает человеческий слот за командой team и высаживает отряд.
// В одиночной игре вход сразу начинает раунд этой команды, в сетевой -
// игра стартует, когда подключились все sv_maxclients.
func (g *Game) Join(name, ip string, team domain.Team) (*domain.Player, error) {
	ctx := g.ctx
	if g.ended {
		return nil, ErrGameOver
	}
	if ctx.SinglePlayer() {
		team = domain.TeamPhalanx
	} else if team < domain.TeamPhalanx || int(team) > max(ctx.Cfg.Int(config.SvMaxTeams), 2) {
		return nil, fmt.Errorf("join team %d: %w", team, ErrBadTeam)
	}

	limit := min(max(ctx.Cfg.Int(config.SvMaxClients), 1), ctx.MaxHumans())
	var p *domain.Player
	humans := 0
	for i := 0; i < ctx.MaxHumans(); i++ {
		if ctx.Players[i].InUse {
			humans++
		} else if p == nil {
			p = &ctx.Players[i]
		}
	}
	if p == nil || humans >= limit {
		return nil, ErrServerFull
	}

	*p = domain.Player{Num: p.Num, InUse: true, Name: name, Team: team, IP: ip}
	if _, err := g.spawnSquad(p, g.cfg.SquadSize); err != nil {
		p.InUse = false
		return nil, err
	}

	g.log.WithFields(logrus.Fields{
		"player": p.Num,
		"name":   name,
		"team":   team,
	}).Info("Player joined")

	g.clientSpawn(p)
	g.teamAssign()
	return p, nil
}

// clientSpawn отправляет игроку начальное состояние. В одиночной игре
// его команда сразу получает ход.
func (g *Game) clientSpawn(p *domain.Player) {
	ctx := g.ctx
	lvl := ctx.Level
	if !lvl.Running() && ctx.SinglePlayer() {
		lvl.ActiveTeam = p.Team
		lvl.RoundStartTime = lvl.Time
	}

	ctx.Events.AddEvent(domain.PlayerBit(p.Num), events.EvReset)
	ctx.Events.PutByte(int(p.Team))
	ctx.Events.PutByte(int(lvl.ActiveTeam))
	ctx.Events.EndEvents()

	systems.CheckVisTeam(ctx, p.Team, nil, false)
	for ent := range ctx.Store.All(nil) {
		if ent.Type == domain.TypeDoor {
			systems.AppearPerish(ctx, domain.PlayerBit(p.Num), true, ent)
		}
	}
	if lvl.Running() && lvl.ActiveTeam == p.Team {
		g.GiveTimeUnits(p.Team)
	} else {
		for ent := range ctx.Store.LivingActors(p.Team) {
			systems.SendStats(ctx, ent)
		}
	}

	ctx.Events.AddEvent(domain.PlayerBit(p.Num), events.EvStart)
	ctx.Events.EndEvents()
	ctx.BroadcastPrintf(events.PrintConsole, "%s has taken control over team %d.", p.Name, p.Team)
}

// Leave освобождает слот человека. Если это был его раунд, раунд
// заканчивается; без людей матч завершается через 10 секунд.
func (g *Game) Leave(num int) {
	ctx := g.ctx
	p := ctx.PlayerByNum(num)
	if p == nil || !p.InUse || p.AI {
		return
	}
	lvl := ctx.Level
	if lvl.Running() && lvl.ActiveTeam == p.Team {
		g.ClientEndRound(p)
	}
	p.InUse = false
	p.Ready = false

	if systems.HumansPM(ctx) == 0 && lvl.Running() && !g.ended {
		lvl.IntermissionTime = lvl.Time + 10
	}
	ctx.BroadcastPrintf(events.PrintConsole, "%s disconnected.", p.Name)
	g.log.WithFields(logrus.Fields{"player": num, "name": p.Name}).Info("Player left")
}

// AddAIPlayer создает AI-игрока за командой и высаживает его акторов:
// ai_numaliens для пришельцев, ai_numcivilians для гражданских,
// ai_numactors для остальных команд.
func (g *Game) AddAIPlayer(team domain.Team) (*domain.Player, error) {
	p, err := ai.CreatePlayer(g.ctx, team)
	if err != nil {
		return nil, err
	}
	var n int
	switch team {
	case domain.TeamAlien:
		n = g.ctx.Cfg.Int(config.AINumAliens)
	case domain.TeamCivilian:
		n = g.ctx.Cfg.Int(config.AINumCivilians)
	default:
		n = g.ctx.Cfg.Int(config.AINumActors)
	}
	if _, err := g.spawnSquad(p, n); err != nil && !errors.Is(err, ErrNoSpawnPoint) {
		return p, err
	}
	return p, nil
}

// spawnSquad высаживает до n акторов игрока в свободные клетки зоны его команды.
func (g *Game) spawnSquad(p *domain.Player, n int) ([]*domain.Edict, error) {
	ctx := g.ctx
	zone := g.bf.Zones[p.Team]
	if len(zone) == 0 {
		zone = g.bf.Zones[domain.TeamCivilian]
	}

	var out []*domain.Edict
	next := 0
	for i := 0; i < n; i++ {
		pos, ok := g.freeCell(zone, &next)
		if !ok {
			return out, fmt.Errorf("team %d: %w", p.Team, ErrNoSpawnPoint)
		}
		g.ucn++
		ent, err := templateFor(p.Team, i).SpawnActor(ctx, p, pos, g.ucn)
		if err != nil {
			return out, err
		}
		if p.AI && g.brain != nil && ent.AIType != "" {
			ent.AIBackend = g.backendFor()
		}
		out = append(out, ent)
	}

	g.log.WithFields(logrus.Fields{
		"player": p.Num,
		"team":   p.Team,
		"actors": len(out),
	}).Debug("Squad spawned")
	return out, nil
}

func (g *Game) backendFor() domain.AIBackend {
	if g.brain.Scripted() {
		return domain.AIScripted
	}
	return domain.AIHeuristic
}

// freeCell ищет в зоне проходимую клетку без актора, начиная с *next.
func (g *Game) freeCell(zone []mapgen.Point, next *int) (domain.GridPos, bool) {
	for ; *next < len(zone); *next++ {
		pos := domain.GridPos{X: zone[*next].X, Y: zone[*next].Y}
		if !g.ctx.Oracle.Walkable(pos) {
			continue
		}
		if g.ctx.Store.FindAtPos(pos, actorTypes) != nil {
			continue
		}
		*next++
		return pos, true
	}
	return domain.GridPos{}, false
}
