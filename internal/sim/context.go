// Package sim собирает все изменяемое состояние одного матча в явный
// Context, который передается во все системы.
package sim

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/edicts"
	"battlescape-server/internal/events"
	"fmt"
)

// Brain - AI, к которому обращается мораль (паника и ярость двигают актора).
// Реализуется пакетом ai и подставляется движком.
type Brain interface {
	ActorThink(ctx *Context, player *domain.Player, ent *domain.Edict)
}

// Context - состояние матча. Один писатель: горутина движка.
// Создается при инициализации матча и не переживает его.
type Context struct {
	Cfg     *config.Registry
	Store   *edicts.Store
	Players [domain.MaxPlayers]domain.Player
	Level   *domain.Level

	Events  events.Sink
	Oracle  Oracle
	Router  Router
	Rand    Rand
	Console Console
	Stats   StatsLog
	Brain   Brain
}

// Options - коллабораторы, которые нельзя вывести из конфигурации.
type Options struct {
	Events  events.Sink
	Oracle  Oracle
	Router  Router
	Rand    Rand
	Console Console
	Stats   StatsLog
}

// New создает контекст с ареной размера sv_maxentities.
func New(cfg *config.Registry, opts Options) *Context {
	ctx := &Context{
		Cfg:     cfg,
		Store:   edicts.NewStore(cfg.Int(config.SvMaxEntities)),
		Level:   domain.NewLevel(),
		Events:  opts.Events,
		Oracle:  opts.Oracle,
		Router:  opts.Router,
		Rand:    opts.Rand,
		Console: opts.Console,
		Stats:   opts.Stats,
	}
	if ctx.Events == nil {
		ctx.Events = events.NewBuffer()
	}
	if ctx.Oracle == nil {
		ctx.Oracle = OpenField{}
	}
	if ctx.Rand == nil {
		ctx.Rand = NewRand(1)
	}
	if ctx.Router == nil {
		ctx.Router = NopRouter{}
	}
	if ctx.Console == nil {
		ctx.Console = NewLogConsole()
	}
	for i := range ctx.Players {
		ctx.Players[i].Num = i
	}
	return ctx
}

// --- удобные срезы конфигурации ---

// Multiplayer истинно при sv_maxclients >= 2.
func (c *Context) Multiplayer() bool { return c.Cfg.Int(config.SvMaxClients) >= 2 }

// SinglePlayer - противоположность Multiplayer.
func (c *Context) SinglePlayer() bool { return !c.Multiplayer() }

// MaxHumans - количество слотов под людей; остальные слоты занимает AI.
func (c *Context) MaxHumans() int { return domain.MaxPlayers / 2 }

// PlayerByNum возвращает слот игрока или nil для неверного номера.
func (c *Context) PlayerByNum(num int) *domain.Player {
	if num < 0 || num >= len(c.Players) {
		return nil
	}
	return &c.Players[num]
}

// PlayerOf возвращает игрока-владельца эдикта.
func (c *Context) PlayerOf(ent *domain.Edict) *domain.Player {
	return c.PlayerByNum(ent.PNum)
}

// PlayerName - имя игрока для статистики; AI-слоты безымянны.
func (c *Context) PlayerName(num int) string {
	if num < 0 || num >= c.MaxHumans() {
		return ""
	}
	return c.Players[num].Name
}

// Crand - равномерное случайное в [-1, 1).
func (c *Context) Crand() float64 { return 2*c.Rand.Float64() - 1 }

// --- вывод ---

// PlayerPrintf отправляет сообщение одному игроку событием EV_PRINT.
func (c *Context) PlayerPrintf(p *domain.Player, level events.PrintLevel, format string, args ...any) {
	if p == nil || !p.InUse {
		return
	}
	c.print(domain.PlayerBit(p.Num), level, fmt.Sprintf(format, args...))
}

// BroadcastPrintf отправляет сообщение всем подключенным игрокам.
func (c *Context) BroadcastPrintf(level events.PrintLevel, format string, args ...any) {
	var mask domain.PlayerMask
	for i := range c.Players {
		if c.Players[i].InUse {
			mask |= domain.PlayerBit(i)
		}
	}
	c.print(mask, level, fmt.Sprintf(format, args...))
}

func (c *Context) print(mask domain.PlayerMask, level events.PrintLevel, msg string) {
	c.Console.Printf("%s\n", msg)
	if mask == 0 {
		return
	}
	c.Events.AddEvent(mask, events.EvPrint)
	c.Events.PutByte(int(level))
	c.Events.PutString(msg)
	c.Events.EndEvents()
}
