// Package ai управляет акторами AI-игроков. У каждого актора есть свой
// "мозг" (эвристика или Lua-скрипт), выбранный при спавне.
package ai

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/sim"
	"battlescape-server/pkg/logger"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrNoFreeSlot - все AI-слоты игроков заняты.
var ErrNoFreeSlot = errors.New("no free AI player slot")

// Strategy решает, что делает актор за один вызов think. Все действия
// идут через пакет actions, как у человека.
type Strategy interface {
	Think(ctx *sim.Context, player *domain.Player, ent *domain.Edict)
}

// Brain выбирает стратегию по тегу актора. Реализует sim.Brain.
type Brain struct {
	heuristic Strategy
	scripted  Strategy
}

var _ sim.Brain = (*Brain)(nil)

// NewBrain собирает мозг. scripted может быть nil: тогда все акторы
// думают эвристикой.
func NewBrain(scripted Strategy) *Brain {
	return &Brain{heuristic: Heuristic{}, scripted: scripted}
}

// Scripted - подключены ли Lua-скрипты.
func (b *Brain) Scripted() bool { return b.scripted != nil }

// ActorThink - один think актора.
func (b *Brain) ActorThink(ctx *sim.Context, player *domain.Player, ent *domain.Edict) {
	if player == nil || !ent.IsLivingActor() {
		return
	}
	s := b.heuristic
	if ent.AIBackend == domain.AIScripted && b.scripted != nil {
		s = b.scripted
	}

	logger.Component("ai_system").WithFields(logrus.Fields{
		"edict":   ent.Number,
		"player":  player.Num,
		"backend": ent.AIBackend.String(),
		"tu":      ent.TU,
	}).Trace("Actor think")
	s.Think(ctx, player, ent)
}

// Run продвигает AI активной команды: на каждую секунду игрового времени
// каждый AI-игрок думает одним актором. Когда акторы игрока кончились,
// вызывается endRound.
func (b *Brain) Run(ctx *sim.Context, endRound func(*domain.Player)) {
	if !ctx.Level.Running() || ctx.Level.FrameNum%domain.FramesPerSec != 0 {
		return
	}
	for i := ctx.MaxHumans(); i < len(ctx.Players); i++ {
		p := &ctx.Players[i]
		if !p.InUse || !p.AI || p.Team != ctx.Level.ActiveTeam {
			continue
		}

		ent := nextActor(ctx, p)
		if ent == nil {
			p.LastThink = 0
			endRound(p)
			continue
		}
		p.LastThink = ent.Number
		b.ActorThink(ctx, p, ent)
	}
}

// nextActor - следующий живой актор игрока после LastThink.
func nextActor(ctx *sim.Context, p *domain.Player) *domain.Edict {
	for e := range ctx.Store.LivingActors(p.Team) {
		if e.PNum == p.Num && e.Number > p.LastThink {
			return e
		}
	}
	return nil
}

// CreatePlayer занимает свободный AI-слот за командой team.
func CreatePlayer(ctx *sim.Context, team domain.Team) (*domain.Player, error) {
	if !team.Valid() {
		return nil, fmt.Errorf("create AI player for team %d: bad team", team)
	}
	for i := ctx.MaxHumans(); i < len(ctx.Players); i++ {
		p := &ctx.Players[i]
		if p.InUse {
			continue
		}
		*p = domain.Player{Num: i, InUse: true, AI: true, Team: team, Name: fmt.Sprintf("ai%d", i)}

		logger.Component("ai_system").WithFields(logrus.Fields{
			"player": i,
			"team":   team,
		}).Info("AI player created")
		return p, nil
	}
	return nil, ErrNoFreeSlot
}
