// Package systems - правила поля боя поверх sim.Context: урон, мораль,
// видимость, триггеры и физика кадра.
package systems

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/sim"
)

// TeamToPM - маска подключенных людей команды team.
// AI-слоты событий не получают.
func TeamToPM(ctx *sim.Context, team domain.Team) domain.PlayerMask {
	var mask domain.PlayerMask
	for i := 0; i < ctx.MaxHumans(); i++ {
		p := &ctx.Players[i]
		if p.InUse && p.Team == team {
			mask |= domain.PlayerBit(i)
		}
	}
	return mask
}

// VisToPM - маска людей, чьи команды отмечены в битах видимости vis.
func VisToPM(ctx *sim.Context, vis uint32) domain.PlayerMask {
	var mask domain.PlayerMask
	for i := 0; i < ctx.MaxHumans(); i++ {
		p := &ctx.Players[i]
		if p.InUse && vis&p.Team.Bit() != 0 {
			mask |= domain.PlayerBit(i)
		}
	}
	return mask
}

// HumansPM - маска всех подключенных людей.
func HumansPM(ctx *sim.Context) domain.PlayerMask {
	var mask domain.PlayerMask
	for i := 0; i < ctx.MaxHumans(); i++ {
		if ctx.Players[i].InUse {
			mask |= domain.PlayerBit(i)
		}
	}
	return mask
}
