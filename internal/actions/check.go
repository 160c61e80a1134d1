// Package actions - действия актора, общие для игроков и AI: проверка
// права действовать, движение, поворот, стрельба, смена позы, использование.
package actions

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"battlescape-server/internal/sim"
	"errors"
)

// Отказы ActionCheck. Игрок получает текст отказа сообщением на HUD.
var (
	ErrNotYourRound  = errors.New("this isn't your round")
	ErrNoObject      = errors.New("object not present")
	ErrNotActor      = errors.New("not an actor")
	ErrStunned       = errors.New("actor is stunned")
	ErrDead          = errors.New("actor is dead")
	ErrNotYourTeam   = errors.New("not on same team")
	ErrNotYourActor  = errors.New("no control over allied actors")
	ErrNoTU          = errors.New("not enough TUs")
	ErrNoWeapon      = errors.New("no weapon in that hand")
	ErrNoAmmo        = errors.New("no ammo")
	ErrOutOfRange    = errors.New("target out of range")
	ErrNothingToUse  = errors.New("nothing to use")
	ErrNoPath        = errors.New("no path to target")
	ErrUnknownAction = errors.New("unknown state request")
)

// refuse печатает игроку причину отказа и возвращает ее как ошибку.
func refuse(ctx *sim.Context, player *domain.Player, err error) error {
	ctx.PlayerPrintf(player, events.PrintHUD, "Can't perform action - %s!", err)
	return err
}

// ActionCheck проверяет, может ли player действовать актором ent,
// потратив tu очков времени.
func ActionCheck(ctx *sim.Context, player *domain.Player, ent *domain.Edict, tu int) error {
	if player == nil || player.Team != ctx.Level.ActiveTeam {
		return refuse(ctx, player, ErrNotYourRound)
	}
	if ent == nil || !ent.InUse {
		return refuse(ctx, player, ErrNoObject)
	}
	if !ent.Type.IsActor() {
		return refuse(ctx, player, ErrNotActor)
	}
	if ent.State.IsStunned() {
		return refuse(ctx, player, ErrStunned)
	}
	if ent.State.IsDead() {
		return refuse(ctx, player, ErrDead)
	}
	if ent.Team != player.Team {
		return refuse(ctx, player, ErrNotYourTeam)
	}
	if ent.PNum != player.Num {
		return refuse(ctx, player, ErrNotYourActor)
	}
	if !ctx.Cfg.Bool(config.GNoTU) && tu > ent.TU {
		return refuse(ctx, player, ErrNoTU)
	}
	return nil
}

// spendTU списывает очки времени, если они не отключены g_notu.
func spendTU(ctx *sim.Context, ent *domain.Edict, tu int) {
	if ctx.Cfg.Bool(config.GNoTU) {
		return
	}
	ent.TU = max(ent.TU-tu, 0)
}
