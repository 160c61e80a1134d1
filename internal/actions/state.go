package actions

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"battlescape-server/internal/sim"
	"battlescape-server/internal/systems"
	"battlescape-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// StateRequest - запрос смены состояния от клиента.
type StateRequest int

const (
	ReqCrouch StateRequest = iota + 1
	ReqReactionOff
	ReqReactionMany
	ReqReactionOnce
)

func (r StateRequest) String() string {
	switch r {
	case ReqCrouch:
		return "crouch"
	case ReqReactionOff:
		return "reaction_off"
	case ReqReactionMany:
		return "reaction_many"
	case ReqReactionOnce:
		return "reaction_once"
	}
	return "unknown"
}

// ParseStateRequest переводит имя запроса из протокола.
func ParseStateRequest(name string) (StateRequest, bool) {
	for r := ReqCrouch; r <= ReqReactionOnce; r++ {
		if r.String() == name {
			return r, true
		}
	}
	return 0, false
}

// ClientStateChange меняет позу или режим реакции актора.
func ClientStateChange(ctx *sim.Context, player *domain.Player, ent *domain.Edict, req StateRequest) error {
	switch req {
	case ReqCrouch:
		if err := ActionCheck(ctx, player, ent, domain.TUCrouch); err != nil {
			return err
		}
		ent.State ^= domain.StateCrouched
		spendTU(ctx, ent, domain.TUCrouch)
		systems.ActorSetMaxs(ent)
		systems.CheckVis(ctx, ent, true)

	case ReqReactionOff:
		if err := ActionCheck(ctx, player, ent, 0); err != nil {
			return err
		}
		if ent.State.IsShaken() {
			ctx.PlayerPrintf(player, events.PrintHUD, "Currently shaken, won't let their guard down.")
			return nil
		}
		ent.State &^= domain.StateReaction

	case ReqReactionMany, ReqReactionOnce:
		if err := ActionCheck(ctx, player, ent, 0); err != nil {
			return err
		}
		ent.State &^= domain.StateReaction
		if req == ReqReactionMany {
			ent.State |= domain.StateReactionMany
		} else {
			ent.State |= domain.StateReactionOnce
		}

	default:
		return refuse(ctx, player, ErrUnknownAction)
	}

	systems.SendState(ctx, systems.VisToPM(ctx, ent.VisFlags)|systems.TeamToPM(ctx, ent.Team), ent)
	systems.SendStats(ctx, ent)

	logger.Component("game").WithFields(logrus.Fields{
		"edict":   ent.Number,
		"request": req.String(),
		"state":   ent.State,
	}).Debug("Actor state changed")
	return nil
}
