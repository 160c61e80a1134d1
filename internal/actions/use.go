package actions

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/sim"
	"battlescape-server/internal/systems"
	"battlescape-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// DoorUseTU - цена открытия/закрытия двери.
const DoorUseTU = 1

// ClientUse - актор использует объект, рядом с которым стоит (дверь).
func ClientUse(ctx *sim.Context, player *domain.Player, ent *domain.Edict) error {
	if err := ActionCheck(ctx, player, ent, 0); err != nil {
		return err
	}
	target := ctx.Store.InUse(ent.ClientAction)
	if ent.ClientAction == 0 || target == nil || !target.Behaviour.Kind.HasUse() {
		return refuse(ctx, player, ErrNothingToUse)
	}
	if err := ActionCheck(ctx, player, ent, DoorUseTU); err != nil {
		return err
	}

	if !systems.UseEdict(ctx, target, ent) {
		return refuse(ctx, player, ErrNothingToUse)
	}
	spendTU(ctx, ent, DoorUseTU)

	// открытая дверь могла открыть обзор всем
	systems.CheckVis(ctx, nil, true)
	systems.SendStats(ctx, ent)

	logger.Component("game").WithFields(logrus.Fields{
		"edict":  ent.Number,
		"target": target.Number,
		"open":   target.Behaviour.Door.Open,
	}).Info("Object used")
	return nil
}
