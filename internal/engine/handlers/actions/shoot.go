package actions

import (
	act "battlescape-server/internal/actions"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/engine/handlers"
	"battlescape-server/pkg/api"
	"fmt"
)

func HandleShoot(ctx handlers.Context, p api.ShootPayload) (handlers.Result, error) {
	target := domain.GridPos{X: p.X, Y: p.Y}
	res, err := act.Shoot(ctx.Sim, ctx.Player, ctx.Actor(p.Entity), target, p.Hand, p.FireDef)
	if err != nil {
		return handlers.Result{Msg: err.Error(), MsgType: "ERROR"}, err
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("%d shots, %d hits.", res.Shots, res.Hits),
		MsgType: "INFO",
	}, nil
}
