package actions

import (
	act "battlescape-server/internal/actions"
	"battlescape-server/internal/engine/handlers"
	"battlescape-server/pkg/api"
)

func HandleUse(ctx handlers.Context, p api.EntityPayload) (handlers.Result, error) {
	if err := act.ClientUse(ctx.Sim, ctx.Player, ctx.Actor(p.Entity)); err != nil {
		return handlers.Result{Msg: err.Error(), MsgType: "ERROR"}, err
	}
	return handlers.EmptyResult(), nil
}
