package actions

import (
	act "battlescape-server/internal/actions"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/engine/handlers"
	"battlescape-server/pkg/api"
	"fmt"
)

func HandleMove(ctx handlers.Context, p api.MovePayload) (handlers.Result, error) {
	res, err := act.Move(ctx.Sim, ctx.Player, ctx.Actor(p.Entity), domain.GridPos{X: p.X, Y: p.Y})
	if err != nil {
		return handlers.Result{Msg: err.Error(), MsgType: "ERROR"}, err
	}
	if res.Interrupted {
		return handlers.Result{Msg: fmt.Sprintf("Movement interrupted after %d steps.", res.Steps), MsgType: "INFO"}, nil
	}
	return handlers.EmptyResult(), nil
}

func HandleTurn(ctx handlers.Context, p api.TurnPayload) (handlers.Result, error) {
	if err := act.Turn(ctx.Sim, ctx.Player, ctx.Actor(p.Entity), p.Dir); err != nil {
		return handlers.Result{Msg: err.Error(), MsgType: "ERROR"}, err
	}
	return handlers.EmptyResult(), nil
}
