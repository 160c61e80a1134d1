package actions

import (
	act "battlescape-server/internal/actions"
	"battlescape-server/internal/engine/handlers"
	"battlescape-server/pkg/api"
	"fmt"
)

func HandleState(ctx handlers.Context, p api.StatePayload) (handlers.Result, error) {
	req, ok := act.ParseStateRequest(p.State)
	if !ok {
		return handlers.Result{}, fmt.Errorf("state %q: %w", p.State, act.ErrUnknownAction)
	}
	if err := act.ClientStateChange(ctx.Sim, ctx.Player, ctx.Actor(p.Entity), req); err != nil {
		return handlers.Result{Msg: err.Error(), MsgType: "ERROR"}, err
	}
	return handlers.EmptyResult(), nil
}
