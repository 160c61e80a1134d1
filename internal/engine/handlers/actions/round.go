package actions

import (
	act "battlescape-server/internal/actions"
	"battlescape-server/internal/engine/handlers"
)

// HandleEndRound - игрок передает ход. Чужой раунд - ошибка, но
// без сообщения на HUD: клиент мог просто опоздать.
func HandleEndRound(ctx handlers.Context) (handlers.Result, error) {
	if ctx.Player.Team != ctx.Sim.Level.ActiveTeam {
		return handlers.Result{}, act.ErrNotYourRound
	}
	ctx.EndRound(ctx.Player)
	return handlers.EmptyResult(), nil
}
