package actions

import (
	"battlescape-server/internal/engine/handlers"
	"fmt"
)

// HandleInit отвечает игроку его командой и текущим раундом.
func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	lvl := ctx.Sim.Level
	return handlers.Result{
		Msg:     fmt.Sprintf("Team %d, round %d, active team %d.", ctx.Player.Team, lvl.ActualRound, lvl.ActiveTeam),
		MsgType: "INFO",
	}, nil
}
