package systems

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/sim"
	"battlescape-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// PhysicsRun раз в секунду вызывает think у эдиктов, чье время пришло.
// Вне активного раунда ничего не делает.
func PhysicsRun(ctx *sim.Context) {
	lvl := ctx.Level
	if !lvl.Running() || lvl.FrameNum%domain.FramesPerSec != 0 {
		return
	}

	thinks := 0
	for ent := range ctx.Store.All(nil) {
		if ent.NextThink <= 0 || ent.NextThink > lvl.Time+0.001 {
			continue
		}
		ent.NextThink = lvl.Time + domain.FrameTime
		Think(ctx, ent)
		thinks++
	}

	if thinks > 0 {
		logger.Component("physics_system").WithFields(logrus.Fields{
			"frame":  lvl.FrameNum,
			"thinks": thinks,
		}).Trace("Physics step")
	}
}
