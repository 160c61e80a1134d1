package systems

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"battlescape-server/internal/sim"
)

// ActorSetMaxs подгоняет высоту коробки под позу актора.
func ActorSetMaxs(ent *domain.Edict) {
	switch {
	case ent.State.IsDead():
		ent.Maxs[2] = domain.PlayerDead
	case ent.State.Has(domain.StateCrouched):
		ent.Maxs[2] = domain.PlayerCrouch
	default:
		ent.Maxs[2] = domain.PlayerStand
	}
}

// CenterView просит клиентов, видящих актора, навести камеру на него.
func CenterView(ctx *sim.Context, ent *domain.Edict) {
	ctx.Events.AddEvent(VisToPM(ctx, ent.VisFlags), events.EvCenterView)
	ctx.Events.PutPos(ent.Pos)
	ctx.Events.EndEvents()
}
