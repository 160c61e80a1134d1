package systems

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"battlescape-server/internal/sim"
	"battlescape-server/pkg/logger"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Think вызывает think-колбэк эдикта по тегу поведения.
// Эдикт без think здесь оказаться не может: это порча состояния.
func Think(ctx *sim.Context, ent *domain.Edict) {
	switch ent.Behaviour.Kind {
	case domain.BehaviourDoor:
		doorThink(ctx, ent)
	case domain.BehaviourTimedStep:
		stepThink(ctx, ent)
	default:
		panic(fmt.Sprintf("systems: edict %d (%s) scheduled to think without a think behaviour",
			ent.Number, ent.Type))
	}
}

// Use - use-колбэк. false, если эдикт не реагирует.
func Use(ctx *sim.Context, ent, activator *domain.Edict) bool {
	switch ent.Behaviour.Kind {
	case domain.BehaviourDoor:
		return doorUse(ctx, ent)
	case domain.BehaviourTrigger:
		return triggerUse(ctx, ent, activator)
	}
	return false
}

// Touch - touch-колбэк self при касании activator.
func Touch(ctx *sim.Context, self, activator *domain.Edict) bool {
	switch self.Behaviour.Kind {
	case domain.BehaviourTrigger:
		return triggerTouch(ctx, self, activator)
	case domain.BehaviourDoor:
		return doorTouch(self, activator)
	}
	return false
}

// Reset - activator покинул объем self.
func Reset(ctx *sim.Context, self, activator *domain.Edict) {
	if self.Behaviour.Kind != domain.BehaviourTrigger {
		return
	}
	self.Behaviour.Trigger.Resets++
	if activator.ClientAction != 0 && activator.ClientAction == self.Behaviour.Trigger.Owner {
		activator.ClientAction = 0
	}
}

// --- Door ---

func doorUse(ctx *sim.Context, door *domain.Edict) bool {
	d := &door.Behaviour.Door
	d.Open = !d.Open

	kind := events.EvDoorClose
	door.Origin = door.Pos.ToWorld()
	door.NextThink = 0
	if d.Open {
		kind = events.EvDoorOpen
		door.Origin = door.Origin.Add(d.Offset)
		if d.AutoClose > 0 {
			door.NextThink = ctx.Level.Time + d.AutoClose
		}
	}

	ctx.Events.AddEvent(domain.PMAll, kind)
	ctx.Events.PutShort(door.Number)
	ctx.Events.EndEvents()

	RecalcRouting(ctx, door)

	logger.Component("trigger_system").WithFields(logrus.Fields{
		"door": door.Number,
		"open": d.Open,
	}).Debug("Door toggled")
	return true
}

// doorThink закрывает дверь по таймеру, если в проеме никто не стоит.
func doorThink(ctx *sim.Context, door *domain.Edict) {
	d := &door.Behaviour.Door
	if !d.Open {
		door.NextThink = 0
		return
	}
	for a := range ctx.Store.Actors() {
		if a.Pos == door.Pos {
			door.NextThink = ctx.Level.Time + d.AutoClose
			return
		}
	}
	doorUse(ctx, door)
}

// doorTouch дает стоящему рядом актору право открыть дверь.
func doorTouch(door, activator *domain.Edict) bool {
	if !activator.Type.IsActor() {
		return false
	}
	activator.ClientAction = door.Number
	return true
}

// --- Trigger volume ---

func triggerTouch(ctx *sim.Context, trig, activator *domain.Edict) bool {
	tv := &trig.Behaviour.Trigger
	if tv.OneShot && trig.HasTouched(activator.Number) {
		return false
	}
	tv.Fired++

	if owner := ctx.Store.InUse(tv.Owner); tv.Owner != 0 && owner != nil && owner.Type == domain.TypeDoor {
		activator.ClientAction = owner.Number
	}
	if trig.Target != "" {
		triggerUse(ctx, trig, activator)
	}
	return true
}

// triggerUse использует цель триггера по имени.
func triggerUse(ctx *sim.Context, trig, activator *domain.Edict) bool {
	target := ctx.Store.FindByTargetName(trig.Target)
	if target == nil {
		ctx.Console.Printf("trigger %d: target %q not found\n", trig.Number, trig.Target)
		return false
	}
	if target == trig {
		return false
	}
	return UseEdict(ctx, target, activator)
}

// --- Timed step ---

// stepThink проигрывает один отложенный шаг: движение и звук шагов.
func stepThink(ctx *sim.Context, ent *domain.Edict) {
	step := &ent.Behaviour.Step
	if !step.Pending() {
		ent.Behaviour.Kind = domain.BehaviourNone
		ent.Behaviour.Step = domain.TimedStep{}
		ent.NextThink = 0
		return
	}

	pos := step.Steps[step.Cursor]
	step.Cursor++
	mask := VisToPM(ctx, ent.VisFlags) | TeamToPM(ctx, ent.Team)

	ctx.Events.AddEvent(mask, events.EvActorMove)
	ctx.Events.PutShort(ent.Number)
	ctx.Events.PutPos(pos)

	if snd, ok := ctx.Oracle.FootstepSoundFor(ctx.Oracle.SurfaceAt(pos)); ok {
		step.Sound = snd
		ctx.Events.AddEvent(mask, events.EvSound)
		ctx.Events.PutShort(ent.Number)
		ctx.Events.PutString(snd)
	}
	ctx.Events.EndEvents()
}
