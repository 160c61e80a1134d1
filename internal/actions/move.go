package actions

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"battlescape-server/internal/sim"
	"battlescape-server/internal/systems"
	"battlescape-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// MoveResult - итог движения.
type MoveResult struct {
	Steps int
	// Interrupted - движение остановлено: команда увидела новое.
	Interrupted bool
}

// Move ведет актора к клетке to, пока хватает TU. Позиция меняется сразу,
// клиентам шаги проигрываются по одному через TimedStep.
func Move(ctx *sim.Context, player *domain.Player, ent *domain.Edict, to domain.GridPos) (MoveResult, error) {
	cost := StepCost(ent)
	if err := ActionCheck(ctx, player, ent, cost); err != nil {
		return MoveResult{}, err
	}

	budget := 64
	if cost > 0 && !ctx.Cfg.Bool(config.GNoTU) {
		budget = ent.TU / cost
	}
	path := FindPath(ctx, ent, to, budget)
	if path == nil {
		return MoveResult{}, refuse(ctx, player, ErrNoPath)
	}

	log := logger.Component("game").WithFields(logrus.Fields{
		"edict": ent.Number,
		"from":  ent.Pos,
		"to":    to,
	})

	var res MoveResult
	var walked []domain.GridPos
	for _, next := range path {
		if !ctx.Cfg.Bool(config.GNoTU) && ent.TU < cost {
			break
		}
		// путь мог перекрыться за время хода (дверь, упавший актор)
		if !passable(ctx, next, ent) {
			break
		}

		ent.Dir = DirTo(ent.Pos, next)
		spendTU(ctx, ent, cost)
		ent.ClientAction = 0
		ent.SetPos(next)
		walked = append(walked, next)
		res.Steps++

		if m := ent.Chr.Mission; m != nil {
			if ent.State.Has(domain.StateCrouched) {
				m.MovedCrouched++
			} else {
				m.MovedNormal++
			}
		}

		systems.TouchTriggers(ctx, ent)
		systems.TouchSolids(ctx, ent, domain.UnitSize/2)
		if !ent.IsLivingActor() {
			break
		}

		systems.CheckVis(ctx, ent, true)
		if systems.CheckVisTeam(ctx, ent.Team, nil, false)&systems.VisStop != 0 {
			res.Interrupted = true
			break
		}
	}

	if len(walked) > 0 {
		switch ent.Behaviour.Kind {
		case domain.BehaviourNone:
			ent.Behaviour.Kind = domain.BehaviourTimedStep
			ent.Behaviour.Step = domain.TimedStep{Steps: walked}
			ent.NextThink = ctx.Level.Time + domain.FrameTime
		case domain.BehaviourTimedStep:
			// прошлые шаги еще проигрываются: новые встают в конец очереди
			ent.Behaviour.Step.Steps = append(ent.Behaviour.Step.Steps, walked...)
			if ent.NextThink <= 0 {
				ent.NextThink = ctx.Level.Time + domain.FrameTime
			}
		}
	}
	systems.SendStats(ctx, ent)

	log.WithFields(logrus.Fields{
		"steps":       res.Steps,
		"interrupted": res.Interrupted,
		"tu":          ent.TU,
	}).Debug("Actor moved")
	return res, nil
}

// Turn поворачивает актора в направлении dir.
func Turn(ctx *sim.Context, player *domain.Player, ent *domain.Edict, dir int) error {
	if err := ActionCheck(ctx, player, ent, domain.TUTurn); err != nil {
		return err
	}
	if dir < 0 || dir >= len(dirs) || dir == ent.Dir {
		return nil
	}
	ent.Dir = dir
	spendTU(ctx, ent, domain.TUTurn)

	ctx.Events.AddEvent(systems.VisToPM(ctx, ent.VisFlags), events.EvActorTurn)
	ctx.Events.PutShort(ent.Number)
	ctx.Events.PutByte(dir)
	ctx.Events.EndEvents()

	systems.CheckVis(ctx, ent, true)
	systems.CheckVisTeam(ctx, ent.Team, nil, false)
	systems.SendStats(ctx, ent)
	return nil
}
