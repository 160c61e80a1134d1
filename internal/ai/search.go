package ai

import (
	"battlescape-server/internal/actions"
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/sim"
	"battlescape-server/internal/systems"
	"cmp"
	"slices"
)

// Threatens - должен ли hider прятаться от other.
// Гражданские прячутся только от пришельцев, остальные - от всех чужих
// боеспособных команд.
func Threatens(hider, other *domain.Edict) bool {
	if !other.IsLivingActor() || other.Team == hider.Team {
		return false
	}
	if hider.Team == domain.TeamCivilian {
		return other.Team == domain.TeamAlien
	}
	return other.Team != domain.TeamCivilian
}

// eyeAt - точка глаз актора, если бы он стоял в клетке p.
func eyeAt(ent *domain.Edict, p domain.GridPos) domain.Vec3 {
	return systems.Eye(ent).Sub(ent.Origin).Add(p.ToWorld())
}

// exposed - из клетки p актора видит хотя бы один угрожающий ему актор.
func exposed(ctx *sim.Context, ent *domain.Edict, p domain.GridPos) bool {
	eye := eyeAt(ent, p)
	for o := range ctx.Store.LivingActors(domain.NoActiveTeam) {
		if !Threatens(ent, o) {
			continue
		}
		from := systems.Eye(o)
		if from.Dist(eye) > systems.MaxSpotDist {
			continue
		}
		if o.Pos == p || !ctx.Oracle.TestLine(from, eye) {
			return true
		}
	}
	return false
}

// candidate - клетка с числом шагов до нее.
type candidate struct {
	pos   domain.GridPos
	steps int
}

// reachableSorted - достижимые за tu клетки в детерминированном порядке:
// по шагам, потом по Y и X.
func reachableSorted(ctx *sim.Context, ent *domain.Edict, tu int) []candidate {
	steps := 64
	if !ctx.Cfg.Bool(config.GNoTU) {
		steps = max(tu, 0) / actions.StepCost(ent)
	}
	dist := actions.Reachable(ctx, ent, steps)
	out := make([]candidate, 0, len(dist))
	for p, d := range dist {
		out = append(out, candidate{pos: p, steps: d})
	}
	slices.SortFunc(out, func(a, b candidate) int {
		return cmp.Or(
			cmp.Compare(a.steps, b.steps),
			cmp.Compare(a.pos.Y, b.pos.Y),
			cmp.Compare(a.pos.X, b.pos.X),
		)
	})
	return out
}

// FindHidingLocation ищет ближайшую клетку в пределах tuLeft, которую не
// видит ни один угрожающий актор. Текущая клетка тоже подходит.
func FindHidingLocation(ctx *sim.Context, ent *domain.Edict, tuLeft int) (domain.GridPos, bool) {
	for _, c := range reachableSorted(ctx, ent, tuLeft) {
		if !exposed(ctx, ent, c.pos) {
			return c.pos, true
		}
	}
	return domain.GridPos{}, false
}

// FindHerdLocation ищет достижимую за tu клетку, ближайшую к target.
// Не найдено, если ни одна клетка не ближе текущей.
func FindHerdLocation(ctx *sim.Context, ent *domain.Edict, target domain.Vec3, tu int) (domain.GridPos, bool) {
	best := ent.Pos
	bestDist := ent.Origin.Dist(target)
	for _, c := range reachableSorted(ctx, ent, tu) {
		if d := c.pos.ToWorld().Dist(target); d < bestDist {
			best, bestDist = c.pos, d
		}
	}
	return best, best != ent.Pos
}
