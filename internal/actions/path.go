package actions

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/sim"
)

// Направления в порядке номеров dir: сначала прямые, потом диагонали.
var dirs = [8][2]int{
	{1, 0}, {0, 1}, {-1, 0}, {0, -1},
	{1, 1}, {-1, 1}, {-1, -1}, {1, -1},
}

// DirTo - номер направления шага из a в соседнюю клетку b (-1, если не сосед).
func DirTo(a, b domain.GridPos) int {
	dx, dy := b.X-a.X, b.Y-a.Y
	for i, d := range dirs {
		if d[0] == dx && d[1] == dy {
			return i
		}
	}
	return -1
}

// StepCost - TU за один шаг в текущей позе.
func StepCost(ent *domain.Edict) int {
	if ent != nil && ent.State.Has(domain.StateCrouched) {
		return domain.TUMoveCrouched
	}
	return domain.TUMoveStraight
}

// Occupied - в клетке стоит живой актор, кроме skip.
func Occupied(ctx *sim.Context, pos domain.GridPos, skip *domain.Edict) bool {
	for a := range ctx.Store.LivingActors(domain.NoActiveTeam) {
		if a != skip && a.Pos == pos {
			return true
		}
	}
	return false
}

func passable(ctx *sim.Context, pos domain.GridPos, ent *domain.Edict) bool {
	return ctx.Oracle.Walkable(pos) && !Occupied(ctx, pos, ent)
}

// neighbours - проходимые соседи; диагональ не срезает углы.
func neighbours(ctx *sim.Context, from domain.GridPos, ent *domain.Edict) []domain.GridPos {
	out := make([]domain.GridPos, 0, len(dirs))
	for _, d := range dirs {
		next := from.Shift(d[0], d[1])
		if !passable(ctx, next, ent) {
			continue
		}
		if d[0] != 0 && d[1] != 0 &&
			(!ctx.Oracle.Walkable(from.Shift(d[0], 0)) || !ctx.Oracle.Walkable(from.Shift(0, d[1]))) {
			continue
		}
		out = append(out, next)
	}
	return out
}

// Reachable - клетки, до которых актор дойдет не больше чем за maxSteps
// шагов, с расстоянием в шагах. Стартовая клетка включена с нулем.
func Reachable(ctx *sim.Context, ent *domain.Edict, maxSteps int) map[domain.GridPos]int {
	dist := map[domain.GridPos]int{ent.Pos: 0}
	queue := []domain.GridPos{ent.Pos}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if dist[cur] >= maxSteps {
			continue
		}
		for _, n := range neighbours(ctx, cur, ent) {
			if _, seen := dist[n]; seen {
				continue
			}
			dist[n] = dist[cur] + 1
			queue = append(queue, n)
		}
	}
	return dist
}

// FindPath ищет кратчайший путь (без стартовой клетки) длиной не больше
// maxSteps. nil - пути нет.
func FindPath(ctx *sim.Context, ent *domain.Edict, to domain.GridPos, maxSteps int) []domain.GridPos {
	if to == ent.Pos {
		return []domain.GridPos{}
	}
	prev := map[domain.GridPos]domain.GridPos{}
	dist := map[domain.GridPos]int{ent.Pos: 0}
	queue := []domain.GridPos{ent.Pos}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			break
		}
		if dist[cur] >= maxSteps {
			continue
		}
		for _, n := range neighbours(ctx, cur, ent) {
			if _, seen := dist[n]; seen {
				continue
			}
			dist[n] = dist[cur] + 1
			prev[n] = cur
			queue = append(queue, n)
		}
	}

	if _, ok := dist[to]; !ok {
		return nil
	}
	path := make([]domain.GridPos, dist[to])
	for p, i := to, dist[to]-1; i >= 0; i-- {
		path[i] = p
		p = prev[p]
	}
	return path
}
