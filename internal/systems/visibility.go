package systems

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"battlescape-server/internal/sim"
	"battlescape-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// MaxSpotDist - дальше этого в мировых единицах никто ничего не видит.
const MaxSpotDist = 4096.0

// Высота глаз над центром клетки.
const (
	EyeStand  = 15.0
	EyeCrouch = 3.0
)

// Результат TestVis.
const (
	visChange = 1 << iota
	visYes
)

// Статус CheckVis*.
const (
	VisAppear = 1 << iota
	VisStop
	VisPerish
)

// Контейнеры инвентаря в EV_INV_ADD.
const (
	ContainerRight = iota
	ContainerLeft
	ContainerArmour
	ContainerBackpack
)

// Eye - точка глаз актора.
func Eye(ent *domain.Edict) domain.Vec3 {
	z := EyeStand
	if ent.State.Has(domain.StateCrouched) {
		z = EyeCrouch
	}
	return ent.Origin.Add(domain.Vec3{0, 0, z})
}

// Vis проверяет, видит ли from (живой актор команды team) эдикт check.
func Vis(ctx *sim.Context, team domain.Team, from, check *domain.Edict) bool {
	if !from.InUse || !check.InUse || !from.IsLivingActor() || from.Team != team {
		return false
	}
	// живые своих видят всегда
	if check.Team == team && check.IsLivingActor() {
		return true
	}
	if from.Pos == check.Pos {
		return true
	}
	if from.Origin.Dist(check.Origin) > MaxSpotDist {
		return false
	}

	switch {
	case check.Type.IsActor():
		return !ctx.Oracle.TestLine(Eye(from), Eye(check))
	case check.Type == domain.TypeFloor:
		return !ctx.Oracle.TestLine(Eye(from), check.Origin)
	}
	return false
}

// CanSee - видит ли конкретный актор check (для морали и AI).
func CanSee(ctx *sim.Context, from, check *domain.Edict) bool {
	return Vis(ctx, from.Team, from, check)
}

// testVis возвращает visYes/visChange для команды team.
// Без perish однажды увиденный эдикт остается видимым.
func testVis(ctx *sim.Context, team domain.Team, check *domain.Edict, perish bool) int {
	old := 0
	if check.VisFlags&team.Bit() != 0 {
		old = visChange
	}
	if ctx.Cfg.Bool(config.GAIDebug) {
		return visYes | (old ^ visChange)
	}
	if !perish && old != 0 {
		return visYes
	}
	for from := range ctx.Store.LivingActors(team) {
		if Vis(ctx, team, from, check) {
			return visYes | (old ^ visChange)
		}
	}
	return old
}

// CheckVisTeam обновляет бит видимости команды team для check (или для
// всех видимых эдиктов, если check == nil) и шлет appear/perish.
func CheckVisTeam(ctx *sim.Context, team domain.Team, check *domain.Edict, perish bool) int {
	if check != nil {
		return checkVisOne(ctx, team, check, perish)
	}
	status := 0
	for e := range ctx.Store.All(visibleType) {
		status |= checkVisOne(ctx, team, e, perish)
	}
	return status
}

func visibleType(e *domain.Edict) bool {
	return e.Type.IsActor() || e.Type == domain.TypeFloor
}

func checkVisOne(ctx *sim.Context, team domain.Team, check *domain.Edict, perish bool) int {
	if !check.InUse {
		return 0
	}
	vis := testVis(ctx, team, check, perish)
	if vis&visChange == 0 {
		return 0
	}

	check.VisFlags ^= team.Bit()
	appear := vis&visYes != 0
	AppearPerish(ctx, TeamToPM(ctx, team), appear, check)

	if !appear {
		return VisPerish
	}
	// движение останавливает только появление чужих
	if check.Type.IsActor() && check.Team != team {
		return VisAppear | VisStop
	}
	return VisAppear
}

// CheckVis пересчитывает видимость check для всех команд, у которых есть
// живые. check == nil - для всех эдиктов.
func CheckVis(ctx *sim.Context, check *domain.Edict, perish bool) int {
	status := 0
	for team := domain.Team(0); team < domain.MaxTeams; team++ {
		if ctx.Level.NumAlive[team] > 0 {
			status |= CheckVisTeam(ctx, team, check, perish)
		}
	}
	return status
}

// AppearPerish сообщает игрокам mask о появлении или исчезновении check.
func AppearPerish(ctx *sim.Context, mask domain.PlayerMask, appear bool, check *domain.Edict) {
	if mask == 0 {
		return
	}
	if !appear {
		if check.Type.IsActor() || check.Type == domain.TypeFloor {
			ctx.Events.AddEvent(mask, events.EvEntPerish)
			ctx.Events.PutShort(check.Number)
			ctx.Events.EndEvents()
		}
		return
	}

	switch {
	case check.Type.IsActor():
		ctx.Events.AddEvent(mask, events.EvActorAppear)
		ctx.Events.PutShort(check.Number)
		ctx.Events.PutByte(int(check.Team))
		ctx.Events.PutByte(check.PNum)
		ctx.Events.PutPos(check.Pos)
		ctx.Events.PutByte(check.Dir)
		ctx.Events.PutShort(int(check.State & domain.StatePublic))
		ctx.Events.PutByte(domain.GetTU(check.Chr.Skill(domain.AbilitySpeed)))
		ctx.Events.PutByte(domain.GetMorale(check.Chr.Skill(domain.AbilityMind)))
		ctx.Events.PutShort(check.Chr.MaxHP)

		if own := mask & TeamToPM(ctx, check.Team); own != 0 {
			ctx.Events.AddEvent(own, events.EvActorStateChange)
			ctx.Events.PutShort(check.Number)
			ctx.Events.PutShort(int(check.State))
		}
		ctx.Events.EndEvents()
		SendInventory(ctx, mask&TeamToPM(ctx, check.Team), check)

	case check.Type == domain.TypeFloor:
		ctx.Events.AddEvent(mask, events.EvEntAppear)
		ctx.Events.PutShort(check.Number)
		ctx.Events.PutByte(int(check.Type))
		ctx.Events.PutPos(check.Pos)
		ctx.Events.EndEvents()
		SendInventory(ctx, mask, check)
	}
}

type invSlot struct {
	item      *domain.Item
	container int
}

func inventorySlots(inv *domain.Inventory) []invSlot {
	var out []invSlot
	if inv.Right != nil {
		out = append(out, invSlot{inv.Right, ContainerRight})
	}
	if inv.Left != nil {
		out = append(out, invSlot{inv.Left, ContainerLeft})
	}
	if inv.Armour != nil {
		out = append(out, invSlot{inv.Armour, ContainerArmour})
	}
	for _, it := range inv.Backpack {
		out = append(out, invSlot{it, ContainerBackpack})
	}
	return out
}

// SendInventory отправляет содержимое инвентаря игрокам mask.
func SendInventory(ctx *sim.Context, mask domain.PlayerMask, ent *domain.Edict) {
	slots := inventorySlots(&ent.Inv)
	if mask == 0 || len(slots) == 0 {
		return
	}

	ctx.Events.AddEvent(mask, events.EvInvAdd)
	ctx.Events.PutShort(ent.Number)
	ctx.Events.PutShort(len(slots))
	for _, s := range slots {
		ctx.Events.PutString(s.item.ID)
		ctx.Events.PutShort(s.item.Ammo)
		ctx.Events.PutByte(s.container)
	}
	ctx.Events.EndEvents()
}

// RevealAll показывает все эдикты всем подключенным игрокам (конец игры).
func RevealAll(ctx *sim.Context) {
	humans := HumansPM(ctx)
	n := 0
	for ent := range ctx.Store.All(visibleType) {
		AppearPerish(ctx, humans&^VisToPM(ctx, ent.VisFlags), true, ent)
		if ent.Type.IsActor() {
			SendInventory(ctx, humans&^TeamToPM(ctx, ent.Team), ent)
		}
		n++
	}
	logger.Component("game").WithFields(logrus.Fields{"edicts": n}).Debug("Battlefield revealed")
}
