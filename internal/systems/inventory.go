package systems

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/edicts"
	"battlescape-server/internal/sim"
	"battlescape-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

var floorTypes = edicts.NewTypeSet(domain.TypeFloor)

// floorAt находит кучу предметов в клетке или создает новую.
// Для существующей кучи игроки сначала получают perish: содержимое изменится.
func floorAt(ctx *sim.Context, pos domain.GridPos) (*domain.Edict, error) {
	if floor := ctx.Store.FindAtPos(pos, floorTypes); floor != nil {
		AppearPerish(ctx, VisToPM(ctx, floor.VisFlags), false, floor)
		floor.VisFlags = 0
		return floor, nil
	}

	floor, err := ctx.Store.Allocate()
	if err != nil {
		return nil, err
	}
	floor.Type = domain.TypeFloor
	floor.Solid = domain.SolidNot
	floor.Linked = true
	floor.SetPos(pos)
	return floor, nil
}

// InventoryToFloor выкладывает все, кроме брони, на пол под актором.
func InventoryToFloor(ctx *sim.Context, ent *domain.Edict) {
	moveToFloor(ctx, ent, true)
}

// DropHands бросает только то, что в руках.
func DropHands(ctx *sim.Context, ent *domain.Edict) {
	moveToFloor(ctx, ent, false)
}

func moveToFloor(ctx *sim.Context, ent *domain.Edict, backpack bool) {
	var items []*domain.Item
	if ent.Inv.Right != nil {
		items = append(items, ent.Inv.Right)
	}
	if ent.Inv.Left != nil {
		items = append(items, ent.Inv.Left)
	}
	if backpack {
		items = append(items, ent.Inv.Backpack...)
	}
	if len(items) == 0 {
		return
	}

	log := logger.Component("combat_system").WithFields(logrus.Fields{
		"edict": ent.Number,
		"items": len(items),
	})

	floor, err := floorAt(ctx, ent.Pos)
	if err != nil {
		// арена полна: предметы остаются у актора
		log.WithError(err).Debug("No room for a floor edict")
		return
	}

	floor.Inv.Backpack = append(floor.Inv.Backpack, items...)
	ent.Inv.Right = nil
	ent.Inv.Left = nil
	if backpack {
		ent.Inv.Backpack = nil
	}

	CheckVis(ctx, floor, true)
	log.WithField("floor", floor.Number).Debug("Items dropped")
}
