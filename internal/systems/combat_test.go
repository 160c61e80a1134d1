package systems

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rifle = &domain.FireDef{Name: "single", TU: 8, Damage: 20, WeaponSkill: domain.SkillAssault}

func TestApplyProtection(t *testing.T) {
	armour := &domain.Item{ID: "armour", IsArmour: true, Protection: [domain.DamageWeightNum]int{0: 10, 1: 50}}

	tests := []struct {
		name   string
		armour *domain.Item
		weight int
		damage int
		want   int
	}{
		{"no armour", nil, 0, 25, 25},
		{"partial", armour, 0, 25, 15},
		{"full block leaves one", armour, 1, 25, 1},
		{"zero damage", armour, 0, 0, 0},
		{"healing untouched", armour, 0, -10, -10},
		{"bad weight class", armour, 9, 25, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &domain.Edict{Inv: domain.Inventory{Armour: tt.armour}}
			assert.Equal(t, tt.want, ApplyProtection(target, tt.weight, tt.damage))
		})
	}
}

func TestDamage_LethalHit(t *testing.T) {
	w := newTestWorld(t)
	w.join(0, domain.TeamPhalanx, "alice")
	w.join(8, domain.TeamAlien, "ai")

	target := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 1})
	target.HP = 5
	target.VisFlags = domain.TeamPhalanx.Bit()
	attacker := w.spawnActor(t, domain.TeamAlien, 8, domain.GridPos{X: 4})

	Damage(w.ctx, target, rifle, 5, attacker)

	assert.Equal(t, 0, target.HP)
	assert.True(t, target.State.IsDead())
	assert.False(t, target.State.IsStunned())
	assert.Equal(t, 1, w.ctx.Level.NumKills[domain.TeamAlien][domain.TeamPhalanx])
	assert.Equal(t, 0, w.ctx.Level.NumAlive[domain.TeamPhalanx])
	assert.Equal(t, 1, attacker.Chr.Score.Kills[domain.KilledTeam])
	assert.Equal(t, domain.PlayerDead, target.Maxs[2])

	dies := events.ForPlayer(w.events.OfKind(events.EvActorDie), 0)
	require.Len(t, dies, 1)
	r := dies[0].Reader()
	assert.Equal(t, target.Number, r.Short())
	assert.Equal(t, int(target.State), r.Short())
}

func TestDamage_DeathBeatsStun(t *testing.T) {
	w := newTestWorld(t)
	w.join(0, domain.TeamPhalanx, "alice")

	target := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 1})
	target.HP = 3
	target.STUN = 10
	attacker := w.spawnActor(t, domain.TeamAlien, 8, domain.GridPos{X: 2})

	Damage(w.ctx, target, rifle, 3, attacker)

	assert.True(t, target.State.IsDead())
	assert.False(t, target.State.IsStunned(), "dead must win over stunned")
	assert.Equal(t, 1, w.ctx.Level.NumKills[domain.TeamAlien][domain.TeamPhalanx])
	assert.Equal(t, 0, w.ctx.Level.NumStuns[domain.TeamAlien][domain.TeamPhalanx])
}

func TestDamage_StunKnockout(t *testing.T) {
	w := newTestWorld(t)
	target := w.spawnActor(t, domain.TeamAlien, 8, domain.GridPos{X: 1})
	attacker := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 2})

	stunRod := &domain.FireDef{Name: "stun", DmgType: domain.DamageStunElectro, WeaponSkill: domain.SkillClose}
	Damage(w.ctx, target, stunRod, 150, attacker)

	assert.Equal(t, domain.StateStun, target.State)
	assert.True(t, target.State.IsStunned())
	assert.Equal(t, 100, target.HP, "stun damage does not touch HP")
	assert.Equal(t, 0, target.STUN)
	assert.Equal(t, 1, w.ctx.Level.NumStuns[domain.TeamPhalanx][domain.TeamAlien])
	assert.Equal(t, 1, attacker.Chr.Score.Stuns[domain.KilledEnemies])
	assert.Equal(t, 0, attacker.Chr.Mission.SkillKills[domain.SkillClose])
}

func TestDamage_WoundKeepsActorAlive(t *testing.T) {
	w := newTestWorld(t)
	w.join(0, domain.TeamPhalanx, "alice")
	target := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 1})
	attacker := w.spawnActor(t, domain.TeamAlien, 8, domain.GridPos{X: 3})

	Damage(w.ctx, target, rifle, 30, attacker)

	assert.Equal(t, 70, target.HP)
	assert.Equal(t, 70, target.Chr.MinHP)
	assert.False(t, target.State.IsDead())
	assert.Less(t, target.Morale, 100, "wounds cost morale")

	stats := events.ForPlayer(w.events.OfKind(events.EvActorStats), 0)
	require.NotEmpty(t, stats)
	r := stats[len(stats)-1].Reader()
	assert.Equal(t, target.Number, r.Short())
	assert.Equal(t, target.TU, r.Byte())
	assert.Equal(t, 70, r.Short())
}

func TestDamage_NoDamageToggle(t *testing.T) {
	w := newTestWorld(t)
	w.ctx.Cfg.SetInt(config.GNoDamage, 1)
	target := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 1})

	Damage(w.ctx, target, rifle, 500, nil)

	assert.Equal(t, 100, target.HP)
	assert.False(t, target.State.IsDead())
}

func TestDamage_Shock(t *testing.T) {
	w := newTestWorld(t)
	w.join(0, domain.TeamPhalanx, "alice")
	target := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 1})
	attacker := w.spawnActor(t, domain.TeamAlien, 8, domain.GridPos{X: 3})

	flash := &domain.FireDef{Name: "flash", DmgType: domain.DamageShock}
	Damage(w.ctx, target, flash, 10, attacker)

	assert.Equal(t, 0, target.TU)
	assert.True(t, target.State.Has(domain.StateDazed))
	assert.Equal(t, 100, target.HP)
	assert.True(t, w.console.Contains("Soldier is dazed!"))
}

func TestDamage_RobotCannotBeHealed(t *testing.T) {
	w := newTestWorld(t)
	target := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 1})
	target.Chr.TeamDef.Robot = true
	target.HP = 40

	Damage(w.ctx, target, rifle, -20, nil)
	assert.Equal(t, 40, target.HP)
}

func TestDamage_HealCappedAndCredited(t *testing.T) {
	w := newTestWorld(t)
	target := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 1})
	medic := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 2})
	target.HP = 70

	Damage(w.ctx, target, &domain.FireDef{Name: "medikit"}, -50, medic)

	assert.Equal(t, domain.GetHP(0), target.HP)
	assert.Equal(t, 50, medic.Chr.Mission.Heal)
}

func TestDamage_Breakable(t *testing.T) {
	w := newTestWorld(t)
	crate, err := w.ctx.Store.Allocate()
	require.NoError(t, err)
	crate.Type = domain.TypeBreakable
	crate.Solid = domain.SolidBSP
	crate.Model = "*crate"
	crate.HP = 10
	num := crate.Number

	Damage(w.ctx, crate, &domain.FireDef{DmgType: domain.DamageStunGas}, 50, nil)
	assert.Equal(t, 10, crate.HP, "breakables ignore stun")

	Damage(w.ctx, crate, rifle, 4, nil)
	assert.Equal(t, 6, crate.HP)

	Damage(w.ctx, crate, rifle, 6, nil)
	assert.Nil(t, w.ctx.Store.InUse(num))
	assert.Len(t, w.events.OfKind(events.EvModelExplode), 1)
	assert.Len(t, w.events.OfKind(events.EvEntDestroy), 1)
}

func TestTakeDamage(t *testing.T) {
	tests := []struct {
		name   string
		typ    domain.EntityType
		hp     int
		damage int
		want   int
	}{
		{"actor wounded", domain.TypeActor, 50, 20, 30},
		{"actor clamped at zero", domain.TypeActor, 10, 25, 0},
		{"big actor healed", domain.TypeActor2x2, 10, -5, 15},
		{"breakable", domain.TypeBreakable, 10, 4, 6},
		{"breakable clamped at zero", domain.TypeBreakable, 3, 9, 0},
		{"door", domain.TypeDoor, 20, 5, 15},
		{"trigger untouched", domain.TypeTrigger, 10, 4, 10},
		{"world untouched", domain.TypeWorld, 10, 4, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ent := &domain.Edict{Type: tt.typ, HP: tt.hp}
			TakeDamage(ent, tt.damage)
			assert.Equal(t, tt.want, ent.HP)
		})
	}
}

func TestUpdateHitScore(t *testing.T) {
	attacker := &domain.Edict{Type: domain.TypeActor, Team: domain.TeamPhalanx}
	attacker.Chr.Mission = &domain.MissionScore{}
	alien := &domain.Edict{Type: domain.TypeActor, Team: domain.TeamAlien}
	mate := &domain.Edict{Type: domain.TypeActor, Team: domain.TeamPhalanx}
	m := attacker.Chr.Mission

	// один выстрел - одно попадание на категорию
	UpdateHitScore(attacker, alien, rifle, 0)
	UpdateHitScore(attacker, alien, rifle, 0)
	UpdateHitScore(attacker, mate, rifle, 0)
	assert.Equal(t, 1, m.Hits[domain.SkillAssault][domain.KilledEnemies])
	assert.Equal(t, 1, m.Hits[domain.SkillAssault][domain.KilledTeam])

	m.ResetShotFlags()
	UpdateHitScore(attacker, alien, rifle, 0)
	assert.Equal(t, 2, m.Hits[domain.SkillAssault][domain.KilledEnemies])

	UpdateHitScore(attacker, alien, rifle, 12)
	UpdateHitScore(attacker, alien, rifle, 8)
	assert.Equal(t, 1, m.HitsSplash[domain.SkillAssault][domain.KilledEnemies])
	assert.Equal(t, 20, m.HitsSplashDamage[domain.SkillAssault][domain.KilledEnemies])
}

func TestActorDie_DropsItems(t *testing.T) {
	w := newTestWorld(t)
	w.join(0, domain.TeamPhalanx, "alice")
	ent := w.spawnActor(t, domain.TeamPhalanx, 0, domain.GridPos{X: 2, Y: 2})
	ent.Inv = domain.Inventory{
		Right:    &domain.Item{ID: "rifle", FireDefs: []domain.FireDef{*rifle}},
		Armour:   &domain.Item{ID: "armour", IsArmour: true},
		Backpack: []*domain.Item{{ID: "grenade"}},
	}

	ActorDie(w.ctx, ent, true, nil)

	floor := w.ctx.Store.FindAtPos(ent.Pos, floorTypes)
	require.NotNil(t, floor)
	assert.Len(t, floor.Inv.Backpack, 2)
	assert.Nil(t, ent.Inv.Right)
	assert.Empty(t, ent.Inv.Backpack)
	assert.NotNil(t, ent.Inv.Armour, "armour stays on the body")
}

func TestStunTeam(t *testing.T) {
	w := newTestWorld(t)
	w.spawnActor(t, domain.TeamAlien, 8, domain.GridPos{X: 1})
	w.spawnActor(t, domain.TeamAlien, 8, domain.GridPos{X: 2})

	assert.Equal(t, 2, StunTeam(w.ctx, domain.TeamAlien))
	assert.Equal(t, 0, w.ctx.Level.NumAlive[domain.TeamAlien])
	assert.Equal(t, 2, w.ctx.Level.NumStuns[domain.TeamPhalanx][domain.TeamAlien])
}
