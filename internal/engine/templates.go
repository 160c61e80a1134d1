package engine

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/sim"
	"battlescape-server/internal/systems"
	"fmt"
)

// ActorTemplate определяет шаблон персонажа, из которого спавнится актор.
type ActorTemplate struct {
	Name    string
	TeamDef domain.TeamDef
	// Skills - базовые значения; при спавне каждый получает разброс ±Spread.
	Skills [domain.SkillNum]int
	Spread int
	// Weapon создает оружие для правой руки (nil - без оружия).
	Weapon func() *domain.Item
	Armour *domain.Item
	// AIType - имя скрипта в ai.yaml для AI-акторов.
	AIType string
	Big    bool
}

// SpawnActor создает актора из шаблона в клетке pos за игрока p.
// Счетчики spawned/alive команды увеличиваются.
func (t ActorTemplate) SpawnActor(ctx *sim.Context, p *domain.Player, pos domain.GridPos, ucn int) (*domain.Edict, error) {
	ent, err := ctx.Store.Allocate()
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", t.Name, err)
	}

	ent.Type = domain.TypeActor
	if t.Big {
		ent.Type = domain.TypeActor2x2
	}
	ent.Solid = domain.SolidBBox
	ent.Linked = true
	ent.Team = p.Team
	ent.PNum = p.Num
	ent.SetPos(pos)
	ent.Dir = ctx.Rand.Intn(8)
	ent.SetBox(
		domain.Vec3{-domain.PlayerWidth, -domain.PlayerWidth, domain.PlayerMin},
		domain.Vec3{domain.PlayerWidth, domain.PlayerWidth, domain.PlayerStand},
	)
	systems.ActorSetMaxs(ent)

	chr := &ent.Chr
	chr.UCN = ucn
	chr.Name = fmt.Sprintf("%s %d", t.Name, ucn)
	chr.TeamDef = t.TeamDef
	chr.Mission = &domain.MissionScore{}
	for i, base := range t.Skills {
		v := base
		if t.Spread > 0 {
			v += ctx.Rand.Intn(2*t.Spread+1) - t.Spread
		}
		v = min(max(v, 0), domain.MaxSkill)
		chr.Score.Skills[i] = v
		chr.Score.InitialSkills[i] = v
	}
	chr.MaxHP = domain.GetHP(chr.Skill(domain.AbilityPower))
	chr.MinHP = chr.MaxHP
	chr.Score.InitialSkills[domain.SkillHP] = chr.MaxHP

	ent.HP = chr.MaxHP
	ent.Morale = domain.GetMorale(chr.Skill(domain.AbilityMind))
	ent.TU = domain.GetTU(chr.Skill(domain.AbilitySpeed))
	ent.AIType = t.AIType

	if t.TeamDef.Weapons && t.Weapon != nil {
		ent.Inv.Right = t.Weapon()
	}
	if t.Armour != nil {
		armour := *t.Armour
		ent.Inv.Armour = &armour
	}

	if p.Team.Valid() {
		ctx.Level.NumSpawned[p.Team]++
		ctx.Level.NumAlive[p.Team]++
	}
	return ent, nil
}

// --- ОРУЖИЕ ---

func AssaultRifle() *domain.Item {
	return &domain.Item{
		ID:   "assault_rifle",
		Name: "Assault Rifle",
		FireDefs: []domain.FireDef{
			{Name: "single", TU: 8, Damage: 28, DamageSpread: 6, WeaponSkill: domain.SkillAssault, Range: 18, Shots: 1, Spread: 1.5},
			{Name: "burst", TU: 14, Damage: 22, DamageSpread: 6, WeaponSkill: domain.SkillAssault, Range: 12, Shots: 3, Spread: 3},
		},
		Ammo: 30,
	}
}

func SniperRifle() *domain.Item {
	return &domain.Item{
		ID:   "sniper_rifle",
		Name: "Sniper Rifle",
		FireDefs: []domain.FireDef{
			{Name: "aimed", TU: 16, Damage: 55, DamageSpread: 10, DmgWeight: 1, WeaponSkill: domain.SkillSniper, Range: 30, Shots: 1, Spread: 0.5},
		},
		Ammo: 8,
	}
}

func PlasmaRifle() *domain.Item {
	return &domain.Item{
		ID:   "plasma_rifle",
		Name: "Plasma Rifle",
		FireDefs: []domain.FireDef{
			{Name: "single", TU: 9, Damage: 40, DamageSpread: 8, DmgWeight: 2, WeaponSkill: domain.SkillAssault, Range: 20, Shots: 1, Spread: 1.5},
			{Name: "burst", TU: 16, Damage: 30, DamageSpread: 8, DmgWeight: 2, WeaponSkill: domain.SkillAssault, Range: 14, Shots: 3, Spread: 3},
		},
		Ammo: 24,
	}
}

func StunRod() *domain.Item {
	return &domain.Item{
		ID:   "stun_rod",
		Name: "Stun Rod",
		FireDefs: []domain.FireDef{
			{Name: "strike", TU: 6, Damage: 45, DamageSpread: 10, DmgType: domain.DamageStunElectro, WeaponSkill: domain.SkillClose, Range: 1, Shots: 1},
		},
		Ammo: 99,
	}
}

// --- ПЕРСОНАЖИ ---

var Soldier = ActorTemplate{
	Name:    "Soldier",
	TeamDef: domain.TeamDef{ID: "human", Weapons: true},
	Skills: [domain.SkillNum]int{
		domain.AbilityPower:    35,
		domain.AbilitySpeed:    40,
		domain.AbilityAccuracy: 45,
		domain.AbilityMind:     30,
		domain.SkillClose:      25,
		domain.SkillHeavy:      20,
		domain.SkillAssault:    40,
		domain.SkillSniper:     30,
		domain.SkillExplosive:  20,
	},
	Spread: 8,
	Weapon: AssaultRifle,
	Armour: &domain.Item{ID: "combat_armour", Name: "Combat Armour", IsArmour: true, Protection: [domain.DamageWeightNum]int{6, 4, 2, 0}},
}

var Sniper = ActorTemplate{
	Name:    "Sniper",
	TeamDef: domain.TeamDef{ID: "human", Weapons: true},
	Skills: [domain.SkillNum]int{
		domain.AbilityPower:    25,
		domain.AbilitySpeed:    35,
		domain.AbilityAccuracy: 60,
		domain.AbilityMind:     40,
		domain.SkillClose:      15,
		domain.SkillHeavy:      15,
		domain.SkillAssault:    30,
		domain.SkillSniper:     55,
		domain.SkillExplosive:  15,
	},
	Spread: 6,
	Weapon: SniperRifle,
}

var Alien = ActorTemplate{
	Name:    "Taman",
	TeamDef: domain.TeamDef{ID: "taman", Weapons: true},
	Skills: [domain.SkillNum]int{
		domain.AbilityPower:    30,
		domain.AbilitySpeed:    45,
		domain.AbilityAccuracy: 40,
		domain.AbilityMind:     55,
		domain.SkillClose:      30,
		domain.SkillHeavy:      25,
		domain.SkillAssault:    40,
		domain.SkillSniper:     25,
		domain.SkillExplosive:  20,
	},
	Spread: 10,
	Weapon: PlasmaRifle,
	AIType: "alien",
}

var AlienBrute = ActorTemplate{
	Name:    "Ortnok",
	TeamDef: domain.TeamDef{ID: "ortnok", Weapons: true},
	Skills: [domain.SkillNum]int{
		domain.AbilityPower:    70,
		domain.AbilitySpeed:    30,
		domain.AbilityAccuracy: 25,
		domain.AbilityMind:     20,
		domain.SkillClose:      60,
		domain.SkillHeavy:      30,
		domain.SkillAssault:    25,
		domain.SkillSniper:     10,
		domain.SkillExplosive:  10,
	},
	Spread: 10,
	Weapon: StunRod,
	Armour: &domain.Item{ID: "chitin", Name: "Chitin", IsArmour: true, Protection: [domain.DamageWeightNum]int{10, 8, 4, 2}},
	AIType: "alien",
}

var Civilian = ActorTemplate{
	Name:    "Civilian",
	TeamDef: domain.TeamDef{ID: "civilian"},
	Skills: [domain.SkillNum]int{
		domain.AbilityPower:    15,
		domain.AbilitySpeed:    30,
		domain.AbilityAccuracy: 10,
		domain.AbilityMind:     10,
	},
	Spread: 5,
	AIType: "civilian",
}

// SquadTemplates - состав отрядов по командам; шаблоны берутся по кругу.
var SquadTemplates = map[domain.Team][]ActorTemplate{
	domain.TeamPhalanx:  {Soldier, Soldier, Sniper},
	domain.TeamAlien:    {Alien, Alien, AlienBrute},
	domain.TeamCivilian: {Civilian},
}

// templateFor - i-й шаблон отряда команды; неизвестные команды (мультиплеер)
// воюют солдатами.
func templateFor(team domain.Team, i int) ActorTemplate {
	list, ok := SquadTemplates[team]
	if !ok || len(list) == 0 {
		list = SquadTemplates[domain.TeamPhalanx]
	}
	return list[i%len(list)]
}
