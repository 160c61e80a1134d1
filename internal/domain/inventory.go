package domain

// FireDef - один огневой режим оружия.
type FireDef struct {
	Name         string     `json:"name" yaml:"name"`
	TU           int        `json:"tu" yaml:"tu"`
	Damage       int        `json:"damage" yaml:"damage"`
	DamageSpread int        `json:"damageSpread" yaml:"damage_spread"`
	DmgWeight    int        `json:"dmgWeight" yaml:"dmg_weight"`
	DmgType      DamageType `json:"dmgType" yaml:"dmg_type"`
	WeaponSkill  Skill      `json:"weaponSkill" yaml:"weapon_skill"`
	Range        float64    `json:"range" yaml:"range"`
	SplashRadius float64    `json:"splashRadius" yaml:"splash_radius"`
	Shots        int        `json:"shots" yaml:"shots"`
	Spread       float64    `json:"spread" yaml:"spread"`
}

// Item - предмет (оружие, броня, прочее).
type Item struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	FireDefs   []FireDef            `json:"fireDefs,omitempty"`
	Ammo       int                  `json:"ammo"`
	Protection [DamageWeightNum]int `json:"protection"`
	IsArmour   bool                 `json:"isArmour"`
}

// Weapon истинно, если у предмета есть хотя бы один огневой режим.
func (it *Item) Weapon() bool { return it != nil && len(it.FireDefs) > 0 }

// Inventory - руки, броня и рюкзак актора (или содержимое floor-эдикта).
type Inventory struct {
	Right    *Item   `json:"right,omitempty"`
	Left     *Item   `json:"left,omitempty"`
	Armour   *Item   `json:"armour,omitempty"`
	Backpack []*Item `json:"backpack,omitempty"`
}

// Protection возвращает защиту брони для класса урона.
func (inv *Inventory) Protection(dmgWeight int) int {
	if inv.Armour == nil || dmgWeight < 0 || dmgWeight >= DamageWeightNum {
		return 0
	}
	return inv.Armour.Protection[dmgWeight]
}

// HasWeapons истинно, если в руках есть оружие.
func (inv *Inventory) HasWeapons() bool {
	return inv.Right.Weapon() || inv.Left.Weapon()
}

// Items возвращает все предметы, кроме брони.
func (inv *Inventory) Items() []*Item {
	var out []*Item
	if inv.Right != nil {
		out = append(out, inv.Right)
	}
	if inv.Left != nil {
		out = append(out, inv.Left)
	}
	return append(out, inv.Backpack...)
}

// Empty истинно, если нет ни одного предмета.
func (inv *Inventory) Empty() bool {
	return inv.Right == nil && inv.Left == nil && inv.Armour == nil && len(inv.Backpack) == 0
}
