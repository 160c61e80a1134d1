package domain

// Team - номер команды на поле боя.
type Team int

const (
	TeamCivilian Team = 0
	TeamPhalanx  Team = 1
	TeamAlien    Team = 7

	MaxTeams = 8

	// NoActiveTeam означает, что сейчас никто не ходит (игра не начата).
	NoActiveTeam Team = -1
)

// Valid проверяет, что номер команды лежит в допустимом диапазоне.
func (t Team) Valid() bool { return t >= 0 && int(t) < MaxTeams }

// Bit возвращает бит команды в маске видимости.
func (t Team) Bit() uint32 {
	if !t.Valid() {
		return 0
	}
	return 1 << uint(t)
}

// State - набор флагов состояния актора.
type State uint16

const (
	StatePublic       State = 0x00FF // биты, которые видят чужие команды
	StateDead         State = 0x0003 // 1..3 - разные анимации смерти
	StateCrouched     State = 0x0004
	StatePanic        State = 0x0008
	StateRage         State = 0x0010
	StateInsane       State = 0x0030 // rage + отдельный бит безумия
	StateStun         State = 0x0043 // включает биты смерти: оглушенный не "живой"
	StateDazed        State = 0x0080
	StateReactionOnce State = 0x0100
	StateReactionMany State = 0x0200
	StateReaction     State = 0x0300
	StateShaken       State = 0x0400
)

// MaxDeath - количество вариантов анимации смерти.
const MaxDeath = 3

func (s State) Has(flag State) bool { return s&flag != 0 }

// IsDead истинно и для мертвых, и для оглушенных.
func (s State) IsDead() bool { return s&StateDead != 0 }

// IsStunned проверяет именно оглушение (0x40 бит).
func (s State) IsStunned() bool { return s&(StateStun&^StateDead) != 0 }

func (s State) IsPanicked() bool { return s&StatePanic != 0 }
func (s State) IsRaged() bool    { return s&StateRage != 0 }
func (s State) IsInsane() bool   { return s&StateInsane == StateInsane }
func (s State) IsShaken() bool   { return s&StateShaken != 0 }

// EntityType - тег типа эдикта.
type EntityType uint8

const (
	TypeNull EntityType = iota
	TypeWorld
	TypeActor
	TypeActor2x2
	TypeFloor // предметы на полу
	TypeBreakable
	TypeDoor
	TypeTrigger
	TypeSpawnPoint
)

var entityTypeNames = [...]string{
	TypeNull:       "null",
	TypeWorld:      "world",
	TypeActor:      "actor",
	TypeActor2x2:   "actor2x2",
	TypeFloor:      "floor",
	TypeBreakable:  "breakable",
	TypeDoor:       "door",
	TypeTrigger:    "trigger",
	TypeSpawnPoint: "spawnpoint",
}

func (t EntityType) String() string {
	if int(t) < len(entityTypeNames) {
		return entityTypeNames[t]
	}
	return "unknown"
}

// IsActor истинно для обычных и больших (2x2) акторов.
func (t EntityType) IsActor() bool { return t == TypeActor || t == TypeActor2x2 }

// Solid - как эдикт участвует в пересечениях.
type Solid uint8

const (
	SolidNot     Solid = iota // не участвует в touch-запросах
	SolidTrigger              // объем-триггер
	SolidBBox                 // коробка (акторы)
	SolidBSP                  // геометрия (двери, разрушаемые объекты)
)

// Skill - индекс навыка/способности в массивах Score.
type Skill int

const (
	AbilityPower Skill = iota
	AbilitySpeed
	AbilityAccuracy
	AbilityMind

	SkillClose
	SkillHeavy
	SkillAssault
	SkillSniper
	SkillExplosive

	SkillNum = 9

	// SkillHP - дополнительный слот опыта для здоровья.
	SkillHP Skill = SkillNum
)

var skillNames = [...]string{"power", "speed", "accuracy", "mind", "close", "heavy", "assault", "sniper", "explosive", "hp"}

func (s Skill) String() string {
	if s >= 0 && int(s) < len(skillNames) {
		return skillNames[s]
	}
	return "unknown"
}

// KillType - категория жертвы для счетчиков убийств.
type KillType int

const (
	KilledEnemies KillType = iota
	KilledCivilians
	KilledTeam

	KillNum = 3
)

// DamageType - тип урона огневого режима.
type DamageType uint8

const (
	DamageNormal DamageType = iota
	DamageStunElectro
	DamageStunGas
	DamageShock
)

// IsStun истинно для урона, который копит STUN вместо HP.
func (d DamageType) IsStun() bool { return d == DamageStunElectro || d == DamageStunGas }

// DamageWeightNum - количество классов защиты брони.
const DamageWeightNum = 4

// Время.
const (
	FrameTime    = 0.1 // секунд на кадр
	FramesPerSec = 10
)

// Стоимость действий в TU.
const (
	TUMoveStraight   = 2
	TUMoveCrouched   = 3
	TUCrouch         = 1
	TUTurn           = 1
	UnitSize         = 32.0
	PlayerWidth      = 9.0
	PlayerStand      = 20.0
	PlayerCrouch     = 5.0
	PlayerDead       = -12.0
	PlayerMin        = -24.0
	MaxSkill         = 100
	MaxTouchedEdicts = 64
)
