package domain

import "math"

// Score - постоянная статистика персонажа (переживает миссии).
type Score struct {
	Experience    [SkillNum + 1]int `json:"experience"`
	Skills        [SkillNum]int     `json:"skills"`
	InitialSkills [SkillNum + 1]int `json:"initialSkills"`
	Kills         [KillNum]int      `json:"kills"`
	Stuns         [KillNum]int      `json:"stuns"`
}

// MissionScore - счетчики текущей миссии.
// Обнуляются при спавне и потребляются один раз в конце игры.
type MissionScore struct {
	MovedNormal   int `json:"movedNormal"`
	MovedCrouched int `json:"movedCrouched"`

	FiredTUs       [SkillNum]int `json:"firedTUs"`
	FiredSplashTUs [SkillNum]int `json:"firedSplashTUs"`

	Hits             [SkillNum][KillNum]int `json:"hits"`
	HitsSplash       [SkillNum][KillNum]int `json:"hitsSplash"`
	HitsSplashDamage [SkillNum][KillNum]int `json:"hitsSplashDamage"`

	// флаги "уже попал в этом выстреле", сбрасываются перед каждым выстрелом
	FiredHit       [KillNum]bool `json:"-"`
	FiredSplashHit [KillNum]bool `json:"-"`

	Kills      [KillNum]int  `json:"kills"`
	Stuns      [KillNum]int  `json:"stuns"`
	SkillKills [SkillNum]int `json:"skillKills"`
	Heal       int           `json:"heal"`
}

// ResetShotFlags сбрасывает флаги попаданий перед новым выстрелом.
func (m *MissionScore) ResetShotFlags() {
	m.FiredHit = [KillNum]bool{}
	m.FiredSplashHit = [KillNum]bool{}
}

// TeamDef - общие свойства расы/вида.
type TeamDef struct {
	ID      string `json:"id" yaml:"id"`
	Robot   bool   `json:"robot" yaml:"robot"`
	Weapons bool   `json:"weapons" yaml:"weapons"` // может носить снаряжение
}

// Character - персонаж, привязанный к актору.
type Character struct {
	UCN              int           `json:"ucn"`
	Name             string        `json:"name"`
	Rank             int           `json:"rank"`
	AssignedMissions int           `json:"assignedMissions"`
	TeamDef          TeamDef       `json:"teamDef"`
	Score            Score         `json:"score"`
	Mission          *MissionScore `json:"mission,omitempty"`
	MinHP            int           `json:"minHP"`
	MaxHP            int           `json:"maxHP"`
}

// Skill возвращает текущее значение навыка.
func (c *Character) Skill(s Skill) int {
	if c == nil || s < 0 || int(s) >= SkillNum {
		return 0
	}
	return c.Score.Skills[s]
}

// --- Формулы ---

func clampByte(v int) int {
	if v > 255 {
		return 255
	}
	return v
}

// GetHP - максимум здоровья от силы.
func GetHP(power int) int { return clampByte(80 + power*90/100) }

// GetTU - очки времени за раунд от скорости.
func GetTU(speed int) int { return clampByte(27 + speed*20/100) }

// GetMorale - максимум морали от разума.
func GetMorale(mind int) int { return clampByte(100 + mind*150/100) }

// MoraleRandom - mod*(1 + 0.3*crand), где crand в [-1, 1).
func MoraleRandom(mod, crand float64) float64 {
	return mod * (1 + 0.3*crand)
}

// SkillFromExperience - прирост навыка от накопленного опыта.
func SkillFromExperience(initial, experience int) int {
	return initial + int(math.Pow(float64(experience)/100, 0.6))
}

// MaxExperience - потолок опыта за одну миссию по каждому навыку.
var MaxExperience = [SkillNum + 1]int{
	AbilityPower:    500,
	AbilitySpeed:    1000,
	AbilityAccuracy: 500,
	AbilityMind:     400,
	SkillClose:      600,
	SkillHeavy:      600,
	SkillAssault:    600,
	SkillSniper:     600,
	SkillExplosive:  600,
	SkillHP:         2000,
}

// VictimCategory сводит команду жертвы к категории счетчиков.
// ok=false для команд, которые не учитываются (например, вторая команда людей).
func VictimCategory(victim, attacker Team) (KillType, bool) {
	switch {
	case victim == TeamAlien:
		return KilledEnemies, true
	case victim == TeamCivilian:
		return KilledCivilians, true
	case victim == TeamPhalanx || victim == attacker:
		return KilledTeam, true
	}
	return 0, false
}
