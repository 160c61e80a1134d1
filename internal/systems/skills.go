package systems

import (
	"battlescape-server/internal/domain"
)

// опыт за одно попадание по врагу для боевых навыков
var hitExperience = [domain.SkillNum]int{
	domain.SkillClose:     150,
	domain.SkillHeavy:     200,
	domain.SkillAssault:   100,
	domain.SkillSniper:    200,
	domain.SkillExplosive: 200,
}

func enemyHits(m *domain.MissionScore, skill domain.Skill) int {
	return m.Hits[skill][domain.KilledEnemies] + m.HitsSplash[skill][domain.KilledEnemies]
}

// EarnedExperience считает опыт по навыку за миссию (без потолка).
// hpLost - сколько здоровья актор потерял в худший момент миссии.
func EarnedExperience(chr *domain.Character, skill domain.Skill, hpLost int) int {
	m := chr.Mission
	if m == nil {
		return 0
	}

	switch skill {
	case domain.AbilityPower:
		return 46
	case domain.AbilitySpeed:
		fired := 0
		for i := 0; i < domain.SkillNum; i++ {
			fired += m.FiredTUs[i] + m.FiredSplashTUs[i]
		}
		return m.MovedNormal/2 + m.MovedCrouched + fired/10
	case domain.AbilityAccuracy:
		xp := 0
		for i := domain.Skill(0); i < domain.SkillNum; i++ {
			if i == domain.SkillSniper {
				xp += 30 * enemyHits(m, i)
			} else {
				xp += 20 * enemyHits(m, i)
			}
		}
		return xp
	case domain.AbilityMind:
		return 100 * m.Kills[domain.KilledEnemies]
	case domain.SkillHP:
		return min(domain.MaxExperience[domain.SkillHP], hpLost/2)
	}
	if validSkill(skill) {
		return hitExperience[skill] * enemyHits(m, skill)
	}
	return 0
}

// UpdateCharacterSkills переносит опыт миссии в постоянный счет и
// пересчитывает навыки и максимум здоровья. Роботы не растут.
func UpdateCharacterSkills(ent *domain.Edict) {
	chr := &ent.Chr
	if chr.TeamDef.Robot || chr.Mission == nil {
		return
	}
	hpLost := max(chr.MaxHP-chr.MinHP, 0)

	for i := domain.Skill(0); i <= domain.SkillHP; i++ {
		gain := min(EarnedExperience(chr, i, hpLost), domain.MaxExperience[i])
		chr.Score.Experience[i] += gain

		value := domain.SkillFromExperience(chr.Score.InitialSkills[i], chr.Score.Experience[i])
		if i == domain.SkillHP {
			if chr.Score.InitialSkills[i] > 0 {
				chr.MaxHP = value
			}
		} else {
			chr.Score.Skills[i] = min(value, domain.MaxSkill)
		}
	}
}
