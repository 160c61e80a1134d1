package systems

import (
	"battlescape-server/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEarnedExperience(t *testing.T) {
	m := &domain.MissionScore{MovedNormal: 40, MovedCrouched: 5}
	m.FiredTUs[domain.SkillAssault] = 64
	m.FiredSplashTUs[domain.SkillExplosive] = 16
	m.Hits[domain.SkillAssault][domain.KilledEnemies] = 3
	m.Hits[domain.SkillSniper][domain.KilledEnemies] = 2
	m.HitsSplash[domain.SkillExplosive][domain.KilledEnemies] = 1
	m.Kills[domain.KilledEnemies] = 2
	chr := &domain.Character{Mission: m}

	tests := []struct {
		skill domain.Skill
		want  int
	}{
		{domain.AbilityPower, 46},
		{domain.AbilitySpeed, 20 + 5 + 8},
		{domain.AbilityAccuracy, 3*20 + 2*30 + 1*20},
		{domain.AbilityMind, 200},
		{domain.SkillAssault, 300},
		{domain.SkillSniper, 400},
		{domain.SkillExplosive, 200},
		{domain.SkillClose, 0},
		{domain.SkillHP, 15},
	}
	for _, tt := range tests {
		t.Run(tt.skill.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, EarnedExperience(chr, tt.skill, 30))
		})
	}
}

func TestUpdateCharacterSkills(t *testing.T) {
	ent := &domain.Edict{}
	ent.Chr.Mission = &domain.MissionScore{}
	ent.Chr.Mission.Hits[domain.SkillSniper][domain.KilledEnemies] = 10
	ent.Chr.Score.InitialSkills[domain.SkillSniper] = 40
	ent.Chr.Score.InitialSkills[domain.SkillHP] = 100
	ent.Chr.MaxHP = 100
	ent.Chr.MinHP = 100

	UpdateCharacterSkills(ent)

	// 10 попаданий по 200, но не больше 600 за миссию
	assert.Equal(t, 600, ent.Chr.Score.Experience[domain.SkillSniper])
	assert.Equal(t, domain.SkillFromExperience(40, 600), ent.Chr.Score.Skills[domain.SkillSniper])
	assert.Equal(t, 46, ent.Chr.Score.Experience[domain.AbilityPower])
	assert.Equal(t, 100, ent.Chr.MaxHP)

	robot := &domain.Edict{}
	robot.Chr.TeamDef.Robot = true
	robot.Chr.Mission = ent.Chr.Mission
	UpdateCharacterSkills(robot)
	assert.Zero(t, robot.Chr.Score.Experience[domain.SkillSniper])
}
