package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingAtBaseline(t *testing.T) {
	p := Player{Name: "arteezy", MMR: 2000}

	assert.Equal(t, 1500, p.Rating())
	assert.Equal(t, 2000, p.AdjustedMMR())
}

func TestRatingTracksRecord(t *testing.T) {
	p := Player{Name: "sumail", MMR: 3000, Wins: 4, Losses: 1}

	assert.Equal(t, 1500+4*25-25, p.Rating())
	assert.Equal(t, 3000+75, p.AdjustedMMR())
}

func TestSkillModeSelection(t *testing.T) {
	p := Player{Name: "zai", MMR: 2500, Wins: 2}

	assert.Equal(t, 2500, p.Skill(SkillRaw))
	assert.Equal(t, 2550, p.Skill(SkillAdjusted))
}

func TestSkillGapIsAbsolute(t *testing.T) {
	strong := Team{Players: []Player{{Name: "a", MMR: 3000}}}
	weak := Team{Players: []Player{{Name: "b", MMR: 1000}}}

	forward := Matchup{Radiant: strong, Dire: weak}
	reversed := Matchup{Radiant: weak, Dire: strong}

	assert.Equal(t, 2000, forward.SkillGap(SkillRaw))
	assert.Equal(t, 2000, reversed.SkillGap(SkillRaw))
}
