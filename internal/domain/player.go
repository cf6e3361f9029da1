package domain

import (
	"time"

	"github.com/belmegatron/onehead/internal/constants"
)

// Player is a registered league member. Name is the unique, case-sensitive
// identifier used everywhere else in the system.
type Player struct {
	Name      string
	MMR       int
	Wins      int
	Losses    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Rating derives the in-league score from win/loss history. It is never
// persisted; callers recompute it whenever they need it.
func (p Player) Rating() int {
	return constants.RatingBaseline + p.Wins*constants.RatingDelta - p.Losses*constants.RatingDelta
}

// AdjustedMMR shifts the registered MMR by how far the derived rating sits
// from the baseline. A player with no games keeps their raw MMR.
func (p Player) AdjustedMMR() int {
	return p.MMR + (p.Rating() - constants.RatingBaseline)
}

// Skill returns the value the balancer should use for this player under the
// given mode.
func (p Player) Skill(mode SkillMode) int {
	if mode == SkillAdjusted {
		return p.AdjustedMMR()
	}
	return p.MMR
}

// SkillMode selects which number the balancer sums per team.
type SkillMode string

const (
	SkillRaw      SkillMode = "raw"
	SkillAdjusted SkillMode = "adjusted"
)
