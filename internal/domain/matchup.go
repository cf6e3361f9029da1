package domain

// TeamSize is the number of players on each side of a matchup.
const TeamSize = 5

// RosterSize is the number of resolved profiles a matchup needs.
const RosterSize = 2 * TeamSize

// Side names one half of a matchup.
type Side string

const (
	SideRadiant Side = "radiant"
	SideDire    Side = "dire"
)

// Team is an unordered set of exactly TeamSize distinct players.
type Team struct {
	Players []Player
}

// SkillSum totals the team's skill under the given mode.
func (t Team) SkillSum(mode SkillMode) int {
	sum := 0
	for _, p := range t.Players {
		sum += p.Skill(mode)
	}
	return sum
}

// Names returns the player names in team order.
func (t Team) Names() []string {
	names := make([]string, len(t.Players))
	for i, p := range t.Players {
		names[i] = p.Name
	}
	return names
}

// Contains reports whether the team has a player with the given name.
func (t Team) Contains(name string) bool {
	for _, p := range t.Players {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Matchup is an ordered pair of disjoint teams: Radiant first, Dire second.
type Matchup struct {
	Radiant Team
	Dire    Team
}

// SkillGap is the absolute difference between the two team skill sums.
func (m Matchup) SkillGap(mode SkillMode) int {
	gap := m.Radiant.SkillSum(mode) - m.Dire.SkillSum(mode)
	if gap < 0 {
		gap = -gap
	}
	return gap
}
