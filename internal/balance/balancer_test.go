package balance

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/belmegatron/onehead/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoster() []domain.Player {
	mmrs := []int{1800, 2400, 3100, 1500, 2750, 2000, 3600, 1200, 2900, 2250}
	roster := make([]domain.Player, len(mmrs))
	for i, mmr := range mmrs {
		roster[i] = domain.Player{Name: fmt.Sprintf("player%d", i), MMR: mmr}
	}
	return roster
}

func newTestBalancer(topK int, seed int64) *Balancer {
	return NewWithRand(topK, domain.SkillRaw, rand.New(rand.NewSource(seed)), zerolog.Nop())
}

func TestBalanceProducesDisjointPartition(t *testing.T) {
	roster := testRoster()
	b := newTestBalancer(5, 1)

	m, err := b.Balance(roster)
	require.NoError(t, err)

	require.Len(t, m.Radiant.Players, domain.TeamSize)
	require.Len(t, m.Dire.Players, domain.TeamSize)

	seen := make(map[string]int)
	for _, p := range m.Radiant.Players {
		seen[p.Name]++
	}
	for _, p := range m.Dire.Players {
		seen[p.Name]++
	}

	require.Len(t, seen, domain.RosterSize)
	for _, p := range roster {
		assert.Equal(t, 1, seen[p.Name], "player %s must appear exactly once", p.Name)
	}
}

func TestBalanceStaysWithinTopK(t *testing.T) {
	roster := testRoster()
	const topK = 5

	// Recompute every partition's gap independently to find the bound.
	teams := enumerateTeams(roster)
	candidates := enumerateMatchups(teams, domain.SkillRaw)
	require.Len(t, candidates, 126)

	gaps := make([]int, len(candidates))
	for i, c := range candidates {
		gaps[i] = c.gap
	}
	sort.Ints(gaps)
	bound := gaps[topK-1]

	b := newTestBalancer(topK, 42)
	for i := 0; i < 50; i++ {
		m, err := b.Balance(roster)
		require.NoError(t, err)
		assert.LessOrEqual(t, m.SkillGap(domain.SkillRaw), bound)
	}
}

func TestBalanceVariesAcrossCalls(t *testing.T) {
	roster := testRoster()
	b := newTestBalancer(10, 7)

	gapsSeen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		m, err := b.Balance(roster)
		require.NoError(t, err)

		names := m.Radiant.Names()
		sort.Strings(names)
		gapsSeen[fmt.Sprint(names)] = true
	}
	assert.Greater(t, len(gapsSeen), 1, "top-K sampling should not always return the same split")
}

func TestBalanceShortRoster(t *testing.T) {
	roster := testRoster()[:7]
	b := newTestBalancer(5, 1)

	_, err := b.Balance(roster)

	var rosterErr *domain.RosterError
	require.ErrorAs(t, err, &rosterErr)
	assert.Equal(t, 7, rosterErr.Got)
	assert.Equal(t, domain.RosterSize, rosterErr.Want)
}

func TestBalanceDuplicateNames(t *testing.T) {
	roster := testRoster()
	for i := range roster {
		roster[i].Name = "clone"
	}
	b := newTestBalancer(5, 1)

	_, err := b.Balance(roster)
	require.ErrorIs(t, err, domain.ErrNoValidMatchup)
}

func TestRespectsSkillMode(t *testing.T) {
	// Two players share a raw MMR but diverge once win/loss history is
	// applied; the adjusted balancer must see different sums.
	roster := testRoster()
	roster[0].Wins = 10
	roster[1].Losses = 10

	raw := NewWithRand(1, domain.SkillRaw, rand.New(rand.NewSource(3)), zerolog.Nop())
	adjusted := NewWithRand(1, domain.SkillAdjusted, rand.New(rand.NewSource(3)), zerolog.Nop())

	mRaw, err := raw.Balance(roster)
	require.NoError(t, err)
	mAdj, err := adjusted.Balance(roster)
	require.NoError(t, err)

	assert.LessOrEqual(t, mRaw.SkillGap(domain.SkillRaw), mAdj.SkillGap(domain.SkillRaw))
	assert.LessOrEqual(t, mAdj.SkillGap(domain.SkillAdjusted), mRaw.SkillGap(domain.SkillAdjusted))
}
