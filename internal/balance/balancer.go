package balance

import (
	"math/rand"
	"sort"
	"time"

	"github.com/belmegatron/onehead/internal/config"
	"github.com/belmegatron/onehead/internal/domain"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Balancer splits a ten-player roster into the two five-player teams whose
// skill sums are as close as possible, sampling uniformly among the topK
// closest splits so a fixed roster does not always produce the same teams.
type Balancer struct {
	topK   int
	mode   domain.SkillMode
	rng    *rand.Rand
	logger zerolog.Logger
}

func New(cfg *config.Config, logger zerolog.Logger) *Balancer {
	return NewWithRand(cfg.TopK, cfg.SkillMode, rand.New(rand.NewSource(time.Now().UnixNano())), logger)
}

// NewWithRand injects the random source. Tests use a seeded source.
func NewWithRand(topK int, mode domain.SkillMode, rng *rand.Rand, logger zerolog.Logger) *Balancer {
	return &Balancer{topK: topK, mode: mode, rng: rng, logger: logger}
}

// Balance partitions exactly domain.RosterSize profiles into a matchup.
// Returns *domain.RosterError when handed the wrong count and
// domain.ErrNoValidMatchup when duplicate names leave no disjoint split.
func (b *Balancer) Balance(roster []domain.Player) (domain.Matchup, error) {
	if len(roster) != domain.RosterSize {
		return domain.Matchup{}, &domain.RosterError{Got: len(roster), Want: domain.RosterSize}
	}

	b.logger.Info().Int("top_k", b.topK).Str("skill_mode", string(b.mode)).Msg("balancing teams")

	teams := enumerateTeams(roster)
	candidates := enumerateMatchups(teams, b.mode)
	if len(candidates) == 0 {
		return domain.Matchup{}, domain.ErrNoValidMatchup
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].gap < candidates[j].gap
	})

	k := b.topK
	if k > len(candidates) {
		k = len(candidates)
	}
	chosen := candidates[b.rng.Intn(k)]

	b.logger.Info().
		Int("candidates", len(candidates)).
		Int("skill_gap", chosen.gap).
		Strs("radiant", chosen.matchup.Radiant.Names()).
		Strs("dire", chosen.matchup.Dire.Names()).
		Msg("matchup selected")

	return chosen.matchup, nil
}

type candidate struct {
	matchup domain.Matchup
	gap     int
}

// enumerateTeams lists every five-player subset of the roster, C(10,5) of
// them.
func enumerateTeams(roster []domain.Player) []domain.Team {
	var teams []domain.Team
	var build func(start int, picked []domain.Player)

	build = func(start int, picked []domain.Player) {
		if len(picked) == domain.TeamSize {
			players := make([]domain.Player, domain.TeamSize)
			copy(players, picked)
			teams = append(teams, domain.Team{Players: players})
			return
		}
		for i := start; i < len(roster); i++ {
			build(i+1, append(picked, roster[i]))
		}
	}

	build(0, nil)
	return teams
}

// enumerateMatchups pairs up subsets and keeps only those sharing no player
// name. Each true partition of the roster survives exactly once: the
// mirror pairing (B,A) is excluded by the j > i iteration, and any pair
// that is not a partition shares a member.
func enumerateMatchups(teams []domain.Team, mode domain.SkillMode) []candidate {
	var candidates []candidate
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			if sharesPlayer(teams[i], teams[j]) {
				continue
			}
			m := domain.Matchup{Radiant: teams[i], Dire: teams[j]}
			candidates = append(candidates, candidate{matchup: m, gap: m.SkillGap(mode)})
		}
	}
	return candidates
}

func sharesPlayer(a, b domain.Team) bool {
	for _, p := range a.Players {
		if b.Contains(p.Name) {
			return true
		}
	}
	return false
}

var Module = fx.Provide(New)
