package draft

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/belmegatron/onehead/internal/domain"
)

// pickOrder is the fixed 8-slot turn sequence, indexing into the captain
// pair. After each captain's opening pick the other captain picks twice,
// alternating in pairs, with the first and last slots owned by captain 1.
var pickOrder = [8]int{0, 1, 1, 0, 0, 1, 1, 0}

// Run executes the full draft and blocks until it completes, the context is
// cancelled, or nominations fail to produce two captains. It must be called
// exactly once.
func (d *Draft) Run(ctx context.Context) (domain.Matchup, error) {
	defer close(d.done)

	d.setPhase(PhaseNominating)
	d.notify(fmt.Sprintf("Nomination phase started. %d players have %s to nominate a captain.",
		len(d.order), d.window))

	if err := d.collectNominations(ctx); err != nil {
		return domain.Matchup{}, err
	}

	c1, c2, err := electCaptains(d.votes, d.rng)
	if err != nil {
		return domain.Matchup{}, err
	}
	d.setCaptains(c1, c2)
	d.setPhase(PhaseCaptainsElected)
	d.notify(fmt.Sprintf("Captains elected: %s and %s.", c1, c2))
	d.logger.Info().Str("captain_1", c1).Str("captain_2", c2).Msg("captains elected")

	if err := ctx.Err(); err != nil {
		return domain.Matchup{}, err
	}

	d.setPhase(PhasePicking)
	matchup, err := d.runPicks(ctx, c1, c2)
	if err != nil {
		return domain.Matchup{}, err
	}

	d.setPhase(PhaseComplete)
	d.notify(fmt.Sprintf("Draft complete. %s: %s | %s: %s",
		c1, strings.Join(matchup.Radiant.Names(), ", "),
		c2, strings.Join(matchup.Dire.Names(), ", ")))
	return matchup, nil
}

func (d *Draft) collectNominations(ctx context.Context) error {
	timer := time.NewTimer(d.window)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case c := <-d.inbox:
			c.reply <- d.handleNomination(c)
		}
	}
}

func (d *Draft) handleNomination(c command) outcome {
	if c.kind != cmdNominate {
		return outcome{message: "picking has not started yet"}
	}

	voter, ok := d.resolveRosterName(c.actor)
	if !ok {
		return outcome{message: fmt.Sprintf("%s is not signed up", c.actor)}
	}
	candidate, ok := d.resolveRosterName(c.target)
	if !ok {
		return outcome{message: fmt.Sprintf("%s is not signed up", c.target)}
	}
	if voter == candidate {
		return outcome{message: fmt.Sprintf("%s, you cannot nominate yourself", voter)}
	}
	if d.hasVoted[voter] {
		return outcome{message: fmt.Sprintf("%s has already voted", voter)}
	}

	d.hasVoted[voter] = true
	d.votes[candidate]++
	d.logger.Debug().Str("voter", voter).Str("candidate", candidate).
		Int("votes", d.votes[candidate]).Msg("nomination recorded")
	return outcome{
		accepted: true,
		message:  fmt.Sprintf("%s nominated %s (%d votes)", voter, candidate, d.votes[candidate]),
	}
}

func (d *Draft) runPicks(ctx context.Context, c1, c2 string) (domain.Matchup, error) {
	captains := [2]string{c1, c2}
	teams := [2][]domain.Player{
		{d.roster[c1]},
		{d.roster[c2]},
	}

	remaining := make([]string, 0, len(d.order)-2)
	for _, name := range d.order {
		if name != c1 && name != c2 {
			remaining = append(remaining, name)
		}
	}

	for _, slot := range pickOrder {
		if len(remaining) == 0 {
			break
		}
		captain := captains[slot]

		// The last turn has exactly one candidate left. Assign it to the
		// captain who owns the slot without waiting out the window.
		if len(remaining) == 1 {
			name := remaining[0]
			remaining = remaining[:0]
			teams[slot] = append(teams[slot], d.roster[name])
			d.notify(fmt.Sprintf("%s joins %s's team as the final pick.", name, captain))
			break
		}

		picked, err := d.awaitPick(ctx, captain, &remaining)
		if err != nil {
			return domain.Matchup{}, err
		}
		teams[slot] = append(teams[slot], d.roster[picked])
	}

	return domain.Matchup{
		Radiant: domain.Team{Players: teams[0]},
		Dire:    domain.Team{Players: teams[1]},
	}, nil
}

func (d *Draft) awaitPick(ctx context.Context, captain string, remaining *[]string) (string, error) {
	d.notify(fmt.Sprintf("%s, you have %s to pick: %s", captain, d.pickWait, strings.Join(*remaining, ", ")))

	timer := time.NewTimer(d.pickWait)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
			name := (*remaining)[d.rng.Intn(len(*remaining))]
			removeName(remaining, name)
			d.notify(fmt.Sprintf("%s ran out of time. %s was picked automatically.", captain, name))
			d.logger.Info().Str("captain", captain).Str("player", name).Msg("pick timed out, auto-picked")
			return name, nil
		case c := <-d.inbox:
			name, out := d.handlePick(c, captain, remaining)
			c.reply <- out
			if out.accepted {
				return name, nil
			}
		}
	}
}

func (d *Draft) handlePick(c command, captain string, remaining *[]string) (string, outcome) {
	if c.kind != cmdPick {
		return "", outcome{message: "the nomination phase is over"}
	}
	if !strings.EqualFold(c.actor, captain) {
		return "", outcome{message: fmt.Sprintf("it is %s's turn to pick", captain)}
	}

	name, ok := resolveName(*remaining, c.target)
	if !ok {
		return "", outcome{message: fmt.Sprintf("%s is not in the remaining pool", c.target)}
	}

	removeName(remaining, name)
	return name, outcome{accepted: true, message: fmt.Sprintf("%s picked %s", captain, name)}
}

// resolveRosterName matches a submitted name against the roster snapshot,
// ignoring case, and returns the canonical spelling.
func (d *Draft) resolveRosterName(name string) (string, bool) {
	return resolveName(d.order, name)
}

func resolveName(names []string, name string) (string, bool) {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}

func removeName(names *[]string, name string) {
	for i, n := range *names {
		if n == name {
			*names = append((*names)[:i], (*names)[i+1:]...)
			return
		}
	}
}
