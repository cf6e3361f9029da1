package draft

import (
	"math/rand"
	"sort"
)

// electCaptains applies the nomination tie-break rules:
//
//   - one clear leader: they are captain 1 and captain 2 comes from the
//     second-place tier (randomly if that tier is tied)
//   - exactly two tied leaders: both are captains
//   - three or more tied leaders: two distinct captains drawn at random
//     from the tied set
//
// Fails with a *StateError when the vote tally cannot produce two distinct
// captains.
func electCaptains(votes map[string]int, rng *rand.Rand) (string, string, error) {
	if len(votes) == 0 {
		return "", "", &StateError{Reason: "no nominations were cast"}
	}

	counts := make([]int, 0, len(votes))
	for _, n := range votes {
		counts = append(counts, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	topCount := counts[0]
	top := tier(votes, topCount)

	switch {
	case len(top) >= 3:
		c1 := top[rng.Intn(len(top))]
		rest := without(top, c1)
		c2 := rest[rng.Intn(len(rest))]
		return c1, c2, nil

	case len(top) == 2:
		return top[0], top[1], nil
	}

	// Single leader: captain 2 comes from the second-highest tier.
	c1 := top[0]

	secondCount := -1
	for _, n := range counts {
		if n < topCount {
			secondCount = n
			break
		}
	}
	if secondCount < 0 {
		return "", "", &StateError{Reason: "nominations produced only one captain"}
	}

	second := tier(votes, secondCount)
	c2 := second[0]
	if len(second) > 1 {
		c2 = second[rng.Intn(len(second))]
	}
	return c1, c2, nil
}

// tier returns the names holding exactly count votes, sorted so random
// draws are reproducible under a seeded source.
func tier(votes map[string]int, count int) []string {
	var names []string
	for name, n := range votes {
		if n == count {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func without(names []string, exclude string) []string {
	out := make([]string, 0, len(names)-1)
	for _, n := range names {
		if n != exclude {
			out = append(out, n)
		}
	}
	return out
}
