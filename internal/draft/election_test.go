package draft

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElectionClearLeaderAndRunnerUp(t *testing.T) {
	votes := map[string]int{"A": 3, "B": 2, "C": 1}

	c1, c2, err := electCaptains(votes, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, "A", c1)
	assert.Equal(t, "B", c2)
}

func TestElectionTwoWayTie(t *testing.T) {
	votes := map[string]int{"A": 3, "B": 3, "C": 1}

	c1, c2, err := electCaptains(votes, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, []string{c1, c2})
}

func TestElectionThreeWayTie(t *testing.T) {
	votes := map[string]int{"A": 3, "B": 3, "C": 3, "D": 2}

	for seed := int64(0); seed < 20; seed++ {
		c1, c2, err := electCaptains(votes, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)

		assert.NotEqual(t, c1, c2)
		assert.Contains(t, []string{"A", "B", "C"}, c1)
		assert.Contains(t, []string{"A", "B", "C"}, c2)
	}
}

func TestElectionTiedSecondTier(t *testing.T) {
	votes := map[string]int{"A": 3, "B": 2, "C": 2, "D": 2}

	for seed := int64(0); seed < 20; seed++ {
		c1, c2, err := electCaptains(votes, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)

		assert.Equal(t, "A", c1)
		assert.Contains(t, []string{"B", "C", "D"}, c2)
	}
}

func TestElectionNoVotes(t *testing.T) {
	_, _, err := electCaptains(map[string]int{}, rand.New(rand.NewSource(1)))

	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestElectionSingleCandidate(t *testing.T) {
	_, _, err := electCaptains(map[string]int{"A": 9}, rand.New(rand.NewSource(1)))

	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
}
