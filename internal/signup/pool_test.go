package signup

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestAddPreservesOrderAndUniqueness(t *testing.T) {
	p := NewPool(zerolog.Nop())

	assert.True(t, p.Add("alice"))
	assert.True(t, p.Add("bob"))
	assert.False(t, p.Add("alice"))

	assert.Equal(t, []string{"alice", "bob"}, p.Snapshot())
	assert.Equal(t, 2, p.Len())
}

func TestRemove(t *testing.T) {
	p := NewPool(zerolog.Nop())
	p.Add("alice")
	p.Add("bob")
	p.Add("carol")

	assert.True(t, p.Remove("bob"))
	assert.False(t, p.Remove("bob"))
	assert.Equal(t, []string{"alice", "carol"}, p.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	p := NewPool(zerolog.Nop())
	p.Add("alice")

	snap := p.Snapshot()
	p.Add("bob")
	p.Remove("alice")

	assert.Equal(t, []string{"alice"}, snap, "snapshot must not see later mutations")
}

func TestClear(t *testing.T) {
	p := NewPool(zerolog.Nop())
	p.Add("alice")
	p.Add("bob")

	assert.Equal(t, 2, p.Clear())
	assert.Zero(t, p.Len())
	assert.Zero(t, p.Clear())
}
