package service

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/belmegatron/onehead/internal/balance"
	"github.com/belmegatron/onehead/internal/config"
	"github.com/belmegatron/onehead/internal/database"
	"github.com/belmegatron/onehead/internal/domain"
	"github.com/belmegatron/onehead/internal/repository"
	"github.com/belmegatron/onehead/internal/signup"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNotifier struct {
	mu    sync.Mutex
	lines []string
}

func (n *stubNotifier) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lines = append(n.lines, msg)
}

func (n *stubNotifier) contains(substr string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, line := range n.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

type fixture struct {
	svc     *MatchService
	players *PlayerService
	pool    *signup.Pool
	db      *sql.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	require.NoError(t, database.RunMigrations(db, zerolog.Nop()))

	cfg := &config.Config{
		TopK:             5,
		SkillMode:        domain.SkillRaw,
		NominationWindow: 500 * time.Millisecond,
		PickWindow:       100 * time.Millisecond,
	}

	playerRepo := repository.NewPlayerRepository(db, zerolog.Nop())
	matchRepo := repository.NewMatchRepository(db, zerolog.Nop())
	pool := signup.NewPool(zerolog.Nop())
	balancer := balance.NewWithRand(cfg.TopK, cfg.SkillMode, rand.New(rand.NewSource(1)), zerolog.Nop())

	return &fixture{
		svc:     NewMatchService(pool, playerRepo, matchRepo, balancer, cfg, zerolog.Nop()),
		players: NewPlayerService(playerRepo, zerolog.Nop()),
		pool:    pool,
		db:      db,
	}
}

func (f *fixture) registerAndSignup(t *testing.T, n int) []string {
	t.Helper()
	names := make([]string, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("player%d", i)
		_, err := f.players.Register(context.Background(), name, 1000+i*200)
		require.NoError(t, err)
		require.True(t, f.pool.Add(name))
		names[i] = name
	}
	return names
}

func TestStartBalanced(t *testing.T) {
	f := newFixture(t)
	f.registerAndSignup(t, 10)

	notifier := &stubNotifier{}
	m, err := f.svc.StartBalanced(context.Background(), notifier)
	require.NoError(t, err)

	assert.Len(t, m.Radiant.Players, domain.TeamSize)
	assert.Len(t, m.Dire.Players, domain.TeamSize)
	assert.Zero(t, f.pool.Len(), "pool is cleared at match start")
	assert.True(t, notifier.contains("Balancing teams..."))
	assert.True(t, notifier.contains("10 players have signed up."))
}

func TestStartBalancedDropsUnregisteredAndTrims(t *testing.T) {
	f := newFixture(t)
	f.registerAndSignup(t, 11)
	// A signup with no profile is dropped silently.
	require.True(t, f.pool.Add("ghost"))

	notifier := &stubNotifier{}
	m, err := f.svc.StartBalanced(context.Background(), notifier)
	require.NoError(t, err)

	assert.False(t, m.Radiant.Contains("ghost"))
	assert.False(t, m.Dire.Contains("ghost"))
	assert.True(t, notifier.contains("benched"), "the 11th resolvable player gets benched")
}

func TestStartBalancedShortPool(t *testing.T) {
	f := newFixture(t)
	f.registerAndSignup(t, 8)

	_, err := f.svc.StartBalanced(context.Background(), &stubNotifier{})

	var rosterErr *domain.RosterError
	require.ErrorAs(t, err, &rosterErr)
	assert.Equal(t, 8, rosterErr.Got)
}

func TestReportResultUpdatesRatings(t *testing.T) {
	f := newFixture(t)
	f.registerAndSignup(t, 10)

	m, err := f.svc.StartBalanced(context.Background(), &stubNotifier{})
	require.NoError(t, err)

	require.NoError(t, f.svc.ReportResult(context.Background(), domain.SideRadiant))

	for _, p := range m.Radiant.Players {
		got, err := f.players.Lookup(context.Background(), p.Name)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Wins, "%s should have a win", p.Name)
		assert.Zero(t, got.Losses)
	}
	for _, p := range m.Dire.Players {
		got, err := f.players.Lookup(context.Background(), p.Name)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Losses, "%s should have a loss", p.Name)
		assert.Zero(t, got.Wins)
	}

	// No live match afterwards.
	require.ErrorIs(t, f.svc.ReportResult(context.Background(), domain.SideDire), ErrNoActiveMatch)
}

func TestReportResultWithoutMatch(t *testing.T) {
	f := newFixture(t)
	require.ErrorIs(t, f.svc.ReportResult(context.Background(), domain.SideRadiant), ErrNoActiveMatch)
}

func TestNominateWithoutDraft(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Nominate("alice", "bob")
	require.ErrorIs(t, err, ErrNoActiveDraft)

	_, err = f.svc.Pick("alice", "bob")
	require.ErrorIs(t, err, ErrNoActiveDraft)
}

func TestStartDraftCompletesOnTimeouts(t *testing.T) {
	f := newFixture(t)
	f.registerAndSignup(t, 10)

	notifier := &stubNotifier{}
	type result struct {
		matchup domain.Matchup
		err     error
	}
	done := make(chan result, 1)
	go func() {
		m, err := f.svc.StartDraft(context.Background(), notifier)
		done <- result{m, err}
	}()

	// Wait for the draft to go live, then cast enough votes for two
	// captains and let every pick window expire.
	require.Eventually(t, func() bool {
		_, err := f.svc.Nominate("player1", "player0")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	_, err := f.svc.Nominate("player2", "player0")
	require.NoError(t, err)
	_, err = f.svc.Nominate("player3", "player4")
	require.NoError(t, err)

	select {
	case res := <-done:
		require.NoError(t, res.err)
		assert.Len(t, res.matchup.Radiant.Players, domain.TeamSize)
		assert.Len(t, res.matchup.Dire.Players, domain.TeamSize)
		assert.True(t, res.matchup.Radiant.Contains("player0"))
		assert.True(t, res.matchup.Dire.Contains("player4"))
		assert.Zero(t, f.pool.Len())
	case <-time.After(5 * time.Second):
		t.Fatal("draft did not complete")
	}
}
