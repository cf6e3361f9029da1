package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/belmegatron/onehead/internal/balance"
	"github.com/belmegatron/onehead/internal/config"
	"github.com/belmegatron/onehead/internal/constants"
	"github.com/belmegatron/onehead/internal/domain"
	"github.com/belmegatron/onehead/internal/draft"
	"github.com/belmegatron/onehead/internal/repository"
	"github.com/belmegatron/onehead/internal/signup"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Notifier receives user-facing progress lines. The chat layer implements
// it per channel.
type Notifier interface {
	Notify(msg string)
}

var (
	// ErrMatchInProgress guards against starting a second match or draft
	// while one is live.
	ErrMatchInProgress = errors.New("a match is already in progress")

	// ErrNoActiveMatch is returned when a result is reported with nothing
	// live.
	ErrNoActiveMatch = errors.New("no match is in progress")

	// ErrNoActiveDraft is returned for nominate/pick with no draft running.
	ErrNoActiveDraft = errors.New("no draft is in progress")
)

// MatchService owns the start-a-match flow: snapshot the signup pool,
// resolve profiles, balance or draft, persist the matchup, and apply the
// result to every participant's record.
type MatchService struct {
	pool     *signup.Pool
	players  *repository.PlayerRepository
	matches  *repository.MatchRepository
	balancer *balance.Balancer
	cfg      *config.Config
	rng      *rand.Rand
	logger   zerolog.Logger

	mu            sync.Mutex
	starting      bool
	activeMatchID string
	activeDraft   *draft.Draft
}

func NewMatchService(
	pool *signup.Pool,
	players *repository.PlayerRepository,
	matches *repository.MatchRepository,
	balancer *balance.Balancer,
	cfg *config.Config,
	logger zerolog.Logger,
) *MatchService {
	return &MatchService{
		pool:     pool,
		players:  players,
		matches:  matches,
		balancer: balancer,
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:   logger,
	}
}

// StartBalanced snapshots the pool and produces a rating-balanced matchup.
func (s *MatchService) StartBalanced(ctx context.Context, notifier Notifier) (domain.Matchup, error) {
	release, err := s.reserve()
	if err != nil {
		return domain.Matchup{}, err
	}
	defer release()

	roster, err := s.resolveRoster(ctx, notifier)
	if err != nil {
		return domain.Matchup{}, err
	}

	notifier.Notify("Balancing teams...")
	matchup, err := s.balancer.Balance(roster)
	if err != nil {
		return domain.Matchup{}, err
	}

	if err := s.beginMatch(ctx, matchup, "balanced", nil); err != nil {
		return domain.Matchup{}, err
	}

	s.pool.Clear()
	s.announce(notifier, matchup)
	return matchup, nil
}

// StartDraft snapshots the pool and runs a captain's draft to completion.
// It blocks for the whole draft, so callers run it on its own goroutine and
// feed it via Nominate and Pick.
func (s *MatchService) StartDraft(ctx context.Context, notifier Notifier) (domain.Matchup, error) {
	release, err := s.reserve()
	if err != nil {
		return domain.Matchup{}, err
	}
	defer release()

	roster, err := s.resolveRoster(ctx, notifier)
	if err != nil {
		return domain.Matchup{}, err
	}
	if len(roster) != domain.RosterSize {
		return domain.Matchup{}, &domain.RosterError{Got: len(roster), Want: domain.RosterSize}
	}

	d := draft.New(roster, draft.Options{
		NominationWindow: s.cfg.NominationWindow,
		PickWindow:       s.cfg.PickWindow,
		Notifier:         notifier,
		Logger:           s.logger,
	})

	s.mu.Lock()
	s.activeDraft = d
	s.mu.Unlock()
	s.logger.Info().Str("draft_id", d.ID()).Msg("draft started")
	defer func() {
		s.mu.Lock()
		s.activeDraft = nil
		s.mu.Unlock()
	}()

	matchup, err := d.Run(ctx)
	if err != nil {
		return domain.Matchup{}, err
	}

	c1, c2 := d.Captains()
	if err := s.beginMatch(ctx, matchup, "captains", []string{c1, c2}); err != nil {
		return domain.Matchup{}, err
	}

	s.pool.Clear()
	s.announce(notifier, matchup)
	return matchup, nil
}

// Nominate forwards a nomination vote to the live draft.
func (s *MatchService) Nominate(voter, candidate string) (string, error) {
	d := s.currentDraft()
	if d == nil {
		return "", ErrNoActiveDraft
	}
	msg, _ := d.Nominate(voter, candidate)
	return msg, nil
}

// Pick forwards a captain's pick to the live draft.
func (s *MatchService) Pick(captain, player string) (string, error) {
	d := s.currentDraft()
	if d == nil {
		return "", ErrNoActiveDraft
	}
	msg, _ := d.Pick(captain, player)
	return msg, nil
}

// ReportResult records the winning side of the live match and updates every
// participant's win/loss record.
func (s *MatchService) ReportResult(ctx context.Context, winner domain.Side) error {
	s.mu.Lock()
	matchID := s.activeMatchID
	s.mu.Unlock()
	if matchID == "" {
		return ErrNoActiveMatch
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	roster, err := s.matches.Roster(ctx, matchID)
	if err != nil {
		return err
	}

	if err := s.matches.SetWinner(ctx, matchID, winner); err != nil {
		return err
	}

	for name, side := range roster {
		if err := s.players.UpdateRating(ctx, name, side == winner); err != nil {
			return fmt.Errorf("failed to apply result for %s: %w", name, err)
		}
	}

	s.mu.Lock()
	s.activeMatchID = ""
	s.mu.Unlock()

	s.logger.Info().Str("match_id", matchID).Str("winner", string(winner)).Msg("result recorded")
	return nil
}

// resolveRoster snapshots the signup pool and looks each name up in
// parallel. Signups without a profile are silently dropped; an oversized
// pool is trimmed to RosterSize by random removal, announced via the
// notifier.
func (s *MatchService) resolveRoster(ctx context.Context, notifier Notifier) ([]domain.Player, error) {
	names := s.pool.Snapshot()
	notifier.Notify(fmt.Sprintf("%d players have signed up.", len(names)))

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	resolved := make([]*domain.Player, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			p, err := s.players.Lookup(gctx, name)
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Warn().Str("name", name).Msg("signup has no profile, dropping")
				return nil
			}
			if err != nil {
				return err
			}
			resolved[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve roster: %w", err)
	}

	roster := make([]domain.Player, 0, len(names))
	for _, p := range resolved {
		if p != nil {
			roster = append(roster, *p)
		}
	}

	for len(roster) > domain.RosterSize {
		i := s.rng.Intn(len(roster))
		benched := roster[i]
		roster = append(roster[:i], roster[i+1:]...)
		notifier.Notify(fmt.Sprintf("%s has been benched this game.", benched.Name))
	}

	return roster, nil
}

func (s *MatchService) beginMatch(ctx context.Context, m domain.Matchup, mode string, captains []string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	id, err := s.matches.Record(ctx, m, mode, captains)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.activeMatchID = id
	s.mu.Unlock()
	return nil
}

// reserve claims the start-a-match slot, failing if a match or draft is
// already live or another start is mid-flight.
func (s *MatchService) reserve() (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.starting || s.activeMatchID != "" || s.activeDraft != nil {
		return nil, ErrMatchInProgress
	}
	s.starting = true
	return func() {
		s.mu.Lock()
		s.starting = false
		s.mu.Unlock()
	}, nil
}

func (s *MatchService) currentDraft() *draft.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeDraft
}

func (s *MatchService) announce(notifier Notifier, m domain.Matchup) {
	notifier.Notify(fmt.Sprintf("Radiant: %s", strings.Join(m.Radiant.Names(), ", ")))
	notifier.Notify(fmt.Sprintf("Dire: %s", strings.Join(m.Dire.Names(), ", ")))
}
