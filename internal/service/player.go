package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/belmegatron/onehead/internal/constants"
	"github.com/belmegatron/onehead/internal/domain"
	"github.com/belmegatron/onehead/internal/repository"
	"github.com/rs/zerolog"
)

// LeaderboardEntry is one row of the standings: the stored profile plus its
// derived numbers, recomputed on demand.
type LeaderboardEntry struct {
	Player      domain.Player
	Rating      int
	AdjustedMMR int
}

type PlayerService struct {
	repo   *repository.PlayerRepository
	logger zerolog.Logger
}

func NewPlayerService(repo *repository.PlayerRepository, logger zerolog.Logger) *PlayerService {
	return &PlayerService{repo: repo, logger: logger}
}

// Register creates a profile with the supplied base MMR.
func (s *PlayerService) Register(ctx context.Context, name string, mmr int) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if name == "" {
		return nil, fmt.Errorf("player name must not be empty")
	}
	if mmr <= 0 {
		return nil, fmt.Errorf("mmr must be a positive integer, got %d", mmr)
	}
	return s.repo.Create(ctx, name, mmr)
}

// Deregister removes a profile entirely.
func (s *PlayerService) Deregister(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.Remove(ctx, name)
}

// Lookup fetches a single profile.
func (s *PlayerService) Lookup(ctx context.Context, name string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.Lookup(ctx, name)
}

// Leaderboard returns every profile with derived rating and adjusted MMR,
// best rating first, capped at limit.
func (s *PlayerService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	players, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = LeaderboardEntry{
			Player:      p,
			Rating:      p.Rating(),
			AdjustedMMR: p.AdjustedMMR(),
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Rating > entries[j].Rating
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
