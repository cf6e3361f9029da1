package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/belmegatron/onehead/internal/domain"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// PlayerRepository is the profile store: one row per registered player,
// keyed by name.
type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(db *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{db: db, logger: logger}
}

// Create registers a new player. Returns domain.ErrAlreadyRegistered if the
// name is taken.
func (r *PlayerRepository) Create(ctx context.Context, name string, mmr int) (*domain.Player, error) {
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO players (name, mmr, wins, losses, created_at, updated_at)
		 VALUES (?, ?, 0, 0, ?, ?)`,
		name, mmr, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create player %s: %w", name, err)
	}

	r.logger.Info().Str("name", name).Int("mmr", mmr).Msg("player registered")
	return &domain.Player{Name: name, MMR: mmr, CreatedAt: now, UpdatedAt: now}, nil
}

// Lookup fetches a single profile by exact name. Returns domain.ErrNotFound
// when the player has never registered.
func (r *PlayerRepository) Lookup(ctx context.Context, name string) (*domain.Player, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT name, mmr, wins, losses, created_at, updated_at
		 FROM players WHERE name = ?`, name)

	p, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up player %s: %w", name, err)
	}
	return p, nil
}

// GetAll returns every registered profile, oldest registration first.
func (r *PlayerRepository) GetAll(ctx context.Context) ([]domain.Player, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, mmr, wins, losses, created_at, updated_at
		 FROM players ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// Remove deletes a profile. Returns domain.ErrNotFound if absent.
func (r *PlayerRepository) Remove(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to remove player %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to remove player %s: %w", name, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	r.logger.Info().Str("name", name).Msg("player removed")
	return nil
}

// UpdateRating bumps the win or loss counter for one player. Returns
// domain.ErrNotFound if the player is not registered.
func (r *PlayerRepository) UpdateRating(ctx context.Context, name string, win bool) error {
	column := "losses"
	if win {
		column = "wins"
	}

	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE players SET %s = %s + 1, updated_at = ? WHERE name = ?`, column, column),
		time.Now().UTC(), name,
	)
	if err != nil {
		return fmt.Errorf("failed to update rating for %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update rating for %s: %w", name, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	r.logger.Debug().Str("name", name).Bool("win", win).Msg("rating updated")
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*domain.Player, error) {
	var p domain.Player
	if err := row.Scan(&p.Name, &p.MMR, &p.Wins, &p.Losses, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
