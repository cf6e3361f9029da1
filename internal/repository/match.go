package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/belmegatron/onehead/internal/domain"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// MatchRecord is one persisted match with its roster.
type MatchRecord struct {
	ID        string
	Mode      string
	Winner    *domain.Side
	StartedAt time.Time
}

// MatchRepository persists matchups and their outcomes.
type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(db *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{db: db, logger: logger}
}

// Record stores a started matchup and its full roster in one transaction,
// returning the generated match ID.
func (r *MatchRepository) Record(ctx context.Context, m domain.Matchup, mode string, captains []string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate match id: %w", err)
	}

	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO matches (id, mode, winner, started_at, created_at, updated_at)
		 VALUES (?, ?, NULL, ?, ?, ?)`,
		id, mode, now, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert match: %w", err)
	}

	isCaptain := make(map[string]bool, len(captains))
	for _, name := range captains {
		isCaptain[name] = true
	}

	sides := []struct {
		side domain.Side
		team domain.Team
	}{
		{domain.SideRadiant, m.Radiant},
		{domain.SideDire, m.Dire},
	}
	for _, s := range sides {
		for _, p := range s.team.Players {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO match_players (match_id, player_name, side, was_captain, created_at)
				 VALUES (?, ?, ?, ?, ?)`,
				id, p.Name, string(s.side), isCaptain[p.Name], now,
			)
			if err != nil {
				return "", fmt.Errorf("failed to insert match player %s: %w", p.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit match: %w", err)
	}

	r.logger.Info().Str("match_id", id).Str("mode", mode).Msg("match recorded")
	return id, nil
}

// SetWinner marks the winning side of a recorded match.
func (r *MatchRepository) SetWinner(ctx context.Context, matchID string, winner domain.Side) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE matches SET winner = ?, updated_at = ? WHERE id = ?`,
		string(winner), time.Now().UTC(), matchID,
	)
	if err != nil {
		return fmt.Errorf("failed to set winner for match %s: %w", matchID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set winner for match %s: %w", matchID, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Recent lists the most recently started matches.
func (r *MatchRepository) Recent(ctx context.Context, limit int) ([]MatchRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, mode, winner, started_at FROM matches
		 ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		var rec MatchRecord
		var winner sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Mode, &winner, &rec.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		if winner.Valid {
			side := domain.Side(winner.String)
			rec.Winner = &side
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Roster returns the side each player was on for a match.
func (r *MatchRepository) Roster(ctx context.Context, matchID string) (map[string]domain.Side, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT player_name, side FROM match_players WHERE match_id = ?`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster for match %s: %w", matchID, err)
	}
	defer rows.Close()

	roster := make(map[string]domain.Side)
	for rows.Next() {
		var name, side string
		if err := rows.Scan(&name, &side); err != nil {
			return nil, fmt.Errorf("failed to scan roster row: %w", err)
		}
		roster[name] = domain.Side(side)
	}
	return roster, rows.Err()
}
