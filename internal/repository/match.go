package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MatchRecord is one finished game.
type MatchRecord struct {
	ID         uuid.UUID
	Winner     int // game.NoPlayer when the game was abandoned
	Hero0      string
	Hero1      string
	Actions    int
	Seed       int64
	StartedAt  time.Time
	FinishedAt time.Time
}

// MatchRepository stores finished matches.
type MatchRepository struct {
	db *DB
}

// NewMatchRepository creates a repository over db.
func NewMatchRepository(db *DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Save inserts one match record.
func (r *MatchRepository) Save(ctx context.Context, rec MatchRecord) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO matches (id, winner, hero0, hero1, actions, seed, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.Winner, rec.Hero0, rec.Hero1, rec.Actions, rec.Seed, rec.StartedAt, rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", rec.ID, err)
	}
	return nil
}

// RecentMatches returns the most recently finished matches, newest first.
func (r *MatchRepository) RecentMatches(ctx context.Context, limit int) ([]MatchRecord, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, winner, hero0, hero1, actions, seed, started_at, finished_at
		 FROM matches ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		var rec MatchRecord
		if err := rows.Scan(&rec.ID, &rec.Winner, &rec.Hero0, &rec.Hero1,
			&rec.Actions, &rec.Seed, &rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
