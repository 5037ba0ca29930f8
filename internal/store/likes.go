package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// InsertLike records that userID liked promptID. created is false when the
// pair already existed; the unique (user_id, prompt_id) key decides.
func (s *PostgresStore) InsertLike(ctx context.Context, userID string, promptID int64) (created bool, err error) {
	var id int64
	err = s.pool.QueryRow(ctx,
		`INSERT INTO likes (user_id, prompt_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, prompt_id) DO NOTHING
		 RETURNING id`,
		userID, promptID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if isForeignKeyViolation(err) {
		return false, fmt.Errorf("insert like: prompt %d: %w", promptID, ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}
	return true, nil
}

// LikedPromptIDs returns the ids of every prompt userID has liked.
func (s *PostgresStore) LikedPromptIDs(ctx context.Context, userID string) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT prompt_id FROM likes WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scanning like rows: %w", err)
	}
	return ids, nil
}
