package store

import (
	"context"
	"fmt"

	"github.com/gravity-wh/prompt-flow/internal/models"
)

// InsertPrompt stores p and fills in its generated ID and CreatedAt.
func (s *PostgresStore) InsertPrompt(ctx context.Context, p *models.Prompt) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO prompts (creator_id, title, model, prompt_text, cover_image_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		p.CreatorID, p.Title, p.Model, p.PromptText, p.CoverImageURL,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert prompt: %w", err)
	}
	return nil
}

// GetPromptDetail returns the gated model/prompt_text pair of one prompt.
func (s *PostgresStore) GetPromptDetail(ctx context.Context, id int64) (models.PromptDetail, error) {
	var d models.PromptDetail
	err := s.pool.QueryRow(ctx,
		`SELECT prompt_text, model FROM prompts WHERE id = $1`, id,
	).Scan(&d.PromptText, &d.Model)
	if err != nil {
		return models.PromptDetail{}, notFound(err, "get prompt detail")
	}
	return d, nil
}

// ListRecentPrompts returns the newest prompts with their creators.
// Rows sharing a created_at keep insertion order.
func (s *PostgresStore) ListRecentPrompts(ctx context.Context, limit int) ([]models.PromptWithCreator, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT p.id, p.creator_id, p.title, p.model, p.prompt_text, p.cover_image_url, p.created_at,
		        pr.id, pr.username
		 FROM prompts p
		 JOIN profiles pr ON pr.id = p.creator_id
		 ORDER BY p.created_at DESC, p.id ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	var out []models.PromptWithCreator
	for rows.Next() {
		var p models.PromptWithCreator
		if err := rows.Scan(
			&p.ID, &p.CreatorID, &p.Title, &p.Model, &p.PromptText, &p.CoverImageURL, &p.CreatedAt,
			&p.Creator.ID, &p.Creator.Username,
		); err != nil {
			return nil, fmt.Errorf("scanning prompt row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
