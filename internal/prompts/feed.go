package prompts

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gravity-wh/prompt-flow/internal/models"
)

const (
	DefaultFeedLimit = 10
	MaxFeedLimit     = 50
)

// ClampLimit maps a requested page size onto [1, MaxFeedLimit].
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultFeedLimit
	case limit > MaxFeedLimit:
		return MaxFeedLimit
	default:
		return limit
	}
}

// ComposeFeed returns the newest prompts annotated for caller, which may be
// nil. Prompt text and model are only included for prompts the caller has
// liked or created.
func (s *Service) ComposeFeed(ctx context.Context, caller *models.Caller, limit int) ([]models.FeedItem, error) {
	limit = ClampLimit(limit)

	var (
		rows  []models.PromptWithCreator
		liked []int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.prompts.ListRecentPrompts(gctx, limit)
		if err != nil {
			return fmt.Errorf("compose feed: %w", err)
		}
		return nil
	})
	if caller != nil {
		g.Go(func() error {
			var err error
			liked, err = s.likes.LikedPromptIDs(gctx, caller.ID)
			if err != nil {
				return fmt.Errorf("compose feed: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	likedSet := make(map[int64]struct{}, len(liked))
	for _, id := range liked {
		likedSet[id] = struct{}{}
	}

	items := make([]models.FeedItem, 0, len(rows))
	for _, r := range rows {
		_, ok := likedSet[r.ID]
		item := models.FeedItem{
			ID:            r.ID,
			CreatorID:     r.CreatorID,
			Title:         r.Title,
			CoverImageURL: r.CoverImageURL,
			CreatedAt:     r.CreatedAt,
			Creator:       r.Creator,
			UserLiked:     ok,
		}
		if ok || (caller != nil && caller.ID == r.CreatorID) {
			item.Model = r.Model
			item.PromptText = r.PromptText
		}
		items = append(items, item)
	}
	return items, nil
}
