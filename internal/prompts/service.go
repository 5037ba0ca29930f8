// Package prompts implements publishing, liking and reading prompt cards.
package prompts

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gravity-wh/prompt-flow/internal/models"
)

// CoverPrefix is the object key prefix for uploaded cover images.
const CoverPrefix = "prompt-covers"

// ObjectStore stores cover images.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
	Remove(ctx context.Context, key string) error
}

// PromptStore persists prompts.
type PromptStore interface {
	InsertPrompt(ctx context.Context, p *models.Prompt) error
	GetPromptDetail(ctx context.Context, id int64) (models.PromptDetail, error)
	ListRecentPrompts(ctx context.Context, limit int) ([]models.PromptWithCreator, error)
}

// LikeStore persists likes. InsertLike reports created=false when the
// (user, prompt) pair already exists.
type LikeStore interface {
	InsertLike(ctx context.Context, userID string, promptID int64) (created bool, err error)
	LikedPromptIDs(ctx context.Context, userID string) ([]int64, error)
}

// FeedInvalidator drops cached renderings of the public feed.
type FeedInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service orchestrates prompt creation, likes and feed composition.
type Service struct {
	objects ObjectStore
	prompts PromptStore
	likes   LikeStore
	feed    FeedInvalidator
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(objects ObjectStore, prompts PromptStore, likes LikeStore, feed FeedInvalidator, logger *zap.Logger) *Service {
	return &Service{
		objects: objects,
		prompts: prompts,
		likes:   likes,
		feed:    feed,
		logger:  logger,
		now:     time.Now,
	}
}

// CreatePrompt uploads the cover image, then inserts the prompt row. If the
// insert fails the upload is removed on a best-effort basis.
func (s *Service) CreatePrompt(ctx context.Context, caller *models.Caller, in models.CreatePromptInput) (*models.Prompt, error) {
	if caller == nil {
		return nil, newError(KindUnauthenticated, "user must be authenticated to create prompts", nil)
	}
	if blank(in.Title) || blank(in.Model) || blank(in.PromptText) || len(in.Image.Data) == 0 {
		return nil, newError(KindInvalidInput, "all fields are required", nil)
	}

	key := CoverKey(caller.ID, s.now(), in.Image.Name)
	if err := s.objects.Upload(ctx, key, in.Image.Data, in.Image.ContentType); err != nil {
		return nil, newError(KindUploadFailed, "failed to upload image", err)
	}

	p := &models.Prompt{
		CreatorID:     caller.ID,
		Title:         in.Title,
		Model:         in.Model,
		PromptText:    in.PromptText,
		CoverImageURL: s.objects.PublicURL(key),
	}
	if err := s.prompts.InsertPrompt(ctx, p); err != nil {
		if rmErr := s.objects.Remove(ctx, key); rmErr != nil {
			s.logger.Warn("orphaned cover image", zap.String("key", key), zap.Error(rmErr))
		}
		return nil, newError(KindCreateFailed, "failed to create prompt", err)
	}

	s.logger.Info("prompt created",
		zap.Int64("prompt_id", p.ID),
		zap.String("creator_id", caller.ID),
		zap.String("cover_key", key),
	)
	s.invalidateFeed(ctx)
	return p, nil
}

// LikePrompt records the caller's like and reveals the prompt's gated
// detail. Liking an already-liked prompt returns the same detail.
func (s *Service) LikePrompt(ctx context.Context, caller *models.Caller, promptID int64) (models.PromptDetail, error) {
	if caller == nil {
		return models.PromptDetail{}, newError(KindUnauthenticated, "user must be authenticated to like prompts", nil)
	}

	created, err := s.likes.InsertLike(ctx, caller.ID, promptID)
	if err != nil {
		return models.PromptDetail{}, newError(KindLikeFailed, "failed to like prompt", err)
	}

	// The like stays committed even if this lookup fails.
	detail, err := s.prompts.GetPromptDetail(ctx, promptID)
	if err != nil {
		return models.PromptDetail{}, newError(KindPromptLookupFailed, "failed to fetch prompt details", err)
	}

	if created {
		s.logger.Debug("prompt liked", zap.Int64("prompt_id", promptID), zap.String("user_id", caller.ID))
		s.invalidateFeed(ctx)
	}
	return detail, nil
}

func (s *Service) invalidateFeed(ctx context.Context) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Invalidate(ctx); err != nil {
		s.logger.Warn("feed cache invalidation failed", zap.Error(err))
	}
}

// CoverKey derives the object key for a caller's upload at t. The file
// extension of name is kept; a name without one gets no suffix.
func CoverKey(callerID string, t time.Time, name string) string {
	base := fmt.Sprintf("%s-%d", callerID, t.UnixMilli())
	if ext := strings.TrimPrefix(path.Ext(name), "."); ext != "" {
		base += "." + strings.ToLower(ext)
	}
	return CoverPrefix + "/" + base
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
