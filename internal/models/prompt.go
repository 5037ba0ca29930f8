package models

import "time"

// Prompt is a row in the prompts table.
type Prompt struct {
	ID            int64     `json:"id"`
	CreatorID     string    `json:"creator_id"`
	Title         string    `json:"title"`
	Model         string    `json:"model"`
	PromptText    string    `json:"prompt_text"`
	CoverImageURL string    `json:"cover_image_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// Creator is the public slice of a Profile embedded in feed items.
type Creator struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// PromptWithCreator is a prompt joined with its creator's profile.
type PromptWithCreator struct {
	Prompt
	Creator Creator
}

// PromptDetail is the gated payload revealed by a like.
type PromptDetail struct {
	PromptText string `json:"prompt_text"`
	Model      string `json:"model"`
}

// Like is a row in the likes table.
type Like struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	PromptID  int64     `json:"prompt_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedItem is a prompt annotated for one caller. PromptText and Model are
// empty unless UserLiked is set or the caller created the prompt.
type FeedItem struct {
	ID            int64     `json:"id"`
	CreatorID     string    `json:"creator_id"`
	Title         string    `json:"title"`
	CoverImageURL string    `json:"cover_image_url"`
	CreatedAt     time.Time `json:"created_at"`
	Creator       Creator   `json:"profiles"`
	UserLiked     bool      `json:"user_liked"`
	Model         string    `json:"model,omitempty"`
	PromptText    string    `json:"prompt_text,omitempty"`
}

// ImageFile is an uploaded cover image.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// CreatePromptInput carries the fields of the create form.
type CreatePromptInput struct {
	Title      string
	Model      string
	PromptText string
	Image      ImageFile
}
