package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Idea is a prompt idea in the admin catalog, stored in MongoDB.
type Idea struct {
	ID          primitive.ObjectID `json:"id"           bson:"_id,omitempty"`
	Model       string             `json:"model"        bson:"model"`
	Mode        string             `json:"mode"         bson:"mode"`
	Category    string             `json:"category"     bson:"category"`
	Author      string             `json:"author"       bson:"author"`
	Headline    string             `json:"headline"     bson:"headline"`
	Description string             `json:"description"  bson:"description"`
	PromptText  string             `json:"prompt_text"  bson:"prompt_text"`
	EffectImage string             `json:"effect_image" bson:"effect_image"`
	CreatedAt   time.Time          `json:"created_at"   bson:"created_at"`
}

// IdeaFields lists the fields a client may set on create or update.
var IdeaFields = []string{
	"model", "mode", "category", "author", "headline", "description", "prompt_text", "effect_image",
}

// RequiredIdeaFields must be present when creating an idea.
var RequiredIdeaFields = []string{
	"model", "mode", "category", "author", "headline", "description", "prompt_text",
}
