//go:build integration

package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gravity-wh/prompt-flow/internal/models"
)

func setupMongo(t *testing.T) *MongoStore {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set; skipping integration test")
	}
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("promptflow_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		db.Drop(context.Background())
		client.Disconnect(context.Background())
	})

	s := NewMongoStore(db)
	require.NoError(t, s.EnsureIndexes(ctx))
	return s
}

func TestMongoStore_CRUD(t *testing.T) {
	s := setupMongo(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, &models.Idea{Model: "GPT-4", Mode: "Text Generation", Category: "科技", Author: "a", Headline: "h", Description: "d", PromptText: "p"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, &models.Idea{Model: "Midjourney", Mode: "Image Generation", Category: "运动", Author: "b", Headline: "h2", Description: "d2", PromptText: "p2"})
	require.NoError(t, err)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	tech, err := s.List(ctx, "科技")
	require.NoError(t, err)
	require.Len(t, tech, 1)
	assert.Equal(t, "GPT-4", tech[0].Model)

	require.NoError(t, s.Update(ctx, id, map[string]any{"headline": "new"}))
	got, err := s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Headline)

	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.GetByID(ctx, id)
	assert.True(t, errors.Is(err, ErrIdeaNotFound))
	assert.True(t, errors.Is(s.Delete(ctx, id), ErrIdeaNotFound))
	assert.True(t, errors.Is(s.Update(ctx, "not-hex", map[string]any{"mode": "x"}), ErrIdeaNotFound))
}
