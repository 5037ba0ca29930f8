package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gravity-wh/prompt-flow/internal/models"
)

// ErrIdeaNotFound is returned when no idea matches the given id.
var ErrIdeaNotFound = errors.New("store: idea not found")

// MongoStore handles idea catalog CRUD in MongoDB.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("ideas")}
}

// EnsureIndexes creates the category and recency indexes used by List.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("mongo indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, idea *models.Idea) (string, error) {
	idea.ID = primitive.NilObjectID
	idea.CreatedAt = time.Now().UTC()
	res, err := s.col.InsertOne(ctx, idea)
	if err != nil {
		return "", fmt.Errorf("mongo insert: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	idea.ID = oid
	return oid.Hex(), nil
}

// List returns ideas newest first, restricted to category when non-empty.
func (s *MongoStore) List(ctx context.Context, category string) ([]models.Idea, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)

	var ideas []models.Idea
	if err := cur.All(ctx, &ideas); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	return ideas, nil
}

func (s *MongoStore) GetByID(ctx context.Context, id string) (*models.Idea, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrIdeaNotFound
	}
	var idea models.Idea
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&idea); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("mongo find one: %w", err)
	}
	return &idea, nil
}

// Update sets the given fields on one idea. Callers whitelist the keys.
func (s *MongoStore) Update(ctx context.Context, id string, fields map[string]any) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrIdeaNotFound
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("mongo update: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrIdeaNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrIdeaNotFound
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrIdeaNotFound
	}
	return nil
}

// Categories returns the distinct categories in sorted order.
func (s *MongoStore) Categories(ctx context.Context) ([]string, error) {
	vals, err := s.col.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongo distinct: %w", err)
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if c, ok := v.(string); ok {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out, nil
}
