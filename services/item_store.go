package services

import (
	"context"
	"fmt"
	"time"

	"campusfind/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ItemStore is the single source of truth for item reports. It owns
// identity assignment and required-field validation; it does NOT enforce
// ownership on Delete; authorization stays at the edge (LifecycleService).
type ItemStore interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	List(ctx context.Context) ([]models.Item, error)
	Get(ctx context.Context, id string) (*models.Item, error)
	Delete(ctx context.Context, id string) error
}

type MongoItemStore struct {
	itemCollection *mongo.Collection
}

func NewMongoItemStore(db *mongo.Database) *MongoItemStore {
	return &MongoItemStore{
		itemCollection: db.Collection("items"),
	}
}

// EnsureIndexes creates the index backing the default newest-first listing
// sort. Safe to call on every startup.
func (s *MongoItemStore) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "date_posted", Value: -1}},
		Options: options.Index().SetName("date_posted_desc_index"),
	}
	if _, err := s.itemCollection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create item indexes: %w", err)
	}
	return nil
}

// Create validates the report, assigns id and datePosted and persists it.
func (s *MongoItemStore) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	item.ID = primitive.NewObjectID()
	item.DatePosted = time.Now().UTC()

	if _, err := s.itemCollection.InsertOne(ctx, item); err != nil {
		return nil, fmt.Errorf("%w: failed to insert item: %v", models.ErrStoreUnavailable, err)
	}

	return item, nil
}

// List returns all items, newest first by datePosted.
func (s *MongoItemStore) List(ctx context.Context) ([]models.Item, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date_posted", Value: -1}})

	cursor, err := s.itemCollection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list items: %v", models.ErrStoreUnavailable, err)
	}
	defer cursor.Close(ctx)

	items := []models.Item{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("%w: failed to decode items: %v", models.ErrStoreUnavailable, err)
	}

	return items, nil
}

func (s *MongoItemStore) Get(ctx context.Context, id string) (*models.Item, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid item id %q", models.ErrNotFound, id)
	}

	var item models.Item
	err = s.itemCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("%w: failed to load item: %v", models.ErrStoreUnavailable, err)
	}

	return &item, nil
}

// Delete removes the one matching record. The DeleteOne is atomic: a second
// concurrent delete of the same id observes ErrNotFound, not a failure.
func (s *MongoItemStore) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid item id %q", models.ErrNotFound, id)
	}

	result, err := s.itemCollection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("%w: failed to delete item: %v", models.ErrStoreUnavailable, err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}
