package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ncobase/shopfront/logging/logger"
	"github.com/ncobase/shopfront/structs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MyListCollection is the collection wish-list items live in.
const MyListCollection = "mylist"

// MyListRepository defines the interface for wish-list data operations.
type MyListRepository interface {
	Add(ctx context.Context, item *structs.MyListItem) (*structs.MyListItem, error)
	ListByUser(ctx context.Context, userID string) ([]*structs.MyListItem, error)
	DeleteOwned(ctx context.Context, userID, itemID string) error
	Count(ctx context.Context) (int64, error)
}

type myListRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
	now        func() time.Time
}

// NewMyListRepository creates a new wish-list repository instance.
func NewMyListRepository(db *mongo.Database, l *logger.Logger) MyListRepository {
	return newMyListRepository(db.Collection(MyListCollection), l)
}

func newMyListRepository(c *mongo.Collection, l *logger.Logger) *myListRepository {
	return &myListRepository{collection: c, logger: l, now: time.Now}
}

// EnsureMyListIndexes creates the unique (user_id, product_id) index.
func EnsureMyListIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(MyListCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_user_product"),
	})
	if err != nil {
		return fmt.Errorf("create mylist index: %w", err)
	}
	return nil
}

// Add stores a wish-list item.
func (r *myListRepository) Add(ctx context.Context, item *structs.MyListItem) (*structs.MyListItem, error) {
	item.ID = primitive.NewObjectID()
	item.CreatedAt = r.now()

	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		r.logger.Error(ctx, "failed to add mylist item", "error", err)
		return nil, fmt.Errorf("failed to add mylist item: %w", err)
	}
	return item, nil
}

// ListByUser returns the items of a user, newest first.
func (r *myListRepository) ListByUser(ctx context.Context, userID string) ([]*structs.MyListItem, error) {
	uid, err := objectID(userID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": uid},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		r.logger.Error(ctx, "failed to list mylist items", "error", err)
		return nil, fmt.Errorf("failed to list mylist items: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]*structs.MyListItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		r.logger.Error(ctx, "failed to decode mylist items", "error", err)
		return nil, fmt.Errorf("failed to decode mylist items: %w", err)
	}
	return items, nil
}

// DeleteOwned deletes an item only if it belongs to userID.
func (r *myListRepository) DeleteOwned(ctx context.Context, userID, itemID string) error {
	uid, err := objectID(userID)
	if err != nil {
		return err
	}
	iid, err := objectID(itemID)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": iid, "user_id": uid})
	if err != nil {
		r.logger.Error(ctx, "failed to delete mylist item", "id", itemID, "error", err)
		return fmt.Errorf("failed to delete mylist item: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count counts all wish-list items.
func (r *myListRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.logger.Error(ctx, "failed to count mylist items", "error", err)
		return 0, fmt.Errorf("failed to count mylist items: %w", err)
	}
	return n, nil
}
