package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/shopfront/logging/logger"
	"github.com/ncobase/shopfront/structs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminCollection is the collection admin records live in.
const AdminCollection = "admins"

// AdminRepository defines the interface for admin data operations.
type AdminRepository interface {
	Create(ctx context.Context, admin *structs.Admin) (*structs.Admin, error)
	FindByID(ctx context.Context, id string) (*structs.Admin, error)
	FindByEmail(ctx context.Context, email string) (*structs.Admin, error)
	TouchLogin(ctx context.Context, id string, at time.Time) error
	UpdateProfile(ctx context.Context, id string, upd structs.UpdateAdminRequest) (*structs.Admin, error)
	Count(ctx context.Context) (int64, error)
}

type adminRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
	now        func() time.Time
}

// NewAdminRepository creates a new admin repository instance.
func NewAdminRepository(db *mongo.Database, l *logger.Logger) AdminRepository {
	return newAdminRepository(db.Collection(AdminCollection), l)
}

func newAdminRepository(c *mongo.Collection, l *logger.Logger) *adminRepository {
	return &adminRepository{collection: c, logger: l, now: time.Now}
}

// EnsureAdminIndexes creates the unique index on email.
func EnsureAdminIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(AdminCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("create admins email index: %w", err)
	}
	return nil
}

// Create creates a new admin.
func (r *adminRepository) Create(ctx context.Context, admin *structs.Admin) (*structs.Admin, error) {
	now := r.now()
	admin.ID = primitive.NewObjectID()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		r.logger.Error(ctx, "failed to create admin", "error", err)
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	r.logger.Info(ctx, "admin created", "id", admin.ID.Hex(), "role", admin.Role)
	return admin, nil
}

// FindByID retrieves an admin by ID.
func (r *adminRepository) FindByID(ctx context.Context, id string) (*structs.Admin, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByEmail retrieves an admin by normalized email.
func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*structs.Admin, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *adminRepository) findOne(ctx context.Context, filter bson.M) (*structs.Admin, error) {
	var admin structs.Admin
	if err := r.collection.FindOne(ctx, filter).Decode(&admin); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.logger.Error(ctx, "failed to find admin", "error", err)
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	return &admin, nil
}

// TouchLogin records a successful login.
func (r *adminRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"last_login_at": at, "updated_at": r.now()},
	})
	if err != nil {
		r.logger.Error(ctx, "failed to record admin login", "id", id, "error", err)
		return fmt.Errorf("failed to update admin: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile changes profile fields. Empty fields are kept.
func (r *adminRepository) UpdateProfile(ctx context.Context, id string, upd structs.UpdateAdminRequest) (*structs.Admin, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": r.now()}
	if upd.Name != "" {
		set["name"] = upd.Name
	}
	if upd.Phone != "" {
		set["phone"] = upd.Phone
	}
	if upd.Country != "" {
		set["country"] = upd.Country
	}

	result := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.logger.Error(ctx, "failed to update admin", "id", id, "error", err)
		return nil, fmt.Errorf("failed to update admin: %w", err)
	}

	var updated structs.Admin
	if err := result.Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated admin: %w", err)
	}
	return &updated, nil
}

// Count counts admins.
func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.logger.Error(ctx, "failed to count admins", "error", err)
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}
