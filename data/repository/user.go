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

// UserCollection is the collection user records live in.
const UserCollection = "users"

// ProfileUpdate holds profile fields to change. Empty fields are kept.
type ProfileUpdate struct {
	Name  string
	Phone string
	// Email, when set, replaces the address and restarts verification with
	// Code.
	Email string
	Code  *structs.VerificationCode
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *structs.User) (*structs.User, error)
	FindByID(ctx context.Context, id string) (*structs.User, error)
	FindByEmail(ctx context.Context, email string) (*structs.User, error)
	Delete(ctx context.Context, id string) error
	SetVerificationCode(ctx context.Context, id string, code structs.VerificationCode) error
	MarkEmailVerified(ctx context.Context, id, code string) (*structs.User, error)
	ResetPasswordWithCode(ctx context.Context, id, code, passwordHash string) (*structs.User, error)
	OpenResetWindow(ctx context.Context, id, code string, until time.Time) (*structs.User, error)
	SetPasswordInResetWindow(ctx context.Context, id, passwordHash string, now time.Time) (*structs.User, error)
	SetPassword(ctx context.Context, id, passwordHash string) error
	SetSession(ctx context.Context, id, accessToken, refreshToken string, at time.Time) (*structs.User, error)
	RotateAccessToken(ctx context.Context, id, accessToken string) error
	ClearSession(ctx context.Context, id string) error
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*structs.User, error)
	Count(ctx context.Context, verifiedOnly bool) (int64, error)
}

type userRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
	now        func() time.Time
}

// NewUserRepository creates a new user repository instance.
func NewUserRepository(db *mongo.Database, l *logger.Logger) UserRepository {
	return newUserRepository(db.Collection(UserCollection), l)
}

func newUserRepository(c *mongo.Collection, l *logger.Logger) *userRepository {
	return &userRepository{collection: c, logger: l, now: time.Now}
}

// EnsureUserIndexes creates the unique index on email.
func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UserCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *structs.User) (*structs.User, error) {
	now := r.now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		r.logger.Error(ctx, "failed to create user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info(ctx, "user created", "id", user.ID.Hex())
	return user, nil
}

// FindByID retrieves a user by ID.
func (r *userRepository) FindByID(ctx context.Context, id string) (*structs.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByEmail retrieves a user by normalized email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*structs.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*structs.User, error) {
	var user structs.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.logger.Error(ctx, "failed to find user", "error", err)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// Delete deletes a user by ID.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error(ctx, "failed to delete user", "id", id, "error", err)
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	r.logger.Info(ctx, "user deleted", "id", id)
	return nil
}

// SetVerificationCode writes code and expiry together.
func (r *userRepository) SetVerificationCode(ctx context.Context, id string, code structs.VerificationCode) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return r.updateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"verify_code":        code.Value,
			"verify_code_expiry": code.ExpiresAt,
			"updated_at":         r.now(),
		},
	})
}

// MarkEmailVerified consumes code and marks the email verified. The update
// is filtered on the code so concurrent submissions succeed at most once.
func (r *userRepository) MarkEmailVerified(ctx context.Context, id, code string) (*structs.User, error) {
	return r.consumeCode(ctx, id, code, bson.M{"verify_email": true})
}

// ResetPasswordWithCode consumes code and replaces the password hash.
func (r *userRepository) ResetPasswordWithCode(ctx context.Context, id, code, passwordHash string) (*structs.User, error) {
	return r.consumeCode(ctx, id, code, bson.M{"password": passwordHash})
}

// OpenResetWindow consumes code and allows one password change until until.
func (r *userRepository) OpenResetWindow(ctx context.Context, id, code string, until time.Time) (*structs.User, error) {
	return r.consumeCode(ctx, id, code, bson.M{"reset_allowed_until": until})
}

func (r *userRepository) consumeCode(ctx context.Context, id, code string, set bson.M) (*structs.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set["updated_at"] = r.now()

	return r.findOneAndUpdate(ctx,
		bson.M{"_id": oid, "verify_code": code},
		bson.M{
			"$set":   set,
			"$unset": bson.M{"verify_code": "", "verify_code_expiry": ""},
		},
	)
}

// SetPasswordInResetWindow replaces the password hash if a reset window is
// open at now, and closes the window.
func (r *userRepository) SetPasswordInResetWindow(ctx context.Context, id, passwordHash string, now time.Time) (*structs.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOneAndUpdate(ctx,
		bson.M{"_id": oid, "reset_allowed_until": bson.M{"$gte": now}},
		bson.M{
			"$set":   bson.M{"password": passwordHash, "updated_at": r.now()},
			"$unset": bson.M{"reset_allowed_until": ""},
		},
	)
}

// SetPassword replaces the password hash.
func (r *userRepository) SetPassword(ctx context.Context, id, passwordHash string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return r.updateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"password": passwordHash, "updated_at": r.now()},
	})
}

// SetSession persists freshly issued tokens and the login time.
func (r *userRepository) SetSession(ctx context.Context, id, accessToken, refreshToken string, at time.Time) (*structs.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"last_login_at": at,
			"updated_at":    r.now(),
		},
	})
}

// liveSession matches a user whose session was not cleared by a logout.
func liveSession(oid primitive.ObjectID) bson.M {
	return bson.M{"_id": oid, "refresh_token": bson.M{"$ne": nil}}
}

// RotateAccessToken stores a new access token while the user has a live
// session. ErrNotFound means the user logged out since.
func (r *userRepository) RotateAccessToken(ctx context.Context, id, accessToken string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return r.updateOne(ctx, liveSession(oid), bson.M{
		"$set": bson.M{"access_token": accessToken, "updated_at": r.now()},
	})
}

// ClearSession nulls both persisted tokens. Missing users are not an error.
func (r *userRepository) ClearSession(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	err = r.updateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"access_token": nil, "refresh_token": nil, "updated_at": r.now()},
	})
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// UpdateProfile changes profile fields. An email change resets verification.
func (r *userRepository) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*structs.User, error) {
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
	if upd.Email != "" {
		set["email"] = upd.Email
		set["verify_email"] = false
		if upd.Code != nil {
			set["verify_code"] = upd.Code.Value
			set["verify_code_expiry"] = upd.Code.ExpiresAt
		}
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
}

// Count counts users, optionally only verified ones.
func (r *userRepository) Count(ctx context.Context, verifiedOnly bool) (int64, error) {
	filter := bson.M{}
	if verifiedOnly {
		filter["verify_email"] = true
	}
	n, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error(ctx, "failed to count users", "error", err)
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *userRepository) updateOne(ctx context.Context, filter, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error(ctx, "failed to update user", "error", err)
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*structs.User, error) {
	result := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		r.logger.Error(ctx, "failed to update user", "error", err)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	var updated structs.User
	if err := result.Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated user: %w", err)
	}
	return &updated, nil
}
