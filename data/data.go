// Package data manages the MongoDB and Redis connections of shopfront.
package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/shopfront/config"
	"github.com/ncobase/shopfront/data/repository"
	"github.com/ncobase/shopfront/logging/logger"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Data encapsulates all data layer dependencies.
type Data struct {
	client *mongo.Client
	db     *mongo.Database
	redis  *redis.Client
	logger *logger.Logger

	UserRepo   repository.UserRepository
	AdminRepo  repository.AdminRepository
	MyListRepo repository.MyListRepository
}

// New connects to MongoDB, ensures indexes and, when configured, connects
// to Redis.
func New(ctx context.Context, cfg *config.Data, l *logger.Logger) (*Data, error) {
	if cfg == nil || cfg.MongoDB == nil || cfg.MongoDB.URI == "" {
		return nil, fmt.Errorf("mongodb uri is required")
	}

	connCtx, cancel := context.WithTimeout(ctx, cfg.MongoDB.Timeout)
	defer cancel()

	client, err := mongo.Connect(connCtx, options.Client().
		ApplyURI(cfg.MongoDB.URI).
		SetTimeout(cfg.MongoDB.Timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	l.Info(ctx, "connected to MongoDB", "database", cfg.MongoDB.Database)

	db := client.Database(cfg.MongoDB.Database)
	for _, ensure := range []func(context.Context, *mongo.Database) error{
		repository.EnsureUserIndexes,
		repository.EnsureAdminIndexes,
		repository.EnsureMyListIndexes,
	} {
		if err := ensure(connCtx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
	}

	d := &Data{
		client:     client,
		db:         db,
		logger:     l,
		UserRepo:   repository.NewUserRepository(db, l),
		AdminRepo:  repository.NewAdminRepository(db, l),
		MyListRepo: repository.NewMyListRepository(db, l),
	}

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(ctx, cfg.Redis)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		d.redis = rdb
		l.Info(ctx, "connected to Redis", "addr", cfg.Redis.Addr)
	}

	return d, nil
}

func newRedis(ctx context.Context, cfg *config.Redis) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Username:    cfg.Username,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return rdb, nil
}

// Close closes the MongoDB and Redis connections.
func (d *Data) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := d.client.Disconnect(ctx); err != nil {
		errs = append(errs, fmt.Errorf("disconnect mongodb: %w", err))
	}
	return errors.Join(errs...)
}

// DB returns the MongoDB database instance.
func (d *Data) DB() *mongo.Database {
	return d.db
}

// Redis returns the Redis client, nil when Redis is not configured.
func (d *Data) Redis() *redis.Client {
	return d.redis
}
