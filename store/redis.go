package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raushankrgupta/tryon-studio/models"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the list as a JSON string under Key.
type RedisStore struct {
	Client *redis.Client
	Key    string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
	Key      string
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{Client: rdb, Key: cfg.Key}, nil
}

func (s *RedisStore) Load(ctx context.Context) ([]models.SavedOutfit, error) {
	data, err := s.Client.Get(ctx, s.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read saved outfits: %w", err)
	}
	return decode(data)
}

func (s *RedisStore) Save(ctx context.Context, outfits []models.SavedOutfit) error {
	data, err := encode(outfits)
	if err != nil {
		return err
	}
	if err := s.Client.Set(ctx, s.Key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write saved outfits: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}
