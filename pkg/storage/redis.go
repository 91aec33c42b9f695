package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/Mark0025/peterental/pkg/lifecycle"
)

type redisStore struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

func newRedis(cfg *RedisConfig, logger *slog.Logger) (System, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &redisStore{
		client: client,
		prefix: cfg.Prefix,
		logger: logger,
	}, nil
}

func (r *redisStore) Start(lc *lifecycle.Coordinator) error {
	r.logger.Info("starting storage system", "addr", r.client.Options().Addr)

	if err := r.client.Ping(lc.Context()).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := r.client.Close(); err != nil {
			r.logger.Error("redis close failed", "error", err)
		}
	})

	return nil
}

func (r *redisStore) Store(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func (r *redisStore) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: %w", key, err)
	}
	return data, nil
}

func (r *redisStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (r *redisStore) Validate(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	n, err := r.client.Exists(ctx, r.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("validate %s: %w", key, err)
	}
	return n > 0, nil
}
