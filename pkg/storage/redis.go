package storage

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/situationroom/pkg/dashboard"
	errs "github.com/matzehuels/situationroom/pkg/errors"
)

// DefaultRedisKey is the key used when RedisConfig.Key is empty.
const DefaultRedisKey = "sitroom:state"

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisStore stores the state under a single Redis key.
type RedisStore struct {
	client *redis.Client
	key    string
	logger *log.Logger
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig, opts ...Option) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "connect to redis at %s", cfg.Addr)
	}
	return NewRedisStoreFromClient(client, cfg.Key, opts...), nil
}

// NewRedisStoreFromClient wraps an existing client. An empty key means
// DefaultRedisKey.
func NewRedisStoreFromClient(client *redis.Client, key string, opts ...Option) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	o := buildOptions(opts)
	return &RedisStore{client: client, key: key, logger: o.logger}
}

func (s *RedisStore) Load(ctx context.Context) (*dashboard.State, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "read state from redis")
	}
	return Unmarshal(data, s.logger)
}

func (s *RedisStore) Save(ctx context.Context, st dashboard.State) error {
	data, err := Marshal(st)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "write state to redis")
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete state from redis")
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
