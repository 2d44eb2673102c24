package storage

import (
	"context"

	errs "github.com/matzehuels/situationroom/pkg/errors"
)

// Backend names a storage implementation.
type Backend string

// Backends.
const (
	BackendFile   Backend = "file"
	BackendBolt   Backend = "bolt"
	BackendRedis  Backend = "redis"
	BackendMongo  Backend = "mongo"
	BackendMemory Backend = "memory"
)

// Backends lists the supported backends.
var Backends = []Backend{BackendFile, BackendBolt, BackendRedis, BackendMongo, BackendMemory}

// Options selects and configures a backend.
type Options struct {
	Backend Backend `toml:"backend"`
	// Path is the state file (file) or database file (bolt).
	Path string `toml:"path"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisKey      string `toml:"redis_key"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Validate checks that the selected backend has what it needs.
func (o Options) Validate() error {
	switch o.Backend {
	case BackendFile, BackendMemory, "":
	case BackendBolt:
		if o.Path == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "bolt storage requires a path")
		}
	case BackendRedis:
		if o.RedisAddr == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "redis storage requires redis_addr")
		}
	case BackendMongo:
		if o.MongoURI == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "mongo storage requires mongo_uri")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown storage backend %q", o.Backend)
	}
	return nil
}

// Open creates the store selected by o. An empty backend means file.
func Open(ctx context.Context, o Options, opts ...Option) (Store, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	switch o.Backend {
	case BackendBolt:
		return NewBoltStore(o.Path, opts...)
	case BackendRedis:
		return NewRedisStore(ctx, RedisConfig{
			Addr:     o.RedisAddr,
			Password: o.RedisPassword,
			DB:       o.RedisDB,
			Key:      o.RedisKey,
		}, opts...)
	case BackendMongo:
		return NewMongoStore(ctx, MongoConfig{
			URI:        o.MongoURI,
			Database:   o.MongoDatabase,
			Collection: o.MongoCollection,
		}, opts...)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return NewFileStore(o.Path, opts...)
	}
}

// Name returns the backend name of s, or "custom" for stores defined
// outside this package.
func Name(s Store) string {
	switch s.(type) {
	case *FileStore:
		return string(BackendFile)
	case *BoltStore:
		return string(BackendBolt)
	case *RedisStore:
		return string(BackendRedis)
	case *MongoStore:
		return string(BackendMongo)
	case *MemoryStore:
		return string(BackendMemory)
	}
	return "custom"
}
