package storage

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/situationroom/pkg/dashboard"
	errs "github.com/matzehuels/situationroom/pkg/errors"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "sitroom"
	DefaultMongoCollection = "state"
	mongoDocumentID        = "dashboards"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// stateDocument holds the envelope as JSON text.
type stateDocument struct {
	ID        string    `bson:"_id"`
	Version   int       `bson:"version"`
	State     string    `bson:"state"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoStore stores the state as a single document.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *log.Logger
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig, opts ...Option) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, mopts.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "ping mongo")
	}

	db, coll := cfg.Database, cfg.Collection
	if db == "" {
		db = DefaultMongoDatabase
	}
	if coll == "" {
		coll = DefaultMongoCollection
	}
	o := buildOptions(opts)
	return &MongoStore{
		client: client,
		coll:   client.Database(db).Collection(coll),
		logger: o.logger,
	}, nil
}

func (s *MongoStore) Load(ctx context.Context) (*dashboard.State, error) {
	var doc stateDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": mongoDocumentID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "read state from mongo")
	}
	return Unmarshal([]byte(doc.State), s.logger)
}

func (s *MongoStore) Save(ctx context.Context, st dashboard.State) error {
	data, err := Marshal(st)
	if err != nil {
		return err
	}
	doc := stateDocument{
		ID:        mongoDocumentID,
		Version:   StorageVersion,
		State:     string(data),
		UpdatedAt: time.Now().UTC(),
	}
	opts := mopts.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": mongoDocumentID}, doc, opts); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "write state to mongo")
	}
	return nil
}

func (s *MongoStore) Clear(ctx context.Context) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": mongoDocumentID}); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete state from mongo")
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
