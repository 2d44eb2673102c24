package storage

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	bolt "go.etcd.io/bbolt"

	"github.com/matzehuels/situationroom/pkg/dashboard"
	errs "github.com/matzehuels/situationroom/pkg/errors"
)

const (
	bucketState = "state"
	keyState    = "dashboards"
)

// BoltStore stores the state in an embedded bbolt database.
type BoltStore struct {
	db     *bolt.DB
	logger *log.Logger
}

// NewBoltStore opens or creates the database at path.
func NewBoltStore(path string, opts ...Option) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "create state dir")
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "open bolt database %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketState))
		return err
	})
	if err != nil {
		db.Close()
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "initialize state bucket")
	}
	o := buildOptions(opts)
	return &BoltStore{db: db, logger: o.logger}, nil
}

func (s *BoltStore) Load(ctx context.Context) (*dashboard.State, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketState)).Get([]byte(keyState)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "read state")
	}
	if data == nil {
		return nil, nil
	}
	return Unmarshal(data, s.logger)
}

func (s *BoltStore) Save(ctx context.Context, st dashboard.State) error {
	data, err := Marshal(st)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketState)).Put([]byte(keyState), data)
	})
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "write state")
	}
	return nil
}

func (s *BoltStore) Clear(ctx context.Context) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketState)).Delete([]byte(keyState))
	})
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete state")
	}
	return nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

var _ Store = (*BoltStore)(nil)
