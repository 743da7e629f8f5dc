package credstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/String-Atharv/Event-Hub-sub001/internal/errors"
	"go.etcd.io/bbolt"
)

var rootBucket = []byte("credentials")

// BoltStore implements Store backed by a BBolt database. Each scope is a
// nested bucket under a single root bucket, so values survive restarts.
type BoltStore struct {
	db *bbolt.DB
}

var _ Store = (*BoltStore)(nil)

// NewBoltStore returns a Store backed by the given BBolt database.
func NewBoltStore(db *bbolt.DB) (*BoltStore, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(rootBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating root bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// OpenBoltStore opens (or creates) a BBolt database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	s, err := NewBoltStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying BBolt database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Get(scope, key string) (string, bool, error) {
	if err := checkScopeKey(scope, key); err != nil {
		return "", false, err
	}

	var (
		value string
		ok    bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(rootBucket).Bucket([]byte(scope))
		if b == nil {
			return nil
		}
		if data := b.Get([]byte(key)); data != nil {
			value, ok = string(data), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("reading %s/%s: %w", scope, key, err)
	}
	return value, ok, nil
}

func (s *BoltStore) Set(scope, key, value string) error {
	if err := checkScopeKey(scope, key); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.Bucket(rootBucket).CreateBucketIfNotExists([]byte(scope))
		if err != nil {
			return fmt.Errorf("creating scope bucket: %w", err)
		}
		return b.Put([]byte(key), []byte(value))
	})
}

// Update applies all changes in one bbolt transaction.
func (s *BoltStore) Update(scope string, set map[string]string, remove ...string) error {
	if err := checkKeys(scope, set, remove); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(rootBucket)
		b, err := root.CreateBucketIfNotExists([]byte(scope))
		if err != nil {
			return fmt.Errorf("creating scope bucket: %w", err)
		}
		for key, value := range set {
			if err := b.Put([]byte(key), []byte(value)); err != nil {
				return err
			}
		}
		for _, key := range remove {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		if k, _ := b.Cursor().First(); k == nil {
			return root.DeleteBucket([]byte(scope))
		}
		return nil
	})
}

func (s *BoltStore) Delete(scope string, keys ...string) error {
	for _, key := range keys {
		if err := checkScopeKey(scope, key); err != nil {
			return err
		}
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(rootBucket)
		b := root.Bucket([]byte(scope))
		if b == nil {
			return nil
		}
		for _, key := range keys {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		// Drop the scope once it holds nothing
		if k, _ := b.Cursor().First(); k == nil {
			return root.DeleteBucket([]byte(scope))
		}
		return nil
	})
}

func (s *BoltStore) Clear(scope string) error {
	if scope == "" {
		return errors.Wrapf(errors.ErrInvalidArgument, "scope cannot be empty")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(rootBucket)
		if root.Bucket([]byte(scope)) == nil {
			return nil
		}
		return root.DeleteBucket([]byte(scope))
	})
}
