package store

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	boltBucket = []byte("session")
	boltKey    = []byte("current")
)

// Bolt stores the blob in a BBolt database.
type Bolt struct {
	db *bbolt.DB
}

var _ Store = (*Bolt)(nil)

// NewBolt returns a store backed by the given BBolt database.
func NewBolt(db *bbolt.DB) *Bolt {
	return &Bolt{db: db}
}

// NewBoltFromFile opens a BBolt database at the given path and returns a
// store over it.
func NewBoltFromFile(path string, options *bbolt.Options) (*Bolt, error) {
	db, err := bbolt.Open(path, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewBolt(db), nil
}

// Close closes the underlying BBolt database.
func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) Write(_ context.Context, blob []byte) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(boltBucket)
		if err != nil {
			return err
		}
		return bucket.Put(boltKey, blob)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (b *Bolt) Read(_ context.Context) ([]byte, error) {
	var blob []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if bucket == nil {
			return ErrNoSession
		}
		data := bucket.Get(boltKey)
		if data == nil {
			return ErrNoSession
		}
		blob = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		if err == ErrNoSession {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return blob, nil
}
