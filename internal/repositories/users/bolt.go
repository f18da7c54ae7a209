package users

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/boltdb/bolt"
	"github.com/dmitrijs2005/credkeeper/internal/common"
)

var usersBucket = []byte("users")

var errNoBucket = errors.New("users bucket missing, schema not initialised")

// BoltRepository keeps credentials in the users bucket of a bolt file.
// Bolt runs one read-write transaction at a time, which makes the
// get-then-put in Insert atomic.
//
// Bolt calls take no context. ctx, bounded by timeout, is checked before a
// transaction starts and again inside it, so a call that waited past the
// deadline for the writer lock rolls back instead of committing.
type BoltRepository struct {
	db      *bolt.DB
	timeout time.Duration
}

// NewBoltRepository binds a repository to db. A non-positive timeout
// disables the bound.
func NewBoltRepository(db *bolt.DB, timeout time.Duration) *BoltRepository {
	return &BoltRepository{db: db, timeout: timeout}
}

func (r *BoltRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *BoltRepository) EnsureSchema(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return common.NewStoreError("ensure schema", err)
	}
	err := r.db.Update(func(tx *bolt.Tx) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(usersBucket)
		return err
	})
	return common.NewStoreError("ensure schema", err)
}

func (r *BoltRepository) Exists(ctx context.Context, userName string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return false, common.NewStoreError("exists", err)
	}
	var exists bool
	err := r.db.View(func(tx *bolt.Tx) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		b := tx.Bucket(usersBucket)
		if b == nil {
			return errNoBucket
		}
		exists = b.Get([]byte(userName)) != nil
		return nil
	})
	if err != nil {
		return false, common.NewStoreError("exists", err)
	}
	return exists, nil
}

func (r *BoltRepository) Insert(ctx context.Context, userName string, passwordHash []byte) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return common.NewStoreError("insert", err)
	}
	err := r.db.Update(func(tx *bolt.Tx) error {
		// the writer lock may have taken longer than the deadline
		if err := ctx.Err(); err != nil {
			return err
		}
		b := tx.Bucket(usersBucket)
		if b == nil {
			return errNoBucket
		}
		key := []byte(userName)
		if b.Get(key) != nil {
			return common.ErrDuplicateUser
		}
		return b.Put(key, bytes.Clone(passwordHash))
	})
	if errors.Is(err, common.ErrDuplicateUser) {
		return err
	}
	return common.NewStoreError("insert", err)
}

func (r *BoltRepository) Lookup(ctx context.Context, userName string) ([]byte, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return nil, common.NewStoreError("lookup", err)
	}
	var hash []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		b := tx.Bucket(usersBucket)
		if b == nil {
			return errNoBucket
		}
		// values are only valid inside the transaction
		if v := b.Get([]byte(userName)); v != nil {
			hash = bytes.Clone(v)
		}
		return nil
	})
	if err != nil {
		return nil, common.NewStoreError("lookup", err)
	}
	if hash == nil {
		return nil, common.ErrorNotFound
	}
	return hash, nil
}
