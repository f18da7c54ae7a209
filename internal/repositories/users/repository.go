// Package users implements the credential store: a durable mapping from
// username to password hash with store-enforced uniqueness.
//
// Every method round-trips the backing store; there is no cache. Storage
// faults are returned as *common.StoreError.
package users

import "context"

// Repository is the credential store contract shared by all backends.
type Repository interface {
	// EnsureSchema creates the users table or bucket if it is absent.
	// Repeated calls are harmless.
	EnsureSchema(ctx context.Context) error

	// Exists reports whether a record for userName is present.
	Exists(ctx context.Context, userName string) (bool, error)

	// Insert stores a new record. The existence check and the write are a
	// single atomic step; a conflicting username yields common.ErrDuplicateUser.
	Insert(ctx context.Context, userName string, passwordHash []byte) error

	// Lookup returns the stored hash, or common.ErrorNotFound.
	Lookup(ctx context.Context, userName string) ([]byte, error)
}
