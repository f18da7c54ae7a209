// Package hashing turns passwords into self-describing hash blobs and checks
// candidates against them. Every hash carries its own random salt and scheme
// prefix, so blobs can be stored verbatim.
package hashing

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credkeeper/internal/config"
)

// ErrUnsupportedHash is returned when no known scheme recognizes a stored blob.
var ErrUnsupportedHash = errors.New("unsupported password hash")

// Hasher is one password hashing scheme.
//
// Compare reports (false, nil) for a well-formed hash that does not match and
// a non-nil error only when the hash itself cannot be used. Comparison is
// constant-time with respect to the password.
type Hasher interface {
	Hash(password []byte) ([]byte, error)
	Compare(hash, password []byte) (bool, error)
	Recognizes(hash []byte) bool
	MaxPasswordLength() int
}

// New builds the hashing policy described by cfg. New hashes use
// cfg.HashAlgorithm; stored hashes of any supported scheme still verify.
func New(cfg *config.Config) (*Policy, error) {
	bc := NewBcrypt(cfg.BcryptCost)
	sc := NewSHA512Crypt()

	switch cfg.HashAlgorithm {
	case config.HashBcrypt:
		return NewPolicy(bc, sc), nil
	case config.HashSHA512Crypt:
		return NewPolicy(sc, bc), nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", cfg.HashAlgorithm)
	}
}
