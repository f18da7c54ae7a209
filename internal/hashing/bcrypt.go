package hashing

import (
	"bytes"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past 72 bytes; longer passwords are rejected
// rather than silently truncated.
const bcryptMaxPasswordLength = 72

var bcryptPrefix = []byte("$2")

type Bcrypt struct {
	cost int
}

func NewBcrypt(cost int) *Bcrypt {
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(password []byte) ([]byte, error) {
	return bcrypt.GenerateFromPassword(password, b.cost)
}

// Compare rejects passwords over the limit up front: bcrypt only looks at the
// first 72 bytes, so a longer candidate could match a shorter original.
func (b *Bcrypt) Compare(hash, password []byte) (bool, error) {
	if len(password) > bcryptMaxPasswordLength {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword(hash, password)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

func (b *Bcrypt) Recognizes(hash []byte) bool {
	return bytes.HasPrefix(hash, bcryptPrefix)
}

func (b *Bcrypt) MaxPasswordLength() int {
	return bcryptMaxPasswordLength
}
