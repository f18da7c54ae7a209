package hashing

import (
	"bytes"
	"errors"

	"github.com/GehirnInc/crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"
)

// sha512-crypt work grows with key length, so the key is capped.
const sha512CryptMaxPasswordLength = 256

var sha512CryptPrefix = []byte("$6$")

// SHA512Crypt implements the "$6$" crypt(3) scheme used in /etc/shadow.
type SHA512Crypt struct{}

func NewSHA512Crypt() *SHA512Crypt {
	return &SHA512Crypt{}
}

// Hash generates a fresh random salt with the default number of rounds.
func (s *SHA512Crypt) Hash(password []byte) ([]byte, error) {
	h, err := sha512_crypt.New().Generate(password, nil)
	if err != nil {
		return nil, err
	}
	return []byte(h), nil
}

func (s *SHA512Crypt) Compare(hash, password []byte) (bool, error) {
	err := sha512_crypt.New().Verify(string(hash), password)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, crypt.ErrKeyMismatch):
		return false, nil
	default:
		return false, err
	}
}

func (s *SHA512Crypt) Recognizes(hash []byte) bool {
	return bytes.HasPrefix(hash, sha512CryptPrefix)
}

func (s *SHA512Crypt) MaxPasswordLength() int {
	return sha512CryptMaxPasswordLength
}
