package hashing

import "fmt"

var _ Hasher = (*Policy)(nil)

// Policy hashes with a primary scheme and verifies with whichever known
// scheme recognizes the stored blob.
type Policy struct {
	primary Hasher
	known   []Hasher
}

// NewPolicy returns a Policy hashing with primary and also accepting hashes
// produced by others.
func NewPolicy(primary Hasher, others ...Hasher) *Policy {
	known := make([]Hasher, 0, len(others)+1)
	known = append(known, primary)
	known = append(known, others...)
	return &Policy{primary: primary, known: known}
}

func (p *Policy) Hash(password []byte) ([]byte, error) {
	h, err := p.primary.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

// Compare returns ErrUnsupportedHash when no scheme recognizes hash, and the
// scheme's own error when the hash is malformed.
func (p *Policy) Compare(hash, password []byte) (bool, error) {
	for _, h := range p.known {
		if h.Recognizes(hash) {
			return h.Compare(hash, password)
		}
	}
	return false, ErrUnsupportedHash
}

func (p *Policy) Recognizes(hash []byte) bool {
	for _, h := range p.known {
		if h.Recognizes(hash) {
			return true
		}
	}
	return false
}

// MaxPasswordLength is the limit of the primary scheme, which hashes every
// new password.
func (p *Policy) MaxPasswordLength() int {
	return p.primary.MaxPasswordLength()
}
