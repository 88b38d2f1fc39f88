package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash is the hex SHA-256 of a resource body
type Hash string

// NewHash hashes data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 16 hex characters
func (h Hash) Short() string {
	if len(h) <= 16 {
		return string(h)
	}
	return string(h[:16])
}

// ETag formats the hash as a strong HTTP entity tag
func (h Hash) ETag() string {
	return `"` + h.Short() + `"`
}
