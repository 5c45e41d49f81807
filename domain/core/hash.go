package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
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

// Short returns the first 12 hex characters, for log lines.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// Hasher accumulates fields into a running sha256 with unambiguous separators.
type Hasher struct {
	buf []byte
}

// Add appends one field. Fields are separated by 0x1f so "ab","c" != "a","bc".
func (h *Hasher) Add(field string) *Hasher {
	h.buf = append(h.buf, field...)
	h.buf = append(h.buf, 0x1f)
	return h
}

// EndRecord marks a record boundary.
func (h *Hasher) EndRecord() *Hasher {
	h.buf = append(h.buf, 0x1e)
	return h
}

// Sum returns the hash of everything added so far.
func (h *Hasher) Sum() Hash {
	return NewHash(h.buf)
}
