// Package hash fingerprints template documents.
//
// The template loader keys its parse cache on the SHA-256 of a document's bytes,
// so an unchanged file is never decoded twice and an edited file always is. The
// same digest is carried into build history so a build can be traced back to the
// exact template revision that produced it.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher computes content digests.
type Hasher interface {
	// HashBytes returns the hex digest of data.
	HashBytes(data []byte) string
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashBytes computes the SHA-256 digest of data.
func (h *SHA256Hasher) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FakeHasher implements Hasher with caller-chosen digests for testing.
type FakeHasher struct {
	hashes map[string]string
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		hashes: make(map[string]string),
	}
}

// SetHash pins the digest returned for the given content.
func (h *FakeHasher) SetHash(content, digest string) {
	h.hashes[content] = digest
}

// HashBytes returns the pinned digest for data, or "fakehash".
func (h *FakeHasher) HashBytes(data []byte) string {
	if digest, ok := h.hashes[string(data)]; ok {
		return digest
	}
	return "fakehash"
}
