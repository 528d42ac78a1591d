// Package cache stores serialized analysis reports keyed by a hash of
// the document content, so unchanged documents are never re-analyzed.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the result cache interface.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ContentKey derives a cache key from raw document bytes. Identical
// content always maps to the same key regardless of file name or path.
func ContentKey(content []byte) string {
	hash := sha256.Sum256(content)
	return "tramita:v1:" + hex.EncodeToString(hash[:])
}
