package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"hash"
)

// hashKey returns prefix + ":" + the SHA-256 of parts encoded as JSON.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// ContentHash accumulates bytes written to it into a SHA-256 digest, so
// large read sets can be hashed without buffering them.
type ContentHash struct {
	h hash.Hash
}

// NewContentHash returns an empty digest.
func NewContentHash() *ContentHash {
	return &ContentHash{h: sha256.New()}
}

// Write implements io.Writer. It never fails.
func (c *ContentHash) Write(p []byte) (int, error) {
	return c.h.Write(p)
}

// Sum returns the 64-character hex digest of everything written so far.
func (c *ContentHash) Sum() string {
	return hex.EncodeToString(c.h.Sum(nil))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	c := NewContentHash()
	c.Write(data)
	return c.Sum()
}
