package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// PairKey creates a deterministic cache key for the unordered pair (a, b).
// Both orderings of the same pair map to one key, so symmetric functions
// share a single memo entry. The NUL separator cannot occur in either
// sequence, which keeps distinct pairs from colliding.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

// HashKey returns a fixed-width form of a logical key, used by backends
// whose key space should stay bounded regardless of sequence lengths.
func HashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}
