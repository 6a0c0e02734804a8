package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashedKeyLength is the fixed width of a key digest in hex characters.
// Wide enough to correlate repeated lookups across log lines, short enough
// to stay obviously one-way.
const hashedKeyLength = 8

// HashKey returns a fixed-width one-way hex digest of a secret key.
// Logs, metrics, and cache stats identify keys only through this digest;
// the plaintext key never leaves the resolver's call path.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:hashedKeyLength]
}
