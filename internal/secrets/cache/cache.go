package cache

import (
	"encoding/base64"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/empirehq/trustcore/internal/errors"
	secretsDomain "github.com/empirehq/trustcore/internal/secrets/domain"
)

// entry is one sealed cache record. Plaintext is never stored; the cipher
// bytes and nonce are the only persisted form of a resolved value.
type entry struct {
	cipherBytes []byte
	nonce       []byte
	source      secretsDomain.Source
	storedAt    time.Time
	expiresAt   time.Time
}

// EntryStats describes one cache entry without exposing its value or raw key.
type EntryStats struct {
	HashedKey string               `json:"hashed_key"`
	Source    secretsDomain.Source `json:"source"`
	AgeMs     int64                `json:"age_ms"`
}

// Stats is a point-in-time snapshot of the cache.
type Stats struct {
	Size      int          `json:"size"`
	Encrypted bool         `json:"encrypted"`
	Entries   []EntryStats `json:"entries"`
}

// EncryptedCache is a TTL-bounded key/value store holding secret values
// encrypted at rest. Expiry is lazy: entries are checked and evicted on read,
// not by a background sweep, so an expired-but-unread entry occupies memory
// until next accessed or until Clear runs.
//
// If the configured encryption key is malformed the cache degrades to a
// reversible base64 encoding instead of failing resolution: values still
// round-trip correctly, a warning is logged once at construction, and
// Stats reports Encrypted=false so operators can detect the posture.
type EncryptedCache struct {
	mu      sync.Mutex
	entries map[string]entry
	cipher  AEAD
	logger  *slog.Logger
}

// New creates a cache sealing entries with the given 32-byte key and
// algorithm. A malformed key degrades the cache to plain encoding rather
// than breaking the resolver's contract.
func New(key []byte, alg Algorithm, logger *slog.Logger) *EncryptedCache {
	c := &EncryptedCache{
		entries: make(map[string]entry),
		logger:  logger,
	}

	cipher, err := NewCipher(key, alg)
	if err != nil {
		logger.Warn("cache encryption disabled: invalid encryption key, falling back to reversible encoding",
			slog.Any("error", err),
		)
		return c
	}

	c.cipher = cipher
	return c
}

// Encrypted reports whether entries are sealed with an authenticated cipher.
func (c *EncryptedCache) Encrypted() bool {
	return c.cipher != nil
}

// Set encrypts the value and stores it under the key with the given TTL.
// Encryption is always attempted before the write; a sealing failure aborts
// the write and is returned to the caller.
func (c *EncryptedCache) Set(key, value string, source secretsDomain.Source, ttl time.Duration) error {
	cipherBytes, nonce, err := c.seal([]byte(value))
	if err != nil {
		return apperrors.Wrap(err, "failed to seal cache entry")
	}

	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		cipherBytes: cipherBytes,
		nonce:       nonce,
		source:      source,
		storedAt:    now,
		expiresAt:   now.Add(ttl),
	}

	return nil
}

// Get decrypts and returns the value for the key. An entry at or past its
// expiry is evicted and reported as a miss. An entry that fails to open
// (e.g. after a key rotation) is evicted the same way rather than surfacing
// an error to the resolution path.
func (c *EncryptedCache) Get(key string) (string, secretsDomain.Source, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", "", false
	}

	if !time.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		return "", "", false
	}

	plaintext, err := c.open(e.cipherBytes, e.nonce)
	if err != nil {
		c.logger.Warn("evicting unreadable cache entry",
			slog.String("hashed_key", secretsDomain.HashKey(key)),
			slog.Any("error", err),
		)
		delete(c.entries, key)
		return "", "", false
	}

	return string(plaintext), e.source, true
}

// Stats returns a snapshot of the cache. Keys are reported only as one-way
// digests and values are never included.
func (c *EncryptedCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	stats := Stats{
		Size:      len(c.entries),
		Encrypted: c.cipher != nil,
		Entries:   make([]EntryStats, 0, len(c.entries)),
	}

	for key, e := range c.entries {
		stats.Entries = append(stats.Entries, EntryStats{
			HashedKey: secretsDomain.HashKey(key),
			Source:    e.source,
			AgeMs:     now.Sub(e.storedAt).Milliseconds(),
		})
	}

	return stats
}

// Clear removes every entry.
func (c *EncryptedCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// seal encrypts plaintext, or falls back to base64 when degraded.
func (c *EncryptedCache) seal(plaintext []byte) (cipherBytes, nonce []byte, err error) {
	if c.cipher == nil {
		return []byte(base64.StdEncoding.EncodeToString(plaintext)), nil, nil
	}
	return c.cipher.Encrypt(plaintext)
}

// open decrypts cipherBytes, or reverses the base64 fallback when degraded.
func (c *EncryptedCache) open(cipherBytes, nonce []byte) ([]byte, error) {
	if c.cipher == nil {
		return base64.StdEncoding.DecodeString(string(cipherBytes))
	}
	return c.cipher.Decrypt(cipherBytes, nonce)
}
