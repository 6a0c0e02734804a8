// Package cache provides the TTL-bounded, encrypted-at-rest key/value store
// used by the secret resolver. Values are sealed with an authenticated cipher
// using a per-entry random nonce; plaintext is never stored.
package cache

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"golang.org/x/crypto/chacha20poly1305"

	apperrors "github.com/empirehq/trustcore/internal/errors"
)

// Algorithm selects the authenticated cipher used to seal cache entries.
type Algorithm string

const (
	// AESGCM is AES-256-GCM, hardware-accelerated on most server CPUs.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305, faster on CPUs without AES instructions.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// Cipher errors.
var (
	// ErrInvalidKeySize indicates the encryption key is not 32 bytes.
	ErrInvalidKeySize = apperrors.Wrap(apperrors.ErrInvalidInput, "encryption key must be 32 bytes")

	// ErrUnsupportedAlgorithm indicates an unknown cipher algorithm.
	ErrUnsupportedAlgorithm = apperrors.Wrap(apperrors.ErrInvalidInput, "unsupported cipher algorithm")
)

// AEAD is the symmetric authenticated cipher primitive sealing cache entries.
// Implementations are stateless and safe for concurrent use; each Encrypt
// call generates a fresh random nonce.
type AEAD interface {
	// Encrypt seals plaintext and returns the ciphertext with its nonce.
	Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error)

	// Decrypt opens ciphertext using the nonce it was sealed with.
	Decrypt(ciphertext, nonce []byte) ([]byte, error)
}

// NewCipher creates an AEAD instance for the given 32-byte key and algorithm.
// Returns ErrInvalidKeySize or ErrUnsupportedAlgorithm on bad input.
func NewCipher(key []byte, alg Algorithm) (AEAD, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKeySize
	}

	switch alg {
	case AESGCM:
		return newAESGCM(key)
	case ChaCha20:
		return newChaCha20Poly1305(key)
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}

// aeadCipher wraps a stdlib cipher.AEAD with random nonce generation.
type aeadCipher struct {
	aead cipher.AEAD
}

func newAESGCM(key []byte) (*aeadCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create AES cipher")
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create GCM")
	}

	return &aeadCipher{aead: aead}, nil
}

func newChaCha20Poly1305(key []byte) (*aeadCipher, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create ChaCha20-Poly1305 cipher")
	}

	return &aeadCipher{aead: aead}, nil
}

// Encrypt seals plaintext with a fresh 12-byte random nonce. The returned
// ciphertext carries the 16-byte authentication tag appended by the AEAD.
func (c *aeadCipher) Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to generate nonce")
	}

	ciphertext = c.aead.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// Decrypt verifies the authentication tag and opens the ciphertext.
// Tampered or mismatched input fails without returning plaintext.
func (c *aeadCipher) Decrypt(ciphertext, nonce []byte) ([]byte, error) {
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decrypt")
	}
	return plaintext, nil
}
