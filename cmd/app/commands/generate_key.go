package commands

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// RunGenerateKey generates a cryptographically secure 32-byte key for the
// encrypted cache and prints it in the requested encoding.
//
// Output format:
//   - CACHE_ENCRYPTION_KEY="<encoded-key>"
func RunGenerateKey(io IOTuple, encoding string) error {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	var encoded string
	switch encoding {
	case "base64":
		encoded = base64.StdEncoding.EncodeToString(key)
	case "hex":
		encoded = hex.EncodeToString(key)
	default:
		return fmt.Errorf("invalid encoding: %s (valid options: base64, hex)", encoding)
	}

	fmt.Fprintf(io.Writer, "CACHE_ENCRYPTION_KEY=%q\n", encoded)
	return nil
}
