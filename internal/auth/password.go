package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// PBKDF2Iterations is the derivation cost for newly hashed passwords.
	PBKDF2Iterations = 600000

	pbkdf2Prefix = "pbkdf2:"
	saltLength   = 16
	keyLength    = 32
)

// HashPassword derives a salted PBKDF2-HMAC-SHA256 hash and encodes it as
// pbkdf2:<iterations>:<saltHex>:<hashHex>.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), salt, PBKDF2Iterations, keyLength, sha256.New)
	return fmt.Sprintf("%s%d:%s:%s", pbkdf2Prefix, PBKDF2Iterations,
		hex.EncodeToString(salt), hex.EncodeToString(key)), nil
}

// VerifyPassword checks a password against a stored hash. The stored format
// is detected by prefix: pbkdf2-encoded hashes are re-derived with the stored
// iteration count and salt; anything else is treated as the legacy
// saltHex:hashHex format, a single SHA-256 over saltHex+password. A matching
// legacy hash reports needsRehash so the caller can upgrade it in place.
// Malformed stored hashes fail closed.
func VerifyPassword(password, storedHash string) (valid, needsRehash bool) {
	if strings.HasPrefix(storedHash, pbkdf2Prefix) {
		parts := strings.Split(storedHash, ":")
		if len(parts) != 4 {
			return false, false
		}
		iterations, err := strconv.Atoi(parts[1])
		if err != nil || iterations <= 0 {
			return false, false
		}
		salt, err := hex.DecodeString(parts[2])
		if err != nil {
			return false, false
		}
		expected, err := hex.DecodeString(parts[3])
		if err != nil || len(expected) == 0 {
			return false, false
		}
		key := pbkdf2.Key([]byte(password), salt, iterations, len(expected), sha256.New)
		return subtle.ConstantTimeCompare(key, expected) == 1, false
	}

	// Legacy format: saltHex:hashHex with hash = SHA-256(saltHex + password).
	parts := strings.SplitN(storedHash, ":", 2)
	if len(parts) != 2 {
		return false, false
	}
	expected, err := hex.DecodeString(parts[1])
	if err != nil || len(expected) != sha256.Size {
		return false, false
	}
	sum := sha256.Sum256([]byte(parts[0] + password))
	return subtle.ConstantTimeCompare(sum[:], expected) == 1, true
}
