package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash generates a SHA-256 hash of the input string
func Hash(input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

// HashKey hashes the trimmed, lower-cased input so that differently cased
// spellings of the same identifier map to one key
func HashKey(input string) string {
	return Hash(strings.ToLower(strings.TrimSpace(input)))
}
