package utils

import (
	"crypto/sha256" // SHA-256 hashing for session ids
	"encoding/hex"  // hex encoding of the digest
)

// HashSessionID returns the SHA-256 hex digest of a raw session id.  Stores
// key sessions by this digest so a leaked store does not hand out live
// cookies.
func HashSessionID(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
