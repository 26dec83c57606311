package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// FileHash returns the SHA-256 hex digest of file bytes, used for
// deduplication and the audit trail.
func FileHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
