package mediahash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes the hex-encoded sha256 digest of raw media bytes. The digest
// tags stored objects for integrity and observability; it is never used for
// access control.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
