package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

const sha256Prefix = "sha256:"

type SHA256 struct{}

// Digest returns the payload checksum in "sha256:<hex>" form.
func (SHA256) Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return sha256Prefix + hex.EncodeToString(sum[:])
}
