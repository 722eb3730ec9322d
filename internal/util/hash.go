package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex fingerprints inputs for the call audit without storing them.
func SHA256Hex(b []byte) string {
	x := sha256.Sum256(b)
	return hex.EncodeToString(x[:])
}
