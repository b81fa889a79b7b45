// Package secretx provides helpers for generating and wiping signing secrets.
package secretx

import (
	"crypto/rand"
	"encoding/hex"
)

// RandHex returns size random bytes hex-encoded, so the string is 2*size long.
func RandHex(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Wipe zeroes b. A nil slice is a no-op.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
