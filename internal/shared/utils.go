// Package shared provides small helpers for handling secrets: reading
// cryptographically secure random bytes and wiping buffers after use.
package shared

import (
	"crypto/rand"
	"io"
)

// randReader is the entropy source; tests swap it to simulate failures.
var randReader io.Reader = rand.Reader

// RandomBytes returns size bytes read from the system CSPRNG.
//
// It returns an error if the random source fails or returns short.
func RandomBytes(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := io.ReadFull(randReader, b); err != nil {
		return nil, err
	}
	return b, nil
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Used to drop passwords read from the terminal once they have been consumed.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
