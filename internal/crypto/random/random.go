// Package random fixes insecure nonce/key material before it reaches an
// AEAD call, adapted from the teacher's crypto/random helper.
package random

import (
	"crypto/rand"
	"fmt"
)

// PopulateEmptySlice replaces slice with fresh random bytes of size when it
// is nil, empty, all-zero, or all one repeated byte — the patterns a
// caller-supplied nonce buffer can end up in by mistake. A properly
// generated nonce is left untouched.
func PopulateEmptySlice(slice *[]byte, size int) error {
	if len(*slice) == 0 {
		*slice = make([]byte, size)
	}
	if isAllIdentical(*slice) {
		if _, err := rand.Read(*slice); err != nil {
			return fmt.Errorf("random: populate slice: %w", err)
		}
	}
	return nil
}

func isAllIdentical(slice []byte) bool {
	if len(slice) == 0 {
		return true
	}
	first := slice[0]
	for _, b := range slice[1:] {
		if b != first {
			return false
		}
	}
	return true
}
