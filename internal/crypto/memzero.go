// Package crypto holds small helpers shared by the encrypted sink: zeroing
// key material after use and hardening caller-supplied nonces.
package crypto

// Memzero overwrites every byte of b with zero in place. It is a
// best-effort defense against key material lingering in memory after use;
// it does not prevent the Go runtime from having copied b earlier (escape
// analysis, GC moves, swap).
func Memzero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
