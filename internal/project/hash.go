package project

import (
	"crypto/sha256"
	"encoding/binary"
)

// Digest is a SHA-256 hash.
type Digest [32]byte

// Combine hashes a sequence of length-prefixed parts, so ("ab","c") and
// ("a","bc") differ.
func Combine(parts ...[]byte) Digest {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(n[:], uint64(len(p)))
		_, _ = h.Write(n[:])
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
