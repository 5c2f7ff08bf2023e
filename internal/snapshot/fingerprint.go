package snapshot

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Fingerprint is a digest over a snapshot's (name, body) pairs in order.
// Two snapshots fingerprint identically iff their records match pairwise.
type Fingerprint [sha256.Size]byte

// String returns the hex encoding of the fingerprint.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Compute derives the fingerprint of a snapshot.
//
// Each field is length-prefixed with a uvarint before hashing, so record
// boundaries are unambiguous: ("a", "bc") and ("ab", "c") produce different
// digests even though their concatenations are equal.
func Compute(s Snapshot) Fingerprint {
	h := sha256.New()
	var buf [binary.MaxVarintLen64]byte
	for _, r := range s {
		n := binary.PutUvarint(buf[:], uint64(len(r.Name)))
		h.Write(buf[:n])
		h.Write([]byte(r.Name))
		n = binary.PutUvarint(buf[:], uint64(len(r.Body)))
		h.Write(buf[:n])
		h.Write(r.Body)
	}
	var f Fingerprint
	h.Sum(f[:0])
	return f
}
