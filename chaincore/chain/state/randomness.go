package state

import (
	"encoding/binary"

	sha256 "github.com/minio/sha256-simd"
)

// SeededRandomness derives sha256(seed || round || subject).
type SeededRandomness struct {
	Seed []byte
}

func (r SeededRandomness) Random(round int64, subject []byte) [32]byte {
	h := sha256.New()
	h.Write(r.Seed)
	var rb [8]byte
	binary.BigEndian.PutUint64(rb[:], uint64(round))
	h.Write(rb[:])
	h.Write(subject)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
