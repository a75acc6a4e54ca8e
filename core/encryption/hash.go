package encryption

import (
	"encoding/hex"
	"io"

	"golang.org/x/crypto/sha3"

	"pouw.net/core/common"
)

//ErrInvalidHash - hash is invalid error
var ErrInvalidHash = common.NewError("invalid_hash", "Invalid hash")

const HASH_LENGTH = 32

type HashBytes [HASH_LENGTH]byte

/*Hash - hash the given data and return the hash as hex string */
func Hash(data interface{}) string {
	return hex.EncodeToString(RawHash(data))
}

func IsHash(str string) bool {
	bytes, err := hex.DecodeString(str)
	return err == nil && len(bytes) == HASH_LENGTH
}

/*RawHash - Logic to hash the text and return the hash bytes */
func RawHash(data interface{}) []byte {
	var databuf []byte
	switch dataImpl := data.(type) {
	case []byte:
		databuf = dataImpl
	case HashBytes:
		databuf = dataImpl[:]
	case string:
		databuf = []byte(dataImpl)
	default:
		panic("unknown type")
	}
	hash := sha3.New256()
	hash.Write(databuf)
	var buf []byte
	return hash.Sum(buf)
}

// DomainHash hashes parts under a domain tag. Each part is length prefixed
// so that different splits of the same bytes never collide.
func DomainHash(tag string, parts ...[]byte) HashBytes {
	hash := sha3.New256()
	writeLengthPrefixed(hash, []byte(tag))
	for _, p := range parts {
		writeLengthPrefixed(hash, p)
	}
	var out HashBytes
	copy(out[:], hash.Sum(nil))
	return out
}

func writeLengthPrefixed(h io.Writer, b []byte) {
	n := uint32(len(b))
	h.Write([]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
	h.Write(b)
}
