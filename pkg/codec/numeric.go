package codec

import (
	"encoding/binary"
	"math"
)

const hexDigits = "0123456789ABCDEF"

// PutInt32 writes v into the first 4 bytes of b (big-endian)
func PutInt32(b []byte, v int32) {
	binary.BigEndian.PutUint32(b, uint32(v))
}

// Int32 reads a big-endian int32 from the first 4 bytes of b
func Int32(b []byte) int32 {
	return int32(binary.BigEndian.Uint32(b))
}

// PutInt64 writes v into the first 8 bytes of b (big-endian)
func PutInt64(b []byte, v int64) {
	binary.BigEndian.PutUint64(b, uint64(v))
}

// Int64 reads a big-endian int64 from the first 8 bytes of b
func Int64(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}

// PutFloat32 writes the IEEE-754 bits of v into the first 4 bytes of b
func PutFloat32(b []byte, v float32) {
	binary.BigEndian.PutUint32(b, math.Float32bits(v))
}

// Float32 reads an IEEE-754 single from the first 4 bytes of b
func Float32(b []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}

// MagicHex renders a 4-byte magic as 8 uppercase hex characters, e.g. "CAFEBEEF"
func MagicHex(b [4]byte) string {
	var out [8]byte
	for i, v := range b {
		out[i*2] = hexDigits[v>>4]
		out[i*2+1] = hexDigits[v&0x0F]
	}
	return string(out[:])
}
