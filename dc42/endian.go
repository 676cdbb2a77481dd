package dc42

import "encoding/binary"

// Classic Macintosh structures store multi-byte integers big-endian.
// Callers guarantee the slice is long enough.

func ReadUint16(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

func ReadUint32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

func PutUint16(b []byte, v uint16) {
	binary.BigEndian.PutUint16(b, v)
}

func PutUint32(b []byte, v uint32) {
	binary.BigEndian.PutUint32(b, v)
}
