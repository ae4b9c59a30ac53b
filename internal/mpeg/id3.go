package mpeg

import (
	binutil "github.com/simonhull/audiotags/internal/binary"
)

// TagSize returns the on-disk size of a leading ID3v2 tag, header and
// footer included, or 0 if the stream does not start with one.
func TagSize(sr *binutil.SafeReader) int64 {
	buf, err := sr.Bytes(0, 10, "ID3v2 header")
	if err != nil || string(buf[0:3]) != "ID3" {
		return 0
	}

	size := int64(10 + decodeSynchsafe(buf[6:10]))

	// Footer present (ID3v2.4)
	if buf[5]&0x10 != 0 {
		size += 10
	}

	return size
}

// hasID3v1 reports whether the stream ends with a 128-byte ID3v1 tag.
func hasID3v1(sr *binutil.SafeReader) bool {
	if sr.Size() < 128 {
		return false
	}
	buf, err := sr.Bytes(sr.Size()-128, 3, "ID3v1 marker")
	return err == nil && string(buf) == "TAG"
}

// decodeSynchsafe decodes a 28-bit synchsafe integer (7 bits per byte).
func decodeSynchsafe(b []byte) uint32 {
	return uint32(b[0]&0x7F)<<21 | uint32(b[1]&0x7F)<<14 | uint32(b[2]&0x7F)<<7 | uint32(b[3]&0x7F)
}
