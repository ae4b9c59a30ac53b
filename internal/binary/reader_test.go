package binary

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

// mockReader implements io.ReaderAt for testing.
type mockReader struct {
	data []byte
}

func (m *mockReader) ReadAt(p []byte, off int64) (n int, err error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func TestSafeReader_ReadAt_Success(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.mp3")

	buf := make([]byte, 2)
	if err := sr.ReadAt(buf, 1, "test data"); err != nil {
		t.Fatalf("ReadAt() error = %v", err)
	}
	if !bytes.Equal(buf, []byte{0x02, 0x03}) {
		t.Errorf("ReadAt() = %v, want [2 3]", buf)
	}
	if sr.Path() != "test.mp3" || sr.Size() != 4 {
		t.Errorf("Path/Size = %q/%d", sr.Path(), sr.Size())
	}
}

func TestSafeReader_ReadAt_OutOfBounds(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.mp3")

	tests := []struct {
		name   string
		offset int64
		length int
		want   string
	}{
		{"offset past end", 10, 1, "out of bounds"},
		{"negative offset", -1, 1, "out of bounds"},
		{"read past end", 2, 4, "would exceed file size"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := sr.ReadAt(make([]byte, tc.length), tc.offset, "frame header")

			var oob *OutOfBoundsError
			if !errors.As(err, &oob) {
				t.Fatalf("ReadAt() error = %v, want *OutOfBoundsError", err)
			}
			if !strings.Contains(err.Error(), tc.want) || !strings.Contains(err.Error(), "frame header") {
				t.Errorf("error = %q, want it to mention %q and the field", err.Error(), tc.want)
			}
		})
	}
}

func TestRead(t *testing.T) {
	data := []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test")

	u8, err := Read[uint8](sr, 0, "u8")
	if err != nil || u8 != 0x12 {
		t.Errorf("Read[uint8] = %#x, %v", u8, err)
	}

	u16, err := Read[uint16](sr, 0, "u16")
	if err != nil || u16 != 0x1234 {
		t.Errorf("Read[uint16] = %#x, %v", u16, err)
	}

	u32, err := Read[uint32](sr, 0, "u32")
	if err != nil || u32 != 0x12345678 {
		t.Errorf("Read[uint32] = %#x, %v", u32, err)
	}

	u64, err := Read[uint64](sr, 0, "u64")
	if err != nil || u64 != 0x123456789ABCDEF0 {
		t.Errorf("Read[uint64] = %#x, %v", u64, err)
	}

	if _, err := Read[uint32](sr, 6, "u32 tail"); err == nil {
		t.Error("Read[uint32] past end should fail")
	}
}
