package audiotags

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// createFLAC returns a two-second FLAC stream with the given Vorbis
// comments. With no comments the file has no comment block at all.
func createFLAC(comments ...string) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("fLaC")

	si := &bytes.Buffer{}
	binary.Write(si, binary.BigEndian, uint16(4096))
	binary.Write(si, binary.BigEndian, uint16(4096))
	si.Write(make([]byte, 6))
	sampleRate, totalSamples := uint64(44100), uint64(44100*2)
	binary.Write(si, binary.BigEndian, sampleRate<<44|uint64(1)<<41|uint64(15)<<36|totalSamples)
	si.Write(make([]byte, 16))

	header := byte(0x00)
	if len(comments) == 0 {
		header = 0x80
	}
	writeFLACBlock(buf, header, si.Bytes())

	if len(comments) > 0 {
		data := &bytes.Buffer{}
		vendor := "fixture"
		binary.Write(data, binary.LittleEndian, uint32(len(vendor)))
		data.WriteString(vendor)
		binary.Write(data, binary.LittleEndian, uint32(len(comments)))
		for _, c := range comments {
			binary.Write(data, binary.LittleEndian, uint32(len(c)))
			data.WriteString(c)
		}
		writeFLACBlock(buf, 0x84, data.Bytes())
	}

	buf.Write([]byte{0xFF, 0xF8, 0x69, 0x08, 0x00, 0x00, 0x00, 0x00})
	return buf.Bytes()
}

func writeFLACBlock(buf *bytes.Buffer, header byte, data []byte) {
	buf.WriteByte(header)
	buf.WriteByte(byte(len(data) >> 16))
	buf.WriteByte(byte(len(data) >> 8))
	buf.WriteByte(byte(len(data)))
	buf.Write(data)
}

// createMP3 returns one second of silent 128 kbps CBR audio with no tag.
func createMP3() []byte {
	data := make([]byte, 16000)
	copy(data, []byte{0xFF, 0xFB, 0x90, 0x64})
	return data
}

// createWAV returns one second of silent 8 kHz mono 16-bit PCM behind a
// canonical 44-byte header, with no tag chunks.
func createWAV() []byte {
	const sampleRate, dataSize = 8000, 16000
	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVEfmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}

// writeFixture writes data to name inside a fresh temp directory.
func writeFixture(t testing.TB, name string, data []byte) string {
	t.Helper()
	return writeFixtureIn(t, t.TempDir(), name, data)
}

func writeFixtureIn(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func mustOpen(t testing.TB, path string, opts ...Option) *File {
	t.Helper()
	file, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open(%s) error = %v", path, err)
	}
	t.Cleanup(func() { file.Close() })
	return file
}

// reread opens path again and returns everything it exposes.
func reread(t testing.TB, path string) TagSet {
	t.Helper()
	file, err := Open(path)
	if err != nil {
		t.Fatalf("re-open %s: %v", path, err)
	}
	defer file.Close()
	return file.ReadAll()
}
