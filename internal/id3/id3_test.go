package id3

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/bogem/id3v2/v2"

	"github.com/simonhull/audiotags/internal/registry"
	"github.com/simonhull/audiotags/internal/types"
)

// createMP3 writes one second of silent 128 kbps CBR audio with no tag.
func createMP3(t *testing.T) string {
	t.Helper()
	buf := &bytes.Buffer{}
	buf.Write([]byte{0xFF, 0xFB, 0x90, 0x64})
	buf.Write(make([]byte, 16000-4))

	path := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// tagWith writes a tag of the given version using the codec directly.
func tagWith(t *testing.T, path string, version byte, frames map[string]string) {
	t.Helper()
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()

	tag.SetVersion(version)
	enc := id3v2.EncodingUTF8
	if version == 3 {
		enc = id3v2.EncodingUTF16
	}
	for id, text := range frames {
		tag.AddTextFrame(id, enc, text)
	}
	if err := tag.Save(); err != nil {
		t.Fatal(err)
	}
}

func openHandle(t *testing.T, path string) registry.Handle {
	t.Helper()
	h, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func getStrings(t *testing.T, h registry.Handle, name string) []string {
	t.Helper()
	v, ok := h.Get(name)
	if !ok {
		return nil
	}
	s, ok := v.([]string)
	if !ok {
		t.Fatalf("Get(%s) = %T, want []string", name, v)
	}
	return s
}

func TestOpen_Untagged(t *testing.T) {
	h := openHandle(t, createMP3(t))

	if keys := h.Keys(); len(keys) != 0 {
		t.Errorf("Keys() = %v, want none", keys)
	}

	info := h.StreamInfo()
	if !info.HasLength || math.Abs(info.Length-1.0) > 1e-9 {
		t.Errorf("Length = %v, want 1.0", info.Length)
	}
	if info.Bitrate != 128000 {
		t.Errorf("Bitrate = %d, want 128000", info.Bitrate)
	}

	if r, err := h.EnsureTags(); err != nil || r != types.EnsureCreated {
		t.Errorf("EnsureTags() = %v, %v; want created", r, err)
	}
	if r, _ := h.EnsureTags(); r != types.EnsureExisting {
		t.Errorf("second EnsureTags() = %v, want existing", r)
	}
}

func TestOpen_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.mp3")
	if err := os.WriteFile(path, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(path); err == nil {
		t.Error("Open() should fail with neither a tag nor an MPEG frame")
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.mp3"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open() error = %v, want not-exist", err)
	}
}

func TestSetSave_MultiValueV24(t *testing.T) {
	path := createMP3(t)
	h := openHandle(t, path)

	if _, err := h.Set("TPE1", []string{"First", "Second", "Third"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := h.Set("TXXX:CATALOGNUMBER", []string{"CAT-1"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := h.Set("COMM", []string{"nice"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := h.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	h.Close()

	reopened := openHandle(t, path)
	if got := getStrings(t, reopened, "TPE1"); !slices.Equal(got, []string{"First", "Second", "Third"}) {
		t.Errorf("TPE1 = %v, order must be preserved", got)
	}
	if got := getStrings(t, reopened, "TXXX:CATALOGNUMBER"); !slices.Equal(got, []string{"CAT-1"}) {
		t.Errorf("TXXX:CATALOGNUMBER = %v", got)
	}
	if got := getStrings(t, reopened, "COMM"); !slices.Equal(got, []string{"nice"}) {
		t.Errorf("COMM = %v", got)
	}

	keys := reopened.Keys()
	for _, want := range []string{"TPE1", "TXXX:CATALOGNUMBER", "COMM"} {
		if !slices.Contains(keys, want) {
			t.Errorf("Keys() = %v, missing %s", keys, want)
		}
	}

	// Audio stream is still found after the new tag
	if info := reopened.StreamInfo(); !info.HasLength {
		t.Error("length lost after writing a tag")
	}
}

func TestSet_V23CollapsesSequences(t *testing.T) {
	path := createMP3(t)
	tagWith(t, path, 3, map[string]string{"TIT2": "Old"})

	h := openHandle(t, path)
	if r, _ := h.EnsureTags(); r != types.EnsureExisting {
		t.Errorf("EnsureTags() = %v, want existing", r)
	}
	if _, err := h.Set("TPE1", []string{"A", "B"}); err != nil {
		t.Fatal(err)
	}
	if err := h.Save(); err != nil {
		t.Fatal(err)
	}
	h.Close()

	reopened := openHandle(t, path)
	if got := getStrings(t, reopened, "TPE1"); !slices.Equal(got, []string{"A/B"}) {
		t.Errorf("TPE1 = %v, want joined value", got)
	}
	if got := getStrings(t, reopened, "TIT2"); !slices.Equal(got, []string{"Old"}) {
		t.Errorf("TIT2 = %v, untouched frame should survive", got)
	}
}

func TestSet_Delete(t *testing.T) {
	path := createMP3(t)
	tagWith(t, path, 4, map[string]string{"TIT2": "Title", "TALB": "Album"})
	h := openHandle(t, path)

	if r, err := h.Set("TALB", nil); err != nil || r != types.DeleteRemoved {
		t.Errorf("Set(TALB, nil) = %v, %v; want removed", r, err)
	}
	if r, err := h.Set("TCOM", nil); err != nil || r != types.DeleteAbsent {
		t.Errorf("Set(TCOM, nil) = %v, %v; want absent", r, err)
	}
	if _, ok := h.Get("TALB"); ok {
		t.Error("TALB still present after delete")
	}
}

func TestDiscard(t *testing.T) {
	path := createMP3(t)
	tagWith(t, path, 4, map[string]string{"TIT2": "Title", "TALB": "Album"})
	h := openHandle(t, path)
	h.Set("TXXX:CATALOGNUMBER", []string{"C-1"})
	if err := h.Save(); err != nil {
		t.Fatal(err)
	}

	h.Set("TIT2", []string{"Staged"})
	h.Set("TALB", nil)
	h.Set("TXXX:CATALOGNUMBER", nil)
	h.Set("TXXX:Extra", []string{"x"})
	h.Set("COMM", []string{"note"})
	h.Discard()

	if !slices.Equal(h.Keys(), []string{"TALB", "TIT2", "TXXX:CATALOGNUMBER"}) {
		t.Errorf("Keys() = %v after Discard", h.Keys())
	}
	if got := getStrings(t, h, "TIT2"); !slices.Equal(got, []string{"Title"}) {
		t.Errorf("TIT2 = %v after Discard", got)
	}
	if got := getStrings(t, h, "TXXX:CATALOGNUMBER"); !slices.Equal(got, []string{"C-1"}) {
		t.Errorf("TXXX:CATALOGNUMBER = %v after Discard", got)
	}
}

func TestDiscard_Untagged(t *testing.T) {
	h := openHandle(t, createMP3(t))

	if r, _ := h.EnsureTags(); r != types.EnsureCreated {
		t.Fatalf("EnsureTags() = %v, want created", r)
	}
	h.Set("TIT2", []string{"Staged"})
	h.Discard()

	if len(h.Keys()) != 0 {
		t.Errorf("Keys() = %v after Discard", h.Keys())
	}
	if r, _ := h.EnsureTags(); r != types.EnsureCreated {
		t.Errorf("EnsureTags() = %v after Discard, want created", r)
	}
}

func TestSet_DescribedFramesAreIndependent(t *testing.T) {
	h := openHandle(t, createMP3(t))

	h.Set("TXXX:A", []string{"1"})
	h.Set("TXXX:B", []string{"2"})
	h.Set("TXXX:A", nil)

	if _, ok := h.Get("TXXX:A"); ok {
		t.Error("TXXX:A should be deleted")
	}
	if got := getStrings(t, h, "TXXX:B"); !slices.Equal(got, []string{"2"}) {
		t.Errorf("TXXX:B = %v, should survive deleting TXXX:A", got)
	}
}

func TestSet_NonTextFrame(t *testing.T) {
	h := openHandle(t, createMP3(t))

	if _, err := h.Set("APIC", []string{"x"}); err == nil {
		t.Error("Set(APIC) should fail")
	}
}

func TestLengthFromTLEN(t *testing.T) {
	// Tag with no audio frames after it
	path := filepath.Join(t.TempDir(), "tagonly.mp3")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	tagWith(t, path, 4, map[string]string{"TLEN": "183500"})

	h := openHandle(t, path)
	info := h.StreamInfo()
	if !info.HasLength || math.Abs(info.Length-183.5) > 1e-9 {
		t.Errorf("Length = %v, want 183.5 from TLEN", info.Length)
	}
}

func TestSplitValues(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"one", []string{"one"}},
		{"a\x00b", []string{"a", "b"}},
		{"a\x00b\x00", []string{"a", "b"}},
		{"AC/DC", []string{"AC/DC"}},
	}

	for _, tc := range tests {
		if got := splitValues(tc.in); !slices.Equal(got, tc.want) {
			t.Errorf("splitValues(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMapping(t *testing.T) {
	for key, raw := range map[string]string{"title": "TIT2", "comment": "COMM", "labelid": "TXXX:CATALOGNUMBER"} {
		if got, ok := Mapping.Raw(key); !ok || got != raw {
			t.Errorf("Mapping.Raw(%s) = %q, want %q", key, got, raw)
		}
	}
	if a := registry.Get(types.FormatMP3); a == nil || !a.Writable || a.Others {
		t.Error("id3 adapter should be registered writable without passthrough")
	}
}
