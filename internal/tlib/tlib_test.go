package tlib

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"go.senan.xyz/taglib"

	"github.com/simonhull/audiotags/internal/registry"
	"github.com/simonhull/audiotags/internal/types"
	"github.com/simonhull/audiotags/internal/vorbis"
)

// createWAV returns one second of silent 8 kHz mono 16-bit PCM with no
// tag chunks.
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

func writeWAV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "song.wav")
	if err := os.WriteFile(path, createWAV(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpen_WAV(t *testing.T) {
	h, err := Open(writeWAV(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer h.Close()

	if len(h.Keys()) != 0 {
		t.Errorf("Keys() = %v, want none", h.Keys())
	}
	info := h.StreamInfo()
	if !info.HasLength || math.Abs(info.Length-1) > 0.01 {
		t.Errorf("Length = %v, want 1", info.Length)
	}
	if info.Bitrate != 128000 {
		t.Errorf("Bitrate = %d, want 128000", info.Bitrate)
	}
}

func TestSave_WAVRoundTrip(t *testing.T) {
	path := writeWAV(t)

	h, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if r, _ := h.EnsureTags(); r != types.EnsureCreated {
		t.Errorf("EnsureTags() = %v, want created", r)
	}
	h.Set("artist", []string{"A", "B"})
	h.Set("catalognumber", []string{"CAT-1"})
	h.Set("title", []string{"Song"})
	if err := h.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	h.Close()

	tags, err := taglib.ReadTags(path)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(tags["ARTIST"], []string{"A", "B"}) {
		t.Errorf("ARTIST = %v", tags["ARTIST"])
	}
	if !slices.Equal(tags["CATALOGNUMBER"], []string{"CAT-1"}) {
		t.Errorf("CATALOGNUMBER = %v", tags["CATALOGNUMBER"])
	}

	// Deleting writes the whole map again without the field
	h, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	if r, _ := h.Set("artist", nil); r != types.DeleteRemoved {
		t.Errorf("delete artist = %v, want removed", r)
	}
	if err := h.Save(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if _, ok := reopened.Get("artist"); ok {
		t.Error("artist should be deleted")
	}
	if v, _ := reopened.Get("title"); !slices.Equal(v.([]string), []string{"Song"}) {
		t.Errorf("title = %v, untouched fields must survive", v)
	}
}

func TestDiscard(t *testing.T) {
	h := &handle{}
	h.comments = vorbis.FromMap(map[string][]string{"TITLE": {"Song"}})
	h.saved = h.comments.Clone()

	h.Set("title", []string{"Other"})
	h.Set("genre", []string{"Jazz"})
	h.Discard()

	if h.dirty {
		t.Error("Discard() should clear the dirty flag")
	}
	if !slices.Equal(h.Keys(), []string{"title"}) {
		t.Errorf("Keys() = %v after Discard", h.Keys())
	}
	if v, _ := h.Get("title"); !slices.Equal(v.([]string), []string{"Song"}) {
		t.Errorf("title = %v after Discard", v)
	}
}

func TestOpen_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.ogg")
	if err := os.WriteFile(path, []byte("definitely not an ogg stream"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(path); err == nil {
		t.Error("Open() should fail on a file TagLib cannot parse")
	}
}

func TestOpen_Missing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.opus")); err == nil {
		t.Error("Open() should fail on a missing file")
	}
}

func TestPropertiesInfo(t *testing.T) {
	info := propertiesInfo(taglib.Properties{Length: 90500 * time.Millisecond, Bitrate: 192})

	if !info.HasLength || info.Length != 90.5 {
		t.Errorf("Length = %v, want 90.5", info.Length)
	}
	if !info.HasBitrate || info.Bitrate != 192000 {
		t.Errorf("Bitrate = %d, want 192000", info.Bitrate)
	}

	if empty := propertiesInfo(taglib.Properties{}); empty.HasLength || empty.HasBitrate {
		t.Errorf("zero properties should report nothing, got %+v", empty)
	}
}

func TestPropertyMap_UpperCase(t *testing.T) {
	c := vorbis.FromMap(map[string][]string{"TITLE": {"Song"}})
	c.Set("artist", []string{"A", "B"})

	m := propertyMap(c)
	if !slices.Equal(m["TITLE"], []string{"Song"}) || !slices.Equal(m["ARTIST"], []string{"A", "B"}) {
		t.Errorf("propertyMap() = %v", m)
	}
	if _, ok := m["artist"]; ok {
		t.Error("property names must be upper-cased")
	}
}

func TestHandle_SetTracksChanges(t *testing.T) {
	h := &handle{comments: vorbis.FromMap(map[string][]string{"TITLE": {"Song"}})}

	if r, _ := h.EnsureTags(); r != types.EnsureExisting {
		t.Errorf("EnsureTags() = %v, want existing", r)
	}
	if r, _ := h.Set("album", nil); r != types.DeleteAbsent {
		t.Errorf("deleting absent field = %v", r)
	}
	if h.dirty {
		t.Error("deleting an absent field should not mark the handle dirty")
	}
	if r, _ := h.Set("title", nil); r != types.DeleteRemoved || !h.dirty {
		t.Errorf("deleting title = %v, dirty %v", r, h.dirty)
	}
	// Nothing left: a write would create the block again
	if r, _ := h.EnsureTags(); r != types.EnsureCreated {
		t.Errorf("EnsureTags() = %v, want created", r)
	}
}

func TestRegistered(t *testing.T) {
	for _, f := range []types.Format{types.FormatOgg, types.FormatOpus, types.FormatWAV, types.FormatWMA} {
		a := registry.Get(f)
		if a == nil || a.Name != "taglib" {
			t.Fatalf("registry.Get(%s) = %v", f, a)
		}
		if !a.Writable || !a.Others {
			t.Errorf("%s: taglib adapter should be writable with passthrough", f)
		}
	}
}
