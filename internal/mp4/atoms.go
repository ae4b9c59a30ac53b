// Package mp4 reads iTunes-style metadata from M4A/M4B files.
package mp4

import (
	"fmt"

	"github.com/simonhull/audiotags/internal/binary"
	"github.com/simonhull/audiotags/internal/types"
)

// atom is an MP4 box header.
type atom struct {
	Type     string // 4-character type code
	Size     uint64 // Total size including header
	Offset   int64  // Position in file
	Extended bool   // Whether this uses 64-bit extended size
}

func (a atom) headerSize() int64 {
	if a.Extended {
		return 16
	}
	return 8
}

// DataOffset returns the file offset where the atom's payload starts.
func (a atom) DataOffset() int64 {
	return a.Offset + a.headerSize()
}

// End returns the offset just past the atom.
func (a atom) End() int64 {
	return a.Offset + int64(a.Size)
}

// readAtomHeader reads an atom header at the given offset.
func readAtomHeader(sr *binary.SafeReader, offset int64) (atom, error) {
	size32, err := binary.Read[uint32](sr, offset, "atom size")
	if err != nil {
		return atom{}, err
	}

	typeBytes, err := sr.Bytes(offset+4, 4, "atom type")
	if err != nil {
		return atom{}, err
	}

	a := atom{Type: string(typeBytes), Offset: offset}

	switch size32 {
	case 0:
		// Box extends to the end of the file
		a.Size = uint64(sr.Size() - offset)
	case 1:
		size64, err := binary.Read[uint64](sr, offset+8, "extended atom size")
		if err != nil {
			return atom{}, err
		}
		a.Size = size64
		a.Extended = true
	default:
		a.Size = uint64(size32)
	}

	if a.Size < uint64(a.headerSize()) {
		return atom{}, &types.CorruptedFileError{
			Path:   sr.Path(),
			Offset: offset,
			Reason: fmt.Sprintf("invalid atom size %d", a.Size),
		}
	}

	return a, nil
}

// findAtom returns the first atom of the given type within [start, end).
func findAtom(sr *binary.SafeReader, start, end int64, atomType string) (atom, error) {
	for offset := start; offset < end; {
		a, err := readAtomHeader(sr, offset)
		if err != nil {
			return atom{}, err
		}
		if a.Type == atomType {
			return a, nil
		}
		offset = a.End()
	}
	return atom{}, fmt.Errorf("atom '%s' not found", atomType)
}
