package mp4

import (
	"io"
	"slices"

	"github.com/simonhull/audiotags/internal/binary"
)

// containers are the atoms whose payload is a sequence of child atoms.
var containers = []string{"moov", "trak", "mdia", "minf", "stbl", "udta", "meta", "ilst", "edts", "dinf"}

// maxDepth bounds recursion on hostile files.
const maxDepth = 16

// Node is one atom in a file's box tree.
type Node struct {
	Type     string `json:"type" yaml:"type"`
	Offset   int64  `json:"offset" yaml:"offset"`
	Size     uint64 `json:"size" yaml:"size"`
	Children []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Tree walks the atom structure of an MP4 file. Walking stops at the
// first malformed header; the atoms read so far are returned with the
// error.
func Tree(r io.ReaderAt, size int64, path string) ([]Node, error) {
	sr := binary.NewSafeReader(r, size, path)
	return walk(sr, 0, size, 0)
}

func walk(sr *binary.SafeReader, start, end int64, depth int) ([]Node, error) {
	var nodes []Node
	for offset := start; offset+8 <= end; {
		a, err := readAtomHeader(sr, offset)
		if err != nil {
			return nodes, err
		}
		n := Node{Type: a.Type, Offset: a.Offset, Size: a.Size}

		if depth < maxDepth && slices.Contains(containers, a.Type) {
			childStart := a.DataOffset()
			if a.Type == "meta" {
				childStart += 4 // version and flags
			}
			children, err := walk(sr, childStart, min(a.End(), end), depth+1)
			n.Children = children
			if err != nil {
				return append(nodes, n), err
			}
		}

		nodes = append(nodes, n)
		offset = a.End()
	}
	return nodes, nil
}
