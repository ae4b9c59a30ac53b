package mp4

import (
	"bytes"
	"slices"
	"testing"
)

func nodeTypes(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Type
	}
	return out
}

func TestTree(t *testing.T) {
	data := createM4A("Hello", 3)

	nodes, err := Tree(bytes.NewReader(data), int64(len(data)), "test.m4a")
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}

	if got := nodeTypes(nodes); !slices.Equal(got, []string{"ftyp", "moov"}) {
		t.Fatalf("top level = %v", got)
	}
	moov := nodes[1]
	if got := nodeTypes(moov.Children); !slices.Equal(got, []string{"mvhd", "udta"}) {
		t.Fatalf("moov children = %v", got)
	}

	meta := moov.Children[1].Children[0]
	if meta.Type != "meta" || len(meta.Children) != 1 {
		t.Fatalf("meta = %+v", meta)
	}
	ilst := meta.Children[0]
	if got := nodeTypes(ilst.Children); !slices.Equal(got, []string{"\xa9nam", "trkn"}) {
		t.Errorf("ilst children = %v", got)
	}
	if len(ilst.Children[0].Children) != 0 {
		t.Error("item atoms should not be expanded")
	}

	if moov.Offset != int64(nodes[0].Size) {
		t.Errorf("moov offset = %d, want %d", moov.Offset, nodes[0].Size)
	}
}

func TestTree_Truncated(t *testing.T) {
	data := createM4A("Hello", 3)
	// A header claiming a size smaller than itself
	data = append(data, 0, 0, 0, 4, 'f', 'r', 'e', 'e')

	nodes, err := Tree(bytes.NewReader(data), int64(len(data)), "test.m4a")
	if err == nil {
		t.Fatal("expected error for corrupt trailing atom")
	}
	if got := nodeTypes(nodes); !slices.Equal(got, []string{"ftyp", "moov"}) {
		t.Errorf("partial tree = %v", got)
	}
}
