// Package flat handles formats that carry no tag block at all, such as
// tracker modules. The only field they expose is a title derived from the
// file name.
package flat

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/simonhull/audiotags/internal/registry"
	"github.com/simonhull/audiotags/internal/types"
)

var errNoTags = errors.New("format has no tag block")

func init() {
	registry.Register(&registry.Adapter{
		Name:    "flat",
		Formats: []types.Format{types.FormatModule},
		Ignored: registry.Ignored(),
		Open:    Open,
	})
}

type handle struct {
	title string
}

// Open checks the file exists and is a regular file.
func Open(path string) (registry.Handle, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !stat.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	return &handle{title: filepath.Base(path)}, nil
}

func (h *handle) Keys() []string {
	return []string{types.KeyTitle}
}

func (h *handle) Get(name string) (any, bool) {
	if name == types.KeyTitle {
		return h.title, true
	}
	return nil, false
}

func (h *handle) Set(string, []string) (types.DeleteResult, error) {
	return types.DeleteAbsent, errNoTags
}

func (h *handle) EnsureTags() (types.EnsureResult, error) {
	return types.EnsureUnsupported, nil
}

func (h *handle) Save() error { return errNoTags }

func (h *handle) Discard() {}

func (h *handle) Warnings() []error { return nil }

func (h *handle) StreamInfo() types.StreamInfo { return types.StreamInfo{} }

func (h *handle) Close() error { return nil }
