package audiotags

import (
	"github.com/simonhull/audiotags/internal/types"
)

// TagSet is an alias to types.TagSet.
// Re-exporting from internal/types to maintain public API.
type TagSet = types.TagSet

// Value is an alias to types.Value.
// Re-exporting from internal/types to maintain public API.
type Value = types.Value

// ReservedPrefix marks computed keys. Raw fields using it are never surfaced.
const ReservedPrefix = types.ReservedPrefix

// Computed keys.
const (
	KeyLength  = types.KeyLength
	KeyBitrate = types.KeyBitrate
	KeyTitle   = types.KeyTitle
)

// ValidTags is the published canonical vocabulary. It is advisory.
var ValidTags = types.ValidTags

// InfoTags lists the computed keys.
var InfoTags = types.InfoTags

// IsValidTag reports whether key belongs to ValidTags.
func IsValidTag(key string) bool {
	return types.IsValidTag(key)
}

// IsReserved reports whether key uses ReservedPrefix.
func IsReserved(key string) bool {
	return types.IsReserved(key)
}
