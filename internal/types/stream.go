package types

// StreamInfo holds the technical properties a codec derives from the audio
// stream itself. Each value carries its own presence flag because a codec may
// know one and not the other.
type StreamInfo struct {
	// Length in seconds
	Length float64

	// Bitrate in bits per second
	Bitrate int

	HasLength  bool
	HasBitrate bool
}

// WithLength returns a copy of s with the length set.
func (s StreamInfo) WithLength(seconds float64) StreamInfo {
	s.Length = seconds
	s.HasLength = seconds > 0
	return s
}

// WithBitrate returns a copy of s with the bitrate set.
func (s StreamInfo) WithBitrate(bps int) StreamInfo {
	s.Bitrate = bps
	s.HasBitrate = bps > 0
	return s
}

// EstimateBitrate derives an average bitrate from the file size, for
// variable-rate codecs that do not store one.
func EstimateBitrate(size int64, seconds float64) int {
	if seconds <= 0 || size <= 0 {
		return 0
	}
	return int(float64(size) * 8 / seconds)
}
