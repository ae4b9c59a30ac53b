package flac

import (
	"fmt"

	"github.com/simonhull/audiotags/internal/types"
)

const streamInfoSize = 34

// parseStreamInfo derives the stream length from a STREAMINFO block and
// estimates the average bitrate from the size of the audio frames. Metadata
// blocks are excluded so a tag write never changes the bitrate.
func parseStreamInfo(data []byte, audioSize int64) (types.StreamInfo, error) {
	if len(data) != streamInfoSize {
		return types.StreamInfo{}, fmt.Errorf("invalid STREAMINFO size: %d (expected %d)", len(data), streamInfoSize)
	}

	// Bytes 10-17: sample rate (20 bits), channels (3 bits), bits per sample (5 bits), total samples (36 bits)
	packed := uint64(data[10])<<56 | uint64(data[11])<<48 | uint64(data[12])<<40 | uint64(data[13])<<32 |
		uint64(data[14])<<24 | uint64(data[15])<<16 | uint64(data[16])<<8 | uint64(data[17])

	sampleRate := (packed >> 44) & 0xFFFFF
	totalSamples := packed & 0xFFFFFFFFF

	if sampleRate == 0 || totalSamples == 0 {
		// Unknown length is legal in STREAMINFO
		return types.StreamInfo{}, nil
	}

	seconds := float64(totalSamples) / float64(sampleRate)
	info := types.StreamInfo{}.WithLength(seconds)
	return info.WithBitrate(types.EstimateBitrate(audioSize, seconds)), nil
}
