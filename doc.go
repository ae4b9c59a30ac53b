// Package audiotags reads and writes audio file tags through one
// format-independent key space.
//
// Every supported format is exposed as a flat TagSet: canonical lower-case
// keys mapped to ordered lists of strings. Each format adapter translates
// between canonical keys ("artist", "tracknumber") and its own raw field
// names (TPE1, ©ART, ARTIST).
//
// # Quick Start
//
//	file, err := audiotags.Open("song.flac")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	tags := file.ReadAll()
//	fmt.Printf("%s - %s (%ss)\n",
//		tags.GetFirst("artist"), tags.GetFirst("title"), tags.GetFirst("__length"))
//
// Writing:
//
//	tags := audiotags.TagSet{}
//	tags.Set("artist", "Alice", "Bob")
//	tags.Set("comment") // empty value deletes the field
//	if err := file.WriteTags(tags); errors.Is(err, audiotags.ErrNotWritable) {
//		// read-only format
//	}
//
// # Supported Formats
//
//   - FLAC: Vorbis comments, read and write
//   - MP3: ID3v2.3 and ID3v2.4, read and write
//   - Ogg Vorbis, Opus, WAV, AIFF, WavPack, APE, Musepack, WMA: via TagLib, read and write
//   - M4A/M4B: iTunes atoms, read only
//   - Tracker modules: title fallback only
//
// # Computed Keys
//
// Keys starting with ReservedPrefix ("__") are computed from the audio
// stream and are never written. "__length" is the duration in seconds and
// "__bitrate" the bitrate in bits per second.
//
// If a file has no title, "title" falls back to the file's basename.
//
// # Batch Reading
//
//	results, err := audiotags.ReadMany(ctx, paths, audiotags.WithConcurrency(8))
//
// # Error Handling
//
// Open returns *NotReadableError for anything that cannot be read; WriteTags
// returns *NotWritableError for read-only formats. Both match the sentinels
// ErrNotReadable and ErrNotWritable with errors.Is.
//
// Non-fatal issues are collected in File.Warnings:
//
//	for _, w := range file.Warnings {
//		log.Printf("warning: %s", w)
//	}
package audiotags
