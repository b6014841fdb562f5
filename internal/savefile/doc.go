// Package savefile is the file-facing layer around the codec: magic
// header/footer framing, optional whole-buffer compression, backup
// rotation, and the write/read entry points.
//
// The layer is deliberately thin. Framing wraps exactly one encoded node:
//
//	"BSONGML"        length-prefixed magic header
//	<node>           one encoded value tree
//	"EOFBSONGML"     length-prefixed magic footer
//
// Compression, when enabled, wraps the entire framed buffer as a
// post-processing step and is reversed before any parsing on read. Any
// header or footer mismatch is a hard failure, never silently ignored.
//
// The two-phase Begin/Finish API splits file I/O from the synchronous
// codec pass so that any concurrency runtime can drive the load/save off
// the calling goroutine and hand the bytes back for decoding.
package savefile
