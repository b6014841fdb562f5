package savefile

import (
	"os"

	"github.com/roach88/bsave/internal/codec"
	"github.com/roach88/bsave/internal/value"
)

// Write serializes the value tree and persists it to path. The sequence
// is: backup policy, frame (header + node + footer), optional compression,
// optional removal of the pre-existing file, persist.
//
// Any failure aborts the whole write; a partially-written state is limited
// to whatever the backup rotation already produced.
func Write(path string, v value.Value, opts Options) error {
	if path == "" {
		return &codec.Error{Code: codec.CodeInvalidFilename, Message: "empty path", Index: -1, Depth: -1}
	}

	if opts.Backup || opts.MultiBackup {
		if err := rotateBackup(path, opts.MultiBackup); err != nil {
			return &codec.Error{Code: codec.CodeBackup, Message: "rotate backup", Index: -1, Depth: -1, Err: err}
		}
	}

	data, err := encodeFrame(v, opts)
	if err != nil {
		return err
	}

	if opts.Compress {
		data, err = compress(data, opts.Compression)
		if err != nil {
			return &codec.Error{Code: codec.CodeCompress, Message: "compress buffer", Index: -1, Depth: -1, Err: err}
		}
	}

	if opts.ClearExisting {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return &codec.Error{Code: codec.CodeRemoveStale, Message: "remove existing file", Index: -1, Depth: -1, Err: err}
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &codec.Error{Code: codec.CodePersist, Message: "write file", Index: -1, Depth: -1, Err: err}
	}
	return nil
}

// Read loads path, optionally decompresses, and decodes the framed tree.
// Header or footer mismatch is a hard failure.
func Read(path string, opts Options) (value.Value, error) {
	if path == "" {
		return nil, &codec.Error{Code: codec.CodeInvalidFilename, Message: "empty path", Index: -1, Depth: -1}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &codec.Error{Code: codec.CodeFileMissing, Message: path, Index: -1, Depth: -1}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &codec.Error{Code: codec.CodeLoad, Message: "read file", Index: -1, Depth: -1, Err: err}
	}

	return parseBuffer(data, opts)
}

// parseBuffer runs the read-side pipeline on an in-memory buffer:
// optional decompression, then frame verification and node decode.
func parseBuffer(data []byte, opts Options) (value.Value, error) {
	if opts.Compress {
		var err error
		data, err = decompress(data, opts.Compression)
		if err != nil {
			return nil, &codec.Error{Code: codec.CodeDecompress, Message: "decompress buffer", Index: -1, Depth: -1, Err: err}
		}
	}
	return decodeFrame(data, opts)
}

// DeepEqual reports whether two value trees are structurally equal under
// the classification the options select. Typically used to verify that a
// decoded tree matches the one that was written.
func DeepEqual(a, b value.Value, opts Options) bool {
	return codec.DeepEqual(a, b, opts.flags())
}
