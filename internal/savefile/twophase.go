package savefile

import (
	"os"

	"github.com/google/uuid"

	"github.com/roach88/bsave/internal/codec"
	"github.com/roach88/bsave/internal/value"
)

// The two-phase API splits the file I/O suspension point from the
// synchronous codec pass. Phase one issues or prepares the I/O and returns
// a handle; phase two runs the codec against the now-available bytes. Any
// concurrency runtime (goroutines, an event loop, a job queue) can drive
// the handle - the codec core never depends on a concurrency primitive.
// There is no cancellation: once issued, the underlying operation runs to
// completion or failure.

// ReadHandle correlates an issued load with its completion. The token is
// opaque and unique per handle.
type ReadHandle struct {
	Token string
	Path  string
	opts  Options
}

// BeginRead prepares a load of path. The caller performs the actual byte
// load (synchronously or not) and passes the bytes to FinishRead.
func BeginRead(path string, opts Options) (*ReadHandle, error) {
	if path == "" {
		return nil, &codec.Error{Code: codec.CodeInvalidFilename, Message: "empty path", Index: -1, Depth: -1}
	}
	return &ReadHandle{
		Token: uuid.NewString(),
		Path:  path,
		opts:  opts,
	}, nil
}

// FinishRead runs the synchronous decode pass over the loaded bytes.
func FinishRead(h *ReadHandle, data []byte) (value.Value, error) {
	return parseBuffer(data, h.opts)
}

// WriteHandle carries the fully-encoded buffer between the synchronous
// encode pass and the deferred persistence step.
type WriteHandle struct {
	Token string
	data  []byte
	opts  Options
}

// BeginWrite runs the synchronous encode pass (framing plus optional
// compression) and returns a handle holding the bytes to persist.
func BeginWrite(v value.Value, opts Options) (*WriteHandle, error) {
	data, err := encodeFrame(v, opts)
	if err != nil {
		return nil, err
	}
	if opts.Compress {
		data, err = compress(data, opts.Compression)
		if err != nil {
			return nil, &codec.Error{Code: codec.CodeCompress, Message: "compress buffer", Index: -1, Depth: -1, Err: err}
		}
	}
	return &WriteHandle{
		Token: uuid.NewString(),
		data:  data,
		opts:  opts,
	}, nil
}

// Bytes returns the encoded buffer for callers that persist it themselves.
func (h *WriteHandle) Bytes() []byte {
	return h.data
}

// FinishWrite applies the backup/clear policy and persists the handle's
// bytes to path.
func FinishWrite(h *WriteHandle, path string) error {
	if path == "" {
		return &codec.Error{Code: codec.CodeInvalidFilename, Message: "empty path", Index: -1, Depth: -1}
	}

	if h.opts.Backup || h.opts.MultiBackup {
		if err := rotateBackup(path, h.opts.MultiBackup); err != nil {
			return &codec.Error{Code: codec.CodeBackup, Message: "rotate backup", Index: -1, Depth: -1, Err: err}
		}
	}

	if h.opts.ClearExisting {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return &codec.Error{Code: codec.CodeRemoveStale, Message: "remove existing file", Index: -1, Depth: -1, Err: err}
		}
	}

	if err := os.WriteFile(path, h.data, 0o644); err != nil {
		return &codec.Error{Code: codec.CodePersist, Message: "write file", Index: -1, Depth: -1, Err: err}
	}
	return nil
}
