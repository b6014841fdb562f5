package savefile

import "github.com/roach88/bsave/internal/codec"

// Options configures a write, read, or compare. The zero value is the
// default configuration: no compression, no backups, no 64-bit integers,
// sequence optimization enabled.
type Options struct {
	// Compress applies whole-buffer compression after framing on write
	// and reverses it before parsing on read.
	Compress bool

	// Compression selects the algorithm when Compress is set. The zero
	// value is AlgoZstd.
	Compression Algorithm

	// Backup copies an existing target to <name>.bak before overwriting.
	Backup bool

	// MultiBackup uses numbered backups instead: the lowest unused
	// <name>.bak.N. Implies Backup semantics when set.
	MultiBackup bool

	// ClearExisting deletes the target file before persisting.
	ClearExisting bool

	// SupportU64 enables the 64-bit integer tag. Off by default.
	SupportU64 bool

	// SupportRealInt enables the lossy float-to-int downcast optimization.
	SupportRealInt bool

	// AssumeHetero disables the mono-record/POD classification and forces
	// the Mixed category for all sequences.
	AssumeHetero bool
}

// flags projects the codec-relevant subset of the options.
func (o Options) flags() codec.Flags {
	return codec.Flags{
		SupportU64:     o.SupportU64,
		SupportRealInt: o.SupportRealInt,
		AssumeHetero:   o.AssumeHetero,
	}
}
