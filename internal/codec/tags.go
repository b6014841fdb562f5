package codec

import "fmt"

// MaxDepth is the fixed recursion bound for records/sequences nesting.
// Encode and decode fail with CodeDepthExceeded beyond it; compare treats
// beyond-bound as "not equal".
const MaxDepth = 16

// Tag identifies a value's on-disk scalar type. Tags are wire constants -
// changing them breaks save-file compatibility. Zero is deliberately not a
// valid tag so that zero-filled corruption surfaces as UnknownTag.
type Tag uint8

const (
	TagUnsupported Tag = 0 // never written; classifier-internal
	TagInt32       Tag = 1
	TagInt64       Tag = 2
	TagFloat64     Tag = 3
	TagString      Tag = 4
	TagBool        Tag = 5
	TagRecord      Tag = 6
	TagSequence    Tag = 7
)

// String returns the tag name.
func (t Tag) String() string {
	switch t {
	case TagUnsupported:
		return "unsupported"
	case TagInt32:
		return "int32"
	case TagInt64:
		return "int64"
	case TagFloat64:
		return "float64"
	case TagString:
		return "string"
	case TagBool:
		return "bool"
	case TagRecord:
		return "record"
	case TagSequence:
		return "sequence"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Category classifies a sequence for the optimized encodings. Categories
// are wire constants, written as one byte before the element count.
type Category uint8

const (
	CatEmpty        Category = 1 // zero serializable elements; no count, no body
	CatNumericPod   Category = 2 // uniformly numeric; numeric tag written once
	CatStringArr    Category = 3 // all strings; no per-element tags
	CatBoolArr      Category = 4 // all bools; no per-element tags
	CatMonoRecord   Category = 5 // records sharing one signature; names written once
	CatHeteroRecord Category = 6 // all records, differing signatures
	CatMixed        Category = 7 // differing scalar tags, or forced-heterogeneous
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CatEmpty:
		return "empty"
	case CatNumericPod:
		return "numeric_pod"
	case CatStringArr:
		return "string_arr"
	case CatBoolArr:
		return "bool_arr"
	case CatMonoRecord:
		return "mono_record"
	case CatHeteroRecord:
		return "hetero_record"
	case CatMixed:
		return "mixed"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Flags configures classification behavior. The zero value is the default
// configuration: no 64-bit integers, no float-to-int downcast, sequence
// optimization enabled.
type Flags struct {
	// SupportU64 enables the 64-bit integer tag. Off by default; when off,
	// Int64 values are down-classified to the 32-bit tag (truncating).
	SupportU64 bool

	// SupportRealInt reports floats with zero fractional part as int32.
	// Lossy when the float exceeds 32-bit range - no range check is
	// performed. A size optimization, not a safe default.
	SupportRealInt bool

	// AssumeHetero disables the mono-record/POD classification and forces
	// the Mixed category for every sequence.
	AssumeHetero bool
}
