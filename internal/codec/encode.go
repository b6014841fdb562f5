package codec

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/roach88/bsave/internal/value"
)

// Encode serializes a value tree into the sink. The sink receives bytes as
// they are produced: on error, partial sibling output is not rolled back -
// the caller owns the buffer and may discard it.
func Encode(w io.Writer, v value.Value, f Flags) error {
	return encodeNode(w, v, f, 0)
}

// encodeNode writes one node: a one-byte scalar tag followed by the tag's
// body. The depth guard fires before any byte is written for this node.
func encodeNode(w io.Writer, v value.Value, f Flags, depth int) error {
	if depth >= MaxDepth {
		return depthError(depth)
	}

	tag := scalarTag(v, f)
	switch tag {
	case TagInt32:
		if err := writeByte(w, byte(tag)); err != nil {
			return sinkError("int32 tag", err)
		}
		if err := writeU32(w, uint32(asInt32(v))); err != nil {
			return sinkError("int32 value", err)
		}
		return nil

	case TagInt64:
		if err := writeByte(w, byte(tag)); err != nil {
			return sinkError("int64 tag", err)
		}
		if err := writeU64(w, uint64(asInt64(v))); err != nil {
			return sinkError("int64 value", err)
		}
		return nil

	case TagFloat64:
		if err := writeByte(w, byte(tag)); err != nil {
			return sinkError("float tag", err)
		}
		if err := writeU64(w, math.Float64bits(asFloat64(v))); err != nil {
			return sinkError("float value", err)
		}
		return nil

	case TagString:
		if err := writeByte(w, byte(tag)); err != nil {
			return sinkError("string tag", err)
		}
		if err := writeString(w, string(v.(value.String))); err != nil {
			return sinkError("string value", err)
		}
		return nil

	case TagBool:
		if err := writeByte(w, byte(tag)); err != nil {
			return sinkError("bool tag", err)
		}
		if err := writeBool(w, bool(v.(value.Bool))); err != nil {
			return sinkError("bool value", err)
		}
		return nil

	case TagRecord:
		if err := writeByte(w, byte(tag)); err != nil {
			return sinkError("record tag", err)
		}
		return encodeRecordBody(w, v.(value.Record), f, depth)

	case TagSequence:
		if err := writeByte(w, byte(tag)); err != nil {
			return sinkError("sequence tag", err)
		}
		return encodeSequenceBody(w, v.(value.Sequence), f, depth)

	default:
		return newError(CodeUnsupportedValue, "value has no serializable representation")
	}
}

// encodeRecordBody writes the field count and then each field's name and
// recursively-encoded value, in the record's own insertion order.
// Unsupported members are silently dropped, not erred.
func encodeRecordBody(w io.Writer, rec value.Record, f Flags, depth int) error {
	fields := serializableFields(rec, f)
	if len(fields) > math.MaxUint16 {
		return newError(CodeEncodeNode, fmt.Sprintf("record has %d fields, limit %d", len(fields), math.MaxUint16))
	}
	if err := writeU16(w, uint16(len(fields))); err != nil {
		return sinkError("field count", err)
	}

	for _, fld := range fields {
		if fld.Name == "" {
			return newError(CodeCorruptStruct, "record field with empty name")
		}
		if err := writeString(w, fld.Name); err != nil {
			return sinkError("field name", err)
		}
		if err := encodeNode(w, fld.Value, f, depth+1); err != nil {
			return wrapField(CodeEncodeNode, fld.Name, err)
		}
	}
	return nil
}

// encodeSequenceBody writes the category byte, then for non-empty
// sequences the element count and the category-specific body.
func encodeSequenceBody(w io.Writer, seq value.Sequence, f Flags, depth int) error {
	cat, declared := categorize(seq, f, f.AssumeHetero)
	if err := writeByte(w, byte(cat)); err != nil {
		return sinkError("category", err)
	}
	if cat == CatEmpty {
		return nil
	}
	if err := writeU32(w, uint32(len(seq))); err != nil {
		return sinkError("element count", err)
	}

	switch cat {
	case CatNumericPod:
		// Element tag written once for the whole run. Every element is
		// coerced to the declared kind - mixed numeric sub-kinds are not
		// preserved.
		if err := writeByte(w, byte(declared)); err != nil {
			return sinkError("declared numeric tag", err)
		}
		for i, elem := range seq {
			var err error
			switch declared {
			case TagInt32:
				err = writeU32(w, uint32(asInt32(elem)))
			case TagInt64:
				err = writeU64(w, uint64(asInt64(elem)))
			default:
				err = writeU64(w, math.Float64bits(asFloat64(elem)))
			}
			if err != nil {
				return wrapIndex(CodeEncodeNode, i, sinkError("numeric element", err))
			}
		}
		return nil

	case CatStringArr:
		for i, elem := range seq {
			if err := writeString(w, string(elem.(value.String))); err != nil {
				return wrapIndex(CodeEncodeNode, i, sinkError("string element", err))
			}
		}
		return nil

	case CatBoolArr:
		for i, elem := range seq {
			if err := writeBool(w, bool(elem.(value.Bool))); err != nil {
				return wrapIndex(CodeEncodeNode, i, sinkError("bool element", err))
			}
		}
		return nil

	case CatMonoRecord:
		// Shared field list written once. Field values still carry their
		// own scalar tags - the optimization saves repeating names, not
		// value tags.
		shared := signatureOf(seq[0].(value.Record), f)
		if err := writeU16(w, uint16(len(shared.names))); err != nil {
			return sinkError("shared field count", err)
		}
		for _, name := range shared.names {
			if name == "" {
				return newError(CodeCorruptStruct, "record field with empty name")
			}
			if err := writeString(w, name); err != nil {
				return sinkError("shared field name", err)
			}
		}
		for i, elem := range seq {
			fields := serializableFields(elem.(value.Record), f)
			for _, fld := range fields {
				if err := encodeNode(w, fld.Value, f, depth+1); err != nil {
					return wrapIndex(CodeEncodeNode, i, wrapField(CodeEncodeNode, fld.Name, err))
				}
			}
		}
		return nil

	default: // CatHeteroRecord, CatMixed
		for i, elem := range seq {
			if err := encodeNode(w, elem, f, depth+1); err != nil {
				return wrapIndex(CodeEncodeNode, i, err)
			}
		}
		return nil
	}
}

// serializableFields returns the record's fields with unsupported members
// removed, preserving insertion order.
func serializableFields(rec value.Record, f Flags) []value.Field {
	out := make([]value.Field, 0, len(rec))
	for _, fld := range rec {
		if scalarTag(fld.Value, f) == TagUnsupported {
			continue
		}
		out = append(out, fld)
	}
	return out
}

// Numeric coercions. Lossy by contract: int64 truncates to int32 when the
// u64 flag is off, and integral floats downcast without a range check when
// the realint flag is on.

func asInt32(v value.Value) int32 {
	switch sv := v.(type) {
	case value.Int32:
		return int32(sv)
	case value.Int64:
		return int32(sv)
	case value.Float64:
		return int32(sv)
	default:
		return 0
	}
}

func asInt64(v value.Value) int64 {
	switch sv := v.(type) {
	case value.Int32:
		return int64(sv)
	case value.Int64:
		return int64(sv)
	case value.Float64:
		return int64(sv)
	default:
		return 0
	}
}

func asFloat64(v value.Value) float64 {
	switch sv := v.(type) {
	case value.Int32:
		return float64(sv)
	case value.Int64:
		return float64(sv)
	case value.Float64:
		return float64(sv)
	default:
		return 0
	}
}

// sinkError wraps a write failure from the byte sink.
func sinkError(what string, err error) *Error {
	return &Error{Code: CodeEncodeNode, Message: "write " + what, Index: -1, Depth: -1, Err: err}
}

// Fixed-width little-endian write helpers.

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

func writeBool(w io.Writer, b bool) error {
	if b {
		return writeByte(w, 1)
	}
	return writeByte(w, 0)
}

func writeU16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeU64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// writeString writes a uint32 length prefix followed by the UTF-8 bytes.
func writeString(w io.Writer, s string) error {
	if err := writeU32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}
