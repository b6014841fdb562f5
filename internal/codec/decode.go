package codec

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/roach88/bsave/internal/value"
)

// maxStringLen caps length-prefixed string reads. A prefix beyond this is a
// corruption signal, not a legitimate save - failing early avoids a
// multi-gigabyte allocation on garbage input.
const maxStringLen = 1 << 30

// Decode deserializes one value tree from the source. It is the exact
// mirror of Encode: tags, counts, and names are read in the same order the
// encoder wrote them.
func Decode(r io.Reader, f Flags) (value.Value, error) {
	return decodeNode(r, f, 0)
}

func decodeNode(r io.Reader, f Flags, depth int) (value.Value, error) {
	if depth >= MaxDepth {
		return nil, depthError(depth)
	}

	tagByte, err := readByte(r)
	if err != nil {
		return nil, sourceError(CodeDecodeNode, "scalar tag", err)
	}

	switch Tag(tagByte) {
	case TagInt32:
		u, err := readU32(r)
		if err != nil {
			return nil, sourceError(CodeDecodeInt32, "value", err)
		}
		return value.Int32(int32(u)), nil

	case TagInt64:
		u, err := readU64(r)
		if err != nil {
			return nil, sourceError(CodeDecodeInt64, "value", err)
		}
		return value.Int64(int64(u)), nil

	case TagFloat64:
		u, err := readU64(r)
		if err != nil {
			return nil, sourceError(CodeDecodeFloat, "value", err)
		}
		return value.Float64(math.Float64frombits(u)), nil

	case TagString:
		s, err := readString(r)
		if err != nil {
			return nil, sourceError(CodeDecodeString, "value", err)
		}
		return value.String(s), nil

	case TagBool:
		b, err := readByte(r)
		if err != nil {
			return nil, sourceError(CodeDecodeBool, "value", err)
		}
		return value.Bool(b != 0), nil

	case TagRecord:
		return decodeRecordBody(r, f, depth)

	case TagSequence:
		return decodeSequenceBody(r, f, depth)

	default:
		return nil, newError(CodeUnknownTag, fmt.Sprintf("tag byte 0x%02x", tagByte))
	}
}

// decodeRecordBody reads the field count and then each field's name and
// recursively-decoded value. A field name read as the empty string is a
// corruption signal and fails immediately.
func decodeRecordBody(r io.Reader, f Flags, depth int) (value.Value, error) {
	count, err := readU16(r)
	if err != nil {
		return nil, sourceError(CodeDecodeRecord, "field count", err)
	}

	rec := make(value.Record, 0, count)
	for i := 0; i < int(count); i++ {
		name, err := readString(r)
		if err != nil {
			return nil, sourceError(CodeDecodeRecord, "field name", err)
		}
		if name == "" {
			return nil, newError(CodeCorruptStruct, "empty field name")
		}
		v, err := decodeNode(r, f, depth+1)
		if err != nil {
			return nil, wrapField(CodeDecodeRecord, name, err)
		}
		rec = append(rec, value.Field{Name: name, Value: v})
	}
	return rec, nil
}

// decodeSequenceBody reads the category byte and reconstructs the sequence
// per category, mirroring the encoder's per-category bodies.
func decodeSequenceBody(r io.Reader, f Flags, depth int) (value.Value, error) {
	catByte, err := readByte(r)
	if err != nil {
		return nil, sourceError(CodeDecodeSequence, "category", err)
	}
	cat := Category(catByte)

	if cat == CatEmpty {
		return value.Sequence{}, nil
	}

	count, err := readU32(r)
	if err != nil {
		return nil, sourceError(CodeDecodeSequence, "element count", err)
	}

	// Grow-as-read: the count field is attacker-controlled on corrupt
	// input, so preallocation is capped.
	capHint := int(count)
	if capHint > 4096 {
		capHint = 4096
	}
	seq := make(value.Sequence, 0, capHint)

	switch cat {
	case CatNumericPod:
		declByte, err := readByte(r)
		if err != nil {
			return nil, sourceError(CodeDecodeSequence, "declared numeric tag", err)
		}
		declared := Tag(declByte)
		if !isNumeric(declared) {
			return nil, newError(CodeDecodeSequence, fmt.Sprintf("non-numeric declared tag %s", declared))
		}
		for i := uint32(0); i < count; i++ {
			var elem value.Value
			switch declared {
			case TagInt32:
				u, err := readU32(r)
				if err != nil {
					return nil, wrapIndex(CodeDecodeInt32, int(i), err)
				}
				elem = value.Int32(int32(u))
			case TagInt64:
				u, err := readU64(r)
				if err != nil {
					return nil, wrapIndex(CodeDecodeInt64, int(i), err)
				}
				elem = value.Int64(int64(u))
			default:
				u, err := readU64(r)
				if err != nil {
					return nil, wrapIndex(CodeDecodeFloat, int(i), err)
				}
				elem = value.Float64(math.Float64frombits(u))
			}
			seq = append(seq, elem)
		}
		return seq, nil

	case CatStringArr:
		for i := uint32(0); i < count; i++ {
			s, err := readString(r)
			if err != nil {
				return nil, wrapIndex(CodeDecodeString, int(i), err)
			}
			seq = append(seq, value.String(s))
		}
		return seq, nil

	case CatBoolArr:
		for i := uint32(0); i < count; i++ {
			b, err := readByte(r)
			if err != nil {
				return nil, wrapIndex(CodeDecodeBool, int(i), err)
			}
			seq = append(seq, value.Bool(b != 0))
		}
		return seq, nil

	case CatMonoRecord:
		// Shared field list read once; each element's field values then
		// decode as full nodes, each reading its own tag - symmetric with
		// the encoder.
		fieldCount, err := readU16(r)
		if err != nil {
			return nil, sourceError(CodeDecodeSequence, "shared field count", err)
		}
		names := make([]string, fieldCount)
		for i := range names {
			name, err := readString(r)
			if err != nil {
				return nil, sourceError(CodeDecodeSequence, "shared field name", err)
			}
			if name == "" {
				return nil, newError(CodeCorruptStruct, "empty field name")
			}
			names[i] = name
		}
		for i := uint32(0); i < count; i++ {
			rec := make(value.Record, 0, fieldCount)
			for _, name := range names {
				v, err := decodeNode(r, f, depth+1)
				if err != nil {
					return nil, wrapIndex(CodeDecodeRecord, int(i), wrapField(CodeDecodeRecord, name, err))
				}
				rec = append(rec, value.Field{Name: name, Value: v})
			}
			seq = append(seq, rec)
		}
		return seq, nil

	case CatHeteroRecord, CatMixed:
		for i := uint32(0); i < count; i++ {
			elem, err := decodeNode(r, f, depth+1)
			if err != nil {
				return nil, wrapIndex(CodeDecodeSequence, int(i), err)
			}
			seq = append(seq, elem)
		}
		return seq, nil

	default:
		return nil, newError(CodeDecodeSequence, fmt.Sprintf("category byte 0x%02x", catByte))
	}
}

// sourceError wraps a read failure from the byte source.
func sourceError(code Code, what string, err error) *Error {
	return &Error{Code: code, Message: "read " + what, Index: -1, Depth: -1, Err: err}
}

// Fixed-width little-endian read helpers.

func readByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func readU16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readU64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// readString reads a uint32 length prefix followed by that many UTF-8
// bytes.
func readString(r io.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	if n > maxStringLen {
		return "", fmt.Errorf("string length %d exceeds limit %d", n, maxStringLen)
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
