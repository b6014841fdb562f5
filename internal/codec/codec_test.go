package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bsave/internal/value"
)

// roundTrip encodes v, decodes the bytes back, and returns the decoded
// tree plus the encoded size.
func roundTrip(t *testing.T, v value.Value, f Flags) (value.Value, int) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, v, f))

	decoded, err := Decode(bytes.NewReader(buf.Bytes()), f)
	require.NoError(t, err)
	return decoded, buf.Len()
}

func TestRoundTripScalars(t *testing.T) {
	cases := []struct {
		name string
		v    value.Value
	}{
		{"int32_max_ish", value.Int32(2147483640)},
		{"int32_min_ish", value.Int32(-2147483640)},
		{"int32_zero", value.Int32(0)},
		{"string_lorem", value.String("consectetur adipiscing elit")},
		{"string_empty", value.String("")},
		{"string_unicode", value.String("héllo wörld  ")},
		{"bool_true", value.Bool(true)},
		{"bool_false", value.Bool(false)},
		{"float_half", value.Float64(0.5)},
		{"float_negative", value.Float64(-123.25)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded, _ := roundTrip(t, tc.v, Flags{})
			assert.Equal(t, tc.v, decoded)
			assert.True(t, DeepEqual(tc.v, decoded, Flags{}))
		})
	}
}

func TestRoundTripFloatPrecisionBound(t *testing.T) {
	// The literal exceeds 64-bit float precision; the round trip yields
	// the literal truncated to float64, nothing more.
	const pi = 3.14159265358979323846264338327950288419716939937510582097494459

	decoded, _ := roundTrip(t, value.Float64(pi), Flags{})
	assert.Equal(t, value.Float64(pi), decoded)
}

func TestRoundTripInt64(t *testing.T) {
	f := Flags{SupportU64: true}

	decoded, _ := roundTrip(t, value.Int64(1<<40+17), f)
	assert.Equal(t, value.Int64(1<<40+17), decoded)

	decoded, _ = roundTrip(t, value.Int64(-9), f)
	assert.Equal(t, value.Int64(-9), decoded)
}

func TestInt64TruncatesWithoutU64(t *testing.T) {
	// Down-classified to int32: high bits are lost, by contract.
	decoded, _ := roundTrip(t, value.Int64(1<<40+17), Flags{})
	assert.Equal(t, value.Int32(17), decoded)
}

func TestRealIntDowncast(t *testing.T) {
	f := Flags{SupportRealInt: true}

	decoded, _ := roundTrip(t, value.Float64(42), f)
	assert.Equal(t, value.Int32(42), decoded)

	// The comparator applies the same classification, so the original
	// float and the decoded int compare equal under the flag.
	assert.True(t, DeepEqual(value.Float64(42), decoded, f))
}

func TestRoundTripRecord(t *testing.T) {
	rec := value.Rec(
		value.F("name", value.String("hero")),
		value.F("level", value.Int32(9)),
		value.F("health", value.Float64(87.5)),
		value.F("alive", value.Bool(true)),
	)

	decoded, _ := roundTrip(t, rec, Flags{})
	assert.Equal(t, value.Value(rec), decoded)
	assert.True(t, DeepEqual(rec, decoded, Flags{}))
}

func TestRecordDropsUnsupportedMembers(t *testing.T) {
	rec := value.Rec(
		value.F("keep", value.Int32(1)),
		value.F("drop", nil),
		value.F("also", value.String("x")),
	)

	decoded, _ := roundTrip(t, rec, Flags{})
	want := value.Rec(
		value.F("keep", value.Int32(1)),
		value.F("also", value.String("x")),
	)
	assert.Equal(t, value.Value(want), decoded)
	assert.True(t, DeepEqual(rec, decoded, Flags{}))
}

func TestRoundTripSequences(t *testing.T) {
	cases := []struct {
		name string
		v    value.Sequence
	}{
		{"string_arr", value.Seq(value.String("a"), value.String("bb"), value.String(""))},
		{"bool_arr", value.Seq(value.Bool(true), value.Bool(false), value.Bool(true))},
		{"numeric_pod_int", value.Seq(value.Int32(1), value.Int32(-2), value.Int32(3))},
		{"numeric_pod_float", value.Seq(value.Float64(1.5), value.Float64(2.5))},
		{"mixed", value.Seq(value.Int32(1), value.String("two"), value.Bool(true))},
		{"mono_record", value.Seq(
			value.Rec(value.F("a", value.Int32(1)), value.F("b", value.String("x"))),
			value.Rec(value.F("a", value.Int32(2)), value.F("b", value.String("y"))),
		)},
		{"hetero_record", value.Seq(
			value.Rec(value.F("a", value.Int32(1))),
			value.Rec(value.F("z", value.Bool(false))),
		)},
		{"nested", value.Seq(
			value.Seq(value.Int32(1), value.Int32(2)),
			value.Seq(value.String("deep")),
		)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded, _ := roundTrip(t, tc.v, Flags{})
			assert.Equal(t, value.Value(tc.v), decoded)
			assert.True(t, DeepEqual(tc.v, decoded, Flags{}))
		})
	}
}

func TestNumericPodCoercesSubKinds(t *testing.T) {
	// Declared tag is the first element's kind; other sub-kinds are
	// coerced, not preserved.
	seq := value.Seq(value.Int32(1), value.Float64(2.5))

	decoded, _ := roundTrip(t, seq, Flags{})
	assert.Equal(t, value.Value(value.Seq(value.Int32(1), value.Int32(2))), decoded)
}

func TestEmptySequenceEncoding(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, value.Sequence{}, Flags{}))

	// Category byte only: no length, no body.
	assert.Equal(t, []byte{byte(TagSequence), byte(CatEmpty)}, buf.Bytes())

	decoded, err := Decode(bytes.NewReader(buf.Bytes()), Flags{})
	require.NoError(t, err)
	assert.Equal(t, value.Value(value.Sequence{}), decoded)
}

func TestLargeNumericPodHasNoPerElementOverhead(t *testing.T) {
	const n = 65536

	seq := make(value.Sequence, n)
	for i := range seq {
		seq[i] = value.Int32(int32(i))
	}

	decoded, size := roundTrip(t, seq, Flags{})
	assert.True(t, DeepEqual(seq, decoded, Flags{}))

	// tag + category + count + declared tag + 4 bytes per element. A
	// per-element tag would add another n bytes.
	assert.Equal(t, 1+1+4+1+4*n, size)
}

func TestAssumeHeteroDisablesOptimization(t *testing.T) {
	const n = 8
	seq := make(value.Sequence, n)
	for i := range seq {
		seq[i] = value.Int32(int32(i))
	}

	f := Flags{AssumeHetero: true}
	decoded, size := roundTrip(t, seq, f)
	assert.True(t, DeepEqual(seq, decoded, f))

	// Full nodes: tag + category + count, then tag + value per element.
	assert.Equal(t, 1+1+4+n*(1+4), size)
}

// nestedRecord builds a chain of single-field records `levels` deep with
// an int32 leaf.
func nestedRecord(levels int) value.Value {
	v := value.Value(value.Int32(1))
	for i := 0; i < levels; i++ {
		v = value.Rec(value.F("child", v))
	}
	return v
}

func TestDepthBoundEnforcement(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, nestedRecord(17), Flags{})
	require.Error(t, err)
	assert.True(t, IsDepthExceeded(err))
	assert.Equal(t, CodeEncodeNode, CodeOf(err))

	buf.Reset()
	require.NoError(t, Encode(&buf, nestedRecord(15), Flags{}))

	decoded, err := Decode(bytes.NewReader(buf.Bytes()), Flags{})
	require.NoError(t, err)
	assert.True(t, DeepEqual(nestedRecord(15), decoded, Flags{}))
}

func TestEncodeRejectsEmptyFieldName(t *testing.T) {
	rec := value.Rec(value.F("", value.Int32(1)))

	var buf bytes.Buffer
	err := Encode(&buf, rec, Flags{})
	require.Error(t, err)
	assert.Equal(t, CodeCorruptStruct, CodeOf(err))
}

func TestEncodeRejectsUnsupportedRoot(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, nil, Flags{})
	require.Error(t, err)
	assert.Equal(t, CodeUnsupportedValue, CodeOf(err))
}
