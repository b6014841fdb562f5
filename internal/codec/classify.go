package codec

import (
	"math"

	"github.com/roach88/bsave/internal/value"
)

// scalarTag derives the canonical on-disk tag for a value under the given
// flags. A nil Value (or any future non-sealed kind) is unsupported.
func scalarTag(v value.Value, f Flags) Tag {
	switch sv := v.(type) {
	case value.Int32:
		return TagInt32
	case value.Int64:
		if f.SupportU64 {
			return TagInt64
		}
		// Down-classified: written as int32, truncating the high bits.
		return TagInt32
	case value.Float64:
		if f.SupportRealInt && math.Trunc(float64(sv)) == float64(sv) {
			// Integral float reported as int32. No range check - lossy
			// beyond 32-bit range.
			return TagInt32
		}
		return TagFloat64
	case value.String:
		return TagString
	case value.Bool:
		return TagBool
	case value.Record:
		return TagRecord
	case value.Sequence:
		return TagSequence
	default:
		return TagUnsupported
	}
}

// isNumeric reports whether a tag belongs to the numeric group that
// collapses into the NumericPod category.
func isNumeric(t Tag) bool {
	return t == TagInt32 || t == TagInt64 || t == TagFloat64
}

// signature is a record's ordered field-name/tag fingerprint. Fields whose
// value is unsupported are excluded - they are dropped on encode, so they
// must not participate in mono-record classification either.
type signature struct {
	names []string
	tags  []Tag
}

// signatureOf derives a record's field signature under the given flags.
func signatureOf(rec value.Record, f Flags) signature {
	sig := signature{
		names: make([]string, 0, len(rec)),
		tags:  make([]Tag, 0, len(rec)),
	}
	for _, fld := range rec {
		t := scalarTag(fld.Value, f)
		if t == TagUnsupported {
			continue
		}
		sig.names = append(sig.names, fld.Name)
		sig.tags = append(sig.tags, t)
	}
	return sig
}

// signaturesEqual reports whether two signatures have identical field names
// at every position. Order-sensitive by design: this is a positional
// comparison, not a set comparison. Tags are not consulted.
func signaturesEqual(a, b signature) bool {
	if len(a.names) != len(b.names) {
		return false
	}
	for i := range a.names {
		if a.names[i] != b.names[i] {
			return false
		}
	}
	return true
}

// categorize scans a sequence once and derives its optimization category
// plus, for NumericPod, the declared element tag (taken from the first
// element - mixed numeric sub-kinds are not separately preserved).
//
// forceHetero short-circuits to Mixed unconditionally. A sequence containing
// any unsupported element categorizes as Empty: unsupported members
// contribute nothing serializable, so the whole body is elided.
func categorize(seq value.Sequence, f Flags, forceHetero bool) (Category, Tag) {
	if forceHetero {
		return CatMixed, TagUnsupported
	}
	if len(seq) == 0 {
		return CatEmpty, TagUnsupported
	}

	first := scalarTag(seq[0], f)
	if first == TagUnsupported {
		return CatEmpty, TagUnsupported
	}

	var firstSig signature
	if first == TagRecord {
		firstSig = signatureOf(seq[0].(value.Record), f)
	}

	mono := true
	for _, elem := range seq[1:] {
		t := scalarTag(elem, f)
		if t == TagUnsupported {
			return CatEmpty, TagUnsupported
		}
		if isNumeric(first) && isNumeric(t) {
			continue
		}
		if t != first {
			return CatMixed, TagUnsupported
		}
		if t == TagRecord && !signaturesEqual(signatureOf(elem.(value.Record), f), firstSig) {
			mono = false
		}
	}

	switch {
	case isNumeric(first):
		return CatNumericPod, first
	case first == TagString:
		return CatStringArr, TagUnsupported
	case first == TagBool:
		return CatBoolArr, TagUnsupported
	case first == TagRecord:
		if mono {
			return CatMonoRecord, TagUnsupported
		}
		return CatHeteroRecord, TagUnsupported
	default:
		// Sequences of sequences have uniform tags but no optimized body.
		return CatMixed, TagUnsupported
	}
}
