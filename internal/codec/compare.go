package codec

import "github.com/roach88/bsave/internal/value"

// DeepEqual reports whether two value trees are structurally equal under
// the given flags. It re-derives each side's classification independently
// of the codec: mismatched tags at any node short-circuit to unequal.
//
// Records compare by their order-sensitive field signature and then field
// by field at the matching index - two records with the same field set in
// a different order are unequal. This is a documented quirk of the format,
// kept deliberately.
//
// Exceeding the depth bound returns false, not an error: callers must not
// rely on deep-but-not-too-deep structures comparing reliably.
func DeepEqual(a, b value.Value, f Flags) bool {
	return deepEqual(a, b, f, 0)
}

func deepEqual(a, b value.Value, f Flags, depth int) bool {
	if depth >= MaxDepth {
		return false
	}

	ta := scalarTag(a, f)
	tb := scalarTag(b, f)
	if ta != tb {
		return false
	}

	switch ta {
	case TagUnsupported:
		// Neither side has a serializable representation; vacuously equal.
		return true

	case TagInt32:
		// Coercion mirrors the encoder: under realint an integral float
		// compares equal to the int32 it would serialize as.
		return asInt32(a) == asInt32(b)

	case TagInt64:
		return asInt64(a) == asInt64(b)

	case TagFloat64:
		return asFloat64(a) == asFloat64(b)

	case TagString:
		return a.(value.String) == b.(value.String)

	case TagBool:
		return a.(value.Bool) == b.(value.Bool)

	case TagRecord:
		ra := a.(value.Record)
		rb := b.(value.Record)
		sigA := signatureOf(ra, f)
		sigB := signatureOf(rb, f)
		if !signaturesEqual(sigA, sigB) {
			return false
		}
		fa := serializableFields(ra, f)
		fb := serializableFields(rb, f)
		for i := range fa {
			if !deepEqual(fa[i].Value, fb[i].Value, f, depth+1) {
				return false
			}
		}
		return true

	case TagSequence:
		sa := a.(value.Sequence)
		sb := b.(value.Sequence)
		catA, _ := categorize(sa, f, f.AssumeHetero)
		catB, _ := categorize(sb, f, f.AssumeHetero)
		if catA != catB {
			return false
		}
		if len(sa) != len(sb) {
			return false
		}
		for i := range sa {
			if !deepEqual(sa[i], sb[i], f, depth+1) {
				return false
			}
		}
		return true

	default:
		return false
	}
}
