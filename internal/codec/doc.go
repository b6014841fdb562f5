// Package codec implements the binary encoder/decoder pair for plain-data
// save trees, plus the type classifier and the structural comparator that
// verifies round-trips.
//
// The wire format is little-endian, fixed once and for all:
//
//	node     = tag:u8 body
//	int32    = i32
//	int64    = u64 bit pattern
//	float64  = IEEE-754 u64 bit pattern
//	string   = len:u32 utf8-bytes
//	bool     = u8 (0|1)
//	record   = count:u16 (name:string node)*
//	sequence = category:u8 [count:u32 body]
//
// Sequences of uniformly-typed elements are optimized: a numeric sequence
// writes its numeric tag once (NumericPod), and a sequence of records
// sharing one field signature writes the field names once (MonoRecord).
//
// Recursion depth is bounded at MaxDepth on every encode, decode, and
// compare call. The bound is not cycle detection: a cyclic structure that
// aliases within the bound is duplicated, not detected.
package codec
