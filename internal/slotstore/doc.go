// Package slotstore provides a durable catalog of named save slots backed
// by SQLite. Each slot holds one fully-encoded save buffer (framed and
// optionally compressed by the savefile layer) plus bookkeeping: byte size
// and a logical write sequence.
//
// The store never inspects slot contents - it moves opaque buffers. Codec
// concerns stay in the codec.
package slotstore
