package savefile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/roach88/bsave/internal/codec"
	"github.com/roach88/bsave/internal/value"
)

// Magic literals framing every serialized tree. Both are written as
// length-prefixed strings, same as any string node, so the header doubles
// as a quick endianness/format sanity check.
const (
	magicHeader = "BSONGML"
	magicFooter = "EOFBSONGML"
)

// encodeFrame serializes header + node + footer into a fresh buffer.
func encodeFrame(v value.Value, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	writeMagic(&buf, magicHeader)

	if err := codec.Encode(&buf, v, opts.flags()); err != nil {
		return nil, &codec.Error{Code: codec.CodeEncodeNode, Message: "encode root node", Index: -1, Depth: -1, Err: err}
	}

	writeMagic(&buf, magicFooter)
	return buf.Bytes(), nil
}

// decodeFrame verifies the header, decodes the single node, and verifies
// the footer. Any magic mismatch is a hard failure.
func decodeFrame(data []byte, opts Options) (value.Value, error) {
	r := bytes.NewReader(data)

	if err := expectMagic(r, magicHeader); err != nil {
		return nil, &codec.Error{Code: codec.CodeHeaderMismatch, Message: "verify magic header", Index: -1, Depth: -1, Err: err}
	}

	v, err := codec.Decode(r, opts.flags())
	if err != nil {
		return nil, &codec.Error{Code: codec.CodeDecodeNode, Message: "decode root node", Index: -1, Depth: -1, Err: err}
	}

	if err := expectMagic(r, magicFooter); err != nil {
		return nil, &codec.Error{Code: codec.CodeFooterMismatch, Message: "verify magic footer", Index: -1, Depth: -1, Err: err}
	}
	return v, nil
}

// writeMagic writes a length-prefixed magic string. Writes to a
// bytes.Buffer cannot fail.
func writeMagic(buf *bytes.Buffer, magic string) {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(magic)))
	buf.Write(lenBuf[:])
	buf.WriteString(magic)
}

// expectMagic reads a length-prefixed string and compares it against the
// expected literal.
func expectMagic(r io.Reader, magic string) error {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return err
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	if n != uint32(len(magic)) {
		return fmt.Errorf("expected magic %q", magic)
	}
	got := make([]byte, n)
	if _, err := io.ReadFull(r, got); err != nil {
		return err
	}
	if string(got) != magic {
		return fmt.Errorf("expected magic %q, got %q", magic, string(got))
	}
	return nil
}
