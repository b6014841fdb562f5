package codec

import (
	"errors"
	"fmt"
)

// Code categorizes codec and save-file errors. Codes are stable strings so
// callers and logs can match on them without string-parsing messages.
type Code string

const (
	// Write-side codes.
	CodeInvalidFilename Code = "INVALID_FILENAME" // empty or unusable target path
	CodeRemoveStale     Code = "REMOVE_STALE"     // deleting the pre-existing file failed
	CodeBackup          Code = "BACKUP"           // backup rotation failed
	CodeEncodeNode      Code = "ENCODE_NODE"      // node encode failed (nested cause)
	CodeCompress        Code = "COMPRESS"         // whole-buffer compression failed
	CodePersist         Code = "PERSIST"          // writing bytes to disk failed

	// Read-side codes.
	CodeFileMissing    Code = "FILE_MISSING"    // target file does not exist
	CodeLoad           Code = "LOAD"            // reading bytes from disk failed
	CodeDecompress     Code = "DECOMPRESS"      // whole-buffer decompression failed
	CodeHeaderMismatch Code = "HEADER_MISMATCH" // magic header absent or wrong
	CodeFooterMismatch Code = "FOOTER_MISMATCH" // magic footer absent or wrong
	CodeDecodeNode     Code = "DECODE_NODE"     // node decode failed (nested cause)

	// Per-tag decode codes.
	CodeDecodeInt32    Code = "DECODE_INT32"
	CodeDecodeInt64    Code = "DECODE_INT64"
	CodeDecodeFloat    Code = "DECODE_FLOAT"
	CodeDecodeString   Code = "DECODE_STRING"
	CodeDecodeBool     Code = "DECODE_BOOL"
	CodeDecodeRecord   Code = "DECODE_RECORD"
	CodeDecodeSequence Code = "DECODE_SEQUENCE"

	// Shared codes.
	CodeDepthExceeded    Code = "DEPTH_EXCEEDED"    // recursion bound hit
	CodeUnknownTag       Code = "UNKNOWN_TAG"       // unrecognized scalar tag byte
	CodeCorruptStruct    Code = "CORRUPT_STRUCT"    // empty field name or bad record framing
	CodeUnsupportedValue Code = "UNSUPPORTED_VALUE" // unencodable value at the root
)

// codeText maps codes to human-readable descriptions for reporting.
var codeText = map[Code]string{
	CodeInvalidFilename:  "invalid filename",
	CodeRemoveStale:      "failed to remove stale file",
	CodeBackup:           "backup rotation failed",
	CodeEncodeNode:       "node encode failed",
	CodeCompress:         "compression failed",
	CodePersist:          "persisting bytes failed",
	CodeFileMissing:      "file missing",
	CodeLoad:             "load failed",
	CodeDecompress:       "decompression failed",
	CodeHeaderMismatch:   "magic header mismatch",
	CodeFooterMismatch:   "magic footer mismatch",
	CodeDecodeNode:       "node decode failed",
	CodeDecodeInt32:      "int32 decode failed",
	CodeDecodeInt64:      "int64 decode failed",
	CodeDecodeFloat:      "float decode failed",
	CodeDecodeString:     "string decode failed",
	CodeDecodeBool:       "bool decode failed",
	CodeDecodeRecord:     "record decode failed",
	CodeDecodeSequence:   "sequence decode failed",
	CodeDepthExceeded:    "recursion depth exceeded",
	CodeUnknownTag:       "unknown scalar tag",
	CodeCorruptStruct:    "corrupt record structure",
	CodeUnsupportedValue: "unsupported value",
}

// Text returns the human-readable description for a code, or the code
// itself when unrecognized.
func (c Code) Text() string {
	if s, ok := codeText[c]; ok {
		return s
	}
	return string(c)
}

// Error represents a structured codec failure. Every encode/decode step
// returns one of these rather than a bare error: the code gives the coarse
// kind, and the context fields record where in the tree the failure
// happened. Recursive failures are wrapped with the parent's context, so
// the chain of Unwrap()s spells out the path from root to failure.
type Error struct {
	// Code identifies the failure category.
	Code Code

	// Message is a human-readable description.
	Message string

	// Field names the record field being processed, if any.
	Field string

	// Index is the sequence element index being processed, or -1.
	Index int

	// Depth is the recursion depth at the failure site, or -1.
	Depth int

	// Err is the nested cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code.Text()
	}
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s (field=%q): %v", e.Code, msg, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%s: %s (field=%q)", e.Code, msg, e.Field)
	case e.Index >= 0 && e.Err != nil:
		return fmt.Sprintf("%s: %s (index=%d): %v", e.Code, msg, e.Index, e.Err)
	case e.Index >= 0:
		return fmt.Sprintf("%s: %s (index=%d)", e.Code, msg, e.Index)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
}

// Unwrap returns the nested cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// newError creates an Error with no positional context.
func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Index: -1, Depth: -1}
}

// depthError creates the canonical depth-exceeded error.
func depthError(depth int) *Error {
	return &Error{
		Code:    CodeDepthExceeded,
		Message: fmt.Sprintf("nesting exceeds bound %d", MaxDepth),
		Index:   -1,
		Depth:   depth,
	}
}

// wrapField wraps a nested failure with the parent record's field context.
func wrapField(code Code, field string, err error) *Error {
	return &Error{Code: code, Field: field, Index: -1, Depth: -1, Err: err}
}

// wrapIndex wraps a nested failure with the parent sequence's element index.
func wrapIndex(code Code, index int, err error) *Error {
	return &Error{Code: code, Index: index, Depth: -1, Err: err}
}

// CodeOf extracts the Code from an error chain, or "" if the error is not a
// codec Error. Uses errors.As to handle wrapped errors.
func CodeOf(err error) Code {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsDepthExceeded reports whether the error chain contains a depth-bound
// failure at any level.
func IsDepthExceeded(err error) bool {
	for err != nil {
		var ce *Error
		if !errors.As(err, &ce) {
			return false
		}
		if ce.Code == CodeDepthExceeded {
			return true
		}
		err = ce.Err
	}
	return false
}
