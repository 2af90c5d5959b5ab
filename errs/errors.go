// Package errs defines the error values shared across the fixwire packages.
//
// Errors fall into two groups: decoding failures (unknown fields, malformed
// values, integrity mismatches) and encoding failures (missing required
// fields, unencodable values). Call sites wrap these sentinels with
// fmt.Errorf("%w: ...") to attach the field name and the offending bytes.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField indicates a wire tag with no entry in the protocol's field table.
	ErrUnknownField = errors.New("unknown field")

	// ErrUnknownMsgType indicates a decoded MsgType with no message template.
	ErrUnknownMsgType = errors.New("unknown message type")

	// ErrUnknownValueType indicates a field descriptor naming a value type the codec
	// has no converter for.
	ErrUnknownValueType = errors.New("unknown value type")

	// ErrMissingRequiredField indicates a required member that was not observed
	// while decoding in strict mode.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrMalformedValue indicates a field value that could not be converted
	// (bad number, bad date, bad boolean, or a Go value of the wrong type).
	ErrMalformedValue = errors.New("malformed value")

	// ErrFieldValueMismatch indicates an integrity check failure on BeginString,
	// BodyLength or CheckSum.
	ErrFieldValueMismatch = errors.New("field value mismatch")

	// ErrMissingEncodeField indicates a required member absent from the input
	// message while encoding.
	ErrMissingEncodeField = errors.New("required field missing from message")

	// ErrDuplicateTag indicates two field definitions sharing a tag.
	ErrDuplicateTag = errors.New("duplicate field tag")

	// ErrDuplicateMsgType indicates two message definitions sharing a wire type.
	ErrDuplicateMsgType = errors.New("duplicate message type")

	// ErrDuplicateMember indicates two members sharing a name within one template.
	ErrDuplicateMember = errors.New("duplicate member name")

	// ErrInvalidTemplate indicates a header or trailer template violating the
	// preamble or checksum placement invariants.
	ErrInvalidTemplate = errors.New("invalid template")
)

// FieldValueMismatchError reports an integrity verification failure. It carries
// the field identity together with the expected and received wire bytes so the
// caller can see exactly which bytes disagreed.
type FieldValueMismatchError struct {
	FieldName string
	Tag       []byte
	Expected  []byte
	Received  []byte
}

// Error implements the error interface.
func (e *FieldValueMismatchError) Error() string {
	return fmt.Sprintf("field %s (%q): expected %q, received %q",
		e.Tag, e.FieldName, e.Expected, e.Received)
}

// Unwrap makes the error match ErrFieldValueMismatch with errors.Is.
func (e *FieldValueMismatchError) Unwrap() error {
	return ErrFieldValueMismatch
}
