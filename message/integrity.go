package message

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/arloliu/fixwire/errs"
	"github.com/arloliu/fixwire/protocol"
)

// checksumDigits is the fixed width of the CheckSum wire value.
const checksumDigits = 3

// checksumTrailerLen returns the byte length of the terminal checksum record:
// "10=NNN" plus one separator.
func checksumTrailerLen(checksumField *protocol.FieldDef) int {
	return len(checksumField.Tag()) + 1 + checksumDigits + 1
}

// checksumOf sums every byte of buf modulo 256 and renders the result as
// exactly three ASCII decimal digits.
//
// When a non-canonical separator is in use and convertSep is set, the
// separator is substituted with SOH for the computation so the result matches
// the production form of the buffer.
func checksumOf(buf []byte, sep byte, convertSep bool) []byte {
	if sep != SOH && convertSep {
		buf = bytes.ReplaceAll(buf, []byte{sep}, []byte{SOH})
	}

	sum := 0
	for _, b := range buf {
		sum += int(b)
	}

	return []byte(fmt.Sprintf("%03d", sum%256))
}

// calcChecksum computes the checksum of a framed buffer: the sum of every
// byte before the CheckSum record.
func calcChecksum(checksumField *protocol.FieldDef, buf []byte, sep byte, convertSep bool) []byte {
	return checksumOf(buf[:len(buf)-checksumTrailerLen(checksumField)], sep, convertSep)
}

// calcBodyLength computes the byte count between the end of the BodyLength
// record's separator and the start of the CheckSum record: the buffer length
// minus the two-record preamble and the trailing checksum record.
func calcBodyLength(buf []byte, pairs []tagValue, sep byte) int {
	headerLen := 0
	for _, pair := range pairs[:2] {
		headerLen += len(pair.tag) + 1 + len(pair.value) + 1
	}
	last := pairs[len(pairs)-1]
	trailerLen := len(last.tag) + 1 + len(last.value) + 1

	return len(buf) - headerLen - trailerLen
}

// verifyIntegrity checks the decoded BeginString, BodyLength and CheckSum
// against the protocol and the recomputed values. Each mismatch is reported
// as an errs.FieldValueMismatchError carrying the expected and received
// bytes.
func verifyIntegrity(
	p *protocol.Protocol,
	buf []byte,
	pairs []tagValue,
	decoded *FieldMap,
	sep byte,
	convertSep bool,
) error {
	if len(pairs) < 3 {
		return fmt.Errorf("%w: buffer has %d records, too few to verify", errs.ErrMalformedValue, len(pairs))
	}

	beginString, err := decodedWireValue(p, decoded, protocol.FieldBeginString)
	if err != nil {
		return err
	}
	if err := assertFieldValue(p, protocol.FieldBeginString, p.BeginString(), beginString); err != nil {
		return err
	}

	received, err := decodedWireValue(p, decoded, protocol.FieldBodyLength)
	if err != nil {
		return err
	}
	expected := []byte(strconv.Itoa(calcBodyLength(buf, pairs, sep)))
	if err := assertFieldValue(p, protocol.FieldBodyLength, expected, received); err != nil {
		return err
	}

	received, err = decodedWireValue(p, decoded, protocol.FieldCheckSum)
	if err != nil {
		return err
	}
	checksumField, _ := p.FieldByName(protocol.FieldCheckSum)
	expected = calcChecksum(checksumField, buf, sep, convertSep)

	return assertFieldValue(p, protocol.FieldCheckSum, expected, received)
}

// decodedWireValue re-encodes a decoded field back to wire bytes for a
// byte-exact comparison.
func decodedWireValue(p *protocol.Protocol, decoded *FieldMap, name string) ([]byte, error) {
	field, ok := p.FieldByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not defined by the protocol", errs.ErrUnknownField, name)
	}
	value, ok := decoded.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q absent from decoded message", errs.ErrMissingRequiredField, name)
	}

	return EncodeValue(p, field, value)
}

func assertFieldValue(p *protocol.Protocol, name string, expected, received []byte) error {
	if bytes.Equal(expected, received) {
		return nil
	}
	field, _ := p.FieldByName(name)

	return &errs.FieldValueMismatchError{
		FieldName: name,
		Tag:       field.Tag(),
		Expected:  expected,
		Received:  received,
	}
}
