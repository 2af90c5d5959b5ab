package message

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/arloliu/fixwire/errs"
	"github.com/arloliu/fixwire/protocol"
)

// Encode serializes a structured message against its resolved template,
// walking the header, body and trailer templates in declaration order and
// recursing into repeating groups.
//
// With integrity regeneration enabled (the default), the caller-supplied
// BeginString, BodyLength and CheckSum are replaced with placeholders before
// the walk, and the final buffer carries the recomputed body length and
// checksum. The computed values are written back into data so the caller can
// observe them. With regeneration disabled, the walked fields are emitted
// exactly as supplied.
func Encode(p *protocol.Protocol, data *FieldMap, def *protocol.MessageDef, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	if cfg.regenerateIntegrity {
		// Placeholders guarantee the three-field preamble and the checksum
		// trailer are emitted; the real values are patched in afterwards.
		data.Set(protocol.FieldBeginString, string(p.BeginString()))
		data.Set(protocol.FieldBodyLength, int64(0))
		data.Set(protocol.FieldCheckSum, "000")
	}

	var pairs []tagValue
	if err := encodeMembers(p, data, p.Header(), &pairs); err != nil {
		return nil, err
	}
	if err := encodeMembers(p, data, def.Members(), &pairs); err != nil {
		return nil, err
	}
	if err := encodeMembers(p, data, p.Trailer(), &pairs); err != nil {
		return nil, err
	}

	if !cfg.regenerateIntegrity {
		return joinPairs(pairs, cfg.sep), nil
	}

	buf, bodyLength, checksum := regenerateIntegrity(p, pairs, cfg)
	data.Set(protocol.FieldBodyLength, int64(bodyLength))
	data.Set(protocol.FieldCheckSum, checksum)

	return buf, nil
}

// encodeMembers walks one template, appending a (tag, value) pair per present
// member and recursing into group occurrences. Absent required members fail
// the encode; absent optional members are skipped.
func encodeMembers(p *protocol.Protocol, data *FieldMap, members *protocol.MemberMap, pairs *[]tagValue) error {
	for member := range members.Walk() {
		value, ok := data.Get(member.Name())
		if !ok {
			if member.Required() {
				return fmt.Errorf("%w: %q", errs.ErrMissingEncodeField, member.Name())
			}

			continue
		}

		field := member.Field()
		switch member.Kind() {
		case protocol.KindGroup:
			occurrences, ok := value.([]*FieldMap)
			if !ok {
				return fmt.Errorf("%w: group %q expects []*FieldMap occurrences, got %T",
					errs.ErrMalformedValue, member.Name(), value)
			}
			count, err := EncodeValue(p, field, int64(len(occurrences)))
			if err != nil {
				return err
			}
			*pairs = append(*pairs, tagValue{tag: field.Tag(), value: count})
			for _, occurrence := range occurrences {
				if err := encodeMembers(p, occurrence, member.Children(), pairs); err != nil {
					return err
				}
			}
		default:
			wire, err := EncodeValue(p, field, value)
			if err != nil {
				return err
			}
			*pairs = append(*pairs, tagValue{tag: field.Tag(), value: wire})
		}
	}

	return nil
}

// regenerateIntegrity rebuilds the preamble with the true body length and
// appends the true checksum trailer. pairs must start with the BeginString
// and BodyLength placeholders and end with the CheckSum placeholder.
func regenerateIntegrity(p *protocol.Protocol, pairs []tagValue, cfg *config) ([]byte, int, string) {
	var body bytes.Buffer
	for _, pair := range pairs[2 : len(pairs)-1] {
		writePair(&body, pair, cfg.sep)
	}
	bodyLength := body.Len()

	beginStringField, _ := p.FieldByName(protocol.FieldBeginString)
	bodyLengthField, _ := p.FieldByName(protocol.FieldBodyLength)
	checksumField, _ := p.FieldByName(protocol.FieldCheckSum)

	var buf bytes.Buffer
	writePair(&buf, tagValue{tag: beginStringField.Tag(), value: p.BeginString()}, cfg.sep)
	writePair(&buf, tagValue{tag: bodyLengthField.Tag(), value: []byte(strconv.Itoa(bodyLength))}, cfg.sep)
	buf.Write(body.Bytes())

	checksum := checksumOf(buf.Bytes(), cfg.sep, cfg.convertSepChecksum)
	writePair(&buf, tagValue{tag: checksumField.Tag(), value: checksum}, cfg.sep)

	return buf.Bytes(), bodyLength, string(checksum)
}

func joinPairs(pairs []tagValue, sep byte) []byte {
	var buf bytes.Buffer
	for _, pair := range pairs {
		writePair(&buf, pair, sep)
	}

	return buf.Bytes()
}

func writePair(buf *bytes.Buffer, pair tagValue, sep byte) {
	buf.Write(pair.tag)
	buf.WriteByte('=')
	buf.Write(pair.value)
	buf.WriteByte(sep)
}
