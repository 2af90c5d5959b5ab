package message

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/arloliu/fixwire/errs"
	"github.com/arloliu/fixwire/protocol"
)

// Decode parses a framed wire buffer into a structured message.
//
// The three-field preamble must appear first and in declaration order; the
// remaining header members, the body members and all trailer members except
// the final CheckSum may appear in any order. Repeating groups decode into
// ordered occurrence lists, with child fields consumed in declared order.
//
// In strict mode (the default) an unseen required member fails the decode; in
// non-strict mode the omissions are tolerated and listed in Message.Omitted.
// Unless validation is disabled, the decoded BeginString, BodyLength and
// CheckSum are verified against the protocol and the recomputed values.
func Decode(p *protocol.Protocol, buf []byte, opts ...Option) (*Message, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	pairs := tokenize(buf, cfg.sep)
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", errs.ErrMalformedValue)
	}

	d := &decoder{p: p, pairs: pairs, cfg: cfg}
	data := NewFieldMap()

	headerMembers := p.Header().Flatten()
	idx, err := d.decodeInOrder(0, headerMembers[:3], data)
	if err != nil {
		return nil, err
	}
	idx, err = d.decodeAnyOrder(idx, headerMembers[3:], data)
	if err != nil {
		return nil, err
	}

	def, err := findMessageDef(p, data)
	if err != nil {
		return nil, err
	}

	idx, err = d.decodeAnyOrder(idx, def.Members().Flatten(), data)
	if err != nil {
		return nil, err
	}

	trailerMembers := p.Trailer().Flatten()
	idx, err = d.decodeAnyOrder(idx, trailerMembers[:len(trailerMembers)-1], data)
	if err != nil {
		return nil, err
	}
	if _, err = d.decodeInOrder(idx, trailerMembers[len(trailerMembers)-1:], data); err != nil {
		return nil, err
	}

	if cfg.validate {
		if err := verifyIntegrity(p, buf, pairs, data, cfg.sep, cfg.convertSepChecksum); err != nil {
			return nil, err
		}
	}

	return &Message{Protocol: p, Data: data, Def: def, Omitted: d.omitted}, nil
}

// decoder carries the per-call decode state: the token stream, the dials, and
// the required-member omissions tolerated in non-strict mode.
type decoder struct {
	p       *protocol.Protocol
	pairs   []tagValue
	cfg     *config
	omitted []string
}

// decodeInOrder consumes the token stream and the member slice in lockstep.
// A received tag matching the next expected member consumes both; a
// non-matching expected member is skipped, which in strict mode is an error
// when the member is required. The pass ends at end of stream, end of
// template, or the first tag no remaining member accepts, and returns the
// stream cursor.
func (d *decoder) decodeInOrder(idx int, members []*protocol.MemberDef, out *FieldMap) (int, error) {
	mi := 0
	for idx < len(d.pairs) {
		pair := d.pairs[idx]
		field, ok := d.p.FieldByTag(pair.tag)
		if !ok {
			return idx, fmt.Errorf("%w: tag %s with value %q", errs.ErrUnknownField, pair.tag, pair.value)
		}

		member, err := d.nextMember(field, members, &mi)
		if err != nil {
			return idx, err
		}
		if member == nil {
			break
		}
		idx++

		idx, err = d.decodeMember(idx, member, field, pair.value, out)
		if err != nil {
			return idx, err
		}
	}

	if err := d.checkUnseen(members[mi:], nil); err != nil {
		return idx, err
	}

	return idx, nil
}

// nextMember advances the member cursor until it finds the received field,
// skipping non-matching members on the way. Skipping a required member is a
// strict-mode error; in non-strict mode the skip is recorded as tolerated.
func (d *decoder) nextMember(field *protocol.FieldDef, members []*protocol.MemberDef, mi *int) (*protocol.MemberDef, error) {
	for *mi < len(members) {
		member := members[*mi]
		*mi++
		if bytes.Equal(member.Field().Tag(), field.Tag()) {
			return member, nil
		}
		if member.Required() {
			if d.cfg.strict {
				return nil, fmt.Errorf("%w: %q", errs.ErrMissingRequiredField, member.Name())
			}
			d.omitted = append(d.omitted, member.Name())
		}
	}

	return nil, nil
}

// decodeAnyOrder indexes the members by tag and consumes stream records in
// whatever order they arrive. The pass ends at the first tag outside the
// index and returns the stream cursor.
func (d *decoder) decodeAnyOrder(idx int, members []*protocol.MemberDef, out *FieldMap) (int, error) {
	byTag := make(map[string]*protocol.MemberDef, len(members))
	for _, member := range members {
		byTag[string(member.Field().Tag())] = member
	}

	found := make(map[string]bool, len(members))
	for idx < len(d.pairs) {
		pair := d.pairs[idx]
		field, ok := d.p.FieldByTag(pair.tag)
		if !ok {
			return idx, fmt.Errorf("%w: tag %s with value %q", errs.ErrUnknownField, pair.tag, pair.value)
		}
		member := byTag[string(pair.tag)]
		if member == nil {
			break
		}
		found[member.Name()] = true
		idx++

		var err error
		idx, err = d.decodeMember(idx, member, field, pair.value, out)
		if err != nil {
			return idx, err
		}
	}

	if err := d.checkUnseen(members, found); err != nil {
		return idx, err
	}

	return idx, nil
}

// decodeMember stores one decoded field or one decoded group occurrence list
// and returns the advanced stream cursor.
func (d *decoder) decodeMember(idx int, member *protocol.MemberDef, field *protocol.FieldDef, value []byte, out *FieldMap) (int, error) {
	if member.Kind() == protocol.KindGroup {
		occurrences, next, err := d.decodeGroup(idx, member, value)
		if err != nil {
			return idx, err
		}
		out.Set(field.Name(), occurrences)

		return next, nil
	}

	decoded, err := DecodeValue(d.p, field, value)
	if err != nil {
		return idx, err
	}
	out.Set(field.Name(), decoded)

	return idx, nil
}

// decodeGroup parses the count and then runs one ordered pass per occurrence
// over the group's child template. Both decode disciplines record the
// occurrence list; the raw count is recomputed from the list on encode.
func (d *decoder) decodeGroup(idx int, member *protocol.MemberDef, countBytes []byte) ([]*FieldMap, int, error) {
	count, err := strconv.Atoi(string(countBytes))
	if err != nil || count < 0 {
		return nil, idx, fmt.Errorf("%w: group %q count %q",
			errs.ErrMalformedValue, member.Name(), countBytes)
	}

	children := member.Children().Flatten()
	occurrences := make([]*FieldMap, 0, count)
	for range count {
		occurrence := NewFieldMap()
		idx, err = d.decodeInOrder(idx, children, occurrence)
		if err != nil {
			return nil, idx, err
		}
		occurrences = append(occurrences, occurrence)
	}

	return occurrences, idx, nil
}

// checkUnseen enforces required members at end of pass. found is nil for the
// ordered pass, whose unmatched members arrive as the remaining slice.
func (d *decoder) checkUnseen(members []*protocol.MemberDef, found map[string]bool) error {
	var missing []string
	for _, member := range members {
		if member.Required() && !found[member.Name()] {
			missing = append(missing, member.Name())
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if d.cfg.strict {
		return fmt.Errorf("%w: %v", errs.ErrMissingRequiredField, missing)
	}
	d.omitted = append(d.omitted, missing...)

	return nil
}

// findMessageDef resolves the message template for a structured message by
// re-encoding its MsgType to the wire code and consulting the message table.
func findMessageDef(p *protocol.Protocol, data *FieldMap) (*protocol.MessageDef, error) {
	field, ok := p.FieldByName(protocol.FieldMsgType)
	if !ok {
		return nil, fmt.Errorf("%w: protocol defines no MsgType field", errs.ErrUnknownMsgType)
	}
	value, ok := data.Get(protocol.FieldMsgType)
	if !ok {
		return nil, fmt.Errorf("%w: message carries no MsgType", errs.ErrUnknownMsgType)
	}
	wire, err := EncodeValue(p, field, value)
	if err != nil {
		return nil, err
	}
	def, ok := p.MessageByType(wire)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownMsgType, wire)
	}

	return def, nil
}
