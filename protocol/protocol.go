// Package protocol defines the in-memory protocol model driving the codec:
// field definitions, components, message templates, the header and trailer
// layouts, and the conversion dials (timestamp precision, decimal
// representation, per-type enum decoding).
//
// The model is built once, typically by the loader package, validated against
// the structural invariants (tag uniqueness, message-type uniqueness, preamble
// and checksum placement) and treated as read-only afterwards. A validated
// Protocol is safe to share across goroutines.
package protocol

import (
	"fmt"

	"github.com/arloliu/fixwire/errs"
	"github.com/arloliu/fixwire/internal/options"
)

// Names of the fields with fixed structural roles.
const (
	FieldBeginString = "BeginString"
	FieldBodyLength  = "BodyLength"
	FieldMsgType     = "MsgType"
	FieldCheckSum    = "CheckSum"
)

// Protocol is the complete protocol model.
type Protocol struct {
	version        string
	beginString    []byte
	fieldsByName   map[string]*FieldDef
	fieldsByTag    map[string]*FieldDef
	components     map[string]*ComponentDef
	messagesByName map[string]*MessageDef
	messagesByType map[string]*MessageDef
	header         *MemberMap
	trailer        *MemberMap

	millisecondTime bool
	decimalFloat    bool
	enumPolicy      map[ValueType]bool
}

// Option configures the protocol dials at construction time.
type Option = options.Option[*Protocol]

// WithMillisecondTime controls whether time-bearing value types use the
// millisecond wire format. The default is true.
func WithMillisecondTime(enabled bool) Option {
	return options.NoError(func(p *Protocol) {
		p.millisecondTime = enabled
	})
}

// WithDecimalFloat controls whether decimal value types round-trip as
// arbitrary-precision decimals (true) or binary floats (false). The default
// is false.
func WithDecimalFloat(enabled bool) Option {
	return options.NoError(func(p *Protocol) {
		p.decimalFloat = enabled
	})
}

// WithTypeEnum sets the enum-decode policy for one value type. When enabled
// (the default for every type), a field of that type with an enum dictionary
// decodes to the symbolic name; when disabled it decodes to the primitive.
func WithTypeEnum(valueType ValueType, enabled bool) Option {
	return options.NoError(func(p *Protocol) {
		p.enumPolicy[valueType] = enabled
	})
}

// WithEnumPolicy merges a per-type enum-decode policy map. Types absent from
// the map keep their current setting.
func WithEnumPolicy(policy map[ValueType]bool) Option {
	return options.NoError(func(p *Protocol) {
		for valueType, enabled := range policy {
			p.enumPolicy[valueType] = enabled
		}
	})
}

// New constructs and validates a protocol model.
//
// The field table must be tag-unique, the message table type-unique, the
// header must begin with BeginString, BodyLength and MsgType in that order,
// and the trailer must end with CheckSum.
func New(
	version string,
	beginString string,
	fields []*FieldDef,
	components []*ComponentDef,
	messages []*MessageDef,
	header *MemberMap,
	trailer *MemberMap,
	opts ...Option,
) (*Protocol, error) {
	p := &Protocol{
		version:         version,
		beginString:     []byte(beginString),
		fieldsByName:    make(map[string]*FieldDef, len(fields)),
		fieldsByTag:     make(map[string]*FieldDef, len(fields)),
		components:      make(map[string]*ComponentDef, len(components)),
		messagesByName:  make(map[string]*MessageDef, len(messages)),
		messagesByType:  make(map[string]*MessageDef, len(messages)),
		header:          header,
		trailer:         trailer,
		millisecondTime: true,
		enumPolicy:      make(map[ValueType]bool),
	}

	for _, field := range fields {
		if _, exists := p.fieldsByName[field.Name()]; exists {
			return nil, fmt.Errorf("%w: field %q", errs.ErrDuplicateMember, field.Name())
		}
		if existing, exists := p.fieldsByTag[string(field.Tag())]; exists {
			return nil, fmt.Errorf("%w: tag %s used by %q and %q",
				errs.ErrDuplicateTag, field.Tag(), existing.Name(), field.Name())
		}
		p.fieldsByName[field.Name()] = field
		p.fieldsByTag[string(field.Tag())] = field
	}

	for _, component := range components {
		p.components[component.Name()] = component
	}

	for _, message := range messages {
		if existing, exists := p.messagesByType[string(message.MsgType())]; exists {
			return nil, fmt.Errorf("%w: type %s used by %q and %q",
				errs.ErrDuplicateMsgType, message.MsgType(), existing.Name(), message.Name())
		}
		p.messagesByName[message.Name()] = message
		p.messagesByType[string(message.MsgType())] = message
	}

	if err := validatePreamble(header); err != nil {
		return nil, err
	}
	if err := validateTrailer(trailer); err != nil {
		return nil, err
	}

	if err := options.Apply(p, opts...); err != nil {
		return nil, err
	}

	return p, nil
}

func validatePreamble(header *MemberMap) error {
	want := []string{FieldBeginString, FieldBodyLength, FieldMsgType}
	names := header.Names()
	if len(names) < len(want) {
		return fmt.Errorf("%w: header has %d members, need at least %d",
			errs.ErrInvalidTemplate, len(names), len(want))
	}
	for i, name := range want {
		if names[i] != name {
			return fmt.Errorf("%w: header member %d is %q, want %q",
				errs.ErrInvalidTemplate, i, names[i], name)
		}
	}

	return nil
}

func validateTrailer(trailer *MemberMap) error {
	names := trailer.Names()
	if len(names) == 0 || names[len(names)-1] != FieldCheckSum {
		return fmt.Errorf("%w: trailer must end with %s", errs.ErrInvalidTemplate, FieldCheckSum)
	}

	return nil
}

// Version returns the protocol version string, e.g. "4.4".
func (p *Protocol) Version() string { return p.version }

// BeginString returns the wire begin-string bytes, e.g. "FIX.4.4". The
// returned slice must not be modified.
func (p *Protocol) BeginString() []byte { return p.beginString }

// FieldByName looks up a field definition by symbolic name.
func (p *Protocol) FieldByName(name string) (*FieldDef, bool) {
	field, ok := p.fieldsByName[name]
	return field, ok
}

// FieldByTag looks up a field definition by its ASCII decimal wire tag.
func (p *Protocol) FieldByTag(tag []byte) (*FieldDef, bool) {
	field, ok := p.fieldsByTag[string(tag)]
	return field, ok
}

// Component looks up a component definition by name.
func (p *Protocol) Component(name string) (*ComponentDef, bool) {
	component, ok := p.components[name]
	return component, ok
}

// MessageByName looks up a message template by symbolic name.
func (p *Protocol) MessageByName(name string) (*MessageDef, bool) {
	message, ok := p.messagesByName[name]
	return message, ok
}

// MessageByType looks up a message template by wire message-type code.
func (p *Protocol) MessageByType(msgType []byte) (*MessageDef, bool) {
	message, ok := p.messagesByType[string(msgType)]
	return message, ok
}

// MessageNames returns the symbolic names of all message templates. The slice
// is freshly allocated; order is unspecified.
func (p *Protocol) MessageNames() []string {
	names := make([]string, 0, len(p.messagesByName))
	for name := range p.messagesByName {
		names = append(names, name)
	}

	return names
}

// Header returns the ordered header template.
func (p *Protocol) Header() *MemberMap { return p.header }

// Trailer returns the ordered trailer template.
func (p *Protocol) Trailer() *MemberMap { return p.trailer }

// IsMillisecondTime reports whether time-bearing types use the millisecond
// wire format.
func (p *Protocol) IsMillisecondTime() bool { return p.millisecondTime }

// IsDecimalFloat reports whether decimal types round-trip as
// arbitrary-precision decimals.
func (p *Protocol) IsDecimalFloat() bool { return p.decimalFloat }

// IsEnumDecodable reports the enum-decode policy for the given value type.
// Types never configured default to true.
func (p *Protocol) IsEnumDecodable(valueType ValueType) bool {
	enabled, ok := p.enumPolicy[valueType]
	if !ok {
		return true
	}

	return enabled
}

// IsValidMessageName reports whether name is a registered symbolic message
// name according to the MsgType enum dictionary.
func (p *Protocol) IsValidMessageName(name string) bool {
	msgType, ok := p.fieldsByName[FieldMsgType]
	if !ok {
		return false
	}
	_, ok = msgType.EnumCode(name)

	return ok
}
