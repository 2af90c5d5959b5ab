package message

import (
	"fmt"
	"slices"
	"time"

	"github.com/arloliu/fixwire/errs"
	"github.com/arloliu/fixwire/protocol"
)

// Factory binds a protocol, a sender identity and a target identity, and
// assembles the stock header fields onto every message it creates.
//
// Header defaults supplied at construction time (WithHeaderDefaults) merge
// into every message; per-call header extras override them.
type Factory struct {
	protocol     *protocol.Protocol
	senderCompID string
	targetCompID string
	cfg          *config
	opts         []Option
}

// NewFactory creates a message factory. The options configure both the
// factory's header defaults and the codec dials used by Decode.
func NewFactory(p *protocol.Protocol, senderCompID, targetCompID string, opts ...Option) (*Factory, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Factory{
		protocol:     p,
		senderCompID: senderCompID,
		targetCompID: targetCompID,
		cfg:          cfg,
		opts:         opts,
	}, nil
}

// Create assembles a message of the named type with the stock header fields
// (BeginString, MsgType, MsgSeqNum, SenderCompID, TargetCompID, SendingTime)
// plus the factory's header defaults, the per-call header extras, the body,
// and the trailer extras. Fields land in template declaration order; body
// keys outside the template are appended in sorted order.
func (f *Factory) Create(
	msgType string,
	msgSeqNum int,
	sendingTime time.Time,
	body map[string]any,
	headerExtras map[string]any,
	trailerExtras map[string]any,
) (*Message, error) {
	if !f.protocol.IsValidMessageName(msgType) {
		return nil, fmt.Errorf("%w: %q is not a message name", errs.ErrUnknownMsgType, msgType)
	}
	def, ok := f.protocol.MessageByName(msgType)
	if !ok {
		return nil, fmt.Errorf("%w: %q has no template", errs.ErrUnknownMsgType, msgType)
	}

	headerArgs := map[string]any{
		protocol.FieldBeginString: string(f.protocol.BeginString()),
		protocol.FieldMsgType:     msgType,
		"MsgSeqNum":               int64(msgSeqNum),
		"SenderCompID":            f.senderCompID,
		"TargetCompID":            f.targetCompID,
		"SendingTime":             sendingTime,
	}
	for name, value := range f.cfg.headerDefaults {
		headerArgs[name] = value
	}
	for name, value := range headerExtras {
		headerArgs[name] = value
	}

	data := NewFieldMap()
	for member := range f.protocol.Header().Walk() {
		if value, ok := headerArgs[member.Name()]; ok {
			data.Set(member.Name(), value)
		}
	}

	placed := make(map[string]bool, len(body))
	for member := range def.Members().Walk() {
		if value, ok := body[member.Name()]; ok {
			data.Set(member.Name(), value)
			placed[member.Name()] = true
		}
	}
	var leftover []string
	for name := range body {
		if !placed[name] {
			leftover = append(leftover, name)
		}
	}
	slices.Sort(leftover)
	for _, name := range leftover {
		data.Set(name, body[name])
	}

	for member := range f.protocol.Trailer().Walk() {
		if value, ok := trailerExtras[member.Name()]; ok {
			data.Set(member.Name(), value)
		}
	}

	return &Message{Protocol: f.protocol, Data: data, Def: def}, nil
}

// Decode parses a wire buffer with the factory's codec dials.
func (f *Factory) Decode(buf []byte) (*Message, error) {
	return Decode(f.protocol, buf, f.opts...)
}
