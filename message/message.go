package message

import "github.com/arloliu/fixwire/protocol"

// Message bundles a protocol, a structured payload and the resolved message
// template. Decode returns one; New builds one from a payload whose MsgType
// determines the template.
//
// Omitted lists the required member names a non-strict decode tolerated, in
// the order they were noticed. It is empty for strict decodes and for
// messages built locally.
type Message struct {
	Protocol *protocol.Protocol
	Data     *FieldMap
	Def      *protocol.MessageDef
	Omitted  []string
}

// New wraps a structured payload, resolving the message template from the
// payload's MsgType.
func New(p *protocol.Protocol, data *FieldMap) (*Message, error) {
	def, err := findMessageDef(p, data)
	if err != nil {
		return nil, err
	}

	return &Message{Protocol: p, Data: data, Def: def}, nil
}

// Encode serializes the message. With integrity regeneration enabled (the
// default) the recomputed BodyLength and CheckSum are written back into
// Data.
func (m *Message) Encode(opts ...Option) ([]byte, error) {
	return Encode(m.Protocol, m.Data, m.Def, opts...)
}
