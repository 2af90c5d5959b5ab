package protocol

// MessageDef is the template of one message type: a symbolic name, the wire
// message-type code, a category string, and the ordered body members.
type MessageDef struct {
	name     string
	msgType  []byte
	category string
	members  *MemberMap
}

// NewMessageDef creates a message template. The msgType is the wire code
// (e.g. "D"), category is free-form (e.g. "app" or "admin").
func NewMessageDef(name string, msgType string, category string, members *MemberMap) *MessageDef {
	return &MessageDef{
		name:     name,
		msgType:  []byte(msgType),
		category: category,
		members:  members,
	}
}

// Name returns the message's symbolic name.
func (m *MessageDef) Name() string { return m.name }

// MsgType returns the wire message-type code. The returned slice must not be
// modified.
func (m *MessageDef) MsgType() []byte { return m.msgType }

// Category returns the message category.
func (m *MessageDef) Category() string { return m.category }

// Members returns the ordered body template.
func (m *MessageDef) Members() *MemberMap { return m.members }
