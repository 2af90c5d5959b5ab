// Package message implements the tag-value codec: encoding structured
// messages to wire buffers and decoding wire buffers back into structured
// messages, driven by a protocol model from the protocol package.
//
// # Core Types
//
// **Message**: the user-facing façade bundling a protocol, a payload and the
// resolved message template. Decode returns one; Encode serializes one.
//
// **FieldMap**: the structured payload — a string-keyed mapping preserving
// insertion order. Repeating-group occurrences are []*FieldMap values.
//
// **Factory**: binds a protocol, a sender and a target identity, and stamps
// the stock header fields onto every message it creates.
//
// # Encoding Workflow
//
//	data := message.NewFieldMap()
//	data.Set("MsgType", "LOGON")
//	data.Set("MsgSeqNum", int64(42))
//	...
//	msg, err := message.New(proto, data)
//	buf, err := msg.Encode()
//
// By default Encode regenerates the message integrity: BeginString is forced
// to the protocol's begin string, and BodyLength and CheckSum are recomputed
// and written back into the payload.
//
// # Decoding Workflow
//
//	msg, err := message.Decode(proto, buf)
//	price, ok := msg.Data.Get("MDEntryPx")
//
// Decoding tolerates permuted fields everywhere except the three-field
// preamble and the trailing checksum, parses repeating groups into ordered
// occurrence lists, and (unless disabled) verifies BeginString, BodyLength
// and CheckSum against the received bytes.
//
// # Value Domains
//
// Field values map to Go types per the field's value type: integer types to
// int64, decimal types to decimal.Decimal or float64 depending on the
// protocol dial, CHAR and STRING families to string, BOOLEAN to bool,
// MULTIPLEVALUESTRING to []string, and the date/time types to time.Time.
// Fields with an enum dictionary decode to the symbolic name when the
// protocol's per-type enum policy allows it.
package message
