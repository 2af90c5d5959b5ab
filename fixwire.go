// Package fixwire encodes and decodes FIX session-layer messages, driven by
// a protocol dictionary loaded at startup.
//
// The codec is grammar-directed: a protocol model (field table, components,
// message templates, header and trailer layouts) is loaded once and then
// drives both directions of the translation between wire buffers and
// structured messages.
//
// # Basic Usage
//
// Loading a dictionary and decoding a buffer:
//
//	import "github.com/arloliu/fixwire"
//
//	proto, _ := fixwire.LoadYAMLFile("etc/FIX44.yaml",
//	    protocol.WithDecimalFloat(true),
//	)
//
//	msg, _ := fixwire.Decode(proto, buf)
//	price, _ := msg.Data.Get("Price")
//
// Creating and encoding messages through a factory:
//
//	factory, _ := fixwire.NewFactory(proto, "SENDER", "TARGET")
//	msg, _ := factory.Create("LOGON", 42, time.Now(), map[string]any{
//	    "EncryptMethod": "NONE",
//	    "HeartBtInt":    int64(30),
//	}, nil, nil)
//	buf, _ := msg.Encode()
//
// Encoding regenerates the message integrity by default: BeginString is
// forced to the protocol's begin string, and BodyLength and CheckSum are
// recomputed and written back into the message. Decoding verifies all three
// unless validation is disabled.
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the protocol,
// message and loader packages, simplifying the most common use cases. For
// fine-grained control, use those packages directly.
package fixwire

import (
	"github.com/arloliu/fixwire/loader"
	"github.com/arloliu/fixwire/message"
	"github.com/arloliu/fixwire/protocol"
)

// Decode parses a framed wire buffer into a structured message.
// See message.Decode for the decoding rules and options.
func Decode(p *protocol.Protocol, buf []byte, opts ...message.Option) (*message.Message, error) {
	return message.Decode(p, buf, opts...)
}

// Encode serializes a structured payload against the template resolved from
// its MsgType. See message.Encode for the encoding rules and options.
func Encode(p *protocol.Protocol, data *message.FieldMap, opts ...message.Option) ([]byte, error) {
	msg, err := message.New(p, data)
	if err != nil {
		return nil, err
	}

	return msg.Encode(opts...)
}

// NewMessage wraps a structured payload, resolving its message template.
func NewMessage(p *protocol.Protocol, data *message.FieldMap) (*message.Message, error) {
	return message.New(p, data)
}

// NewFactory creates a message factory bound to a protocol and a
// sender/target identity pair.
func NewFactory(p *protocol.Protocol, senderCompID, targetCompID string, opts ...message.Option) (*message.Factory, error) {
	return message.NewFactory(p, senderCompID, targetCompID, opts...)
}

// LoadYAMLFile loads a YAML protocol dictionary file.
func LoadYAMLFile(path string, opts ...protocol.Option) (*protocol.Protocol, error) {
	return loader.LoadYAMLFile(path, opts...)
}

// LoadQuickFIXFile loads a QuickFIX-style XML protocol dictionary file.
func LoadQuickFIXFile(path string, opts ...protocol.Option) (*protocol.Protocol, error) {
	return loader.LoadQuickFIXFile(path, opts...)
}
