package loader

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/arloliu/fixwire/protocol"
)

// LoadQuickFIX reads a QuickFIX-style XML dictionary and builds a protocol
// model.
func LoadQuickFIX(r io.Reader, opts ...protocol.Option) (*protocol.Protocol, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	dict, err := parseQuickFIX(data)
	if err != nil {
		return nil, err
	}

	return build(dict, opts...)
}

// LoadQuickFIXFile loads a QuickFIX XML dictionary file. Files ending in
// ".gz" are decompressed transparently; repeated loads of identical content
// hit the fingerprint cache.
func LoadQuickFIXFile(path string, opts ...protocol.Option) (*protocol.Protocol, error) {
	data, err := readDictionaryFile(path)
	if err != nil {
		return nil, err
	}
	dict, err := cachedParse(data, parseQuickFIX)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return build(dict, opts...)
}

// quickfixDoc mirrors the QuickFIX document layout. Header, trailer, message
// and component bodies are ordered mixes of field, group and component
// elements, handled by quickfixMembers.
type quickfixDoc struct {
	XMLName  xml.Name        `xml:"fix"`
	Major    string          `xml:"major,attr"`
	Minor    string          `xml:"minor,attr"`
	Header   quickfixMembers `xml:"header"`
	Trailer  quickfixMembers `xml:"trailer"`
	Messages struct {
		Messages []quickfixMessage `xml:"message"`
	} `xml:"messages"`
	Components struct {
		Components []quickfixComponent `xml:"component"`
	} `xml:"components"`
	Fields struct {
		Fields []quickfixField `xml:"field"`
	} `xml:"fields"`
}

type quickfixField struct {
	Name   string `xml:"name,attr"`
	Number int    `xml:"number,attr"`
	Type   string `xml:"type,attr"`
	Values []struct {
		Enum        string `xml:"enum,attr"`
		Description string `xml:"description,attr"`
	} `xml:"value"`
}

type quickfixMessage struct {
	Name    string
	MsgType string
	MsgCat  string
	Members quickfixMembers
}

func (m *quickfixMessage) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	m.Name = xmlAttr(start, "name")
	m.MsgType = xmlAttr(start, "msgtype")
	m.MsgCat = xmlAttr(start, "msgcat")

	return m.Members.UnmarshalXML(d, start)
}

type quickfixComponent struct {
	Name    string
	Members quickfixMembers
}

func (c *quickfixComponent) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	c.Name = xmlAttr(start, "name")

	return c.Members.UnmarshalXML(d, start)
}

// quickfixMembers decodes an ordered heterogeneous member list. The standard
// struct mapping cannot preserve the relative order of mixed element names,
// so the token stream is walked directly.
type quickfixMembers struct {
	members []*memberSpec
}

func (l *quickfixMembers) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "field", "component":
				l.members = append(l.members, &memberSpec{
					name:     xmlAttr(t, "name"),
					kind:     t.Name.Local,
					required: xmlAttr(t, "required") == "Y",
				})
				if err := d.Skip(); err != nil {
					return err
				}
			case "group":
				var children quickfixMembers
				if err := children.UnmarshalXML(d, t); err != nil {
					return err
				}
				l.members = append(l.members, &memberSpec{
					name:     xmlAttr(t, "name"),
					kind:     "group",
					required: xmlAttr(t, "required") == "Y",
					children: children.members,
				})
			default:
				return fmt.Errorf("invalid member element <%s>", t.Name.Local)
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

func xmlAttr(element xml.StartElement, name string) string {
	for _, attr := range element.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}

	return ""
}

func parseQuickFIX(data []byte) (*dictionary, error) {
	var doc quickfixDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid QuickFIX dictionary: %w", err)
	}

	dict := &dictionary{
		version:     doc.Major + "." + doc.Minor,
		beginString: "FIX." + doc.Major + "." + doc.Minor,
		header:      doc.Header.members,
		trailer:     doc.Trailer.members,
	}

	for _, field := range doc.Fields.Fields {
		spec := &fieldSpec{
			name:     field.Name,
			number:   field.Number,
			typeName: field.Type,
		}
		if len(field.Values) > 0 {
			spec.values = make(map[string]string, len(field.Values))
			for _, value := range field.Values {
				spec.values[value.Enum] = value.Description
			}
		}
		dict.fields = append(dict.fields, spec)
	}

	for _, component := range doc.Components.Components {
		dict.components = append(dict.components, &componentSpec{
			name:    component.Name,
			members: component.Members.members,
		})
	}

	for _, message := range doc.Messages.Messages {
		dict.messages = append(dict.messages, &messageSpec{
			name:     message.Name,
			msgType:  message.MsgType,
			category: message.MsgCat,
			members:  message.Members.members,
		})
	}

	return dict, nil
}
