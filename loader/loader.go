// Package loader builds protocol models from dictionary files.
//
// Two source formats are supported: the YAML dictionary layout (version,
// beginString, fields, components, header, trailer, messages) and
// QuickFIX-style XML dictionaries. Both parse into a shared intermediate
// form, so the protocol construction rules — ordered members, two-phase
// component resolution, value-type validation — are identical for either
// source.
//
// File loads decompress ".gz" dictionaries transparently and cache the
// parsed intermediate form keyed by an xxHash64 content fingerprint, so
// reloading the same dictionary with different protocol dials skips the
// parse.
package loader

import (
	"fmt"

	"github.com/arloliu/fixwire/protocol"
)

// dictionary is the source-format-independent intermediate form. Member
// slices preserve the declaration order of the source document.
type dictionary struct {
	version     string
	beginString string
	fields      []*fieldSpec
	components  []*componentSpec
	header      []*memberSpec
	trailer     []*memberSpec
	messages    []*messageSpec
}

type fieldSpec struct {
	name     string
	number   int
	typeName string
	values   map[string]string // wire code -> symbolic name
}

type componentSpec struct {
	name    string
	members []*memberSpec
}

// memberSpec describes one template entry. kind is "field", "group" or
// "component"; children is set for groups.
type memberSpec struct {
	name     string
	kind     string
	required bool
	children []*memberSpec
}

type messageSpec struct {
	name     string
	msgType  string
	category string
	members  []*memberSpec
}

// build materializes a protocol model from the intermediate form.
func build(dict *dictionary, opts ...protocol.Option) (*protocol.Protocol, error) {
	fields := make([]*protocol.FieldDef, 0, len(dict.fields))
	fieldsByName := make(map[string]*protocol.FieldDef, len(dict.fields))
	for _, spec := range dict.fields {
		valueType, err := protocol.ParseValueType(spec.typeName)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", spec.name, err)
		}
		field := protocol.NewFieldDef(spec.name, spec.number, valueType, spec.values)
		fields = append(fields, field)
		fieldsByName[spec.name] = field
	}

	// Components are declared empty first so a member may reference a
	// component defined later in the document.
	components := make([]*protocol.ComponentDef, 0, len(dict.components))
	componentsByName := make(map[string]*protocol.ComponentDef, len(dict.components))
	for _, spec := range dict.components {
		component := protocol.NewComponentDef(spec.name)
		components = append(components, component)
		componentsByName[spec.name] = component
	}
	for _, spec := range dict.components {
		members, err := buildMembers(spec.members, fieldsByName, componentsByName)
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", spec.name, err)
		}
		componentsByName[spec.name].SetMembers(members)
	}

	messages := make([]*protocol.MessageDef, 0, len(dict.messages))
	for _, spec := range dict.messages {
		members, err := buildMembers(spec.members, fieldsByName, componentsByName)
		if err != nil {
			return nil, fmt.Errorf("message %q: %w", spec.name, err)
		}
		messages = append(messages, protocol.NewMessageDef(spec.name, spec.msgType, spec.category, members))
	}

	header, err := buildMembers(dict.header, fieldsByName, componentsByName)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	trailer, err := buildMembers(dict.trailer, fieldsByName, componentsByName)
	if err != nil {
		return nil, fmt.Errorf("trailer: %w", err)
	}

	return protocol.New(dict.version, dict.beginString, fields, components, messages,
		header, trailer, opts...)
}

func buildMembers(
	specs []*memberSpec,
	fields map[string]*protocol.FieldDef,
	components map[string]*protocol.ComponentDef,
) (*protocol.MemberMap, error) {
	members := protocol.NewMemberMap()
	for _, spec := range specs {
		var member *protocol.MemberDef
		switch spec.kind {
		case "", "field":
			field, ok := fields[spec.name]
			if !ok {
				return nil, fmt.Errorf("member %q references an undefined field", spec.name)
			}
			member = protocol.NewFieldMember(field, spec.required)
		case "group":
			field, ok := fields[spec.name]
			if !ok {
				return nil, fmt.Errorf("group %q references an undefined count field", spec.name)
			}
			children, err := buildMembers(spec.children, fields, components)
			if err != nil {
				return nil, fmt.Errorf("group %q: %w", spec.name, err)
			}
			member = protocol.NewGroupMember(field, spec.required, children)
		case "component":
			component, ok := components[spec.name]
			if !ok {
				return nil, fmt.Errorf("member %q references an undefined component", spec.name)
			}
			member = protocol.NewComponentMember(component, spec.required)
		default:
			return nil, fmt.Errorf("member %q has unknown kind %q", spec.name, spec.kind)
		}
		if err := members.Add(member); err != nil {
			return nil, err
		}
	}

	return members, nil
}
