package loader

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/fixwire/protocol"
)

// LoadYAML reads a YAML dictionary and builds a protocol model. The opts are
// the protocol dials (millisecond time, decimal floats, enum policy).
func LoadYAML(r io.Reader, opts ...protocol.Option) (*protocol.Protocol, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	dict, err := parseYAML(data)
	if err != nil {
		return nil, err
	}

	return build(dict, opts...)
}

// LoadYAMLFile loads a YAML dictionary file. Files ending in ".gz" are
// decompressed transparently; repeated loads of identical content hit the
// fingerprint cache.
func LoadYAMLFile(path string, opts ...protocol.Option) (*protocol.Protocol, error) {
	data, err := readDictionaryFile(path)
	if err != nil {
		return nil, err
	}
	dict, err := cachedParse(data, parseYAML)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return build(dict, opts...)
}

// parseYAML walks the document via yaml.Node rather than unmarshalling into
// maps: member declaration order is significant and Go maps would lose it.
func parseYAML(data []byte) (*dictionary, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML dictionary: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("invalid YAML dictionary: empty document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("invalid YAML dictionary: top level is not a mapping")
	}

	dict := &dictionary{}
	var major, minor string
	for key, value := range mappingPairs(root) {
		switch key {
		case "version":
			for vk, vv := range mappingPairs(value) {
				switch vk {
				case "major":
					major = vv.Value
				case "minor":
					minor = vv.Value
				}
			}
		case "beginString":
			dict.beginString = value.Value
		case "fields":
			fields, err := parseYAMLFields(value)
			if err != nil {
				return nil, err
			}
			dict.fields = fields
		case "components":
			for name, body := range mappingPairs(value) {
				members, err := parseYAMLMembers(body)
				if err != nil {
					return nil, fmt.Errorf("component %q: %w", name, err)
				}
				dict.components = append(dict.components, &componentSpec{name: name, members: members})
			}
		case "header":
			members, err := parseYAMLMembers(value)
			if err != nil {
				return nil, fmt.Errorf("header: %w", err)
			}
			dict.header = members
		case "trailer":
			members, err := parseYAMLMembers(value)
			if err != nil {
				return nil, fmt.Errorf("trailer: %w", err)
			}
			dict.trailer = members
		case "messages":
			for name, body := range mappingPairs(value) {
				message, err := parseYAMLMessage(name, body)
				if err != nil {
					return nil, err
				}
				dict.messages = append(dict.messages, message)
			}
		}
	}
	dict.version = major + "." + minor

	return dict, nil
}

func parseYAMLFields(node *yaml.Node) ([]*fieldSpec, error) {
	var fields []*fieldSpec
	for name, body := range mappingPairs(node) {
		spec := &fieldSpec{name: name}
		for key, value := range mappingPairs(body) {
			switch key {
			case "number":
				number, err := strconv.Atoi(value.Value)
				if err != nil {
					return nil, fmt.Errorf("field %q: number %q is not an integer", name, value.Value)
				}
				spec.number = number
			case "type":
				spec.typeName = value.Value
			case "values":
				spec.values = make(map[string]string)
				for code, symbol := range mappingPairs(value) {
					spec.values[code] = symbol.Value
				}
			}
		}
		fields = append(fields, spec)
	}

	return fields, nil
}

func parseYAMLMessage(name string, node *yaml.Node) (*messageSpec, error) {
	message := &messageSpec{name: name}
	for key, value := range mappingPairs(node) {
		switch key {
		case "msgtype":
			message.msgType = value.Value
		case "msgcat":
			message.category = value.Value
		case "fields":
			members, err := parseYAMLMembers(value)
			if err != nil {
				return nil, fmt.Errorf("message %q: %w", name, err)
			}
			message.members = members
		}
	}

	return message, nil
}

// parseYAMLMembers reads one ordered member mapping. A null body means an
// optional plain field.
func parseYAMLMembers(node *yaml.Node) ([]*memberSpec, error) {
	var members []*memberSpec
	for name, body := range mappingPairs(node) {
		member := &memberSpec{name: name}
		for key, value := range mappingPairs(body) {
			switch key {
			case "type":
				member.kind = value.Value
			case "required":
				member.required = value.Value == "true"
			case "fields":
				children, err := parseYAMLMembers(value)
				if err != nil {
					return nil, err
				}
				member.children = children
			}
		}
		members = append(members, member)
	}

	return members, nil
}

// mappingPairs iterates the (key, value) pairs of a mapping node in document
// order. Null and non-mapping nodes yield nothing.
func mappingPairs(node *yaml.Node) func(yield func(string, *yaml.Node) bool) {
	return func(yield func(string, *yaml.Node) bool) {
		if node == nil || node.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			if !yield(node.Content[i].Value, node.Content[i+1]) {
				return
			}
		}
	}
}
