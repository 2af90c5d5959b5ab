package protocol

import (
	"fmt"
	"iter"

	"github.com/arloliu/fixwire/errs"
)

// MemberKind discriminates the three member variants of a template.
type MemberKind uint8

const (
	KindField     MemberKind = iota + 1 // KindField references a single field.
	KindGroup                           // KindGroup references a count field plus a child template.
	KindComponent                       // KindComponent inlines a named component.
)

func (k MemberKind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindGroup:
		return "group"
	case KindComponent:
		return "component"
	default:
		return "Unknown"
	}
}

// MemberDef is one entry of a template: a field, a repeating group, or a
// transparently inlined component. Every member carries a required flag.
type MemberDef struct {
	kind      MemberKind
	field     *FieldDef     // set for KindField and KindGroup (the count field)
	component *ComponentDef // set for KindComponent
	children  *MemberMap    // set for KindGroup: the template of one occurrence
	required  bool
}

// NewFieldMember creates a member referencing a single field.
func NewFieldMember(field *FieldDef, required bool) *MemberDef {
	return &MemberDef{kind: KindField, field: field, required: required}
}

// NewGroupMember creates a repeating-group member. The field is the group's
// count field; children define the body of one occurrence.
func NewGroupMember(field *FieldDef, required bool, children *MemberMap) *MemberDef {
	return &MemberDef{kind: KindGroup, field: field, required: required, children: children}
}

// NewComponentMember creates a member inlining the given component.
func NewComponentMember(component *ComponentDef, required bool) *MemberDef {
	return &MemberDef{kind: KindComponent, component: component, required: required}
}

// Kind returns the member variant.
func (m *MemberDef) Kind() MemberKind { return m.kind }

// Field returns the referenced field for field and group members, nil for
// component members.
func (m *MemberDef) Field() *FieldDef { return m.field }

// Component returns the referenced component for component members.
func (m *MemberDef) Component() *ComponentDef { return m.component }

// Children returns the child template of a group member.
func (m *MemberDef) Children() *MemberMap { return m.children }

// Required reports whether the member must be present.
func (m *MemberDef) Required() bool { return m.required }

// Name returns the member's name: the field name for field and group members,
// the component name otherwise.
func (m *MemberDef) Name() string {
	if m.kind == KindComponent {
		return m.component.Name()
	}

	return m.field.Name()
}

// MemberMap is a name-keyed member collection that preserves declaration
// order. Order is significant everywhere a template is walked.
type MemberMap struct {
	names   []string
	members map[string]*MemberDef
}

// NewMemberMap creates an empty member map.
func NewMemberMap() *MemberMap {
	return &MemberMap{members: make(map[string]*MemberDef)}
}

// Add appends a member under its own name. Adding a second member with the
// same name is an ErrDuplicateMember error.
func (m *MemberMap) Add(member *MemberDef) error {
	name := member.Name()
	if _, exists := m.members[name]; exists {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateMember, name)
	}
	m.names = append(m.names, name)
	m.members[name] = member

	return nil
}

// Get returns the member with the given name.
func (m *MemberMap) Get(name string) (*MemberDef, bool) {
	member, ok := m.members[name]
	return member, ok
}

// Len returns the number of members.
func (m *MemberMap) Len() int { return len(m.names) }

// Names returns the member names in declaration order. The returned slice is
// cloned to prevent external modification.
func (m *MemberMap) Names() []string {
	names := make([]string, len(m.names))
	copy(names, m.names)

	return names
}

// Walk iterates the leaf members (fields and groups) in declaration order,
// expanding component members in place. Components never appear in the wire
// form, so walking is the only way templates are consumed.
func (m *MemberMap) Walk() iter.Seq[*MemberDef] {
	return func(yield func(*MemberDef) bool) {
		m.walk(yield)
	}
}

func (m *MemberMap) walk(yield func(*MemberDef) bool) bool {
	for _, name := range m.names {
		member := m.members[name]
		if member.kind == KindComponent {
			if !member.component.Members().walk(yield) {
				return false
			}

			continue
		}
		if !yield(member) {
			return false
		}
	}

	return true
}

// Flatten returns the leaf members as a slice, in walk order.
func (m *MemberMap) Flatten() []*MemberDef {
	var members []*MemberDef
	for member := range m.Walk() {
		members = append(members, member)
	}

	return members
}

// ComponentDef is a named, reusable ordered set of members that inlines
// transparently into the templates referencing it.
//
// Components are constructed in two phases so that a component may reference
// another component that has not been populated yet: NewComponentDef declares
// the name, SetMembers fills in the body.
type ComponentDef struct {
	name    string
	members *MemberMap
}

// NewComponentDef declares an empty component.
func NewComponentDef(name string) *ComponentDef {
	return &ComponentDef{name: name, members: NewMemberMap()}
}

// Name returns the component name.
func (c *ComponentDef) Name() string { return c.name }

// Members returns the component's member template.
func (c *ComponentDef) Members() *MemberMap { return c.members }

// SetMembers populates the component body, completing the two-phase
// construction.
func (c *ComponentDef) SetMembers(members *MemberMap) {
	c.members = members
}
