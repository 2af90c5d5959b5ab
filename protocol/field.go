package protocol

import "strconv"

// FieldDef describes one field of the protocol: its symbolic name, its wire
// tag (kept in ASCII decimal byte form, the form it is compared and emitted
// in), its value type, and an optional two-way enum dictionary mapping wire
// codes to symbolic names.
//
// A FieldDef is immutable once constructed and safe to share.
type FieldDef struct {
	name         string
	tag          []byte
	valueType    ValueType
	values       map[string]string // wire code -> symbolic name
	valuesByName map[string]string // symbolic name -> wire code
}

// NewFieldDef creates a field definition. The enum dictionary maps wire codes
// (e.g. "1") to symbolic names (e.g. "BUY") and may be nil for fields without
// one; the reverse mapping is materialized once here.
func NewFieldDef(name string, tag int, valueType ValueType, values map[string]string) *FieldDef {
	f := &FieldDef{
		name:      name,
		tag:       []byte(strconv.Itoa(tag)),
		valueType: valueType,
	}
	if len(values) > 0 {
		f.values = make(map[string]string, len(values))
		f.valuesByName = make(map[string]string, len(values))
		for code, symbol := range values {
			f.values[code] = symbol
			f.valuesByName[symbol] = code
		}
	}

	return f
}

// Name returns the field's symbolic name.
func (f *FieldDef) Name() string { return f.name }

// Tag returns the field's wire tag in ASCII decimal form. The returned slice
// must not be modified.
func (f *FieldDef) Tag() []byte { return f.tag }

// Type returns the field's value type.
func (f *FieldDef) Type() ValueType { return f.valueType }

// HasEnum reports whether the field carries an enum dictionary.
func (f *FieldDef) HasEnum() bool { return f.values != nil }

// EnumName maps a wire code to its symbolic name.
func (f *FieldDef) EnumName(code []byte) (string, bool) {
	symbol, ok := f.values[string(code)]
	return symbol, ok
}

// EnumCode maps a symbolic name back to its wire code.
func (f *FieldDef) EnumCode(symbol string) ([]byte, bool) {
	code, ok := f.valuesByName[symbol]
	if !ok {
		return nil, false
	}

	return []byte(code), true
}
