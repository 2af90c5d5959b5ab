package protocol

import "fmt"

// ValueType identifies the wire/domain conversion contract of a field.
type ValueType uint8

const (
	TypeInvalid             ValueType = iota // TypeInvalid is the zero value and matches no field.
	TypeInt                                  // TypeInt is a signed integer in ASCII decimal form.
	TypeSeqNum                               // TypeSeqNum is a message sequence number.
	TypeNumInGroup                           // TypeNumInGroup is a repeating-group occurrence count.
	TypeLength                               // TypeLength is a byte-count value.
	TypeFloat                                // TypeFloat is a decimal number with an optional fraction.
	TypeQty                                  // TypeQty is a quantity.
	TypePrice                                // TypePrice is a price.
	TypePriceOffset                          // TypePriceOffset is a price offset.
	TypeAmt                                  // TypeAmt is a monetary amount.
	TypeChar                                 // TypeChar is a single ASCII byte.
	TypeString                               // TypeString is an ASCII string without separator bytes.
	TypeCurrency                             // TypeCurrency is an ISO currency code.
	TypeExchange                             // TypeExchange is an ISO exchange code.
	TypeBoolean                              // TypeBoolean is a Y/N flag.
	TypeMultipleValueString                  // TypeMultipleValueString is a space-separated token list.
	TypeUTCTimestamp                         // TypeUTCTimestamp is a YYYYMMDD-HH:MM:SS[.mmm] date-time.
	TypeUTCTimeOnly                          // TypeUTCTimeOnly is a HH:MM:SS[.mmm] time of day.
	TypeLocalMktDate                         // TypeLocalMktDate is a YYYYMMDD local-market date.
	TypeUTCDate                              // TypeUTCDate is a YYYYMMDD UTC date.
	TypeMonthYear                            // TypeMonthYear is a YYYYMM month-year string.
	TypeDayOfMonth                           // TypeDayOfMonth is a day-of-month number.
)

var valueTypeNames = map[ValueType]string{
	TypeInt:                 "INT",
	TypeSeqNum:              "SEQNUM",
	TypeNumInGroup:          "NUMINGROUP",
	TypeLength:              "LENGTH",
	TypeFloat:               "FLOAT",
	TypeQty:                 "QTY",
	TypePrice:               "PRICE",
	TypePriceOffset:         "PRICEOFFSET",
	TypeAmt:                 "AMT",
	TypeChar:                "CHAR",
	TypeString:              "STRING",
	TypeCurrency:            "CURRENCY",
	TypeExchange:            "EXCHANGE",
	TypeBoolean:             "BOOLEAN",
	TypeMultipleValueString: "MULTIPLEVALUESTRING",
	TypeUTCTimestamp:        "UTCTIMESTAMP",
	TypeUTCTimeOnly:         "UTCTIMEONLY",
	TypeLocalMktDate:        "LOCALMKTDATE",
	TypeUTCDate:             "UTCDATE",
	TypeMonthYear:           "MONTHYEAR",
	TypeDayOfMonth:          "DAYOFMONTH",
}

var valueTypesByName = func() map[string]ValueType {
	byName := make(map[string]ValueType, len(valueTypeNames))
	for vt, name := range valueTypeNames {
		byName[name] = vt
	}

	return byName
}()

func (v ValueType) String() string {
	if name, ok := valueTypeNames[v]; ok {
		return name
	}

	return "Unknown"
}

// ParseValueType converts a dictionary type tag such as "UTCTIMESTAMP" into
// its ValueType. It returns an error for tags outside the enumeration.
func ParseValueType(name string) (ValueType, error) {
	vt, ok := valueTypesByName[name]
	if !ok {
		return TypeInvalid, fmt.Errorf("invalid value type %q", name)
	}

	return vt, nil
}

// ValueTypes returns every defined value type. The slice is freshly
// allocated and sorted by the numeric tag order.
func ValueTypes() []ValueType {
	types := make([]ValueType, 0, len(valueTypeNames))
	for vt := TypeInt; vt <= TypeDayOfMonth; vt++ {
		types = append(types, vt)
	}

	return types
}
