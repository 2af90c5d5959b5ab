package message

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arloliu/fixwire/errs"
	"github.com/arloliu/fixwire/protocol"
)

// Wire layouts for the time-bearing value types.
const (
	timestampMillisLayout = "20060102-15:04:05.000"
	timestampLayout       = "20060102-15:04:05"
	timeOnlyMillisLayout  = "15:04:05.000"
	timeOnlyLayout        = "15:04:05"
	dateLayout            = "20060102"
)

// DecodeValue converts the wire bytes of a single field into its typed domain
// value, honoring the protocol dials and the field's enum dictionary.
//
// An empty value decodes to nil, the distinguished "present but absent"
// sentinel. Malformed literals return an error wrapping
// errs.ErrMalformedValue; a value type outside the table returns an error
// wrapping errs.ErrUnknownValueType.
func DecodeValue(p *protocol.Protocol, field *protocol.FieldDef, value []byte) (any, error) {
	if len(value) == 0 {
		return nil, nil
	}

	if symbol, ok := decodeEnum(p, field, value); ok {
		return symbol, nil
	}

	switch field.Type() {
	case protocol.TypeInt, protocol.TypeSeqNum, protocol.TypeNumInGroup, protocol.TypeLength:
		return decodeInt(field, value)
	case protocol.TypeFloat, protocol.TypeQty, protocol.TypePrice, protocol.TypePriceOffset, protocol.TypeAmt:
		return decodeDecimal(p, field, value)
	case protocol.TypeChar, protocol.TypeString, protocol.TypeCurrency, protocol.TypeExchange, protocol.TypeMonthYear:
		return string(value), nil
	case protocol.TypeBoolean:
		switch string(value) {
		case "Y":
			return true, nil
		case "N":
			return false, nil
		}

		return nil, fmt.Errorf("%w: field %q value %q is not Y or N",
			errs.ErrMalformedValue, field.Name(), value)
	case protocol.TypeMultipleValueString:
		return strings.Split(string(value), " "), nil
	case protocol.TypeUTCTimestamp:
		return decodeTime(field, value, timestampLayout)
	case protocol.TypeUTCTimeOnly:
		return decodeTime(field, value, timeOnlyLayout)
	case protocol.TypeLocalMktDate, protocol.TypeUTCDate:
		return decodeTime(field, value, dateLayout)
	default:
		return nil, fmt.Errorf("%w: %s for field %q", errs.ErrUnknownValueType, field.Type(), field.Name())
	}
}

// decodeEnum resolves the symbolic name for an enum-bearing field when the
// per-type policy allows it and the wire code is a registered member.
func decodeEnum(p *protocol.Protocol, field *protocol.FieldDef, value []byte) (string, bool) {
	switch field.Type() {
	case protocol.TypeInt, protocol.TypeChar, protocol.TypeString, protocol.TypeBoolean:
		if !p.IsEnumDecodable(field.Type()) || !field.HasEnum() {
			return "", false
		}

		return field.EnumName(value)
	default:
		return "", false
	}
}

func decodeInt(field *protocol.FieldDef, value []byte) (int64, error) {
	// Leading zeros are tolerated on decode.
	n, err := strconv.ParseInt(string(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: field %q value %q is not an integer",
			errs.ErrMalformedValue, field.Name(), value)
	}

	return n, nil
}

func decodeDecimal(p *protocol.Protocol, field *protocol.FieldDef, value []byte) (any, error) {
	if p.IsDecimalFloat() {
		d, err := decimal.NewFromString(string(value))
		if err != nil {
			return nil, fmt.Errorf("%w: field %q value %q is not a decimal",
				errs.ErrMalformedValue, field.Name(), value)
		}

		return d, nil
	}

	f, err := strconv.ParseFloat(string(value), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: field %q value %q is not a number",
			errs.ErrMalformedValue, field.Name(), value)
	}

	return f, nil
}

// decodeTime parses with the fraction-free layout; the Go parser accepts an
// optional fractional second after the seconds field either way.
func decodeTime(field *protocol.FieldDef, value []byte, layout string) (time.Time, error) {
	t, err := time.Parse(layout, string(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: field %q value %q does not match %s",
			errs.ErrMalformedValue, field.Name(), value, layout)
	}

	return t, nil
}
