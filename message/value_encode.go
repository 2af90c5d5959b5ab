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

// EncodeValue converts a typed domain value into its wire bytes, honoring the
// protocol dials and the field's enum dictionary.
//
// A nil value encodes to an empty byte slice, the wire form of a present but
// absent field. A Go value of the wrong type for the field returns an error
// wrapping errs.ErrMalformedValue.
func EncodeValue(p *protocol.Protocol, field *protocol.FieldDef, value any) ([]byte, error) {
	if value == nil {
		return []byte{}, nil
	}

	if code, ok := encodeEnum(p, field, value); ok {
		return code, nil
	}

	switch field.Type() {
	case protocol.TypeInt, protocol.TypeSeqNum, protocol.TypeNumInGroup, protocol.TypeLength:
		return encodeInt(field, value)
	case protocol.TypeFloat, protocol.TypeQty, protocol.TypePrice, protocol.TypePriceOffset, protocol.TypeAmt:
		return encodeDecimal(field, value)
	case protocol.TypeChar, protocol.TypeString, protocol.TypeCurrency, protocol.TypeExchange, protocol.TypeMonthYear:
		return encodeString(field, value)
	case protocol.TypeBoolean:
		return encodeBool(field, value)
	case protocol.TypeMultipleValueString:
		return encodeMultiValueString(field, value)
	case protocol.TypeUTCTimestamp:
		if p.IsMillisecondTime() {
			return encodeTime(field, value, timestampMillisLayout, true)
		}

		return encodeTime(field, value, timestampLayout, true)
	case protocol.TypeUTCTimeOnly:
		if p.IsMillisecondTime() {
			return encodeTime(field, value, timeOnlyMillisLayout, false)
		}

		return encodeTime(field, value, timeOnlyLayout, false)
	case protocol.TypeLocalMktDate, protocol.TypeUTCDate:
		return encodeTime(field, value, dateLayout, false)
	default:
		return nil, fmt.Errorf("%w: %s for field %q", errs.ErrUnknownValueType, field.Type(), field.Name())
	}
}

// encodeEnum resolves the wire code for a symbolic-string input when the
// per-type policy allows it and the name is a registered member. The check is
// the mirror image of decodeEnum so that decoded values re-encode to the same
// wire code under either policy setting.
func encodeEnum(p *protocol.Protocol, field *protocol.FieldDef, value any) ([]byte, bool) {
	switch field.Type() {
	case protocol.TypeInt, protocol.TypeChar, protocol.TypeString, protocol.TypeBoolean:
		symbol, ok := value.(string)
		if !ok || !p.IsEnumDecodable(field.Type()) || !field.HasEnum() {
			return nil, false
		}

		return field.EnumCode(symbol)
	default:
		return nil, false
	}
}

func encodeInt(field *protocol.FieldDef, value any) ([]byte, error) {
	n, ok := toInt64(value)
	if !ok {
		return nil, fmt.Errorf("%w: field %q cannot encode %T as %s",
			errs.ErrMalformedValue, field.Name(), value, field.Type())
	}

	// strconv never emits leading zeros.
	return strconv.AppendInt(nil, n, 10), nil
}

func encodeDecimal(field *protocol.FieldDef, value any) ([]byte, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return []byte(v.String()), nil
	case float64:
		return strconv.AppendFloat(nil, v, 'f', -1, 64), nil
	case float32:
		return strconv.AppendFloat(nil, float64(v), 'f', -1, 32), nil
	default:
		if n, ok := toInt64(value); ok {
			return strconv.AppendInt(nil, n, 10), nil
		}

		return nil, fmt.Errorf("%w: field %q cannot encode %T as %s",
			errs.ErrMalformedValue, field.Name(), value, field.Type())
	}
}

func encodeString(field *protocol.FieldDef, value any) ([]byte, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: field %q cannot encode %T as %s",
			errs.ErrMalformedValue, field.Name(), value, field.Type())
	}

	return []byte(s), nil
}

func encodeBool(field *protocol.FieldDef, value any) ([]byte, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, fmt.Errorf("%w: field %q cannot encode %T as %s",
			errs.ErrMalformedValue, field.Name(), value, field.Type())
	}
	if b {
		return []byte{'Y'}, nil
	}

	return []byte{'N'}, nil
}

func encodeMultiValueString(field *protocol.FieldDef, value any) ([]byte, error) {
	tokens, ok := value.([]string)
	if !ok {
		return nil, fmt.Errorf("%w: field %q cannot encode %T as %s",
			errs.ErrMalformedValue, field.Name(), value, field.Type())
	}

	return []byte(strings.Join(tokens, " ")), nil
}

func encodeTime(field *protocol.FieldDef, value any, layout string, toUTC bool) ([]byte, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, fmt.Errorf("%w: field %q cannot encode %T as %s",
			errs.ErrMalformedValue, field.Name(), value, field.Type())
	}
	if toUTC {
		t = t.UTC()
	}

	return []byte(t.Format(layout)), nil
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int16:
		return int64(v), true
	case int8:
		return int64(v), true
	case uint:
		return int64(v), true
	case uint64:
		return int64(v), true
	case uint32:
		return int64(v), true
	default:
		return 0, false
	}
}
