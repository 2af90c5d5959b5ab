package message

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/fixwire/errs"
)

func TestDecode_Heartbeat(t *testing.T) {
	p := newTestProtocol(t)
	buf := makeWire(t, "35=0", "49=SENDER", "56=TARGET", "34=7", "52=20200101-12:30:00.000", "112=ping")

	msg, err := Decode(p, buf, WithSeparator('|'))
	require.NoError(t, err)
	require.Equal(t, "HEARTBEAT", msg.Def.Name())
	require.Empty(t, msg.Omitted)

	v, _ := msg.Data.Get("MsgType")
	require.Equal(t, "HEARTBEAT", v)
	v, _ = msg.Data.Get("MsgSeqNum")
	require.Equal(t, int64(7), v)
	v, _ = msg.Data.Get("TestReqID")
	require.Equal(t, "ping", v)
	v, _ = msg.Data.Get("SendingTime")
	require.True(t, time.Date(2020, 1, 1, 12, 30, 0, 0, time.UTC).Equal(v.(time.Time)))

	// Integrity fields are part of the decoded payload.
	v, _ = msg.Data.Get("BodyLength")
	require.Equal(t, int64(64), v)
	require.True(t, msg.Data.Has("CheckSum"))
}

func TestDecode_PermutedHeaderAndBody(t *testing.T) {
	p := newTestProtocol(t)
	// Header rest and body fields arrive permuted relative to declaration
	// order; only the preamble is fixed.
	buf := makeWire(t,
		"35=D", "52=20200101-12:30:00.000", "34=9", "56=TARGET", "49=SENDER",
		"40=1", "60=20200101-12:29:59.000", "54=2", "55=CVS", "11=ORD-9")

	msg, err := Decode(p, buf, WithSeparator('|'))
	require.NoError(t, err)
	require.Equal(t, "NEW_ORDER_SINGLE", msg.Def.Name())

	v, _ := msg.Data.Get("Side")
	require.Equal(t, "SELL", v)
	v, _ = msg.Data.Get("OrdType")
	require.Equal(t, "MARKET", v)
}

func TestDecode_PreambleOutOfOrder(t *testing.T) {
	p := newTestProtocol(t)
	// MsgType ahead of BodyLength: the ordered preamble pass skips the
	// required BodyLength member, which strict mode rejects.
	buf := []byte("8=FIX.4.4|35=0|9=12|49=S|56=T|34=1|52=20200101-12:30:00.000|10=000|")

	_, err := Decode(p, buf, WithSeparator('|'), WithValidation(false))
	require.ErrorIs(t, err, errs.ErrMissingRequiredField)
	require.Contains(t, err.Error(), "BodyLength")
}

func TestDecode_MissingRequired_Strict(t *testing.T) {
	p := newTestProtocol(t)
	// No MsgSeqNum.
	buf := makeWire(t, "35=0", "49=SENDER", "56=TARGET", "52=20200101-12:30:00.000")

	_, err := Decode(p, buf, WithSeparator('|'))
	require.ErrorIs(t, err, errs.ErrMissingRequiredField)
	require.Contains(t, err.Error(), "MsgSeqNum")
}

func TestDecode_MissingRequired_NonStrict(t *testing.T) {
	p := newTestProtocol(t)
	buf := makeWire(t, "35=0", "49=SENDER", "56=TARGET", "52=20200101-12:30:00.000")

	msg, err := Decode(p, buf, WithSeparator('|'), WithStrictMode(false))
	require.NoError(t, err)
	// The tolerated omission is surfaced instead of discarded.
	require.Equal(t, []string{"MsgSeqNum"}, msg.Omitted)
	require.False(t, msg.Data.Has("MsgSeqNum"))
}

func TestDecode_UnknownTag(t *testing.T) {
	p := newTestProtocol(t)
	buf := makeWire(t, "35=0", "49=SENDER", "56=TARGET", "34=1", "9999=X", "52=20200101-12:30:00.000")

	_, err := Decode(p, buf, WithSeparator('|'))
	require.ErrorIs(t, err, errs.ErrUnknownField)
	require.Contains(t, err.Error(), "9999")

	// Unknown tags fail even in non-strict mode.
	_, err = Decode(p, buf, WithSeparator('|'), WithStrictMode(false))
	require.ErrorIs(t, err, errs.ErrUnknownField)
}

func TestDecode_UnknownMsgType(t *testing.T) {
	p := newTestProtocol(t)
	buf := makeWire(t, "35=Q", "49=SENDER", "56=TARGET", "34=1", "52=20200101-12:30:00.000")

	_, err := Decode(p, buf, WithSeparator('|'))
	require.ErrorIs(t, err, errs.ErrUnknownMsgType)
}

func TestDecode_Group(t *testing.T) {
	p := newTestProtocol(t)
	buf := makeWire(t,
		"35=W", "49=A", "56=B", "34=12", "52=20100318-03:21:11.364",
		"262=req-1",
		"268=2",
		"269=0", "270=1.37215", "271=2500000",
		"269=1", "270=1.37224", "271=2503200")

	msg, err := Decode(p, buf, WithSeparator('|'))
	require.NoError(t, err)

	v, ok := msg.Data.Get("NoMDEntries")
	require.True(t, ok)
	entries := v.([]*FieldMap)
	require.Len(t, entries, 2)

	entryType, _ := entries[0].Get("MDEntryType")
	require.Equal(t, "BID", entryType)
	px, _ := entries[0].Get("MDEntryPx")
	require.Equal(t, 1.37215, px)
	entryType, _ = entries[1].Get("MDEntryType")
	require.Equal(t, "OFFER", entryType)

	// The raw count never appears as a payload value.
	require.Equal(t, []string{"MDEntryType", "MDEntryPx", "MDEntrySize"}, entries[0].Keys())
}

func TestDecode_NestedGroups(t *testing.T) {
	p := newTestProtocol(t)
	buf := makeWire(t,
		"35=W", "49=A", "56=B", "34=13", "52=20100318-03:21:11.364",
		"268=2",
		"269=0", "270=1.5", "453=2", "448=BANK1", "452=1", "448=BANK2",
		"269=1", "270=1.6", "453=1", "448=BANK3", "452=17")

	msg, err := Decode(p, buf, WithSeparator('|'))
	require.NoError(t, err)

	entries, _ := msg.Data.Get("NoMDEntries")
	require.Len(t, entries.([]*FieldMap), 2)

	first := entries.([]*FieldMap)[0]
	parties, ok := first.Get("NoPartyIDs")
	require.True(t, ok)
	require.Len(t, parties.([]*FieldMap), 2)
	id, _ := parties.([]*FieldMap)[0].Get("PartyID")
	require.Equal(t, "BANK1", id)
	role, _ := parties.([]*FieldMap)[0].Get("PartyRole")
	require.Equal(t, int64(1), role)
	// The second occurrence omits the optional PartyRole.
	require.False(t, parties.([]*FieldMap)[1].Has("PartyRole"))

	second := entries.([]*FieldMap)[1]
	parties, _ = second.Get("NoPartyIDs")
	require.Len(t, parties.([]*FieldMap), 1)
}

func TestDecode_GroupCountZero(t *testing.T) {
	p := newTestProtocol(t)
	buf := makeWire(t, "35=W", "49=A", "56=B", "34=14", "52=20100318-03:21:11.364", "268=0")

	msg, err := Decode(p, buf, WithSeparator('|'))
	require.NoError(t, err)

	entries, ok := msg.Data.Get("NoMDEntries")
	require.True(t, ok)
	require.Empty(t, entries.([]*FieldMap))
}

func TestDecode_GroupMalformedCount(t *testing.T) {
	p := newTestProtocol(t)
	buf := makeWire(t, "35=W", "49=A", "56=B", "34=15", "52=20100318-03:21:11.364", "268=two")

	_, err := Decode(p, buf, WithSeparator('|'))
	require.ErrorIs(t, err, errs.ErrMalformedValue)
}

func TestDecode_GroupMissingRequiredChild(t *testing.T) {
	p := newTestProtocol(t)
	// MDEntryType is required in every occurrence; the second one lacks it.
	buf := makeWire(t,
		"35=W", "49=A", "56=B", "34=16", "52=20100318-03:21:11.364",
		"268=2",
		"269=0", "270=1.5",
		"270=1.6")

	_, err := Decode(p, buf, WithSeparator('|'))
	require.ErrorIs(t, err, errs.ErrMissingRequiredField)
	require.Contains(t, err.Error(), "MDEntryType")
}

func TestDecode_RoundTrip(t *testing.T) {
	p := newTestProtocol(t)
	buf := makeWire(t,
		"35=D", "49=SENDER", "56=TARGET", "34=21", "52=20200101-12:30:00.000",
		"11=ORD-21", "55=CVS", "48=12345", "54=1", "60=20200101-12:29:59.500",
		"38=100", "40=2", "44=56.25", "58=fill or kill")

	msg, err := Decode(p, buf, WithSeparator('|'))
	require.NoError(t, err)

	again, err := msg.Encode(WithSeparator('|'))
	require.NoError(t, err)
	require.Equal(t, string(buf), string(again))

	// Decoding the re-encoded buffer reproduces the same payload.
	back, err := Decode(p, again, WithSeparator('|'))
	require.NoError(t, err)
	require.True(t, msg.Data.Equal(back.Data))
}

func TestDecode_EmptyBuffer(t *testing.T) {
	p := newTestProtocol(t)
	_, err := Decode(p, []byte{}, WithSeparator('|'))
	require.ErrorIs(t, err, errs.ErrMalformedValue)
}

func TestMessage_New(t *testing.T) {
	p := newTestProtocol(t)
	data := heartbeatData(t)

	msg, err := New(p, data)
	require.NoError(t, err)
	require.Equal(t, "HEARTBEAT", msg.Def.Name())

	orphan := NewFieldMap()
	orphan.Set("ClOrdID", "x")
	_, err = New(p, orphan)
	require.ErrorIs(t, err, errs.ErrUnknownMsgType)
}
