package message

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/fixwire/protocol"
)

// newTestProtocol builds a compact protocol exercising every member variant:
// plain fields, an inlined component, a repeating group and a nested group.
func newTestProtocol(t *testing.T, opts ...protocol.Option) *protocol.Protocol {
	t.Helper()

	fields := []*protocol.FieldDef{
		protocol.NewFieldDef("BeginString", 8, protocol.TypeString, nil),
		protocol.NewFieldDef("BodyLength", 9, protocol.TypeLength, nil),
		protocol.NewFieldDef("MsgType", 35, protocol.TypeString, map[string]string{
			"0": "HEARTBEAT",
			"D": "NEW_ORDER_SINGLE",
			"W": "MARKET_DATA_SNAPSHOT",
		}),
		protocol.NewFieldDef("SenderCompID", 49, protocol.TypeString, nil),
		protocol.NewFieldDef("TargetCompID", 56, protocol.TypeString, nil),
		protocol.NewFieldDef("MsgSeqNum", 34, protocol.TypeSeqNum, nil),
		protocol.NewFieldDef("PossDupFlag", 43, protocol.TypeBoolean, nil),
		protocol.NewFieldDef("SendingTime", 52, protocol.TypeUTCTimestamp, nil),
		protocol.NewFieldDef("Signature", 89, protocol.TypeString, nil),
		protocol.NewFieldDef("CheckSum", 10, protocol.TypeString, nil),

		protocol.NewFieldDef("TestReqID", 112, protocol.TypeString, nil),
		protocol.NewFieldDef("ClOrdID", 11, protocol.TypeString, nil),
		protocol.NewFieldDef("Symbol", 55, protocol.TypeString, nil),
		protocol.NewFieldDef("SecurityID", 48, protocol.TypeString, nil),
		protocol.NewFieldDef("Side", 54, protocol.TypeChar, map[string]string{
			"1": "BUY",
			"2": "SELL",
		}),
		protocol.NewFieldDef("TransactTime", 60, protocol.TypeUTCTimestamp, nil),
		protocol.NewFieldDef("OrderQty", 38, protocol.TypeQty, nil),
		protocol.NewFieldDef("OrdType", 40, protocol.TypeChar, map[string]string{
			"1": "MARKET",
			"2": "LIMIT",
		}),
		protocol.NewFieldDef("Price", 44, protocol.TypePrice, nil),
		protocol.NewFieldDef("Text", 58, protocol.TypeString, nil),

		protocol.NewFieldDef("MDReqID", 262, protocol.TypeString, nil),
		protocol.NewFieldDef("NoMDEntries", 268, protocol.TypeNumInGroup, nil),
		protocol.NewFieldDef("MDEntryType", 269, protocol.TypeChar, map[string]string{
			"0": "BID",
			"1": "OFFER",
			"2": "TRADE",
		}),
		protocol.NewFieldDef("MDEntryPx", 270, protocol.TypePrice, nil),
		protocol.NewFieldDef("MDEntrySize", 271, protocol.TypeQty, nil),
		protocol.NewFieldDef("NoPartyIDs", 453, protocol.TypeNumInGroup, nil),
		protocol.NewFieldDef("PartyID", 448, protocol.TypeString, nil),
		protocol.NewFieldDef("PartyRole", 452, protocol.TypeInt, nil),
	}
	fieldsByName := make(map[string]*protocol.FieldDef, len(fields))
	for _, field := range fields {
		fieldsByName[field.Name()] = field
	}

	addField := func(mm *protocol.MemberMap, name string, required bool) {
		require.NoError(t, mm.Add(protocol.NewFieldMember(fieldsByName[name], required)))
	}

	instrument := protocol.NewComponentDef("Instrument")
	instrumentMembers := protocol.NewMemberMap()
	addField(instrumentMembers, "Symbol", true)
	addField(instrumentMembers, "SecurityID", false)
	instrument.SetMembers(instrumentMembers)

	header := protocol.NewMemberMap()
	addField(header, "BeginString", true)
	addField(header, "BodyLength", true)
	addField(header, "MsgType", true)
	addField(header, "SenderCompID", true)
	addField(header, "TargetCompID", true)
	addField(header, "MsgSeqNum", true)
	addField(header, "PossDupFlag", false)
	addField(header, "SendingTime", true)

	trailer := protocol.NewMemberMap()
	addField(trailer, "Signature", false)
	addField(trailer, "CheckSum", true)

	heartbeat := protocol.NewMemberMap()
	addField(heartbeat, "TestReqID", false)

	order := protocol.NewMemberMap()
	addField(order, "ClOrdID", true)
	require.NoError(t, order.Add(protocol.NewComponentMember(instrument, true)))
	addField(order, "Side", true)
	addField(order, "TransactTime", true)
	addField(order, "OrderQty", false)
	addField(order, "OrdType", true)
	addField(order, "Price", false)
	addField(order, "Text", false)

	parties := protocol.NewMemberMap()
	addField(parties, "PartyID", true)
	addField(parties, "PartyRole", false)

	entries := protocol.NewMemberMap()
	addField(entries, "MDEntryType", true)
	addField(entries, "MDEntryPx", false)
	addField(entries, "MDEntrySize", false)
	require.NoError(t, entries.Add(
		protocol.NewGroupMember(fieldsByName["NoPartyIDs"], false, parties)))

	marketData := protocol.NewMemberMap()
	addField(marketData, "MDReqID", false)
	require.NoError(t, marketData.Add(
		protocol.NewGroupMember(fieldsByName["NoMDEntries"], true, entries)))

	messages := []*protocol.MessageDef{
		protocol.NewMessageDef("HEARTBEAT", "0", "admin", heartbeat),
		protocol.NewMessageDef("NEW_ORDER_SINGLE", "D", "app", order),
		protocol.NewMessageDef("MARKET_DATA_SNAPSHOT", "W", "app", marketData),
	}

	p, err := protocol.New("4.4", "FIX.4.4", fields, []*protocol.ComponentDef{instrument}, messages,
		header, trailer, opts...)
	require.NoError(t, err)

	return p
}

// makeWire frames the given records ("35=D", ...) with the '|' separator,
// prepending the preamble and appending the checksum trailer so the result
// passes integrity verification.
func makeWire(t *testing.T, records ...string) []byte {
	t.Helper()

	var body []byte
	for _, record := range records {
		body = append(body, record...)
		body = append(body, '|')
	}

	buf := []byte("8=FIX.4.4|9=" + strconv.Itoa(len(body)) + "|")
	buf = append(buf, body...)

	checksum := checksumOf(buf, '|', true)
	buf = append(buf, "10="...)
	buf = append(buf, checksum...)
	buf = append(buf, '|')

	return buf
}
