package message

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/fixwire/errs"
)

func TestFactory_Create(t *testing.T) {
	p := newTestProtocol(t)
	factory, err := NewFactory(p, "SENDER", "TARGET", WithSeparator('|'))
	require.NoError(t, err)

	sendingTime := time.Date(2020, 1, 1, 12, 30, 0, 0, time.UTC)
	msg, err := factory.Create("NEW_ORDER_SINGLE", 42, sendingTime, map[string]any{
		"ClOrdID":      "ORD-42",
		"Symbol":       "CVS",
		"Side":         "BUY",
		"TransactTime": sendingTime,
		"OrdType":      "MARKET",
	}, nil, nil)
	require.NoError(t, err)

	// Stock header fields are stamped in template order.
	require.Equal(t, []string{
		"BeginString", "MsgType", "SenderCompID", "TargetCompID", "MsgSeqNum", "SendingTime",
		"ClOrdID", "Symbol", "Side", "TransactTime", "OrdType",
	}, msg.Data.Keys())

	v, _ := msg.Data.Get("MsgSeqNum")
	require.Equal(t, int64(42), v)
	v, _ = msg.Data.Get("BeginString")
	require.Equal(t, "FIX.4.4", v)

	buf, err := msg.Encode(WithSeparator('|'))
	require.NoError(t, err)

	back, err := factory.Decode(buf)
	require.NoError(t, err)
	require.True(t, msg.Data.Equal(back.Data))
}

func TestFactory_HeaderDefaultsAndExtras(t *testing.T) {
	p := newTestProtocol(t)
	factory, err := NewFactory(p, "SENDER", "TARGET",
		WithSeparator('|'),
		WithHeaderDefaults(map[string]any{"PossDupFlag": false}),
	)
	require.NoError(t, err)

	sendingTime := time.Date(2020, 1, 1, 12, 30, 0, 0, time.UTC)

	msg, err := factory.Create("HEARTBEAT", 1, sendingTime, nil, nil, nil)
	require.NoError(t, err)
	v, ok := msg.Data.Get("PossDupFlag")
	require.True(t, ok)
	require.Equal(t, false, v)

	// Per-call extras override the factory defaults.
	msg, err = factory.Create("HEARTBEAT", 2, sendingTime, nil,
		map[string]any{"PossDupFlag": true}, nil)
	require.NoError(t, err)
	v, _ = msg.Data.Get("PossDupFlag")
	require.Equal(t, true, v)
}

func TestFactory_TrailerExtras(t *testing.T) {
	p := newTestProtocol(t)
	factory, err := NewFactory(p, "SENDER", "TARGET", WithSeparator('|'))
	require.NoError(t, err)

	msg, err := factory.Create("HEARTBEAT", 3, time.Date(2020, 1, 1, 12, 30, 0, 0, time.UTC),
		nil, nil, map[string]any{"Signature": "sig"})
	require.NoError(t, err)

	buf, err := msg.Encode(WithSeparator('|'))
	require.NoError(t, err)
	require.Contains(t, string(buf), "|89=sig|10=")
}

func TestFactory_UnknownMessageName(t *testing.T) {
	p := newTestProtocol(t)
	factory, err := NewFactory(p, "SENDER", "TARGET")
	require.NoError(t, err)

	_, err = factory.Create("QUOTE_REQUEST", 1, time.Now(), nil, nil, nil)
	require.ErrorIs(t, err, errs.ErrUnknownMsgType)
}

func TestFactory_AdminRoundTrips(t *testing.T) {
	p := newTestProtocol(t)
	factory, err := NewFactory(p, "SENDER", "TARGET", WithSeparator('|'))
	require.NoError(t, err)

	sendingTime := time.Date(2020, 1, 1, 12, 30, 0, 0, time.UTC)
	messages := []*Message{}

	msg, err := factory.Create("HEARTBEAT", 43, sendingTime,
		map[string]any{"TestReqID": "ping"}, nil, nil)
	require.NoError(t, err)
	messages = append(messages, msg)

	msg, err = factory.Create("HEARTBEAT", 44, sendingTime, nil, nil, nil)
	require.NoError(t, err)
	messages = append(messages, msg)

	for _, msg := range messages {
		buf, err := msg.Encode(WithSeparator('|'))
		require.NoError(t, err)

		back, err := factory.Decode(buf)
		require.NoError(t, err)
		require.True(t, msg.Data.Equal(back.Data), "round trip of seq %v", msg.Data.Keys())
	}
}
