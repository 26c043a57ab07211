package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/jopadan/libnaomi-go/boardconfig"
)

func TestSendRecvSmallMessage(t *testing.T) {
	cfg := boardconfig.Default()
	tr := newMemTransport(cfg.MaxOutstandingPackets)
	sender := NewSender(cfg)

	require.NoError(t, sender.Send(tr, 0x1234, []byte{0xDE, 0xAD, 0xBE, 0xEF}))

	typ, data, err := Recv(tr, cfg)
	require.NoError(t, err)
	assert.Equal(t, Type(0x1234), typ)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, data)
}

func TestSendProducesExpectedWireBytes(t *testing.T) {
	cfg := boardconfig.Default()
	tr := newMemTransport(cfg.MaxOutstandingPackets)
	sender := NewSender(cfg)

	require.NoError(t, sender.Send(tr, 0x1234, []byte{0xDE, 0xAD, 0xBE, 0xEF}))

	buf, ok := tr.Peek(0)
	require.True(t, ok)
	assert.Equal(t, []byte{0x34, 0x12, 0x01, 0x00, 0x04, 0x00, 0x00, 0x00, 0xDE, 0xAD, 0xBE, 0xEF}, buf)
}

func TestSendRecvFragmentedOutOfOrder(t *testing.T) {
	cfg := boardconfig.Default()
	cfg.MaxPacketLength = 16 // maxData = 8
	tr := newMemTransport(cfg.MaxOutstandingPackets)
	sender := NewSender(cfg)

	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i)
	}
	require.NoError(t, sender.Send(tr, 7, data))

	// Re-deliver the three fragments in reverse order.
	var frags [][]byte
	for i := 0; i < 3; i++ {
		buf, ok := tr.Peek(i)
		require.True(t, ok)
		cp := make([]byte, len(buf))
		copy(cp, buf)
		frags = append(frags, cp)
		tr.Discard(i)
	}
	for i := len(frags) - 1; i >= 0; i-- {
		tr.deliver(frags[i])
	}

	typ, got, err := Recv(tr, cfg)
	require.NoError(t, err)
	assert.Equal(t, Type(7), typ)
	assert.Equal(t, data, got)
}

func TestSendRecvZeroLengthMessage(t *testing.T) {
	cfg := boardconfig.Default()
	tr := newMemTransport(cfg.MaxOutstandingPackets)
	sender := NewSender(cfg)

	require.NoError(t, sender.Send(tr, 7, nil))

	typ, data, err := Recv(tr, cfg)
	require.NoError(t, err)
	assert.Equal(t, Type(7), typ)
	assert.Empty(t, data)
}

func TestRecvNoMessageReturnsErrNoMessage(t *testing.T) {
	cfg := boardconfig.Default()
	tr := newMemTransport(cfg.MaxOutstandingPackets)

	_, _, err := Recv(tr, cfg)
	assert.ErrorIs(t, err, ErrNoMessage)
}

func TestRecvDiscardsMalformedFragments(t *testing.T) {
	cfg := boardconfig.Default()
	tr := newMemTransport(cfg.MaxOutstandingPackets)
	sender := NewSender(cfg)

	// Too short to hold a header.
	tr.deliver([]byte{0x01, 0x02, 0x03})
	// Zero sequence number (reserved).
	zero := make([]byte, headerLength)
	encodeHeader(zero, header{Type: 1, Sequence: 0, Length: 0, Offset: 0})
	tr.deliver(zero)

	require.NoError(t, sender.Send(tr, 9, []byte{1, 2, 3}))

	typ, data, err := Recv(tr, cfg)
	require.NoError(t, err)
	assert.Equal(t, Type(9), typ)
	assert.Equal(t, []byte{1, 2, 3}, data)

	// Both bogus fragments should have been discarded during the pass.
	for slot := 0; slot < tr.Slots(); slot++ {
		if buf, ok := tr.Peek(slot); ok {
			assert.NotEqual(t, []byte{0x01, 0x02, 0x03}, buf)
			assert.NotEqual(t, zero, buf)
		}
	}
}

func TestSequenceAdvancesByOneSkippingZero(t *testing.T) {
	cfg := boardconfig.Default()
	tr := newMemTransport(cfg.MaxOutstandingPackets)
	sender := NewSender(cfg)
	sender.sequence = 65535

	require.NoError(t, sender.Send(tr, 1, nil))
	assert.Equal(t, Sequence(1), sender.sequence, "sequence must skip the reserved 0 value on wrap")
}

func TestFailedSendDoesNotConsumeSequence(t *testing.T) {
	cfg := boardconfig.Default()
	cfg.MaxPacketLength = 16 // force multiple fragments
	tr := newMemTransport(cfg.MaxOutstandingPackets)
	tr.failOn = 1 // second fragment fails
	sender := NewSender(cfg)

	before := sender.sequence
	err := sender.Send(tr, 1, make([]byte, 20))
	require.ErrorIs(t, err, ErrTransportSend)
	assert.Equal(t, before, sender.sequence)
}

func TestSendRejectsOversizeMessage(t *testing.T) {
	cfg := boardconfig.Default()
	tr := newMemTransport(cfg.MaxOutstandingPackets)
	sender := NewSender(cfg)

	err := sender.Send(tr, 1, make([]byte, boardconfig.MaxMessageLength+1))
	assert.ErrorIs(t, err, ErrMessageTooLarge)
}

func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := boardconfig.Default()
		cfg.MaxPacketLength = rapid.IntRange(9, 64).Draw(rt, "max_packet_length")
		// Up to 500 bytes at 1 byte per fragment: room for 500 fragments.
		tr := newMemTransport(500)
		sender := NewSender(cfg)

		msgType := Type(rapid.Uint16().Draw(rt, "type"))
		data := rapid.SliceOfN(rapid.Byte(), 0, 500).Draw(rt, "data")

		require.NoError(t, sender.Send(tr, msgType, data))

		// Shuffle fragment arrival order to exercise arbitrary interleaving.
		var frags [][]byte
		for i := 0; i < tr.Slots(); i++ {
			if buf, ok := tr.Peek(i); ok {
				cp := make([]byte, len(buf))
				copy(cp, buf)
				frags = append(frags, cp)
				tr.Discard(i)
			}
		}
		order := rapid.Permutation(indices(len(frags))).Draw(rt, "order")
		for _, i := range order {
			tr.deliver(frags[i])
		}

		gotType, gotData, err := Recv(tr, cfg)
		require.NoError(t, err)
		assert.Equal(rt, msgType, gotType)
		if len(data) == 0 {
			assert.Empty(rt, gotData)
		} else {
			assert.Equal(rt, data, gotData)
		}
	})
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
