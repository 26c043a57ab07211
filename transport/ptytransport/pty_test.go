package ptytransport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jopadan/libnaomi-go/boardconfig"
	"github.com/jopadan/libnaomi-go/message"
)

func TestSendRecvAcrossPtyPair(t *testing.T) {
	cfg := boardconfig.Default()

	master, slavePath, err := Open(cfg.MaxPacketLength, cfg.MaxOutstandingPackets)
	require.NoError(t, err)
	defer master.Close()

	slave, err := OpenSlave(slavePath, cfg.MaxPacketLength, cfg.MaxOutstandingPackets)
	require.NoError(t, err)
	defer slave.Close()

	sender := message.NewSender(cfg)
	require.NoError(t, sender.Send(master, 0x42, []byte("hello naomi")))

	var (
		typ  message.Type
		data []byte
	)
	require.Eventually(t, func() bool {
		var recvErr error
		typ, data, recvErr = message.Recv(slave, cfg)
		return recvErr == nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, message.Type(0x42), typ)
	assert.Equal(t, []byte("hello naomi"), data)
}

func TestSendRejectsOversizeFrame(t *testing.T) {
	cfg := boardconfig.Default()

	master, _, err := Open(cfg.MaxPacketLength, cfg.MaxOutstandingPackets)
	require.NoError(t, err)
	defer master.Close()

	err = master.Send(make([]byte, cfg.MaxPacketLength+1))
	assert.Error(t, err)
}

var _ message.Transport = (*Transport)(nil)
