// Package ptytransport implements message.Transport over a pseudo
// terminal pair, the same mechanism the teacher's kiss.go uses to
// expose a virtual KISS TNC to other processes (github.com/creack/pty),
// here repurposed as a real OS-backed duplex byte pipe standing in
// for spec §6's raw packet transport collaborator.
//
// Framing on the wire is length-prefixed (a 2-byte little-endian
// length followed by that many bytes) so that whole fragments survive
// the byte-stream nature of a pty, the same problem the teacher's
// kiss_frame.go solves with FEND/escape framing for a different
// transport.
package ptytransport

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/creack/pty"
	"github.com/pkg/term"
)

// Transport is a message.Transport backed by one end of a pty pair.
// The peer process (or another Transport opened on the slave path)
// is the other endpoint.
type Transport struct {
	rw   io.ReadWriteCloser
	maxLen int

	mu    sync.Mutex
	slots [][]byte
}

// Open creates a fresh pty pair and returns a Transport bound to the
// master end, along with the slave device path a peer should open
// (e.g. via OpenSlave) to communicate with it.
func Open(maxPacketLength, slots int) (*Transport, string, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, "", fmt.Errorf("ptytransport: open: %w", err)
	}

	t := &Transport{rw: master, maxLen: maxPacketLength, slots: make([][]byte, slots)}
	go t.readLoop()

	return t, slave.Name(), nil
}

// OpenSlave attaches a Transport to an existing pty slave path, put
// into raw mode via github.com/pkg/term the same way the teacher's
// serial_port.go does for a real serial device.
func OpenSlave(path string, maxPacketLength, slots int) (*Transport, error) {
	tm, err := term.Open(path, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("ptytransport: open slave %s: %w", path, err)
	}

	t := &Transport{rw: tm, maxLen: maxPacketLength, slots: make([][]byte, slots)}
	go t.readLoop()

	return t, nil
}

func (t *Transport) readLoop() {
	lenBuf := make([]byte, 2)
	for {
		if _, err := io.ReadFull(t.rw, lenBuf); err != nil {
			return
		}
		n := binary.LittleEndian.Uint16(lenBuf)
		payload := make([]byte, n)
		if _, err := io.ReadFull(t.rw, payload); err != nil {
			return
		}
		t.deliver(payload)
	}
}

func (t *Transport) deliver(buf []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range t.slots {
		if s == nil {
			t.slots[i] = buf
			return
		}
	}
	// No free slot: the original transport's contract bounds in-flight
	// frames at MAX_OUTSTANDING_PACKETS too, so the newly arrived frame
	// is dropped rather than growing the slot table.
}

// Send writes one frame to the peer. len(buf) must not exceed
// maxPacketLength.
func (t *Transport) Send(buf []byte) error {
	if len(buf) > t.maxLen {
		return fmt.Errorf("ptytransport: frame of %d bytes exceeds max %d", len(buf), t.maxLen)
	}

	header := make([]byte, 2)
	binary.LittleEndian.PutUint16(header, uint16(len(buf)))
	if _, err := t.rw.Write(header); err != nil {
		return err
	}
	_, err := t.rw.Write(buf)
	return err
}

func (t *Transport) Peek(slot int) ([]byte, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if slot < 0 || slot >= len(t.slots) || t.slots[slot] == nil {
		return nil, false
	}
	return t.slots[slot], true
}

func (t *Transport) Discard(slot int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if slot >= 0 && slot < len(t.slots) {
		t.slots[slot] = nil
	}
}

func (t *Transport) Slots() int { return len(t.slots) }

// Close releases the underlying pty endpoint.
func (t *Transport) Close() error {
	return t.rw.Close()
}

var _ io.Closer = (*os.File)(nil) // pty.Open's master/slave are *os.File
