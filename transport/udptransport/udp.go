// Package udptransport implements message.Transport over a UDP
// socket, grounded on the teacher's audio.go use of net.ListenUDP/
// net.UDPConn for a datagram-oriented collaborator. Unlike the pty
// transport, UDP already preserves datagram boundaries, so no
// length-prefix framing is needed: one fragment per datagram.
package udptransport

import (
	"fmt"
	"net"
	"sync"
)

// Transport is a message.Transport backed by a UDP socket bound to a
// single peer address (set with SetPeer, or learned from the first
// inbound datagram if unset).
type Transport struct {
	conn   *net.UDPConn
	maxLen int

	mu    sync.Mutex
	peer  *net.UDPAddr
	slots [][]byte
}

// Listen opens a UDP socket on addr (host:port, host may be empty to
// bind all interfaces) and starts draining inbound datagrams into a
// fixed number of slots.
func Listen(addr string, maxPacketLength, slots int) (*Transport, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("udptransport: resolve %s: %w", addr, err)
	}

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("udptransport: listen %s: %w", addr, err)
	}

	t := &Transport{conn: conn, maxLen: maxPacketLength, slots: make([][]byte, slots)}
	go t.readLoop()

	return t, nil
}

// SetPeer fixes the address Send writes to. Until called, Send uses
// the address the first inbound datagram arrived from.
func (t *Transport) SetPeer(addr string) error {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("udptransport: resolve peer %s: %w", addr, err)
	}
	t.mu.Lock()
	t.peer = udpAddr
	t.mu.Unlock()
	return nil
}

func (t *Transport) readLoop() {
	buf := make([]byte, t.maxLen)
	for {
		n, from, err := t.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}

		cp := make([]byte, n)
		copy(cp, buf[:n])

		t.mu.Lock()
		if t.peer == nil {
			t.peer = from
		}
		t.deliverLocked(cp)
		t.mu.Unlock()
	}
}

func (t *Transport) deliverLocked(buf []byte) {
	for i, s := range t.slots {
		if s == nil {
			t.slots[i] = buf
			return
		}
	}
}

// Send writes one datagram to the current peer. SetPeer or an
// inbound datagram must have established a peer first.
func (t *Transport) Send(buf []byte) error {
	if len(buf) > t.maxLen {
		return fmt.Errorf("udptransport: frame of %d bytes exceeds max %d", len(buf), t.maxLen)
	}

	t.mu.Lock()
	peer := t.peer
	t.mu.Unlock()
	if peer == nil {
		return fmt.Errorf("udptransport: no peer address established")
	}

	_, err := t.conn.WriteToUDP(buf, peer)
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

// Close releases the underlying socket.
func (t *Transport) Close() error {
	return t.conn.Close()
}
