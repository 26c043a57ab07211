package message

import "errors"

// memTransport is an in-memory Transport stand-in for unit and
// property tests, modeled on the teacher's kiss_frame.go in spirit
// (a fixed set of slots a producer fills and a consumer peeks/drains)
// without any of its cgo/serial plumbing.
type memTransport struct {
	slots  [][]byte
	failOn int // zero-based index of the Send call that fails; -1 disables
	sent   int
}

func newMemTransport(n int) *memTransport {
	return &memTransport{slots: make([][]byte, n), failOn: -1}
}

func (m *memTransport) Send(buf []byte) error {
	if m.failOn >= 0 && m.sent == m.failOn {
		m.sent++
		return errors.New("injected failure")
	}
	m.sent++
	for i, s := range m.slots {
		if s == nil {
			cp := make([]byte, len(buf))
			copy(cp, buf)
			m.slots[i] = cp
			return nil
		}
	}
	return errors.New("no free slot")
}

func (m *memTransport) Peek(slot int) ([]byte, bool) {
	if slot < 0 || slot >= len(m.slots) || m.slots[slot] == nil {
		return nil, false
	}
	return m.slots[slot], true
}

func (m *memTransport) Discard(slot int) {
	if slot >= 0 && slot < len(m.slots) {
		m.slots[slot] = nil
	}
}

func (m *memTransport) Slots() int { return len(m.slots) }

// deliver injects a raw already-framed fragment directly into a slot,
// bypassing Send — used to test arbitrary fragment arrival order.
func (m *memTransport) deliver(buf []byte) {
	for i, s := range m.slots {
		if s == nil {
			cp := make([]byte, len(buf))
			copy(cp, buf)
			m.slots[i] = cp
			return
		}
	}
}
