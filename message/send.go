package message

import (
	"fmt"
	"sync"

	"github.com/jopadan/libnaomi-go/boardconfig"
)

// Sender owns the process-wide sequence counter from spec §4.4:
// sequence numbers start at 1, advance by exactly 1 per successfully
// sent message (not on a send failure), and skip 0 on wraparound.
type Sender struct {
	cfg boardconfig.Config

	mu       sync.Mutex
	sequence Sequence
}

// NewSender constructs a Sender for the given board configuration.
func NewSender(cfg boardconfig.Config) *Sender {
	return &Sender{cfg: cfg, sequence: 1}
}

// Send splits data into one or more fragments and writes each to t,
// per spec §4.4: a message of length L emits ceil(L/maxData)
// fragments, except that L==0 always emits exactly one (header-only)
// fragment. Every fragment of one message shares type, sequence, and
// total length; only offset and payload vary.
//
// The sequence number for this call is only consumed — advanced past
// — once every fragment has been accepted by the transport. On a
// mid-message transport failure the counter is left exactly where it
// was, so a retried Send reuses the same sequence number. This
// resolves an internal inconsistency in the written spec (§4.4 says
// a failed send still consumes the sequence number; §9 flags that the
// original C source actually does not, since its static sequence
// variable's increment sits textually after the send loop and is
// never reached on an early failure return): original_source/'s
// message.c is authoritative here, so that is the behavior this
// implementation follows. See DESIGN.md.
func (s *Sender) Send(t Transport, msgType Type, data []byte) error {
	if len(data) > boardconfig.MaxMessageLength {
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(data), boardconfig.MaxMessageLength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.sequence
	maxData := s.cfg.MaxMessageDataLength()
	length := len(data)
	buf := make([]byte, boardconfig.MessageHeaderLength+maxData)

	for loc := 0; loc == 0 || loc < length; loc += maxData {
		n := length - loc
		if n > maxData {
			n = maxData
		}

		encodeHeader(buf, header{
			Type:     msgType,
			Sequence: seq,
			Length:   uint16(length),
			Offset:   uint16(loc),
		})
		if n > 0 {
			copy(buf[boardconfig.MessageHeaderLength:], data[loc:loc+n])
		}

		if err := t.Send(buf[:boardconfig.MessageHeaderLength+n]); err != nil {
			return fmt.Errorf("%w: %v", ErrTransportSend, err)
		}
	}

	s.advanceSequence()
	return nil
}

func (s *Sender) advanceSequence() {
	s.sequence++
	if s.sequence == 0 {
		s.sequence = 1
	}
}
