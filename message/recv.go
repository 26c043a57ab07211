package message

import "github.com/jopadan/libnaomi-go/boardconfig"

// trackedSequence is one reassembly slot (spec §3/§4.5): the sequence
// being tracked, its declared total length, and which of its fragment
// positions have arrived so far. Tracking slots exist only for the
// duration of one Recv call — reassembly is attempted fresh every
// time from whatever the transport currently holds.
type trackedSequence struct {
	sequence Sequence
	length   uint16
	presence []bool
}

func (ts *trackedSequence) ready() bool {
	for _, seen := range ts.presence {
		if !seen {
			return false
		}
	}
	return true
}

// Recv implements the three-pass reassembly algorithm of spec §4.5.
// cfg.MaxOutstandingPackets bounds how many distinct in-flight
// sequences are tracked in a single pass.
func Recv(t Transport, cfg boardconfig.Config) (Type, []byte, error) {
	maxData := cfg.MaxMessageDataLength()

	// Pass 1 — cataloging. Capacity is fixed at board-configured size,
	// matching the original's fixed seen_packet_sequences[] array
	// rather than reaching for an associative container.
	tracked := make([]*trackedSequence, 0, cfg.MaxOutstandingPackets)
	for slot := 0; slot < t.Slots(); slot++ {
		buf, ok := t.Peek(slot)
		if !ok {
			continue
		}
		if len(buf) < headerLength {
			t.Discard(slot)
			continue
		}

		h := decodeHeader(buf)
		if h.Sequence == 0 {
			t.Discard(slot)
			continue
		}

		need := fragmentsNeeded(int(h.Length), maxData)

		ts := findTracked(tracked, h.Sequence)
		if ts == nil {
			if len(tracked) >= cfg.MaxOutstandingPackets {
				// No room to track a new sequence this pass; leave the
				// fragment buffered for a future call.
				continue
			}
			ts = &trackedSequence{sequence: h.Sequence, length: h.Length, presence: make([]bool, need)}
			tracked = append(tracked, ts)
		}

		if need > 0 {
			idx := int(h.Offset) / maxData
			if idx >= 0 && idx < len(ts.presence) {
				ts.presence[idx] = true
			}
		}
	}

	// Pass 2 — completion check: first ready slot, in creation order, wins.
	var winner *trackedSequence
	for _, ts := range tracked {
		if ts.ready() {
			winner = ts
			break
		}
	}
	if winner == nil {
		return 0, nil, ErrNoMessage
	}

	// Pass 3 — delivery.
	var data []byte
	if winner.length > 0 {
		data = make([]byte, winner.length)
	}
	var msgType Type

	for slot := 0; slot < t.Slots(); slot++ {
		buf, ok := t.Peek(slot)
		if !ok || len(buf) < headerLength {
			continue
		}
		h := decodeHeader(buf)
		if h.Sequence != winner.sequence {
			continue
		}

		msgType = h.Type
		if winner.length > 0 {
			copy(data[h.Offset:], buf[headerLength:])
		}
		t.Discard(slot)
	}

	return msgType, data, nil
}

func findTracked(tracked []*trackedSequence, seq Sequence) *trackedSequence {
	for _, ts := range tracked {
		if ts.sequence == seq {
			return ts
		}
	}
	return nil
}
