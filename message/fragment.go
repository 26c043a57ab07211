// Package message implements the fragmentation/reassembly layer of
// spec §4.4–4.5: splitting an application message of up to 65,535
// bytes into fixed-size transport frames, and reconstructing it on
// the receive side from whatever frames the transport currently
// holds.
package message

import "encoding/binary"

// headerLength is the fixed 8-byte fragment header (spec §3): type,
// sequence, total length, offset, all little-endian uint16s — the
// source's raw little-endian memcpy of machine words.
const headerLength = 8

// Type identifies the logical message carried by a fragment.
type Type uint16

// Sequence identifies the fragments of one logical message. 0 is
// reserved and never assigned.
type Sequence uint16

type header struct {
	Type     Type
	Sequence Sequence
	Length   uint16
	Offset   uint16
}

func encodeHeader(buf []byte, h header) {
	binary.LittleEndian.PutUint16(buf[0:2], uint16(h.Type))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(h.Sequence))
	binary.LittleEndian.PutUint16(buf[4:6], h.Length)
	binary.LittleEndian.PutUint16(buf[6:8], h.Offset)
}

func decodeHeader(buf []byte) header {
	return header{
		Type:     Type(binary.LittleEndian.Uint16(buf[0:2])),
		Sequence: Sequence(binary.LittleEndian.Uint16(buf[2:4])),
		Length:   binary.LittleEndian.Uint16(buf[4:6]),
		Offset:   binary.LittleEndian.Uint16(buf[6:8]),
	}
}

// fragmentsNeeded returns ceil(length / maxData), with the spec's
// explicit exception that a zero-length message still needs exactly
// one fragment's worth of bookkeeping (handled by callers that treat
// 0 specially, not by this helper returning 1 for length 0 — see
// send.go and recv.go).
func fragmentsNeeded(length, maxData int) int {
	if length == 0 {
		return 0
	}
	return (length + maxData - 1) / maxData
}
