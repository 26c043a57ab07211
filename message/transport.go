package message

import "errors"

// Transport is the raw packet transport collaborator from spec §6:
// at most a fixed number of in-flight inbound frames, each bounded by
// a maximum length, exposed with exactly these three operations. The
// message layer never assumes anything about delivery order or
// timing beyond "currently buffered frames can be peeked and
// discarded."
type Transport interface {
	// Send transmits one frame. Returns a non-nil error if the
	// transport could not accept it.
	Send(buf []byte) error

	// Peek returns the frame currently occupying slot, or (nil, false)
	// if that slot is empty. The returned slice must not be retained
	// past the next Discard/Peek call on the same slot.
	Peek(slot int) ([]byte, bool)

	// Discard drops whatever frame occupies slot. Idempotent.
	Discard(slot int)

	// Slots returns the number of inbound slots this transport
	// exposes (spec's MAX_OUTSTANDING_PACKETS, board-configured).
	Slots() int
}

// Sentinel errors surfaced at the message-layer API boundary (spec §7).
var (
	// ErrMessageTooLarge is returned by Send when the message exceeds
	// boardconfig.MaxMessageLength.
	ErrMessageTooLarge = errors.New("message: length exceeds maximum message size")

	// ErrTransportSend is returned by Send when the underlying
	// Transport rejected a fragment. The sequence number is not
	// consumed on this failure path — see send.go.
	ErrTransportSend = errors.New("message: transport send failed")

	// ErrNoMessage is returned by Recv when no complete message is
	// currently assemblable from the transport's buffered fragments.
	ErrNoMessage = errors.New("message: no complete message available")
)
