package websocket

import "encoding/binary"

// maxControlPayload is the limit for close, ping and pong frames payload.
const maxControlPayload = 125

const (
	lengthMask    = 0x7f
	maskBit       = 0x80
	lengthShort   = 126
	lengthLong    = 127
	opcodeMask    = 0x0f
	shortLenBytes = 2
	longLenBytes  = 8
)

// Header accumulates the fixed part of a frame byte by byte. The start byte and the
// extended length are kept apart, and every interpretation goes through an accessor.
type Header struct {
	start  byte
	length [longLenBytes]byte
	filled int
}

// SetStart stores the byte holding the flags and the opcode.
func (h *Header) SetStart(b byte) {
	h.start = b
}

// Start returns the raw start byte.
func (h *Header) Start() byte {
	return h.start
}

// Opcode returns the low nibble of the start byte.
func (h *Header) Opcode() byte {
	return h.start & opcodeMask
}

// PushLength appends a byte of the extended length. It reports whether width bytes
// were collected.
func (h *Header) PushLength(b byte, width int) (complete bool) {
	h.length[h.filled] = b
	h.filled++

	return h.filled == width
}

// Length16 interprets the collected bytes as a 16-bit length in network byte order.
func (h *Header) Length16() uint16 {
	return binary.BigEndian.Uint16(h.length[:shortLenBytes])
}

// Length64 interprets the collected bytes as a 64-bit length in network byte order.
func (h *Header) Length64() uint64 {
	return binary.BigEndian.Uint64(h.length[:])
}

func (h *Header) Reset() {
	*h = Header{}
}
