package proto

import "strings"

// WebSocket is the framing variant negotiated by a handshake request.
type WebSocket uint8

const (
	None WebSocket = iota
	// Legacy is the delimiter-based framing: 0x00 <payload> 0xFF.
	Legacy
	// Draft06 frames carry the mask key first and are masked as a whole after it.
	Draft06
	// Draft07 frames carry a mandatory mask bit and the mask key right before the payload.
	Draft07
)

func (w WebSocket) String() string {
	switch w {
	case Legacy:
		return "legacy"
	case Draft06:
		return "draft-06"
	case Draft07:
		return "draft-07"
	default:
		return "none"
	}
}

// FromVersion maps the Sec-WebSocket-Version header value onto a supported framing.
// Versions using the final framing are not supported and result in None.
func FromVersion(value string) WebSocket {
	switch strings.TrimSpace(value) {
	case "6":
		return Draft06
	case "7", "8":
		return Draft07
	default:
		return None
	}
}
