package websocket

import (
	"encoding/binary"
	"math"

	"github.com/indigo-web/pushwire/http/proto"
)

const (
	draft06Text = 0x84
	draft07Text = 0x81
)

// AppendFrame appends payload framed as an unmasked text frame of the given version.
func AppendFrame(dst []byte, version proto.WebSocket, payload []byte) []byte {
	switch version {
	case proto.Legacy:
		dst = append(dst, legacyStart)
		dst = append(dst, payload...)
		return append(dst, legacyEnd)
	case proto.Draft06:
		dst = append(dst, draft06Text)
	case proto.Draft07:
		dst = append(dst, draft07Text)
	default:
		return dst
	}

	dst = appendLength(dst, len(payload))
	return append(dst, payload...)
}

func appendLength(dst []byte, length int) []byte {
	switch {
	case length < lengthShort:
		return append(dst, byte(length))
	case length <= math.MaxUint16:
		dst = append(dst, lengthShort)
		return binary.BigEndian.AppendUint16(dst, uint16(length))
	default:
		dst = append(dst, lengthLong)
		return binary.BigEndian.AppendUint64(dst, uint64(length))
	}
}
