package websocket

import (
	"errors"

	"github.com/indigo-web/pushwire/http/status"
)

var (
	// ErrClosed is returned after a close frame was answered. The parser interprets
	// nothing afterwards.
	ErrClosed = errors.New("websocket: connection is closed")
	// ErrControlTooLarge is returned after a control frame with more than 125 bytes of
	// payload was answered with a close frame.
	ErrControlTooLarge = status.NewError(
		status.BadRequest, status.LengthOutOfBounds, "websocket: control frame payload is too large",
	)
	// ErrUnmaskedFrame stops the processing of the buffer, but doesn't require the
	// connection to be closed.
	ErrUnmaskedFrame = status.NewError(
		status.BadRequest, status.ProtocolViolation, "websocket: frame has no mask",
	)
	ErrMalformedFrame = status.NewError(
		status.BadRequest, status.MalformedLine, "websocket: frame has no start byte",
	)
	ErrBadHandshake = status.NewError(
		status.BadRequest, status.MalformedLine, "websocket: malformed handshake keys",
	)
)

var ErrUnsupportedVersion = errors.New("websocket: unsupported framing version")
