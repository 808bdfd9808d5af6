package router

import (
	"net"

	"github.com/indigo-web/pushwire/http"
	"github.com/indigo-web/pushwire/http/response"
)

// Conn is the connection a request or a message arrived from. It must be used only from
// within the callback it was passed into.
type Conn interface {
	// SendHeaders serializes the headers. If nil is passed, fallback is written instead.
	SendHeaders(h *response.Headers, fallback []byte) error
	// Send writes raw bytes.
	Send([]byte) error
	// SendMessage writes the payload as a websocket text frame. Fails if the connection
	// wasn't upgraded.
	SendMessage([]byte) error
	Remote() net.Addr
	// Shutdown closes the connection. Nothing buffered is processed afterwards.
	Shutdown() error
}

// Router receives everything parsed out of connections. Both methods are called exactly
// once per complete request or message. The request and the message point into the
// connection buffer and must not be retained.
type Router interface {
	// OnRequest is also called for websocket handshakes, right after the handshake reply
	// was sent. req.WebSocket tells which framing the connection switched to.
	OnRequest(conn Conn, req *http.Request)
	OnMessage(conn Conn, msg []byte)
}
