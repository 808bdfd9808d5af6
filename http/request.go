package http

import (
	"context"
	"net"

	"github.com/indigo-web/pushwire/http/headers"
	"github.com/indigo-web/pushwire/http/method"
	"github.com/indigo-web/pushwire/http/proto"
)

var zeroContext = context.Background()

// Request represents a complete HTTP request. The object is reused for every request on the
// connection, and its strings and slices point into the connection buffer, so they are valid
// only until the callback it was passed into returns. Copy anything that must outlive it.
type Request struct {
	// Method is either GET, POST or GETWebSocket.
	Method method.Method
	// URI is the decoded request target including the query, if any.
	URI string
	// Path is the decoded part of the URI before the query mark.
	Path string
	// Query is the decoded part after the query mark. Empty if there was no query or it
	// was empty.
	Query string
	// Host is the value of the Host header.
	Host string
	// Headers holds the header lines in the order they arrived. Lookup is case-insensitive
	// and the most recent line wins.
	Headers *headers.Lines
	// ContentLength is the announced body length of a POST request, or 8 for a legacy
	// websocket handshake.
	ContentLength int
	// Body is exactly ContentLength bytes long.
	Body []byte
	// WebSocket is the framing variant requested by a handshake. None for plain requests.
	WebSocket proto.WebSocket
	// Remote holds the remote address.
	Remote net.Addr
	// Ctx is user-managed context which lives as long as the connection does and is never
	// automatically cleared.
	Ctx context.Context
}

func NewRequest(hdrs *headers.Lines, remote net.Addr) *Request {
	return &Request{
		Headers: hdrs,
		Remote:  remote,
		Ctx:     zeroContext,
	}
}

// IsUpgrade reports whether the request is a websocket handshake.
func (r *Request) IsUpgrade() bool {
	return r.WebSocket != proto.None
}

// Reset clears the request for the next one. Ctx and Remote are preserved.
func (r *Request) Reset() {
	r.Method = method.Unknown
	r.URI = ""
	r.Path = ""
	r.Query = ""
	r.Host = ""
	r.Headers.Clear()
	r.ContentLength = 0
	r.Body = nil
	r.WebSocket = proto.None
}
