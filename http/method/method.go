package method

import "bytes"

type Method uint8

const (
	Unknown Method = iota
	GET
	POST
	// GETWebSocket is a GET request carrying a legacy websocket handshake. It has
	// 8 bytes of key material following the headers.
	GETWebSocket
)

func (m Method) String() string {
	switch m {
	case GET, GETWebSocket:
		return "GET"
	case POST:
		return "POST"
	default:
		return ""
	}
}

var (
	getToken  = []byte("GET ")
	postToken = []byte("POST ")
)

// FromRequestLine recognizes the method by the first token of the request line. Comparison
// is exact and case-sensitive. offset points at the first byte after the method and its
// trailing space.
func FromRequestLine(line []byte) (m Method, offset int) {
	switch {
	case bytes.HasPrefix(line, getToken):
		return GET, len(getToken)
	case bytes.HasPrefix(line, postToken):
		return POST, len(postToken)
	default:
		return Unknown, 0
	}
}
