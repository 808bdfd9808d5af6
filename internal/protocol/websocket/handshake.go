package websocket

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"

	"github.com/indigo-web/pushwire/http"
	"github.com/indigo-web/pushwire/http/proto"
	"github.com/indigo-web/pushwire/http/response"
	"github.com/indigo-web/pushwire/http/status"
	"github.com/indigo-web/utils/uf"
)

const acceptGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// Handshake returns the complete server reply to a websocket handshake request. It must
// be called while the request is still valid, i.e. from within the request callback.
func Handshake(req *http.Request) ([]byte, error) {
	switch req.WebSocket {
	case proto.Legacy:
		return legacyHandshake(req)
	case proto.Draft06, proto.Draft07:
		return draftHandshake(req)
	default:
		return nil, ErrUnsupportedVersion
	}
}

func legacyHandshake(req *http.Request) ([]byte, error) {
	key1, ok1 := legacyNumber(req.Headers.Value("Sec-WebSocket-Key1"))
	key2, ok2 := legacyNumber(req.Headers.Value("Sec-WebSocket-Key2"))
	if !ok1 || !ok2 || len(req.Body) != legacyKeyLength {
		return nil, ErrBadHandshake
	}

	challenge := make([]byte, 0, 2*4+legacyKeyLength)
	challenge = binary.BigEndian.AppendUint32(challenge, key1)
	challenge = binary.BigEndian.AppendUint32(challenge, key2)
	challenge = append(challenge, req.Body...)
	sum := md5.Sum(challenge)

	headers, err := response.New(int(status.SwitchingProtocols), "WebSocket Protocol Handshake")
	if err != nil {
		return nil, err
	}

	headers.
		Set("Upgrade", "WebSocket").
		Set("Connection", "Upgrade").
		Set("Sec-WebSocket-Origin", req.Headers.Value("Origin")).
		Set("Sec-WebSocket-Location", "ws://"+req.Host+req.URI)

	reply := headers.AppendTo(nil)
	return append(reply, sum[:]...), nil
}

func draftHandshake(req *http.Request) ([]byte, error) {
	key := req.Headers.Value("Sec-WebSocket-Key")
	if len(key) == 0 {
		return nil, ErrBadHandshake
	}

	h := sha1.New()
	h.Write(uf.S2B(key))
	h.Write(uf.S2B(acceptGUID))
	accept := base64.StdEncoding.EncodeToString(h.Sum(nil))

	headers := response.WithCode(status.SwitchingProtocols).
		Set("Upgrade", "websocket").
		Set("Connection", "Upgrade").
		Set("Sec-WebSocket-Accept", accept)

	return headers.AppendTo(nil), nil
}

// legacyNumber extracts the digits of the key and divides the resulting number by the
// amount of spaces in it.
func legacyNumber(key string) (uint32, bool) {
	var (
		number uint64
		spaces uint64
	)

	for i := 0; i < len(key); i++ {
		switch c := key[i]; {
		case c >= '0' && c <= '9':
			number = number*10 + uint64(c-'0')
			if number > 0xFFFFFFFF {
				return 0, false
			}
		case c == ' ':
			spaces++
		}
	}

	if spaces == 0 || number%spaces != 0 {
		return 0, false
	}

	return uint32(number / spaces), true
}
