package simple

import (
	"github.com/indigo-web/pushwire/http"
	"github.com/indigo-web/pushwire/router"
)

type (
	RequestHandler func(router.Conn, *http.Request)
	MessageHandler func(router.Conn, []byte)
)

type simple struct {
	onRequest RequestHandler
	onMessage MessageHandler
}

// New returns a router calling the handlers. Either of them may be nil, in which case the
// corresponding events are ignored.
func New(onRequest RequestHandler, onMessage MessageHandler) router.Router {
	return simple{
		onRequest: onRequest,
		onMessage: onMessage,
	}
}

func (s simple) OnRequest(conn router.Conn, req *http.Request) {
	if s.onRequest != nil {
		s.onRequest(conn, req)
	}
}

func (s simple) OnMessage(conn router.Conn, msg []byte) {
	if s.onMessage != nil {
		s.onMessage(conn, msg)
	}
}
