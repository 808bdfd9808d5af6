package session

import (
	"errors"
	"net"

	"github.com/indigo-web/pushwire/config"
	"github.com/indigo-web/pushwire/http"
	"github.com/indigo-web/pushwire/http/headers"
	"github.com/indigo-web/pushwire/http/proto"
	"github.com/indigo-web/pushwire/http/response"
	"github.com/indigo-web/pushwire/http/status"
	"github.com/indigo-web/pushwire/internal/buffer"
	"github.com/indigo-web/pushwire/internal/protocol/http1"
	"github.com/indigo-web/pushwire/internal/protocol/websocket"
	"github.com/indigo-web/pushwire/internal/tcp"
	"github.com/indigo-web/pushwire/router"
	"go.uber.org/zap"
)

var ErrNotUpgraded = errors.New("connection wasn't upgraded to websocket")

// Session drives a single connection: it accumulates incoming bytes and feeds them to the
// http parser until a websocket handshake completes, and to the frame parser afterwards.
type Session struct {
	cfg     *config.Config
	client  tcp.Client
	router  router.Router
	logger  *zap.Logger
	buf     *buffer.Buffer
	request *http.Request
	http    *http1.Parser
	ws      *websocket.Parser
	version proto.WebSocket
	// handshakeErr is set if the reply to a handshake couldn't be built or sent.
	handshakeErr error
	scratch      []byte
	closed       bool
}

func New(cfg *config.Config, client tcp.Client, r router.Router, logger *zap.Logger) *Session {
	buf := buffer.New(cfg.NET.Buffer.Default, cfg.NET.Buffer.Maximal)
	hdrs := headers.New(cfg.Headers.Number.Default, cfg.Headers.Number.Maximal)

	s := &Session{
		cfg:     cfg,
		client:  client,
		router:  r,
		logger:  logger.With(zap.Stringer("remote", client.Remote())),
		buf:     buf,
		request: http.NewRequest(hdrs, client.Remote()),
	}
	s.http = http1.NewParser(cfg, buf, s.request, s.onRequest)

	return s
}

// Serve reads the client until it fails or the session is shut down. The client is
// closed afterwards.
func (s *Session) Serve() {
	defer func() {
		_ = s.client.Close()
	}()

	for {
		data, err := s.client.Read()
		if err != nil {
			s.logger.Debug("connection closed", zap.Error(err))
			return
		}

		if !s.OnReadable(data) {
			return
		}
	}
}

// OnReadable processes freshly received data. Returns false once the connection is
// shut down and must not be read anymore.
func (s *Session) OnReadable(data []byte) bool {
	if s.closed {
		return false
	}

	if !s.buf.Append(data) {
		s.abort(status.ErrBufferOverflow)
		return false
	}

	if s.ws == nil {
		state, err := s.http.Parse()
		if err == nil {
			err = s.handshakeErr
		}

		if err != nil {
			s.abort(err)
			return false
		}

		if s.closed || state != http1.Upgraded {
			return !s.closed
		}

		s.logger.Debug("connection upgraded", zap.Stringer("version", s.version))
		s.ws = websocket.NewParser(s.version, s.buf, s.cfg.WebSocket, s.client.Write, s.onMessage)
	}

	return s.parseFrames()
}

func (s *Session) parseFrames() bool {
	err := s.ws.Parse()
	switch {
	case err == nil:
		return !s.closed
	case errors.Is(err, websocket.ErrUnmaskedFrame):
		s.logger.Warn("frame processing is stopped", zap.Error(err))
		return !s.closed
	case errors.Is(err, websocket.ErrClosed):
		s.logger.Debug("closed by peer")
		s.shutdown()
		return false
	default:
		s.abort(err)
		return false
	}
}

func (s *Session) onRequest(req *http.Request) {
	if s.closed {
		return
	}

	if req.IsUpgrade() {
		reply, err := websocket.Handshake(req)
		if err == nil {
			err = s.client.Write(reply)
		}

		if err != nil {
			s.handshakeErr = err
			return
		}

		s.version = req.WebSocket
	}

	s.router.OnRequest(s, req)
}

func (s *Session) onMessage(msg []byte) {
	if s.closed {
		return
	}

	s.router.OnMessage(s, msg)
}

// abort shuts the connection down after a fatal error. While still speaking http, the
// peer is told what was wrong with its request.
func (s *Session) abort(err error) {
	if s.closed {
		return
	}

	s.logger.Info("shutting the connection down", zap.Error(err), zap.Uint8("kind", uint8(status.KindOf(err))))

	var httpErr status.HTTPError
	if s.ws == nil && errors.As(err, &httpErr) {
		reply := response.WithCode(httpErr.Code).Set("Connection", "close")
		_ = response.Send(s.client, reply, nil)
	}

	s.shutdown()
}

func (s *Session) shutdown() {
	s.closed = true
	if err := s.client.Shutdown(); err != nil {
		s.logger.Debug("shutdown failed", zap.Error(err))
	}
}

func (s *Session) SendHeaders(h *response.Headers, fallback []byte) error {
	return response.Send(s.client, h, fallback)
}

func (s *Session) Send(b []byte) error {
	return s.client.Write(b)
}

func (s *Session) SendMessage(msg []byte) error {
	if s.version == proto.None {
		return ErrNotUpgraded
	}

	s.scratch = websocket.AppendFrame(s.scratch[:0], s.version, msg)
	return s.client.Write(s.scratch)
}

func (s *Session) Remote() net.Addr {
	return s.client.Remote()
}

func (s *Session) Shutdown() error {
	if s.closed {
		return nil
	}

	s.closed = true
	return s.client.Shutdown()
}
