package tcp

import (
	"errors"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type OnConn func(net.Conn)

// Server runs the accept loop. The loop is interrupted every interruptPeriod in order to
// check whether it was stopped.
type Server struct {
	l               *net.TCPListener
	wg              sync.WaitGroup
	stop            atomic.Bool
	interruptPeriod time.Duration
}

func Bind(addr string) (*net.TCPListener, error) {
	tcpaddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}

	return net.ListenTCP("tcp", tcpaddr)
}

func NewServer(l *net.TCPListener, interruptPeriod time.Duration) *Server {
	return &Server{
		l:               l,
		interruptPeriod: interruptPeriod,
	}
}

// Serve accepts connections until Stop is called. Every connection is served in its own
// goroutine and closed as soon as onConn returns.
func (s *Server) Serve(onConn OnConn) error {
	for !s.stop.Load() {
		if err := s.l.SetDeadline(time.Now().Add(s.interruptPeriod)); err != nil {
			return err
		}

		conn, err := s.l.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}

			return err
		}

		s.wg.Add(1)
		go func(conn net.Conn) {
			defer s.wg.Done()
			onConn(conn)
			_ = conn.Close()
		}(conn)
	}

	return nil
}

func (s *Server) Addr() net.Addr {
	return s.l.Addr()
}

// Stop makes the accept loop exit at its next interrupt. Connections already accepted
// are left alone.
func (s *Server) Stop() {
	s.stop.Store(true)
}

func (s *Server) Close() error {
	return s.l.Close()
}

// Wait blocks until every connection handler returns.
func (s *Server) Wait() {
	s.wg.Wait()
}
