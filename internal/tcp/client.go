package tcp

import (
	"errors"
	"net"
	"time"

	"github.com/indigo-web/pushwire/internal/timer"
)

// Client is the transport of a single connection as seen by a session.
type Client interface {
	// Read blocks until some data arrives or the read timeout expires. The returned slice
	// is valid until the next call.
	Read() ([]byte, error)
	Write([]byte) error
	// Shutdown stops the traffic in both directions. The connection must still be closed.
	Shutdown() error
	Remote() net.Addr
	Close() error
}

type client struct {
	conn    net.Conn
	buff    []byte
	timeout time.Duration
}

func NewClient(conn net.Conn, timeout time.Duration, buff []byte) Client {
	return &client{
		buff:    buff,
		conn:    conn,
		timeout: timeout,
	}
}

func (c *client) Read() ([]byte, error) {
	if err := c.conn.SetReadDeadline(timer.Now().Add(c.timeout)); err != nil {
		return nil, err
	}

	n, err := c.conn.Read(c.buff)

	return c.buff[:n], err
}

func (c *client) Write(b []byte) error {
	_, err := c.conn.Write(b)

	return err
}

type halfCloser interface {
	CloseRead() error
	CloseWrite() error
}

func (c *client) Shutdown() error {
	if conn, ok := c.conn.(halfCloser); ok {
		return errors.Join(conn.CloseRead(), conn.CloseWrite())
	}

	return c.conn.Close()
}

func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *client) Close() error {
	return c.conn.Close()
}
