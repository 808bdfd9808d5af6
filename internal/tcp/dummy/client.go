package dummy

import (
	"io"
	"net"
)

// Client replays the chunks it was initialised with, one per Read, and records everything
// written into it. Once the chunks run out or the client is shut down, io.EOF is returned.
type Client struct {
	chunks   [][]byte
	written  []byte
	shutdown bool
	closed   bool
}

func NewClient(chunks ...[]byte) *Client {
	return &Client{
		chunks: chunks,
	}
}

func (c *Client) Read() ([]byte, error) {
	if c.shutdown || c.closed || len(c.chunks) == 0 {
		return nil, io.EOF
	}

	chunk := c.chunks[0]
	c.chunks = c.chunks[1:]

	return chunk, nil
}

func (c *Client) Write(b []byte) error {
	if c.shutdown || c.closed {
		return net.ErrClosed
	}

	c.written = append(c.written, b...)
	return nil
}

func (c *Client) Shutdown() error {
	c.shutdown = true
	return nil
}

func (*Client) Remote() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 51234}
}

func (c *Client) Close() error {
	c.closed = true
	return nil
}

// Written returns everything written so far.
func (c *Client) Written() []byte {
	return c.written
}

func (c *Client) IsShutdown() bool {
	return c.shutdown
}

func (c *Client) IsClosed() bool {
	return c.closed
}
